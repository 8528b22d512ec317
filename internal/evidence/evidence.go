// Package evidence validates and attaches capture artifacts to documents.
// Evidence is append-only and outlives the document's primary views.
package evidence

import (
	"context"
	"math"
	"time"

	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/store"
)

// Bounding box plausible para capturas GPS dentro de Chile continental e
// insular.
const (
	minLatitude  = -56.0
	maxLatitude  = -17.0
	minLongitude = -76.0
	maxLongitude = -66.0
)

type Store struct {
	Documents store.DocumentStore
	Evidence  store.EvidenceStore
	Now       func() time.Time
}

func NewStore(docs store.DocumentStore, ev store.EvidenceStore) *Store {
	return &Store{Documents: docs, Evidence: ev, Now: time.Now}
}

// Attach validates the payload against the per-type schema and inserts one
// evidence record. The document must exist; its status is not touched.
func (s *Store) Attach(ctx context.Context, documentNumber, evType string, payload models.EvidencePayload, capturedBy string) (*models.Evidence, error) {
	if _, err := s.Documents.FindByNumber(ctx, documentNumber); err != nil {
		return nil, err
	}
	if err := validatePayload(evType, payload); err != nil {
		return nil, err
	}

	ev := &models.Evidence{
		DocumentNumber: documentNumber,
		Type:           evType,
		Payload:        payload,
		CapturedBy:     capturedBy,
		CapturedAt:     s.Now(),
	}
	if err := s.Evidence.Insert(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// ListFor returns all evidence for a document in capture order.
func (s *Store) ListFor(ctx context.Context, documentNumber string) ([]models.Evidence, error) {
	if _, err := s.Documents.FindByNumber(ctx, documentNumber); err != nil {
		return nil, err
	}
	return s.Evidence.ListByDocument(ctx, documentNumber)
}

func validatePayload(evType string, p models.EvidencePayload) error {
	switch evType {
	case models.EvidencePhoto, models.EvidenceSignatureImage:
		if p.ImageData == "" && p.PhotoURL == "" {
			return domerr.New(domerr.CodeValidation, "photo evidence requires image data or an uploaded photo URL")
		}
	case models.EvidenceGPS:
		if p.Latitude == nil || p.Longitude == nil {
			return domerr.New(domerr.CodeValidation, "gps evidence requires latitude and longitude")
		}
		lat, lon := *p.Latitude, *p.Longitude
		if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
			return domerr.New(domerr.CodeValidation, "gps coordinates must be finite")
		}
		if lat < minLatitude || lat > maxLatitude || lon < minLongitude || lon > maxLongitude {
			return domerr.New(domerr.CodeValidation, "gps coordinates outside the plausible national bounding box")
		}
	case models.EvidenceVoice, models.EvidenceBiometric:
		if p.Data == "" {
			return domerr.New(domerr.CodeValidation, "evidence data cannot be empty")
		}
	default:
		return domerr.Newf(domerr.CodeValidation, "unknown evidence type %q", evType)
	}
	return nil
}
