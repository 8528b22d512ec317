// Package validator resolves a public QR token or document number to the
// document's current certification state. It never mutates document,
// evidence or signature data; every lookup leaves one audit entry.
package validator

import (
	"context"
	"log"

	"notaria-api-server/internal/audit"
	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/integrity"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/store"
)

// Result is what the public validation endpoint returns.
type Result struct {
	Document   *models.Document   `json:"document"`
	Evidence   []models.Evidence  `json:"evidence"`
	Signatures []models.Signature `json:"signatures"`
	IsValid    bool               `json:"isValid"`
	// Reason is set when IsValid is false: "not_yet_signed",
	// "rejected" or "integrity_failure".
	Reason string `json:"reason,omitempty"`
}

const (
	ReasonNotYetSigned     = "not_yet_signed"
	ReasonRejected         = "rejected"
	ReasonIntegrityFailure = "integrity_failure"
)

type Service struct {
	Documents  store.DocumentStore
	Evidence   store.EvidenceStore
	Signatures store.SignatureStore
	Integrity  *integrity.Service
	Trail      *audit.Trail
}

// Validate looks up a document by QR token first, then by document number.
// The document_validated audit entry is fire-and-forget: a logging failure
// never fails the response.
func (s *Service) Validate(ctx context.Context, code, originIP string) (*Result, error) {
	doc, err := s.Documents.FindByQRToken(ctx, code)
	if err != nil {
		if !domerr.Is(err, domerr.CodeNotFound) {
			return nil, err
		}
		doc, err = s.Documents.FindByNumber(ctx, code)
		if err != nil {
			if domerr.Is(err, domerr.CodeNotFound) {
				// The attempt is recorded even when nothing resolves, so
				// probing of codes leaves a trace.
				s.Trail.RecordBestEffort(ctx, audit.Entry{
					Action:   audit.ActionDocumentValidated,
					OriginIP: originIP,
					Detail:   map[string]any{"code": code, "isValid": false},
				})
			}
			return nil, err
		}
	}

	ev, err := s.Evidence.ListByDocument(ctx, doc.DocumentNumber)
	if err != nil {
		return nil, err
	}
	sigs, err := s.Signatures.ListByDocument(ctx, doc.DocumentNumber)
	if err != nil {
		return nil, err
	}

	result := &Result{Document: doc, Evidence: ev, Signatures: sigs}

	recomputed, err := s.Integrity.ComputeHash(integrity.HashInputFor(doc))
	switch {
	case err != nil || recomputed != doc.Hash:
		// Never silently ignored: logged and surfaced as a non-valid result.
		ierr := domerr.Wrap(domerr.CodeIntegrityFailure, "stored hash for "+doc.DocumentNumber+" does not match recomputation", err)
		log.Printf("validator: %v", ierr)
		result.IsValid = false
		result.Reason = ReasonIntegrityFailure
	case doc.Status == models.StatusPending:
		result.IsValid = false
		result.Reason = ReasonNotYetSigned
	case doc.Status == models.StatusRejected:
		result.IsValid = false
		result.Reason = ReasonRejected
	default: // signed or completed
		result.IsValid = true
	}

	detail := map[string]any{"code": code, "isValid": result.IsValid}
	if result.Reason != "" {
		detail["reason"] = result.Reason
	}
	s.Trail.RecordBestEffort(ctx, audit.Entry{
		Action:         audit.ActionDocumentValidated,
		DocumentNumber: doc.DocumentNumber,
		OriginIP:       originIP,
		Detail:         detail,
	})
	return result, nil
}
