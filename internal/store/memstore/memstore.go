// Package memstore holds in-memory implementations of the store ports.
// They back the service tests and any run without a Mongo instance.
package memstore

import (
	"context"
	"sync"

	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/store"
)

type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]models.Document // keyed by document number
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]models.Document)}
}

func (s *DocumentStore) Insert(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.DocumentNumber]; ok {
		return domerr.Newf(domerr.CodeValidation, "document %s already exists", doc.DocumentNumber)
	}
	s.docs[doc.DocumentNumber] = *doc
	return nil
}

func (s *DocumentStore) FindByNumber(_ context.Context, number string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[number]
	if !ok {
		return nil, domerr.Newf(domerr.CodeNotFound, "document %s not found", number)
	}
	return &doc, nil
}

func (s *DocumentStore) FindByQRToken(_ context.Context, token string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.docs {
		if doc.QRToken == token {
			d := doc
			return &d, nil
		}
	}
	return nil, domerr.New(domerr.CodeNotFound, "no document for token")
}

func (s *DocumentStore) List(_ context.Context, status string) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Document{}
	for _, doc := range s.docs {
		if status == "" || doc.Status == status {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *DocumentStore) UpdateStatus(_ context.Context, number string, upd store.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[number]
	if !ok {
		return domerr.Newf(domerr.CodeNotFound, "document %s not found", number)
	}
	doc.Status = upd.Status
	if upd.SignedAt != nil {
		doc.SignedAt = upd.SignedAt
	}
	if upd.CompletedAt != nil {
		doc.CompletedAt = upd.CompletedAt
	}
	if upd.RejectReason != "" {
		doc.RejectReason = upd.RejectReason
	}
	s.docs[number] = doc
	return nil
}

type EvidenceStore struct {
	mu    sync.RWMutex
	items map[string][]models.Evidence

	// FailInsert forces Insert to fail; used to exercise the atomicity
	// contract in lifecycle tests.
	FailInsert error
}

func NewEvidenceStore() *EvidenceStore {
	return &EvidenceStore{items: make(map[string][]models.Evidence)}
}

func (s *EvidenceStore) Insert(_ context.Context, ev *models.Evidence) error {
	if s.FailInsert != nil {
		return s.FailInsert
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[ev.DocumentNumber] = append(s.items[ev.DocumentNumber], *ev)
	return nil
}

func (s *EvidenceStore) ListByDocument(_ context.Context, number string) ([]models.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Evidence{}, s.items[number]...), nil
}

type SignatureStore struct {
	mu    sync.RWMutex
	items map[string][]models.Signature

	FailInsert error
}

func NewSignatureStore() *SignatureStore {
	return &SignatureStore{items: make(map[string][]models.Signature)}
}

func (s *SignatureStore) Insert(_ context.Context, sig *models.Signature) error {
	if s.FailInsert != nil {
		return s.FailInsert
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sig.DocumentNumber] = append(s.items[sig.DocumentNumber], *sig)
	return nil
}

func (s *SignatureStore) ListByDocument(_ context.Context, number string) ([]models.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Signature{}, s.items[number]...), nil
}

type AuditStore struct {
	mu      sync.RWMutex
	entries []models.AuditLogEntry

	FailAppend error
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Append(_ context.Context, entry *models.AuditLogEntry) error {
	if s.FailAppend != nil {
		return s.FailAppend
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *AuditStore) ListByDocument(_ context.Context, number string) ([]models.AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.AuditLogEntry{}
	for _, e := range s.entries {
		if e.DocumentNumber == number {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every entry regardless of document; test helper.
func (s *AuditStore) All() []models.AuditLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AuditLogEntry{}, s.entries...)
}

type CounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewCounterStore() *CounterStore {
	return &CounterStore{counters: make(map[string]int64)}
}

func (s *CounterStore) Next(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
	return s.counters[name], nil
}

type DocumentTypeStore struct {
	mu    sync.RWMutex
	types map[string]models.DocumentType
}

func NewDocumentTypeStore() *DocumentTypeStore {
	return &DocumentTypeStore{types: make(map[string]models.DocumentType)}
}

func (s *DocumentTypeStore) FindByTypeID(_ context.Context, typeID string) (*models.DocumentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dt, ok := s.types[typeID]
	if !ok {
		return nil, domerr.Newf(domerr.CodeNotFound, "document type %s not found", typeID)
	}
	return &dt, nil
}

func (s *DocumentTypeStore) List(_ context.Context) ([]models.DocumentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.DocumentType{}
	for _, dt := range s.types {
		out = append(out, dt)
	}
	return out, nil
}

func (s *DocumentTypeStore) Insert(_ context.Context, dt *models.DocumentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[dt.TypeID] = *dt
	return nil
}

func (s *DocumentTypeStore) Update(_ context.Context, dt *models.DocumentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[dt.TypeID]; !ok {
		return domerr.Newf(domerr.CodeNotFound, "document type %s not found", dt.TypeID)
	}
	s.types[dt.TypeID] = *dt
	return nil
}

var (
	_ store.DocumentStore     = (*DocumentStore)(nil)
	_ store.EvidenceStore     = (*EvidenceStore)(nil)
	_ store.SignatureStore    = (*SignatureStore)(nil)
	_ store.AuditStore        = (*AuditStore)(nil)
	_ store.CounterStore      = (*CounterStore)(nil)
	_ store.DocumentTypeStore = (*DocumentTypeStore)(nil)
)
