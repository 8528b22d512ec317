// Package store defines the persistence ports used by the core services.
// mongostore is the production implementation; memstore backs the tests.
package store

import (
	"context"
	"time"

	"notaria-api-server/internal/models"
)

// StatusUpdate is applied atomically to one document's lifecycle fields.
// Only non-zero fields are written; Hash, QRToken and DocumentNumber are
// never touched after insert.
type StatusUpdate struct {
	Status       string
	SignedAt     *time.Time
	CompletedAt  *time.Time
	RejectReason string
}

type DocumentStore interface {
	Insert(ctx context.Context, doc *models.Document) error
	FindByNumber(ctx context.Context, number string) (*models.Document, error)
	FindByQRToken(ctx context.Context, token string) (*models.Document, error)
	List(ctx context.Context, status string) ([]models.Document, error)
	UpdateStatus(ctx context.Context, number string, upd StatusUpdate) error
}

// EvidenceStore is append-only: no update or delete surface exists.
type EvidenceStore interface {
	Insert(ctx context.Context, ev *models.Evidence) error
	ListByDocument(ctx context.Context, number string) ([]models.Evidence, error)
}

type SignatureStore interface {
	Insert(ctx context.Context, sig *models.Signature) error
	ListByDocument(ctx context.Context, number string) ([]models.Signature, error)
}

// AuditStore is insert-only; entries are never updated or joined for
// correctness.
type AuditStore interface {
	Append(ctx context.Context, entry *models.AuditLogEntry) error
	ListByDocument(ctx context.Context, number string) ([]models.AuditLogEntry, error)
}

// CounterStore hands out monotonically increasing sequence values per name,
// used for document numbering.
type CounterStore interface {
	Next(ctx context.Context, name string) (int64, error)
}

type DocumentTypeStore interface {
	FindByTypeID(ctx context.Context, typeID string) (*models.DocumentType, error)
	List(ctx context.Context) ([]models.DocumentType, error)
	Insert(ctx context.Context, dt *models.DocumentType) error
	Update(ctx context.Context, dt *models.DocumentType) error
}
