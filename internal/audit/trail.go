// Package audit records every state-changing lifecycle action. The trail is
// forensic: insert-only, never read back for correctness.
package audit

import (
	"context"
	"log"
	"time"

	"notaria-api-server/internal/models"
	"notaria-api-server/internal/store"
)

// Action vocabulary. Downstream consumers depend on these exact strings.
const (
	ActionDocumentCreated          = "document_created"
	ActionEvidenceAdded            = "evidence_added"
	ActionSimpleSignatureAdded     = "simple_signature_added"
	ActionAdvancedSignatureApplied = "advanced_signature_applied"
	ActionDocumentRejected         = "document_rejected"
	ActionDocumentValidated        = "document_validated"
)

// Entry carries what a caller knows about an action; the trail stamps the
// timestamp itself.
type Entry struct {
	Action         string
	DocumentNumber string
	ActorID        string // empty for system/anonymous actions
	OriginIP       string
	Detail         map[string]any
}

type Trail struct {
	Store store.AuditStore
	Now   func() time.Time
}

func NewTrail(s store.AuditStore) *Trail {
	return &Trail{Store: s, Now: time.Now}
}

// Record appends one entry and returns the write error to the caller.
func (t *Trail) Record(ctx context.Context, e Entry) error {
	return t.Store.Append(ctx, &models.AuditLogEntry{
		Action:         e.Action,
		DocumentNumber: e.DocumentNumber,
		ActorID:        e.ActorID,
		Detail:         e.Detail,
		OriginIP:       e.OriginIP,
		CreatedAt:      t.Now(),
	})
}

// RecordBestEffort appends one entry and only logs a failure. Used where the
// primary operation must not be rolled back or failed by a trail problem.
func (t *Trail) RecordBestEffort(ctx context.Context, e Entry) {
	if err := t.Record(ctx, e); err != nil {
		log.Printf("audit: failed to record %s for %s: %v", e.Action, e.DocumentNumber, err)
	}
}

// ListByDocument returns a document's trail in insert order.
func (t *Trail) ListByDocument(ctx context.Context, number string) ([]models.AuditLogEntry, error) {
	return t.Store.ListByDocument(ctx, number)
}
