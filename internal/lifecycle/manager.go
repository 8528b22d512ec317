// Package lifecycle owns the document state machine:
//
//	pending -> signed (simple) -> completed (advanced)
//	pending|signed -> rejected
//
// completed and rejected are terminal. Evidence and signature writes belong
// to the transition unit and abort it on failure; audit is written last and
// is best-effort.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"notaria-api-server/internal/audit"
	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/evidence"
	"notaria-api-server/internal/integrity"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/rut"
	"notaria-api-server/internal/signer"
	"notaria-api-server/internal/store"
)

// Actor identifies who drives a transition. Role gates advanced signing.
type Actor struct {
	ID    string
	Role  string
	IP    string
	Agent string
}

// HasCertifierAuthority reports whether the actor may apply advanced
// signatures.
func (a Actor) HasCertifierAuthority() bool {
	return a.Role == models.RoleCertifier || a.Role == models.RoleAdmin
}

type Manager struct {
	Documents  store.DocumentStore
	Signatures store.SignatureStore
	Types      store.DocumentTypeStore
	Counters   store.CounterStore
	Evidence   *evidence.Store
	Integrity  *integrity.Service
	Trail      *audit.Trail
	Simple     signer.Signer
	Advanced   signer.Signer
	Now        func() time.Time
}

type CreateInput struct {
	ClientName     string
	ClientRUT      string
	ClientPhone    string
	ClientEmail    string
	DocumentTypeID string
	Content        string
	TerminalID     string
}

// Create validates the client identity, mints the document number, hash and
// QR token, and inserts the document in pending status.
func (m *Manager) Create(ctx context.Context, in CreateInput, actor Actor) (*models.Document, error) {
	if in.ClientName == "" {
		return nil, domerr.New(domerr.CodeValidation, "client name is required")
	}
	if !rut.IsValid(in.ClientRUT) {
		return nil, domerr.New(domerr.CodeValidation, "invalid RUT check digit")
	}
	docType, err := m.Types.FindByTypeID(ctx, in.DocumentTypeID)
	if err != nil {
		if domerr.Is(err, domerr.CodeNotFound) {
			return nil, domerr.Newf(domerr.CodeValidation, "unknown document type %q", in.DocumentTypeID)
		}
		return nil, err
	}
	if !docType.Active {
		return nil, domerr.Newf(domerr.CodeValidation, "document type %q is inactive", in.DocumentTypeID)
	}

	seq, err := m.Counters.Next(ctx, "documents")
	if err != nil {
		return nil, domerr.Wrap(domerr.CodeInternal, "allocate document number", err)
	}
	now := m.Now()
	doc := &models.Document{
		DocumentNumber: fmt.Sprintf("DOC-%d-%06d", now.Year(), seq),
		ClientName:     in.ClientName,
		ClientRUT:      rut.Normalize(in.ClientRUT),
		ClientPhone:    in.ClientPhone,
		ClientEmail:    in.ClientEmail,
		DocumentTypeID: in.DocumentTypeID,
		Content:        in.Content,
		Status:         models.StatusPending,
		TerminalID:     in.TerminalID,
		CreatedAt:      now,
	}

	hash, err := m.Integrity.ComputeHash(integrity.HashInputFor(doc))
	if err != nil {
		return nil, err
	}
	doc.Hash = hash

	token, err := m.Integrity.MintValidationToken(hash)
	if err != nil {
		return nil, err
	}
	doc.QRToken = token

	if err := m.Documents.Insert(ctx, doc); err != nil {
		return nil, err
	}

	m.Trail.RecordBestEffort(ctx, audit.Entry{
		Action:         audit.ActionDocumentCreated,
		DocumentNumber: doc.DocumentNumber,
		ActorID:        actor.ID,
		OriginIP:       actor.IP,
		Detail: map[string]any{
			"documentTypeID": in.DocumentTypeID,
			"terminalID":     in.TerminalID,
		},
	})
	return doc, nil
}

// AttachEvidence stores one evidence record against a pending document.
// Status never changes.
func (m *Manager) AttachEvidence(ctx context.Context, documentNumber, evType string, payload models.EvidencePayload, actor Actor) (*models.Evidence, error) {
	doc, err := m.Documents.FindByNumber(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.StatusPending {
		return nil, domerr.Newf(domerr.CodeInvalidTransition, "cannot attach evidence to a %s document", doc.Status)
	}

	ev, err := m.Evidence.Attach(ctx, documentNumber, evType, payload, actor.ID)
	if err != nil {
		return nil, err
	}

	m.Trail.RecordBestEffort(ctx, audit.Entry{
		Action:         audit.ActionEvidenceAdded,
		DocumentNumber: documentNumber,
		ActorID:        actor.ID,
		OriginIP:       actor.IP,
		Detail:         map[string]any{"type": evType},
	})
	return ev, nil
}

// ApplySimpleSignature moves pending -> signed. The signature write happens
// before the status write; a storage failure leaves status untouched and
// writes no audit entry.
func (m *Manager) ApplySimpleSignature(ctx context.Context, documentNumber string, req signer.Request, actor Actor) (*models.Signature, error) {
	doc, err := m.Documents.FindByNumber(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.StatusPending {
		return nil, domerr.Newf(domerr.CodeInvalidTransition, "simple signature requires a pending document, got %s", doc.Status)
	}

	result, err := m.Simple.Sign(req)
	if err != nil {
		return nil, err
	}

	sig := m.toSignature(documentNumber, result, actor)
	if err := m.Signatures.Insert(ctx, sig); err != nil {
		return nil, err
	}

	signedAt := result.SignedAt
	if err := m.Documents.UpdateStatus(ctx, documentNumber, store.StatusUpdate{
		Status:   models.StatusSigned,
		SignedAt: &signedAt,
	}); err != nil {
		return nil, err
	}

	m.Trail.RecordBestEffort(ctx, audit.Entry{
		Action:         audit.ActionSimpleSignatureAdded,
		DocumentNumber: documentNumber,
		ActorID:        actor.ID,
		OriginIP:       actor.IP,
		Detail:         map[string]any{"signerName": result.SignerName},
	})
	return sig, nil
}

// ApplyAdvancedSignature moves pending|signed -> completed. The actor must
// hold certifier authority and the token must unlock with the supplied PIN.
// Re-signing is allowed; the most recent advanced signature is authoritative.
func (m *Manager) ApplyAdvancedSignature(ctx context.Context, documentNumber string, req signer.Request, actor Actor) (*models.Signature, error) {
	doc, err := m.Documents.FindByNumber(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.StatusPending && doc.Status != models.StatusSigned {
		return nil, domerr.Newf(domerr.CodeInvalidTransition, "advanced signature not allowed from %s", doc.Status)
	}
	if !actor.HasCertifierAuthority() {
		return nil, domerr.New(domerr.CodeAuthenticationFailed, "certifier authority required for advanced signature")
	}

	req.DocumentHash = doc.Hash
	result, err := m.Advanced.Sign(req)
	if err != nil {
		return nil, err
	}

	sig := m.toSignature(documentNumber, result, actor)
	sig.CertifierID = actor.ID
	if err := m.Signatures.Insert(ctx, sig); err != nil {
		return nil, err
	}

	completedAt := result.SignedAt
	if err := m.Documents.UpdateStatus(ctx, documentNumber, store.StatusUpdate{
		Status:      models.StatusCompleted,
		CompletedAt: &completedAt,
	}); err != nil {
		return nil, err
	}

	m.Trail.RecordBestEffort(ctx, audit.Entry{
		Action:         audit.ActionAdvancedSignatureApplied,
		DocumentNumber: documentNumber,
		ActorID:        actor.ID,
		OriginIP:       actor.IP,
		Detail: map[string]any{
			"certificateID": result.CertificateID,
			"signerName":    result.SignerName,
		},
	})
	return sig, nil
}

// Reject moves pending|signed -> rejected. A reason is mandatory; rejection
// is terminal, never a deletion.
func (m *Manager) Reject(ctx context.Context, documentNumber, reason string, actor Actor) error {
	if reason == "" {
		return domerr.New(domerr.CodeValidation, "rejection reason is required")
	}
	doc, err := m.Documents.FindByNumber(ctx, documentNumber)
	if err != nil {
		return err
	}
	if doc.Status != models.StatusPending && doc.Status != models.StatusSigned {
		return domerr.Newf(domerr.CodeInvalidTransition, "cannot reject a %s document", doc.Status)
	}

	if err := m.Documents.UpdateStatus(ctx, documentNumber, store.StatusUpdate{
		Status:       models.StatusRejected,
		RejectReason: reason,
	}); err != nil {
		return err
	}

	m.Trail.RecordBestEffort(ctx, audit.Entry{
		Action:         audit.ActionDocumentRejected,
		DocumentNumber: documentNumber,
		ActorID:        actor.ID,
		OriginIP:       actor.IP,
		Detail:         map[string]any{"reason": reason},
	})
	return nil
}

// Get returns a single document by number.
func (m *Manager) Get(ctx context.Context, documentNumber string) (*models.Document, error) {
	return m.Documents.FindByNumber(ctx, documentNumber)
}

// List returns documents, optionally filtered by status.
func (m *Manager) List(ctx context.Context, status string) ([]models.Document, error) {
	if status != "" {
		switch status {
		case models.StatusPending, models.StatusSigned, models.StatusCompleted, models.StatusRejected:
		default:
			return nil, domerr.Newf(domerr.CodeValidation, "unknown status %q", status)
		}
	}
	return m.Documents.List(ctx, status)
}

func (m *Manager) toSignature(documentNumber string, result signer.Result, actor Actor) *models.Signature {
	return &models.Signature{
		DocumentNumber: documentNumber,
		Kind:           result.Kind,
		SignerName:     result.SignerName,
		SignerRUT:      result.SignerRUT,
		Material:       result.Material,
		CertificateID:  result.CertificateID,
		OriginIP:       actor.IP,
		ClientAgent:    actor.Agent,
		CreatedAt:      result.SignedAt,
	}
}
