package validator

import (
	"context"
	"testing"
	"time"

	"notaria-api-server/internal/audit"
	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/integrity"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	service    *Service
	documents  *memstore.DocumentStore
	signatures *memstore.SignatureStore
	auditStore *memstore.AuditStore
	integrity  *integrity.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

	documents := memstore.NewDocumentStore()
	auditStore := memstore.NewAuditStore()
	integritySvc := &integrity.Service{Now: now}
	trail := audit.NewTrail(auditStore)
	trail.Now = now
	signatures := memstore.NewSignatureStore()

	return &env{
		service: &Service{
			Documents:  documents,
			Evidence:   memstore.NewEvidenceStore(),
			Signatures: signatures,
			Integrity:  integritySvc,
			Trail:      trail,
		},
		documents:  documents,
		signatures: signatures,
		auditStore: auditStore,
		integrity:  integritySvc,
	}
}

// seedDocument inserts a document with a consistent hash and QR token.
func (e *env) seedDocument(t *testing.T, number, status string) *models.Document {
	t.Helper()
	doc := &models.Document{
		DocumentNumber: number,
		ClientName:     "Juan Pérez",
		ClientRUT:      "123456785",
		DocumentTypeID: "poder-simple",
		Status:         status,
		CreatedAt:      time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	hash, err := e.integrity.ComputeHash(integrity.HashInputFor(doc))
	require.NoError(t, err)
	doc.Hash = hash
	token, err := e.integrity.MintValidationToken(hash)
	require.NoError(t, err)
	doc.QRToken = token
	require.NoError(t, e.documents.Insert(context.Background(), doc))
	return doc
}

func (e *env) validationEntries(number string) []models.AuditLogEntry {
	var out []models.AuditLogEntry
	for _, entry := range e.auditStore.All() {
		if entry.Action == audit.ActionDocumentValidated && entry.DocumentNumber == number {
			out = append(out, entry)
		}
	}
	return out
}

// Scenario: scanning the QR of a document that was never signed.
func TestValidatePendingDocument(t *testing.T) {
	e := newEnv(t)
	doc := e.seedDocument(t, "DOC-2026-000001", models.StatusPending)

	res, err := e.service.Validate(context.Background(), doc.QRToken, "200.1.2.3")
	require.NoError(t, err)

	assert.False(t, res.IsValid)
	assert.Equal(t, ReasonNotYetSigned, res.Reason)
	assert.Equal(t, doc.DocumentNumber, res.Document.DocumentNumber)

	entries := e.validationEntries(doc.DocumentNumber)
	require.Len(t, entries, 1)
	assert.Equal(t, "200.1.2.3", entries[0].OriginIP)
	assert.Equal(t, false, entries[0].Detail["isValid"])
}

func TestValidateIsIdempotent(t *testing.T) {
	e := newEnv(t)
	doc := e.seedDocument(t, "DOC-2026-000001", models.StatusCompleted)
	ctx := context.Background()

	first, err := e.service.Validate(ctx, doc.QRToken, "1.1.1.1")
	require.NoError(t, err)
	second, err := e.service.Validate(ctx, doc.QRToken, "1.1.1.1")
	require.NoError(t, err)

	assert.Equal(t, first.IsValid, second.IsValid)
	assert.Equal(t, first.Document.Status, second.Document.Status)
	// Each lookup leaves its own trail entry; nothing else changes.
	assert.Len(t, e.validationEntries(doc.DocumentNumber), 2)
}

func TestValidateByDocumentNumberFallback(t *testing.T) {
	e := newEnv(t)
	doc := e.seedDocument(t, "DOC-2026-000007", models.StatusSigned)

	res, err := e.service.Validate(context.Background(), doc.DocumentNumber, "")
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Reason)
}

func TestValidateStatuses(t *testing.T) {
	cases := []struct {
		status string
		valid  bool
		reason string
	}{
		{models.StatusPending, false, ReasonNotYetSigned},
		{models.StatusSigned, true, ""},
		{models.StatusCompleted, true, ""},
		{models.StatusRejected, false, ReasonRejected},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			e := newEnv(t)
			doc := e.seedDocument(t, "DOC-2026-000001", tc.status)

			res, err := e.service.Validate(context.Background(), doc.QRToken, "")
			require.NoError(t, err)
			assert.Equal(t, tc.valid, res.IsValid)
			assert.Equal(t, tc.reason, res.Reason)
		})
	}
}

// A tampered document fails validation regardless of status.
func TestValidateIntegrityFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// A stored record whose client name was altered after hashing.
	doc := &models.Document{
		DocumentNumber: "DOC-2026-000001",
		ClientName:     "Juan Pérez",
		ClientRUT:      "123456785",
		DocumentTypeID: "poder-simple",
		Status:         models.StatusCompleted,
		CreatedAt:      time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	hash, err := e.integrity.ComputeHash(integrity.HashInputFor(doc))
	require.NoError(t, err)
	doc.Hash = hash
	token, err := e.integrity.MintValidationToken(hash)
	require.NoError(t, err)
	doc.QRToken = token
	doc.ClientName = "Otra Persona"
	require.NoError(t, e.documents.Insert(ctx, doc))

	res, err := e.service.Validate(ctx, doc.QRToken, "")
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Equal(t, ReasonIntegrityFailure, res.Reason)

	entries := e.validationEntries(doc.DocumentNumber)
	require.Len(t, entries, 1)
	assert.Equal(t, false, entries[0].Detail["isValid"])
	assert.Equal(t, ReasonIntegrityFailure, entries[0].Detail["reason"])
}

func TestValidateIncludesEvidenceAndSignatures(t *testing.T) {
	e := newEnv(t)
	doc := e.seedDocument(t, "DOC-2026-000001", models.StatusSigned)
	ctx := context.Background()

	require.NoError(t, e.service.Evidence.Insert(ctx, &models.Evidence{
		DocumentNumber: doc.DocumentNumber, Type: models.EvidencePhoto,
	}))
	require.NoError(t, e.signatures.Insert(ctx, &models.Signature{
		DocumentNumber: doc.DocumentNumber, Kind: models.SignatureSimple, SignerName: "Juan Pérez",
	}))

	res, err := e.service.Validate(ctx, doc.QRToken, "")
	require.NoError(t, err)
	assert.Len(t, res.Evidence, 1)
	assert.Len(t, res.Signatures, 1)
}

// An unresolved code still leaves a trail entry, so probing of QR codes is
// visible in the audit log.
func TestValidateUnknownCode(t *testing.T) {
	e := newEnv(t)
	_, err := e.service.Validate(context.Background(), "FFFFFFFFFFFFFFFF", "9.9.9.9")
	assert.True(t, domerr.Is(err, domerr.CodeNotFound))

	entries := e.auditStore.All()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionDocumentValidated, entries[0].Action)
	assert.Empty(t, entries[0].DocumentNumber)
	assert.Equal(t, "FFFFFFFFFFFFFFFF", entries[0].Detail["code"])
	assert.Equal(t, false, entries[0].Detail["isValid"])
	assert.Equal(t, "9.9.9.9", entries[0].OriginIP)
}
