package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"notaria-api-server/internal/audit"
	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/evidence"
	"notaria-api-server/internal/integrity"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/signer"
	"notaria-api-server/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	terminalActor  = Actor{ID: "pos1@notaria.local", Role: models.RoleTerminal, IP: "10.0.0.5"}
	certifierActor = Actor{ID: "certificador@notaria.local", Role: models.RoleCertifier, IP: "10.0.0.9"}
)

type fixture struct {
	manager    *Manager
	documents  *memstore.DocumentStore
	signatures *memstore.SignatureStore
	auditStore *memstore.AuditStore
	evidences  *memstore.EvidenceStore
	token      *signer.SimulatedToken
	certID     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

	documents := memstore.NewDocumentStore()
	evidences := memstore.NewEvidenceStore()
	signatures := memstore.NewSignatureStore()
	auditStore := memstore.NewAuditStore()
	types := memstore.NewDocumentTypeStore()

	require.NoError(t, types.Insert(context.Background(), &models.DocumentType{
		TypeID: "poder-simple", Name: "Poder Simple", Active: true,
	}))
	require.NoError(t, types.Insert(context.Background(), &models.DocumentType{
		TypeID: "contrato-antiguo", Name: "Contrato Antiguo", Active: false,
	}))

	token := signer.NewSimulatedToken("1234")
	certID, err := token.AddIdentity("María Soto", "111111111")
	require.NoError(t, err)

	integritySvc := &integrity.Service{Now: now}
	trail := audit.NewTrail(auditStore)
	trail.Now = now

	return &fixture{
		manager: &Manager{
			Documents:  documents,
			Signatures: signatures,
			Types:      types,
			Counters:   memstore.NewCounterStore(),
			Evidence:   evidence.NewStore(documents, evidences),
			Integrity:  integritySvc,
			Trail:      trail,
			Simple:     signer.NewSimpleSigner(),
			Advanced:   signer.NewAdvancedSigner(token),
			Now:        now,
		},
		documents:  documents,
		signatures: signatures,
		auditStore: auditStore,
		evidences:  evidences,
		token:      token,
		certID:     certID,
	}
}

func (f *fixture) create(t *testing.T) *models.Document {
	t.Helper()
	doc, err := f.manager.Create(context.Background(), CreateInput{
		ClientName:     "Juan Pérez",
		ClientRUT:      "12.345.678-5",
		DocumentTypeID: "poder-simple",
		Content:        "Otorgo poder simple a...",
		TerminalID:     "POS-SCL-001",
	}, terminalActor)
	require.NoError(t, err)
	return doc
}

func (f *fixture) auditActions(number string) []string {
	var actions []string
	for _, e := range f.auditStore.All() {
		if number == "" || e.DocumentNumber == number {
			actions = append(actions, e.Action)
		}
	}
	return actions
}

func (f *fixture) status(t *testing.T, number string) string {
	t.Helper()
	doc, err := f.documents.FindByNumber(context.Background(), number)
	require.NoError(t, err)
	return doc.Status
}

func TestCreateDocument(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	assert.Equal(t, models.StatusPending, doc.Status)
	assert.Regexp(t, `^DOC-2026-\d{6}$`, doc.DocumentNumber)
	assert.Equal(t, "123456785", doc.ClientRUT)
	assert.NotEmpty(t, doc.Hash)
	assert.NotEmpty(t, doc.QRToken)
	assert.Equal(t, []string{audit.ActionDocumentCreated}, f.auditActions(doc.DocumentNumber))

	// Two documents with identical client fields still get distinct hashes
	// and tokens.
	second := f.create(t)
	assert.NotEqual(t, doc.DocumentNumber, second.DocumentNumber)
	assert.NotEqual(t, doc.Hash, second.Hash)
	assert.NotEqual(t, doc.QRToken, second.QRToken)
}

func TestCreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.manager.Create(ctx, CreateInput{
		ClientName: "Juan Pérez", ClientRUT: "12.345.678-4",
		DocumentTypeID: "poder-simple", Content: "x",
	}, terminalActor)
	assert.True(t, domerr.Is(err, domerr.CodeValidation), "bad RUT: %v", err)

	_, err = f.manager.Create(ctx, CreateInput{
		ClientName: "Juan Pérez", ClientRUT: "12.345.678-5",
		DocumentTypeID: "no-existe", Content: "x",
	}, terminalActor)
	assert.True(t, domerr.Is(err, domerr.CodeValidation), "unknown type: %v", err)

	_, err = f.manager.Create(ctx, CreateInput{
		ClientName: "Juan Pérez", ClientRUT: "12.345.678-5",
		DocumentTypeID: "contrato-antiguo", Content: "x",
	}, terminalActor)
	assert.True(t, domerr.Is(err, domerr.CodeValidation), "inactive type: %v", err)

	assert.Empty(t, f.auditActions(""))
}

func TestAttachEvidenceKeepsStatus(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)
	ctx := context.Background()

	_, err := f.manager.AttachEvidence(ctx, doc.DocumentNumber, models.EvidencePhoto,
		models.EvidencePayload{ImageData: "iVBOR"}, terminalActor)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, f.status(t, doc.DocumentNumber))
	assert.Contains(t, f.auditActions(doc.DocumentNumber), audit.ActionEvidenceAdded)
}

func TestAttachEvidenceOnTerminalStates(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Reject(ctx, doc.DocumentNumber, "cliente no compareció", certifierActor))

	_, err := f.manager.AttachEvidence(ctx, doc.DocumentNumber, models.EvidencePhoto,
		models.EvidencePayload{ImageData: "iVBOR"}, terminalActor)
	assert.True(t, domerr.Is(err, domerr.CodeInvalidTransition))
}

func TestSimpleSignatureTransition(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)
	ctx := context.Background()

	sig, err := f.manager.ApplySimpleSignature(ctx, doc.DocumentNumber, signer.Request{
		Payload: "data:image/png;base64,iVBOR", SignerName: "Juan Pérez", SignerRUT: "123456785",
	}, terminalActor)
	require.NoError(t, err)
	assert.Equal(t, models.SignatureSimple, sig.Kind)

	updated, err := f.documents.FindByNumber(ctx, doc.DocumentNumber)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSigned, updated.Status)
	require.NotNil(t, updated.SignedAt)
	assert.Contains(t, f.auditActions(doc.DocumentNumber), audit.ActionSimpleSignatureAdded)

	// Second simple signature is not a legal transition.
	_, err = f.manager.ApplySimpleSignature(ctx, doc.DocumentNumber, signer.Request{
		Payload: "x", SignerName: "Juan Pérez",
	}, terminalActor)
	assert.True(t, domerr.Is(err, domerr.CodeInvalidTransition))
}

func TestSimpleSignatureEmptyPayload(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	_, err := f.manager.ApplySimpleSignature(context.Background(), doc.DocumentNumber,
		signer.Request{SignerName: "Juan Pérez"}, terminalActor)
	assert.True(t, domerr.Is(err, domerr.CodeValidation))
	assert.Equal(t, models.StatusPending, f.status(t, doc.DocumentNumber))
}

// A signature storage failure aborts the whole transition unit: no status
// change, no audit entry.
func TestSimpleSignatureStorageFailureIsAtomic(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	f.signatures.FailInsert = errors.New("db down")
	_, err := f.manager.ApplySimpleSignature(context.Background(), doc.DocumentNumber, signer.Request{
		Payload: "x", SignerName: "Juan Pérez",
	}, terminalActor)
	require.Error(t, err)

	assert.Equal(t, models.StatusPending, f.status(t, doc.DocumentNumber))
	assert.NotContains(t, f.auditActions(doc.DocumentNumber), audit.ActionSimpleSignatureAdded)
}

func TestAdvancedSignatureFromPendingAndSigned(t *testing.T) {
	for _, preSign := range []bool{false, true} {
		f := newFixture(t)
		doc := f.create(t)
		ctx := context.Background()

		if preSign {
			_, err := f.manager.ApplySimpleSignature(ctx, doc.DocumentNumber, signer.Request{
				Payload: "x", SignerName: "Juan Pérez",
			}, terminalActor)
			require.NoError(t, err)
		}

		sig, err := f.manager.ApplyAdvancedSignature(ctx, doc.DocumentNumber, signer.Request{
			CertificateID: f.certID, PIN: "1234",
		}, certifierActor)
		require.NoError(t, err)
		assert.Equal(t, models.SignatureAdvanced, sig.Kind)
		assert.Equal(t, "María Soto", sig.SignerName)
		assert.Equal(t, certifierActor.ID, sig.CertifierID)

		updated, err := f.documents.FindByNumber(ctx, doc.DocumentNumber)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)
		assert.Contains(t, f.auditActions(doc.DocumentNumber), audit.ActionAdvancedSignatureApplied)
	}
}

// Scenario: an actor without certifier authority attempts an advanced
// signature on a pending document.
func TestAdvancedSignatureRequiresAuthority(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	_, err := f.manager.ApplyAdvancedSignature(context.Background(), doc.DocumentNumber, signer.Request{
		CertificateID: f.certID, PIN: "1234",
	}, terminalActor)
	assert.True(t, domerr.Is(err, domerr.CodeAuthenticationFailed))

	assert.Equal(t, models.StatusPending, f.status(t, doc.DocumentNumber))
	assert.NotContains(t, f.auditActions(doc.DocumentNumber), audit.ActionAdvancedSignatureApplied)
}

func TestAdvancedSignatureWrongPIN(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	_, err := f.manager.ApplyAdvancedSignature(context.Background(), doc.DocumentNumber, signer.Request{
		CertificateID: f.certID, PIN: "0000",
	}, certifierActor)
	assert.True(t, domerr.Is(err, domerr.CodeAuthenticationFailed))
	assert.Equal(t, models.StatusPending, f.status(t, doc.DocumentNumber))
}

func TestAdvancedSignatureShortPIN(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	_, err := f.manager.ApplyAdvancedSignature(context.Background(), doc.DocumentNumber, signer.Request{
		CertificateID: f.certID, PIN: "12",
	}, certifierActor)
	assert.True(t, domerr.Is(err, domerr.CodeInvalidCredential))
}

// Scenario: reject a signed document, then attempt an advanced signature.
func TestRejectSignedDocument(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)
	ctx := context.Background()

	_, err := f.manager.ApplySimpleSignature(ctx, doc.DocumentNumber, signer.Request{
		Payload: "x", SignerName: "Juan Pérez",
	}, terminalActor)
	require.NoError(t, err)

	require.NoError(t, f.manager.Reject(ctx, doc.DocumentNumber, "cliente no compareció", certifierActor))
	assert.Equal(t, models.StatusRejected, f.status(t, doc.DocumentNumber))

	var rejectDetail map[string]any
	for _, e := range f.auditStore.All() {
		if e.Action == audit.ActionDocumentRejected {
			rejectDetail = e.Detail
		}
	}
	require.NotNil(t, rejectDetail)
	assert.Equal(t, "cliente no compareció", rejectDetail["reason"])

	_, err = f.manager.ApplyAdvancedSignature(ctx, doc.DocumentNumber, signer.Request{
		CertificateID: f.certID, PIN: "1234",
	}, certifierActor)
	assert.True(t, domerr.Is(err, domerr.CodeInvalidTransition))
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	err := f.manager.Reject(context.Background(), doc.DocumentNumber, "", certifierActor)
	assert.True(t, domerr.Is(err, domerr.CodeValidation))
	assert.Equal(t, models.StatusPending, f.status(t, doc.DocumentNumber))
}

func TestNoTransitionsOutOfTerminalStates(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)
	ctx := context.Background()

	_, err := f.manager.ApplyAdvancedSignature(ctx, doc.DocumentNumber, signer.Request{
		CertificateID: f.certID, PIN: "1234",
	}, certifierActor)
	require.NoError(t, err)

	// completed admits nothing further.
	_, err = f.manager.ApplySimpleSignature(ctx, doc.DocumentNumber, signer.Request{
		Payload: "x", SignerName: "Juan Pérez",
	}, terminalActor)
	assert.True(t, domerr.Is(err, domerr.CodeInvalidTransition))

	err = f.manager.Reject(ctx, doc.DocumentNumber, "tarde", certifierActor)
	assert.True(t, domerr.Is(err, domerr.CodeInvalidTransition))
	assert.Equal(t, models.StatusCompleted, f.status(t, doc.DocumentNumber))
}

// An audit write failure never rolls back a committed transition.
func TestAuditFailureDoesNotRollBackTransition(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	f.auditStore.FailAppend = errors.New("audit store down")
	_, err := f.manager.ApplySimpleSignature(context.Background(), doc.DocumentNumber, signer.Request{
		Payload: "x", SignerName: "Juan Pérez",
	}, terminalActor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSigned, f.status(t, doc.DocumentNumber))
}

func TestListDocuments(t *testing.T) {
	f := newFixture(t)
	f.create(t)
	doc := f.create(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Reject(ctx, doc.DocumentNumber, "datos incompletos", certifierActor))

	pending, err := f.manager.List(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := f.manager.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.manager.List(ctx, "archived")
	assert.True(t, domerr.Is(err, domerr.CodeValidation))
}
