package signer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"sync"
	"time"

	"notaria-api-server/internal/domerr"

	"github.com/google/uuid"
)

// SimulatedToken emulates a PIN-protected hardware token holding ECDSA P-256
// signing identities. It is both the shipped mock-hardware implementation and
// the test double behind the Capability interface.
type SimulatedToken struct {
	mu       sync.Mutex
	pin      string
	present  bool
	unlocked bool
	certs    map[string]Certificate
	keys     map[string]*ecdsa.PrivateKey
}

func NewSimulatedToken(pin string) *SimulatedToken {
	return &SimulatedToken{
		pin:     pin,
		present: true,
		certs:   make(map[string]Certificate),
		keys:    make(map[string]*ecdsa.PrivateKey),
	}
}

// AddIdentity mints a fresh P-256 key with a self-issued certificate for the
// given certifier and returns its certificate id.
func (t *SimulatedToken) AddIdentity(subjectName, subjectRUT string) (string, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate signing key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return "", fmt.Errorf("generate certificate serial: %w", err)
	}

	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   subjectName,
			SerialNumber: subjectRUT,
		},
		Issuer:    pkix.Name{CommonName: "Notaria Movil CA (simulada)"},
		NotBefore: time.Now().Add(-time.Minute),
		NotAfter:  time.Now().AddDate(2, 0, 0),
		KeyUsage:  x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return "", fmt.Errorf("create certificate: %w", err)
	}

	certID := uuid.New().String()[:8]
	cert := Certificate{
		ID:           certID,
		SubjectName:  subjectName,
		SubjectRUT:   subjectRUT,
		Issuer:       "Notaria Movil CA (simulada)",
		SerialNumber: serial.String(),
		NotAfter:     template.NotAfter,
		PEM:          string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.certs[certID] = cert
	t.keys[certID] = key
	return certID, nil
}

// SetPresent toggles token presence; tests use it to simulate a pulled token.
func (t *SimulatedToken) SetPresent(present bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.present = present
	if !present {
		t.unlocked = false
	}
}

// Lock relocks the token, forcing the next signing to unlock again.
func (t *SimulatedToken) Lock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unlocked = false
}

// Unlocked reports the unlock state.
func (t *SimulatedToken) Unlocked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unlocked
}

func (t *SimulatedToken) CheckAvailability() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.present {
		return domerr.New(domerr.CodeAuthenticationFailed, "token not present")
	}
	return nil
}

func (t *SimulatedToken) Unlock(pin string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.present {
		return domerr.New(domerr.CodeAuthenticationFailed, "token not present")
	}
	if pin != t.pin {
		t.unlocked = false
		return domerr.New(domerr.CodeAuthenticationFailed, "wrong PIN")
	}
	t.unlocked = true
	return nil
}

func (t *SimulatedToken) ListCertificates() ([]Certificate, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.present {
		return nil, domerr.New(domerr.CodeAuthenticationFailed, "token not present")
	}
	certs := make([]Certificate, 0, len(t.certs))
	for _, c := range t.certs {
		certs = append(certs, c)
	}
	return certs, nil
}

// Sign produces an ASN.1 ECDSA signature over the SHA-256 of the document
// hash. The token must be unlocked.
func (t *SimulatedToken) Sign(documentHash string, certificateID string) ([]byte, Certificate, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.present {
		return nil, Certificate{}, domerr.New(domerr.CodeAuthenticationFailed, "token not present")
	}
	if !t.unlocked {
		return nil, Certificate{}, domerr.New(domerr.CodeAuthenticationFailed, "token is locked")
	}
	cert, ok := t.certs[certificateID]
	if !ok {
		return nil, Certificate{}, domerr.Newf(domerr.CodeNotFound, "certificate %s not found on token", certificateID)
	}

	digest := sha256.Sum256([]byte(documentHash))
	material, err := ecdsa.SignASN1(rand.Reader, t.keys[certificateID], digest[:])
	if err != nil {
		return nil, Certificate{}, fmt.Errorf("token signing failed: %w", err)
	}
	return material, cert, nil
}

var _ Capability = (*SimulatedToken)(nil)
