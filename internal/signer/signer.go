package signer

import (
	"encoding/base64"
	"time"

	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/models"
)

// SimpleSigner accepts a free-form signature payload together with the
// claimed signer identity. No cryptographic verification happens; a non-empty
// payload always succeeds.
type SimpleSigner struct {
	Now func() time.Time
}

func NewSimpleSigner() *SimpleSigner {
	return &SimpleSigner{Now: time.Now}
}

func (s *SimpleSigner) Sign(req Request) (Result, error) {
	if req.Payload == "" {
		return Result{}, domerr.New(domerr.CodeValidation, "signature payload cannot be empty")
	}
	if req.SignerName == "" {
		return Result{}, domerr.New(domerr.CodeValidation, "signer name is required")
	}
	return Result{
		Kind:       models.SignatureSimple,
		Material:   req.Payload,
		SignerName: req.SignerName,
		SignerRUT:  req.SignerRUT,
		SignedAt:   s.Now(),
	}, nil
}

// AdvancedSigner signs through an unlocked hardware-backed credential. PIN
// problems surface as InvalidCredential before the token is contacted; unlock
// and availability problems surface as AuthenticationFailed.
type AdvancedSigner struct {
	Token Capability
	Now   func() time.Time
}

func NewAdvancedSigner(token Capability) *AdvancedSigner {
	return &AdvancedSigner{Token: token, Now: time.Now}
}

func (s *AdvancedSigner) Sign(req Request) (Result, error) {
	if len(req.PIN) < 4 || len(req.PIN) > 16 {
		return Result{}, domerr.New(domerr.CodeInvalidCredential, "PIN must be between 4 and 16 characters")
	}
	if req.DocumentHash == "" {
		return Result{}, domerr.New(domerr.CodeValidation, "document hash is required")
	}
	if req.CertificateID == "" {
		return Result{}, domerr.New(domerr.CodeValidation, "certificate id is required")
	}

	if err := s.Token.CheckAvailability(); err != nil {
		return Result{}, err
	}
	// Implicit unlock: signing never assumes a previous unlock survived.
	if err := s.Token.Unlock(req.PIN); err != nil {
		return Result{}, err
	}

	material, cert, err := s.Token.Sign(req.DocumentHash, req.CertificateID)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Kind:          models.SignatureAdvanced,
		Material:      base64.StdEncoding.EncodeToString(material),
		SignerName:    cert.SubjectName,
		SignerRUT:     cert.SubjectRUT,
		CertificateID: cert.ID,
		SignedAt:      s.Now(),
	}, nil
}

var (
	_ Signer = (*SimpleSigner)(nil)
	_ Signer = (*AdvancedSigner)(nil)
)
