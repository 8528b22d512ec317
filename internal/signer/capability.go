// Package signer abstracts signature production. The core never touches
// hardware: it talks to a Capability, and the shipped implementation is a
// simulated cryptographic token.
package signer

import "time"

// Certificate is the public identity data of a signing certificate held by
// the token.
type Certificate struct {
	ID           string    `json:"id"`
	SubjectName  string    `json:"subjectName"`
	SubjectRUT   string    `json:"subjectRUT"`
	Issuer       string    `json:"issuer"`
	SerialNumber string    `json:"serialNumber"`
	NotAfter     time.Time `json:"notAfter"`
	PEM          string    `json:"pem"`
}

// Capability is the surface a hardware-backed credential exposes. A real
// PKCS#11 driver and the simulated token both sit behind it.
type Capability interface {
	CheckAvailability() error
	Unlock(pin string) error
	ListCertificates() ([]Certificate, error)
	Sign(documentHash string, certificateID string) ([]byte, Certificate, error)
}

// Request carries everything either signer variant may need. Simple signing
// reads Payload/SignerName/SignerRUT; advanced signing reads
// DocumentHash/CertificateID/PIN.
type Request struct {
	DocumentHash  string
	Payload       string // rendered signature image or equivalent, simple only
	SignerName    string
	SignerRUT     string
	CertificateID string
	PIN           string
}

// Result is the signature material plus the identity it binds to.
type Result struct {
	Kind          string // models.SignatureSimple | models.SignatureAdvanced
	Material      string
	SignerName    string
	SignerRUT     string
	CertificateID string
	SignedAt      time.Time
}

// Signer is the single sign contract shared by the simple and advanced
// variants; the lifecycle manager dispatches on required authority level.
type Signer interface {
	Sign(req Request) (Result, error)
}
