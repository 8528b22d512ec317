package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/models"

	"github.com/google/uuid"
)

// Service mints content hashes and QR validation tokens. It is pure apart
// from the injected clock, so tests can pin timestamps.
type Service struct {
	Now func() time.Time
}

func NewService() *Service {
	return &Service{Now: time.Now}
}

// HashInput is the stable subset of document fields covered by the hash.
// Content changes after hashing are detected by recomputing over this subset.
type HashInput struct {
	DocumentNumber string
	ClientName     string
	ClientRUT      string
	DocumentTypeID string
	CreatedAt      time.Time
}

// ComputeHash returns a deterministic SHA-256 over the hash subset, hex
// encoded. Identical inputs always produce identical output.
func (s *Service) ComputeHash(in HashInput) (string, error) {
	if in.DocumentNumber == "" || in.ClientName == "" || in.ClientRUT == "" || in.DocumentTypeID == "" {
		return "", domerr.New(domerr.CodeValidation, "missing required hashing fields")
	}
	if in.CreatedAt.IsZero() {
		return "", domerr.New(domerr.CodeValidation, "missing creation timestamp")
	}

	material := fmt.Sprintf("%s|%s|%s|%s|%s",
		in.DocumentNumber,
		in.ClientName,
		in.ClientRUT,
		in.DocumentTypeID,
		in.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:]), nil
}

// HashInputFor builds the hash subset from a stored document.
func HashInputFor(doc *models.Document) HashInput {
	return HashInput{
		DocumentNumber: doc.DocumentNumber,
		ClientName:     doc.ClientName,
		ClientRUT:      doc.ClientRUT,
		DocumentTypeID: doc.DocumentTypeID,
		CreatedAt:      doc.CreatedAt,
	}
}

// MintValidationToken derives a 16-character uppercase hex token from the
// hash plus the mint timestamp and a random salt, so two documents with
// identical content still get distinct public codes.
func (s *Service) MintValidationToken(hash string) (string, error) {
	if hash == "" {
		return "", domerr.New(domerr.CodeValidation, "cannot mint token without a hash")
	}

	material := fmt.Sprintf("%s|%d|%s", hash, s.Now().UnixNano(), uuid.New().String())
	sum := sha256.Sum256([]byte(material))
	token := hex.EncodeToString(sum[:])[:16]
	return strings.ToUpper(token), nil
}
