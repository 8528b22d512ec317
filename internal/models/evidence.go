package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tipos de evidencia soportados.
const (
	EvidencePhoto          = "photo"
	EvidenceGPS            = "gps"
	EvidenceVoice          = "voice"
	EvidenceBiometric      = "biometric"
	EvidenceSignatureImage = "signature-image"
)

// Evidence is append-only: no updates or deletes after capture. It survives
// the document leaving primary views.
type Evidence struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentNumber string             `bson:"documentNumber" json:"documentNumber"`
	Type           string             `bson:"type" json:"type"`
	Payload        EvidencePayload    `bson:"payload" json:"payload"`
	CapturedBy     string             `bson:"capturedBy,omitempty" json:"capturedBy,omitempty"`
	CapturedAt     time.Time          `bson:"capturedAt" json:"capturedAt"`
}

// EvidencePayload holds the type-specific fields; only the ones matching the
// evidence type are set.
type EvidencePayload struct {
	// photo / signature-image
	PhotoURL  string `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	PhotoHash string `bson:"photoHash,omitempty" json:"photoHash,omitempty"`
	ImageData string `bson:"imageData,omitempty" json:"imageData,omitempty"` // base64, when not uploaded to S3
	// gps
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
	// voice / biometric
	Data   string `bson:"data,omitempty" json:"data,omitempty"` // base64 opaque blob
	Format string `bson:"format,omitempty" json:"format,omitempty"`
}
