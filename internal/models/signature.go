package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tipos de firma.
const (
	SignatureSimple   = "simple"
	SignatureAdvanced = "advanced"
)

// Signature records one signing attempt. Historical attempts are retained;
// the lifecycle manager decides which one is authoritative.
type Signature struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentNumber string             `bson:"documentNumber" json:"documentNumber"`
	Kind           string             `bson:"kind" json:"kind"` // "simple" | "advanced"
	SignerName     string             `bson:"signerName" json:"signerName"`
	SignerRUT      string             `bson:"signerRUT,omitempty" json:"signerRUT,omitempty"` // empty for advanced: taken from certificate
	Material       string             `bson:"material" json:"material"`                       // serialized signature material
	CertificateID  string             `bson:"certificateID,omitempty" json:"certificateID,omitempty"`
	CertifierID    string             `bson:"certifierID,omitempty" json:"certifierID,omitempty"` // authenticated certifier, advanced only
	OriginIP       string             `bson:"originIP,omitempty" json:"originIP,omitempty"`
	ClientAgent    string             `bson:"clientAgent,omitempty" json:"clientAgent,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
