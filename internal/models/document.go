package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados del ciclo de vida de un documento.
const (
	StatusPending   = "pending"
	StatusSigned    = "signed"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

type Document struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentNumber string             `bson:"documentNumber" json:"documentNumber"` // e.g., "DOC-2026-000123", immutable
	ClientName     string             `bson:"clientName" json:"clientName"`
	ClientRUT      string             `bson:"clientRUT" json:"clientRUT"` // normalized, e.g., "123456785"
	ClientPhone    string             `bson:"clientPhone,omitempty" json:"clientPhone,omitempty"`
	ClientEmail    string             `bson:"clientEmail,omitempty" json:"clientEmail,omitempty"`
	DocumentTypeID string             `bson:"documentTypeID" json:"documentTypeID"`
	Content        string             `bson:"content" json:"content"` // free-form payload rendered by the POS
	Hash           string             `bson:"hash" json:"hash"`       // immutable once set
	QRToken        string             `bson:"qrToken" json:"qrToken"` // derived from Hash, 16 chars
	Status         string             `bson:"status" json:"status"`
	TerminalID     string             `bson:"terminalID,omitempty" json:"terminalID,omitempty"`
	RejectReason   string             `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	SignedAt       *time.Time         `bson:"signedAt,omitempty" json:"signedAt,omitempty"`
	CompletedAt    *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}
