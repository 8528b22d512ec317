package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Terminal struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TerminalID string             `bson:"terminalID" json:"terminalID"` // e.g., "POS-SCL-001"
	Name       string             `bson:"name" json:"name"`             // e.g., "Notaría Providencia, módulo 1"
	Location   string             `bson:"location,omitempty" json:"location,omitempty"`
	Status     string             `bson:"status" json:"status"` // "active" | "inactive"
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
