package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogEntry is insert-only and weakly references the document by number:
// the document can disappear from primary views, the trail stays.
type AuditLogEntry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action         string             `bson:"action" json:"action"`
	DocumentNumber string             `bson:"documentNumber,omitempty" json:"documentNumber,omitempty"`
	ActorID        string             `bson:"actorID,omitempty" json:"actorID,omitempty"` // empty for system/anonymous actions
	Detail         map[string]any     `bson:"detail,omitempty" json:"detail,omitempty"`
	OriginIP       string             `bson:"originIP,omitempty" json:"originIP,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
