package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentType struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TypeID   string             `bson:"typeID" json:"typeID"` // e.g., "poder-simple"
	Name     string             `bson:"name" json:"name"`     // e.g., "Poder Simple"
	Template string             `bson:"template,omitempty" json:"template,omitempty"`
	Active   bool               `bson:"active" json:"active"`
	// RequiresAdvanced marca los tipos que sólo valen con firma avanzada.
	RequiresAdvanced bool      `bson:"requiresAdvanced" json:"requiresAdvanced"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}
