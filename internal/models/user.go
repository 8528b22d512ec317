package models

// Roles de usuario.
const (
	RoleAdmin     = "admin"
	RoleCertifier = "certifier"
	RoleTerminal  = "terminal"
)

// User struct matches the document in MongoDB
type User struct {
	Email      string `bson:"email" json:"email"`
	Name       string `bson:"name" json:"name"`
	Password   string `bson:"password" json:"-"`
	Role       string `bson:"role" json:"role"`
	TerminalID string `bson:"terminalID,omitempty" json:"terminalID,omitempty"` // set for terminal operators
	Status     string `bson:"status" json:"status"`
}
