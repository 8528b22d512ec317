// internal/auth/auth.go
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	TerminalID string `json:"terminalID,omitempty"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// JwtSecret is configured at startup from config; see SetSecret.
var JwtSecret []byte

// SetSecret installs the signing key before the router starts serving.
func SetSecret(secret string) {
	JwtSecret = []byte(secret)
}

func GenerateJWT(email, name, role, terminalID string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)
	claims := &JWTClaims{
		Email:      email,
		Name:       name,
		Role:       role,
		TerminalID: terminalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtSecret)
}
