package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role mirrors the roles the identity provider stamps into tokens.
type Role string

const (
	RoleCustomer     Role = "customer"
	RolePractitioner Role = "practitioner"
	RoleAdmin        Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RolePractitioner, RoleAdmin:
		return true
	default:
		return false
	}
}

// AccessTokenClaims represents the typed JWT minted by the identity provider.
// The platform only verifies tokens; it never issues them.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	jwt.RegisteredClaims
}
