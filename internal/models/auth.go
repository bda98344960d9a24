package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role grants access to protected timetable operations.
type Role string

const (
	// RoleAdmin may reload the roster and request exports.
	RoleAdmin Role = "ADMIN"
	// RoleViewer may read timetables and reports.
	RoleViewer Role = "VIEWER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}
