package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the access token payload accepted by the API.
// The subject is the user ID that owns workspaces.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim
func (c *Claims) GetUserID() string {
	return c.Subject
}
