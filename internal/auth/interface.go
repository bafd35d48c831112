package auth

import "tessera/internal/domain/models"

// JWTVerifier validates bearer tokens so the middleware stays agnostic to
// where signing keys come from
type JWTVerifier interface {
	// VerifyToken validates a token and returns its claims. Any failure is
	// reported as domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases resources such as the JWKS refresh goroutine
	Close() error
}
