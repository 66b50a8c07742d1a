// Package token issues and validates the JWTs the two services use to
// authenticate to each other. Tokens are short-lived HS256 with the calling
// service name as subject.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/smakki/FinanceManager-sub000/internal/platform/middleware"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

const defaultTTL = 5 * time.Minute

// Claims carried by a service token.
type Claims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

// Manager signs and validates service tokens with a shared symmetric key.
type Manager struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// NewManager builds a Manager. An empty signing key returns nil, which
// callers treat as "auth disabled".
func NewManager(signingKey, issuer string) *Manager {
	if signingKey == "" {
		return nil
	}
	return &Manager{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        defaultTTL,
	}
}

// Mint issues a token identifying the given service.
func (m *Manager) Mint(service string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Service: service,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   service,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	})
	return t.SignedString(m.signingKey)
}

// ValidateToken implements middleware.TokenValidator.
func (m *Manager) ValidateToken(tokenString string) (*middleware.ServiceClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Service == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no service claim")
	}

	return &middleware.ServiceClaims{Service: claims.Service}, nil
}
