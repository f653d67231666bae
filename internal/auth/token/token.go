// Package token issues and verifies the signed access tokens that identify
// callers to the API.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/taskway/internal/auth/domain"
	"github.com/smallbiznis/taskway/internal/config"
)

const (
	issuerName = "taskway"
	audience   = "taskway-api"
)

// Issuer signs and verifies HS256 access tokens carrying the user's email as
// subject.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(cfg config.Config) *Issuer {
	ttl := time.Duration(cfg.AuthTokenTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{
		secret: []byte(cfg.AuthJWTSecret),
		ttl:    ttl,
	}
}

// Issue returns a signed token for the given email.
func (i *Issuer) Issue(email string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    issuerName,
		Subject:   strings.ToLower(strings.TrimSpace(email)),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses a raw token and returns the subject email. Signature,
// issuer, audience and expiry are all checked.
func (i *Issuer) Verify(raw string) (string, error) {
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, domain.ErrInvalidToken
			}
			return i.secret, nil
		},
		jwt.WithIssuer(issuerName),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || strings.TrimSpace(claims.Subject) == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
