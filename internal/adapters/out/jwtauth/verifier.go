// Package jwtauth verifies the HS256 access tokens issued by the identity provider and
// turns them into workflow actors. Sign-in and token refresh stay with the provider.
package jwtauth

import (
	"context"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

var _ ports.IdentityVerifier = (*Verifier)(nil)

const operation = "verify session"

type appMetadata struct {
	Role string `json:"role"`
}

// Claims mirrors the provider's access token. The role lives in app_metadata because
// users cannot edit it themselves.
type Claims struct {
	AppMetadata appMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier accepts tokens signed with secret. A non-empty audience is enforced.
func NewVerifier(secret string, audience string, leeway time.Duration) (*Verifier, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if audience != "" {
		options = append(options, jwt.WithAudience(audience))
	}

	return &Verifier{secret: []byte(secret), parser: jwt.NewParser(options...)}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (identity.Actor, error) {
	if token == "" {
		return identity.Anonymous(), errs.NewAuthenticationRequiredError(operation)
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return identity.Anonymous(), fmt.Errorf("%w: %w", errs.NewAuthenticationRequiredError(operation), err)
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return identity.Anonymous(), fmt.Errorf("%w: subject: %w", errs.NewAuthenticationRequiredError(operation), err)
	}

	role, err := identity.ParseRole(claims.AppMetadata.Role)
	if err != nil {
		return identity.Anonymous(), errs.NewForbiddenError(operation, "token carries no workflow role")
	}

	return identity.NewActor(id, role)
}

// Issue signs a token for id and role. The service never issues tokens in production;
// tests and local tooling use it to talk to the API.
func Issue(secret string, id kernel.UUID, role identity.Role, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		AppMetadata: appMetadata{Role: role.String()},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
