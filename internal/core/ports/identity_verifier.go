package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/identity"
)

// IdentityVerifier turns a session token issued by the identity provider into an Actor.
// Invalid or expired tokens yield *errs.AuthenticationRequiredError.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (identity.Actor, error)
}
