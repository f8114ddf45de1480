package identity

import (
	"context"
	"errors"
)

// Identity is the claim set a delegated identity provider vouches for.
// SubjectID is the provider's stable subject identifier; it is the only
// field the rest of the system may key on.
type Identity struct {
	SubjectID  string
	Email      string
	Name       string
	PictureURL string
}

// Verifier validates a raw bearer credential issued by an external
// identity provider. Implementations must treat the token as opaque
// input and never produce a partially-verified Identity.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Identity, error)
}

var (
	// ErrInvalidToken covers malformed, expired, or wrongly-audienced tokens.
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrUnavailable means the provider could not be reached at all.
	ErrUnavailable = errors.New("identity: provider unavailable")
)
