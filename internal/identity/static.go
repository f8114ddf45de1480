package identity

import "context"

// StaticVerifier resolves tokens from a fixed map. Useful for tests and
// local development without a provider round-trip.
type StaticVerifier struct {
	Tokens map[string]Identity
}

func (v *StaticVerifier) Verify(_ context.Context, rawToken string) (Identity, error) {
	id, ok := v.Tokens[rawToken]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}
