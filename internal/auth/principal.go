package auth

import (
	"context"
	"errors"

	"gramsewa/internal/admin"
	"gramsewa/internal/citizen"
)

// Kind discriminates the two principal variants. The credential schemes
// are disjoint, so a request carries at most one of them.
type Kind string

const (
	KindCitizen Kind = "citizen"
	KindAdmin   Kind = "admin"
)

// Principal is a tagged union: exactly the field matching Kind is set.
type Principal struct {
	Kind    Kind
	Citizen *citizen.Citizen
	Admin   *admin.Admin
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// CitizenFrom returns the citizen principal or an error when the request
// was not authenticated as a citizen.
func CitizenFrom(ctx context.Context) (citizen.Citizen, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok || p.Kind != KindCitizen || p.Citizen == nil {
		return citizen.Citizen{}, errors.New("no citizen principal in context")
	}
	return *p.Citizen, nil
}

// AdminFrom returns the admin principal or an error when the request was
// not authenticated as an administrator.
func AdminFrom(ctx context.Context) (admin.Admin, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok || p.Kind != KindAdmin || p.Admin == nil {
		return admin.Admin{}, errors.New("no admin principal in context")
	}
	return *p.Admin, nil
}
