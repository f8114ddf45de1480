package citizen

import (
	"context"
	"errors"
	"strings"
	"time"

	"gramsewa/internal/identity"
)

// Resolver turns a verified external identity into a citizen record.
// First-seen registration happens here, at the authorization boundary,
// so the complaint lifecycle never provisions identities as a side
// effect.
type Resolver struct {
	store Store
	clock func() time.Time
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store, clock: time.Now}
}

// ResolveOrRegister looks up the citizen bound to the identity's subject
// id, creating the record on first sight. The display name falls back to
// the local part of the email when the provider supplies none.
func (r *Resolver) ResolveOrRegister(ctx context.Context, id identity.Identity) (Citizen, error) {
	c, err := r.store.FindBySubject(ctx, id.SubjectID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Citizen{}, err
	}

	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = id.Email
		if at := strings.Index(id.Email, "@"); at > 0 {
			name = id.Email[:at]
		}
	}

	now := r.clock().UTC()
	c = Citizen{
		Name:      name,
		Email:     strings.ToLower(id.Email),
		SubjectID: id.SubjectID,
		PhotoURL:  id.PictureURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Insert(ctx, &c); err != nil {
		return Citizen{}, err
	}
	return c, nil
}
