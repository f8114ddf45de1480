package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidArgument    = errors.New("admin: invalid argument")
	ErrInvalidCredentials = errors.New("admin: invalid credentials")
	ErrEmailTaken         = errors.New("admin: email already registered")
)

// Service owns administrator account management and the credential
// exchange. Session token issuance lives in internal/auth; this layer
// only decides whether the credentials identify an active admin.
type Service struct {
	store Store
	clock func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, clock: time.Now}
}

// Login validates a credential pair. A deactivated admin fails exactly
// like a wrong password: the caller learns nothing about which part was
// wrong.
func (s *Service) Login(ctx context.Context, email, password string) (Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Admin{}, ErrInvalidArgument
	}

	a, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return Admin{}, err
	}
	if !a.Active {
		return Admin{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

type CreateRequest struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// Create registers a new administrator. Only the superadmin route may
// reach this; the role defaults to admin when unspecified.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Admin, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return Admin{}, ErrInvalidArgument
	}
	if req.Role == "" {
		req.Role = RoleAdmin
	}
	if !req.Role.Valid() {
		return Admin{}, fmt.Errorf("%w: role %q", ErrInvalidArgument, req.Role)
	}

	if _, err := s.store.FindByEmail(ctx, req.Email); err == nil {
		return Admin{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Admin{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Admin{}, err
	}

	now := s.clock().UTC()
	a := Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, &a); err != nil {
		return Admin{}, err
	}
	return a, nil
}

// List returns all administrators. The password hash never serializes,
// so handlers may return these records directly.
func (s *Service) List(ctx context.Context) ([]Admin, error) {
	return s.store.List(ctx)
}

// EnsureSuperadmin creates the bootstrap superadmin when none exists.
// Single existence check then insert; called once at process startup.
func (s *Service) EnsureSuperadmin(ctx context.Context, name, email, password string) error {
	exists, err := s.store.HasSuperadmin(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = s.Create(ctx, CreateRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     RoleSuperadmin,
	})
	if errors.Is(err, ErrEmailTaken) {
		// Another replica won the race; the invariant holds either way.
		return nil
	}
	return err
}
