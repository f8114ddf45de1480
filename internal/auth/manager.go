package auth

import (
	"errors"
	"time"

	"gramsewa/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager issues and verifies the self-signed administrator session
// tokens. Citizen credentials never pass through here; those belong to
// the external identity verifier.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		ttl:    cfg.SessionTTL,
	}, nil
}

// SessionClaims is the only supported claims shape for admin sessions.
type SessionClaims struct {
	jwt.RegisteredClaims

	AdminID string `json:"admin_id"`
	Role    string `json:"role"`
}

func (m *Manager) Issue(now time.Time, adminID, role string) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
		AdminID: adminID,
		Role:    role,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func (m *Manager) Verify(tokenString string, now time.Time) (SessionClaims, error) {
	var claims SessionClaims

	// The parser only checks signature and shape; claim validation is
	// deferred to the validator below so now is the single time
	// authority.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return SessionClaims{}, err
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	validator := jwt.NewValidator(opts...)
	if err := validator.Validate(claims.RegisteredClaims); err != nil {
		return SessionClaims{}, err
	}

	if claims.AdminID == "" {
		return SessionClaims{}, errors.New("admin_id missing")
	}
	if claims.Role == "" {
		return SessionClaims{}, errors.New("role missing")
	}
	return claims, nil
}
