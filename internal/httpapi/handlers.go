package httpapi

import (
	"errors"
	"net/http"
	"time"

	"gramsewa/internal/admin"
	"gramsewa/internal/auth"
	"gramsewa/internal/blob"
	"gramsewa/internal/citizen"
	"gramsewa/internal/complaint"
	"gramsewa/internal/identity"
	"gramsewa/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Complaints *complaint.Service
	Admins     *admin.Service
	Sessions   *auth.Manager
	Verifier   identity.Verifier
	Citizens   *citizen.Resolver
	Blob       blob.Store

	// LoginLimiter throttles the admin credential exchange.
	LoginLimiter ratelimit.Limiter

	// Clock defaults to time.Now; tests inject a fixed one.
	Clock func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

// Stable error codes carried in error envelopes.
const (
	codeValidation      = "VALIDATION"
	codeUnauthenticated = "UNAUTHENTICATED"
	codeNotFound        = "NOT_FOUND"
	codeRateLimited     = "RATE_LIMITED"
	codeServerError     = "SERVER_ERROR"
)

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "code": code, "message": message})
}

// writeError maps service sentinels onto the response envelope. Every
// failure path yields a distinguishable response; nothing degrades to a
// default value.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, complaint.ErrInvalidArgument), errors.Is(err, admin.ErrInvalidArgument):
		fail(c, http.StatusBadRequest, codeValidation, "Invalid request")
	case errors.Is(err, complaint.ErrNotFound):
		fail(c, http.StatusNotFound, codeNotFound, "Complaint not found")
	case errors.Is(err, complaint.ErrAssigneeNotFound), errors.Is(err, admin.ErrNotFound):
		fail(c, http.StatusNotFound, codeNotFound, "Admin not found")
	case errors.Is(err, admin.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, codeUnauthenticated, "Invalid credentials")
	case errors.Is(err, admin.ErrEmailTaken):
		fail(c, http.StatusBadRequest, codeValidation, "Admin with this email already exists")
	default:
		_ = c.Error(err) // surfaces in the request log
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
	}
}
