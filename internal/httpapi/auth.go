package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"gramsewa/internal/identity"

	"github.com/gin-gonic/gin"
)

type googleAuthRequest struct {
	IDToken string `json:"idToken"`
}

// GoogleAuth exchanges a Google ID token for a registered citizen profile.
// First-time callers are registered transparently; returning callers get
// their existing profile. The ID token itself remains the citizen's
// credential for subsequent requests.
func (h Handlers) GoogleAuth(c *gin.Context) {
	var req googleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		fail(c, http.StatusBadRequest, codeValidation, "ID token is required")
		return
	}

	id, err := h.Verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, identity.ErrUnavailable) {
			fail(c, http.StatusServiceUnavailable, codeServerError, "Authentication service unavailable")
			return
		}
		fail(c, http.StatusUnauthorized, codeUnauthenticated, "Authentication failed")
		return
	}

	cit, err := h.Citizens.ResolveOrRegister(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       cit.ID.Hex(),
			"name":     cit.Name,
			"email":    cit.Email,
			"photoURL": cit.PhotoURL,
		},
		"token": req.IDToken,
	})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin exchanges admin credentials for a signed session token.
func (h Handlers) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, "Please provide email and password")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, codeValidation, "Please provide email and password")
		return
	}

	allowed, err := h.LoginLimiter.Allow(c.Request.Context(), "login:"+email)
	if err != nil {
		writeError(c, err)
		return
	}
	if !allowed {
		fail(c, http.StatusTooManyRequests, codeRateLimited, "Too many login attempts, try again later")
		return
	}

	adm, err := h.Admins.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := h.Sessions.Issue(h.now(), adm.ID.Hex(), string(adm.Role))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"admin": gin.H{
			"id":    adm.ID.Hex(),
			"name":  adm.Name,
			"email": adm.Email,
			"role":  adm.Role,
		},
		"token": token,
	})
}
