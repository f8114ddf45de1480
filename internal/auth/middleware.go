package auth

import (
	"net/http"
	"strings"
	"time"

	"gramsewa/internal/admin"
	"gramsewa/internal/citizen"
	"gramsewa/internal/identity"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

func bearerToken(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
	if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(raw, bearerPrefix), true
}

// RequireCitizen verifies a delegated identity token, resolves (or
// first-seen registers) the citizen, and injects the principal. It does
// not perform tier checks; citizens have no tiers.
func RequireCitizen(v identity.Verifier, r *citizen.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
			return
		}

		id, err := v.Verify(c.Request.Context(), tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token failed"})
			return
		}

		cit, err := r.ResolveOrRegister(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), Principal{Kind: KindCitizen, Citizen: &cit}))
		c.Set("principal_kind", string(KindCitizen))
		c.Next()
	}
}

// RequireAdmin verifies a session token and loads the administrator.
// A missing or deactivated admin is an authentication failure, not a
// tier failure: the principal cannot be established at all.
func RequireAdmin(m *Manager, store admin.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
			return
		}

		claims, err := m.Verify(tok, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token failed"})
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.AdminID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token failed"})
			return
		}

		a, err := store.FindByID(c.Request.Context(), id)
		if err != nil || !a.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Admin not found or inactive"})
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), Principal{Kind: KindAdmin, Admin: &a}))
		c.Set("principal_kind", string(KindAdmin))
		c.Next()
	}
}

// RequireSuperadmin gates superadmin-only routes. Compose it after
// RequireAdmin; it never establishes a principal on its own. Failing the
// tier check is an authorization failure: the caller is known but
// insufficient.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := AdminFrom(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
			return
		}
		if a.Role != admin.RoleSuperadmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied. Super Admin only."})
			return
		}
		c.Next()
	}
}
