package httpapi

import (
	"net/http"

	"gramsewa/internal/admin"

	"github.com/gin-gonic/gin"
)

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateAdmin registers a new administrator account. Superadmin only;
// the route guard enforces that before this runs.
func (h Handlers) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, "Please provide all required fields")
		return
	}

	adm, err := h.Admins.Create(c.Request.Context(), admin.CreateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     admin.Role(req.Role),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Admin created successfully",
		"admin":   adm,
	})
}

// ListAdmins returns every administrator account. The password hash
// field never serializes.
func (h Handlers) ListAdmins(c *gin.Context) {
	admins, err := h.Admins.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(admins), "admins": admins})
}
