package main

import (
	"gramsewa/internal/auth"
	"gramsewa/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, citizenMW, adminMW gin.HandlerFunc) {
	// health
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "GramSewa API is running"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// citizen identity exchange
	api.POST("/auth/google", h.GoogleAuth)

	// complaints
	complaints := api.Group("/complaints")
	{
		complaints.POST("", citizenMW, h.CreateComplaint)
		complaints.GET("/my", citizenMW, h.MyComplaints)
		complaints.GET("/public", h.PublicFeed)
		complaints.GET("/:id", h.GetComplaint)
	}

	// admin accounts
	adminGroup := api.Group("/admin")
	{
		adminGroup.POST("/login", h.AdminLogin)
		adminGroup.POST("/create", adminMW, auth.RequireSuperadmin(), h.CreateAdmin)
		adminGroup.GET("/list", adminMW, auth.RequireSuperadmin(), h.ListAdmins)

		// admin complaint management
		managed := adminGroup.Group("/complaints")
		managed.Use(adminMW)
		{
			managed.GET("", h.AdminComplaints)
			managed.GET("/stats", h.ComplaintStats)
			managed.PUT("/:id/status", h.UpdateStatus)
			managed.PUT("/:id/assign", h.AssignComplaint)
		}
	}
}
