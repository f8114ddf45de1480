package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"gramsewa/internal/auth"
	"gramsewa/internal/blob"
	"gramsewa/internal/complaint"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateComplaint accepts a multipart form with the complaint fields and
// the photo under the "image" field. The photo is stored first; a
// complaint is never inserted without a resolvable image URL.
func (h Handlers) CreateComplaint(c *gin.Context) {
	cit, err := auth.CitizenFrom(c.Request.Context())
	if err != nil {
		fail(c, http.StatusUnauthorized, codeUnauthenticated, "Not authorized, no token")
		return
	}

	title := c.PostForm("title")
	category := c.PostForm("category")
	description := c.PostForm("description")
	if strings.TrimSpace(title) == "" || strings.TrimSpace(category) == "" || strings.TrimSpace(description) == "" {
		fail(c, http.StatusBadRequest, codeValidation, "Please provide all required fields")
		return
	}

	lat, latErr := strconv.ParseFloat(c.PostForm("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if latErr != nil || lngErr != nil {
		fail(c, http.StatusBadRequest, codeValidation, "Please provide a valid location")
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, codeValidation, "Please upload an image")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	imageURL, err := h.Blob.Put(c.Request.Context(), blob.ObjectName(fh.Filename), fh.Header.Get("Content-Type"), f)
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := h.Complaints.Create(c.Request.Context(), cit.ID, complaint.CreateRequest{
		Title:       title,
		Category:    complaint.Category(category),
		Description: description,
		ImageURL:    imageURL,
		Latitude:    lat,
		Longitude:   lng,
		Address:     c.PostForm("address"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Complaint created successfully",
		"complaint": view,
	})
}

// MyComplaints lists the calling citizen's own complaints, every status
// included.
func (h Handlers) MyComplaints(c *gin.Context) {
	cit, err := auth.CitizenFrom(c.Request.Context())
	if err != nil {
		fail(c, http.StatusUnauthorized, codeUnauthenticated, "Not authorized, no token")
		return
	}

	views, err := h.Complaints.ListMine(c.Request.Context(), cit.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(views), "complaints": views})
}

// PublicFeed is the unauthenticated community feed.
func (h Handlers) PublicFeed(c *gin.Context) {
	views, err := h.Complaints.PublicFeed(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(views), "complaints": views})
}

// GetComplaint returns one complaint with full history, readable by any
// authenticated principal.
func (h Handlers) GetComplaint(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.Complaints.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "complaint": view})
}

// AdminComplaints is the filtered, paginated administrator listing.
func (h Handlers) AdminComplaints(c *gin.Context) {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	result, err := h.Complaints.List(c.Request.Context(), complaint.ListRequest{
		Filter: complaint.Filter{
			Category:    complaint.Category(c.Query("category")),
			Status:      complaint.Status(c.Query("status")),
			TitleSearch: c.Query("search"),
		},
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       result.Total,
		"totalPages":  result.TotalPages,
		"currentPage": result.Page,
		"complaints":  result.Complaints,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Remark string `json:"remark"`
}

// UpdateStatus moves a complaint through its lifecycle and records who
// did it.
func (h Handlers) UpdateStatus(c *gin.Context) {
	adm, err := auth.AdminFrom(c.Request.Context())
	if err != nil {
		fail(c, http.StatusUnauthorized, codeUnauthenticated, "Not authorized, no token")
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		fail(c, http.StatusBadRequest, codeValidation, "Status is required")
		return
	}

	view, err := h.Complaints.UpdateStatus(c.Request.Context(), id, adm.ID, complaint.Status(req.Status), req.Remark)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Status updated successfully",
		"complaint": view,
	})
}

type assignRequest struct {
	AdminID string `json:"adminId"`
}

// AssignComplaint routes a complaint to an administrator without
// touching its status.
func (h Handlers) AssignComplaint(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.AdminID) == "" {
		fail(c, http.StatusBadRequest, codeValidation, "Admin ID is required")
		return
	}
	assigneeID, err := primitive.ObjectIDFromHex(req.AdminID)
	if err != nil {
		fail(c, http.StatusNotFound, codeNotFound, "Admin not found")
		return
	}

	view, err := h.Complaints.Assign(c.Request.Context(), id, assigneeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Complaint assigned successfully",
		"complaint": view,
	})
}

// ComplaintStats reports live aggregate counts.
func (h Handlers) ComplaintStats(c *gin.Context) {
	stats, err := h.Complaints.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// objectIDParam parses a path parameter as an object id. A malformed id
// can never match a stored complaint, so it reads as not found.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		fail(c, http.StatusNotFound, codeNotFound, "Complaint not found")
		return primitive.NilObjectID, false
	}
	return id, true
}
