package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"tabitha-home/internal/adapters/http/middleware"
	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/config"
	"tabitha-home/internal/core/domain"
	"tabitha-home/internal/core/services"
	"tabitha-home/internal/pkg/pagination"
	"tabitha-home/internal/pkg/response"
	"tabitha-home/internal/pkg/upload"

	"github.com/gofiber/fiber/v2"
)

// StaffHandler handles staff HR record endpoints
type StaffHandler struct {
	staffService *services.StaffService
	cfg          *config.Config
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staffService *services.StaffService, cfg *config.Config) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		cfg:          cfg,
	}
}

// List lists staff records
// @Summary List staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param search query string false "Search"
// @Param department query string false "Department"
// @Param status query string false "Employment status"
// @Success 200 {object} response.Response
// @Router /staff [get]
func (h *StaffHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.StaffFilter{
		Search:     c.Query("search"),
		Role:       c.Query("role"),
		Department: c.Query("department"),
		Status:     c.Query("status"),
	}

	staff, total, err := h.staffService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list staff")
	}

	return response.Success(c, "Staff retrieved", fiber.Map{
		"staff": staff,
		"meta":  pagination.GetMeta(params, total),
	})
}

// Get gets one staff record
// @Summary Get a staff record
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /staff/{id} [get]
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	result, err := h.staffService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "Staff record not found")
		}
		return response.InternalServerError(c, "Failed to get staff record")
	}

	return response.Success(c, "Staff record retrieved", result)
}

// Update applies a partial HR update
// @Summary Update a staff record
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param body body services.UpdateStaffInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /staff/{id} [patch]
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	var input services.UpdateStaffInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.staffService.Update(c.Context(), id, &input, middleware.StaffID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Staff record not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid staff data")
		case errors.Is(err, domain.ErrNinTaken):
			return response.Conflict(c, "NIN already registered")
		default:
			return response.InternalServerError(c, "Failed to update staff record")
		}
	}

	return response.Success(c, "Staff record updated", result)
}

// Terminate ends employment for a staff record
// @Summary Terminate a staff record
// @Description The record is kept; the account is deactivated
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /staff/{id} [delete]
func (h *StaffHandler) Terminate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	result, err := h.staffService.Terminate(c.Context(), id, middleware.Role(c), middleware.StaffID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Staff record not found")
		case errors.Is(err, domain.ErrSuperAdminTarget):
			return response.Forbidden(c, "Only a super admin can modify a super admin account")
		default:
			return response.InternalServerError(c, "Failed to terminate staff")
		}
	}

	return response.Success(c, "Staff terminated", result)
}

// PermissionsRequest carries a replacement permission list
type PermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// UpdatePermissions replaces the permission list on an account
// @Summary Update staff permissions
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param body body PermissionsRequest true "Permissions"
// @Success 200 {object} response.Response
// @Router /staff/{id}/permissions [patch]
func (h *StaffHandler) UpdatePermissions(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	var req PermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.staffService.UpdatePermissions(c.Context(), id, req.Permissions, middleware.Role(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Staff record not found")
		case errors.Is(err, domain.ErrSuperAdminTarget):
			return response.Forbidden(c, "Only a super admin can modify a super admin account")
		default:
			return response.InternalServerError(c, "Failed to update permissions")
		}
	}

	return response.Success(c, "Permissions updated", result)
}

// Stats aggregates workforce counts
// @Summary Staff statistics
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /staff/stats [get]
func (h *StaffHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.staffService.Stats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	return response.Success(c, "Staff statistics", stats)
}

// UploadPhoto sets the profile photo on a staff record
// @Summary Upload staff photo
// @Tags Staff
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param photo formData file true "Photo file"
// @Success 200 {object} response.Response
// @Router /staff/{id}/photo [post]
func (h *StaffHandler) UploadPhoto(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return response.BadRequest(c, "Photo file is required")
	}

	if err := upload.Validate(file, h.cfg.Upload.MaxSize, upload.ImageExtensions); err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			return response.BadRequest(c, "File exceeds the maximum allowed size")
		case errors.Is(err, upload.ErrInvalidFileType):
			return response.BadRequest(c, "File type not allowed")
		default:
			return response.InternalServerError(c, "Upload failed")
		}
	}

	filename := upload.NewFilename(file.Filename)
	dir := filepath.Join(h.cfg.Upload.Dir, "staff", "photos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return response.InternalServerError(c, "Failed to store photo")
	}
	path := filepath.Join(dir, filename)
	if err := c.SaveFile(file, path); err != nil {
		return response.InternalServerError(c, "Failed to store photo")
	}

	url := "/uploads/staff/photos/" + filename
	previous, err := h.staffService.SetPhoto(c.Context(), id, url)
	if err != nil {
		os.Remove(path)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "Staff record not found")
		}
		return response.InternalServerError(c, "Failed to record photo")
	}

	// Replaced photo file goes away with its reference
	if rel, ok := strings.CutPrefix(previous, "/uploads/"); ok {
		_ = os.Remove(filepath.Join(h.cfg.Upload.Dir, filepath.FromSlash(rel)))
	}

	return response.Success(c, "Photo uploaded", fiber.Map{"photo_url": url})
}

// UploadDocument attaches a document to a staff record
// @Summary Upload staff document
// @Tags Staff
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param document formData file true "Document file"
// @Param type formData string false "Document type"
// @Param name formData string false "Display name"
// @Success 201 {object} response.Response
// @Router /staff/{id}/documents [post]
func (h *StaffHandler) UploadDocument(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	file, err := c.FormFile("document")
	if err != nil {
		return response.BadRequest(c, "Document file is required")
	}

	if err := upload.Validate(file, h.cfg.Upload.MaxSize, upload.DocumentExtensions); err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			return response.BadRequest(c, "File exceeds the maximum allowed size")
		case errors.Is(err, upload.ErrInvalidFileType):
			return response.BadRequest(c, "File type not allowed")
		default:
			return response.InternalServerError(c, "Upload failed")
		}
	}

	filename := upload.NewFilename(file.Filename)
	dir := filepath.Join(h.cfg.Upload.Dir, "staff", "documents")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return response.InternalServerError(c, "Failed to store document")
	}
	path := filepath.Join(dir, filename)
	if err := c.SaveFile(file, path); err != nil {
		return response.InternalServerError(c, "Failed to store document")
	}

	name := c.FormValue("name")
	if name == "" {
		name = file.Filename
	}

	doc, err := h.staffService.AddDocument(c.Context(), id, c.FormValue("type"), name, filename, path)
	if err != nil {
		os.Remove(path)
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Staff record not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid document type")
		default:
			return response.InternalServerError(c, "Failed to record document")
		}
	}

	return response.Created(c, "Document uploaded", doc)
}

// DeleteDocument removes a document from a staff record
// @Summary Delete staff document
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param docId path int true "Document ID"
// @Success 200 {object} response.Response
// @Router /staff/{id}/documents/{docId} [delete]
func (h *StaffHandler) DeleteDocument(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}
	docID, err := parseID(c, "docId")
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	path, err := h.staffService.DeleteDocument(c.Context(), id, docID)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return response.NotFound(c, "Document not found")
		}
		return response.InternalServerError(c, "Failed to delete document")
	}
	_ = os.Remove(path)

	return response.Success(c, "Document deleted", nil)
}
