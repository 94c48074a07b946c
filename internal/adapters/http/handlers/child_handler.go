package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"time"

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

// ChildHandler handles child record endpoints
type ChildHandler struct {
	childService *services.ChildService
	cfg          *config.Config
}

// NewChildHandler creates a new child handler
func NewChildHandler(childService *services.ChildService, cfg *config.Config) *ChildHandler {
	return &ChildHandler{
		childService: childService,
		cfg:          cfg,
	}
}

// Create admits a new child
// @Summary Admit a child
// @Tags Children
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateChildInput true "Child data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /children [post]
func (h *ChildHandler) Create(c *fiber.Ctx) error {
	var input services.CreateChildInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.childService.Create(c.Context(), &input, middleware.StaffID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid or missing child data")
		case errors.Is(err, domain.ErrBirthCertTaken):
			return response.Conflict(c, "Birth certificate number already registered")
		default:
			return response.InternalServerError(c, "Failed to admit child")
		}
	}

	return response.Created(c, "Child admitted successfully", result)
}

// List lists child records
// @Summary List children
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param search query string false "Search"
// @Param status query string false "Status"
// @Param gender query string false "Gender"
// @Success 200 {object} response.Response
// @Router /children [get]
func (h *ChildHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.ChildFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Gender: c.Query("gender"),
	}

	children, total, err := h.childService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list children")
	}

	return response.Success(c, "Children retrieved", fiber.Map{
		"children": children,
		"meta":     pagination.GetMeta(params, total),
	})
}

// Get gets one child record
// @Summary Get a child
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Param id path int true "Child ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /children/{id} [get]
func (h *ChildHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid child ID")
	}

	result, err := h.childService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrChildNotFound) {
			return response.NotFound(c, "Child record not found")
		}
		return response.InternalServerError(c, "Failed to get child record")
	}

	return response.Success(c, "Child record retrieved", result)
}

// Update applies a partial update to a child record
// @Summary Update a child
// @Tags Children
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Child ID"
// @Param body body services.UpdateChildInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /children/{id} [patch]
func (h *ChildHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid child ID")
	}

	var input services.UpdateChildInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.childService.Update(c.Context(), id, &input, middleware.StaffID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChildNotFound):
			return response.NotFound(c, "Child record not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid child data")
		default:
			return response.InternalServerError(c, "Failed to update child record")
		}
	}

	return response.Success(c, "Child record updated", result)
}

// ExitRequest carries the reason for an exit
type ExitRequest struct {
	Reason string `json:"reason"`
}

// Exit removes a child from active care
// @Summary Exit a child from care
// @Description The record is kept with status Exited
// @Tags Children
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Child ID"
// @Param body body ExitRequest false "Exit reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /children/{id} [delete]
func (h *ChildHandler) Exit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid child ID")
	}

	var req ExitRequest
	_ = c.BodyParser(&req)

	result, err := h.childService.Exit(c.Context(), id, req.Reason, middleware.StaffID(c))
	if err != nil {
		if errors.Is(err, domain.ErrChildNotFound) {
			return response.NotFound(c, "Child record not found")
		}
		return response.InternalServerError(c, "Failed to exit child")
	}

	return response.Success(c, "Child exited from care", result)
}

// Search searches child records
// @Summary Search children
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Param query query string true "Query"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /children/search [get]
func (h *ChildHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return response.BadRequest(c, "Search query is required")
	}

	params := pagination.GetParams(c)

	children, total, err := h.childService.Search(c.Context(), query, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Search failed")
	}

	return response.Success(c, "Search results", fiber.Map{
		"children": children,
		"meta":     pagination.GetMeta(params, total),
	})
}

// Autocomplete suggests values for a child field
// @Summary Autocomplete child fields
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Param query query string true "Prefix"
// @Param field query string false "first_name, last_name or medical_conditions" default(first_name)
// @Success 200 {object} response.Response
// @Router /children/autocomplete [get]
func (h *ChildHandler) Autocomplete(c *fiber.Ctx) error {
	names, err := h.childService.Autocomplete(c.Context(), c.Query("field"), c.Query("query"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Unknown autocomplete field")
		}
		return response.InternalServerError(c, "Autocomplete failed")
	}

	return response.Success(c, "Suggestions", fiber.Map{"names": names})
}

// Stats aggregates child population counts
// @Summary Child statistics
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /children/stats [get]
func (h *ChildHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.childService.Stats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	return response.Success(c, "Child statistics", stats)
}

// MedicalConditionRequest carries a diagnosed condition
type MedicalConditionRequest struct {
	Condition     string     `json:"condition"`
	DiagnosedDate *time.Time `json:"diagnosed_date"`
	Notes         string     `json:"notes"`
}

// AddMedicalCondition records a condition on a child
// @Summary Add medical condition
// @Tags Children
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Child ID"
// @Param body body MedicalConditionRequest true "Condition"
// @Success 200 {object} response.Response
// @Router /children/{id}/medical-conditions [post]
func (h *ChildHandler) AddMedicalCondition(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid child ID")
	}

	var req MedicalConditionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.childService.AddMedicalCondition(c.Context(), id, req.Condition, req.DiagnosedDate, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChildNotFound):
			return response.NotFound(c, "Child record not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Condition is required")
		default:
			return response.InternalServerError(c, "Failed to add medical condition")
		}
	}

	return response.Success(c, "Medical condition recorded", result)
}

// UploadPhoto attaches a photo to a child record
// @Summary Upload child photo
// @Tags Children
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Child ID"
// @Param photo formData file true "Photo file"
// @Param caption formData string false "Caption"
// @Param primary formData bool false "Set as primary"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /children/{id}/photos [post]
func (h *ChildHandler) UploadPhoto(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid child ID")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return response.BadRequest(c, "Photo file is required")
	}

	if err := upload.Validate(file, h.cfg.Upload.MaxSize, upload.ImageExtensions); err != nil {
		return h.uploadError(c, err)
	}

	filename := upload.NewFilename(file.Filename)
	dir := filepath.Join(h.cfg.Upload.Dir, "children", "photos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return response.InternalServerError(c, "Failed to store photo")
	}
	path := filepath.Join(dir, filename)
	if err := c.SaveFile(file, path); err != nil {
		return response.InternalServerError(c, "Failed to store photo")
	}

	url := "/uploads/children/photos/" + filename
	makePrimary := c.FormValue("primary") == "true"

	photo, err := h.childService.AddPhoto(c.Context(), id, filename, path, url, c.FormValue("caption"), makePrimary)
	if err != nil {
		os.Remove(path)
		if errors.Is(err, domain.ErrChildNotFound) {
			return response.NotFound(c, "Child record not found")
		}
		return response.InternalServerError(c, "Failed to record photo")
	}

	return response.Created(c, "Photo uploaded", photo)
}

// SetPrimaryPhoto flags a photo as the record's primary photo
// @Summary Set primary photo
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Param id path int true "Child ID"
// @Param photoId path int true "Photo ID"
// @Success 200 {object} response.Response
// @Router /children/{id}/photos/{photoId}/primary [patch]
func (h *ChildHandler) SetPrimaryPhoto(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid child ID")
	}
	photoID, err := parseID(c, "photoId")
	if err != nil {
		return response.BadRequest(c, "Invalid photo ID")
	}

	if err := h.childService.SetPrimaryPhoto(c.Context(), id, photoID); err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return response.NotFound(c, "Photo not found")
		}
		return response.InternalServerError(c, "Failed to set primary photo")
	}

	return response.Success(c, "Primary photo updated", nil)
}

// DeletePhoto removes a photo from a child record
// @Summary Delete child photo
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Param id path int true "Child ID"
// @Param photoId path int true "Photo ID"
// @Success 200 {object} response.Response
// @Router /children/{id}/photos/{photoId} [delete]
func (h *ChildHandler) DeletePhoto(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid child ID")
	}
	photoID, err := parseID(c, "photoId")
	if err != nil {
		return response.BadRequest(c, "Invalid photo ID")
	}

	path, err := h.childService.DeletePhoto(c.Context(), id, photoID)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return response.NotFound(c, "Photo not found")
		}
		return response.InternalServerError(c, "Failed to delete photo")
	}
	_ = os.Remove(path)

	return response.Success(c, "Photo deleted", nil)
}

// UploadDocument attaches a document to a child record
// @Summary Upload child document
// @Tags Children
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Child ID"
// @Param document formData file true "Document file"
// @Param type formData string false "Document type"
// @Param name formData string false "Display name"
// @Success 201 {object} response.Response
// @Router /children/{id}/documents [post]
func (h *ChildHandler) UploadDocument(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid child ID")
	}

	file, err := c.FormFile("document")
	if err != nil {
		return response.BadRequest(c, "Document file is required")
	}

	if err := upload.Validate(file, h.cfg.Upload.MaxSize, upload.DocumentExtensions); err != nil {
		return h.uploadError(c, err)
	}

	filename := upload.NewFilename(file.Filename)
	dir := filepath.Join(h.cfg.Upload.Dir, "children", "documents")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return response.InternalServerError(c, "Failed to store document")
	}
	path := filepath.Join(dir, filename)
	if err := c.SaveFile(file, path); err != nil {
		return response.InternalServerError(c, "Failed to store document")
	}

	url := "/uploads/children/documents/" + filename
	name := c.FormValue("name")
	if name == "" {
		name = file.Filename
	}

	doc, err := h.childService.AddDocument(c.Context(), id, c.FormValue("type"), name, filename, path, url)
	if err != nil {
		os.Remove(path)
		if errors.Is(err, domain.ErrChildNotFound) {
			return response.NotFound(c, "Child record not found")
		}
		return response.InternalServerError(c, "Failed to record document")
	}

	return response.Created(c, "Document uploaded", doc)
}

// DeleteDocument removes a document from a child record
// @Summary Delete child document
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Param id path int true "Child ID"
// @Param docId path int true "Document ID"
// @Success 200 {object} response.Response
// @Router /children/{id}/documents/{docId} [delete]
func (h *ChildHandler) DeleteDocument(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid child ID")
	}
	docID, err := parseID(c, "docId")
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	path, err := h.childService.DeleteDocument(c.Context(), id, docID)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return response.NotFound(c, "Document not found")
		}
		return response.InternalServerError(c, "Failed to delete document")
	}
	_ = os.Remove(path)

	return response.Success(c, "Document deleted", nil)
}

func (h *ChildHandler) uploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		return response.BadRequest(c, "File exceeds the maximum allowed size")
	case errors.Is(err, upload.ErrInvalidFileType):
		return response.BadRequest(c, "File type not allowed")
	default:
		return response.InternalServerError(c, "Upload failed")
	}
}
