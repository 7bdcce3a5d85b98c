package resumes

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumitory-backend/internal/shared/server/middleware"
	"resumitory-backend/internal/shared/server/respond"
	"resumitory-backend/internal/shared/storage/blob"
)

const (
	maxPDFSizeMB = 5
	maxTexSizeMB = 1

	// Request body cap; generous enough that over-limit files reach the
	// per-file size check and get a proper validation error.
	maxRequestBytes = 16 << 20
)

var (
	pdfTypes = []string{"pdf"}
	texTypes = []string{"tex"}
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.remove)
	rg.POST("/:id/clone", h.clone)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}

	var notes *string
	if v, ok := c.GetPostForm("notes"); ok && v != "" {
		notes = &v
	}
	tags := parseTags(c.PostForm("tags"))

	pdfFile, pdfHeader, err := openValidated(c, "pdf_file", pdfTypes, maxPDFSizeMB)
	if err != nil {
		respondFileError(c, err)
		return
	}
	if pdfFile == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "pdf_file is required", nil)
		return
	}
	defer pdfFile.Close()

	in := CreateInput{
		Name:  name,
		Notes: notes,
		Tags:  tags,
		PDF:   FileUpload{Name: pdfHeader.Filename, Reader: pdfFile},
	}

	texFile, texHeader, err := openValidated(c, "tex_file", texTypes, maxTexSizeMB)
	if err != nil {
		respondFileError(c, err)
		return
	}
	if texFile != nil {
		defer texFile.Close()
		in.Tex = &FileUpload{Name: texHeader.Filename, Reader: texFile}
	}

	resume, err := h.Svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "file upload failed: "+err.Error(), nil)
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(resume))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	respond.OK(c, toResponseList(list))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resume, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, toResponse(resume))
}

type updateRequest struct {
	Name  *string   `json:"name"`
	Notes *string   `json:"notes"`
	Tags  *[]string `json:"tags"`
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	resume, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), UpdateInput{
		Name:  req.Name,
		Notes: req.Notes,
		Tags:  req.Tags,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) clone(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	clone, err := h.Svc.Clone(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(clone))
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "Not authorized to access this resume", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}

// openValidated opens a multipart file field and runs the type and size
// checks. Returns (nil, nil, nil) when the field is absent.
func openValidated(c *gin.Context, field string, allowed []string, maxSizeMB int) (multipart.File, *multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}

	if err := blob.CheckType(header.Filename, allowed); err != nil {
		return nil, nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	if err := blob.CheckSize(file, maxSizeMB); err != nil {
		file.Close()
		return nil, nil, err
	}
	return file, header, nil
}

func respondFileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, blob.ErrUnsupportedType), errors.Is(err, blob.ErrFileTooLarge):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
	}
}

func parseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
