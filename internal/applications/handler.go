package applications

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumitory-backend/internal/shared/server/middleware"
	"resumitory-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.POST("/quick", h.quickAdd)
	rg.GET("", h.list)
	rg.GET("/stats/summary", h.stats)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.remove)
}

type createRequest struct {
	Company      string  `json:"company"`
	Role         string  `json:"role"`
	DateApplied  Date    `json:"date_applied"`
	Status       Status  `json:"status"`
	Notes        *string `json:"notes"`
	ResumeID     *string `json:"resume_id"`
	FollowUpDate *Date   `json:"follow_up_date"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	app, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Company:      strings.TrimSpace(req.Company),
		Role:         strings.TrimSpace(req.Role),
		DateApplied:  req.DateApplied,
		Status:       req.Status,
		Notes:        req.Notes,
		ResumeID:     req.ResumeID,
		FollowUpDate: req.FollowUpDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(app))
}

type quickAddRequest struct {
	Company  string  `json:"company"`
	Role     string  `json:"role"`
	ResumeID *string `json:"resume_id"`
}

func (h *Handler) quickAdd(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req quickAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	app, err := h.Svc.QuickAdd(c.Request.Context(), userID, strings.TrimSpace(req.Company), strings.TrimSpace(req.Role), req.ResumeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(app))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var f Filter
	if raw := c.Query("status"); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		f.Status = &status
	}
	f.Search = c.Query("search")
	f.ResumeID = c.Query("resume_id")

	list, err := h.Svc.List(c.Request.Context(), userID, f)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, toEnrichedResponseList(list))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	app, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, toEnrichedResponse(app))
}

type updateRequest struct {
	Company      *string `json:"company"`
	Role         *string `json:"role"`
	DateApplied  *Date   `json:"date_applied"`
	Status       *Status `json:"status"`
	Notes        *string `json:"notes"`
	ResumeID     *string `json:"resume_id"`
	FollowUpDate *Date   `json:"follow_up_date"`
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	app, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), UpdateInput{
		Company:      req.Company,
		Role:         req.Role,
		DateApplied:  req.DateApplied,
		Status:       req.Status,
		Notes:        req.Notes,
		ResumeID:     req.ResumeID,
		FollowUpDate: req.FollowUpDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, toResponse(app))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) stats(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	stats, err := h.Svc.StatsSummary(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute stats", nil)
		return
	}
	respond.OK(c, toStatsResponse(stats))
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrResumeNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Application not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "Not authorized to access this application", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}

// respondBindError surfaces status and date parse failures with their
// message; anything else is an opaque bad body.
func respondBindError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidInput) {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
}
