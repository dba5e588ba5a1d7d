package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/giftshelf/backend/internal/domain"
	"github.com/google/uuid"
)

// SessionHeader carries the session identifier for /session requests
const SessionHeader = "X-Session-ID"

// ProductCatalog is the slice of the catalog service the HTTP layer uses
type ProductCatalog interface {
	Resolve(ctx context.Context, filters domain.QueryFilters) (*domain.ProductPage, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetFilterVocabulary(ctx context.Context) *domain.FilterVocabulary
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog  ProductCatalog
	sessions domain.SessionStore
	logger   *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog ProductCatalog, sessions domain.SessionStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "giftshelf-backend",
		"version": "1.0.0",
	})
}

// ListProducts handles GET /api/v1/products
func (h *Handler) ListProducts(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog service not configured"})
		return
	}

	filters := domain.DefaultQueryFilters()
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.respondError(c, domain.ErrInvalidRequest)
		return
	}

	page, err := h.catalog.Resolve(c.Request.Context(), filters.Normalized())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog service not configured"})
		return
	}

	product, err := h.catalog.GetProductByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetFilters handles GET /api/v1/filters. It always answers 200.
func (h *Handler) GetFilters(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusOK, domain.EmptyFilterVocabulary())
		return
	}

	c.JSON(http.StatusOK, h.catalog.GetFilterVocabulary(c.Request.Context()))
}

// GetSession handles GET /api/v1/session
func (h *Handler) GetSession(c *gin.Context) {
	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store not configured"})
		return
	}

	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		c.JSON(http.StatusOK, &domain.User{})
		return
	}

	user, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header(SessionHeader, sessionID)
	c.JSON(http.StatusOK, user)
}

// PutSession handles PUT /api/v1/session. A session id is issued when the
// request carries none.
func (h *Handler) PutSession(c *gin.Context) {
	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store not configured"})
		return
	}

	var user domain.User
	if err := c.ShouldBindJSON(&user); err != nil {
		h.respondError(c, domain.ErrInvalidRequest)
		return
	}

	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if err := h.sessions.Set(c.Request.Context(), sessionID, &user); err != nil {
		h.respondError(c, err)
		return
	}

	c.Header(SessionHeader, sessionID)
	c.JSON(http.StatusOK, &user)
}

// DeleteSession handles DELETE /api/v1/session
func (h *Handler) DeleteSession(c *gin.Context) {
	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store not configured"})
		return
	}

	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		c.Status(http.StatusNoContent)
		return
	}

	if err := h.sessions.Clear(c.Request.Context(), sessionID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError writes the status and user-facing message for err
func (h *Handler) respondError(c *gin.Context, err error) {
	status, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": message})
}

// errorResponse maps domain errors to status codes and user-facing messages
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "Invalid request parameters"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, domain.MessageProductNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, domain.ErrFetchProducts):
		return http.StatusBadGateway, domain.MessageFetchProducts
	case errors.Is(err, domain.ErrCacheUnavailable):
		return http.StatusServiceUnavailable, "Session store unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
