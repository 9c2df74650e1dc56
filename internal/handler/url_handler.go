package handler

import (
	"errors"
	"net/http"
	"time"

	"urlshortener/internal/middleware"
	"urlshortener/internal/repository"
	"urlshortener/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Форматы дат в query-параметрах аналитики
const (
	dateTimeLayout = "2006-01-02T15:04:05"
	dateLayout     = time.DateOnly
)

type URLHandler struct {
	service service.URLService
	logger  *zap.Logger
}

func NewURLHandler(service service.URLService, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		logger:  logger,
	}
}

type ShortenRequest struct {
	OriginalURL string `json:"originalUrl" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateShortURL обрабатывает POST /api/urls/shorten
func (h *URLHandler) CreateShortURL(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	dto, err := h.service.CreateShortURL(c.Request.Context(), req.OriginalURL, user)
	if err != nil {
		h.logger.Error("Failed to create short URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create short URL",
		})
		return
	}

	c.JSON(http.StatusCreated, dto)
}

// GetUserURLs обрабатывает GET /api/urls/myurls
func (h *URLHandler) GetUserURLs(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	dtos, err := h.service.GetURLsByUser(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to list user URLs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list URLs",
		})
		return
	}

	c.JSON(http.StatusOK, dtos)
}

// GetAnalytics обрабатывает GET /api/urls/analytics/:shortUrl
func (h *URLHandler) GetAnalytics(c *gin.Context) {
	code := c.Param("shortUrl")

	start, err := time.Parse(dateTimeLayout, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "startDate must be in format " + dateTimeLayout,
		})
		return
	}
	end, err := time.Parse(dateTimeLayout, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "endDate must be in format " + dateTimeLayout,
		})
		return
	}

	events, err := h.service.GetClickEventsByDate(c.Request.Context(), code, start, end)
	if err != nil {
		if errors.Is(err, repository.ErrMappingNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Short URL not found",
			})
			return
		}
		h.logger.Error("Failed to get analytics", zap.String("short_url", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to get analytics",
		})
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetTotalClicks обрабатывает GET /api/urls/totalclicks
func (h *URLHandler) GetTotalClicks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	start, err := time.Parse(dateLayout, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "startDate must be in format " + dateLayout,
		})
		return
	}
	end, err := time.Parse(dateLayout, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "endDate must be in format " + dateLayout,
		})
		return
	}

	totals, err := h.service.GetTotalClicksByUserAndDate(c.Request.Context(), user, start, end)
	if err != nil {
		h.logger.Error("Failed to get total clicks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to get total clicks",
		})
		return
	}

	c.JSON(http.StatusOK, totals)
}

// Redirect обрабатывает GET /:shortUrl — у каждого успешного разрешения
// есть побочный эффект: инкремент счётчика и событие клика.
func (h *URLHandler) Redirect(c *gin.Context) {
	code := c.Param("shortUrl")

	mapping, err := h.service.GetOriginalURL(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrMappingNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Short URL not found",
			})
			return
		}
		h.logger.Error("Failed to resolve short URL", zap.String("short_url", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to resolve short URL",
		})
		return
	}

	c.Redirect(http.StatusFound, mapping.OriginalURL)
}
