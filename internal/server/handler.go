// Package server exposes the redirect and link-management HTTP surface.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"vidshort/internal/domain"
	"vidshort/internal/service"
)

type LinkService interface {
	CreateLink(ctx context.Context, ownerID int64, originalURL string) (*domain.ShortLink, error)
	GetLink(ctx context.Context, shortCode string) (*domain.ShortLink, error)
	Redirect(ctx context.Context, shortCode string, visitor domain.Visitor) (*service.RedirectResult, error)
}

var (
	errInvalidBody    = map[string]string{"error": "invalid request body"}
	errURLRequired    = map[string]string{"error": "url is required"}
	errOwnerRequired  = map[string]string{"error": "owner_id is required"}
	errLinkNotFound   = map[string]string{"error": "link not found"}
	errUnsupportedURL = map[string]string{"error": "url is not supported by any platform"}
	errCreateFailed   = map[string]string{"error": "failed to create link"}
	respHealthOK      = map[string]string{"status": "ok"}
)

type CreateLinkRequest struct {
	OwnerID int64  `json:"owner_id"`
	URL     string `json:"url"`
}

type CreateLinkResponse struct {
	ShortCode   string `json:"short_code"`
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	Platform    string `json:"platform"`
}

type LinkStatsResponse struct {
	ShortCode      string     `json:"short_code"`
	Platform       string     `json:"platform"`
	Views          int64      `json:"views"`
	Earnings       float64    `json:"earnings"`
	VideoExpiresAt *time.Time `json:"video_expires_at,omitempty"`
	Active         bool       `json:"active"`
}

type Handler struct {
	links   LinkService
	baseURL string
	logger  *slog.Logger
}

func New(links LinkService, baseURL string, logger *slog.Logger) *Handler {
	return &Handler{
		links:   links,
		baseURL: baseURL,
		logger:  logger.With("component", "http"),
	}
}

func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/health", h.Health)
	api.POST("/links", h.CreateLink)
	api.GET("/links/:code/stats", h.LinkStats)
	e.GET("/:code", h.Redirect)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, respHealthOK)
}

func (h *Handler) CreateLink(c echo.Context) error {
	var req CreateLinkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errInvalidBody)
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, errURLRequired)
	}
	if req.OwnerID == 0 {
		return c.JSON(http.StatusBadRequest, errOwnerRequired)
	}

	link, err := h.links.CreateLink(c.Request().Context(), req.OwnerID, req.URL)
	if err != nil {
		if domain.IsKind(err, domain.ErrUnsupportedURL) {
			return c.JSON(http.StatusBadRequest, errUnsupportedURL)
		}
		h.logger.Error("failed to create link", "error", err)
		return c.JSON(http.StatusInternalServerError, errCreateFailed)
	}

	return c.JSON(http.StatusCreated, CreateLinkResponse{
		ShortCode:   link.ShortCode,
		ShortURL:    h.baseURL + "/" + link.ShortCode,
		OriginalURL: link.OriginalURL,
		Platform:    link.VideoPlatform,
	})
}

func (h *Handler) LinkStats(c echo.Context) error {
	link, err := h.links.GetLink(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, errLinkNotFound)
		}
		h.logger.Error("failed to load link", "error", err)
		return c.JSON(http.StatusInternalServerError, errLinkNotFound)
	}

	return c.JSON(http.StatusOK, LinkStatsResponse{
		ShortCode:      link.ShortCode,
		Platform:       link.VideoPlatform,
		Views:          link.Views,
		Earnings:       link.Earnings,
		VideoExpiresAt: link.VideoExpiresAt,
		Active:         link.Active,
	})
}

// Redirect serves a visit. The target may be a refreshed direct link or,
// when resolution degraded, the original source URL; either way the
// visitor is redirected.
func (h *Handler) Redirect(c echo.Context) error {
	code := c.Param("code")

	visitor := domain.Visitor{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Referrer:  c.Request().Referer(),
	}

	result, err := h.links.Redirect(c.Request().Context(), code, visitor)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, errLinkNotFound)
		}
		h.logger.Error("redirect failed", "short_code", code, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "redirect failed"})
	}

	h.logger.Debug("redirect served",
		"short_code", code,
		"counted", result.Counted,
	)

	return c.Redirect(http.StatusFound, result.TargetURL)
}
