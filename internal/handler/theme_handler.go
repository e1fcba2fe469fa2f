package handler

import (
	"net/http"

	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
)

// /theme テナントのテーマ設定を返す
type ThemeHandler struct{}

func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

type ThemeResponse struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	LogoURL      string `json:"logo_url"`
}

func (h *ThemeHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/theme", h.getTheme)
}

func (h *ThemeHandler) getTheme(c echo.Context) error {
	t, ok := middleware.TenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown tenant"})
	}

	return c.JSON(http.StatusOK, ThemeResponse{
		Slug:         t.Slug,
		Name:         t.Name,
		PrimaryColor: t.ThemePrimaryColor,
		AccentColor:  t.ThemeAccentColor,
		LogoURL:      t.LogoURL,
	})
}
