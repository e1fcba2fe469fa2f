package middleware

import (
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

const CtxTenantKey = "tenant" // model.Tenant

// ResolveTenant はリクエストからテナントを決める。
// X-Tenantヘッダ優先、無ければHostの先頭ラベル（shop1.example.com -> shop1）。
// 未知・停止中のテナントは404。
func ResolveTenant(tenantRepo repository.TenantRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			slug := strings.TrimSpace(c.Request().Header.Get("X-Tenant"))
			if slug == "" {
				slug = hostLabel(c.Request().Host)
			}
			if slug == "" {
				return c.JSON(http.StatusNotFound, errorJSON("unknown tenant"))
			}

			t, err := tenantRepo.FindBySlug(c.Request().Context(), slug)
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusNotFound, errorJSON("unknown tenant"))
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}
			if !t.IsActive {
				return c.JSON(http.StatusNotFound, errorJSON("unknown tenant"))
			}

			c.Set(CtxTenantKey, t)
			return next(c)
		}
	}
}

// TenantFromContext はResolveTenantが入れたテナントを返す。
func TenantFromContext(c echo.Context) (model.Tenant, bool) {
	t, ok := c.Get(CtxTenantKey).(model.Tenant)
	return t, ok
}

// Hostから先頭ラベルを取り出す（port付き・localhostも考慮）
func hostLabel(host string) string {
	h := host
	if i := strings.IndexByte(h, ':'); i >= 0 {
		h = h[:i]
	}
	parts := strings.Split(h, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}
