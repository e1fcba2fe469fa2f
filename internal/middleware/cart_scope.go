package middleware

import (
	"fmt"
	"net/http"

	"storefront/internal/cart"

	"github.com/labstack/echo/v4"
)

// CartScope はテナント＋セッションのストアをリクエストに束縛する。
// ResolveTenantとSessionの後ろに置くこと。
func CartScope(mgr *cart.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			t, ok := TenantFromContext(c)
			if !ok {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}
			sid, ok := SessionIDFromContext(c)
			if !ok {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			key := fmt.Sprintf("cart:%s:%s", t.Slug, sid)
			c.Set(cart.ContextKey, mgr.Get(key, nil))

			return next(c)
		}
	}
}
