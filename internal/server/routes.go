package server

import (
	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes は全ルートを登録する。
// /auth配下はテナント非依存、店舗API（/products, /theme, /cart）はテナント解決後。
func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	tenantRepo repository.TenantRepository,
	cartMgr *cart.Manager,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	themeH *handler.ThemeHandler,
	cartH *handler.CartHandler,
) {
	authH.RegisterRoutes(e)

	// 店舗API：テナント解決＋セッションCookie
	shop := e.Group("")
	shop.Use(middleware.ResolveTenant(tenantRepo))
	shop.Use(middleware.Session(cfg.CookieSecure()))

	productH.RegisterRoutes(shop)
	themeH.RegisterRoutes(shop)

	// /cartはさらにストア束縛が要る
	carted := shop.Group("")
	carted.Use(middleware.CartScope(cartMgr))
	cartH.RegisterRoutes(carted)
}
