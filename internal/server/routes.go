package server

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/session"

	"github.com/labstack/echo/v4"
)

// Handlers はルーティングに必要なhandlerの束
type Handlers struct {
	Storefront   *handler.StorefrontHandler
	Cart         *handler.CartHandler
	Auth         *handler.AuthHandler
	Order        *handler.OrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
}

// 公開 / セッション必須 / 管理者 の3グループに分けて登録
func RegisterRoutes(e *echo.Echo, h Handlers, tokens *session.TokenIssuer, store session.Store) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.SuccessResponse{Message: "ok"})
	})

	public := e.Group("")

	sess := e.Group("")
	sess.Use(middleware.SessionAuth(tokens, store))

	admin := e.Group("/admin")
	admin.Use(middleware.SessionAuth(tokens, store))
	admin.Use(middleware.AdminRoleGuard())

	h.Storefront.RegisterRoutes(public, sess)
	h.Auth.RegisterRoutes(public, sess)
	h.Cart.RegisterRoutes(sess)
	h.Order.RegisterRoutes(sess)
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminOrder.RegisterRoutes(admin)
}
