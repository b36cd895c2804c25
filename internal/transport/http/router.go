package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/handlers"
	authmw "github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	CatalogHandler *handlers.CatalogHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	SearchHandler  *handlers.SearchHandler
	WebhookHandler *handlers.WebhookHandler
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.LogOut)
	auth.GET("/user", d.AuthHandler.CurrentUser)
	auth.POST("/refresh", d.AuthHandler.Refresh)

	e.POST("/webhooks/payments", d.WebhookHandler.HandlePayment)

	v1 := e.Group("/api/v1")

	v1.GET("/services", d.CatalogHandler.GetServices)
	v1.GET("/services/:id", d.CatalogHandler.GetService)
	v1.GET("/search", d.SearchHandler.Search)

	guard := authmw.NewGuard(d.JWTSecret)

	admin := v1.Group("/admin", guard.RequireAuth, guard.RequireAdmin)
	admin.POST("/services", d.CatalogHandler.CreateService)
	admin.PATCH("/services/:id", d.CatalogHandler.PatchService)
	admin.DELETE("/services/:id", d.CatalogHandler.DeleteService)
	admin.GET("/orders", d.OrderHandler.AdminList)

	private := v1.Group("", guard.RequireAuth)
	private.GET("/cart", d.CartHandler.GetCart)
	private.POST("/cart", d.CartHandler.AddToCart)
	private.POST("/cart/checkout", d.OrderHandler.Checkout)
	private.DELETE("/cart/:id", d.CartHandler.DeleteOneFromCart)
	private.DELETE("/cart/:id/all", d.CartHandler.DeleteLineFromCart)
	private.GET("/orders", d.OrderHandler.ListOwn)
	private.GET("/orders/:id", d.OrderHandler.GetOwn)
}
