package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"kitsu-backend/internal/handlers"
	"kitsu-backend/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	MenuHandler    *handlers.MenuHandler
	OrderHandler   *handlers.OrderHandler
	PaymentHandler *handlers.PaymentHandler
	AdminHandler   *handlers.AdminHandler
	AuthHandler    *handlers.AuthHandler
	SearchHandler  *handlers.SearchHandler
	TokenService   *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.Logout)

	api.GET("/items", d.MenuHandler.GetItems)
	if d.SearchHandler != nil {
		api.GET("/items/search", d.SearchHandler.Search)
	}

	orders := api.Group("/orders")
	orders.POST("/submit-final", d.OrderHandler.SubmitFinal)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PATCH("/:id/slip", d.OrderHandler.UploadSlip)

	payments := api.Group("/payments")
	payments.POST("/create-intent", d.PaymentHandler.CreateIntent)
	payments.GET("/:intent_id", d.PaymentHandler.GetStatus)

	webhook := api.Group("/webhook")
	webhook.POST("/simulator", d.PaymentHandler.SimulatorWebhook)
	webhook.POST("/stripe", d.PaymentHandler.StripeWebhook)
	webhook.POST("/omise", d.PaymentHandler.OmiseWebhook)

	admin := api.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)

	admin.POST("/items", d.MenuHandler.CreateItem)
	admin.PATCH("/items/:id", d.MenuHandler.PatchItem)
	admin.DELETE("/items/:id", d.MenuHandler.DeleteItem)

	admin.GET("/orders", d.AdminHandler.ListOrders)
	admin.PATCH("/orders/:id", d.AdminHandler.UpdateOrder)
	admin.GET("/stats", d.AdminHandler.GetStats)
}
