package router

import (
	"net/http"

	"bazaarHub/domain"
	"bazaarHub/internal/middleware"
	"bazaarHub/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
	users.POST("/logout", handler.Logout, authRequired)

	users.GET("", handler.GetAllUsers, authRequired, middleware.AdminOnly())
	users.GET("/:id", handler.GetUserByID, authRequired, middleware.SelfOrAdmin())
	users.PUT("/:id", handler.UpdateUser, authRequired, middleware.SelfOrAdmin())
	users.POST("/:id/change-password", handler.ChangePassword, authRequired, middleware.SelfOrAdmin())
	users.PATCH("/:id/ban", handler.SetBanned, authRequired, middleware.AdminOnly())
	users.DELETE("/:id", handler.DeleteUser, authRequired, middleware.AdminOnly())
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, authRequired echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.POST("", handler.CreateCategory, authRequired, middleware.AdminOnly())
	categories.PUT("/:id", handler.UpdateCategory, authRequired, middleware.AdminOnly())
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, middleware.AdminOnly())
}

func SetupBrandRoutes(api *echo.Group, handler *rest.BrandHandler, authRequired echo.MiddlewareFunc) {
	brands := api.Group("/brands")

	brands.GET("", handler.GetAllBrands)
	brands.POST("", handler.CreateBrand, authRequired, middleware.AdminOnly())
	brands.PUT("/:id", handler.UpdateBrand, authRequired, middleware.AdminOnly())
	brands.DELETE("/:id", handler.DeleteBrand, authRequired, middleware.AdminOnly())
}

func SetupReviewRoutes(api *echo.Group, handler *rest.ReviewHandler, authRequired echo.MiddlewareFunc) {
	reviews := api.Group("/reviews")

	reviews.POST("", handler.AddReview, authRequired)
	reviews.GET("/can-review/:productId", handler.CanReview, authRequired)
	reviews.GET("/:productId", handler.GetReviews)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc) {
	products := api.Group("/products")
	sellers := middleware.RequireRole(domain.RoleVendor, domain.RoleAdmin)

	products.GET("", handler.GetAllProducts)
	products.GET("/mine", handler.GetMyProducts, authRequired, middleware.VendorOnly())
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, authRequired, sellers)
	products.PUT("/:id", handler.UpdateProduct, authRequired, sellers)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, sellers)
}

func SetOrdersRoutes(api *echo.Group, ordersHandler *rest.OrdersHandler, authRequired echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)

	orders.POST("", ordersHandler.CreateOrder)
	orders.GET("", ordersHandler.GetAllOrders)
	orders.GET("/:id", ordersHandler.GetOrder)
	orders.PATCH("/:id/status", ordersHandler.UpdateStatus)
}

// SetPaymentsRoutes registers gateway payments and the vendor payout surface.
func SetPaymentsRoutes(api *echo.Group, paymentsHandler *rest.PaymentsHandler, payoutHandler *rest.PayoutHandler, authRequired echo.MiddlewareFunc) {
	payments := api.Group("/payments", authRequired)

	vendor := payments.Group("/vendor", middleware.VendorOnly())
	vendor.GET("/summary", payoutHandler.VendorSummary)
	vendor.GET("/payouts", payoutHandler.VendorPayouts)

	admin := payments.Group("/admin", middleware.AdminOnly())
	admin.GET("/vendors", payoutHandler.VendorReport)
	admin.POST("/payouts", payoutHandler.CreatePayout)
	admin.GET("/payouts", payoutHandler.ListPayouts)

	payments.POST("", paymentsHandler.CreatePayment)
	payments.GET("", paymentsHandler.GetAllPayments)
	payments.GET("/:id", paymentsHandler.GetPayment)
}

func SetWebhookHandler(api *echo.Group, webhookHandler *rest.WebhookController) {
	webhook := api.Group("/webhook")
	webhook.POST("/xendit", webhookHandler.HandleWebhook)
}

func SetupAdminRoutes(api *echo.Group, statsHandler *rest.StatsHandler, authRequired echo.MiddlewareFunc) {
	admin := api.Group("/admin", authRequired, middleware.AdminOnly())
	admin.GET("/stats", statsHandler.GetStats)
}

func SetupOpsRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
