package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory-system/config"
	"inventory-system/internal/gateway/handlers"
	"inventory-system/internal/gateway/middleware"
	"inventory-system/internal/health"
	"inventory-system/internal/policy"
	"inventory-system/internal/utils"
)

type httpHandlers struct {
	auth      *handlers.AuthHTTPHandler
	catalog   *handlers.CatalogHTTPHandler
	customers *handlers.PartyHTTPHandler
	suppliers *handlers.PartyHTTPHandler
	purchases *handlers.OrderHTTPHandler
	sales     *handlers.OrderHTTPHandler
	admin     *handlers.AdminHTTPHandler
	support   *handlers.SupportHTTPHandler
}

func setupRouter(cfg config.ServerConfig, h httpHandlers, tokens *utils.TokenIssuer, monitor *health.Monitor) (*gin.Engine, error) {
	r := gin.New()

	r.Use(middleware.RequestLogger(zap.L()))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RateLimit != "" {
		limit, err := middleware.RateLimit(cfg.RateLimit)
		if err != nil {
			return nil, err
		}
		r.Use(limit)
	}

	adminOnly := middleware.RequirePolicy(policy.RequireAdminRole)
	adminOrSupplier := middleware.RequirePolicy(policy.AdminOrSupplier)
	adminOrCustomer := middleware.RequirePolicy(policy.AdminOrCustomer)
	anyTradingRole := middleware.RequirePolicy(policy.AnyTradingRole)

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", h.auth.Login)
			auth.POST("/register/customer", h.auth.RegisterCustomer)
			auth.POST("/register/supplier", h.auth.RegisterSupplier)
		}

		items := public.Group("/items")
		{
			items.GET("", h.catalog.ListItems)
			items.GET("/search", h.catalog.SearchItems)
			items.GET("/category/:categoryId", h.catalog.ItemsByCategory)
			items.GET("/:id", h.catalog.GetItem)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(tokens))
	{
		auth := protected.Group("/auth")
		{
			auth.POST("/register", adminOnly, h.auth.Register)
			auth.GET("/profile", h.auth.Profile)
			auth.POST("/change-password", h.auth.ChangePassword)
		}

		categories := protected.Group("/categories")
		{
			categories.GET("", h.catalog.ListCategories)
			categories.GET("/search", h.catalog.SearchCategories)
			categories.GET("/:id", h.catalog.GetCategory)
			categories.POST("", adminOnly, h.catalog.CreateCategory)
			categories.PUT("/:id", adminOnly, h.catalog.UpdateCategory)
			categories.DELETE("/:id", adminOnly, h.catalog.DeleteCategory)
		}

		items := protected.Group("/items", adminOnly)
		{
			items.POST("", h.catalog.CreateItem)
			items.PUT("/:id", h.catalog.UpdateItem)
			items.DELETE("/:id", h.catalog.DeleteItem)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("", adminOrSupplier, h.customers.List)
			customers.GET("/search", adminOrSupplier, h.customers.Search)
			customers.GET("/me", adminOrCustomer, h.customers.Me)
			customers.GET("/:id", adminOrSupplier, h.customers.Get)
			customers.PUT("/:id", adminOrCustomer, h.customers.Update)
			customers.DELETE("/:id", adminOnly, h.customers.Delete)
			customers.GET("/:id/items", anyTradingRole, h.customers.Items)
			customers.POST("/:id/items", adminOrCustomer, h.customers.AddItem)
			customers.DELETE("/items/:lineId", adminOrCustomer, h.customers.RemoveItem)
		}

		suppliers := protected.Group("/suppliers")
		{
			suppliers.GET("", adminOrCustomer, h.suppliers.List)
			suppliers.GET("/search", adminOrCustomer, h.suppliers.Search)
			suppliers.GET("/me", adminOrSupplier, h.suppliers.Me)
			suppliers.GET("/:id", adminOrCustomer, h.suppliers.Get)
			suppliers.PUT("/:id", adminOrSupplier, h.suppliers.Update)
			suppliers.DELETE("/:id", adminOnly, h.suppliers.Delete)
			suppliers.GET("/:id/items", anyTradingRole, h.suppliers.Items)
			suppliers.POST("/:id/items", adminOrSupplier, h.suppliers.AddItem)
			suppliers.DELETE("/items/:lineId", adminOrSupplier, h.suppliers.RemoveItem)
		}

		purchases := protected.Group("/purchase-orders", adminOrSupplier)
		{
			purchases.GET("", h.purchases.List)
			purchases.GET("/search", h.purchases.Search)
			purchases.GET("/supplier/:supplierId", h.purchases.ByParty)
			purchases.GET("/:id", h.purchases.Get)
			purchases.POST("", h.purchases.Create)
			purchases.DELETE("/:id", h.purchases.Delete)
		}

		sales := protected.Group("/sales-orders", adminOrCustomer)
		{
			sales.GET("", h.sales.List)
			sales.GET("/search", h.sales.Search)
			sales.GET("/customer/:customerId", h.sales.ByParty)
			sales.GET("/:id", h.sales.Get)
			sales.POST("", h.sales.Create)
			sales.DELETE("/:id", h.sales.Delete)
		}

		admin := protected.Group("/admin", adminOnly)
		{
			admin.GET("/dashboard", h.admin.Dashboard)
			admin.GET("/support/statistics", h.admin.SupportStatistics)
			admin.GET("/users", h.admin.ListUsers)
			admin.GET("/users/:id", h.admin.GetUser)
			admin.DELETE("/users/:id", h.admin.DeleteUser)
			admin.GET("/user-types", h.admin.ListUserTypes)
			admin.GET("/user-types/:id", h.admin.GetUserType)
			admin.POST("/user-types", h.admin.CreateUserType)
			admin.PUT("/user-types/:id", h.admin.UpdateUserType)
			admin.DELETE("/user-types/:id", h.admin.DeleteUserType)
		}

		support := protected.Group("/support")
		{
			support.POST("/message", h.support.Submit)
			support.GET("/history", h.support.History)
			support.GET("/stream", h.support.Stream)
			support.GET("/history/:userId", adminOnly, h.support.UserHistory)
			support.GET("/pending", adminOnly, h.support.Pending)
			support.POST("/respond", adminOnly, h.support.Respond)
		}
	}

	r.GET("/health", monitor.Handler())
	r.GET("/health/detailed", monitor.DetailedHandler())

	return r, nil
}
