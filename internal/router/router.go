// Package router assembles the echo instance: middleware, public endpoints
// and the authenticated /api routes.
package router

import (
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/handler"
	mid "github.com/hashreftech/jewellery-billing-software-sub000/internal/middleware"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/config"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds the HTTP server for cfg.
func New(cfg *config.Config) *echo.Echo {
	handler.Configure(cfg)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.RequestLogMiddleware)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.Health)

	api := e.Group("/api", mid.AuthMiddleware)
	writers := mid.RequireRoles(jwtutil.RoleAdmin, jwtutil.RoleManager)

	orders := api.Group("/purchase-orders")
	orders.GET("", handler.ListPurchaseOrders)
	orders.POST("", handler.CreatePurchaseOrder, writers)
	orders.GET("/:id", handler.GetPurchaseOrder)
	orders.PUT("/:id", handler.UpdatePurchaseOrder, writers)
	orders.GET("/:id/audit", handler.GetPurchaseOrderAudit)
	orders.GET("/:id/invoice", handler.GetPurchaseOrderInvoice)

	prices := api.Group("/price-master")
	prices.GET("", handler.ListPrices)
	prices.GET("/latest", handler.GetLatestPrice)
	prices.POST("", handler.UpsertPrice, writers)
	prices.POST("/quote", handler.QuotePrice)

	categories := api.Group("/categories")
	categories.GET("", handler.ListCategories)
	categories.GET("/:id", handler.GetCategory)
	categories.POST("", handler.CreateCategory, writers)
	categories.PUT("/:id", handler.UpdateCategory, writers)
	categories.DELETE("/:id", handler.DeleteCategory, writers)

	products := api.Group("/products")
	products.GET("", handler.ListProducts)
	products.GET("/:id", handler.GetProduct)
	products.POST("", handler.CreateProduct, writers)
	products.PUT("/:id", handler.UpdateProduct, writers)
	products.DELETE("/:id", handler.DeleteProduct, writers)

	api.GET("/customers", handler.ListCustomers)
	api.GET("/customers/:id", handler.GetCustomer)
	api.POST("/customers", handler.CreateCustomer)

	api.GET("/dealers", handler.ListDealers)
	api.GET("/dealers/:id", handler.GetDealer)
	api.POST("/dealers", handler.CreateDealer, writers)

	api.GET("/schemes", handler.ListSchemes)
	api.POST("/schemes", handler.CreateScheme)

	api.GET("/employees", handler.ListEmployees)
	api.POST("/employees", handler.CreateEmployee, mid.RequireRoles(jwtutil.RoleAdmin))

	return e
}
