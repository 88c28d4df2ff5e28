// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"sabor/internal/delivery/http/middleware"
	"sabor/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	AddressHandler *handler.AddressHandler
	CatalogHandler *handler.CatalogHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	addressHandler *handler.AddressHandler
	catalogHandler *handler.CatalogHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		addressHandler: params.AddressHandler,
		catalogHandler: params.CatalogHandler,
		cartHandler:    params.CartHandler,
		orderHandler:   params.OrderHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// Public catalog routes
	storeGroup := e.Group("/stores")
	{
		storeGroup.GET("", r.catalogHandler.ListStores)
		storeGroup.GET("/:slug", r.catalogHandler.GetStore)
		storeGroup.GET("/:slug/availability", r.catalogHandler.GetStoreAvailability)
	}
	e.GET("/categories", r.catalogHandler.ListCategories)
	e.GET("/products", r.catalogHandler.ListProducts)

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
		userGroup.PUT("/profile", r.userHandler.UpdateProfile)

		userGroup.POST("/addresses", r.addressHandler.Create)
		userGroup.GET("/addresses", r.addressHandler.List)
		userGroup.PUT("/addresses/:id", r.addressHandler.Update)
		userGroup.DELETE("/addresses/:id", r.addressHandler.Delete)
		userGroup.PUT("/addresses/:id/default", r.addressHandler.SetDefault)
	}

	// Cart routes that require authentication
	cartGroup := e.Group("/cart")
	cartGroup.Use(r.authMiddleware.Authenticate)
	{
		cartGroup.GET("", r.cartHandler.Get)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PATCH("/items/:key", r.cartHandler.UpdateLine)
		cartGroup.DELETE("/items/:key", r.cartHandler.RemoveLine)
		cartGroup.DELETE("", r.cartHandler.Clear)
	}

	// Order routes that require authentication
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.Checkout)
		orderGroup.GET("", r.orderHandler.List)
		orderGroup.GET("/:id", r.orderHandler.Get)
		orderGroup.GET("/:id/qrcode", r.orderHandler.GetQR)
	}
}
