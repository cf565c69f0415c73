package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/server/http/handlers"
	"github.com/greenbasket/greenbasket/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CommerceFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	ratingHandler := handlers.NewRatingHandler(facade)
	salesHandler := handlers.NewSalesHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)
	// The webhook authenticates itself through the recomputed signature.
	api.POST("/payment/webhook", orderHandler.Webhook)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/cart", cartHandler.Get)
	authed.POST("/cart/items/:itemID", cartHandler.Add)
	authed.DELETE("/cart/items/:itemID", cartHandler.Remove)
	authed.DELETE("/cart", cartHandler.Clear)
	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders", orderHandler.List)
	authed.POST("/orders/:orderID/payment", orderHandler.ConfirmPayment)
	authed.POST("/items/:itemID/ratings", ratingHandler.Upsert)
	authed.GET("/items/:itemID/ratings", ratingHandler.List)
	authed.GET("/items/:itemID/ratings/eligibility", ratingHandler.Eligibility)
	authed.POST("/ratings/batch", ratingHandler.Batch)

	admin := authed.Group("/admin")
	admin.Use(middleware.RoleRequired(model.RoleOperator))
	admin.GET("/orders", orderHandler.ListAll)
	admin.PATCH("/orders/:orderID/status", orderHandler.SetStatus)
	admin.GET("/sales", salesHandler.Report)

	return engine
}
