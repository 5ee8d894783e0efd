package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"licensedesk/internal/api/handlers"
	"licensedesk/internal/api/middleware"
	"licensedesk/internal/config"
	"licensedesk/internal/store"
)

type Server struct {
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config

	LicenseStore store.LicenseStore
	ProductStore store.ProductStore
	LogStore     store.LogStore
}

func NewServer(cfg config.Config, db *pgxpool.Pool, ls store.LicenseStore, ps store.ProductStore, logs store.LogStore) *Server {
	r := gin.Default()

	if len(cfg.TrustedProxies) > 0 {
		r.SetTrustedProxies(cfg.TrustedProxies)
	}

	server := &Server{
		Router:       r,
		DB:           db,
		Config:       cfg,
		LicenseStore: ls,
		ProductStore: ps,
		LogStore:     logs,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	rateLimiter := middleware.RateLimitMiddleware(s.Config.RateLimitAPI)

	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authorized := s.Router.Group("/api")
	authorized.Use(rateLimiter)
	authorized.Use(middleware.JWTAuth(s.Config))
	{
		// License records
		authorized.GET("/licenses", handlers.ListLicensesHandler(s.LicenseStore))
		authorized.POST("/licenses", handlers.CreateLicenseHandler(s.LicenseStore, s.LogStore))
		authorized.PUT("/licenses/:id", handlers.UpdateLicenseHandler(s.LicenseStore, s.LogStore))
		authorized.DELETE("/licenses/:id", handlers.DeleteLicenseHandler(s.LicenseStore, s.LogStore))

		// Derived grouped view
		authorized.GET("/inventory", handlers.GetInventoryHandler(s.LicenseStore, s.ProductStore, s.Config.ExpiringSoonDays))

		// Purchased totals
		authorized.GET("/license-totals", handlers.GetTotalsHandler(s.ProductStore))

		// Product management (Admin only)
		admin := authorized.Group("/")
		admin.Use(middleware.RequireAdmin())
		{
			admin.PUT("/license-totals", handlers.SaveTotalsHandler(s.ProductStore, s.LogStore))
			admin.POST("/products", handlers.CreateProductHandler(s.LicenseStore, s.ProductStore, s.LogStore))
			admin.POST("/products/rename", handlers.RenameProductHandler(s.LicenseStore, s.ProductStore, s.LogStore))
			admin.DELETE("/products/:name", handlers.DeleteProductHandler(s.ProductStore, s.LogStore))

			admin.GET("/logs/admin-actions", handlers.GetAdminLogsHandler(s.LogStore))
		}
	}
}
