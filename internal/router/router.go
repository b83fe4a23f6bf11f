package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jwlim/finstat-backend/config"
	"github.com/jwlim/finstat-backend/internal/app/controller"
	"github.com/jwlim/finstat-backend/internal/middleware"
)

type Router struct {
	finController *controller.FinController
	config        *config.Config
}

func NewRouter(finController *controller.FinController, cfg *config.Config) *Router {
	return &Router{
		finController: finController,
		config:        cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "FINSTAT API is running",
		})
	})

	fin := router.Group("/api/fin")
	{
		fin.GET("/companies", r.finController.ListCompanies)
		fin.GET("/companies/:corp_code/years", r.finController.ListStatementYears)
		fin.GET("/statements/:corp_code", r.finController.GetStatements)
		fin.GET("/ratios/:company_name", r.finController.GetRatioSummary)
		fin.POST("/financial", r.finController.FetchFinancial)
		fin.GET("/export/:corp_code", r.finController.ExportStatements)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
