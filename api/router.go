package api

import (
	"net/http"

	"campusfood/api/admin"
	"campusfood/api/auth"
	"campusfood/api/health"
	"campusfood/api/menu"
	"campusfood/api/middleware"
	"campusfood/api/order"
	"campusfood/api/response"
	"campusfood/config"
	"campusfood/pkg/errors"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Health *health.Controller
	Auth   *auth.Controller
	Menu   *menu.Controller
	Order  *order.Controller
	Admin  *admin.Controller
}

type Router struct {
	engine      *gin.Engine
	config      *config.Config
	controllers Controllers
	verifier    middleware.TokenVerifier
	admins      middleware.AdminChecker
}

func NewRouter(cfg *config.Config, controllers Controllers, verifier middleware.TokenVerifier, admins middleware.AdminChecker) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	response.ExposeInternalErrors(cfg.IsDevelopment())

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:      engine,
		config:      cfg,
		controllers: controllers,
		verifier:    verifier,
		admins:      admins,
	}
}

func (r *Router) SetupRoutes() {
	requireIdentity := middleware.RequireIdentity(r.verifier)
	optionalIdentity := middleware.OptionalIdentity(r.verifier)
	requireAdmin := middleware.RequireAdmin(r.admins)

	apiGroup := r.engine.Group("/api")
	{
		r.controllers.Health.RegisterRoutes(apiGroup)
		r.controllers.Auth.RegisterRoutes(apiGroup, requireIdentity)
		r.controllers.Menu.RegisterRoutes(apiGroup, optionalIdentity)
		r.controllers.Order.RegisterRoutes(apiGroup, requireIdentity)
		r.controllers.Admin.RegisterRoutes(apiGroup, requireIdentity, requireAdmin)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/health",
		})
	})

	r.engine.NoRoute(func(c *gin.Context) {
		response.Abort(c, errors.NotFound("route not found"))
	})
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
