package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dtroode/jobboard/internal/access"
	"github.com/dtroode/jobboard/internal/api/http/handler"
	"github.com/dtroode/jobboard/internal/api/http/middleware"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

// Services groups what the HTTP API is served from.
type Services struct {
	Auth           handler.AuthService
	Offer          handler.OfferService
	Application    handler.ApplicationService
	Token          middleware.TokenService
	DB             handler.Pinger
	Context        model.ContextManager
	AllowedOrigins []string
}

// Router builds the gin engine for the job board API.
type Router struct {
	services Services
	logger   *logger.Logger
}

// New creates new HTTP Router instance.
func New(services Services, logger *logger.Logger) *Router {
	return &Router{services: services, logger: logger}
}

// Register wires middleware and every route and returns the engine.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()

	logging := middleware.NewLogging(r.logger)
	engine.Use(logging.HandleHTTP, gin.Recovery(), cors.New(r.corsConfig()))

	health := handler.NewHealth(r.services.DB, r.logger)
	engine.GET("/health", health.Check)

	api := engine.Group("/api/v1")
	r.registerAuthRoutes(api)
	r.registerOfferRoutes(api)
	r.registerApplicationRoutes(api)

	return engine
}

func (r *Router) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	if len(r.services.AllowedOrigins) == 0 || (len(r.services.AllowedOrigins) == 1 && r.services.AllowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = r.services.AllowedOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	return config
}

func (r *Router) authenticated(api *gin.RouterGroup) *gin.RouterGroup {
	authenticate := middleware.NewAuthenticate(r.services.Token, r.services.Auth, r.services.Context, r.logger)
	return api.Group("", authenticate.HandleHTTP)
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup) {
	h := handler.NewAuth(r.services.Auth, r.services.Context, r.logger)

	auth := api.Group("/auth")
	auth.POST("/signup", h.SignUp)
	auth.POST("/login", h.SignIn)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", h.SignOut)

	protected := r.authenticated(api)
	protected.GET("/auth/user", h.CurrentUser)
	protected.GET("/profile", h.Profile)
}

func (r *Router) registerOfferRoutes(api *gin.RouterGroup) {
	h := handler.NewOffer(r.services.Offer, r.services.Context, r.logger)

	offers := r.authenticated(api).Group("/offers")
	offers.GET("", h.List)
	offers.GET("/:id", h.Get)
	offers.POST("", middleware.RequireView(access.ViewCreateJob, r.services.Context), h.Create)
}

func (r *Router) registerApplicationRoutes(api *gin.RouterGroup) {
	h := handler.NewApplication(r.services.Application, r.services.Context, r.logger)
	protected := r.authenticated(api)

	board := protected.Group("/offers/:id/applications", middleware.RequireView(access.ViewCompanyJob, r.services.Context))
	board.GET("", h.ListForOffer)
	board.PATCH("/:user_id", h.Move)

	apps := protected.Group("/applications")
	apps.POST("", middleware.RequireView(access.ViewUserDashboard, r.services.Context), h.Apply)
	apps.GET("", middleware.RequireView(access.ViewUserJobs, r.services.Context), h.ListMine)
	apps.PUT("/:id/resume", middleware.RequireView(access.ViewUserJobs, r.services.Context), h.UploadResume)
	apps.GET("/:id/resume", h.DownloadResume)
}
