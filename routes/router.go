package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/config"
	"github.com/mddforum/mdd-api/controllers"
	"github.com/mddforum/mdd-api/middleware"
	"github.com/mddforum/mdd-api/repository"
	"github.com/mddforum/mdd-api/services"
	"github.com/mddforum/mdd-api/utils"
)

// SetupRouter wires stores, services, controllers, middlewares and routes.
func SetupRouter(db *gorm.DB, cfg config.AppConfig) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	users := repository.NewUserRepository(db)
	subjects := repository.NewSubjectRepository(db)
	subscriptions := repository.NewSubscriptionRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authService := services.NewAuthService(users, tokens, utils.NewRegistrationGuard(cfg), services.NewOAuthProviders(cfg)...)
	userService := services.NewUserService(users, tokens)
	subjectService := services.NewSubjectService(subjects, subscriptions)
	postService := services.NewPostService(posts, subjects)
	commentService := services.NewCommentService(comments, posts)
	statsService := services.NewStatsService(users, subjects, posts, comments, subscriptions)

	metrics := middleware.NewMetrics()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(utils.Ginzap(utils.Logger, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(utils.Logger, false))
	r.Use(metrics.Middleware())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		// Wildcard origins cannot carry credentials.
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userService)
	subjectController := controllers.NewSubjectController(subjectService)
	postController := controllers.NewPostController(postService)
	commentController := controllers.NewCommentController(commentService)
	statsController := controllers.NewStatsController(statsService)

	r.GET("/health", statsController.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireAuth := middleware.AuthRequired(authService)
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.GET("/me", requireAuth, authController.Me)
	authGroup.POST("/logout", requireAuth, authController.Logout)

	api.GET("/users/:id", userController.GetUser)
	api.PUT("/users/me", requireAuth, userController.UpdateMe)

	subjectsGroup := api.Group("/subjects", requireAuth)
	subjectsGroup.GET("", subjectController.List)
	subjectsGroup.GET("/subscriptions/status", subjectController.SubscriptionStatus)
	subjectsGroup.GET("/subscribed", subjectController.Subscribed)
	subjectsGroup.POST("/:id/subscribe", subjectController.Subscribe)
	subjectsGroup.DELETE("/:id/unsubscribe", subjectController.Unsubscribe)

	api.GET("/posts/subscribed", requireAuth, postController.Feed)
	api.GET("/posts/:id", postController.GetPost)
	api.POST("/posts", requireAuth, postController.CreatePost)

	api.GET("/comments/post/:postId", commentController.List)
	api.POST("/comments/post/:postId", requireAuth, commentController.Create)

	api.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Fail(ctx, apperror.NotFound(apperror.CodeNotFound, "API route not found"))
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
