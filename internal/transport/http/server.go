package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	appsvc "goboard/internal/app"
	"goboard/internal/bootstrap"
	"goboard/internal/cache"
	"goboard/internal/repository"
	"goboard/internal/transport/graph"
	"goboard/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	cfg := app.Config
	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.ClientURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cache.NewSessionStore(app.Redis, sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAgeSeconds,
		HttpOnly: true,
		Secure:   cfg.IsProd(),
		SameSite: http.SameSiteLaxMode,
	}, []byte(cfg.Session.Secret))
	router.Use(sessions.Sessions(cfg.Session.CookieName, store))

	userRepo := repository.NewUserRepository(app.MySQL)
	postRepo := repository.NewPostRepository(app.MySQL)
	resetTokens := cache.NewResetTokenCache(app.Redis, time.Duration(cfg.Auth.ResetTokenTTLHours)*time.Hour)
	authService := appsvc.NewAuthService(userRepo, resetTokens, app.Mailer, cfg.App.ClientURL)
	postService := appsvc.NewPostService(postRepo)

	schema, err := graph.NewSchema(authService, postService)
	if err != nil {
		return nil, err
	}
	gqlHandler := handler.NewGraphQLHandler(schema)
	healthHandler := handler.NewHealthHandler(app)

	router.Static("/static", "web/static")
	router.StaticFile("/", "web/index.html")
	router.StaticFile("/register", "web/register.html")
	router.StaticFile("/login", "web/login.html")
	router.StaticFile("/forgot-password", "web/forgot-password.html")
	router.GET("/change-password/:token", func(c *gin.Context) {
		c.File("web/change-password.html")
	})

	router.GET("/healthz", healthHandler.Check)
	router.POST("/graphql", gqlHandler.Execute)

	return router, nil
}
