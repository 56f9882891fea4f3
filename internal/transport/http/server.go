package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "github.com/StutiiiG/readai/internal/app"
	"github.com/StutiiiG/readai/internal/bootstrap"
	"github.com/StutiiiG/readai/internal/repository"
	"github.com/StutiiiG/readai/internal/transport/http/handler"
	"github.com/StutiiiG/readai/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireHour)*time.Hour,
	)

	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(app.SessionService)
	fileHandler := handler.NewFileHandler(app.FileService, app.Config.MaxUploadBytes())
	chatHandler := handler.NewChatHandler(app.ChatService)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	protected := v1.Group("")
	protected.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))

	protected.POST("/sessions", sessionHandler.Create)
	protected.GET("/sessions", sessionHandler.List)
	protected.GET("/sessions/:id", sessionHandler.Get)
	protected.PATCH("/sessions/:id", sessionHandler.Rename)
	protected.DELETE("/sessions/:id", sessionHandler.Delete)

	protected.POST("/files/upload", fileHandler.Upload)
	protected.GET("/files/session/:id", fileHandler.ListBySession)
	protected.DELETE("/files/:id", fileHandler.Delete)

	protected.GET("/messages/:session_id", chatHandler.GetMessages)
	protected.POST("/chat", chatHandler.SendMessage)

	return router
}
