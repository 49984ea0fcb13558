package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	appsvc "medichat/internal/app"
	"medichat/internal/bootstrap"
	"medichat/internal/cache"
	"medichat/internal/modelapi"
	"medichat/internal/pkg/imagestore"
	"medichat/internal/platform/rabbitmq"
	"medichat/internal/repository"
	"medichat/internal/transport/http/handler"
	"medichat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	images, err := imagestore.New(app.Config.Upload.ProfileImageDir)
	if err != nil {
		return nil, fmt.Errorf("init image store failed: %w", err)
	}

	userRepo := repository.NewUserRepository(app.MySQL)
	messageRepo := repository.NewChatMessageRepository(app.MySQL)
	predictionRepo := repository.NewPredictionRepository(app.MySQL)

	modelClient := modelapi.NewClient(
		app.Config.ModelAPI.BaseURL,
		time.Duration(app.Config.ModelAPI.TimeoutSeconds)*time.Second,
	)
	publisher := rabbitmq.NewTurnPublisher(app.MQConn, app.Config.RabbitMQ.ChatPersistQueue)
	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	chatService := appsvc.NewChatService(messageRepo, predictionRepo, publisher, historyCache, modelClient)
	analyzerService := appsvc.NewAnalyzerService(predictionRepo, userRepo, modelClient, modelClient)

	authHandler := handler.NewAuthHandler(authService, images)
	chatHandler := handler.NewChatHandler(chatService)
	analyzerHandler := handler.NewAnalyzerHandler(analyzerService)

	authJWT := middleware.AuthJWT(app.Config.Auth.JWTSecret)
	adminOnly := middleware.RequireRoles("admin")

	authGroup := router.Group("/auth")
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/signin", authHandler.SignIn)
	authGroup.GET("/profile", authJWT, authHandler.Profile)
	authGroup.POST("/admin/create", authJWT, adminOnly, authHandler.CreateAdmin)
	authGroup.POST("/upload-profile-image", authJWT, authHandler.UploadProfileImage)
	authGroup.GET("/profile-image/:userId", authHandler.ProfileImage)

	chatGroup := router.Group("/chat")
	chatGroup.Use(authJWT)
	chatGroup.POST("/message", chatHandler.ProcessMessage)
	chatGroup.GET("/history", chatHandler.GetHistory)
	chatGroup.GET("/admin/history", adminOnly, chatHandler.GetAllHistory)

	analyzerGroup := router.Group("/symptom-analyzer")
	analyzerGroup.GET("/health", analyzerHandler.Health)
	analyzerGroup.POST("/predict", authJWT, analyzerHandler.Predict)
	analyzerGroup.GET("/predictions", authJWT, analyzerHandler.ListPredictions)
	analyzerGroup.GET("/predictions/:id", authJWT, analyzerHandler.GetPrediction)
	analyzerGroup.GET("/predictions/:id/pdf", authJWT, analyzerHandler.GetPredictionPDF)
	analyzerGroup.GET("/admin/predictions", authJWT, adminOnly, analyzerHandler.ListAllPredictions)

	return router, nil
}
