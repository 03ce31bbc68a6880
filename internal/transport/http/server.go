package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "docmanager/internal/app"
	"docmanager/internal/bootstrap"
	"docmanager/internal/cache"
	"docmanager/internal/platform/rabbitmq"
	"docmanager/internal/repository"
	"docmanager/internal/transport/http/handler"
	"docmanager/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	docRepo := repository.NewDocumentRepository(app.MySQL)
	ingestionRepo := repository.NewIngestionRepository(app.MySQL)

	statusCache := cache.NewIngestionStatusCache(
		app.Redis,
		time.Duration(app.Config.Redis.StatusTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewIngestionPublisher(app.MQConn, app.Config.RabbitMQ.IngestionQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	policy := appsvc.NewPolicy(app.Config.Auth.JWTSecret)
	userService := appsvc.NewUserService(userRepo)
	documentService := appsvc.NewDocumentService(docRepo, app.Files)
	ingestionService := appsvc.NewIngestionService(ingestionRepo, docRepo, publisher, statusCache)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, userService)
	documentHandler := handler.NewDocumentHandler(documentService, app.Config.MaxUploadBytes())
	ingestionHandler := handler.NewIngestionHandler(ingestionService)

	gate := func(action string) gin.HandlerFunc {
		return middleware.Authorize(policy, action)
	}

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", gate(appsvc.ActionAuthMe), authHandler.Me)

	userGroup := v1.Group("/users")
	userGroup.POST("", gate(appsvc.ActionUserCreate), userHandler.Create)
	userGroup.GET("", gate(appsvc.ActionUserList), userHandler.List)
	userGroup.GET("/:id", gate(appsvc.ActionUserGet), userHandler.Get)
	userGroup.PUT("/:id/role", gate(appsvc.ActionUserUpdateRole), userHandler.UpdateRole)

	docGroup := v1.Group("/documents")
	docGroup.POST("", gate(appsvc.ActionDocumentCreate), documentHandler.Create)
	docGroup.GET("", gate(appsvc.ActionDocumentList), documentHandler.List)
	docGroup.GET("/:id", gate(appsvc.ActionDocumentGet), documentHandler.Get)
	docGroup.PUT("/:id", gate(appsvc.ActionDocumentUpdate), documentHandler.Update)
	docGroup.DELETE("/:id", gate(appsvc.ActionDocumentDelete), documentHandler.Delete)
	docGroup.POST("/:id/trigger-ingestion", gate(appsvc.ActionDocumentProcess), documentHandler.TriggerIngestion)

	ingGroup := v1.Group("/ingestion")
	ingGroup.POST("/documents/:id/trigger", gate(appsvc.ActionIngestionTrigger), ingestionHandler.Trigger)
	ingGroup.GET("/documents/:id/status", gate(appsvc.ActionIngestionStatus), ingestionHandler.Status)
	ingGroup.GET("/status", gate(appsvc.ActionIngestionStatusAll), ingestionHandler.AllStatus)
	ingGroup.POST("/documents/:id/complete", gate(appsvc.ActionIngestionComplete), ingestionHandler.Complete)
	ingGroup.POST("/documents/:id/fail", gate(appsvc.ActionIngestionFail), ingestionHandler.Fail)

	return router
}
