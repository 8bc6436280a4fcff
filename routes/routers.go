package routes

import (
	"relay/config"
	"relay/controllers"
	middlewares "relay/middleware"
	"relay/services"
	"relay/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes dựng toàn bộ service graph và gắn route
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, m *melody.Melody) *services.ReminderService {
	appLogger := logger.NewDefaultLogger(logger.ParseLevel(config.GetEnv("LOG_LEVEL")))

	ai := services.NewAIClientFromEnv()
	keywords := services.NewKeywordService(ai, appLogger)
	retriever := services.NewContextRetriever(db, appLogger)
	generator := services.NewResponseGenerator(ai, appLogger)
	conversations := services.NewConversationService(db, m, appLogger)
	pipeline := services.NewChatPipeline(keywords, retriever, generator, conversations, redisCli, appLogger)

	line := services.NewLineServiceFromEnv(config.Cloudinary, appLogger)
	chatwork := services.NewChatworkServiceFromEnv(appLogger)
	var reminderSender services.ReminderSender
	if line.Configured() {
		reminderSender = line
	}
	reminders := services.NewReminderService(db, reminderSender, appLogger)
	limiter := services.NewRateLimiter(redisCli, config.GetEnvInt("RATE_LIMIT_PER_MINUTE", 20), appLogger)

	chatController := controllers.NewChatController(pipeline, limiter)
	lineController := controllers.NewLineController(line, pipeline, reminders, conversations, appLogger)
	chatworkController := controllers.NewChatworkController(chatwork, pipeline, conversations, appLogger)
	feedbackController := controllers.NewFeedbackController(conversations)
	statsController := controllers.NewStatsController(services.NewStatsService(db))
	healthController := controllers.NewHealthController(db)
	adminController := controllers.NewAdminController(reminders, m)

	router.GET("/health", healthController.Health)

	api := router.Group("/api")
	api.POST("/chat", chatController.Chat)
	api.POST("/feedback", feedbackController.Feedback)
	api.GET("/stats", middlewares.AuthMiddleware(), statsController.GetStats)

	api.POST("/line/webhook", lineController.Webhook)
	api.POST("/chatwork/webhook", chatworkController.Webhook)

	admin := api.Group("/admin")
	admin.POST("/login", adminController.Login)
	admin.GET("/monitor", middlewares.AuthMiddleware(), adminController.MonitorWS)
	admin.GET("/reminders", middlewares.AuthMiddleware(), adminController.ListReminders)

	return reminders
}
