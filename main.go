package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"relay/config"
	"relay/jobs"
	"relay/middleware"
	"relay/models"
	"relay/routes"
	"relay/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func migrateTables() {
	if err := config.DB.AutoMigrate(&models.Conversation{}, &models.ExternalLog{}, &models.Reminder{}); err != nil {
		log.Printf("Warning: migrate tables thất bại: %v", err)
	}
}

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}

	if dir := os.Getenv("LOG_DIR"); dir != "" {
		if err := utils.InitFileLog(dir); err != nil {
			log.Printf("Warning: không mở được file log trong %s: %v", dir, err)
		}
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	migrateTables()

	router.Use(middleware.RequestLogger())

	reminders := routes.SetupRoutes(router, config.DB, config.RedisClient, m)

	jobs.SetReminderSweeper(reminders)
	if err := jobs.InitCronJobs(c); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Hosting free tier sẽ ngủ nếu không có traffic, tự ping để giữ process sống
	if pingURL := os.Getenv("KEEPALIVE_URL"); pingURL != "" {
		go func() {
			for {
				resp, err := http.Get(pingURL)
				if err != nil {
					log.Printf("Error pinging keepalive endpoint: %v", err)
				} else {
					body, _ := io.ReadAll(resp.Body)
					resp.Body.Close()
					log.Printf("Ping response: %s", string(body))
				}
				time.Sleep(5 * time.Minute)
			}
		}()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
