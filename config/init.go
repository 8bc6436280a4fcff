package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

var RedisClient *redis.Client

// InitApp khởi tạo gin engine, CORS, melody và cron
func InitApp() (*gin.Engine, *melody.Melody, *cron.Cron, error) {
	router := gin.Default()

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", "X-Line-Signature", "X-ChatWorkWebhookToken")
	configCors.AllowCredentials = true

	allowed := os.Getenv("ALLOWED_ORIGINS")
	if allowed == "" {
		configCors.AllowAllOrigins = false
		configCors.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		configCors.AllowOrigins = strings.Split(allowed, ",")
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	if err := initComponents(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize components: %v", err)
	}

	m := melody.New()

	c := cron.New()

	return router, m, c, nil
}

func initComponents() error {
	LoadEnv()

	if err := ValidateRequiredEnv(); err != nil {
		return err
	}

	ConnectDB()

	ConnectCloudinary()

	var err error
	RedisClient, err = ConnectRedis()
	if err != nil {
		// Redis chỉ là advisory, mất Redis không chặn khởi động
		log.Printf("Warning: không kết nối được Redis: %v", err)
		RedisClient = nil
	}

	log.Println("All components initialized successfully")
	return nil
}
