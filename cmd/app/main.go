package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/out/postgres/agentrepo"
	"dispatch/internal/adapters/out/postgres/taskrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustOpenDatabase(configs)
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}
	defer app.Hub().Shutdown()
	defer app.Notifier().Wait()

	if jobManager := app.CreateJobManager(); jobManager != nil {
		if err := jobManager.StartAll(); err != nil {
			log.Fatalf("Failed to start background jobs: %v", err)
		}
		defer jobManager.StopAll()
	}

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:          goDotEnvVariable("HTTP_PORT"),
		DBHost:            goDotEnvVariable("DB_HOST"),
		DBPort:            goDotEnvVariable("DB_PORT"),
		DBUser:            goDotEnvVariable("DB_USER"),
		DBPassword:        goDotEnvVariable("DB_PASSWORD"),
		DBName:            goDotEnvVariable("DB_NAME"),
		DBSslMode:         goDotEnvVariable("DB_SSLMODE"),
		RedisAddr:         goDotEnvVariable("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		LocationTTL:       durationEnv("LOCATION_TTL_SECONDS", 30*time.Minute),
		OrderWebhookURL:   goDotEnvVariable("ORDER_WEBHOOK_URL"),
		BroadcastAttempts: uintEnv("BROADCAST_RETRY_ATTEMPTS", 3),
		BroadcastDelay:    durationEnv("BROADCAST_RETRY_DELAY_MS", 50*time.Millisecond),
		RedriveDisabled:   os.Getenv("REDRIVE_DISABLED") == "true",
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func uintEnv(key string, fallback uint) uint {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return uint(value)
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return time.Duration(value) * unitFor(key)
}

func unitFor(key string) time.Duration {
	if len(key) > 3 && key[len(key)-3:] == "_MS" {
		return time.Millisecond
	}
	return time.Second
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)

	// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey,
	// which the task repository relies on for the one-task-per-order rule.
	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&agentrepo.AgentDTO{}, &taskrepo.TaskDTO{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
