package cmd

import "time"

// Config carries all runtime settings, loaded from .env in main.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string

	// LocationTTL bounds how long a stale location sample survives in Redis
	// after the last report.
	LocationTTL time.Duration

	// OrderWebhookURL is the order service endpoint for delivery-completed
	// callbacks.
	OrderWebhookURL string

	// BroadcastAttempts and BroadcastDelay shape the publish retry policy.
	BroadcastAttempts uint
	BroadcastDelay    time.Duration

	// RedriveDisabled turns off the degraded-broadcast sweep job.
	RedriveDisabled bool
}
