package config

import (
	"go.uber.org/fx"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	Port        string
	ServiceName string
	Environment string

	PostgresURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	RabbitMQHost         string
	RabbitMQPort         string
	RabbitMQUser         string
	RabbitMQPassword     string
	RabbitMQExchangeName string
	AmqpConnection       string

	JWTSecretKey string
	JWTAlgorithm string

	StripeAPIKey        string
	StripeWebhookSecret string

	AuthServiceURL         string
	NotificationServiceURL string
	SecretToken            string

	SchedulerIntervalSec int
}

// NewAppConfig creates and returns a new AppConfig instance.
func NewAppConfig() *AppConfig {
	LoadEnvVars()

	return &AppConfig{
		Port:        EnvPort(),
		ServiceName: EnvServiceName(),
		Environment: EnvironmentConfig(),

		PostgresURL: EnvPostgresURL(),

		RedisHost:     EnvRedisHost(),
		RedisPort:     EnvRedisPort(),
		RedisPassword: EnvRedisPassword(),
		RedisDB:       EnvRedisDB(),

		RabbitMQHost:         EnvRabbitMQHost(),
		RabbitMQPort:         EnvRabbitMQPort(),
		RabbitMQUser:         EnvRabbitMQUser(),
		RabbitMQPassword:     EnvRabbitMQPassword(),
		RabbitMQExchangeName: EnvRabbitMQExchangeName(),
		AmqpConnection:       EnvAmqpConnection(),

		JWTSecretKey: EnvJWTSecretKey(),
		JWTAlgorithm: EnvJWTAlgorithm(),

		StripeAPIKey:        EnvStripeAPIKey(),
		StripeWebhookSecret: EnvStripeWebhookSecret(),

		AuthServiceURL:         EnvAuthServiceURL(),
		NotificationServiceURL: EnvNotificationServiceURL(),
		SecretToken:            EnvSecretToken(),

		SchedulerIntervalSec: EnvSchedulerIntervalSec(),
	}
}

// Module provides the fx module for AppConfig.
var Module = fx.Module("config", fx.Provide(NewAppConfig))
