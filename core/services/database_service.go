package services

import (
	"context"
	"time"

	"github.com/northlane/billingctl/core/config"
	"github.com/northlane/billingctl/core/entities"
	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Connector is the global database connector instance.
var Connector *gorm.DB

// OpenConnection opens a new database connection using the Postgres driver.
func OpenConnection(log logger.Logger) *errors.AppError {
	isProduction := config.EnvironmentConfig() == entities.Environment.Production

	gormCfg := &gorm.Config{}
	if isProduction {
		gormCfg.Logger = gormLogger.Default.LogMode(gormLogger.Error)
	} else {
		gormCfg.Logger = gormLogger.Default.LogMode(gormLogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(config.EnvPostgresURL()), gormCfg)
	if err != nil {
		appErr := errors.NewAppError(entities.ErrDatabase, err.Error(), nil, err)
		log.LogError(context.Background(), "failed to connect to database", appErr)
		return appErr
	}

	sqlDB, err := db.DB()
	if err != nil {
		appErr := errors.NewAppError(entities.ErrDatabase, err.Error(), nil, err)
		log.LogError(context.Background(), "failed to acquire sql.DB handle", appErr)
		return appErr
	}

	if err := sqlDB.Ping(); err != nil {
		appErr := errors.NewAppError(entities.ErrDatabase, "failed to ping database after connection", nil, err)
		log.LogError(context.Background(), "database ping failed", appErr)
		return appErr
	}

	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	log.Info(context.Background(), "database connection established")

	Connector = db
	return nil
}

// RetryHandler retries f up to n times, used for resilient startup sequencing.
func RetryHandler(n int, f func() (bool, error)) error {
	ok, err := f()
	if ok && err == nil {
		return nil
	}
	if n-1 > 0 {
		return RetryHandler(n-1, f)
	}
	return err
}

// RunMigrations applies AutoMigrate for every model the caller passes in. The composition
// root owns the model list so this package never imports feature packages.
func RunMigrations(log logger.Logger, models ...interface{}) error {
	ctx := context.Background()
	log.Info(ctx, "running schema migrations")

	if err := Connector.AutoMigrate(models...); err != nil {
		log.Error(ctx, "schema migration failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	if err := ensureOneActiveSubscriptionPerUser(); err != nil {
		log.Error(ctx, "failed to create one-active-subscription-per-user constraint", map[string]interface{}{"error": err.Error()})
		return err
	}

	log.Info(ctx, "schema migrations complete")
	return nil
}

// ensureOneActiveSubscriptionPerUser backs invariant #1 (at most one active-or-pending
// subscription per user) with a partial unique index, so a race between two concurrent
// subscribe commands is resolved by the database rather than by application-level locking
// alone. AutoMigrate has no concept of partial indexes, hence the raw DDL.
func ensureOneActiveSubscriptionPerUser() error {
	return Connector.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_subscription_per_user
		ON subscriptions (user_id)
		WHERE status IN ('pending', 'active')
	`).Error
}
