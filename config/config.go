package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port            string
	Env             string
	DBDriver        string
	DBDSN           string
	JWTSecret       string
	TokenTTL        time.Duration
	RedisURL        string
	CORSOrigin      string
	ShutdownTimeout time.Duration

	// TreatMissingAsNotFound makes update/delete of an unknown id a 404.
	TreatMissingAsNotFound bool
	// PasswordStrengthChecks adds upper/lower/digit rules on register.
	PasswordStrengthChecks bool
	// LoginFailureDelay is slept before every failed login.
	LoginFailureDelay time.Duration

	SeedAdminUsername string
	SeedAdminPassword string
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("TREAT_MISSING_AS_NOT_FOUND", true)
	v.SetDefault("PASSWORD_STRENGTH_CHECKS", false)
	v.SetDefault("LOGIN_FAILURE_DELAY", "1s")
	v.SetDefault("SEED_ADMIN_USERNAME", "")
	v.SetDefault("SEED_ADMIN_PASSWORD", "")
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Port:                   v.GetString("PORT"),
		Env:                    v.GetString("APP_ENV"),
		DBDriver:               strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:                  v.GetString("DB_DSN"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		TokenTTL:               v.GetDuration("TOKEN_TTL"),
		RedisURL:               v.GetString("REDIS_URL"),
		CORSOrigin:             v.GetString("CORS_ORIGIN"),
		ShutdownTimeout:        v.GetDuration("SHUTDOWN_TIMEOUT"),
		TreatMissingAsNotFound: v.GetBool("TREAT_MISSING_AS_NOT_FOUND"),
		PasswordStrengthChecks: v.GetBool("PASSWORD_STRENGTH_CHECKS"),
		LoginFailureDelay:      v.GetDuration("LOGIN_FAILURE_DELAY"),
		SeedAdminUsername:      v.GetString("SEED_ADMIN_USERNAME"),
		SeedAdminPassword:      v.GetString("SEED_ADMIN_PASSWORD"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// Connect opens the pool. The caller owns it and must Close it.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		dialector = postgres.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// one writer; transactions must not wait on themselves
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Close releases the pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
