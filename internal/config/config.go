package config

import (
	"log"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Revocation
		CORS
		Jobs
		Purge
	}

	HTTP struct {
		Port    int32
		Host    string
		GinMode string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file, used when Driver is sqlite
		DSN    string // Connection string, used when Driver is postgres
	}
	Auth struct {
		TokenSecret     string
		TokenTTL        time.Duration
		TokenIssuer     string
		BcryptCost      int
		HashConcurrency int           // Max concurrent bcrypt operations
		HashTimeout     time.Duration // Max wait for a free hashing slot
	}
	Revocation struct {
		RedisURL string // Empty means an in-process denylist
	}
	CORS struct {
		AllowedOrigins []string
	}
	Jobs struct {
		Enabled         bool
		DatabasePath    string
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Purge struct {
		Schedule  string        // Cron format: "0 3 * * *" = daily at 03:00
		Retention time.Duration // Age of soft-deleted tasks before permanent removal
	}
)

// loadDotEnv reads a .env file into the process environment when one exists.
// Variables already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}
}

func NewConfig() *Config {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	// Auth defaults
	v.SetDefault("auth_token_secret", "") // Generated at startup if empty
	v.SetDefault("auth_token_ttl", "1h")
	v.SetDefault("auth_token_issuer", DefaultTokenIssuer)
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_hash_concurrency", runtime.NumCPU())
	v.SetDefault("auth_hash_timeout", "5s")

	v.SetDefault("revocation_redis_url", "")
	v.SetDefault("cors_allowed_origins", "http://localhost:5173")

	// Job queue defaults
	v.SetDefault("jobs_enabled", true)
	v.SetDefault("jobs_database_path", DefaultJobsDatabasePath)
	v.SetDefault("job_workers", 1)
	v.SetDefault("job_release_after", "15m")
	v.SetDefault("job_cleanup_interval", "1h")

	v.SetDefault("purge_schedule", "0 3 * * *")
	v.SetDefault("purge_retention", "720h") // 30 days

	return &Config{
		HTTP: HTTP{
			Port:    v.GetInt32("PORT"),
			Host:    v.GetString("HOST"),
			GinMode: v.GetString("GIN_MODE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Auth: Auth{
			TokenSecret:     v.GetString("AUTH_TOKEN_SECRET"),
			TokenTTL:        v.GetDuration("AUTH_TOKEN_TTL"),
			TokenIssuer:     v.GetString("AUTH_TOKEN_ISSUER"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			HashConcurrency: v.GetInt("AUTH_HASH_CONCURRENCY"),
			HashTimeout:     v.GetDuration("AUTH_HASH_TIMEOUT"),
		},
		Revocation: Revocation{
			RedisURL: v.GetString("REVOCATION_REDIS_URL"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Jobs: Jobs{
			Enabled:         v.GetBool("JOBS_ENABLED"),
			DatabasePath:    v.GetString("JOBS_DATABASE_PATH"),
			Workers:         v.GetInt("JOB_WORKERS"),
			ReleaseAfter:    v.GetDuration("JOB_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("JOB_CLEANUP_INTERVAL"),
		},
		Purge: Purge{
			Schedule:  v.GetString("PURGE_SCHEDULE"),
			Retention: v.GetDuration("PURGE_RETENTION"),
		},
	}
}
