package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdempTTLSecs int

	StorageDriver   string // local | s3
	StorageLocalDir string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string

	NotifyBuffer  int
	NotifyChannel string

	LogLevel  string
	LogFormat string

	AccountGraceDays int

	// AccountsFile is an optional JSON array of accounts upserted at startup.
	AccountsFile string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment. A .env file in the working directory, or the
// file named by ENV_FILE, is applied first without overriding set variables.
func Load() *Config {
	_ = godotenv.Load(getenv("ENV_FILE", ".env"))

	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "separation"),
		MySQLUser: getenv("MYSQL_USER", "separation"),
		MySQLPass: getenv("MYSQL_PASS", "separation"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),
		IdempTTLSecs:  getint("IDEMPOTENCY_TTL_SECONDS", 300),

		StorageDriver:   getenv("STORAGE_DRIVER", "local"),
		StorageLocalDir: getenv("STORAGE_LOCAL_DIR", "./data/documents"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        getenv("S3_REGION", "us-east-1"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),

		NotifyBuffer:  getint("NOTIFY_BUFFER", 256),
		NotifyChannel: getenv("NOTIFY_CHANNEL", "separation:notifications"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		AccountGraceDays: getint("ACCOUNT_GRACE_DAYS", 30),
		AccountsFile:     os.Getenv("ACCOUNTS_FILE"),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	switch c.StorageDriver {
	case "local":
		if c.StorageLocalDir == "" {
			return errors.New("missing STORAGE_LOCAL_DIR")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("missing S3_BUCKET for STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want local or s3)", c.StorageDriver)
	}
	if c.NotifyBuffer <= 0 {
		return fmt.Errorf("NOTIFY_BUFFER must be positive, got %d", c.NotifyBuffer)
	}
	if c.AccountGraceDays <= 0 {
		return fmt.Errorf("ACCOUNT_GRACE_DAYS must be positive, got %d", c.AccountGraceDays)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) AccountGrace() time.Duration {
	return time.Duration(c.AccountGraceDays) * 24 * time.Hour
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
