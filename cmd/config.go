package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `validate:"required,oneof=development stage production"`
	HTTPPort string `validate:"required,numeric"`
	LogLevel string `validate:"required,oneof=debug info warn error"`

	DBHost            string        `validate:"required,hostname|ip"`
	DBPort            string        `validate:"required,numeric"`
	DBUser            string        `validate:"required"`
	DBPassword        string        `validate:"required"`
	DBName            string        `validate:"required"`
	DBSslMode         string        `validate:"required,oneof=disable require verify-ca verify-full"`
	DBMaxOpenConns    int           `validate:"gte=1"`
	DBConnMaxLifetime time.Duration `validate:"gte=0"`

	JWTSecret   string        `validate:"required,min=32"`
	JWTAudience string        `validate:"omitempty"`
	JWTLeeway   time.Duration `validate:"gte=0"`

	TelegramBotToken   string        `validate:"required"`
	TelegramAPIURL     string        `validate:"required,url"`
	TelegramChannelIDs []string      `validate:"required,min=1,dive,required"`
	TelegramRatePerSec float64       `validate:"gt=0"`
	NotifySendTimeout  time.Duration `validate:"gt=0"`

	RedisAddr              string        `validate:"required,hostname_port"`
	RedisPassword          string        `validate:"omitempty"`
	RedisDB                int           `validate:"gte=0"`
	PositionTTL            time.Duration `validate:"gt=0"`
	LocationCaptureTimeout time.Duration `validate:"gt=0"`

	KafkaBrokers           []string      `validate:"required,min=1,dive,hostname_port"`
	KafkaOrderChangedTopic string        `validate:"required"`
	KafkaBatchTimeout      time.Duration `validate:"gte=0"`

	StatsReportSchedule   string `validate:"required"`
	StatsReportWindowDays int    `validate:"oneof=0 7 30 90"`

	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// LoadConfig reads the environment, after loading .env when the file exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}

	r := &envReader{}
	cfg := Config{
		Env:      env("APP_ENV", "development"),
		HTTPPort: env("HTTP_PORT", "8080"),
		LogLevel: env("LOG_LEVEL", "info"),

		DBHost:            env("DB_HOST", "localhost"),
		DBPort:            env("DB_PORT", "5432"),
		DBUser:            env("DB_USER", ""),
		DBPassword:        env("DB_PASSWORD", ""),
		DBName:            env("DB_NAME", "fooddelivery"),
		DBSslMode:         env("DB_SSLMODE", "disable"),
		DBMaxOpenConns:    r.int("DB_MAX_OPEN_CONNS", 25),
		DBConnMaxLifetime: r.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		JWTSecret:   env("JWT_SECRET", ""),
		JWTAudience: env("JWT_AUDIENCE", "authenticated"),
		JWTLeeway:   r.duration("JWT_LEEWAY", 30*time.Second),

		TelegramBotToken:   env("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:     env("TELEGRAM_API_URL", "https://api.telegram.org"),
		TelegramChannelIDs: envList("TELEGRAM_CHANNEL_IDS"),
		TelegramRatePerSec: r.float("TELEGRAM_RATE_PER_SEC", 25),
		NotifySendTimeout:  r.duration("NOTIFY_SEND_TIMEOUT", 5*time.Second),

		RedisAddr:              env("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          env("REDIS_PASSWORD", ""),
		RedisDB:                r.int("REDIS_DB", 0),
		PositionTTL:            r.duration("DRIVER_POSITION_TTL", 2*time.Minute),
		LocationCaptureTimeout: r.duration("LOCATION_CAPTURE_TIMEOUT", 3*time.Second),

		KafkaBrokers:           envList("KAFKA_BROKERS"),
		KafkaOrderChangedTopic: env("KAFKA_ORDER_CHANGED_TOPIC", "order.status_changed"),
		KafkaBatchTimeout:      r.duration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),

		StatsReportSchedule:   env("STATS_REPORT_SCHEDULE", "0 0 8 * * *"),
		StatsReportWindowDays: r.int("STATS_REPORT_WINDOW_DAYS", 7),

		ShutdownTimeout: r.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// DSN is the libpq connection string of the main database.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSslMode),
	}
	return u.String()
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// envReader parses typed variables and collects every malformed value.
type envReader struct {
	errs []error
}

func (r *envReader) int(key string, fallback int) int {
	return lookup(r, key, fallback, strconv.Atoi)
}

func (r *envReader) float(key string, fallback float64) float64 {
	return lookup(r, key, fallback, func(value string) (float64, error) {
		return strconv.ParseFloat(value, 64)
	})
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	return lookup(r, key, fallback, time.ParseDuration)
}

func lookup[T any](r *envReader, key string, fallback T, parse func(string) (T, error)) T {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	parsed, err := parse(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
		return fallback
	}
	return parsed
}

// envList splits a comma separated variable and drops empty entries.
func envList(key string) []string {
	var list []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
