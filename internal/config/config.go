package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StorageDriverSQLX = "sqlx"
	StorageDriverGORM = "gorm"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	ServerPort    string `env:"SERVER_PORT"`
	StorageDriver string `env:"STORAGE_DRIVER"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	StoreTimeout   time.Duration `env:"STORE_TIMEOUT"`

	// Сессии
	JWTSecret  string        `env:"JWT_SECRET,required"`
	SessionTTL time.Duration `env:"SESSION_TTL"`
	// CookieSecure выставляет флаг Secure у cookie сессии (за HTTPS)
	CookieSecure bool `env:"COOKIE_SECURE"`

	// Redis нужен только для отзыва токенов; при пустом адресе храним в памяти
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Настройки для MinIO (экспорт). Если не заданы, экспорт выключен
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME"`
	MinioRegion          string `env:"MINIO_REGION"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"smoke_export_queue"`
	}
}

// ExportEnabled сообщает, настроены ли и очередь, и файловое хранилище
func (c *Config) ExportEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != "" && c.MinioEndpoint != "" && c.MinioBucketName != ""
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults вручную устанавливает значения по умолчанию для пустых полей
func (c *Config) applyDefaults() {
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.StorageDriver == "" {
		c.StorageDriver = StorageDriverSQLX
	}
	c.StorageDriver = strings.ToLower(c.StorageDriver)
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Second
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 5 * time.Second
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
}

// Validate проверяет значения, которые env не умеет проверить сам
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL не задан")
	}
	switch c.StorageDriver {
	case StorageDriverSQLX, StorageDriverGORM:
	default:
		return fmt.Errorf("неизвестный STORAGE_DRIVER: %q (используйте sqlx или gorm)", c.StorageDriver)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET должен быть не короче 16 символов")
	}
	return nil
}
