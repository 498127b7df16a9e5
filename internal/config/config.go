package config

import (
	"errors"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port    string `mapstructure:"port"`
		Env     string `mapstructure:"env"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"app"`
	DB struct {
		DSN         string `mapstructure:"dsn"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"db"`
	Redis struct {
		Addr             string        `mapstructure:"addr"`
		Password         string        `mapstructure:"password"`
		LoginMaxAttempts int           `mapstructure:"login_max_attempts"`
		LoginWindow      time.Duration `mapstructure:"login_window"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers   []string `mapstructure:"brokers"`
		UserTopic string   `mapstructure:"user_topic"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
		BcryptCost    int           `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
	Upload struct {
		Provider string `mapstructure:"provider"`
		Dir      string `mapstructure:"dir"`
		MaxBytes int64  `mapstructure:"max_bytes"`
	} `mapstructure:"upload"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
		Folder    string `mapstructure:"folder"`
	} `mapstructure:"cloudinary"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
		ServiceName  string `mapstructure:"service_name"`
	} `mapstructure:"tracing"`
}

const (
	UploadProviderLocal      = "local"
	UploadProviderCloudinary = "cloudinary"
)

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required")
	ErrMissingDSN       = errors.New("DB_DSN is required")
)

// LoadConfig reads path/.env and path/config.yaml when present, then the
// environment. Secrets have no defaults.
func LoadConfig(path string) (cfg Config, err error) {

	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil {
		log.Println("warning: .env file not found, use environment variables.")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read environment only. Error: %v", err)
	}

	v.SetDefault("app.port", "5000")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.base_url", "http://localhost:5000")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("redis.login_max_attempts", 5)
	v.SetDefault("redis.login_window", 15*time.Minute)
	v.SetDefault("kafka.user_topic", "user.events")
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("upload.provider", UploadProviderLocal)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_bytes", 5<<20)
	v.SetDefault("cloudinary.folder", "profile-hub/photos")
	v.SetDefault("tracing.service_name", "profile-hub-api")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT", "PORT")
	v.BindEnv("app.env", "APP_ENV", "NODE_ENV")
	v.BindEnv("app.base_url", "BASE_URL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.auto_migrate", "DB_AUTO_MIGRATE")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.login_max_attempts", "LOGIN_MAX_ATTEMPTS")
	v.BindEnv("redis.login_window", "LOGIN_WINDOW")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.user_topic", "KAFKA_USER_TOPIC")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("auth.bcrypt_cost", "BCRYPT_COST")
	v.BindEnv("upload.provider", "UPLOAD_PROVIDER")
	v.BindEnv("upload.dir", "UPLOAD_DIR")
	v.BindEnv("upload.max_bytes", "UPLOAD_MAX_BYTES")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("cloudinary.folder", "CLOUDINARY_FOLDER")

	v.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")
	v.BindEnv("tracing.service_name", "OTEL_SERVICE_NAME")

	if err = v.Unmarshal(&cfg); err != nil {
		return
	}

	cfg.App.BaseURL = strings.TrimRight(cfg.App.BaseURL, "/")
	err = cfg.Validate()
	return
}

func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.DB.DSN == "" {
		return ErrMissingDSN
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}
