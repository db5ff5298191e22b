package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type key string

const (
	KeyUUID     = key("uuid")
	KeyLogger   = key("logger")
	KeyMetrics  = key("metrics")
	KeyIdentity = key("identity")
)

type Config struct {
	Service    Service
	Platform   Platform
	Logger     Logger
	Metrics    Metrics
	Postgres   ReadEnvPostgres
	Centrifuge Centrifuge
	Storage    Storage
	Kafka      Kafka
	Feed       Feed
	Auth       Auth
}

type Service struct {
	Port string `env:"CHAT_SYNC_SERVICE_PORT" env-default:"8080"`
	Name string `env:"CHAT_SYNC_SERVICE_NAME" env-default:"chat-sync"`
}

type Platform struct {
	Env string `env:"ENV" env-default:"dev"`
}

type Logger struct {
	Host string `env:"LOGGER_SERVICE_HOST"`
	Port string `env:"LOGGER_SERVICE_PORT"`
}

type Metrics struct {
	Host string `env:"GRAFANA_HOST"`
	Port int    `env:"GRAFANA_PORT"`
}

type ReadEnvPostgres struct {
	User     string `env:"CHAT_SYNC_POSTGRES_USER"`
	Password string `env:"CHAT_SYNC_POSTGRES_PASSWORD"`
	Database string `env:"CHAT_SYNC_POSTGRES_DB"`
	Host     string `env:"CHAT_SYNC_POSTGRES_HOST"`
	Port     string `env:"CHAT_SYNC_POSTGRES_PORT" env-default:"5432"`
}

type Centrifuge struct {
	BaseURL string        `env:"CENTRIFUGO_BASE_URL"`
	APIKey  string        `env:"CENTRIFUGO_API_KEY"`
	Timeout time.Duration `env:"CENTRIFUGO_TIMEOUT" env-default:"5s"`
}

type Storage struct {
	BaseURL   string        `env:"STORAGE_BASE_URL"`
	PublicURL string        `env:"STORAGE_PUBLIC_URL"`
	Timeout   time.Duration `env:"STORAGE_TIMEOUT" env-default:"60s"`
}

type Kafka struct {
	Host      string `env:"KAFKA_HOST"`
	Port      string `env:"KAFKA_PORT"`
	UserTopic string `env:"USER_PROFILE_TOPIC" env-default:"user-profile-updated"`
	GroupID   string `env:"USER_PROFILE_GROUP_ID" env-default:"chat-sync-profile-updater"`
}

type Feed struct {
	JournalEnabled bool `env:"FEED_JOURNAL_ENABLED" env-default:"true"`
	PublishEnabled bool `env:"FEED_PUBLISH_ENABLED" env-default:"true"`
}

type Auth struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

func MustLoad() *Config {
	cfg := &Config{}
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		log.Fatalf("failed to read env variables: %s", err)
	}

	return cfg
}
