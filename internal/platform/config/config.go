package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config se carga desde variables de entorno.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"medication-reminder"`

	// Clave compartida del hogar; vacía => API abierta.
	APIKey string `env:"API_KEY"`

	// Zona del "dispositivo". Vacío => time.Local.
	TimeZone string `env:"TZ_NAME"`

	Storage StorageConfig
	Notify  NotifyConfig
}

type StorageConfig struct {
	// file | memory | sqlite | postgres | s3
	Driver     string `env:"STORAGE_DRIVER" envDefault:"file"`
	DataPath   string `env:"DATA_PATH" envDefault:"medication_data.json"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"medication_data.db"`
	DSN        string `env:"DB_DSN"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Key       string `env:"S3_KEY" envDefault:"medication_data.json"`
	S3PathStyle bool   `env:"S3_PATH_STYLE" envDefault:"false"`

	// Opcionales; sin ellas se usa la cadena de credenciales por defecto.
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3SessionToken    string `env:"S3_SESSION_TOKEN"`
}

type NotifyConfig struct {
	// log, redis, mqtt, webhook (se pueden combinar)
	Drivers []string `env:"NOTIFY_DRIVERS" envSeparator:"," envDefault:"log"`
	Title   string   `env:"NOTIFY_TITLE"`

	// Cada cuánto se recalculan los triggers recurrentes (pautas que empiezan o terminan).
	RescheduleEvery time.Duration `env:"NOTIFY_RESCHEDULE_EVERY" envDefault:"1h"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"medrem:"`

	MQTTBroker   string `env:"MQTT_BROKER" envDefault:"tcp://localhost:1883"`
	MQTTClientID string `env:"MQTT_CLIENT_ID" envDefault:"medication-reminder"`
	MQTTUsername string `env:"MQTT_USERNAME"`
	MQTTPassword string `env:"MQTT_PASSWORD"`
	MQTTTopic    string `env:"MQTT_TOPIC" envDefault:"medrem/triggers"`

	WebhookURL     string        `env:"WEBHOOK_URL"`
	WebhookAPIKey  string        `env:"WEBHOOK_API_KEY"`
	WebhookTimeout time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookRetries int           `env:"WEBHOOK_RETRIES" envDefault:"2"`
}

// ParseEnv carga la configuración desde variables de entorno.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	for i, d := range cfg.Notify.Drivers {
		cfg.Notify.Drivers[i] = strings.ToLower(strings.TrimSpace(d))
	}
	return cfg, nil
}

// Location resuelve TZ_NAME; vacío usa la zona local del proceso.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", name, err)
	}
	return loc, nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
