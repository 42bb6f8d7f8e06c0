package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the NakanoStay backend.
type Config struct {
	Port   string
	AppEnv string
	DB     DatabaseConfig
	JWT    JWTConfig
	Kafka  KafkaConfig
	Redis  RedisConfig
	Worker WorkerConfig
	Admin  AdminConfig
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the keyword/value connection string for the database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL returns the database URL used by the migration tooling.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// JWTConfig holds the token signing settings for admin sessions.
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// KafkaConfig holds broker addresses and topic names.
type KafkaConfig struct {
	Brokers            []string
	BookingEventsTopic string
	GroupPrefix        string
}

// RedisConfig holds the listing cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// WorkerConfig holds the stay-completion sweeper settings.
type WorkerConfig struct {
	SweepInterval time.Duration
}

// AdminConfig holds the admin panel credentials. PasswordHash is a bcrypt
// hash; the plaintext password is never configured.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// Load reads configuration from NAKANOSTAY_-prefixed environment variables
// with sensible development defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NAKANOSTAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", ":8080")
	v.SetDefault("app_env", "development")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "nakanostay")
	v.SetDefault("db_password", "nakanostay")
	v.SetDefault("db_name", "nakanostay")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_access_ttl", "15m")
	v.SetDefault("jwt_refresh_ttl", "168h")

	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_booking_events_topic", "booking.events")
	v.SetDefault("kafka_group_prefix", "nakanostay-")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_ttl", "5m")

	v.SetDefault("worker_sweep_interval", "1h")

	v.SetDefault("admin_email", "")
	v.SetDefault("admin_password_hash", "")

	cfg := &Config{
		Port:   v.GetString("port"),
		AppEnv: v.GetString("app_env"),
		DB: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt_secret"),
			AccessTTL:  v.GetDuration("jwt_access_ttl"),
			RefreshTTL: v.GetDuration("jwt_refresh_ttl"),
		},
		Kafka: KafkaConfig{
			Brokers:            strings.Split(v.GetString("kafka_brokers"), ","),
			BookingEventsTopic: v.GetString("kafka_booking_events_topic"),
			GroupPrefix:        v.GetString("kafka_group_prefix"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
			TTL:      v.GetDuration("redis_ttl"),
		},
		Worker: WorkerConfig{
			SweepInterval: v.GetDuration("worker_sweep_interval"),
		},
		Admin: AdminConfig{
			Email:        v.GetString("admin_email"),
			PasswordHash: v.GetString("admin_password_hash"),
		},
	}

	if cfg.AppEnv != "development" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("NAKANOSTAY_JWT_SECRET is required outside development")
	}

	return cfg, nil
}
