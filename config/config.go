package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database    DatabaseConfig     `mapstructure:"database"`
	Redis       RedisConfig        `mapstructure:"redis"`
	FCM         FCMConfig          `mapstructure:"fcm"`
	Log         LogConfig          `mapstructure:"log"`
	WalletTypes []WalletTypeConfig `mapstructure:"wallet_types"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type FCMConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	ServerKey string `mapstructure:"server_key"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// WalletTypeConfig is a wallet type seed entry. Credit limits are
// expressed as strings so they survive into exact decimals.
type WalletTypeConfig struct {
	ID          string `mapstructure:"id"`
	CreditLimit string `mapstructure:"credit_limit"`
	Unlimited   bool   `mapstructure:"unlimited"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: WLD (Wallet Ledger).
// Nested keys use underscore: WLD_DATABASE_HOST, WLD_FCM_SERVER_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wallet_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("fcm.endpoint", "https://fcm.googleapis.com/fcm/send")
	v.SetDefault("fcm.server_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("wallet_types", []map[string]any{
		{"id": "default", "credit_limit": "0", "unlimited": false},
		{"id": "entity", "credit_limit": "50", "unlimited": false},
		{"id": "debit", "credit_limit": "0", "unlimited": true},
	})

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: WLD_DATABASE_HOST -> database.host
	v.SetEnvPrefix("WLD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
