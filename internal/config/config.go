package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type AppConfig struct {
	API       *APIConfig      `mapstructure:"api"`
	Gin       *GinConfig      `mapstructure:"gin"`
	Postgres  *PostgresConfig `mapstructure:"postgres"`
	FlightAPI *UpstreamConfig `mapstructure:"flight_api"`
	HotelAPI  *UpstreamConfig `mapstructure:"hotel_api"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// UpstreamConfig describes one RapidAPI-style upstream.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Host    string        `mapstructure:"host"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	// CacheTTL of zero keeps cached search results forever.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

var current *viper.Viper

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.environment", EnvDevelopment)
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.token_ttl", 24*time.Hour)
	v.SetDefault("gin.mode", "release")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("flight_api.timeout", 15*time.Second)
	v.SetDefault("hotel_api.timeout", 15*time.Second)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	current = v

	return conf, nil
}

// Watch logs edits of the loaded config file. Values already handed out are not reloaded.
func Watch() {
	if current == nil {
		return
	}

	current.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed, restart to apply", zap.String("file", e.Name), zap.String("op", e.Op.String()))
	})
	current.WatchConfig()
}

func (c *AppConfig) validate() error {
	if c.API == nil {
		return errors.New("missing api config")
	}
	if c.API.JWTSigningKey == "" {
		return errors.New("api.jwt_signing_key is required")
	}
	if c.Gin == nil {
		c.Gin = &GinConfig{Mode: "release"}
	}
	if c.Postgres == nil {
		c.Postgres = &PostgresConfig{}
	}
	if c.FlightAPI == nil {
		c.FlightAPI = &UpstreamConfig{}
	}
	if c.HotelAPI == nil {
		c.HotelAPI = &UpstreamConfig{}
	}

	return nil
}
