package config

import (
	"fmt"
	"time"

	"github.com/martinmohammed/auth-service/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Server   ServerConfig
		Mongo    MongoConfig
		Redis    RedisConfig
		RabbitMQ RabbitMQConfig
		Auth     Auth

		LogLevel string `env:"LOG_LEVEL" default:"INFO"`
	}

	ServerConfig struct {
		Host string `env:"SERVER_HOST" default:"0.0.0.0"`
		Port string `env:"SERVER_PORT" default:"3000"`
	}

	MongoConfig struct {
		Host     string `env:"MONGO_HOST" default:"localhost"`
		Port     string `env:"MONGO_PORT" default:"27017"`
		User     string `env:"MONGO_USER"`
		Password string `env:"MONGO_PASSWORD"`
		Database string `env:"MONGO_DATABASE" default:"auth"`

		OpTimeout time.Duration `env:"MONGO_OP_TIMEOUT" default:"5s"`
	}

	RedisConfig struct {
		Host     string `env:"REDIS_HOST" default:"localhost"`
		Port     string `env:"REDIS_PORT" default:"6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" default:"0"`

		OpTimeout time.Duration `env:"REDIS_OP_TIMEOUT" default:"5s"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	Auth struct {
		AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"2h"`
		RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" default:"8766h"`

		AccessSecret  string `env:"AUTH_ACCESS_SECRET" default:"access-secret"`
		RefreshSecret string `env:"AUTH_REFRESH_SECRET" default:"refresh-secret"`

		Issuer   string `env:"AUTH_ISSUER" default:"auth-service"`
		Audience string `env:"AUTH_AUDIENCE" default:"auth-service"`
	}
)

func (c MongoConfig) GetURI() string {
	if c.User == "" {
		return fmt.Sprintf("mongodb://%s:%s", c.Host, c.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s", c.User, c.Password, c.Host, c.Port)
}

func (c MongoConfig) GetDatabase() string {
	return c.Database
}

func (c RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c RedisConfig) GetPassword() string {
	return c.Password
}

func (c RedisConfig) GetDB() int {
	return c.DB
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
