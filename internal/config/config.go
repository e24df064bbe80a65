package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	EngineCasbin = "casbin"
	EngineOPA    = "opa"

	EventsLog      = "log"
	EventsRabbitMQ = "rabbitmq"
	EventsKafka    = "kafka"
)

// Config holds all configuration for the order API
type Config struct {
	Port            string          `yaml:"port"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	SeedFile        string          `yaml:"seed_file"`
	Database        DatabaseConfig  `yaml:"database"`
	Auth            AuthConfig      `yaml:"auth"`
	Events          EventsConfig    `yaml:"events"`
	Telemetry       TelemetryConfig `yaml:"telemetry"`
}

// DatabaseConfig selects the store dialect and its connection settings
type DatabaseConfig struct {
	Driver     string         `yaml:"driver"`
	Postgres   PostgresConfig `yaml:"postgres"`
	MySQL      MySQLConfig    `yaml:"mysql"`
	SQLitePath string         `yaml:"sqlite_path"`
}

type PostgresConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	DB       string `yaml:"db"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int32  `yaml:"max_conns"`
}

// URL returns a PostgreSQL connection URL with the credentials escaped
func (c PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host,
		Path:     "/" + c.DB,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type MySQLConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	DB       string `yaml:"db"`
}

// AuthConfig controls token issuing and request authorization
type AuthConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Engine        string        `yaml:"engine"`
	Issuer        string        `yaml:"issuer"`
	Audience      string        `yaml:"audience"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	ClockSkew     time.Duration `yaml:"clock_skew"`
	PrivateKeyEnv string        `yaml:"private_key_env"`
	PublicKeyEnv  string        `yaml:"public_key_env"`
}

// EventsConfig selects where order lifecycle events are published
type EventsConfig struct {
	Backend  string         `yaml:"backend"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Exchange string `yaml:"exchange"`
}

// URL returns an AMQP connection URL with the credentials escaped
func (c RabbitMQConfig) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/",
	}
	return u.String()
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Default returns the configuration used when neither a file nor the environment says otherwise.
func Default() *Config {
	return &Config{
		Port:            "8080",
		ShutdownTimeout: 10 * time.Second,
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			SQLitePath: "orders.db",
			Postgres: PostgresConfig{
				SSLMode:  "disable",
				MaxConns: 10,
			},
			MySQL: MySQLConfig{
				Port: "3306",
			},
		},
		Auth: AuthConfig{
			Engine:        EngineCasbin,
			TokenTTL:      time.Hour,
			ClockSkew:     5 * time.Minute,
			PrivateKeyEnv: "PRIVATE_KEY_BASE64",
			PublicKeyEnv:  "PUBLIC_KEY_BASE64",
		},
		Events: EventsConfig{
			Backend: EventsLog,
			RabbitMQ: RabbitMQConfig{
				Host:     "localhost",
				Port:     5672,
				User:     "guest",
				Password: "guest",
				Exchange: "pedidos_topic",
			},
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "pedidos",
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName: "order-api",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path (if any),
// then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.SeedFile, "SEED_FILE")

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.SQLitePath, "SQLITE_PATH")
	setString(&c.Database.Postgres.User, "POSTGRES_USER")
	setString(&c.Database.Postgres.Password, "POSTGRES_PASSWORD")
	setString(&c.Database.Postgres.Host, "POSTGRES_HOST")
	setString(&c.Database.Postgres.DB, "POSTGRES_DB")
	setString(&c.Database.Postgres.SSLMode, "POSTGRES_SSL")
	setString(&c.Database.MySQL.User, "MYSQL_USER")
	setString(&c.Database.MySQL.Password, "MYSQL_PASSWORD")
	setString(&c.Database.MySQL.Host, "MYSQL_HOST")
	setString(&c.Database.MySQL.Port, "MYSQL_PORT")
	setString(&c.Database.MySQL.DB, "MYSQL_DB")

	setString(&c.Auth.Engine, "AUTHZ_ENGINE")
	setString(&c.Auth.Issuer, "JWT_ISSUER")
	setString(&c.Auth.Audience, "JWT_AUDIENCE")

	setString(&c.Events.Backend, "EVENTS_BACKEND")
	setString(&c.Events.RabbitMQ.Host, "RABBITMQ_HOST")
	setString(&c.Events.RabbitMQ.User, "RABBITMQ_USER")
	setString(&c.Events.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	setString(&c.Events.Kafka.Topic, "KAFKA_TOPIC")
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok && v != "" {
		c.Events.Kafka.Brokers = strings.Split(v, ",")
	}

	setString(&c.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if v, ok := os.LookupEnv("AUTH_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AUTH_ENABLED value %q: %w", v, err)
		}
		c.Auth.Enabled = enabled
	}

	if v, ok := os.LookupEnv("RABBITMQ_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RABBITMQ_PORT value %q: %w", v, err)
		}
		c.Events.RabbitMQ.Port = port
	}

	return nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}

	switch c.Auth.Engine {
	case EngineCasbin, EngineOPA:
	default:
		errs = append(errs, fmt.Errorf("unknown authorization engine %q", c.Auth.Engine))
	}

	switch c.Events.Backend {
	case EventsLog, EventsRabbitMQ, EventsKafka:
	default:
		errs = append(errs, fmt.Errorf("unknown events backend %q", c.Events.Backend))
	}

	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}

	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
