// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	ServiceName     string        `mapstructure:"SERVICE_NAME"`
	RawAPIKeys      string        `mapstructure:"API_KEYS"`
	KafkaBrokers    []string      `mapstructure:"KAFKA_BROKERS"`
	KafkaGroupID    string        `mapstructure:"KAFKA_GROUP_ID"`
	KafkaPartitions int32         `mapstructure:"KAFKA_PARTITIONS"`
	KafkaReplicas   int16         `mapstructure:"KAFKA_REPLICATION_FACTOR"`
	LagInterval     time.Duration `mapstructure:"LAG_INTERVAL"`
	WorkerCount     int           `mapstructure:"WORKER_COUNT"`
	QueueSize       int           `mapstructure:"QUEUE_SIZE"`
	OTLPEndpoint    string        `mapstructure:"OTLP_ENDPOINT"`
	TraceSampleRate float64       `mapstructure:"TRACE_SAMPLE_RATE"`
	IdentifierRoot  string        `mapstructure:"IDENTIFIER_ROOT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "SERVICE_NAME", "API_KEYS",
	"KAFKA_BROKERS", "KAFKA_GROUP_ID", "KAFKA_PARTITIONS", "KAFKA_REPLICATION_FACTOR",
	"LAG_INTERVAL", "WORKER_COUNT", "QUEUE_SIZE",
	"OTLP_ENDPOINT", "TRACE_SAMPLE_RATE", "IDENTIFIER_ROOT", "SHUTDOWN_TIMEOUT",
}

// Load reads the configuration for the named service
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8081")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVICE_NAME", serviceName)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_ID", serviceName)
	v.SetDefault("KAFKA_PARTITIONS", 12)
	v.SetDefault("KAFKA_REPLICATION_FACTOR", 1)
	v.SetDefault("LAG_INTERVAL", "15s")
	v.SetDefault("WORKER_COUNT", 8)
	v.SetDefault("QUEUE_SIZE", 1000)
	v.SetDefault("TRACE_SAMPLE_RATE", 1.0)
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	// The .env file is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at start-up
func (c *Config) Validate() error {
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("QUEUE_SIZE must be positive, got %d", c.QueueSize)
	}
	if c.KafkaPartitions <= 0 || c.KafkaReplicas <= 0 {
		return fmt.Errorf("KAFKA_PARTITIONS and KAFKA_REPLICATION_FACTOR must be positive")
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("TRACE_SAMPLE_RATE must be between 0 and 1, got %v", c.TraceSampleRate)
	}
	if _, err := c.APIKeys(); err != nil {
		return err
	}
	if c.IsProduction() && c.RawAPIKeys == "" {
		return fmt.Errorf("API_KEYS is required in production")
	}
	return nil
}

// APIKeys parses API_KEYS, a comma separated list of key:client pairs. A key
// without a client name is mapped to "default".
func (c *Config) APIKeys() (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range splitList(c.RawAPIKeys) {
		key, client, found := strings.Cut(pair, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("API_KEYS contains an empty key")
		}
		if !found || strings.TrimSpace(client) == "" {
			client = "default"
		}
		out[key] = strings.TrimSpace(client)
	}
	return out, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// NewLogger builds the service logger: development output for debug level,
// JSON production output otherwise
func (c *Config) NewLogger() (*zap.Logger, error) {
	if strings.EqualFold(c.LogLevel, "debug") {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zc.Level = level
	return zc.Build(zap.Fields(zap.String("service", c.ServiceName)))
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
