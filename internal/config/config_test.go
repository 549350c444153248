package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("validation-api")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.KafkaGroupID != "validation-api" || cfg.ServiceName != "validation-api" {
		t.Errorf("service defaults = %q/%q", cfg.KafkaGroupID, cfg.ServiceName)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.WorkerCount != 8 || cfg.QueueSize != 1000 {
		t.Errorf("pool defaults = %d/%d", cfg.WorkerCount, cfg.QueueSize)
	}
	if cfg.KafkaPartitions != 12 || cfg.KafkaReplicas != 1 || cfg.LagInterval != 15*time.Second {
		t.Errorf("kafka defaults = %d/%d/%v", cfg.KafkaPartitions, cfg.KafkaReplicas, cfg.LagInterval)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if !cfg.IsDev() {
		t.Error("expected development by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("API_KEYS", "k1:gp-clinic,k2")

	cfg, err := Load("validation-worker")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.WorkerCount != 3 {
		t.Errorf("port/workers = %q/%d", cfg.Port, cfg.WorkerCount)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "broker-2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	keys, err := cfg.APIKeys()
	if err != nil {
		t.Fatalf("APIKeys: %v", err)
	}
	if keys["k1"] != "gp-clinic" || keys["k2"] != "default" {
		t.Errorf("APIKeys = %v", keys)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Env:             "development",
		WorkerCount:     1,
		QueueSize:       1,
		KafkaPartitions: 1,
		KafkaReplicas:   1,
		TraceSampleRate: 0.5,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"no workers", func(c *Config) { c.WorkerCount = 0 }, true},
		{"no queue", func(c *Config) { c.QueueSize = 0 }, true},
		{"no partitions", func(c *Config) { c.KafkaPartitions = 0 }, true},
		{"sample rate above one", func(c *Config) { c.TraceSampleRate = 1.5 }, true},
		{"empty api key", func(c *Config) { c.RawAPIKeys = ":client" }, true},
		{"production without keys", func(c *Config) { c.Env = "production" }, true},
		{"production with keys", func(c *Config) { c.Env = "production"; c.RawAPIKeys = "k:c" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "WARN"} {
		c := &Config{LogLevel: level, ServiceName: "test"}
		if _, err := c.NewLogger(); err != nil {
			t.Errorf("NewLogger(%q): %v", level, err)
		}
	}
	if _, err := (&Config{LogLevel: "loud"}).NewLogger(); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
