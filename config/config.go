/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the server configuration from a YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tomoncle/bookstore/cache"
	"github.com/tomoncle/bookstore/database"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Log       LogConfig       `yaml:"log"`
	Database  database.Config `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Security  SecurityConfig  `yaml:"security"`
}

type AppConfig struct {
	Name            string        `yaml:"name"`
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
}

// RedisConfig enables the entity cache when Enabled is set.
type RedisConfig struct {
	Enabled            bool `yaml:"enabled"`
	cache.RedisOptions `yaml:",inline"`
	KeyPrefix          string        `yaml:"key_prefix"`
	TTL                time.Duration `yaml:"ttl"`
}

// KafkaConfig enables change events when Enabled is set.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// RateLimitConfig limits requests per client IP. RPS 0 disables it.
type RateLimitConfig struct {
	RPS       float64       `yaml:"rps"`
	Burst     int           `yaml:"burst"`
	ExpiresIn time.Duration `yaml:"expires_in"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:            "bookstore",
			Addr:            ":8000",
			ShutdownTimeout: 20 * time.Second,
		},
		Log:      LogConfig{Level: "info", Format: "text"},
		Database: *database.DefaultConfig(),
		Redis: RedisConfig{
			RedisOptions: cache.RedisOptions{Addr: "localhost:6379"},
			KeyPrefix:    "bookstore",
			TTL:          5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "bookstore.entities",
		},
		RateLimit: RateLimitConfig{RPS: 20, Burst: 40, ExpiresIn: 3 * time.Minute},
		Security:  SecurityConfig{BcryptCost: 10},
	}
}

// Load reads path over Default, then applies environment overrides. An empty
// path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode rejects unknown keys so typos surface at startup.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ADDR"); v != "" {
		cfg.App.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CONSOLE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Enabled = true
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.RPS = f
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.App.Addr == "" {
		return errors.New("app.addr must not be empty")
	}
	if c.Database.ConnectionConfig.Type == "" {
		return errors.New("database.connection.type must not be empty")
	}
	if c.Database.ConnectionConfig.PoolSize < 1 {
		return errors.New("database.connection.pool_size must be >= 1")
	}
	if c.Database.ConnectionConfig.MaxOverflow < 0 {
		return errors.New("database.connection.max_overflow must be >= 0")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.New("kafka.brokers and kafka.topic are required when kafka is enabled")
	}
	if c.RateLimit.RPS < 0 {
		return errors.New("rate_limit.rps must be >= 0")
	}
	return nil
}
