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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.App.Addr)
	assert.Equal(t, 20*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Database.ConnectionConfig.Type)
	assert.Equal(t, 15, cfg.Database.ConnectionConfig.MaxOpenConns())
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_ShippedFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "configs", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "bookstore", cfg.Database.ConnectionConfig.DBName)
	assert.Equal(t, 1800*time.Second, cfg.Database.ConnectionConfig.ConnMaxLifetime)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	p := writeFile(t, `
app:
  addr: ":9090"
database:
  connection:
    type: sqlite
    dbname: ":memory:"
    pool_size: 2
    max_overflow: 0
rate_limit:
  rps: 0
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.App.Addr)
	assert.Equal(t, "sqlite", cfg.Database.ConnectionConfig.Type)
	assert.Equal(t, 2, cfg.Database.ConnectionConfig.MaxOpenConns())
	assert.Equal(t, float64(0), cfg.RateLimit.RPS)
	// untouched keys keep their defaults
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("APP_ADDR", ":7000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.App.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "app:\n  adress: \":1\"\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(writeFile(t, "database:\n  connection:\n    pool_size: 0\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "kafka:\n  enabled: true\n  topic: \"\"\n"))
	assert.Error(t, err)
}
