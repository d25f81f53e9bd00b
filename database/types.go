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

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// AbstractDatabaseManager owns one connection pool: it connects, creates the
// registered tables and reports health.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	GetDB() *bun.DB
	GetSQLDB() *sql.DB
	CreateTables(ctx context.Context) error
	GetStats() *DBStats
	SetLogger(logger Logger)
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time"`
	Pool          *DBStats      `json:"pool,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors database/sql stats returned by the manager.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

// ConnectionConfig describes how to reach the database and size its pool.
//
// The pool holds PoolSize idle connections and opens up to PoolSize+MaxOverflow
// in total. Callers waiting longer than PoolTimeout for a connection give up.
type ConnectionConfig struct {
	Type            string        `yaml:"type" json:"type"` // postgres, mysql, sqlite
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	Username        string        `yaml:"username" json:"username"`
	Password        string        `yaml:"password" json:"-"`
	DBName          string        `yaml:"dbname" json:"dbname"`
	SSLMode         string        `yaml:"sslmode" json:"sslmode"`
	PoolSize        int           `yaml:"pool_size" json:"pool_size"`
	MaxOverflow     int           `yaml:"max_overflow" json:"max_overflow"`
	PoolTimeout     time.Duration `yaml:"pool_timeout" json:"pool_timeout"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" json:"connect_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	EnableQueryLog  bool          `yaml:"enable_query_log" json:"enable_query_log"`
	QueryLogStyle   string        `yaml:"query_log_style" json:"query_log_style"` // color, plain
	SlowQueryTime   time.Duration `yaml:"slow_query_time" json:"slow_query_time"`
}

// MaxOpenConns is the hard upper bound of the pool.
func (c *ConnectionConfig) MaxOpenConns() int {
	return c.PoolSize + c.MaxOverflow
}

// DataMigrateConfig controls table creation on startup.
type DataMigrateConfig struct {
	EnableMigrateOnStartup bool `yaml:"enable_migrate_on_startup" json:"enable_migrate_on_startup"`
}

// Config aggregates connection and startup settings.
type Config struct {
	ConnectionConfig  ConnectionConfig  `yaml:"connection" json:"connection_config"`
	DataMigrateConfig DataMigrateConfig `yaml:"migrate" json:"data_migrate_config"`
}

// DefaultConnectionConfig returns a PostgreSQL config with the default pool:
// 5 connections plus 10 overflow, 30s wait, recycled after 30 minutes.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:            "postgres",
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "require",
		PoolSize:        5,
		MaxOverflow:     10,
		PoolTimeout:     30 * time.Second,
		ConnMaxLifetime: 1800 * time.Second,
		ConnectTimeout:  10 * time.Second,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		QueryLogStyle:   "color",
		SlowQueryTime:   2 * time.Second,
	}
}

// DefaultConfig returns DefaultConnectionConfig with table creation enabled.
func DefaultConfig() *Config {
	return &Config{
		ConnectionConfig:  *DefaultConnectionConfig(),
		DataMigrateConfig: DataMigrateConfig{EnableMigrateOnStartup: true},
	}
}
