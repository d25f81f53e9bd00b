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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type widget struct {
	bun.BaseModel `bun:"table:widgets"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Code string `bun:"code,notnull,unique"`
}

func sqliteConfig(t *testing.T) *ConnectionConfig {
	t.Helper()
	cfg := DefaultConnectionConfig()
	cfg.Type = "sqlite"
	cfg.DBName = filepath.Join(t.TempDir(), "test.db")
	cfg.SlowQueryTime = 0
	return cfg
}

func TestManager_ConnectCreateTablesHealth(t *testing.T) {
	ctx := context.Background()
	dm := NewDatabaseManager(sqliteConfig(t))
	require.NoError(t, dm.Connect(ctx))
	t.Cleanup(func() { _ = dm.Disconnect() })

	require.NoError(t, NewSchemaManager(dm.GetDB(), nil).CreateTablesFor(ctx, (*widget)(nil)))
	// a second run is a no-op
	require.NoError(t, NewSchemaManager(dm.GetDB(), nil).CreateTablesFor(ctx, (*widget)(nil)))

	_, err := dm.GetDB().NewInsert().Model(&widget{Code: "a"}).Exec(ctx)
	require.NoError(t, err)
	_, err = dm.GetDB().NewInsert().Model(&widget{Code: "a"}).Exec(ctx)
	require.Error(t, err)
	is, kind := IsSqlError(err)
	assert.True(t, is)
	assert.Equal(t, DuplicateKeyErr, kind)

	status := dm.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	require.NotNil(t, status.Pool)
	assert.Equal(t, 15, status.Pool.MaxOpenConns)
}

func TestManager_HealthBeforeConnect(t *testing.T) {
	status := NewDatabaseManager(sqliteConfig(t)).HealthCheck(context.Background())
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.LastError)
}

func TestManager_Disconnect(t *testing.T) {
	ctx := context.Background()
	dm := NewDatabaseManager(sqliteConfig(t))
	require.NoError(t, dm.Connect(ctx))
	require.NoError(t, dm.Disconnect())
	assert.Nil(t, dm.GetDB())
	assert.Error(t, dm.Ping(ctx))
	assert.NoError(t, dm.Disconnect())
}

func TestManager_UnsupportedType(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"
	assert.Error(t, NewDatabaseManager(cfg).Connect(context.Background()))

	_, err := NewDatabaseFactory().CreateFromConfig(cfg)
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, ":memory:", sqliteDSN(""))
	assert.Equal(t, ":memory:", sqliteDSN(":memory:"))
	assert.Equal(t, "file:x.db?mode=rwc", sqliteDSN("file:x.db?mode=rwc"))
	assert.Equal(t, "/tmp/a.db", sqliteDSN("/tmp/a.db"))
	assert.Equal(t, "bookstore.db", sqliteDSN("bookstore"))
}

func TestPostgresDSN(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Username = "app"
	cfg.Password = "p@ss"
	cfg.Host = "db"
	cfg.DBName = "books"
	cfg.SSLMode = ""

	dsn := postgresDSN(cfg)
	assert.Contains(t, dsn, "postgres://app:p%40ss@db:5432/books?")
	assert.Contains(t, dsn, "sslmode=require")
	assert.Contains(t, dsn, "connect_timeout=10")
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("PG_HOST", "pg.internal")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("PG_DB", "store")
	t.Setenv("PG_USER", "svc")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("DB_POOL_SIZE", "8")
	t.Setenv("DB_POOL_RECYCLE", "60")

	cfg := DefaultConnectionConfig()
	overrideFromEnv(cfg)

	assert.Equal(t, "pg.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "store", cfg.DBName)
	assert.Equal(t, "svc", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 8, cfg.PoolSize)
	assert.Equal(t, 18, cfg.MaxOpenConns())
	assert.Equal(t, time.Minute, cfg.ConnMaxLifetime)
}

func TestDefaultConnectionConfig_Pool(t *testing.T) {
	cfg := DefaultConnectionConfig()
	assert.Equal(t, 5, cfg.PoolSize)
	assert.Equal(t, 15, cfg.MaxOpenConns())
	assert.Equal(t, 30*time.Second, cfg.PoolTimeout)
	assert.Equal(t, 1800*time.Second, cfg.ConnMaxLifetime)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestManager_HealthCheckDoesNotTakeWriteLock(t *testing.T) {
	ctx := context.Background()
	dm := NewDatabaseManager(sqliteConfig(t)).(*defaultDatabaseManager)
	require.NoError(t, dm.Connect(ctx))
	t.Cleanup(func() { _ = dm.Disconnect() })

	// a reader holding the lock must not stall concurrent health checks
	dm.mu.RLock()
	done := make(chan *HealthStatus, 1)
	go func() { done <- dm.HealthCheck(ctx) }()

	select {
	case status := <-done:
		dm.mu.RUnlock()
		assert.True(t, status.Healthy)
	case <-time.After(5 * time.Second):
		dm.mu.RUnlock()
		t.Fatal("HealthCheck blocked on the manager lock")
	}
}

func TestInitDB_RegisteredTablesAndHealth(t *testing.T) {
	ctx := context.Background()
	RegisteredModel(NewModelAdapter((*widget)(nil), 1))

	cfg := DefaultConfig()
	cfg.ConnectionConfig = *sqliteConfig(t)
	db, err := InitDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB() })

	assert.Same(t, db, GetDB())
	_, err = db.NewInsert().Model(&widget{Code: "w1"}).Exec(ctx)
	require.NoError(t, err)

	status := GetHealthStatus(ctx)
	assert.True(t, status.Healthy)
	require.NotNil(t, status.Pool)
	assert.Equal(t, 15, status.Pool.MaxOpenConns)
}
