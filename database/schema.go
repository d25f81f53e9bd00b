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
	"fmt"
	"os"

	"github.com/uptrace/bun"
)

// SchemaManager creates one table per registered model if it is missing.
// Existing tables are never altered.
type SchemaManager struct {
	db     *bun.DB
	logger Logger
}

func NewSchemaManager(db *bun.DB, logger Logger) *SchemaManager {
	return &SchemaManager{db: db, logger: logger}
}

// CreateTables creates the tables of every registered model.
func (sm *SchemaManager) CreateTables(ctx context.Context) error {
	return sm.CreateTablesFor(ctx, RegisteredModelInstances()...)
}

// CreateTablesFor runs CREATE TABLE IF NOT EXISTS for models inside a single
// transaction.
func (sm *SchemaManager) CreateTablesFor(ctx context.Context, models ...interface{}) error {
	if sm.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if len(models) == 0 {
		return nil
	}
	if _, ok := os.LookupEnv("BUNDEBUG_MIGRATION"); !ok {
		SilenceQueryLog(true)
		defer SilenceQueryLog(false)
	}

	tx, err := sm.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	var committed bool
	defer func(tx bun.Tx) {
		if !committed {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && sm.logger != nil {
				sm.logger.Error("failed to rollback transaction", "error", rollbackErr)
			}
		}
	}(tx)

	for _, model := range models {
		if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", sm.tableName(model), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	if sm.logger != nil {
		for _, model := range models {
			sm.logger.Info("table ready", "table", sm.tableName(model))
		}
	}
	return nil
}

func (sm *SchemaManager) tableName(model interface{}) string {
	if t := sm.db.Table(reflectType(model)); t != nil {
		return t.Name
	}
	return fmt.Sprintf("%T", model)
}
