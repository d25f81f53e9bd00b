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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/tomoncle/bookstore/cache"
	"github.com/tomoncle/bookstore/events"
	"github.com/tomoncle/bookstore/types"
	"github.com/uptrace/bun"
)

type identifiable interface {
	GetID() int64
}

type baseRepositoryImpl[M any, C CreateShape[M], U UpdateShape[M]] struct {
	db    *bun.DB
	table string
	opts  options[M]
	// writeGen moves after every committed update or delete. A GetByID that
	// loaded its row under an older generation drops its cache fill.
	writeGen atomic.Uint64
}

// NewRepository returns a repository for the bun model M.
func NewRepository[M any, C CreateShape[M], U UpdateShape[M]](db *bun.DB, opts ...Option[M]) Repository[M, C, U] {
	o := defaultOptions[M]()
	for _, opt := range opts {
		opt(&o)
	}
	return &baseRepositoryImpl[M, C, U]{
		db:    db,
		table: db.Table(reflect.TypeFor[M]()).Name,
		opts:  o,
	}
}

func (r *baseRepositoryImpl[M, C, U]) Create(ctx context.Context, data C) (*M, error) {
	model := data.NewModel()
	err := r.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if r.opts.hook != nil {
			if err := r.opts.hook.BeforeCreate(ctx, model); err != nil {
				return err
			}
		}
		if _, err := tx.NewInsert().Model(model).Exec(ctx); err != nil {
			return translateError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.publish(ctx, events.Created, idOf(model), model)
	return model, nil
}

func (r *baseRepositoryImpl[M, C, U]) GetByID(ctx context.Context, id int64) (*M, error) {
	if cached, ok := r.cacheGet(ctx, id); ok {
		return cached, nil
	}

	gen := r.writeGen.Load()
	model := new(M)
	found := true
	err := r.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(model).Where("id = ?", id).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	r.cacheFill(ctx, id, model, gen)
	return model, nil
}

func (r *baseRepositoryImpl[M, C, U]) GetPaginated(ctx context.Context, page int, pageSize int) (*types.Pagination[M], error) {
	pageRequest := types.NewDefaultPageRequest(page, pageSize)
	if err := pageRequest.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	pagination := types.NewDefaultPagination[M](page, pageSize)
	err := r.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		total, err := tx.NewSelect().Model((*M)(nil)).Count(ctx)
		if err != nil {
			return err
		}
		pagination.SetTotal(total)
		if total == 0 || pageRequest.IsBeyond(total) {
			return nil
		}

		var items []*M
		err = tx.NewSelect().
			Model(&items).
			Order(pageRequest.GetOrders()...).
			Offset(pageRequest.GetOffset()).
			Limit(pageRequest.GetPageSize()).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if items != nil {
			pagination.Items = items
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pagination, nil
}

func (r *baseRepositoryImpl[M, C, U]) UpdateByID(ctx context.Context, id int64, data U) (*M, error) {
	model := new(M)
	var changed []string
	err := r.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(model).Where("id = ?", id).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		changed = data.ApplyTo(model)
		if len(changed) == 0 {
			return nil
		}
		if r.opts.hook != nil {
			if err := r.opts.hook.BeforeUpdate(ctx, model, changed); err != nil {
				return err
			}
		}
		if _, err := tx.NewUpdate().Model(model).WherePK().Exec(ctx); err != nil {
			return translateError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(changed) > 0 {
		r.invalidate(ctx, id)
		r.publish(ctx, events.Updated, id, model)
	}
	return model, nil
}

func (r *baseRepositoryImpl[M, C, U]) DeleteByID(ctx context.Context, id int64) error {
	err := r.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*M)(nil)).Where("id = ?", id).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		_, err = tx.NewDelete().Model((*M)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	r.invalidate(ctx, id)
	r.publish(ctx, events.Deleted, id, nil)
	return nil
}

// inTx runs fn in a fresh transaction bounded by the session timeout. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *baseRepositoryImpl[M, C, U]) inTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	if r.opts.sessionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.sessionTimeout)
		defer cancel()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction on %s: %w", r.table, err)
	}
	var committed bool
	defer func(tx bun.Tx) {
		if committed {
			return
		}
		// a cancelled context already rolled the transaction back
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.opts.logger.WithError(rollbackErr).WithField("table", r.table).Error("failed to rollback transaction")
		}
	}(tx)

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return translateError(err)
	}
	committed = true
	return nil
}

func (r *baseRepositoryImpl[M, C, U]) cacheKey(id int64) string {
	return cache.EntityKey(r.opts.cachePrefix, r.table, id)
}

func (r *baseRepositoryImpl[M, C, U]) cacheGet(ctx context.Context, id int64) (*M, bool) {
	if r.opts.cache == nil {
		return nil, false
	}
	model := new(M)
	err := r.opts.cache.Get(ctx, r.cacheKey(id), model)
	if err == nil {
		return model, true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		r.opts.logger.WithError(err).WithField("key", r.cacheKey(id)).Warn("cache read failed")
	}
	return nil, false
}

// cacheFill stores a row loaded under generation gen. A write committed
// after the load either bumps the generation before the check below, and the
// fill is undone here, or deletes the key after this Set.
func (r *baseRepositoryImpl[M, C, U]) cacheFill(ctx context.Context, id int64, model *M, gen uint64) {
	if r.opts.cache == nil || r.writeGen.Load() != gen {
		return
	}
	if err := r.opts.cache.Set(ctx, r.cacheKey(id), model, r.opts.cacheTTL); err != nil {
		r.opts.logger.WithError(err).WithField("key", r.cacheKey(id)).Warn("cache write failed")
		return
	}
	if r.writeGen.Load() != gen {
		r.cacheDelete(ctx, id)
	}
}

// invalidate runs after a committed update or delete.
func (r *baseRepositoryImpl[M, C, U]) invalidate(ctx context.Context, id int64) {
	r.writeGen.Add(1)
	r.cacheDelete(ctx, id)
}

func (r *baseRepositoryImpl[M, C, U]) cacheDelete(ctx context.Context, id int64) {
	if r.opts.cache == nil {
		return
	}
	if err := r.opts.cache.Delete(ctx, r.cacheKey(id)); err != nil {
		r.opts.logger.WithError(err).WithField("key", r.cacheKey(id)).Warn("cache invalidation failed")
	}
}

func (r *baseRepositoryImpl[M, C, U]) publish(ctx context.Context, action events.Action, id int64, model *M) {
	if r.opts.publisher == nil {
		return
	}
	event := events.Event{
		Table:      r.table,
		Action:     action,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
	if model != nil {
		event.Data = model
	}
	if err := r.opts.publisher.Publish(ctx, event); err != nil {
		r.opts.logger.WithError(err).WithField("event", event.Key()).Warn("event publish failed")
	}
}

func idOf(model interface{}) int64 {
	if m, ok := model.(identifiable); ok {
		return m.GetID()
	}
	return 0
}
