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

	"github.com/tomoncle/bookstore/types"
)

// CreateShape builds a new, not yet persisted model from a request body.
type CreateShape[M any] interface {
	NewModel() *M
}

// UpdateShape copies the fields present in a request body onto model and
// returns the names of the fields it set.
type UpdateShape[M any] interface {
	ApplyTo(model *M) []string
}

// Hook runs inside the write transaction, right before the statement.
// Returning an error aborts the write.
type Hook[M any] interface {
	BeforeCreate(ctx context.Context, model *M) error
	BeforeUpdate(ctx context.Context, model *M, changed []string) error
}

// Repository is CRUD plus pagination for one table. Every call runs in its
// own transaction.
type Repository[M any, C CreateShape[M], U UpdateShape[M]] interface {
	Create(ctx context.Context, data C) (*M, error)

	// GetByID returns (nil, nil) when no row has id.
	GetByID(ctx context.Context, id int64) (*M, error)

	GetPaginated(ctx context.Context, page int, pageSize int) (*types.Pagination[M], error)

	UpdateByID(ctx context.Context, id int64, data U) (*M, error)

	DeleteByID(ctx context.Context, id int64) error
}
