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

// Package controller sits between HTTP handlers and repositories.
package controller

import (
	"context"

	"github.com/tomoncle/bookstore/repository"
	"github.com/tomoncle/bookstore/types"
)

type Controller[M any, C repository.CreateShape[M], U repository.UpdateShape[M]] interface {
	// GetPaginated returns one page of M ordered by id.
	GetPaginated(ctx context.Context, page int, pageSize int) (*types.Pagination[M], error)

	// GetByID returns (nil, nil) when the id is unknown.
	GetByID(ctx context.Context, id int64) (*M, error)

	Create(ctx context.Context, data C) (*M, error)

	Update(ctx context.Context, id int64, data U) (*M, error)

	Delete(ctx context.Context, id int64) error
}

type baseControllerImpl[M any, C repository.CreateShape[M], U repository.UpdateShape[M]] struct {
	repo repository.Repository[M, C, U]
}

// NewController forwards every call to repo.
func NewController[M any, C repository.CreateShape[M], U repository.UpdateShape[M]](repo repository.Repository[M, C, U]) Controller[M, C, U] {
	return &baseControllerImpl[M, C, U]{repo: repo}
}

func (c *baseControllerImpl[M, C, U]) GetPaginated(ctx context.Context, page int, pageSize int) (*types.Pagination[M], error) {
	return c.repo.GetPaginated(ctx, page, pageSize)
}

func (c *baseControllerImpl[M, C, U]) GetByID(ctx context.Context, id int64) (*M, error) {
	return c.repo.GetByID(ctx, id)
}

func (c *baseControllerImpl[M, C, U]) Create(ctx context.Context, data C) (*M, error) {
	return c.repo.Create(ctx, data)
}

func (c *baseControllerImpl[M, C, U]) Update(ctx context.Context, id int64, data U) (*M, error) {
	return c.repo.UpdateByID(ctx, id, data)
}

func (c *baseControllerImpl[M, C, U]) Delete(ctx context.Context, id int64) error {
	return c.repo.DeleteByID(ctx, id)
}
