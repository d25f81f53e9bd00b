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

package models

import (
	"github.com/tomoncle/bookstore/database"
	"github.com/uptrace/bun"
)

func init() {
	database.RegisteredModel(database.NewModelAdapter((*Book)(nil), 10))
}

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID    int64  `bun:"id,pk,autoincrement" json:"id"`
	Name  string `bun:"name,notnull" json:"name"`
	Price int    `bun:"price,notnull" json:"price"`
}

func (b *Book) GetID() int64 { return b.ID }

// BookCreate is the POST /books body.
type BookCreate struct {
	Name  string `json:"name" validate:"required"`
	Price *int   `json:"price" validate:"required,gte=0"`
}

func (c BookCreate) NewModel() *Book {
	b := &Book{Name: c.Name}
	if c.Price != nil {
		b.Price = *c.Price
	}
	return b
}

// BookUpdate is the PUT /books/{id} body; absent fields keep their value.
type BookUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Price *int    `json:"price,omitempty" validate:"omitempty,gte=0"`
}

func (u BookUpdate) ApplyTo(b *Book) []string {
	var changed []string
	if u.Name != nil {
		b.Name = *u.Name
		changed = append(changed, "name")
	}
	if u.Price != nil {
		b.Price = *u.Price
		changed = append(changed, "price")
	}
	return changed
}
