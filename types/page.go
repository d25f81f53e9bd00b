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

package types

import (
	"fmt"
	"math"
)

// Defaults applied by the HTTP layer when the client omits page parameters.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// DefaultOrders keeps paging stable across requests.
var DefaultOrders = []string{"id ASC"}

// PageRequest describes a 1-based page and its ordering.
type PageRequest struct {
	page     int
	pageSize int
	orders   []string // "id ASC", "name DESC"
}

// NewPageRequest constructs a PageRequest with explicit ordering.
func NewPageRequest(page int, pageSize int, orders []string) *PageRequest {
	return &PageRequest{page, pageSize, orders}
}

// NewDefaultPageRequest constructs a PageRequest ordered by DefaultOrders.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, DefaultOrders)
}

func (p *PageRequest) GetPage() int { return p.page }

func (p *PageRequest) GetPageSize() int { return p.pageSize }

// GetOffset returns (page-1)*pageSize, saturating at math.MaxInt instead of
// wrapping negative.
func (p *PageRequest) GetOffset() int {
	if p.page <= 1 || p.pageSize <= 0 {
		return 0
	}
	if p.page-1 > math.MaxInt/p.pageSize {
		return math.MaxInt
	}
	return (p.page - 1) * p.pageSize
}

// IsBeyond reports whether the page starts past the last of total rows.
func (p *PageRequest) IsBeyond(total int) bool {
	if total <= 0 {
		return true
	}
	return p.page-1 > (total-1)/p.pageSize
}

func (p *PageRequest) GetOrders() []string {
	if len(p.orders) == 0 {
		return DefaultOrders
	}
	return p.orders
}

// Validate reports the first out-of-range parameter as a *PageError.
func (p *PageRequest) Validate() error {
	if p.page < 1 {
		return &PageError{Field: "page", Message: "page must be >= 1"}
	}
	if p.pageSize < 1 {
		return &PageError{Field: "page_size", Message: "page_size must be >= 1"}
	}
	return nil
}

// PageError is returned by Validate for invalid page parameters.
type PageError struct {
	Field   string
	Message string
}

func (e *PageError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Pagination is the envelope returned for a page of items.
type Pagination[T any] struct {
	Items    []*T `json:"items"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Pages    int  `json:"pages"`
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{Items: make([]*T, 0), Page: page, PageSize: pageSize}
}

// SetTotal records the total row count and derives Pages from it.
func (p *Pagination[T]) SetTotal(total int) {
	p.Total = total
	p.Pages = PageCount(total, p.PageSize)
}

// PageCount returns ceil(total/pageSize), or 0 when there is nothing to page.
func PageCount(total int, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total-1)/pageSize + 1
}

// MapPagination converts every item with fn, keeping the page metadata.
func MapPagination[T any, V any](p *Pagination[T], fn func(*T) *V) *Pagination[V] {
	out := &Pagination[V]{
		Items:    make([]*V, 0, len(p.Items)),
		Total:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Pages:    p.Pages,
	}
	for _, item := range p.Items {
		out.Items = append(out.Items, fn(item))
	}
	return out
}
