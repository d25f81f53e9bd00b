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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{26, 5, 6},
		{3, 1, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PageCount(c.total, c.size), "total=%d size=%d", c.total, c.size)
	}
}

func TestPageRequest_Validate(t *testing.T) {
	require.NoError(t, NewDefaultPageRequest(1, 1).Validate())

	var pageErr *PageError
	err := NewDefaultPageRequest(0, 10).Validate()
	require.True(t, errors.As(err, &pageErr))
	assert.Equal(t, "page", pageErr.Field)
	assert.Equal(t, "page must be >= 1", pageErr.Message)

	err = NewDefaultPageRequest(1, 0).Validate()
	require.True(t, errors.As(err, &pageErr))
	assert.Equal(t, "page_size", pageErr.Field)
}

func TestPageRequest_OffsetAndOrders(t *testing.T) {
	p := NewDefaultPageRequest(3, 20)
	assert.Equal(t, 40, p.GetOffset())
	assert.Equal(t, []string{"id ASC"}, p.GetOrders())

	p = NewPageRequest(1, 5, []string{"name DESC"})
	assert.Equal(t, 0, p.GetOffset())
	assert.Equal(t, []string{"name DESC"}, p.GetOrders())
}

func TestMapPagination(t *testing.T) {
	type item struct{ N int }
	type view struct{ Double int }

	p := NewDefaultPagination[item](2, 2)
	p.Items = []*item{{N: 1}, {N: 2}}
	p.SetTotal(5)

	out := MapPagination(p, func(i *item) *view { return &view{Double: i.N * 2} })
	assert.Equal(t, 5, out.Total)
	assert.Equal(t, 3, out.Pages)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 2, out.PageSize)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 4, out.Items[1].Double)
}

func TestNewDefaultPagination_EmptyItemsNotNil(t *testing.T) {
	p := NewDefaultPagination[struct{}](1, 10)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.Pages)
}

func TestPageRequest_HugePage(t *testing.T) {
	p := NewDefaultPageRequest(1<<62, 4)
	assert.Equal(t, math.MaxInt, p.GetOffset())
	assert.True(t, p.IsBeyond(3))

	assert.False(t, NewDefaultPageRequest(1, 4).IsBeyond(3))
	assert.False(t, NewDefaultPageRequest(3, 5).IsBeyond(11))
	assert.True(t, NewDefaultPageRequest(4, 5).IsBeyond(15))
	assert.True(t, NewDefaultPageRequest(1, 4).IsBeyond(0))

	assert.Equal(t, 1, PageCount(3, math.MaxInt))
}
