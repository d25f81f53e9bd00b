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

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID      int64
	Name    string
	Secret  string `json:"-"`
	Created time.Time
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	in := record{ID: 7, Name: "Dune", Secret: "hash", Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	require.NoError(t, c.Set(ctx, "k", &in, 0))

	var out record
	require.NoError(t, c.Get(ctx, "k", &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, "hash", out.Secret)
	assert.True(t, in.Created.Equal(out.Created))
}

func TestMemory_MissAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	var out record
	assert.ErrorIs(t, c.Get(ctx, "absent", &out), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "a", record{ID: 1}, 0))
	require.NoError(t, c.Set(ctx, "b", record{ID: 2}, 0))
	require.NoError(t, c.Delete(ctx, "a", "b", "c"))
	assert.Equal(t, 0, c.Len())
	assert.ErrorIs(t, c.Get(ctx, "a", &out), ErrCacheMiss)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	c := NewMemory()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", record{ID: 1}, time.Minute))
	var out record
	require.NoError(t, c.Get(ctx, "k", &out))

	now = now.Add(time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrCacheMiss)
	assert.Equal(t, 0, c.Len())
}

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "bookstore:books:42", EntityKey("bookstore", "books", 42))
	assert.Equal(t, "users:1", EntityKey("", "users", 1))
}
