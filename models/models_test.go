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
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/bookstore/database"
	"github.com/tomoncle/bookstore/security"
	"golang.org/x/crypto/bcrypt"
)

func ptr[T any](v T) *T { return &v }

func TestBookUpdate_ApplyTo(t *testing.T) {
	b := &Book{ID: 1, Name: "Dune", Price: 10}

	changed := BookUpdate{Price: ptr(15)}.ApplyTo(b)
	assert.Equal(t, []string{"price"}, changed)
	assert.Equal(t, "Dune", b.Name)
	assert.Equal(t, 15, b.Price)

	assert.Empty(t, BookUpdate{}.ApplyTo(b))
}

func TestBookCreate_NewModel(t *testing.T) {
	b := BookCreate{Name: "Dune", Price: ptr(10)}.NewModel()
	assert.Equal(t, &Book{Name: "Dune", Price: 10}, b)
}

func TestUser_JSONHidesPassword(t *testing.T) {
	u := &User{ID: 3, Username: "alice", Email: "a@x.io", Password: "$2a$hash"}
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$hash")

	pub := u.ToPublic()
	assert.Equal(t, int64(3), pub.ID)
	assert.Equal(t, "alice", pub.Username)
}

func TestUserHook(t *testing.T) {
	ctx := context.Background()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	hook := &UserHook{Hasher: hasher, Now: func() time.Time { return fixed }}

	u := UserCreate{Username: "alice", Email: "a@x.io", Password: "old"}.NewModel()
	require.NoError(t, hook.BeforeCreate(ctx, u))
	assert.True(t, hasher.Verify("old", u.Password))
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
	assert.True(t, fixed.Equal(u.CreatedAt))
	oldHash := u.Password

	changed := UserUpdate{Email: ptr("b@x.io")}.ApplyTo(u)
	require.NoError(t, hook.BeforeUpdate(ctx, u, changed))
	assert.Equal(t, oldHash, u.Password)

	changed = UserUpdate{Password: ptr("new")}.ApplyTo(u)
	require.NoError(t, hook.BeforeUpdate(ctx, u, changed))
	assert.True(t, hasher.Verify("new", u.Password))
	assert.False(t, hasher.Verify("old", u.Password))
}

func TestModelsRegistered(t *testing.T) {
	var names []string
	for _, m := range database.GetRegisteredModels() {
		switch m.Instance().(type) {
		case *Book:
			names = append(names, "books")
		case *User:
			names = append(names, "users")
		}
	}
	assert.Equal(t, []string{"books", "users"}, names)
}
