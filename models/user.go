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
	"slices"
	"time"

	"github.com/tomoncle/bookstore/database"
	"github.com/tomoncle/bookstore/security"
	"github.com/uptrace/bun"
)

func init() {
	database.RegisteredModel(database.NewModelAdapter((*User)(nil), 20))
}

// User holds a bcrypt hash in Password; it never leaves the process as JSON.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Username  string    `bun:"username,notnull,unique" json:"username"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Password  string    `bun:"password,notnull" json:"-"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

func (u *User) GetID() int64 { return u.ID }

// ToPublic drops the password hash.
func (u *User) ToPublic() *UserPublic {
	return &UserPublic{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type UserPublic struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCreate carries the plaintext password; UserHook hashes it before insert.
// Password is capped at 72 bytes, the most bcrypt reads.
type UserCreate struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

func (c UserCreate) NewModel() *User {
	return &User{Username: c.Username, Email: c.Email, Password: c.Password}
}

type UserUpdate struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1,maxbytes=72"`
}

func (u UserUpdate) ApplyTo(m *User) []string {
	var changed []string
	if u.Username != nil {
		m.Username = *u.Username
		changed = append(changed, "username")
	}
	if u.Email != nil {
		m.Email = *u.Email
		changed = append(changed, "email")
	}
	if u.Password != nil {
		m.Password = *u.Password
		changed = append(changed, "password")
	}
	return changed
}

// UserHook hashes passwords and stamps timestamps before users are written.
type UserHook struct {
	Hasher security.PasswordHasher
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewUserHook(hasher security.PasswordHasher) *UserHook {
	return &UserHook{Hasher: hasher, Now: time.Now}
}

func (h *UserHook) BeforeCreate(_ context.Context, u *User) error {
	if u.Password != "" {
		hashed, err := h.Hasher.Hash(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	now := h.now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (h *UserHook) BeforeUpdate(_ context.Context, u *User, changed []string) error {
	if slices.Contains(changed, "password") {
		hashed, err := h.Hasher.Hash(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	u.UpdatedAt = h.now()
	return nil
}

func (h *UserHook) now() time.Time {
	if h.Now == nil {
		return time.Now().UTC()
	}
	return h.Now().UTC()
}
