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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   bool
		kind SQLError
	}{
		{"nil", nil, false, UnknownErr},
		{"no rows", fmt.Errorf("load: %w", sql.ErrNoRows), true, NoRowsErr},
		{"pq unique", &pq.Error{Code: "23505"}, true, DuplicateKeyErr},
		{"pq wrapped", fmt.Errorf("insert: %w", &pq.Error{Code: "23502"}), true, NotNullViolationErr},
		{"pq other", &pq.Error{Code: "40001"}, true, UnknownErr},
		{"mysql dup", &mysql.MySQLError{Number: 1062}, true, DuplicateKeyErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"), true, DuplicateKeyErr},
		{"sqlite table", errors.New("SQL logic error: no such table: books (1)"), true, NoTableErr},
		{"plain", errors.New("connection refused"), false, UnknownErr},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			is, kind := IsSqlError(c.err)
			assert.Equal(t, c.is, is)
			assert.Equal(t, c.kind, kind)
		})
	}
}

func TestErrorDetail(t *testing.T) {
	assert.Equal(t, "", ErrorDetail(nil))
	assert.Equal(t,
		"Key (username)=(alice) already exists.",
		ErrorDetail(fmt.Errorf("x: %w", &pq.Error{Code: "23505", Message: "duplicate key", Detail: "Key (username)=(alice) already exists."})))
	assert.Equal(t, "duplicate key", ErrorDetail(&pq.Error{Code: "23505", Message: "duplicate key"}))
	assert.Equal(t, "Duplicate entry 'alice' for key 'username'",
		ErrorDetail(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'username'"}))
	assert.Equal(t, "boom", ErrorDetail(errors.New("boom")))
}

func TestSQLError_String(t *testing.T) {
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	assert.Equal(t, "unknown", SQLError(99).String())
}

func TestSQLError_Enum(t *testing.T) {
	assert.True(t, DuplicateKeyErr.IsValid())
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.Name())
	assert.Equal(t, "unique constraint violated", DuplicateKeyErr.Desc())

	for _, e := range []SQLError{UnknownErr, SQLError(99)} {
		assert.False(t, e.IsValid())
		assert.Equal(t, "unknown", e.Desc())
	}
}
