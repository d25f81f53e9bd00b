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
	"errors"

	"github.com/tomoncle/bookstore/database"
	"github.com/tomoncle/bookstore/types"
)

// ErrNotFound is returned by UpdateByID and DeleteByID for an unknown id.
var ErrNotFound = errors.New("identifier not found")

// ValidationError reports an out-of-range pagination parameter.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError wraps a unique constraint violation. Detail is the text the
// driver attached, e.g. `Key (username)=(alice) already exists.`
type ConflictError struct {
	Detail string
	Err    error
}

func (e *ConflictError) Error() string { return "conflict: " + e.Detail }

func (e *ConflictError) Unwrap() error { return e.Err }

func newValidationError(err error) error {
	var pageErr *types.PageError
	if errors.As(err, &pageErr) {
		return &ValidationError{Field: pageErr.Field, Message: pageErr.Message}
	}
	return &ValidationError{Message: err.Error()}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if ok, kind := database.IsSqlError(err); ok && kind == database.DuplicateKeyErr {
		return &ConflictError{Detail: database.ErrorDetail(err), Err: err}
	}
	return err
}
