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
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
)

func (e SQLError) String() string {
	switch e {
	case NoRowsErr:
		return "no_rows"
	case NoColumnErr:
		return "no_column"
	case NoTableErr:
		return "no_table"
	case ExistTableErr:
		return "exist_table"
	case DuplicateKeyErr:
		return "duplicate_key"
	case NotNullViolationErr:
		return "not_null_violation"
	case ForeignKeyViolationErr:
		return "foreign_key_violation"
	case CheckConstraintViolationErr:
		return "check_violation"
	case DataTruncatedErr:
		return "data_truncated"
	default:
		return unknownName
	}
}

const unknownName = "unknown"

// IsValid is false for UnknownErr and values outside the declared range.
func (e SQLError) IsValid() bool {
	return e > UnknownErr && e <= DataTruncatedErr
}

func (e SQLError) Name() string { return e.String() }

func (e SQLError) Desc() string {
	switch e {
	case NoRowsErr:
		return "query returned no rows"
	case NoColumnErr:
		return "column does not exist"
	case NoTableErr:
		return "table does not exist"
	case ExistTableErr:
		return "table already exists"
	case DuplicateKeyErr:
		return "unique constraint violated"
	case NotNullViolationErr:
		return "not-null constraint violated"
	case ForeignKeyViolationErr:
		return "foreign key constraint violated"
	case CheckConstraintViolationErr:
		return "check constraint violated"
	case DataTruncatedErr:
		return "value too long for column"
	default:
		return unknownName
	}
}

var pqCodes = map[pq.ErrorCode]SQLError{
	"23505": DuplicateKeyErr,
	"23502": NotNullViolationErr,
	"23503": ForeignKeyViolationErr,
	"23514": CheckConstraintViolationErr,
	"22001": DataTruncatedErr,
	"42703": NoColumnErr,
	"42P01": NoTableErr,
	"42P07": ExistTableErr,
}

var mysqlNumbers = map[uint16]SQLError{
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	1451: ForeignKeyViolationErr,
	1452: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
	1265: DataTruncatedErr,
	1406: DataTruncatedErr,
	1054: NoColumnErr,
	1146: NoTableErr,
	1050: ExistTableErr,
}

// IsSqlError classifies err as a driver error. Typed PostgreSQL and MySQL
// errors are matched by code; SQLite (and wrapped text) by message.
func IsSqlError(err error) (is bool, sqlErr SQLError) {
	if err == nil {
		return false, UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true, NoRowsErr
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if kind, ok := pqCodes[pqErr.Code]; ok {
			return true, kind
		}
		return true, UnknownErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if kind, ok := mysqlNumbers[mysqlErr.Number]; ok {
			return true, kind
		}
		return true, UnknownErr
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "unique constraint failed"),
		strings.Contains(s, "duplicate key value"),
		strings.Contains(s, "sqlstate 23505"):
		return true, DuplicateKeyErr
	case strings.Contains(s, "not null constraint failed"),
		strings.Contains(s, "sqlstate 23502"):
		return true, NotNullViolationErr
	case strings.Contains(s, "foreign key constraint failed"),
		strings.Contains(s, "sqlstate 23503"):
		return true, ForeignKeyViolationErr
	case strings.Contains(s, "check constraint failed"),
		strings.Contains(s, "sqlstate 23514"):
		return true, CheckConstraintViolationErr
	case strings.Contains(s, "no such table"),
		strings.Contains(s, "sqlstate 42p01"):
		return true, NoTableErr
	case strings.Contains(s, "no such column"),
		strings.Contains(s, "sqlstate 42703"):
		return true, NoColumnErr
	case strings.Contains(s, "already exists") && strings.Contains(s, "table"):
		return true, ExistTableErr
	}
	return false, UnknownErr
}

// ErrorDetail returns the most specific human readable text the driver
// attached to err: pq's Detail (e.g. `Key (username)=(alice) already exists.`),
// the MySQL server message, or err.Error().
func ErrorDetail(err error) string {
	if err == nil {
		return ""
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Detail != "" {
			return pqErr.Detail
		}
		return pqErr.Message
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Message
	}
	return err.Error()
}
