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

// Package cache stores msgpack encoded entities by key, in Redis or in
// process memory.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// Cache is safe for concurrent use.
type Cache interface {
	// Get decodes the value stored at key into dst.
	Get(ctx context.Context, key string, dst interface{}) error
	// Set stores value under key; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// EntityKey builds "<prefix>:<table>:<id>".
func EntityKey(prefix string, table string, id int64) string {
	if prefix == "" {
		return fmt.Sprintf("%s:%d", table, id)
	}
	return fmt.Sprintf("%s:%s:%d", prefix, table, id)
}

func encode(v interface{}) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cache encode: %w", err)
	}
	return b, nil
}

func decode(b []byte, dst interface{}) error {
	if err := msgpack.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("cache decode: %w", err)
	}
	return nil
}
