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
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/bookstore/cache"
	"github.com/tomoncle/bookstore/events"
	"github.com/tomoncle/bookstore/utils"
)

// DefaultSessionTimeout bounds a whole repository call, waiting for a pooled
// connection included.
const DefaultSessionTimeout = 30 * time.Second

type options[M any] struct {
	hook           Hook[M]
	cache          cache.Cache
	cachePrefix    string
	cacheTTL       time.Duration
	publisher      events.Publisher
	sessionTimeout time.Duration
	logger         logrus.FieldLogger
}

type Option[M any] func(*options[M])

func defaultOptions[M any]() options[M] {
	return options[M]{
		sessionTimeout: DefaultSessionTimeout,
		logger:         utils.NewLogger("REPOSITORY"),
	}
}

func WithHook[M any](hook Hook[M]) Option[M] {
	return func(o *options[M]) { o.hook = hook }
}

// WithCache reads GetByID through c and drops entries after committed
// updates and deletes. Keys are "<prefix>:<table>:<id>".
func WithCache[M any](c cache.Cache, prefix string, ttl time.Duration) Option[M] {
	return func(o *options[M]) {
		o.cache = c
		o.cachePrefix = prefix
		o.cacheTTL = ttl
	}
}

// WithPublisher announces every committed write on p.
func WithPublisher[M any](p events.Publisher) Option[M] {
	return func(o *options[M]) { o.publisher = p }
}

// WithSessionTimeout overrides DefaultSessionTimeout; d <= 0 disables it.
func WithSessionTimeout[M any](d time.Duration) Option[M] {
	return func(o *options[M]) { o.sessionTimeout = d }
}

func WithLogger[M any](l logrus.FieldLogger) Option[M] {
	return func(o *options[M]) {
		if l != nil {
			o.logger = l
		}
	}
}
