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

// Package events announces committed entity changes.
package events

import (
	"context"
	"fmt"
	"time"
)

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

// Event describes one committed write. Data is the entity after the write,
// nil for deletes.
type Event struct {
	Table      string
	Action     Action
	ID         int64
	Data       interface{}
	OccurredAt time.Time
}

// Key is "<table>.<action>.<id>", e.g. "books.created.7".
func (e Event) Key() string {
	return fmt.Sprintf("%s.%s.%d", e.Table, e.Action, e.ID)
}

// Publisher must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
