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

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events as JSON messages keyed by Event.Key.
type Kafka struct {
	writer MessageWriter
}

var _ Publisher = (*Kafka)(nil)

// NewKafkaWriter returns a writer for topic that creates the topic on demand.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

func NewKafka(w MessageWriter) *Kafka {
	return &Kafka{writer: w}
}

type envelope struct {
	Key        string      `json:"key"`
	Table      string      `json:"table"`
	Action     Action      `json:"action"`
	ID         int64       `json:"id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

func (k *Kafka) Publish(ctx context.Context, event Event) error {
	msg, err := Encode(event)
	if err != nil {
		return err
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Key(), err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

// Encode renders event as the message Kafka publishes.
func Encode(event Event) (kafka.Message, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	key := event.Key()
	value, err := json.Marshal(envelope{
		Key:        key,
		Table:      event.Table,
		Action:     event.Action,
		ID:         event.ID,
		OccurredAt: event.OccurredAt,
		Data:       event.Data,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event %s: %w", key, err)
	}
	return kafka.Message{Key: []byte(key), Value: value, Time: event.OccurredAt}, nil
}
