// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package intake consumes email events from a Redis list queue and feeds
// them through the triage pipeline into the store. It is the consuming
// counterpart of an ingestion service that LPUSHes events onto the queue.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bcem/triage/internal/classify"
	"github.com/bcem/triage/internal/models"
	"github.com/bcem/triage/internal/priority"
	"github.com/bcem/triage/internal/store"
)

const popTimeout = 5 * time.Second

// Consumer pops email events from a Redis queue, classifies and scores
// them, and adds them to the store. Malformed payloads are logged and
// dropped; they never stop the loop.
type Consumer struct {
	rdb        *redis.Client
	queueName  string
	store      *store.Store
	classifier *classify.Classifier
	scorer     *priority.Scorer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer creates a queue consumer.
func NewConsumer(rdb *redis.Client, queueName string, s *store.Store, c *classify.Classifier, p *priority.Scorer) *Consumer {
	return &Consumer{
		rdb:        rdb,
		queueName:  queueName,
		store:      s,
		classifier: c,
		scorer:     p,
	}
}

// Ping checks the Redis connection.
func (c *Consumer) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

// Start launches the consume loop in a background goroutine.
func (c *Consumer) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		slog.Info("queue intake started", "queue", c.queueName)
		for {
			res, err := c.rdb.BRPop(loopCtx, popTimeout, c.queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if loopCtx.Err() != nil {
					return
				}
				slog.Error("queue pop failed", "queue", c.queueName, "error", err)
				select {
				case <-loopCtx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}

			// BRPop returns [queue, payload].
			if len(res) != 2 {
				continue
			}
			if err := c.handlePayload([]byte(res[1])); err != nil {
				slog.Error("dropping bad queue payload", "queue", c.queueName, "error", err)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// handlePayload decodes one queued email event and runs it through
// classification and scoring before storing it.
func (c *Consumer) handlePayload(payload []byte) error {
	var event models.EmailEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode email event: %w", err)
	}

	email, err := event.ToEmail(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("convert email event: %w", err)
	}

	c.classifier.Classify(email)
	score, level := c.scorer.Score(email, priority.Context{Now: time.Now().UTC()})
	email.PriorityScore = score
	email.PriorityLevel = level

	c.store.AddEmails([]*models.Email{email})
	slog.Info("email ingested from queue",
		"message_id", email.ID,
		"category", email.Category,
		"priority_level", email.PriorityLevel,
	)
	return nil
}
