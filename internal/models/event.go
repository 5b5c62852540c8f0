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

package models

import (
	"fmt"
	"strings"
	"time"
)

// EmailBody represents the message body content on the wire.
type EmailBody struct {
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// EmailEvent is the wire format an ingestion service publishes to the
// intake queue, one event per received message. Timestamps are RFC 3339.
type EmailEvent struct {
	MessageID  string            `json:"message_id"`
	ThreadID   string            `json:"thread_id,omitempty"`
	ReceivedAt string            `json:"received_at,omitempty"`
	From       EmailAddress      `json:"from"`
	To         []EmailAddress    `json:"to"`
	CC         []EmailAddress    `json:"cc,omitempty"`
	Subject    string            `json:"subject"`
	Body       EmailBody         `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// ToEmail converts a wire event into an Email ready for the pipeline.
// fallback is used as ReceivedAt when the event carries no timestamp.
// HTML bodies are kept out of BodyText; the pipeline ignores HTML.
func (ev *EmailEvent) ToEmail(fallback time.Time) (*Email, error) {
	if ev.MessageID == "" {
		return nil, fmt.Errorf("email event without message_id: %w", ErrInvalidInput)
	}

	receivedAt := fallback
	if ev.ReceivedAt != "" {
		t, err := time.Parse(time.RFC3339, ev.ReceivedAt)
		if err != nil {
			return nil, fmt.Errorf("parse received_at %q: %w", ev.ReceivedAt, err)
		}
		receivedAt = t
	}

	threadID := ev.ThreadID
	if threadID == "" {
		threadID = ev.MessageID
	}

	e := &Email{
		ID:         ev.MessageID,
		ThreadID:   threadID,
		Subject:    ev.Subject,
		Sender:     ev.From,
		Recipients: ev.To,
		CC:         ev.CC,
		ReceivedAt: receivedAt,
	}

	if strings.EqualFold(ev.Body.ContentType, "html") {
		e.BodyHTML = ev.Body.Content
	} else {
		e.BodyText = ev.Body.Content
	}

	return e, nil
}
