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
	"sort"
	"strings"
	"time"
)

// TimelineEvent is one entry in a compressed thread's timeline.
type TimelineEvent struct {
	At          time.Time `json:"at"`
	Description string    `json:"description"`
}

// EmailThread is a conversation: an ordered set of emails sharing a thread
// identity. Messages are kept chronological by ReceivedAt. The compression
// fields are populated only after the thread compressor has run.
type EmailThread struct {
	ThreadID     string         `json:"thread_id"`
	Subject      string         `json:"subject"`
	Participants []EmailAddress `json:"participants"`
	Messages     []*Email       `json:"messages"`

	MessageCount   int       `json:"message_count"`
	FirstMessageAt time.Time `json:"first_message_at,omitzero"`
	LastMessageAt  time.Time `json:"last_message_at,omitzero"`

	// Derived fields, written by the thread compressor.
	CompressedSummary    string              `json:"compressed_summary,omitempty"`
	OriginalTokenCount   int                 `json:"original_token_count"`
	CompressedTokenCount int                 `json:"compressed_token_count"`
	CompressionRatio     float64             `json:"compression_ratio"`
	KeyDecisions         []string            `json:"key_decisions,omitempty"`
	OpenQuestions        []string            `json:"open_questions,omitempty"`
	ActionItemsByPerson  map[string][]string `json:"action_items_by_person,omitempty"`
	Timeline             []TimelineEvent     `json:"timeline,omitempty"`
}

// NewThread builds a thread from its messages: sorts them chronologically,
// derives the subject from the first message (reply/forward prefixes
// stripped) and collects the participant union.
func NewThread(threadID string, messages []*Email) *EmailThread {
	t := &EmailThread{ThreadID: threadID, Messages: messages}
	t.Normalize()
	if len(t.Messages) > 0 {
		t.Subject = NormalizeSubject(t.Messages[0].Subject)
	}
	return t
}

// Normalize sorts messages chronologically and refreshes the counters and
// participant union. Safe to call repeatedly.
func (t *EmailThread) Normalize() {
	sort.SliceStable(t.Messages, func(i, j int) bool {
		return t.Messages[i].ReceivedAt.Before(t.Messages[j].ReceivedAt)
	})
	t.MessageCount = len(t.Messages)
	if t.MessageCount > 0 {
		t.FirstMessageAt = t.Messages[0].ReceivedAt
		t.LastMessageAt = t.Messages[t.MessageCount-1].ReceivedAt
	}

	seen := make(map[string]bool, len(t.Participants))
	for _, p := range t.Participants {
		seen[strings.ToLower(p.Address)] = true
	}
	for _, m := range t.Messages {
		for _, p := range append([]EmailAddress{m.Sender}, m.Recipients...) {
			key := strings.ToLower(p.Address)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			t.Participants = append(t.Participants, p)
		}
	}
}

// AddMessage appends a message and keeps the thread ordered.
func (t *EmailThread) AddMessage(m *Email) {
	t.Messages = append(t.Messages, m)
	t.Normalize()
	if t.Subject == "" {
		t.Subject = NormalizeSubject(t.Messages[0].Subject)
	}
}

// Compressed reports whether the compressor has produced a summary.
func (t *EmailThread) Compressed() bool {
	return t.CompressedSummary != ""
}

// subjectPrefixes are reply/forward markers stripped when deriving a
// thread subject.
var subjectPrefixes = []string{"re:", "fwd:", "fw:"}

// NormalizeSubject strips leading reply/forward prefixes, repeatedly, so
// "Re: Re: Fwd: Budget" becomes "Budget".
func NormalizeSubject(subject string) string {
	s := strings.TrimSpace(subject)
	for {
		stripped := false
		lower := strings.ToLower(s)
		for _, p := range subjectPrefixes {
			if strings.HasPrefix(lower, p) {
				s = strings.TrimSpace(s[len(p):])
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}
