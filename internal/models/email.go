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

// Package models defines the data structures shared across the triage service.
package models

import (
	"strings"
	"time"
)

// EmailAddress represents a sender or recipient with an address and optional
// display name. Two addresses identify the same participant when their
// address parts match case-insensitively; the display name carries no
// identity.
type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// Equal reports whether two addresses identify the same mailbox.
func (a EmailAddress) Equal(b EmailAddress) bool {
	return strings.EqualFold(a.Address, b.Address)
}

// Domain returns the part of the address after '@', lowercased.
// Returns "" for malformed addresses.
func (a EmailAddress) Domain() string {
	at := strings.LastIndex(a.Address, "@")
	if at < 0 || at == len(a.Address)-1 {
		return ""
	}
	return strings.ToLower(a.Address[at+1:])
}

// LocalPart returns the part of the address before '@', lowercased.
func (a EmailAddress) LocalPart() string {
	at := strings.LastIndex(a.Address, "@")
	if at < 0 {
		return strings.ToLower(a.Address)
	}
	return strings.ToLower(a.Address[:at])
}

// Email is the unit of classification and scoring. The ingestion layer
// populates identity, envelope, content and temporal fields; the triage
// pipeline fills in the derived fields.
type Email struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`

	Subject    string         `json:"subject"`
	Sender     EmailAddress   `json:"sender"`
	Recipients []EmailAddress `json:"recipients"`
	CC         []EmailAddress `json:"cc,omitempty"`
	BCC        []EmailAddress `json:"bcc,omitempty"`

	BodyText string `json:"body_text"`
	// BodyHTML is carried for completeness but never consulted by the
	// pipeline; classification and compression work on BodyText only.
	BodyHTML string `json:"body_html,omitempty"`

	ReceivedAt time.Time `json:"received_at"`

	// Derived fields, written by the classifier.
	Category         Category `json:"category,omitempty"`
	DetectedIntent   Intent   `json:"detected_intent,omitempty"`
	RequiresResponse bool     `json:"requires_response"`
	Summary          string   `json:"summary,omitempty"`
	KeyEntities      []string `json:"key_entities,omitempty"`
	ActionItems      []string `json:"action_items,omitempty"`

	// Derived fields, written by the priority scorer.
	PriorityScore float64       `json:"priority_score"`
	PriorityLevel PriorityLevel `json:"priority_level,omitempty"`
}

// Processed reports whether the email has been through classify + score.
func (e *Email) Processed() bool {
	return e.Category != "" && e.PriorityLevel != ""
}
