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

package classify

import (
	"regexp"
	"strings"

	"github.com/bcem/triage/internal/textutil"
)

const (
	maxEntities    = 10
	maxActionItems = 10
	itemCharLimit  = 200
)

var (
	// Capitalized multi-word runs are candidate names and organizations.
	entityPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)

	// "by March 15" / "due Friday 3pm" style deadline phrases.
	deadlinePhrase = regexp.MustCompile(`(?i)\b(?:by|due|before)\s+[A-Za-z0-9][^.!?\n,]{2,40}`)

	// "Alice: send the draft" lines.
	colonAction = regexp.MustCompile(`(?m)^\s*([A-Z][a-z]+)\s*:\s*(\S[^\n]*)$`)

	// "Alice will prepare the deck", "Bob should review it".
	verbAction = regexp.MustCompile(`\b([A-Z][a-z]+)\s+(will|should|must|needs? to)\s+([^.!?\n]+)`)
)

// extractEntities pulls candidate names/organizations and deadline phrases
// out of the body. Heuristic pattern matching with no recall guarantee.
func extractEntities(body string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := textutil.NormalizeKey(s)
		if s == "" || seen[key] || len(out) >= maxEntities {
			return
		}
		seen[key] = true
		out = append(out, textutil.Truncate(s, itemCharLimit))
	}

	for _, m := range entityPattern.FindAllString(body, -1) {
		add(m)
	}
	for _, m := range deadlinePhrase.FindAllString(body, -1) {
		add(m)
	}
	return out
}

// extractActionItems pulls "Name: verb phrase" lines and "Name will <verb>"
// sentences out of the body.
func extractActionItems(body string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := textutil.NormalizeKey(s)
		if len(s) < 4 || seen[key] || len(out) >= maxActionItems {
			return
		}
		seen[key] = true
		out = append(out, textutil.Truncate(s, itemCharLimit))
	}

	for _, m := range colonAction.FindAllStringSubmatch(body, -1) {
		add(m[1] + ": " + m[2])
	}
	for _, m := range verbAction.FindAllStringSubmatch(body, -1) {
		add(m[0])
	}
	return out
}
