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

// Package compress condenses multi-message email threads into a compact
// structured summary: key decisions, open questions, per-person action
// items and a timeline, replacing the raw message bodies. The pipeline is
// clean → extract → deduplicate → render → token accounting, near-linear
// in total body size. Message order is chronological throughout, which
// makes first-occurrence tie-breaks deterministic.
package compress

import (
	"fmt"
	"strings"

	"github.com/bcem/triage/internal/models"
	"github.com/bcem/triage/internal/textutil"
)

const (
	maxDecisions        = 10
	maxQuestions        = 10
	maxTimeline         = 15
	perMessageDecisions = 5
	perMessageQuestions = 3
	perPersonRendered   = 5
	entryCharLimit      = 200
	timelineCharLimit   = 150
	minSentenceLen      = 10
)

// Options configures a Compressor. Zero values fall back to the documented
// defaults.
type Options struct {
	// SignatureMarkers are bare sign-off lines that open a signature
	// block ("best regards", "thanks").
	SignatureMarkers []string
	// GreetingMarkers are salutation words stripped from leading lines.
	GreetingMarkers []string
	// DecisionMarkers are phrases that mark a sentence as a decision or
	// committed action.
	DecisionMarkers []string
	// AnswerOverlapThreshold is the shared-token ratio above which a
	// question counts as answered by a later message. Approximate by
	// nature; tune per corpus.
	AnswerOverlapThreshold float64
}

// DefaultSignatureMarkers returns the built-in sign-off lexicon.
func DefaultSignatureMarkers() []string {
	return []string{
		"best regards", "kind regards", "regards", "best",
		"thanks", "thank you", "cheers", "talk soon", "take care",
	}
}

// DefaultGreetingMarkers returns the built-in salutation lexicon.
func DefaultGreetingMarkers() []string {
	return []string{"hi", "hello", "hey", "dear", "good morning", "good afternoon"}
}

// DefaultDecisionMarkers returns the built-in decision/commitment lexicon.
// It covers explicit decision language and the imperative requests that
// commit someone to an action.
func DefaultDecisionMarkers() []string {
	return []string{
		"we decided", "we agreed", "we chose", "we selected",
		"agreed to", "will proceed with", "decision:", "going to",
		"please review", "please send", "please confirm",
		"please update", "please complete", "let's go with",
	}
}

// DefaultAnswerOverlapThreshold is the default shared-token ratio for
// answered-question detection.
const DefaultAnswerOverlapThreshold = 0.6

// Compressor condenses threads. Safe for concurrent use across different
// threads; it holds only immutable configuration.
type Compressor struct {
	signatureMarkers []string
	greetingMarkers  []string
	decisionMarkers  []string
	overlapThreshold float64
}

// NewCompressor builds a compressor, filling unset options with defaults.
func NewCompressor(opts Options) *Compressor {
	c := &Compressor{
		signatureMarkers: lowered(opts.SignatureMarkers),
		greetingMarkers:  lowered(opts.GreetingMarkers),
		decisionMarkers:  lowered(opts.DecisionMarkers),
		overlapThreshold: opts.AnswerOverlapThreshold,
	}
	if c.signatureMarkers == nil {
		c.signatureMarkers = DefaultSignatureMarkers()
	}
	if c.greetingMarkers == nil {
		c.greetingMarkers = DefaultGreetingMarkers()
	}
	if c.decisionMarkers == nil {
		c.decisionMarkers = DefaultDecisionMarkers()
	}
	if c.overlapThreshold <= 0 {
		c.overlapThreshold = DefaultAnswerOverlapThreshold
	}
	return c
}

// lowered returns a lowercased copy, leaving the caller's slice untouched.
func lowered(markers []string) []string {
	if markers == nil {
		return nil
	}
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = strings.ToLower(m)
	}
	return out
}

// Compress populates the thread's compression fields. A thread with zero
// messages is rejected with models.ErrInvalidInput. Message order in the
// input does not matter: the compressor sorts chronologically before
// extraction, so a scrambled thread compresses identically to a sorted
// one. Re-running on the same thread produces identical output.
func (c *Compressor) Compress(t *models.EmailThread) error {
	if t == nil || len(t.Messages) == 0 {
		return fmt.Errorf("compress: thread has no messages: %w", models.ErrInvalidInput)
	}

	t.Normalize()

	// Token accounting starts from the raw bodies.
	originalTokens := 0
	for _, m := range t.Messages {
		originalTokens += textutil.CountTokens(m.BodyText)
	}

	cleaned := make([]string, len(t.Messages))
	for i, m := range t.Messages {
		cleaned[i] = c.cleanBody(m.BodyText)
	}

	ex := c.extract(t, cleaned)

	summary := render(ex)
	compressedTokens := textutil.CountTokens(summary)

	t.CompressedSummary = summary
	t.OriginalTokenCount = originalTokens
	t.CompressedTokenCount = compressedTokens
	t.CompressionRatio = compressionRatio(originalTokens, compressedTokens)
	t.KeyDecisions = ex.decisions
	t.OpenQuestions = ex.openQuestions()
	t.ActionItemsByPerson = ex.itemsByPerson()
	t.Timeline = ex.timeline

	return nil
}

// compressionRatio returns 1 - compressed/original clamped to [0,1],
// and 0 for an empty original.
func compressionRatio(original, compressed int) float64 {
	if original == 0 {
		return 0
	}
	ratio := 1 - float64(compressed)/float64(original)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// render lays the extracted facts out as a deterministic four-section
// summary. Empty sections are omitted entirely.
func render(ex *extraction) string {
	var b strings.Builder

	if len(ex.decisions) > 0 {
		b.WriteString("KEY DECISIONS:\n")
		for i, d := range ex.decisions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, d)
		}
	}

	if open := ex.openQuestions(); len(open) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("OPEN QUESTIONS:\n")
		for i, q := range open {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
	}

	if len(ex.people) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("ACTION ITEMS:\n")
		for _, person := range ex.people {
			fmt.Fprintf(&b, "%s:\n", person)
			items := ex.items[person]
			if len(items) > perPersonRendered {
				items = items[:perPersonRendered]
			}
			for _, item := range items {
				fmt.Fprintf(&b, "  - %s\n", item)
			}
		}
	}

	if len(ex.timeline) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("TIMELINE:\n")
		for _, ev := range ex.timeline {
			fmt.Fprintf(&b, "  - [%s] %s\n", ev.At.UTC().Format("2006-01-02 15:04"), ev.Description)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
