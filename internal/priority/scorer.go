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

// Package priority computes email priority scores. Five independent 0-100
// sub-scores (sender importance, keyword urgency, deadline proximity,
// thread context, recency) combine through configurable weights into one
// 0-100 score, which maps deterministically to a priority level. The
// scorer reads no clocks and looks nothing up: evaluation time and thread
// metadata arrive in the Context, so every score is reproducible from its
// inputs alone.
package priority

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bcem/triage/internal/models"
	"github.com/bcem/triage/internal/textutil"
)

// weightTolerance is how far the weight sum may drift from 1.0 before the
// configuration is rejected.
const weightTolerance = 1e-6

// Weights distributes the five sub-scores into the combined score.
// They must sum to 1.0 within tolerance; a bad sum is rejected rather than
// silently renormalized, so configuration mistakes surface early.
type Weights struct {
	Sender   float64 `yaml:"sender"`
	Keyword  float64 `yaml:"keyword"`
	Deadline float64 `yaml:"deadline"`
	Thread   float64 `yaml:"thread"`
	Recency  float64 `yaml:"recency"`
}

// DefaultWeights returns the documented default weighting.
func DefaultWeights() Weights {
	return Weights{
		Sender:   0.30,
		Keyword:  0.25,
		Deadline: 0.25,
		Thread:   0.10,
		Recency:  0.10,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Sender + w.Keyword + w.Deadline + w.Thread + w.Recency
}

// KeywordTier is one urgency tier: a word list and the sub-score awarded
// when any of its words appears in subject or body.
type KeywordTier struct {
	Words []string `yaml:"words"`
	Score float64  `yaml:"score"`
}

// DefaultKeywordTiers returns the built-in urgency keyword table.
func DefaultKeywordTiers() map[string]KeywordTier {
	return map[string]KeywordTier{
		"critical": {
			Words: []string{"critical", "emergency"},
			Score: 100,
		},
		"urgent": {
			Words: []string{"urgent", "asap", "immediate"},
			Score: 90,
		},
		"deadline": {
			Words: []string{"deadline", "action required", "time sensitive", "today", "now"},
			Score: 80,
		},
		"important": {
			Words: []string{"important", "please review"},
			Score: 60,
		},
	}
}

// Options configures a Scorer. Nil Weights and nil KeywordTiers fall back
// to the defaults; a supplied weight set with a bad sum is an error, even
// an all-zero one.
type Options struct {
	// VIPSenders maps sender addresses to an importance override (0-100).
	VIPSenders map[string]float64
	// WorkDomains are sender domains scored as internal mail.
	WorkDomains []string
	Weights     *Weights
	// KeywordTiers replaces the default urgency keyword table when set.
	KeywordTiers map[string]KeywordTier
}

// Context supplies everything the scorer needs beyond the email itself.
// It is injected by the caller so the scorer has no hidden dependency on a
// thread store or a system clock.
type Context struct {
	// Now is the evaluation instant for the recency sub-score.
	Now time.Time
	// ThreadMessageCount is the size of the email's thread, 0 or 1 for a
	// standalone message.
	ThreadMessageCount int
	// ThreadLastMessageAt is the time of the thread's latest activity.
	ThreadLastMessageAt time.Time
}

// Scorer computes priority scores. Safe for concurrent use; it holds only
// immutable configuration.
type Scorer struct {
	vip         map[string]float64
	workDomains map[string]bool
	weights     Weights
	tiers       []KeywordTier // words pre-lowercased
}

// NewScorer validates options and builds a scorer. Weights that do not sum
// to 1.0 within tolerance are rejected with models.ErrInvalidInput.
func NewScorer(opts Options) (*Scorer, error) {
	weights := DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	if diff := math.Abs(weights.Sum() - 1.0); diff > weightTolerance {
		return nil, fmt.Errorf("priority weights sum to %v, want 1.0: %w", weights.Sum(), models.ErrInvalidInput)
	}

	tierTable := opts.KeywordTiers
	if tierTable == nil {
		tierTable = DefaultKeywordTiers()
	}
	tiers := make([]KeywordTier, 0, len(tierTable))
	for name, tier := range tierTable {
		if tier.Score < 0 || tier.Score > 100 {
			return nil, fmt.Errorf("keyword tier %q score %v outside [0,100]: %w", name, tier.Score, models.ErrInvalidInput)
		}
		words := make([]string, len(tier.Words))
		for i, w := range tier.Words {
			words[i] = strings.ToLower(w)
		}
		tiers = append(tiers, KeywordTier{Words: words, Score: tier.Score})
	}

	s := &Scorer{
		vip:         make(map[string]float64, len(opts.VIPSenders)),
		workDomains: make(map[string]bool, len(opts.WorkDomains)),
		weights:     weights,
		tiers:       tiers,
	}
	for addr, importance := range opts.VIPSenders {
		s.vip[strings.ToLower(addr)] = clamp(importance, 0, 100)
	}
	for _, d := range opts.WorkDomains {
		s.workDomains[strings.ToLower(d)] = true
	}
	return s, nil
}

// Score computes the email's priority score (0-100, one decimal) and its
// level. Total over well-formed input: missing deadlines, unknown senders
// and empty bodies degrade to low sub-scores, never errors.
func (s *Scorer) Score(e *models.Email, ctx Context) (float64, models.PriorityLevel) {
	total := s.senderScore(e)*s.weights.Sender +
		s.keywordScore(e)*s.weights.Keyword +
		s.deadlineScore(e)*s.weights.Deadline +
		threadScore(e, ctx)*s.weights.Thread +
		recencyScore(e, ctx)*s.weights.Recency

	score := math.Round(clamp(total, 0, 100)*10) / 10
	return score, models.LevelForScore(score)
}

// senderScore: VIP override if configured, 60 for work-domain senders,
// 40 for everyone else.
func (s *Scorer) senderScore(e *models.Email) float64 {
	if importance, ok := s.vip[strings.ToLower(e.Sender.Address)]; ok {
		return importance
	}
	if s.workDomains[e.Sender.Domain()] {
		return 60
	}
	return 40
}

// keywordScore scans subject+body against the tier table and returns the
// highest matching tier's score, 0 when nothing matches.
func (s *Scorer) keywordScore(e *models.Email) float64 {
	text := strings.ToLower(e.Subject + " " + e.BodyText)
	best := 0.0
	for _, tier := range s.tiers {
		if tier.Score <= best {
			continue
		}
		for _, w := range tier.Words {
			if strings.Contains(text, w) {
				best = tier.Score
				break
			}
		}
	}
	return best
}

// deadlineScore maps the delta between an extracted deadline and the
// email's receipt time onto fixed breakpoints. No deadline found scores 0.
func (s *Scorer) deadlineScore(e *models.Email) float64 {
	deadline, ok := textutil.Deadline(e.Subject+" "+e.BodyText, e.ReceivedAt)
	if !ok {
		return 0
	}
	until := deadline.Sub(e.ReceivedAt)
	switch {
	case until < 0:
		return 100 // past due
	case until < 4*time.Hour:
		return 95
	case until < 24*time.Hour:
		return 80
	case until < 48*time.Hour:
		return 60
	case until < 7*24*time.Hour:
		return 40
	default:
		return 0
	}
}

// threadScore: single-message threads sit at 50; active threads earn a
// bonus for recent activity relative to the email's receipt time.
func threadScore(e *models.Email, ctx Context) float64 {
	if ctx.ThreadMessageCount <= 1 {
		return 50
	}
	score := 50.0
	if !ctx.ThreadLastMessageAt.IsZero() {
		idle := e.ReceivedAt.Sub(ctx.ThreadLastMessageAt)
		switch {
		case idle < 2*time.Hour:
			score += 30
		case idle < 24*time.Hour:
			score += 20
		}
	}
	return clamp(score, 0, 100)
}

// recencyScore steps down with the email's age at evaluation time, to a
// floor of 10.
func recencyScore(e *models.Email, ctx Context) float64 {
	age := ctx.Now.Sub(e.ReceivedAt)
	switch {
	case age < time.Hour:
		return 100
	case age < 4*time.Hour:
		return 80
	case age < 24*time.Hour:
		return 60
	case age < 72*time.Hour:
		return 40
	case age < 7*24*time.Hour:
		return 20
	default:
		return 10
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
