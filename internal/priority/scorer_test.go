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

package priority

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bcem/triage/internal/models"
)

var received = time.Date(2026, 3, 9, 21, 0, 0, 0, time.UTC)

func newScorer(t *testing.T, opts Options) *Scorer {
	t.Helper()
	s, err := NewScorer(opts)
	if err != nil {
		t.Fatalf("NewScorer() error = %v", err)
	}
	return s
}

func email(sender, subject, body string) *models.Email {
	return &models.Email{
		ID:         "e1",
		Subject:    subject,
		Sender:     models.EmailAddress{Address: sender},
		BodyText:   body,
		ReceivedAt: received,
	}
}

func TestNewScorerRejectsBadWeights(t *testing.T) {
	_, err := NewScorer(Options{
		Weights: &Weights{Sender: 0.5, Keyword: 0.5, Deadline: 0.1},
	})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("NewScorer(sum 1.1) error = %v, want ErrInvalidInput", err)
	}
}

func TestNewScorerRejectsZeroWeights(t *testing.T) {
	// Supplied weights are validated as given. Only a nil Weights field
	// means "use the defaults".
	_, err := NewScorer(Options{Weights: &Weights{}})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("NewScorer(sum 0) error = %v, want ErrInvalidInput", err)
	}
}

func TestNewScorerRejectsBadTierScore(t *testing.T) {
	_, err := NewScorer(Options{
		KeywordTiers: map[string]KeywordTier{
			"broken": {Words: []string{"x"}, Score: 120},
		},
	})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("NewScorer(tier score 120) error = %v, want ErrInvalidInput", err)
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	if got := DefaultWeights().Sum(); math.Abs(got-1.0) > weightTolerance {
		t.Fatalf("DefaultWeights().Sum() = %v, want 1.0", got)
	}
}

// An unknown sender's email due by end of day tomorrow, received at 21:00,
// has a deadline 20 hours out: sub-score 80, worth 20 points at default
// weights. The same email without the deadline drops by exactly that much.
func TestDeadlineContribution(t *testing.T) {
	s := newScorer(t, Options{})
	ctx := Context{Now: received.Add(30 * time.Minute)}

	withDeadline := email("someone@other.org", "Report", "The report is due by EOD tomorrow.")
	without := email("someone@other.org", "Report", "The report draft is attached.")

	got, level := s.Score(withDeadline, ctx)
	if got != 47.0 {
		t.Errorf("Score(with deadline) = %v, want 47.0", got)
	}
	if level != models.PriorityLow {
		t.Errorf("level = %q, want LOW", level)
	}

	gotWithout, _ := s.Score(without, ctx)
	if gotWithout != 27.0 {
		t.Errorf("Score(without deadline) = %v, want 27.0", gotWithout)
	}
	if diff := got - gotWithout; diff != 20.0 {
		t.Errorf("deadline contribution = %v, want 20.0", diff)
	}
}

func TestScoreBoundsAndIdempotence(t *testing.T) {
	s := newScorer(t, Options{
		VIPSenders: map[string]float64{"ceo@company.com": 100},
	})
	ctx := Context{Now: received.Add(10 * time.Minute)}

	e := email("ceo@company.com", "CRITICAL: deadline: 3/1/2026", "Emergency, action required now.")
	first, level := s.Score(e, ctx)
	if first < 0 || first > 100 {
		t.Fatalf("Score() = %v, outside [0,100]", first)
	}
	if first != 95.0 {
		t.Errorf("Score() = %v, want 95.0", first)
	}
	if level != models.PriorityCritical {
		t.Errorf("level = %q, want CRITICAL", level)
	}

	second, _ := s.Score(e, ctx)
	if second != first {
		t.Errorf("Score() not idempotent: %v then %v", first, second)
	}
}

func TestScoreRoundedToOneDecimal(t *testing.T) {
	s := newScorer(t, Options{})
	e := email("someone@other.org", "Hello", "Just checking in.")

	got, _ := s.Score(e, Context{Now: received.Add(5 * time.Hour)})
	if math.Round(got*10) != got*10 {
		t.Errorf("Score() = %v, want one decimal place", got)
	}
}

func TestSenderScore(t *testing.T) {
	s := newScorer(t, Options{
		VIPSenders:  map[string]float64{"VIP@Company.com": 90},
		WorkDomains: []string{"company.com"},
	})

	tests := []struct {
		sender string
		want   float64
	}{
		{"vip@company.com", 90},
		{"colleague@company.com", 60},
		{"stranger@other.org", 40},
	}
	for _, tt := range tests {
		if got := s.senderScore(email(tt.sender, "", "")); got != tt.want {
			t.Errorf("senderScore(%s) = %v, want %v", tt.sender, got, tt.want)
		}
	}
}

func TestKeywordScoreHighestTierWins(t *testing.T) {
	s := newScorer(t, Options{})

	tests := []struct {
		name    string
		subject string
		body    string
		want    float64
	}{
		{"critical", "Emergency maintenance", "", 100},
		{"urgent and critical picks critical", "urgent", "this is critical", 100},
		{"urgent only", "Please reply ASAP", "", 90},
		{"deadline tier", "Action required", "", 80},
		{"important tier", "Please review the draft", "", 60},
		{"no keywords", "Lunch", "See you at noon?", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.keywordScore(email("a@b.c", tt.subject, tt.body)); got != tt.want {
				t.Errorf("keywordScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeadlineScoreBuckets(t *testing.T) {
	s := newScorer(t, Options{})
	morning := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		body string
		want float64
	}{
		{"past due", "Original deadline: 3/1/2026 was missed.", 100},
		{"within four hours", "Submit before 10:30 am please.", 95},
		{"within a day", "Everything is due by EOD today.", 80},
		{"within two days", "Final deadline: 3/11/2026 for submissions.", 60},
		{"within a week", "Slides needed by March 12 at the latest.", 40},
		{"far out", "Planning deadline: 6/30/2026 announced.", 0},
		{"no deadline", "No dates mentioned here.", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := email("a@b.c", "Schedule", tt.body)
			e.ReceivedAt = morning
			if got := s.deadlineScore(e); got != tt.want {
				t.Errorf("deadlineScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThreadScore(t *testing.T) {
	e := email("a@b.c", "", "")

	tests := []struct {
		name string
		ctx  Context
		want float64
	}{
		{"standalone", Context{ThreadMessageCount: 1}, 50},
		{"active within two hours", Context{ThreadMessageCount: 5, ThreadLastMessageAt: received.Add(-time.Hour)}, 80},
		{"active within a day", Context{ThreadMessageCount: 5, ThreadLastMessageAt: received.Add(-10 * time.Hour)}, 70},
		{"stale thread", Context{ThreadMessageCount: 5, ThreadLastMessageAt: received.Add(-30 * time.Hour)}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := threadScore(e, tt.ctx); got != tt.want {
				t.Errorf("threadScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecencyScore(t *testing.T) {
	e := email("a@b.c", "", "")

	tests := []struct {
		age  time.Duration
		want float64
	}{
		{30 * time.Minute, 100},
		{2 * time.Hour, 80},
		{12 * time.Hour, 60},
		{48 * time.Hour, 40},
		{5 * 24 * time.Hour, 20},
		{30 * 24 * time.Hour, 10},
	}
	for _, tt := range tests {
		ctx := Context{Now: received.Add(tt.age)}
		if got := recencyScore(e, ctx); got != tt.want {
			t.Errorf("recencyScore(age %v) = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestLevelBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  models.PriorityLevel
	}{
		{100, models.PriorityCritical},
		{85.0, models.PriorityCritical},
		{84.9, models.PriorityHigh},
		{70.0, models.PriorityHigh},
		{69.9, models.PriorityMedium},
		{50.0, models.PriorityMedium},
		{49.9, models.PriorityLow},
		{30.0, models.PriorityLow},
		{29.9, models.PriorityMinimal},
		{0, models.PriorityMinimal},
	}
	for _, tt := range tests {
		if got := models.LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
