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

package compress

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bcem/triage/internal/models"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func message(id string, at time.Time, sender, body string) *models.Email {
	return &models.Email{
		ID:         id,
		ThreadID:   "thread-1",
		Subject:    "Budget planning",
		Sender:     models.EmailAddress{Address: sender},
		BodyText:   body,
		ReceivedAt: at,
	}
}

func TestCompressEmptyThread(t *testing.T) {
	c := NewCompressor(Options{})

	err := c.Compress(&models.EmailThread{ThreadID: "thread-1"})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("Compress(empty) error = %v, want ErrInvalidInput", err)
	}
}

func TestCompressRepeatedMessages(t *testing.T) {
	c := NewCompressor(Options{})

	var msgs []*models.Email
	for i := 0; i < 50; i++ {
		msgs = append(msgs, message(
			fmt.Sprintf("m%02d", i),
			base.Add(time.Duration(i)*time.Minute),
			"alice@corp.com",
			"Please review the attached document by Friday.",
		))
	}
	thread := models.NewThread("thread-1", msgs)

	if err := c.Compress(thread); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if thread.OriginalTokenCount != 350 {
		t.Errorf("OriginalTokenCount = %d, want 350", thread.OriginalTokenCount)
	}
	if thread.CompressionRatio < 0.85 {
		t.Errorf("CompressionRatio = %.3f, want >= 0.85", thread.CompressionRatio)
	}
	if len(thread.KeyDecisions) != 1 {
		t.Fatalf("KeyDecisions = %v, want exactly one entry", thread.KeyDecisions)
	}
	if want := "Please review the attached document by Friday."; thread.KeyDecisions[0] != want {
		t.Errorf("KeyDecisions[0] = %q, want %q", thread.KeyDecisions[0], want)
	}
	if len(thread.Timeline) != 1 {
		t.Errorf("Timeline has %d entries, want 1", len(thread.Timeline))
	}
}

func TestCompressOrderIndependence(t *testing.T) {
	c := NewCompressor(Options{})

	build := func(order []int) *models.EmailThread {
		bodies := []string{
			"We decided to go with the Q3 vendor proposal.",
			"Can we move the kickoff to Thursday afternoon?",
			"Yes, we can move the kickoff to Thursday afternoon.",
		}
		var msgs []*models.Email
		for _, i := range order {
			msgs = append(msgs, message(
				fmt.Sprintf("m%d", i),
				base.Add(time.Duration(i)*time.Hour),
				"alice@corp.com",
				bodies[i],
			))
		}
		return models.NewThread("thread-1", msgs)
	}

	sorted := build([]int{0, 1, 2})
	scrambled := build([]int{2, 0, 1})

	if err := c.Compress(sorted); err != nil {
		t.Fatalf("Compress(sorted) error = %v", err)
	}
	if err := c.Compress(scrambled); err != nil {
		t.Fatalf("Compress(scrambled) error = %v", err)
	}

	if diff := cmp.Diff(sorted.CompressedSummary, scrambled.CompressedSummary); diff != "" {
		t.Errorf("summary mismatch (-sorted +scrambled):\n%s", diff)
	}
	if diff := cmp.Diff(sorted.Timeline, scrambled.Timeline); diff != "" {
		t.Errorf("timeline mismatch (-sorted +scrambled):\n%s", diff)
	}
}

func TestCompressAnsweredQuestions(t *testing.T) {
	c := NewCompressor(Options{})

	thread := models.NewThread("thread-1", []*models.Email{
		message("m1", base, "alice@corp.com",
			"Can we move the budget review to Thursday afternoon?"),
		message("m2", base.Add(time.Hour), "bob@corp.com",
			"Yes, moving the budget review to Thursday afternoon works for me. Who is presenting the revenue slides?"),
	})

	if err := c.Compress(thread); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	for _, q := range thread.OpenQuestions {
		if strings.Contains(q, "budget review") {
			t.Errorf("answered question still open: %q", q)
		}
	}
	found := false
	for _, q := range thread.OpenQuestions {
		if strings.Contains(q, "revenue slides") {
			found = true
		}
	}
	if !found {
		t.Errorf("OpenQuestions = %v, want the revenue slides question", thread.OpenQuestions)
	}
}

func TestCompressActionItems(t *testing.T) {
	c := NewCompressor(Options{})

	thread := models.NewThread("thread-1", []*models.Email{
		{
			ID:         "m1",
			ThreadID:   "thread-1",
			Subject:    "Forecast",
			Sender:     models.EmailAddress{Address: "alice@corp.com", Name: "Alice Chen"},
			BodyText:   "Alice will send the updated forecast tomorrow.\nBob: prepare the slide deck",
			ReceivedAt: base,
		},
	})

	if err := c.Compress(thread); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	items, ok := thread.ActionItemsByPerson["Alice Chen"]
	if !ok || len(items) != 1 {
		t.Fatalf("ActionItemsByPerson[Alice Chen] = %v, want one item", items)
	}
	if !strings.Contains(items[0], "send the updated forecast") {
		t.Errorf("item = %q, want forecast task", items[0])
	}
	if _, ok := thread.ActionItemsByPerson["Bob"]; !ok {
		t.Errorf("ActionItemsByPerson = %v, want a Bob entry", thread.ActionItemsByPerson)
	}
}

func TestCompressIdempotent(t *testing.T) {
	c := NewCompressor(Options{})

	thread := models.NewThread("thread-1", []*models.Email{
		message("m1", base, "alice@corp.com",
			"We decided to ship on Friday. Can someone confirm the release notes?"),
		message("m2", base.Add(time.Hour), "bob@corp.com",
			"I will handle the rollout checklist."),
	})

	if err := c.Compress(thread); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	first := thread.CompressedSummary

	if err := c.Compress(thread); err != nil {
		t.Fatalf("Compress() second run error = %v", err)
	}
	if thread.CompressedSummary != first {
		t.Errorf("second run changed summary:\nfirst:  %q\nsecond: %q", first, thread.CompressedSummary)
	}
}

func TestCleanBody(t *testing.T) {
	c := NewCompressor(Options{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "strips quoted reply",
			body: "Sounds good to me.\n\nOn Tue, Mar 10, 2026 at 9:00 AM Alice Chen wrote:\n> Can we meet Thursday?\n> Let me know.",
			want: "Sounds good to me.",
		},
		{
			name: "strips signature",
			body: "The report is attached.\n\nBest regards,\nAlice Chen\nVP of Finance",
			want: "The report is attached.",
		},
		{
			name: "strips greeting",
			body: "Hi Bob,\n\nThe numbers look right.",
			want: "The numbers look right.",
		},
		{
			name: "keeps signature-only body",
			body: "Thanks,\nAlice",
			want: "Thanks,\nAlice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.cleanBody(tt.body); got != tt.want {
				t.Errorf("cleanBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCompressorLeavesOptionsUntouched(t *testing.T) {
	opts := Options{
		SignatureMarkers: []string{"Best Regards", "Thanks"},
		GreetingMarkers:  []string{"Hi"},
		DecisionMarkers:  []string{"We Decided"},
	}
	c := NewCompressor(opts)

	if got, want := opts.SignatureMarkers[0], "Best Regards"; got != want {
		t.Errorf("SignatureMarkers[0] = %q, want %q", got, want)
	}
	if got, want := opts.GreetingMarkers[0], "Hi"; got != want {
		t.Errorf("GreetingMarkers[0] = %q, want %q", got, want)
	}
	if got, want := opts.DecisionMarkers[0], "We Decided"; got != want {
		t.Errorf("DecisionMarkers[0] = %q, want %q", got, want)
	}
	if got, want := c.signatureMarkers[0], "best regards"; got != want {
		t.Errorf("signatureMarkers[0] = %q, want %q", got, want)
	}
}

func TestCompressionRatio(t *testing.T) {
	tests := []struct {
		original, compressed int
		want                 float64
	}{
		{100, 20, 0.8},
		{100, 150, 0},
		{0, 10, 0},
		{100, 0, 1},
	}
	for _, tt := range tests {
		if got := compressionRatio(tt.original, tt.compressed); got != tt.want {
			t.Errorf("compressionRatio(%d, %d) = %v, want %v", tt.original, tt.compressed, got, tt.want)
		}
	}
}
