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

package config

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bcem/triage/internal/models"
	"github.com/bcem/triage/internal/priority"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if got := cfg.PriorityWeights.Sum(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("default weights sum = %v, want 1.0", got)
	}
	if cfg.AnswerOverlapThreshold != 0.6 {
		t.Errorf("AnswerOverlapThreshold = %v, want 0.6", cfg.AnswerOverlapThreshold)
	}
	if _, err := priority.NewScorer(cfg.ScorerOptions()); err != nil {
		t.Errorf("NewScorer(defaults) error = %v", err)
	}
}

func TestParsePartialOverride(t *testing.T) {
	data := []byte(`
work_domains: [acme.io]
vip_senders:
  ceo@acme.io: 100
answer_overlap_threshold: 0.5
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if diff := cmp.Diff([]string{"acme.io"}, cfg.WorkDomains); diff != "" {
		t.Errorf("WorkDomains mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.VIPSenders["ceo@acme.io"]; got != 100 {
		t.Errorf("VIPSenders[ceo@acme.io] = %v, want 100", got)
	}
	if cfg.AnswerOverlapThreshold != 0.5 {
		t.Errorf("AnswerOverlapThreshold = %v, want 0.5", cfg.AnswerOverlapThreshold)
	}

	// Unset keys keep their defaults.
	if diff := cmp.Diff(Default().PriorityWeights, cfg.PriorityWeights); diff != "" {
		t.Errorf("PriorityWeights mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.KeywordTiers) == 0 {
		t.Error("KeywordTiers empty, want defaults")
	}
}

func TestParseWeightsOverride(t *testing.T) {
	data := []byte(`
priority_weights:
  sender: 0.5
  keyword: 0.5
  deadline: 0
  thread: 0
  recency: 0
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := priority.Weights{Sender: 0.5, Keyword: 0.5}
	if diff := cmp.Diff(&want, cfg.PriorityWeights); diff != "" {
		t.Errorf("PriorityWeights mismatch (-want +got):\n%s", diff)
	}
}

func TestParseZeroWeightsRejectedByScorer(t *testing.T) {
	data := []byte(`
priority_weights:
  sender: 0
  keyword: 0
  deadline: 0
  thread: 0
  recency: 0
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	// An explicit all-zero block is configured weights, not an omission,
	// so the scorer must reject it rather than substitute defaults.
	if _, err := priority.NewScorer(cfg.ScorerOptions()); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("NewScorer(zero weights) error = %v, want ErrInvalidInput", err)
	}
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse([]byte("work_domain: [acme.io]\n"))
	if !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("Parse(unknown key) error = %v, want ErrConfiguration", err)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(empty) error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Parse(empty) mismatch with defaults (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/triage.yaml")
	if err != nil {
		t.Fatalf("Load(missing) error = %v", err)
	}
	if len(cfg.WorkDomains) == 0 {
		t.Error("Load(missing) returned no defaults")
	}
}

func TestParseEnvExpansion(t *testing.T) {
	t.Setenv("TRIAGE_TEST_DOMAIN", "expanded.io")

	cfg, err := Parse([]byte("work_domains: [${TRIAGE_TEST_DOMAIN}]\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"expanded.io"}, cfg.WorkDomains); diff != "" {
		t.Errorf("WorkDomains mismatch (-want +got):\n%s", diff)
	}
}
