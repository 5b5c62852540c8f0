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

// Package config loads triage tuning from a YAML file and service settings
// from environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/bcem/triage/internal/classify"
	"github.com/bcem/triage/internal/compress"
	"github.com/bcem/triage/internal/models"
	"github.com/bcem/triage/internal/priority"
)

// Triage holds the pipeline tuning knobs. Every field has a usable
// default; a YAML file overrides only the keys it sets.
type Triage struct {
	// VIPSenders maps sender addresses to an importance override (0-100).
	VIPSenders map[string]float64 `yaml:"vip_senders"`
	// WorkDomains are sender domains treated as work mail.
	WorkDomains []string `yaml:"work_domains"`
	// PersonalContacts are sender addresses always treated as personal.
	PersonalContacts []string `yaml:"personal_contacts"`

	PriorityWeights *priority.Weights               `yaml:"priority_weights"`
	KeywordTiers    map[string]priority.KeywordTier `yaml:"keyword_tiers"`

	SignatureMarkers       []string `yaml:"signature_markers"`
	GreetingMarkers        []string `yaml:"greeting_markers"`
	DecisionMarkers        []string `yaml:"decision_markers"`
	AnswerOverlapThreshold float64  `yaml:"answer_overlap_threshold"`
}

// Default returns the built-in tuning. The component packages carry the
// same defaults for their own knobs; Default only pins the ones a bare
// deployment needs to be useful.
func Default() *Triage {
	w := priority.DefaultWeights()
	return &Triage{
		WorkDomains:            []string{"company.com"},
		PriorityWeights:        &w,
		KeywordTiers:           priority.DefaultKeywordTiers(),
		SignatureMarkers:       compress.DefaultSignatureMarkers(),
		GreetingMarkers:        compress.DefaultGreetingMarkers(),
		DecisionMarkers:        compress.DefaultDecisionMarkers(),
		AnswerOverlapThreshold: compress.DefaultAnswerOverlapThreshold,
	}
}

// Load reads a YAML tuning file (with ${VAR} expansion) and merges it over
// the defaults. A missing path returns the defaults unchanged.
func Load(path string) (*Triage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse merges YAML tuning over the defaults key-by-key. Unknown keys are
// rejected so a typoed knob fails loudly instead of silently using the
// default.
func Parse(data []byte) (*Triage, error) {
	expanded := os.ExpandEnv(string(data))

	overlay := &Triage{}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(overlay); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", models.ErrConfiguration, err)
	}

	cfg := Default()
	if overlay.VIPSenders != nil {
		cfg.VIPSenders = overlay.VIPSenders
	}
	if overlay.WorkDomains != nil {
		cfg.WorkDomains = overlay.WorkDomains
	}
	if overlay.PersonalContacts != nil {
		cfg.PersonalContacts = overlay.PersonalContacts
	}
	if overlay.PriorityWeights != nil {
		cfg.PriorityWeights = overlay.PriorityWeights
	}
	if overlay.KeywordTiers != nil {
		cfg.KeywordTiers = overlay.KeywordTiers
	}
	if overlay.SignatureMarkers != nil {
		cfg.SignatureMarkers = overlay.SignatureMarkers
	}
	if overlay.GreetingMarkers != nil {
		cfg.GreetingMarkers = overlay.GreetingMarkers
	}
	if overlay.DecisionMarkers != nil {
		cfg.DecisionMarkers = overlay.DecisionMarkers
	}
	if overlay.AnswerOverlapThreshold != 0 {
		cfg.AnswerOverlapThreshold = overlay.AnswerOverlapThreshold
	}
	return cfg, nil
}

// ClassifierOptions converts the tuning into classifier options.
func (t *Triage) ClassifierOptions() classify.Options {
	return classify.Options{
		WorkDomains:      t.WorkDomains,
		PersonalContacts: t.PersonalContacts,
	}
}

// ScorerOptions converts the tuning into scorer options.
func (t *Triage) ScorerOptions() priority.Options {
	return priority.Options{
		VIPSenders:   t.VIPSenders,
		WorkDomains:  t.WorkDomains,
		Weights:      t.PriorityWeights,
		KeywordTiers: t.KeywordTiers,
	}
}

// CompressorOptions converts the tuning into compressor options.
func (t *Triage) CompressorOptions() compress.Options {
	return compress.Options{
		SignatureMarkers:       t.SignatureMarkers,
		GreetingMarkers:        t.GreetingMarkers,
		DecisionMarkers:        t.DecisionMarkers,
		AnswerOverlapThreshold: t.AnswerOverlapThreshold,
	}
}

// Service holds runtime settings for the HTTP server and queue intake.
type Service struct {
	Port        int
	ConfigPath  string
	RedisURL    string
	EmailsQueue string
	Intake      bool
}

// LoadService reads service settings from environment variables.
func LoadService() *Service {
	return &Service{
		Port:        envOrDefaultInt("PORT", 8080),
		ConfigPath:  envOrDefault("CONFIG_PATH", "/app/config/triage.yaml"),
		RedisURL:    envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		EmailsQueue: envOrDefault("EMAILS_QUEUE", "emails"),
		Intake:      envOrDefaultBool("INTAKE_ENABLED", false),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
