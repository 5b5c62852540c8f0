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

// Package classify implements rule-based email classification: category
// assignment, intent detection, the requires-response flag, a one-sentence
// summary and lightweight entity/action-item extraction. Classification is
// a pure function of the email's subject, body, sender domain and the
// configured work-domain/contact sets; it never fails on well-formed input.
package classify

import (
	"strings"

	"github.com/bcem/triage/internal/models"
	"github.com/bcem/triage/internal/textutil"
)

// summaryBudget is the character limit for the generated one-line summary.
const summaryBudget = 200

// Options configures a Classifier. The zero value is valid: with no work
// domains configured, unmatched mail defaults to personal.
type Options struct {
	// WorkDomains are sender domains treated as work mail when no
	// category rule fires.
	WorkDomains []string
	// PersonalContacts are sender addresses always treated as personal
	// when no category rule fires.
	PersonalContacts []string
}

// Classifier applies the category rule set and the intent pattern set to
// individual emails. Safe for concurrent use; it holds only immutable
// configuration.
type Classifier struct {
	workDomains      map[string]bool
	personalContacts map[string]bool
}

// NewClassifier builds a classifier from options.
func NewClassifier(opts Options) *Classifier {
	c := &Classifier{
		workDomains:      make(map[string]bool, len(opts.WorkDomains)),
		personalContacts: make(map[string]bool, len(opts.PersonalContacts)),
	}
	for _, d := range opts.WorkDomains {
		c.workDomains[strings.ToLower(d)] = true
	}
	for _, a := range opts.PersonalContacts {
		c.personalContacts[strings.ToLower(a)] = true
	}
	return c
}

// Classify populates the email's derived classification fields: Category,
// DetectedIntent, RequiresResponse, Summary, KeyEntities and ActionItems.
// It is deterministic and total: an empty body yields an empty summary and
// a category decided by subject and sender alone.
func (c *Classifier) Classify(e *models.Email) {
	if e == nil {
		return
	}
	in := newMatchInput(e)

	e.Category = c.categorize(in)
	e.DetectedIntent = detectIntent(in)
	e.RequiresResponse = c.requiresResponse(e, in)
	e.Summary = summarize(e.BodyText)
	e.KeyEntities = extractEntities(e.BodyText)
	e.ActionItems = extractActionItems(e.BodyText)
}

// categorize evaluates every category's predicate set and picks the firing
// category with the highest precedence. With no match, the sender decides:
// configured work domain means work, everything else personal.
func (c *Classifier) categorize(in matchInput) models.Category {
	for _, cat := range models.CategoryPrecedence {
		rule, ok := defaultRules[cat]
		if !ok {
			continue
		}
		if rule.fires(in) {
			return cat
		}
	}

	// A configured contact stays personal even on a work domain.
	if c.personalContacts[in.senderLocal+"@"+in.senderDomain] {
		return models.CategoryPersonal
	}
	if c.workDomains[in.senderDomain] {
		return models.CategoryWork
	}
	return models.CategoryPersonal
}

// detectIntent runs the intent pattern set over subject+body; first match
// wins, default other.
func detectIntent(in matchInput) models.Intent {
	text := in.subjectLower + " " + in.bodyLower
	for _, p := range intentPatterns {
		if p.question && strings.Contains(text, "?") {
			return p.intent
		}
		for _, kw := range p.anyOf {
			if strings.Contains(text, kw) {
				return p.intent
			}
		}
	}
	return models.IntentOther
}

// requiresResponse decides the flag. Bulk categories override everything:
// newsletters, promotions and spam never require a response.
func (c *Classifier) requiresResponse(e *models.Email, in matchInput) bool {
	if e.Category.NoResponseCategory() {
		return false
	}
	if e.DetectedIntent.ExpectsResponse() {
		return true
	}
	if strings.Contains(in.body, "?") {
		return true
	}
	for _, phrase := range expectingPhrases {
		if strings.Contains(in.bodyLower, phrase) {
			return true
		}
	}
	return false
}

// summarize returns the first non-empty sentence of the body, within the
// summary character budget.
func summarize(body string) string {
	first := textutil.FirstSentence(strings.TrimSpace(body))
	return textutil.Truncate(first, summaryBudget)
}
