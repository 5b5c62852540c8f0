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

	"github.com/bcem/triage/internal/models"
)

// categoryRule is one category's predicate set. A category fires when ANY
// predicate matches. Adding a keyword or domain is a data change, not a
// structural one.
type categoryRule struct {
	// subjectAny matches lowercase substrings of the subject.
	subjectAny []string
	// bodyAny matches lowercase substrings of the body.
	bodyAny []string
	// senderDomains matches the sender's domain exactly.
	senderDomains []string
	// senderLocalAny matches substrings of the sender's local part.
	senderLocalAny []string
	// subjectExact matches case-sensitive substrings of the subject,
	// for markers where casing is the signal ("URGENT").
	subjectExact []string
	// eitherExact matches case-sensitive substrings of subject or body.
	eitherExact []string
	// bodyPatterns are regexes run against the raw body.
	bodyPatterns []*regexp.Regexp
}

// defaultRules maps each category to its predicate set. Precedence between
// firing categories is models.CategoryPrecedence, not map order.
var defaultRules = map[models.Category]categoryRule{
	models.CategorySpam: {
		subjectAny: []string{
			"viagra", "casino", "lottery", "prince", "inheritance",
			"bitcoin wallet",
		},
		senderDomains: []string{"suspicious.com", "spam-domain.net"},
	},
	models.CategoryPromotional: {
		subjectAny: []string{
			"sale", "discount", "offer", "deal", "promo", "% off", "50%",
		},
		bodyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\d+%\s+off`),
		},
	},
	models.CategoryNewsletter: {
		subjectAny: []string{
			"newsletter", "digest", "weekly update", "monthly summary",
		},
		bodyAny:        []string{"unsubscribe"},
		senderLocalAny: []string{"noreply", "no-reply"},
	},
	models.CategorySocial: {
		senderDomains: []string{
			"facebook.com", "twitter.com", "linkedin.com",
			"instagram.com", "tiktok.com",
		},
		subjectAny: []string{
			"tagged you", "mentioned you", "sent you a message",
			"friend request",
		},
	},
	models.CategoryUrgent: {
		subjectAny: []string{
			"urgent", "asap", "immediate", "critical", "emergency",
		},
		subjectExact: []string{"URGENT", "IMMEDIATE ACTION"},
		eitherExact:  []string{"!!!"},
	},
}

// matchInput carries the pre-normalized views of one email so each
// predicate check is a plain substring test.
type matchInput struct {
	subject      string // original casing
	body         string // original casing
	subjectLower string
	bodyLower    string
	senderDomain string
	senderLocal  string
}

func newMatchInput(e *models.Email) matchInput {
	return matchInput{
		subject:      e.Subject,
		body:         e.BodyText,
		subjectLower: strings.ToLower(e.Subject),
		bodyLower:    strings.ToLower(e.BodyText),
		senderDomain: e.Sender.Domain(),
		senderLocal:  e.Sender.LocalPart(),
	}
}

// fires reports whether any predicate in the rule matches the input.
func (r categoryRule) fires(in matchInput) bool {
	for _, kw := range r.subjectAny {
		if strings.Contains(in.subjectLower, kw) {
			return true
		}
	}
	for _, kw := range r.bodyAny {
		if strings.Contains(in.bodyLower, kw) {
			return true
		}
	}
	for _, d := range r.senderDomains {
		if in.senderDomain == d {
			return true
		}
	}
	for _, l := range r.senderLocalAny {
		if strings.Contains(in.senderLocal, l) {
			return true
		}
	}
	for _, s := range r.subjectExact {
		if strings.Contains(in.subject, s) {
			return true
		}
	}
	for _, s := range r.eitherExact {
		if strings.Contains(in.subject, s) || strings.Contains(in.body, s) {
			return true
		}
	}
	for _, p := range r.bodyPatterns {
		if p.MatchString(in.body) {
			return true
		}
	}
	return false
}

// intentPattern maps keyword markers to a detected intent. Patterns are
// evaluated in order; the first match wins.
type intentPattern struct {
	intent models.Intent
	anyOf  []string
	// question also fires the pattern when the text contains "?".
	question bool
}

var intentPatterns = []intentPattern{
	{intent: models.IntentMeetingRequest, anyOf: []string{"meeting", "schedule", "call", "zoom", "teams"}},
	{intent: models.IntentInfoRequest, anyOf: []string{"question"}, question: true},
	{intent: models.IntentUnsubscribe, anyOf: []string{"unsubscribe", "remove me", "opt out"}},
	{intent: models.IntentStatusUpdate, anyOf: []string{"update", "status", "progress"}},
	{intent: models.IntentReviewRequest, anyOf: []string{"review", "feedback", "approve"}},
}

// expectingPhrases signal the sender is waiting on a reply even when no
// intent pattern fires.
var expectingPhrases = []string{
	"please let me know",
	"can you",
	"could you",
	"would you",
	"please confirm",
	"please review",
	"please send",
	"waiting for",
	"looking forward to hearing",
	"please respond",
	"please reply",
	"asap",
}
