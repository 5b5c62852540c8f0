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

package models

// Category is the closed set of email categories.
type Category string

const (
	CategorySpam        Category = "spam"
	CategoryPromotional Category = "promotional"
	CategoryNewsletter  Category = "newsletter"
	CategorySocial      Category = "social"
	CategoryUrgent      Category = "urgent"
	CategoryWork        Category = "work"
	CategoryPersonal    Category = "personal"
)

// CategoryPrecedence lists all categories in tie-break order, highest first.
// Automated/bulk-mail signals outrank content urgency signals so that a
// marketing blast shouting "URGENT" still lands in promotional, not urgent.
var CategoryPrecedence = []Category{
	CategorySpam,
	CategoryPromotional,
	CategoryNewsletter,
	CategorySocial,
	CategoryUrgent,
	CategoryWork,
	CategoryPersonal,
}

// ParseCategory validates a category string. The second return is false for
// anything outside the closed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	for _, known := range CategoryPrecedence {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// NoResponseCategory reports whether the category suppresses the
// requires-response flag regardless of detected intent.
func (c Category) NoResponseCategory() bool {
	return c == CategoryNewsletter || c == CategoryPromotional || c == CategorySpam
}

// Intent is the closed set of detected sender intents.
type Intent string

const (
	IntentMeetingRequest Intent = "meeting_request"
	IntentInfoRequest    Intent = "info_request"
	IntentReviewRequest  Intent = "review_request"
	IntentStatusUpdate   Intent = "status_update"
	IntentUnsubscribe    Intent = "unsubscribe"
	IntentOther          Intent = "other"
)

// ExpectsResponse reports whether the intent alone implies the sender is
// waiting on a reply.
func (i Intent) ExpectsResponse() bool {
	switch i {
	case IntentMeetingRequest, IntentInfoRequest, IntentReviewRequest:
		return true
	}
	return false
}

// PriorityLevel is the discretized priority band of a score.
type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "CRITICAL"
	PriorityHigh     PriorityLevel = "HIGH"
	PriorityMedium   PriorityLevel = "MEDIUM"
	PriorityLow      PriorityLevel = "LOW"
	PriorityMinimal  PriorityLevel = "MINIMAL"
)

// LevelForScore maps a 0-100 priority score to its level. Bounds are
// inclusive at the lower edge of each band: a score of exactly 85 is
// CRITICAL, 84.9 is HIGH.
func LevelForScore(score float64) PriorityLevel {
	switch {
	case score >= 85:
		return PriorityCritical
	case score >= 70:
		return PriorityHigh
	case score >= 50:
		return PriorityMedium
	case score >= 30:
		return PriorityLow
	default:
		return PriorityMinimal
	}
}

// ParsePriorityLevel validates a priority level name.
func ParsePriorityLevel(s string) (PriorityLevel, bool) {
	switch PriorityLevel(s) {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow, PriorityMinimal:
		return PriorityLevel(s), true
	}
	return "", false
}
