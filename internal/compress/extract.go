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
	"regexp"
	"strings"

	"github.com/bcem/triage/internal/models"
	"github.com/bcem/triage/internal/textutil"
)

var (
	// assignedAction captures "Alice will send the report" style
	// commitments: a capitalized name followed by a commitment verb.
	assignedAction = regexp.MustCompile(`\b([A-Z][a-z]+)\s+(?:will|should|must|needs? to)\s+([^.!?\n]+)`)

	// colonAction captures "Alice: finish the deck" style task lines.
	colonAction = regexp.MustCompile(`(?m)^\s*([A-Z][a-z]+)\s*:\s*(\S[^\n]*)$`)
)

type question struct {
	text     string
	msgIndex int
}

// extraction accumulates thread facts in chronological first-occurrence
// order, which keeps the rendered summary deterministic.
type extraction struct {
	decisions []string
	questions []question
	answered  []bool

	people []string
	items  map[string][]string

	timeline []models.TimelineEvent
}

func (ex *extraction) openQuestions() []string {
	var open []string
	for i, q := range ex.questions {
		if ex.answered[i] {
			continue
		}
		open = append(open, q.text)
		if len(open) == maxQuestions {
			break
		}
	}
	return open
}

func (ex *extraction) itemsByPerson() map[string][]string {
	if len(ex.items) == 0 {
		return nil
	}
	out := make(map[string][]string, len(ex.items))
	for person, items := range ex.items {
		out[person] = append([]string(nil), items...)
	}
	return out
}

// extract walks the cleaned bodies in message order and pulls out
// decisions, questions, per-person action items and timeline entries.
// All collections deduplicate on a normalized key so repeated or quoted
// sentences land exactly once.
func (c *Compressor) extract(t *models.EmailThread, cleaned []string) *extraction {
	ex := &extraction{items: make(map[string][]string)}

	seenDecisions := make(map[string]bool)
	seenQuestions := make(map[string]bool)
	seenItems := make(map[string]bool)
	seenTimeline := make(map[string]bool)

	// Token sets per message feed the answered-question check below.
	tokenSets := make([]map[string]bool, len(cleaned))
	for i, body := range cleaned {
		tokenSets[i] = textutil.TokenSet(textutil.ContentTokens(body))
	}

	for i, m := range t.Messages {
		body := cleaned[i]
		sentences := textutil.Sentences(body)

		decisionsHere, questionsHere := 0, 0
		for _, s := range sentences {
			s = strings.TrimSpace(s)
			if len(s) < minSentenceLen {
				continue
			}
			lower := strings.ToLower(s)

			if strings.HasSuffix(s, "?") && questionsHere < perMessageQuestions {
				key := textutil.NormalizeKey(s)
				if !seenQuestions[key] {
					seenQuestions[key] = true
					ex.questions = append(ex.questions, question{
						text:     textutil.Truncate(s, entryCharLimit),
						msgIndex: i,
					})
					questionsHere++
				}
				continue
			}

			if decisionsHere < perMessageDecisions && len(ex.decisions) < maxDecisions {
				for _, marker := range c.decisionMarkers {
					if !strings.Contains(lower, marker) {
						continue
					}
					key := textutil.NormalizeKey(s)
					if !seenDecisions[key] {
						seenDecisions[key] = true
						ex.decisions = append(ex.decisions, textutil.Truncate(s, entryCharLimit))
						decisionsHere++
					}
					break
				}
			}
		}

		c.extractActionItems(t, body, ex, seenItems)

		if len(ex.timeline) < maxTimeline {
			desc := timelineDescription(sentences)
			if desc != "" {
				key := textutil.NormalizeKey(desc)
				if !seenTimeline[key] {
					seenTimeline[key] = true
					ex.timeline = append(ex.timeline, models.TimelineEvent{
						At:          m.ReceivedAt,
						Description: textutil.Truncate(desc, timelineCharLimit),
					})
				}
			}
		}
	}

	ex.answered = make([]bool, len(ex.questions))
	for qi, q := range ex.questions {
		qTokens := textutil.ContentTokens(q.text)
		if len(qTokens) == 0 {
			continue
		}
		for j := q.msgIndex + 1; j < len(tokenSets); j++ {
			if textutil.OverlapRatio(qTokens, tokenSets[j]) >= c.overlapThreshold {
				ex.answered[qi] = true
				break
			}
		}
	}

	return ex
}

// extractActionItems pulls "Name will ..." commitments and "Name: task"
// lines out of a cleaned body and files them under the resolved person.
func (c *Compressor) extractActionItems(t *models.EmailThread, body string, ex *extraction, seen map[string]bool) {
	record := func(name, task string) {
		task = strings.TrimSpace(task)
		if len(task) < 3 {
			return
		}
		person := resolvePerson(t, name)
		key := strings.ToLower(person) + "|" + textutil.NormalizeKey(task)
		if seen[key] {
			return
		}
		seen[key] = true
		if _, ok := ex.items[person]; !ok {
			ex.people = append(ex.people, person)
		}
		ex.items[person] = append(ex.items[person], textutil.Truncate(task, entryCharLimit))
	}

	for _, m := range assignedAction.FindAllStringSubmatch(body, -1) {
		record(m[1], m[1]+" "+strings.TrimSpace(m[0][len(m[1]):]))
	}
	for _, m := range colonAction.FindAllStringSubmatch(body, -1) {
		record(m[1], m[2])
	}
}

// resolvePerson maps a bare first name from an action pattern onto a
// thread participant's display name when one matches. Names with no
// matching participant are kept as written.
func resolvePerson(t *models.EmailThread, name string) string {
	lower := strings.ToLower(name)
	for _, p := range t.Participants {
		if p.Name != "" {
			display := strings.ToLower(p.Name)
			if display == lower || strings.HasPrefix(display, lower+" ") {
				return p.Name
			}
		}
		if strings.ToLower(p.LocalPart()) == lower {
			if p.Name != "" {
				return p.Name
			}
			return name
		}
	}
	return name
}

// timelineDescription picks the sentence that carries a date or deadline
// reference, falling back to the first sentence. One entry per message.
func timelineDescription(sentences []string) string {
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) >= minSentenceLen && textutil.HasDateReference(s) {
			return s
		}
	}
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) >= minSentenceLen {
			return s
		}
	}
	return ""
}
