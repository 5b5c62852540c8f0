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

// Package mockgen generates realistic mock inbox data for development and
// testing. All output is driven by a seeded source, so the same seed
// reproduces the same inbox.
package mockgen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bcem/triage/internal/models"
)

var workSubjects = []string{
	"Q4 Project Status Update",
	"Meeting Request: Product Roadmap Discussion",
	"URGENT: Server Issues in Production",
	"Code Review: PR #1234",
	"Team Sync - Weekly Planning",
	"Budget Approval Needed",
	"Client Feedback on Latest Release",
	"Performance Review Schedule",
	"Security Audit Results",
	"API Integration Questions",
}

var personalSubjects = []string{
	"Dinner plans this weekend?",
	"Happy Birthday!",
	"Vacation photos",
	"Quick question about the party",
	"Thanks for your help!",
	"Catching up",
	"Movie recommendations?",
	"Family reunion details",
}

var newsletterSubjects = []string{
	"Weekly Tech Newsletter - Issue #127",
	"Your Monthly Summary",
	"Top Stories This Week",
	"New Articles You Might Like",
	"Developer Updates - February 2026",
}

var promotionalSubjects = []string{
	"50% OFF - Limited Time Offer!",
	"Exclusive Deal Just For You",
	"New Arrivals - Check Them Out",
	"Flash Sale Ends Tonight",
	"Your Personalized Recommendations",
}

var firstNames = []string{
	"Alice", "Bob", "Carol", "David", "Elena", "Frank", "Grace", "Henry",
	"Irene", "James", "Karen", "Liam", "Maria", "Nathan", "Olivia", "Peter",
}

var lastNames = []string{
	"Anderson", "Brooks", "Chen", "Davis", "Evans", "Foster", "Garcia",
	"Hughes", "Iverson", "Jackson", "Kim", "Lopez", "Miller", "Nguyen",
}

var freeDomains = []string{"gmail.com", "outlook.com", "yahoo.com"}

var fillerSentences = []string{
	"The latest milestone review surfaced a few items worth discussing.",
	"We are tracking slightly behind the original estimate.",
	"The integration tests passed on the second run.",
	"I have attached the revised draft for reference.",
	"The vendor confirmed the updated delivery schedule.",
	"Several stakeholders raised questions about the rollout plan.",
	"The metrics from last week look encouraging overall.",
	"There are two open issues remaining on the board.",
	"The staging environment was refreshed this morning.",
	"Initial feedback from the pilot group has been positive.",
	"We still need sign-off from the finance side.",
	"The documentation updates are ready for a second pass.",
}

// DefaultDistribution is the category mix used when a batch does not
// specify one.
var DefaultDistribution = map[models.Category]float64{
	models.CategoryWork:        0.35,
	models.CategoryPersonal:    0.15,
	models.CategoryNewsletter:  0.25,
	models.CategoryPromotional: 0.15,
	models.CategoryUrgent:      0.05,
	models.CategorySocial:      0.05,
}

// Generator produces mock emails and threads. Not safe for concurrent
// use; create one per goroutine.
type Generator struct {
	rng *rand.Rand

	// Base anchors all generated timestamps. Defaults to the creation
	// time; fix it in tests for reproducible output.
	Base time.Time
}

// New returns a generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		Base: time.Now().UTC(),
	}
}

func (g *Generator) id() string {
	// rand.Rand implements io.Reader and never fails.
	u, _ := uuid.NewRandomFromReader(g.rng)
	return u.String()
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *Generator) person(domain string) models.EmailAddress {
	first := g.pick(firstNames)
	last := g.pick(lastNames)
	return models.EmailAddress{
		Address: strings.ToLower(first) + "." + strings.ToLower(last) + "@" + domain,
		Name:    first + " " + last,
	}
}

func (g *Generator) paragraph(sentences int) string {
	parts := make([]string, 0, sentences)
	for i := 0; i < sentences; i++ {
		parts = append(parts, g.pick(fillerSentences))
	}
	return strings.Join(parts, " ")
}

// Email generates a single mock email. An empty category picks one at
// random. The category only selects the subject and body template; the
// derived fields stay unset so the email flows through the pipeline like
// real mail.
func (g *Generator) Email(category models.Category) *models.Email {
	if category == "" {
		category = models.CategoryPrecedence[g.rng.Intn(len(models.CategoryPrecedence))]
	}

	var subject, domain string
	switch category {
	case models.CategoryWork, models.CategoryUrgent:
		subject = g.pick(workSubjects)
		domain = "company.com"
	case models.CategoryPersonal:
		subject = g.pick(personalSubjects)
		domain = g.pick(freeDomains)
	case models.CategoryNewsletter:
		subject = g.pick(newsletterSubjects)
		domain = "news.example.com"
	case models.CategoryPromotional:
		subject = g.pick(promotionalSubjects)
		domain = "deals.example.com"
	case models.CategorySocial:
		subject = "You have a new connection request"
		domain = "linkedin.com"
	default:
		subject = g.pick(workSubjects)
		domain = "company.com"
	}

	receivedAt := g.Base.Add(-time.Duration(g.rng.Intn(30*24*60)) * time.Minute)

	return &models.Email{
		ID:         g.id(),
		ThreadID:   g.id(),
		Subject:    subject,
		Sender:     g.person(domain),
		Recipients: []models.EmailAddress{g.person("company.com")},
		BodyText:   g.body(category),
		ReceivedAt: receivedAt,
	}
}

// Batch generates count emails following the category distribution.
// A nil distribution uses DefaultDistribution.
func (g *Generator) Batch(count int, distribution map[models.Category]float64) []*models.Email {
	if distribution == nil {
		distribution = DefaultDistribution
	}

	emails := make([]*models.Email, 0, count)
	for i := 0; i < count; i++ {
		r := g.rng.Float64()
		cumulative := 0.0
		selected := models.CategoryWork
		// Iterate in precedence order so the walk is deterministic; map
		// iteration order is not.
		for _, cat := range models.CategoryPrecedence {
			pct, ok := distribution[cat]
			if !ok {
				continue
			}
			cumulative += pct
			if r <= cumulative {
				selected = cat
				break
			}
		}
		emails = append(emails, g.Email(selected))
	}
	return emails
}

// Thread generates a mock thread with messageCount messages exchanged
// between 3-5 participants, 2-8 hours apart.
func (g *Generator) Thread(messageCount int, category models.Category) *models.EmailThread {
	threadID := g.id()
	subject := g.pick(workSubjects)

	participants := make([]models.EmailAddress, 3+g.rng.Intn(3))
	for i := range participants {
		participants[i] = g.person("company.com")
	}

	start := g.Base.Add(-30 * 24 * time.Hour)
	at := start

	messages := make([]*models.Email, 0, messageCount)
	for i := 0; i < messageCount; i++ {
		sender := participants[g.rng.Intn(len(participants))]
		var recipients []models.EmailAddress
		for _, p := range participants {
			if !p.Equal(sender) {
				recipients = append(recipients, p)
			}
		}

		msgSubject := subject
		if i > 0 {
			msgSubject = "Re: " + subject
			at = at.Add(time.Duration(2+g.rng.Intn(7)) * time.Hour)
		}

		messages = append(messages, &models.Email{
			ID:         g.id(),
			ThreadID:   threadID,
			Subject:    msgSubject,
			Sender:     sender,
			Recipients: recipients,
			BodyText:   g.body(category),
			ReceivedAt: at,
		})
	}

	return models.NewThread(threadID, messages)
}

// Inbox bundles a generated batch and its long threads.
type Inbox struct {
	Emails  []*models.Email
	Threads []*models.EmailThread
}

// TotalMessages returns the message count across all threads.
func (in *Inbox) TotalMessages() int {
	total := 0
	for _, t := range in.Threads {
		total += t.MessageCount
	}
	return total
}

// Inbox generates a realistic inbox: totalEmails standalone emails plus
// five long work or urgent threads of 30-70 messages.
func (g *Generator) Inbox(totalEmails int) *Inbox {
	in := &Inbox{Emails: g.Batch(totalEmails, nil)}
	for i := 0; i < 5; i++ {
		length := 30 + g.rng.Intn(41)
		category := models.CategoryWork
		if g.rng.Intn(2) == 1 {
			category = models.CategoryUrgent
		}
		in.Threads = append(in.Threads, g.Thread(length, category))
	}
	return in
}

func (g *Generator) body(category models.Category) string {
	switch category {
	case models.CategoryPersonal:
		switch g.rng.Intn(3) {
		case 0:
			return fmt.Sprintf("Hey!\n\n%s\n\nLet me know what you think!\n\nCheers,", g.paragraph(3))
		case 1:
			return fmt.Sprintf("Hi there,\n\n%s\n\nTalk soon!", g.paragraph(2))
		default:
			return fmt.Sprintf("%s\n\nTake care!", g.paragraph(4))
		}
	case models.CategoryNewsletter:
		if g.rng.Intn(2) == 0 {
			return fmt.Sprintf("# Top Stories This Week\n\n%s\n\n## Featured Article\n%s\n\nUnsubscribe | Manage Preferences",
				g.paragraph(6), g.paragraph(4))
		}
		return fmt.Sprintf("Your weekly digest:\n\n%s\n\nRead more on our website\n\nTo unsubscribe, click here.", g.paragraph(8))
	case models.CategoryPromotional:
		if g.rng.Intn(2) == 0 {
			return fmt.Sprintf("SPECIAL OFFER INSIDE!\n\n%s\n\nUse code: SAVE50\n\nShop now: [link]\n\nUnsubscribe", g.paragraph(3))
		}
		return fmt.Sprintf("Don't miss out on this amazing deal!\n\n%s\n\nLimited time only!\n\nUnsubscribe from promotional emails.", g.paragraph(4))
	case models.CategoryUrgent:
		if g.rng.Intn(2) == 0 {
			return fmt.Sprintf("URGENT: %s\n\n%s\n\nPlease address this ASAP.\n\nThanks,", g.pick(fillerSentences), g.paragraph(3))
		}
		return fmt.Sprintf("IMMEDIATE ACTION REQUIRED\n\n%s\n\nDeadline: Today EOD\n\nPlease confirm receipt.", g.paragraph(2))
	case models.CategorySocial:
		return fmt.Sprintf("You have a new connection request.\n\n%s\n\nView their profile to respond.", g.paragraph(2))
	case models.CategoryWork:
		fallthrough
	default:
		switch g.rng.Intn(3) {
		case 0:
			return fmt.Sprintf("Hi team,\n\n%s\n\nCould you please review and provide feedback by end of day?\n\nBest regards,", g.paragraph(5))
		case 1:
			return fmt.Sprintf("Hello,\n\n%s\n\nLet me know if you have any questions.\n\nThanks,", g.paragraph(3))
		default:
			return fmt.Sprintf("Quick update:\n\n%s\n\nNext steps:\n- %s\n- %s\n\nPlease confirm.",
				g.paragraph(4), g.pick(fillerSentences), g.pick(fillerSentences))
		}
	}
}
