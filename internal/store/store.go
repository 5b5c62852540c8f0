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

// Package store keeps emails and threads in memory for the API service.
// Thread messages are indexed as emails too, so triage results written
// through UpdateEmail are visible on both views.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/bcem/triage/internal/models"
)

// ThreadMeta is the thread context handed to email updates, sized for the
// priority scorer's needs.
type ThreadMeta struct {
	MessageCount  int
	LastMessageAt time.Time
}

// Stats summarizes store contents.
type Stats struct {
	TotalEmails       int `json:"total_emails"`
	ProcessedEmails   int `json:"processed_emails"`
	TotalThreads      int `json:"total_threads"`
	CompressedThreads int `json:"compressed_threads"`
}

// Filter narrows email listings. Zero values match everything.
type Filter struct {
	Category models.Category
	Priority models.PriorityLevel
	Limit    int
}

// Store is a mutex-guarded in-memory index of emails and threads. Safe
// for concurrent use.
type Store struct {
	mu sync.RWMutex

	emails     map[string]*models.Email
	emailOrder []string

	threads     map[string]*models.EmailThread
	threadOrder []string

	// emailThread maps an email ID to its owning thread ID, "" for
	// standalone emails.
	emailThread map[string]string
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.emails = make(map[string]*models.Email)
	s.emailOrder = nil
	s.threads = make(map[string]*models.EmailThread)
	s.threadOrder = nil
	s.emailThread = make(map[string]string)
}

// Reset drops all contents.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// AddEmails inserts standalone emails. Existing IDs are overwritten in
// place, keeping their original listing position.
func (s *Store) AddEmails(emails []*models.Email) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range emails {
		s.addEmailLocked(e, "")
	}
}

// AddThreads inserts threads and indexes their messages as emails.
func (s *Store) AddThreads(threads []*models.EmailThread) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range threads {
		if _, ok := s.threads[t.ThreadID]; !ok {
			s.threadOrder = append(s.threadOrder, t.ThreadID)
		}
		s.threads[t.ThreadID] = t
		for _, m := range t.Messages {
			s.addEmailLocked(m, t.ThreadID)
		}
	}
}

func (s *Store) addEmailLocked(e *models.Email, threadID string) {
	if _, ok := s.emails[e.ID]; !ok {
		s.emailOrder = append(s.emailOrder, e.ID)
	}
	s.emails[e.ID] = e
	s.emailThread[e.ID] = threadID
}

// snapshotThreadLocked deep-copies a thread, messages included, so the
// caller can use the result after the lock is released while update
// handlers keep mutating the stored emails.
func snapshotThreadLocked(t *models.EmailThread) models.EmailThread {
	out := *t
	out.Participants = append([]models.EmailAddress(nil), t.Participants...)
	out.Messages = make([]*models.Email, len(t.Messages))
	for i, m := range t.Messages {
		e := *m
		out.Messages[i] = &e
	}
	return out
}

// Email returns a copy of the email with the given ID.
func (s *Store) Email(id string) (models.Email, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.emails[id]
	if !ok {
		return models.Email{}, false
	}
	return *e, true
}

// Thread returns a deep copy of the thread with the given ID. Messages are
// copied as well, so the result stays stable while writers keep updating
// the stored emails.
func (s *Store) Thread(id string) (models.EmailThread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	if !ok {
		return models.EmailThread{}, false
	}
	return snapshotThreadLocked(t), true
}

// Emails lists emails in insertion order, filtered.
func (s *Store) Emails(f Filter) []models.Email {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Email
	for _, id := range s.emailOrder {
		e := s.emails[id]
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.Priority != "" && e.PriorityLevel != f.Priority {
			continue
		}
		out = append(out, *e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Threads lists deep copies of the threads in insertion order.
func (s *Store) Threads() []models.EmailThread {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.EmailThread, 0, len(s.threadOrder))
	for _, id := range s.threadOrder {
		out = append(out, snapshotThreadLocked(s.threads[id]))
	}
	return out
}

// EmailIDs returns all email IDs in insertion order.
func (s *Store) EmailIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.emailOrder...)
}

// ThreadIDs returns all thread IDs in insertion order.
func (s *Store) ThreadIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.threadOrder...)
}

// UpdateEmail runs fn against the stored email under the write lock,
// passing the owning thread's context. Returns false for an unknown ID.
func (s *Store) UpdateEmail(id string, fn func(e *models.Email, meta ThreadMeta)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.emails[id]
	if !ok {
		return false
	}

	var meta ThreadMeta
	if tid := s.emailThread[id]; tid != "" {
		if t, ok := s.threads[tid]; ok {
			meta.MessageCount = t.MessageCount
			meta.LastMessageAt = t.LastMessageAt
		}
	}
	fn(e, meta)
	return true
}

// UpdateThread runs fn against the stored thread under the write lock.
func (s *Store) UpdateThread(id string, fn func(t *models.EmailThread) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[id]
	if !ok {
		return fmt.Errorf("update thread %s: %w", id, models.ErrInvalidInput)
	}
	return fn(t)
}

// Stats counts store contents and processing progress.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		TotalEmails:  len(s.emails),
		TotalThreads: len(s.threads),
	}
	for _, e := range s.emails {
		if e.Processed() {
			st.ProcessedEmails++
		}
	}
	for _, t := range s.threads {
		if t.Compressed() {
			st.CompressedThreads++
		}
	}
	return st
}
