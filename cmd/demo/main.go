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

// Triage demo command.
//
// Standalone CLI tool that generates a mock inbox, runs the full triage
// pipeline over it, and prints a summary report: category counts, the
// highest-priority emails, and thread compression results.
//
// Usage:
//
//	go run ./cmd/demo/ [--count 100] [--seed 42] [--config triage.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/bcem/triage/internal/classify"
	"github.com/bcem/triage/internal/compress"
	"github.com/bcem/triage/internal/config"
	"github.com/bcem/triage/internal/mockgen"
	"github.com/bcem/triage/internal/models"
	"github.com/bcem/triage/internal/priority"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	countFlag := flag.Int("count", 100, "Number of standalone emails to generate")
	seedFlag := flag.Int64("seed", 42, "Mock generator seed")
	configFlag := flag.String("config", "", "Optional triage.yaml tuning file")
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		cfg, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
			os.Exit(1)
		}
	}

	classifier := classify.NewClassifier(cfg.ClassifierOptions())
	scorer, err := priority.NewScorer(cfg.ScorerOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid scorer configuration: %v\n", err)
		os.Exit(1)
	}
	compressor := compress.NewCompressor(cfg.CompressorOptions())

	inbox := mockgen.New(*seedFlag).Inbox(*countFlag)
	now := time.Now().UTC()

	// Classify and score standalone emails.
	for _, e := range inbox.Emails {
		classifier.Classify(e)
		score, level := scorer.Score(e, priority.Context{Now: now})
		e.PriorityScore = score
		e.PriorityLevel = level
	}

	// Classify and score thread messages with thread context, then
	// compress each thread.
	for _, t := range inbox.Threads {
		for _, m := range t.Messages {
			classifier.Classify(m)
			score, level := scorer.Score(m, priority.Context{
				Now:                 now,
				ThreadMessageCount:  t.MessageCount,
				ThreadLastMessageAt: t.LastMessageAt,
			})
			m.PriorityScore = score
			m.PriorityLevel = level
		}
		if err := compressor.Compress(t); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: compress thread %s: %v\n", t.ThreadID, err)
		}
	}

	report(inbox)
}

func report(inbox *mockgen.Inbox) {
	fmt.Printf("Triaged %d emails and %d threads (%d messages)\n\n",
		len(inbox.Emails), len(inbox.Threads), inbox.TotalMessages())

	// Category counts
	counts := make(map[models.Category]int)
	for _, e := range inbox.Emails {
		counts[e.Category]++
	}
	fmt.Println("Categories:")
	for _, cat := range models.CategoryPrecedence {
		if counts[cat] > 0 {
			fmt.Printf("  %-12s %d\n", cat, counts[cat])
		}
	}

	// Top priorities
	sorted := append([]*models.Email(nil), inbox.Emails...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PriorityScore > sorted[j].PriorityScore
	})
	fmt.Println("\nTop priorities:")
	for i, e := range sorted {
		if i == 10 {
			break
		}
		fmt.Printf("  %5.1f  %-8s  %s  (%s)\n",
			e.PriorityScore, e.PriorityLevel, e.Subject, e.Sender.Address)
	}

	// Thread compression
	fmt.Println("\nThreads:")
	for _, t := range inbox.Threads {
		fmt.Printf("  %-45q %3d msgs  %5d -> %4d tokens  (%.0f%% saved)\n",
			t.Subject, t.MessageCount,
			t.OriginalTokenCount, t.CompressedTokenCount,
			t.CompressionRatio*100)
	}
}
