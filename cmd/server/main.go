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

// Triage service.
//
// Entry point for the email triage API. It:
//  1. Loads pipeline tuning from triage.yaml and service settings from env
//  2. Builds the classifier, priority scorer and thread compressor
//  3. Optionally consumes email events from a Redis intake queue
//  4. Serves the triage HTTP API
//  5. Handles graceful shutdown on SIGTERM/SIGINT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bcem/triage/internal/api"
	"github.com/bcem/triage/internal/classify"
	"github.com/bcem/triage/internal/compress"
	"github.com/bcem/triage/internal/config"
	"github.com/bcem/triage/internal/intake"
	"github.com/bcem/triage/internal/priority"
	"github.com/bcem/triage/internal/store"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting triage service")

	// --- Load Configuration ---
	svc := config.LoadService()
	cfg, err := config.Load(svc.ConfigPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded",
		"config_path", svc.ConfigPath,
		"work_domains", len(cfg.WorkDomains),
		"vip_senders", len(cfg.VIPSenders),
		"intake_enabled", svc.Intake,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Build Pipeline ---
	classifier := classify.NewClassifier(cfg.ClassifierOptions())
	scorer, err := priority.NewScorer(cfg.ScorerOptions())
	if err != nil {
		slog.Error("invalid scorer configuration", "error", err)
		os.Exit(1)
	}
	compressor := compress.NewCompressor(cfg.CompressorOptions())
	st := store.New()

	// --- Optional Redis Intake ---
	var consumer *intake.Consumer
	if svc.Intake {
		opt, err := redis.ParseURL(svc.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opt)

		consumer = intake.NewConsumer(rdb, svc.EmailsQueue, st, classifier, scorer)
		if err := consumer.Ping(ctx); err != nil {
			slog.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to Redis", "queue", svc.EmailsQueue)
		consumer.Start(ctx)
	}

	// --- HTTP Server ---
	handler := api.NewHandler(st, classifier, scorer, compressor)

	addr := fmt.Sprintf(":%d", svc.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh

		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		if consumer != nil {
			consumer.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("triage service listening", "addr", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("triage service stopped")
}
