package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/sourcegraph/conc"

	"github.com/andriatmoko/gaffer/internal/app"
	"github.com/andriatmoko/gaffer/internal/config"
	"github.com/andriatmoko/gaffer/internal/observability"
	"github.com/andriatmoko/gaffer/internal/platform/logging"
)

type sessionResult struct {
	Session     int                `json:"session"`
	SessionSeed string             `json:"session_seed"`
	Reports     []app.SeasonReport `json:"reports"`
	Error       string             `json:"error,omitempty"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results := make([]sessionResult, cfg.ParallelSessions)
	var wg conc.WaitGroup
	var mu sync.Mutex

	for i := 0; i < cfg.ParallelSessions; i++ {
		i := i
		wg.Go(func() {
			seed := cfg.SessionSeed
			if seed != "" && cfg.ParallelSessions > 1 {
				seed = fmt.Sprintf("%s-%d", seed, i+1)
			}

			result := sessionResult{Session: i + 1, SessionSeed: seed}
			sim, err := app.NewSimulation(cfg, seed, logger)
			if err != nil {
				result.Error = err.Error()
			} else {
				reports, runErr := sim.Run(ctx)
				result.Reports = reports
				if runErr != nil {
					result.Error = runErr.Error()
				}
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()
		})
	}
	wg.Wait()

	encoder := sonic.ConfigDefault.NewEncoder(os.Stdout)
	failed := false
	for _, result := range results {
		if err := encoder.Encode(result); err != nil {
			logger.Error("encode session result", "error", err)
			failed = true
		}
		if result.Error != "" {
			logger.Error("session failed", "session", result.Session, "error", result.Error)
			failed = true
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Warn("uptrace shutdown", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Warn("pyroscope shutdown", "error", err)
	}

	if failed {
		os.Exit(1)
	}
}
