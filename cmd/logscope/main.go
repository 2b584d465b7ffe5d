package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/avelten/logscope/internal/adapter/backend"
	"github.com/avelten/logscope/internal/adapter/metrics"
	"github.com/avelten/logscope/internal/adapter/pii"
	"github.com/avelten/logscope/internal/pkg/config"
	"github.com/avelten/logscope/internal/pkg/logger"
	"github.com/avelten/logscope/internal/tui"
	"github.com/avelten/logscope/internal/usecase"
)

func main() {
	backendFlag := flag.String("backend", "", "Backend base URL (overrides BACKEND_URL)")
	projectFlag := flag.String("project", "", "Project path to explore (overrides PROJECT_PATH)")
	fileFlag := flag.String("file", "", "Log file to open on startup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *backendFlag != "" {
		cfg.BackendURL = *backendFlag
	}
	if *projectFlag != "" {
		cfg.ProjectPath = *projectFlag
	}
	if cfg.ProjectPath == "" {
		slog.Error("no project path configured, set PROJECT_PATH or pass -project")
		os.Exit(1)
	}

	logOut, err := logger.OpenLogFile(cfg.LogFile)
	if err != nil {
		slog.Error("failed to open log file", "path", cfg.LogFile, "error", err)
		os.Exit(1)
	}
	defer logOut.Close()

	log := logger.New(cfg.LogLevel, logOut)
	slog.SetDefault(log)

	m := metrics.NewExplorerMetrics(prometheus.DefaultRegisterer)

	// --- Optional Metrics Server ---
	if cfg.MetricsAddr != "" {
		adminMux := http.NewServeMux()
		adminMux.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Info("starting metrics server", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, adminMux); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Backend Client and Explorer ---
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestRate), cfg.RequestBurst)
	client := backend.NewClient(cfg.BackendURL, limiter, log, m)

	var redactor *pii.Redactor
	if len(cfg.ExportRedact) > 0 {
		redactor = pii.NewRedactor(cfg.ExportRedact, log)
	}

	explorer := usecase.NewExplorer(client, redactor, log, m, usecase.Options{
		Project:        cfg.ProjectPath,
		File:           *fileFlag,
		PageSize:       cfg.PageSize,
		SearchDebounce: cfg.SearchDebounce,
		ExportLimit:    cfg.ExportLimit,
		ExportDir:      cfg.ExportDir,
	})
	defer explorer.Close()

	// --- File-Change Watcher ---
	watcher := backend.NewFileWatcher(cfg.BackendURL, cfg.ProjectPath, log, m)
	go watcher.Run(ctx)

	explorer.Start(ctx)

	// Watcher-triggered refreshes are throttled so a burst of file events
	// becomes at most one reload per gap.
	refreshThrottle := rate.NewLimiter(rate.Every(cfg.RefreshMinGap), 1)

	model := tui.NewModel(explorer, watcher.Events(), refreshThrottle, log)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		log.Error("tui exited with error", "error", err)
		os.Exit(1)
	}

	log.Info("logscope shut down")
}
