package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Appends synthetic NDJSON log entries to a file so the explorer can be
// exercised against a live-growing log without a real workload.

var levels = []string{"DEBUG", "INFO", "INFO", "INFO", "WARNING", "ERROR"}

var categories = []string{
	"agent.run", "agent.tool", "http.request", "db.query", "cache", "scheduler",
}

var messages = []string{
	"request completed",
	"tool invocation finished",
	"cache miss, falling back to source",
	"retrying after transient failure",
	"slow query detected",
	"worker picked up job",
}

func main() {
	path := flag.String("file", "generated.log", "Log file to append to")
	lps := flag.Float64("rate", 10, "Lines per second")
	duration := flag.Duration("d", 0, "How long to generate for (0 = until interrupted)")
	flag.Parse()

	out, err := os.OpenFile(*path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *path, err)
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	log.Printf("Appending to %s at %.1f lines/s", *path, *lps)

	runID := uuid.NewString()
	limiter := rate.NewLimiter(rate.Limit(*lps), 1)
	written := 0

	for {
		if err := limiter.Wait(ctx); err != nil {
			break
		}

		level := levels[rand.Intn(len(levels))]
		entry := map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"level":     level,
			"category":  categories[rand.Intn(len(categories))],
			"message":   messages[rand.Intn(len(messages))],
			"context": map[string]any{
				"run_id":     runID,
				"request_id": uuid.NewString(),
			},
		}
		if level == "ERROR" {
			entry["exception"] = "RuntimeError: synthetic failure"
		}
		if rand.Intn(3) == 0 {
			entry["durationMs"] = rand.Float64() * 500
		}

		data, err := json.Marshal(entry)
		if err != nil {
			log.Fatalf("failed to marshal entry: %v", err)
		}
		if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
			log.Fatalf("failed to write entry: %v", err)
		}
		written++
	}

	log.Printf("Done, wrote %d lines", written)
}
