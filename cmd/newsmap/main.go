package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"newsmap/internal/config"
	"newsmap/internal/logger"
	"newsmap/internal/metrics"
	"newsmap/internal/pipeline"
)

func main() {
	scrapeMode := flag.Bool("scrape", false, "crawl the configured news sites into the input dir")
	rssMode := flag.Bool("rss", false, "pull the configured RSS feeds into the input dir")
	eventsMode := flag.Bool("events", false, "extract event records from the input dir")
	digestMode := flag.Bool("digest", false, "build the per-country topic digest")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger.Init(cfg.Debug)

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	p := pipeline.New(cfg)
	ctx := context.Background()

	// No mode flag runs the full processing chain over existing input.
	runAll := !*scrapeMode && !*rssMode && !*eventsMode && !*digestMode

	if *scrapeMode {
		if err := p.RunScrape(); err != nil {
			log.Fatalf("scrape failed: %v", err)
		}
	}
	if *rssMode {
		if err := p.RunRSS(); err != nil {
			log.Fatalf("rss fetch failed: %v", err)
		}
	}
	if *eventsMode || runAll {
		if err := p.RunEvents(ctx); err != nil {
			log.Fatalf("event extraction failed: %v", err)
		}
	}
	if *digestMode || runAll {
		if err := p.RunDigest(ctx); err != nil {
			log.Fatalf("digest failed: %v", err)
		}
	}
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	log.Printf("Starting monitoring server on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("Monitoring server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
