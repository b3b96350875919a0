/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the performance ranking server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load layered config (defaults, PERF_CONFIG file, PERF_* env)
  2. Apply command-line flag overrides
  3. Initialize SQLite store
  4. Build ranking engine and decision workflow
  5. Apply tenant rule-set file if configured
  6. Configure HTTP router, start scheduler
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    HTTP listen address (default from config, ":8080")
  -db      SQLite database path (default: performance.db)
           Use ":memory:" for in-memory database
  -rules   Tenant rule-set JSON file (optional)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/performance.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run with tenant rule overrides
  ./server -rules="./rules.json"

SEE ALSO:
  - config/config.go: Layered configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/performance-engine/api"
	"github.com/warp/performance-engine/config"
	"github.com/warp/performance-engine/factory"
	"github.com/warp/performance-engine/perf"
	"github.com/warp/performance-engine/review"
	"github.com/warp/performance-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override config
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	rulesPath := flag.String("rules", cfg.RulesPath, "Tenant rule-set JSON file")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Build engine and workflow
	engine := perf.NewEngine(store.Sources())
	workflow := review.NewWorkflow(engine, store)

	// Apply tenant rule overrides
	if *rulesPath != "" {
		raw, err := os.ReadFile(*rulesPath)
		if err != nil {
			log.Fatalf("Failed to read rule-set file: %v", err)
		}
		rules, err := factory.NewRuleFactory().ParseRuleSet(string(raw))
		if err != nil {
			log.Fatalf("Failed to parse rule-set file: %v", err)
		}
		workflow.Scoring = rules.Scoring
		workflow.Thresholds = rules.Thresholds
		workflow.Rules = rules.Eligibility
		log.Printf("Loaded rule set for org %q from %s", rules.OrgID, *rulesPath)
	}

	handler := api.NewHandler(store, workflow, cfg.DefaultOrgID)
	router := api.NewRouter(handler)

	// Background suggestion generation
	scheduler := api.NewSuggestionScheduler(workflow, perf.Scope{OrgID: cfg.DefaultOrgID})
	scheduler.CheckInterval = cfg.SchedulerInterval
	scheduler.Enabled = cfg.SchedulerEnabled
	if pt, ok := perf.ParsePeriodType(cfg.SchedulerPeriod); ok {
		scheduler.PeriodType = pt
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("API available at http://localhost%s/api", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
