/*
scheduler.go - Automated suggestion generation scheduler

PURPOSE:
  Periodically runs a persisted suggestion generation for the current
  period, so PENDING rows track the latest numbers without manual calls
  to /api/suggestions/generate.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Each tick generates for "now" in the configured period type
  - Generation is idempotent: decided rows are never overwritten, so
    repeated ticks only refresh rows still awaiting a decision

CONFIGURATION:
  - CheckInterval: How often to run (default: 1 hour)
  - PeriodType: Which period to generate for (default: MONTH)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewSuggestionScheduler(wf, scope)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GenerateSuggestions endpoint (manual generation)
  - review/workflow.go: GenerateAndPersist
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/performance-engine/perf"
	"github.com/warp/performance-engine/review"
)

// SuggestionScheduler handles automated periodic suggestion generation.
type SuggestionScheduler struct {
	Workflow      *review.Workflow
	Scope         perf.Scope
	CheckInterval time.Duration
	PeriodType    perf.PeriodType
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSuggestionScheduler creates a new scheduler with default settings.
func NewSuggestionScheduler(wf *review.Workflow, scope perf.Scope) *SuggestionScheduler {
	return &SuggestionScheduler{
		Workflow:      wf,
		Scope:         scope,
		CheckInterval: 1 * time.Hour,
		PeriodType:    perf.PeriodMonth,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ss *SuggestionScheduler) Start() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if !ss.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ss.ticker = time.NewTicker(ss.CheckInterval)
	ss.wg.Add(1)

	go ss.run()

	log.Printf("[Scheduler] Started with check interval: %v", ss.CheckInterval)
}

// Stop halts the scheduler and waits for the current run to finish.
func (ss *SuggestionScheduler) Stop() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.ticker == nil {
		return
	}

	ss.ticker.Stop()
	close(ss.stop)
	ss.wg.Wait()
	ss.ticker = nil

	log.Println("[Scheduler] Stopped")
}

func (ss *SuggestionScheduler) run() {
	defer ss.wg.Done()

	// Run once at startup so a fresh process has current suggestions.
	ss.generate()

	for {
		select {
		case <-ss.ticker.C:
			ss.generate()
		case <-ss.stop:
			return
		}
	}
}

func (ss *SuggestionScheduler) generate() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := ss.Workflow.GenerateAndPersist(ctx, ss.Scope, ss.PeriodType, time.Now().UTC(), "scheduler")
	if err != nil {
		schedulerRuns.WithLabelValues("error").Inc()
		log.Printf("[Scheduler] Generation failed: %v", err)
		return
	}

	schedulerRuns.WithLabelValues("ok").Inc()
	suggestionsGenerated.Add(float64(result.Created))
	log.Printf("[Scheduler] Generation done: %d created, %d updated, %d untouched",
		result.Created, result.Updated, result.Untouched)
}
