package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ForexPulse/internal/pipeline"
)

// Scheduler drives periodic pipeline runs and answers manual commands.
type Scheduler struct {
	Cron       *cron.Cron
	Pipeline   *pipeline.Pipeline
	RunTimeout time.Duration
	Ctx        context.Context

	mu          sync.Mutex
	lastSummary string
	lastRunAt   time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, runTimeout time.Duration) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = 5 * time.Minute
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Pipeline:   p,
		RunTimeout: runTimeout,
		Ctx:        ctx,
	}
}

// Register registers the periodic pipeline run.
func (s *Scheduler) Register(cronSpec string) error {
	if _, err := s.Cron.AddFunc(cronSpec, s.runTask); err != nil {
		return fmt.Errorf("register pipeline task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one pipeline run immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runTask()
}

func (s *Scheduler) runTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, s.RunTimeout)
	defer cancel()

	results, err := s.Pipeline.Run(ctx)
	if err != nil {
		log.Printf("[ERROR] pipeline run: %v", err)
	}

	s.mu.Lock()
	s.lastSummary = pipeline.Summary(results)
	s.lastRunAt = time.Now().UTC()
	s.mu.Unlock()
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		go s.RunNow()
		return "Run started."
	case "/status":
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.lastSummary == "" {
			return "No runs yet."
		}
		return fmt.Sprintf("Last run %s UTC:\n%s", s.lastRunAt.Format("2006-01-02 15:04:05"), s.lastSummary)
	default:
		return "Available commands:\n• /run — process all pairs now\n• /status — last run report"
	}
}
