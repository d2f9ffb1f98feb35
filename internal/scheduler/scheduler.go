package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper drops expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

type Scheduler struct {
	cron        *cron.Cron
	sessions    Sweeper
	logger      *zap.Logger
	schedule    string
	mu          sync.Mutex
	running     bool
	lastRun     time.Time
	lastRemoved int
}

func NewScheduler(sessions Sweeper, schedule string, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		sessions: sessions,
		logger:   logger,
		schedule: schedule,
	}

	s.cron = cron.New(cron.WithLogger(cronLogger{logger.Sugar()}))
	if _, err := s.cron.AddFunc(schedule, func() { s.runSweep() }); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.cron.Start()

	s.logger.Info("Session sweeper started", zap.String("schedule", s.schedule))
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping session sweeper")
	<-s.cron.Stop().Done()
}

// ForceRun sweeps immediately and returns the number of sessions removed.
func (s *Scheduler) ForceRun() int {
	s.logger.Info("Manually triggering session sweep")
	return s.runSweep()
}

func (s *Scheduler) runSweep() int {
	startTime := time.Now()
	removed := s.sessions.Sweep()

	s.mu.Lock()
	s.lastRun = startTime
	s.lastRemoved = removed
	s.mu.Unlock()

	s.logger.Debug("Session sweep completed",
		zap.Int("removed", removed),
		zap.Duration("duration", time.Since(startTime)))

	return removed
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":      s.running,
		"schedule":     s.schedule,
		"last_run":     s.lastRun,
		"last_removed": s.lastRemoved,
	}
	if entries := s.cron.Entries(); len(entries) > 0 && s.running {
		status["next_run"] = entries[0].Next
	}
	return status
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
