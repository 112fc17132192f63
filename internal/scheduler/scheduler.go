package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAutosaveInterval = 5 * time.Minute
	rolloverCheckInterval   = time.Minute
	clockSyncInterval       = time.Hour
)

// Maintainer is the part of the quiz engine the scheduler drives
type Maintainer interface {
	// Autosave flushes in-memory state to disk
	Autosave() error
	// CheckRollover starts a new day if the date has changed
	CheckRollover() error
}

// ClockSyncer refreshes the time offset
type ClockSyncer interface {
	Sync(ctx context.Context)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	engine    Maintainer
	clock     ClockSyncer
	log       *logrus.Logger
	ctx       context.Context
}

// New creates a new scheduler instance. clock may be nil.
func New(ctx context.Context, engine Maintainer, clock ClockSyncer, loc *time.Location, log *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		engine:    engine,
		clock:     clock,
		log:       log,
		ctx:       ctx,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start(autosaveInterval time.Duration) error {
	if autosaveInterval <= 0 {
		autosaveInterval = DefaultAutosaveInterval
	}

	if _, err := s.scheduler.Every(autosaveInterval).WaitForSchedule().Do(s.autosave); err != nil {
		return err
	}
	if _, err := s.scheduler.Every(rolloverCheckInterval).Do(s.checkRollover); err != nil {
		return err
	}
	if s.clock != nil {
		if _, err := s.scheduler.Every(clockSyncInterval).Do(s.syncClock); err != nil {
			return err
		}
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) autosave() {
	if err := s.engine.Autosave(); err != nil {
		s.log.Warnf("Autosave failed: %v", err)
	}
}

func (s *Scheduler) checkRollover() {
	if err := s.engine.CheckRollover(); err != nil {
		s.log.Warnf("Day rollover check failed: %v", err)
	}
}

func (s *Scheduler) syncClock() {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	s.clock.Sync(ctx)
}
