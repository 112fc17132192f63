package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeEngine struct {
	saves     atomic.Int32
	rollovers atomic.Int32
}

func (f *fakeEngine) Autosave() error {
	f.saves.Add(1)
	return nil
}

func (f *fakeEngine) CheckRollover() error {
	f.rollovers.Add(1)
	return nil
}

type fakeClock struct {
	syncs atomic.Int32
}

func (f *fakeClock) Sync(ctx context.Context) {
	f.syncs.Add(1)
}

func TestStartRunsRolloverAndClockImmediately(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	engine := &fakeEngine{}
	clock := &fakeClock{}
	s := New(context.Background(), engine, clock, time.UTC, log)
	if err := s.Start(time.Hour); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if engine.rollovers.Load() > 0 && clock.syncs.Load() > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if engine.rollovers.Load() == 0 {
		t.Error("rollover check did not run on start")
	}
	if clock.syncs.Load() == 0 {
		t.Error("clock sync did not run on start")
	}
	if engine.saves.Load() != 0 {
		t.Error("autosave should wait for its first interval")
	}
}
