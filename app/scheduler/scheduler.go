package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler drives a Task from a single polling loop, so runs never overlap.
type Scheduler struct {
	task     *Task
	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewScheduler(task *Task, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{task: task, interval: interval}
}

func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(ctx)
	}()
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Run performs the startup export, then polls the trigger until ctx is done.
// Fire times missed while the process was down are not caught up.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("Scheduler started", "trigger", s.task.trigger.String(), "poll_interval", s.interval.String())

	s.task.RunNow(ctx)
	s.logNext()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.task.RunDue(ctx, s.task.now())
			s.logNext()
		}
	}
}

func (s *Scheduler) Status() Status {
	return s.task.Status()
}

func (s *Scheduler) logNext() {
	if next, ok := s.task.NextFireTime(); ok {
		slog.Info("Next scheduled run", "at", next.Format(time.RFC3339), "in", time.Until(next).Round(time.Second).String())
	}
}
