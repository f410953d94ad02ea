package driver

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidInterval = errors.New("driver: interval must be positive")

// TaskFunc runs one occurrence of a task and reports whether the task wants
// to run again one interval later.
type TaskFunc func(now time.Time) bool

type task struct {
	name     string
	interval time.Duration
	next     time.Duration
	fn       TaskFunc
}

// Scheduler fires periodic tasks on a virtual clock. Tasks due at the same
// instant run in registration order.
type Scheduler struct {
	start time.Time
	now   time.Duration
	tasks []*task
}

func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{start: start}
}

// Every registers fn to first run one interval from now.
func (s *Scheduler) Every(name string, interval time.Duration, fn TaskFunc) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	s.tasks = append(s.tasks, &task{
		name:     name,
		interval: interval,
		next:     s.now + interval,
		fn:       fn,
	})
	return nil
}

// Cancel drops a task; it is a no-op for unknown names.
func (s *Scheduler) Cancel(name string) {
	for i, t := range s.tasks {
		if t.name == name {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

func (s *Scheduler) Pending(name string) bool {
	for _, t := range s.tasks {
		if t.name == name {
			return true
		}
	}
	return false
}

func (s *Scheduler) Now() time.Time { return s.start.Add(s.now) }

func (s *Scheduler) Elapsed() time.Duration { return s.now }

// RunFor advances the clock by d, firing every task that falls due.
func (s *Scheduler) RunFor(ctx context.Context, d time.Duration) error {
	end := s.now + d
	for {
		t := s.due()
		if t == nil || t.next > end {
			s.now = end
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.now = t.next
		if t.fn(s.start.Add(s.now)) {
			t.next += t.interval
		} else {
			s.Cancel(t.name)
		}
	}
}

func (s *Scheduler) due() *task {
	var first *task
	for _, t := range s.tasks {
		if first == nil || t.next < first.next {
			first = t
		}
	}
	return first
}
