package memory

import (
	"context"
	"sync"
	"time"

	"pollstation/contexts/polling-station/kiosk-session/domain/entities"
	"pollstation/contexts/polling-station/kiosk-session/ports"

	"github.com/google/uuid"
)

// Journal is an in-memory AuditJournal for unit tests.
type Journal struct {
	mu      sync.Mutex
	entries []entities.AuditEntry
	failErr error
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) FailWith(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failErr = err
}

func (j *Journal) Append(_ context.Context, entry entities.AuditEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failErr != nil {
		return j.failErr
	}
	j.entries = append(j.entries, entry)
	return nil
}

func (j *Journal) Entries() []entities.AuditEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]entities.AuditEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *Journal) Now() time.Time {
	return time.Now().UTC()
}

func (j *Journal) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// ManualScheduler captures scheduled tasks so tests can fire or cancel the
// auto-reset timers deterministically.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*ManualTimer
}

type ManualTimer struct {
	mu      sync.Mutex
	fn      func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) ports.Timer {
	task := &ManualTimer{fn: fn, delay: delay}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
	return task
}

func (s *ManualScheduler) Pending() []*ManualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ManualTimer, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// FireLast runs the most recently scheduled task if it is still armed.
func (s *ManualScheduler) FireLast() bool {
	s.mu.Lock()
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return false
	}
	task := s.tasks[len(s.tasks)-1]
	s.mu.Unlock()
	return task.Fire()
}

func (t *ManualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (t *ManualTimer) Fire() bool {
	t.mu.Lock()
	if t.fired || t.stopped {
		t.mu.Unlock()
		return false
	}
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
	return true
}

func (t *ManualTimer) Delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delay
}

func (t *ManualTimer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
