package timer

import (
	"time"

	"pollstation/contexts/polling-station/kiosk-session/ports"
)

// Scheduler arms real single-shot timers.
type Scheduler struct{}

type handle struct {
	t *time.Timer
}

func (h handle) Stop() bool {
	return h.t.Stop()
}

func (Scheduler) Schedule(delay time.Duration, fn func()) ports.Timer {
	return handle{t: time.AfterFunc(delay, fn)}
}
