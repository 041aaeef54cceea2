// ABOUTME: Software interval timer for hosts without a hardware timer
// ABOUTME: Calls the ISR once per elapsed timer period from a ticker goroutine
package output

import (
	"errors"
	"sync"
	"time"
)

// DefaultTimerResolution is how often SoftTimer wakes up to catch up on ticks
const DefaultTimerResolution = time.Millisecond

// SoftTimer emulates a bus-clocked interval timer. A goroutine wakes every
// Resolution and calls the ISR once for every period that elapsed since the
// previous wake-up, so the average rate matches the hardware timer.
type SoftTimer struct {
	BusClock   uint32
	Resolution time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

var _ IntervalTimer = (*SoftTimer)(nil)

// NewSoftTimer creates a stopped software timer for the given bus clock
func NewSoftTimer(busClock uint32) *SoftTimer {
	return &SoftTimer{
		BusClock:   busClock,
		Resolution: DefaultTimerResolution,
	}
}

// Begin starts calling isr every period+1 bus cycles
func (t *SoftTimer) Begin(isr func(), period uint32) error {
	if t.BusClock == 0 {
		return errors.New("soft timer: bus clock not set")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		return errors.New("soft timer: already running")
	}

	res := t.Resolution
	if res <= 0 {
		res = DefaultTimerResolution
	}
	interval := time.Duration((float64(period) + 1) * float64(time.Second) / float64(t.BusClock))
	if interval <= 0 {
		interval = 1
	}

	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(isr, interval, res, t.stop, t.done)
	return nil
}

// End stops the timer. No ISR runs after End returns.
func (t *SoftTimer) End() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop = nil
	t.done = nil
}

func (t *SoftTimer) run(isr func(), interval, res time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(res)
	defer ticker.Stop()

	// never replay more than one second of missed ticks
	maxCatchUp := uint64(time.Second / interval)
	if maxCatchUp == 0 {
		maxCatchUp = 1
	}

	start := time.Now()
	var fired uint64

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			due := uint64(now.Sub(start) / interval)
			if due-fired > maxCatchUp {
				fired = due - maxCatchUp
			}
			for ; fired < due; fired++ {
				select {
				case <-stop:
					return
				default:
				}
				isr()
			}
		}
	}
}
