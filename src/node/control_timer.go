package node

import (
	"time"
)

type timerFactory func(time.Duration) <-chan time.Time

// ControlTimer paces the anti-entropy rounds. It signals tickCh when the timer
// fires and stays idle until it is reset, so a slow round never queues up
// ticks behind it.
type ControlTimer struct {
	timerFactory timerFactory
	tickCh       chan struct{}      //sends a signal to listening process
	resetCh      chan time.Duration //receives instruction to reset the timer
	stopCh       chan struct{}      //receives instruction to stop the timer
	shutdownCh   chan struct{}      //receives instruction to exit Run loop
}

// NewControlTimer returns a ControlTimer driven by timerFactory.
func NewControlTimer(timerFactory timerFactory) *ControlTimer {
	return &ControlTimer{
		timerFactory: timerFactory,
		tickCh:       make(chan struct{}),
		resetCh:      make(chan time.Duration),
		stopCh:       make(chan struct{}),
		shutdownCh:   make(chan struct{}),
	}
}

// NewFixedControlTimer returns a ControlTimer that fires after exactly the
// requested duration. A zero duration never fires.
func NewFixedControlTimer() *ControlTimer {
	fixedTimeout := func(d time.Duration) <-chan time.Time {
		if d <= 0 {
			return nil
		}
		return time.After(d)
	}
	return NewControlTimer(fixedTimeout)
}

// Run arms the timer with init and serves it until Shutdown.
func (c *ControlTimer) Run(init time.Duration) {
	timer := c.timerFactory(init)
	for {
		select {
		case <-timer:
			timer = nil
			select {
			case c.tickCh <- struct{}{}:
			case <-c.shutdownCh:
				return
			}
		case t := <-c.resetCh:
			timer = c.timerFactory(t)
		case <-c.stopCh:
			timer = nil
		case <-c.shutdownCh:
			return
		}
	}
}

// Reset re-arms the timer. It returns immediately if the timer was shut down.
func (c *ControlTimer) Reset(d time.Duration) {
	select {
	case c.resetCh <- d:
	case <-c.shutdownCh:
	}
}

// Stop disarms the timer without shutting it down.
func (c *ControlTimer) Stop() {
	select {
	case c.stopCh <- struct{}{}:
	case <-c.shutdownCh:
	}
}

// Shutdown makes Run return. It must be called at most once.
func (c *ControlTimer) Shutdown() {
	close(c.shutdownCh)
}
