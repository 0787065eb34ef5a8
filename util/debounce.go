package util

import (
	"sync"
	"time"
)

// Debounce provides a function that will only return true once every
// d duration.
type Debounce struct {
	duration time.Duration
	lastCall time.Time
	mu       sync.Mutex
}

// NewDebounce returns a new debounce.
func NewDebounce(d time.Duration) *Debounce {
	return &Debounce{
		duration: d,
	}
}

// Check returns true if it has not been called in d duration.
func (d *Debounce) Check() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if time.Since(d.lastCall) > d.duration {
		d.lastCall = time.Now()
		return true
	}
	return false
}
