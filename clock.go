package orrery

import (
	"sync"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Clock tracks simulated time for the visualization. It starts paused at a
// base instant, advances at a configurable multiple of wall time while
// running, and can be jumped or stepped manually. It is safe for concurrent
// use and is the only owner of time state: the engine itself is stateless
// and takes a Julian Date per call.
type Clock struct {
	mu       sync.RWMutex
	base     time.Time // simulated time at the last state change
	baseWall time.Time // wall time at the last state change
	rate     float64
	running  bool

	now func() time.Time // wall clock source, replaceable in tests
}

// ClockState is the JSON snapshot sent to time-control clients.
type ClockState struct {
	CurrentTime time.Time `json:"current_time"`
	IsRunning   bool      `json:"is_running"`
	TimeSpeed   float64   `json:"time_speed"`
	JulianDate  float64   `json:"julian_date"`
}

// NewClock returns a paused clock at the provided simulated start time with
// a 1x rate.
func NewClock(start time.Time) *Clock {
	return &Clock{base: start.UTC(), rate: 1.0, now: time.Now}
}

// currentLocked computes the simulated time. Callers must hold at least a
// read lock.
func (c *Clock) currentLocked() time.Time {
	if !c.running {
		return c.base
	}
	elapsed := c.now().Sub(c.baseWall)
	return c.base.Add(time.Duration(float64(elapsed) * c.rate))
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentLocked()
}

// JD returns the current simulated time as a Julian Date.
func (c *Clock) JD() float64 {
	return julian.TimeToJD(c.Now())
}

// Start resumes the flow of simulated time. Starting a running clock is a
// no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.base = c.currentLocked()
	c.baseWall = c.now()
	c.running = true
}

// Stop pauses the flow of simulated time. Stopping a paused clock is a
// no-op.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.base = c.currentLocked()
	c.running = false
}

// SetRate changes the simulated-to-wall time multiplier. Negative rates are
// clamped to zero; reversing time is done by jumping with SetTime instead.
func (c *Clock) SetRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.currentLocked()
	c.baseWall = c.now()
	c.rate = rate
}

// SetTime jumps the simulated time to t without changing the run state.
func (c *Clock) SetTime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = t.UTC()
	c.baseWall = c.now()
}

// Step advances the simulated time by d, running or not.
func (c *Clock) Step(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.currentLocked().Add(d)
	c.baseWall = c.now()
}

// Rate returns the current time multiplier.
func (c *Clock) Rate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rate
}

// Running reports whether simulated time is flowing.
func (c *Clock) Running() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// State returns a consistent snapshot for time-control clients.
func (c *Clock) State() ClockState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cur := c.currentLocked()
	return ClockState{
		CurrentTime: cur,
		IsRunning:   c.running,
		TimeSpeed:   c.rate,
		JulianDate:  julian.TimeToJD(cur),
	}
}
