// Package clock provides the wall clocks sessions run on. Wall clock values
// are durations since an arbitrary epoch.
package clock

import "time"

type Clock interface {
	Now() time.Duration
}

// Monotonic counts from its creation.
type Monotonic struct {
	start time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

func (m *Monotonic) Now() time.Duration {
	return time.Since(m.start)
}

// Pausable freezes the wrapped clock while paused.
type Pausable struct {
	source  Clock
	paused  bool
	pauseAt time.Duration
	total   time.Duration // Cumulative pause duration
}

func NewPausable(source Clock) *Pausable {
	return &Pausable{source: source}
}

func (p *Pausable) Now() time.Duration {
	if p.paused {
		return p.pauseAt - p.total
	}
	return p.source.Now() - p.total
}

func (p *Pausable) Pause() {
	if p.paused {
		return
	}
	p.paused = true
	p.pauseAt = p.source.Now()
}

func (p *Pausable) Resume() {
	if !p.paused {
		return
	}
	p.paused = false
	p.total += p.source.Now() - p.pauseAt
}

func (p *Pausable) IsPaused() bool {
	return p.paused
}

// Paused is the cumulative time spent paused.
func (p *Pausable) Paused() time.Duration {
	if p.paused {
		return p.total + p.source.Now() - p.pauseAt
	}
	return p.total
}

// Manual only moves when told to.
type Manual struct {
	now time.Duration
}

func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Duration {
	return m.now
}

func (m *Manual) Set(t time.Duration) {
	m.now = t
}

func (m *Manual) Advance(d time.Duration) {
	m.now += d
}
