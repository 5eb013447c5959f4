package effect

import (
	"sort"
	"time"

	"git.lost.host/meutraa/lanes/internal/deferred"
	"git.lost.host/meutraa/lanes/internal/game"
)

const DefaultDuration = 3 * time.Second

// Sink shows or hides an effect.
type Sink interface {
	Effect(code int, on bool)
}

type SinkFunc func(code int, on bool)

func (f SinkFunc) Effect(code int, on bool) { f(code, on) }

// Manager switches effects on at their beat and off again after Duration.
// Switch offs are entries of a deferred queue drained by the caller.
type Manager struct {
	Duration time.Duration

	queue  *deferred.Queue
	sink   Sink
	events []game.NoteEvent
	next   int
	active map[int]*deferred.Entry
}

func New(queue *deferred.Queue, duration time.Duration, sink Sink) *Manager {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Manager{
		Duration: duration,
		queue:    queue,
		sink:     sink,
		active:   map[int]*deferred.Entry{},
	}
}

// Load keeps the effect events of a chart, the rest is ignored.
func (m *Manager) Load(events []game.NoteEvent) {
	m.Reset()
	m.events = m.events[:0]
	for _, e := range events {
		if e.Kind == game.Effect {
			m.events = append(m.events, e)
		}
	}
	sort.SliceStable(m.events, func(i, j int) bool {
		return m.events[i].Time < m.events[j].Time
	})
	m.next = 0
}

// Tick triggers every effect due at the song position.
func (m *Manager) Tick(position, now time.Duration) {
	if position < 0 {
		return
	}
	for m.next < len(m.events) && m.events[m.next].Time <= position {
		m.Trigger(m.events[m.next].Value, now)
		m.next++
	}
}

// Trigger switches an effect on. An effect that is already on stays on and
// its switch off is pushed back.
func (m *Manager) Trigger(code int, now time.Duration) {
	if e, ok := m.active[code]; ok {
		m.queue.Cancel(e)
	} else if nil != m.sink {
		m.sink.Effect(code, true)
	}
	m.active[code] = m.queue.Schedule(now+m.Duration, func() {
		delete(m.active, code)
		if nil != m.sink {
			m.sink.Effect(code, false)
		}
	})
}

func (m *Manager) Active(code int) bool {
	_, ok := m.active[code]
	return ok
}

// Reset switches every effect off.
func (m *Manager) Reset() {
	for code, e := range m.active {
		m.queue.Cancel(e)
		delete(m.active, code)
		if nil != m.sink {
			m.sink.Effect(code, false)
		}
	}
	m.next = len(m.events)
}
