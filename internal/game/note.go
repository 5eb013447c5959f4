package game

import "time"

// NoteKind is the value of one beat cell in a chart track.
type NoteKind int

const (
	None NoteKind = iota
	Tap
	HoldStart
	HoldEnd
	// Effect is the first effect code, every value above it is an effect too.
	Effect
)

// KindOf maps a raw chart value to its kind.
func KindOf(value int) NoteKind {
	switch {
	case value <= 0:
		return None
	case value >= int(Effect):
		return Effect
	}
	return NoteKind(value)
}

func (k NoteKind) String() string {
	switch k {
	case None:
		return "none"
	case Tap:
		return "tap"
	case HoldStart:
		return "hold-start"
	case HoldEnd:
		return "hold-end"
	}
	return "effect"
}

// EffectTrack is the track index given to events of the chart's effect track.
const EffectTrack = -1

// NoteEvent is one timed entry derived from a chart.
type NoteEvent struct {
	Track    int           // The chart column, EffectTrack for the effect track
	Beat     int           // The beat index the event was read from
	Time     time.Duration // Chart relative time the note should be hit
	Duration time.Duration // Hold length, 0 for everything but a matched hold
	Kind     NoteKind
	Value    int // The raw chart value, the effect code for effects
}

// End is the time a hold should be released.
func (e *NoteEvent) End() time.Duration {
	return e.Time + e.Duration
}

// Playable reports whether the event spawns a note the player has to hit.
func (e *NoteEvent) Playable() bool {
	return e.Track != EffectTrack && (e.Kind == Tap || e.Kind == HoldStart)
}

// IsHold reports whether the event is a hold with a length.
func (e *NoteEvent) IsHold() bool {
	return e.Kind == HoldStart && e.Duration > 0
}
