package game

import (
	"math"
	"time"
)

type Chart struct {
	Name   string
	BPM    float64
	Audio  string        // Path of the song, relative to the chart file
	Length time.Duration // Audio length used for padding, 0 if unknown

	// One entry per beat, all tracks have the same length
	Tracks      [][]int
	EffectTrack []int
}

// BeatTime converts a beat index to chart relative time.
func BeatTime(beat int, bpm float64) time.Duration {
	return time.Duration(math.Round(float64(beat) * 60 / bpm * float64(time.Second)))
}

// BeatAt is the beat index playing at the given chart relative time.
func BeatAt(t time.Duration, bpm float64) int {
	return int(math.Floor(t.Seconds() * bpm / 60))
}

// TotalBeats is the number of beats that fit in length.
func TotalBeats(length time.Duration, bpm float64) int {
	return int(math.Floor(length.Seconds() / 60 * bpm))
}

func (c *Chart) NumTracks() int {
	return len(c.Tracks)
}

// Beats is the padded length of every track.
func (c *Chart) Beats() int {
	if len(c.Tracks) == 0 {
		return len(c.EffectTrack)
	}
	return len(c.Tracks[0])
}

// EffectAt returns the effect track value of the beat playing at position,
// 0 outside the chart.
func (c *Chart) EffectAt(position time.Duration) int {
	if position < 0 || c.BPM <= 0 {
		return 0
	}
	beat := BeatAt(position, c.BPM)
	if beat >= len(c.EffectTrack) {
		return 0
	}
	return c.EffectTrack[beat]
}

// NoteCount counts the notes a player has to hit, holds count once. A hold
// is judged twice, for its head and for its tail, so a chart yields
// notes+holds judgements.
func (c *Chart) NoteCount() (notes, holds int) {
	events := Generate(c)
	for i := range events {
		if !events[i].Playable() {
			continue
		}
		notes++
		if events[i].IsHold() {
			holds++
		}
	}
	return notes, holds
}
