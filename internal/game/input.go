package game

import "time"

// Input is one key event on a track, as recorded for replays.
type Input struct {
	Index   int           // The track
	HitTime time.Duration // Wall clock relative to the song start
	Release bool
}
