package score

import (
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

// Recorder keeps the performances of every chart.
type Recorder interface {
	// Save the state of this performance
	Save(chart *game.Chart, history *History) error

	// Load up previous state for the chart
	Load(chart *game.Chart) ([]History, error)

	// Best is the highest scoring performance of the chart
	Best(chart *game.Chart) (*History, error)
}

type History struct {
	Sum    string
	Inputs []game.Input
	Speed  float64
	Played time.Time
	Summary
}

type Summary struct {
	Counts   [len(game.Tiers)]int
	Score    int
	MaxCombo int
	Accuracy float64 // Percent
	Grade    string
	Mean     time.Duration // Mean signed timing error of hits
	Stdev    time.Duration
}

// MissCount is the number of missed notes and broken holds.
func (s *Summary) MissCount() int {
	return s.Counts[game.Miss]
}
