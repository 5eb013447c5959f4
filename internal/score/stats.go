package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

var (
	points   = [len(game.Tiers)]int{100, 80, 50, 20, 0}
	accuracy = [len(game.Tiers)]float64{100, 80, 60, 30, 0}
)

// Stats accumulates judgements into a running score.
type Stats struct {
	Counts   [len(game.Tiers)]int
	Score    int
	Combo    int
	MaxCombo int

	judged int
	weight float64

	// Running mean and variance of signed hit errors, in nanoseconds
	hits int
	mean float64
	m2   float64
}

func (s *Stats) Judged(r game.JudgeResult) {
	s.Counts[r.Tier]++
	s.judged++
	s.weight += accuracy[r.Tier]

	if r.Tier == game.Miss {
		s.Combo = 0
		return
	}

	s.Score += points[r.Tier] * (1 + s.Combo/50)
	s.Combo++
	if s.Combo > s.MaxCombo {
		s.MaxCombo = s.Combo
	}

	if r.Kind == game.HoldEnd {
		// Tails are judged by the head, their error says nothing
		return
	}
	s.hits++
	x := float64(r.Error)
	delta := x - s.mean
	s.mean += delta / float64(s.hits)
	s.m2 += delta * (x - s.mean)
}

func (s *Stats) Reset() {
	*s = Stats{}
}

// Accuracy in percent, 0 before the first judgement.
func (s *Stats) Accuracy() float64 {
	if s.judged == 0 {
		return 0
	}
	return s.weight / float64(s.judged)
}

func (s *Stats) Mean() time.Duration {
	return time.Duration(math.Round(s.mean))
}

// Stdev is the sample standard deviation of hit errors.
func (s *Stats) Stdev() time.Duration {
	if s.hits < 2 {
		return 0
	}
	return time.Duration(math.Round(math.Sqrt(s.m2 / float64(s.hits-1))))
}

func Grade(accuracy float64) string {
	switch {
	case accuracy >= 95:
		return "S"
	case accuracy >= 90:
		return "A"
	case accuracy >= 80:
		return "B"
	case accuracy >= 70:
		return "C"
	}
	return "D"
}

func (s *Stats) Summary() Summary {
	return Summary{
		Counts:   s.Counts,
		Score:    s.Score,
		MaxCombo: s.MaxCombo,
		Accuracy: s.Accuracy(),
		Grade:    Grade(s.Accuracy()),
		Mean:     s.Mean(),
		Stdev:    s.Stdev(),
	}
}
