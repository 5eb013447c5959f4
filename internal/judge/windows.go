package judge

import (
	"fmt"

	"git.lost.host/meutraa/lanes/internal/game"
)

// Windows are judgement thresholds in travel distance units.
type Windows struct {
	Perfect, Great, Good, Bad float64
	// How early a note may be pressed and still be judged
	Judge float64
	// How late a note may be pressed, past it the scheduler misses it
	MissAllowance float64
}

var DefaultWindows = Windows{
	Perfect:       1.0,
	Great:         2.0,
	Good:          3.5,
	Bad:           4.0,
	Judge:         4.0,
	MissAllowance: 1.0,
}

func (w Windows) Validate() error {
	ordered := []float64{w.Perfect, w.Great, w.Good, w.Bad}
	for i, v := range ordered {
		if v <= 0 {
			return fmt.Errorf("%v window must be positive, got %v", game.Tier(i), v)
		}
		if i > 0 && v < ordered[i-1] {
			return fmt.Errorf("%v window %v is narrower than %v window %v", game.Tier(i), v, game.Tier(i-1), ordered[i-1])
		}
	}
	if w.Judge <= 0 || w.MissAllowance < 0 {
		return fmt.Errorf("judge range %v and miss allowance %v must be positive", w.Judge, w.MissAllowance)
	}
	return nil
}

// Classify maps an absolute distance to a tier, narrowest window first.
// It reports false past the bad window, such a press judges nothing.
func (w Windows) Classify(distance float64) (game.Tier, bool) {
	switch {
	case distance <= w.Perfect:
		return game.Perfect, true
	case distance <= w.Great:
		return game.Great, true
	case distance <= w.Good:
		return game.Good, true
	case distance <= w.Bad:
		return game.Bad, true
	}
	return game.Miss, false
}

// Contains reports whether a signed distance, positive when late, is inside
// the window a press can see.
func (w Windows) Contains(signed float64) bool {
	return signed >= -w.Judge && signed <= w.MissAllowance
}
