package session

import (
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
)

// DefaultReplayStep is the tick period of a replay, a 240Hz frame.
const DefaultReplayStep = time.Second / 240

// Replay plays recorded inputs against a chart on a manual clock and
// returns the summary they earn.
func Replay(cfg Config, chart *game.Chart, history *score.History, step time.Duration, logger *log.Logger) (score.Summary, error) {
	if step <= 0 {
		step = DefaultReplayStep
	}
	if history.Speed > 0 {
		cfg.Scheduler.Speed = history.Speed
	}
	cfg.Debug = false

	clk := clock.NewManual(0)
	s, err := New(cfg, clk, nil, nil, logger)
	if nil != err {
		return score.Summary{}, err
	}
	if err := s.Start(chart); nil != err {
		return score.Summary{}, err
	}
	audioStart := s.sched.AudioStart()

	inputs := make([]game.Input, len(history.Inputs))
	copy(inputs, history.Inputs)
	sort.SliceStable(inputs, func(i, j int) bool {
		return inputs[i].HitTime < inputs[j].HitTime
	})

	next := 0
	for now := time.Duration(0); ; now += step {
		// Inputs are handled before the tick of their frame
		for next < len(inputs) && audioStart+inputs[next].HitTime <= now {
			clk.Set(audioStart + inputs[next].HitTime)
			if inputs[next].Release {
				s.Release(inputs[next].Index)
			} else {
				s.Press(inputs[next].Index)
			}
			next++
		}
		clk.Set(now)
		s.Tick()
		if next == len(inputs) && (s.Finished() || s.sched.Done()) {
			break
		}
	}
	summary := s.Summary()
	s.Stop()
	return summary, nil
}
