package judge

import (
	"log"
	"math"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/note"
	"git.lost.host/meutraa/lanes/internal/scheduler"
)

// Judge turns key presses into judgements. It only looks at the live notes
// of the scheduler while a press is handled and keeps none of them.
type Judge struct {
	sched   *scheduler.Scheduler
	windows Windows
	results game.ResultSink

	Logger *log.Logger
	Debug  bool
}

func New(s *scheduler.Scheduler, w Windows, results game.ResultSink) *Judge {
	return &Judge{sched: s, windows: w, results: results}
}

func (j *Judge) Windows() Windows {
	return j.windows
}

func (j *Judge) debugf(format string, args ...interface{}) {
	if !j.Debug {
		return
	}
	if nil != j.Logger {
		j.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// signed distance of a press from the head of n, positive when late
func (j *Judge) signed(n *note.Instance, at time.Duration) float64 {
	return n.Error(at).Seconds() * j.sched.Speed()
}

// Press judges the nearest unresolved note of the track. A press with no
// note in range judges nothing and is not a miss.
func (j *Judge) Press(track int, at time.Duration) (game.JudgeResult, bool) {
	var closest *note.Instance
	distance := math.Inf(1)
	for _, n := range j.sched.Live() {
		if n.Event.Track != track || !n.Judgeable() {
			continue
		}
		d := j.signed(n, at)
		if !j.windows.Contains(d) {
			continue
		}
		if math.Abs(d) < distance {
			distance = math.Abs(d)
			closest = n
		}
	}
	if nil == closest {
		j.debugf("press on track %v hit nothing\n", track)
		return game.JudgeResult{}, false
	}

	tier, ok := j.windows.Classify(distance)
	if !ok {
		j.debugf("press on track %v outside the bad window (%.2f)\n", track, distance)
		return game.JudgeResult{}, false
	}

	r := game.JudgeResult{
		Tier:     tier,
		Track:    track,
		Kind:     closest.Event.Kind,
		Error:    closest.Error(at),
		Distance: distance,
		At:       at,
	}
	j.debugf("track %v %v (%.2f)\n", track, tier, distance)
	if closest.IsHold() {
		closest.Hold(tier)
	} else {
		j.sched.Resolve(closest, note.Hit)
	}
	j.emit(r)
	return r, true
}

// Release ends the hold of the track. Letting go before the end of the hold,
// minus the miss allowance, breaks it and misses the tail.
func (j *Judge) Release(track int, at time.Duration) (game.JudgeResult, bool) {
	var held *note.Instance
	for _, n := range j.sched.Live() {
		if n.Event.Track != track || n.State != note.Holding {
			continue
		}
		if nil == held || n.HitAt < held.HitAt {
			held = n
		}
	}
	if nil == held {
		return game.JudgeResult{}, false
	}

	r := game.JudgeResult{
		Tier:     held.HeadTier,
		Track:    track,
		Kind:     game.HoldEnd,
		Error:    at - held.EndAt,
		Distance: game.ToDistance(at-held.EndAt, j.sched.Speed()),
		At:       at,
	}
	outcome := note.Hit
	if at < held.EndAt-j.sched.MissAllowance() {
		r.Tier = game.Miss
		outcome = note.Missed
		j.debugf("hold on track %v broken %v early\n", track, held.EndAt-at)
	}
	j.sched.Resolve(held, outcome)
	j.emit(r)
	return r, true
}

func (j *Judge) emit(r game.JudgeResult) {
	if nil != j.results {
		j.results.Judged(r)
	}
}
