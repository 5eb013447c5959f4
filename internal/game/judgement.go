package game

import "time"

// Tier is a judgement bucket, ordered from best to worst.
type Tier int

const (
	Perfect Tier = iota
	Great
	Good
	Bad
	Miss
)

// Tiers lists every tier in order.
var Tiers = [...]Tier{Perfect, Great, Good, Bad, Miss}

func (t Tier) String() string {
	switch t {
	case Perfect:
		return "Perfect"
	case Great:
		return "Great"
	case Good:
		return "Good"
	case Bad:
		return "Bad"
	}
	return "Miss"
}

// JudgeResult is emitted once per resolved note, or per hold tail.
type JudgeResult struct {
	Tier     Tier
	Track    int
	Kind     NoteKind      // Tap, HoldStart for a hold head, HoldEnd for a hold tail
	Error    time.Duration // Signed timing error, positive when late
	Distance float64       // Absolute error in travel distance units
	At       time.Duration // Wall clock of the judgement
}

// ResultSink receives judgements, typically the score and the renderer.
type ResultSink interface {
	Judged(r JudgeResult)
}

// ResultFunc adapts a function to a ResultSink.
type ResultFunc func(r JudgeResult)

func (f ResultFunc) Judged(r JudgeResult) { f(r) }
