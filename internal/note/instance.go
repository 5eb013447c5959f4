package note

import (
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

type State int

const (
	Traveling State = iota
	AtHitLine
	Holding // Head was hit, the key is held down
	Resolved
)

func (s State) String() string {
	switch s {
	case Traveling:
		return "traveling"
	case AtHitLine:
		return "at-hit-line"
	case Holding:
		return "holding"
	}
	return "resolved"
}

type Outcome int

const (
	Pending Outcome = iota
	Hit
	Missed
)

// Instance is one note moving from its spawn anchor to its hit anchor.
// All times are wall clock.
type Instance struct {
	ID     uint64
	Event  *game.NoteEvent // Borrowed from the scheduler
	Anchor game.Anchor

	SpawnAt time.Duration
	HitAt   time.Duration // The exact time the head should be hit
	EndAt   time.Duration // The exact time a hold should be released, HitAt for taps

	Head, Tail game.Vec3

	State    State
	Outcome  Outcome
	HeadTier game.Tier // The tier the head of a hold was hit with

	slot  int
	inUse bool
}

// Init prepares the instance to travel, starting now.
func (n *Instance) Init(id uint64, event *game.NoteEvent, anchor game.Anchor, now, hitAt time.Duration) {
	n.ID = id
	n.Event = event
	n.Anchor = anchor
	n.SpawnAt = now
	n.HitAt = hitAt
	n.EndAt = hitAt + event.Duration
	n.Head = anchor.Spawn
	n.Tail = anchor.Spawn
	n.State = Traveling
	n.Outcome = Pending
	n.HeadTier = game.Miss
}

func (n *Instance) reset() {
	slot := n.slot
	*n = Instance{slot: slot}
}

// IsHold reports whether the note has a tail to hold.
func (n *Instance) IsHold() bool {
	return n.Event != nil && n.Event.IsHold()
}

// Judgeable reports whether a press may still hit the head.
func (n *Instance) Judgeable() bool {
	return n.State == Traveling || n.State == AtHitLine
}

// Error is the signed timing error of a press, positive when late.
func (n *Instance) Error(press time.Duration) time.Duration {
	return press - n.HitAt
}

// Progress along the path of a point due at target, 0 at the spawn anchor
// and 1 at the hit anchor.
func (n *Instance) progress(target, now time.Duration) float64 {
	travel := n.HitAt - n.SpawnAt
	if travel <= 0 {
		return 1
	}
	return 1 - float64(target-now)/float64(travel)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	} else if v > 1 {
		return 1
	}
	return v
}

// Update moves the note. A head past its hit time stops on the hit line.
func (n *Instance) Update(now time.Duration) {
	switch n.State {
	case Traveling:
		// Notes spawned late, after a stall or with no lead, have no travel
		// left and go straight to the hit line
		if now > n.HitAt {
			n.Head = n.Anchor.Hit
			n.State = AtHitLine
		} else {
			n.Head = game.Lerp(n.Anchor.Spawn, n.Anchor.Hit, n.progress(n.HitAt, now))
		}
	case AtHitLine, Holding:
		n.Head = n.Anchor.Hit
	default:
		return
	}

	if n.IsHold() {
		n.Tail = game.Lerp(n.Anchor.Spawn, n.Anchor.Hit, clamp01(n.progress(n.EndAt, now)))
	} else {
		n.Tail = n.Head
	}
}

// Hold marks the head of a hold as hit.
func (n *Instance) Hold(tier game.Tier) {
	n.HeadTier = tier
	n.Head = n.Anchor.Hit
	n.State = Holding
}

// Resolve ends the note. It reports false if the note already was resolved.
func (n *Instance) Resolve(o Outcome) bool {
	if n.State == Resolved {
		return false
	}
	n.State = Resolved
	n.Outcome = o
	return true
}
