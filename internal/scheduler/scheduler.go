package scheduler

import (
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/note"
)

const DefaultSpeed = 10.0

type Config struct {
	// Anchors per track, a track without one never spawns notes
	Anchors []game.Anchor
	// Travel speed in distance units per second
	Speed float64
	// Added to the song position to compensate audio output latency
	Latency time.Duration
	// Added to the exact hit time of every note
	Lead time.Duration
	// How far past the hit line a note may travel before it is missed
	MissAllowance float64
}

// Presenter receives note positions, it never writes them.
type Presenter interface {
	Moved(n *note.Instance)
	Removed(n *note.Instance)
}

// Scheduler owns the song clock. It spawns notes ahead of their hit time,
// moves them every tick and misses the ones nobody hit.
type Scheduler struct {
	cfg       Config
	pool      *note.Pool
	results   game.ResultSink
	Presenter Presenter
	Logger    *log.Logger

	events  []game.NoteEvent
	queue   []*game.NoteEvent // Unspawned playable events in spawn order
	live    []*note.Instance
	offsets []time.Duration

	audioStart time.Duration
	position   time.Duration
	loaded     bool
	serial     uint64
}

func New(cfg Config, pool *note.Pool, results game.ResultSink) *Scheduler {
	if cfg.Speed <= 0 {
		cfg.Speed = DefaultSpeed
	}
	if nil == pool {
		pool = note.NewPool(note.DefaultWarmup, nil)
	}
	s := &Scheduler{
		cfg:     cfg,
		pool:    pool,
		results: results,
	}
	s.spawnOffsets()
	return s
}

func (s *Scheduler) logger() *log.Logger {
	if nil != s.Logger {
		return s.Logger
	}
	return log.Default()
}

func (s *Scheduler) spawnOffsets() {
	s.offsets = make([]time.Duration, len(s.cfg.Anchors))
	for i, a := range s.cfg.Anchors {
		s.offsets[i] = game.ToDuration(game.Distance(a.Spawn, a.Hit), s.cfg.Speed)
	}
}

// SpawnOffset is the lead time a note of the track appears before its hit
// time. It reports false for a track without anchors.
func (s *Scheduler) SpawnOffset(track int) (time.Duration, bool) {
	if track < 0 || track >= len(s.offsets) {
		return 0, false
	}
	return s.offsets[track], true
}

func (s *Scheduler) spawnTime(e *game.NoteEvent) time.Duration {
	offset, _ := s.SpawnOffset(e.Track)
	return e.Time - offset
}

func (s *Scheduler) sortQueue() {
	sort.SliceStable(s.queue, func(i, j int) bool {
		a, b := s.spawnTime(s.queue[i]), s.spawnTime(s.queue[j])
		if a != b {
			return a < b
		}
		return s.queue[i].Time < s.queue[j].Time
	})
}

// Load replaces the chart. Every live note of the previous chart is released
// before this returns. The audio starts at audioStart wall clock.
func (s *Scheduler) Load(events []game.NoteEvent, audioStart time.Duration) {
	s.Stop()

	s.events = make([]game.NoteEvent, len(events))
	copy(s.events, events)
	s.queue = make([]*game.NoteEvent, 0, len(s.events))

	warned := map[int]bool{}
	for i := range s.events {
		e := &s.events[i]
		if !e.Playable() {
			continue
		}
		if _, ok := s.SpawnOffset(e.Track); !ok {
			if !warned[e.Track] {
				warned[e.Track] = true
				s.logger().Printf("missing anchor for track %v, its notes will not spawn\n", e.Track)
			}
			continue
		}
		s.queue = append(s.queue, e)
	}
	s.sortQueue()

	s.audioStart = audioStart
	s.position = 0
	s.loaded = true
}

// Stop ends the session, nothing outlives it.
func (s *Scheduler) Stop() {
	for i, n := range s.live {
		n.Resolve(note.Missed)
		s.remove(n)
		s.live[i] = nil
	}
	s.live = s.live[:0]
	s.queue = nil
	s.events = nil
	s.loaded = false
}

// SetSpeed changes the travel speed of notes not yet spawned.
func (s *Scheduler) SetSpeed(speed float64) {
	if speed <= 0 {
		s.logger().Printf("ignoring note speed %v\n", speed)
		return
	}
	s.cfg.Speed = speed
	s.spawnOffsets()
	s.sortQueue()
}

func (s *Scheduler) Speed() float64 {
	return s.cfg.Speed
}

// MissAllowance is how long after its hit time a note stays judgeable.
func (s *Scheduler) MissAllowance() time.Duration {
	return game.ToDuration(s.cfg.MissAllowance, s.cfg.Speed)
}

func (s *Scheduler) AudioStart() time.Duration {
	return s.audioStart
}

// SongPosition is the logical playback time at a wall clock.
func (s *Scheduler) SongPosition(now time.Duration) time.Duration {
	return now - s.audioStart + s.cfg.Latency
}

// Position is the song position of the last tick.
func (s *Scheduler) Position() time.Duration {
	return s.position
}

// Live lists the notes on screen. The slice is only valid until the next
// call into the scheduler.
func (s *Scheduler) Live() []*note.Instance {
	return s.live
}

// Pending is the number of notes still to spawn.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Done reports whether every note was spawned and resolved.
func (s *Scheduler) Done() bool {
	return len(s.queue) == 0 && len(s.live) == 0
}

func (s *Scheduler) Tick(now time.Duration) {
	if !s.loaded {
		return
	}
	s.position = s.SongPosition(now)
	if s.position < 0 {
		// The audio has not started yet
		return
	}

	for len(s.queue) > 0 && s.position >= s.spawnTime(s.queue[0]) {
		e := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.spawn(e, now)
	}

	for _, n := range s.live {
		n.Update(now)
		if nil != s.Presenter {
			s.Presenter.Moved(n)
		}
	}

	allowance := s.MissAllowance()
	kept := s.live[:0]
	for _, n := range s.live {
		switch {
		case n.State == note.AtHitLine && now > n.HitAt+allowance:
			s.emit(game.Miss, n, n.Event.Kind, now-n.HitAt, now)
			if n.IsHold() {
				// An unplayed hold loses its tail as well
				s.emit(game.Miss, n, game.HoldEnd, now-n.EndAt, now)
			}
			n.Resolve(note.Missed)
		case n.State == note.Holding && now >= n.EndAt:
			s.emit(n.HeadTier, n, game.HoldEnd, 0, now)
			n.Resolve(note.Hit)
		}
		if n.State == note.Resolved {
			s.remove(n)
			continue
		}
		kept = append(kept, n)
	}
	for i := len(kept); i < len(s.live); i++ {
		s.live[i] = nil
	}
	s.live = kept
}

func (s *Scheduler) spawn(e *game.NoteEvent, now time.Duration) {
	n := s.pool.Acquire()
	s.serial++
	n.Init(s.serial, e, s.cfg.Anchors[e.Track], now, s.audioStart+e.Time+s.cfg.Lead)
	s.live = append(s.live, n)
}

func (s *Scheduler) emit(tier game.Tier, n *note.Instance, kind game.NoteKind, err, now time.Duration) {
	if nil == s.results {
		return
	}
	s.results.Judged(game.JudgeResult{
		Tier:     tier,
		Track:    n.Event.Track,
		Kind:     kind,
		Error:    err,
		Distance: game.ToDistance(err, s.cfg.Speed),
		At:       now,
	})
}

func (s *Scheduler) remove(n *note.Instance) {
	if nil != s.Presenter {
		s.Presenter.Removed(n)
	}
	s.pool.Release(n)
}

// Resolve ends a live note judged outside of a tick and releases it.
// It reports false for a note that is not live.
func (s *Scheduler) Resolve(n *note.Instance, o note.Outcome) bool {
	for i, l := range s.live {
		if l != n {
			continue
		}
		if !n.Resolve(o) {
			return false
		}
		copy(s.live[i:], s.live[i+1:])
		s.live[len(s.live)-1] = nil
		s.live = s.live[:len(s.live)-1]
		s.remove(n)
		return true
	}
	return false
}
