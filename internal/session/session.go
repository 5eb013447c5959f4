package session

import (
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/deferred"
	"git.lost.host/meutraa/lanes/internal/effect"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/judge"
	"git.lost.host/meutraa/lanes/internal/note"
	"git.lost.host/meutraa/lanes/internal/scheduler"
	"git.lost.host/meutraa/lanes/internal/score"
)

// EndPadding is how long a session keeps running after the audio ends.
const EndPadding = 2 * time.Second

// Audio plays the song of a session.
type Audio interface {
	// Play starts the audio of a chart after a delay
	Play(chart *game.Chart, delay time.Duration) error
	// Position is the current playback time
	Position() time.Duration
	Pause()
	Resume()
	Stop()
}

// Presenter draws a session. It receives note positions, judgements and
// effect toggles.
type Presenter interface {
	scheduler.Presenter
	game.ResultSink
	effect.Sink
}

type Config struct {
	Scheduler      scheduler.Config
	Windows        judge.Windows
	Delay          time.Duration // Between Start and the audio starting
	EffectDuration time.Duration
	Warmup         int // Note pool size created up front
	Debug          bool
}

type Session struct {
	cfg       Config
	clock     *clock.Pausable
	audio     Audio
	presenter Presenter
	Logger    *log.Logger

	pool    *note.Pool
	sched   *scheduler.Scheduler
	judge   *judge.Judge
	queue   *deferred.Queue
	effects *effect.Manager

	Stats  score.Stats
	chart  *game.Chart
	end    time.Duration // Song position at which the session is finished
	inputs []game.Input
}

// New builds a session, audio and presenter may be nil.
func New(cfg Config, clk clock.Clock, audio Audio, presenter Presenter, logger *log.Logger) (*Session, error) {
	if err := cfg.Windows.Validate(); nil != err {
		return nil, fmt.Errorf("invalid judgement windows: %w", err)
	}
	if cfg.Scheduler.Speed <= 0 {
		return nil, fmt.Errorf("note speed must be positive, got %v", cfg.Scheduler.Speed)
	}
	if cfg.Warmup <= 0 {
		cfg.Warmup = note.DefaultWarmup
	}
	if nil == logger {
		logger = log.Default()
	}
	cfg.Scheduler.MissAllowance = cfg.Windows.MissAllowance

	s := &Session{
		cfg:       cfg,
		clock:     clock.NewPausable(clk),
		audio:     audio,
		presenter: presenter,
		Logger:    logger,
		pool:      note.NewPool(cfg.Warmup, logger),
		queue:     deferred.New(),
	}
	s.sched = scheduler.New(cfg.Scheduler, s.pool, s)
	s.sched.Logger = logger
	if nil != presenter {
		s.sched.Presenter = presenter
	}
	s.judge = judge.New(s.sched, cfg.Windows, s)
	s.judge.Logger = logger
	s.judge.Debug = cfg.Debug
	var sink effect.Sink
	if nil != presenter {
		sink = presenter
	}
	s.effects = effect.New(s.queue, cfg.EffectDuration, sink)
	return s, nil
}

// Judged fans judgements out to the score and the presenter.
func (s *Session) Judged(r game.JudgeResult) {
	s.Stats.Judged(r)
	if nil != s.presenter {
		s.presenter.Judged(r)
	}
}

// Start plays a chart, replacing whatever was playing.
func (s *Session) Start(chart *game.Chart) error {
	s.Stop()
	if s.clock.IsPaused() {
		s.clock.Resume()
	}

	events := game.Generate(chart)
	now := s.clock.Now()
	audioStart := now + s.cfg.Delay
	s.sched.Load(events, audioStart)
	s.effects.Load(events)
	s.Stats.Reset()
	s.inputs = s.inputs[:0]
	s.chart = chart

	s.end = chart.Length
	for i := range events {
		if end := events[i].End(); end > s.end {
			s.end = end
		}
	}
	s.end += EndPadding

	if nil != s.audio {
		if err := s.audio.Play(chart, s.cfg.Delay); nil != err {
			s.Stop()
			return fmt.Errorf("unable to start audio: %w", err)
		}
	}
	if s.cfg.Debug {
		notes, holds := chart.NoteCount()
		s.Logger.Printf("starting %v, %v notes, %v holds, %v pending\n", chart.Name, notes, holds, s.sched.Pending())
	}
	return nil
}

// Stop ends the session, all notes and effects are released.
func (s *Session) Stop() {
	s.sched.Stop()
	s.effects.Reset()
	s.queue.Clear()
	if nil != s.audio && nil != s.chart {
		if s.cfg.Debug {
			s.Logger.Printf("stopping %v, audio at %v, song at %v\n", s.chart.Name, s.audio.Position(), s.sched.Position())
		}
		s.audio.Stop()
	}
	s.chart = nil
}

func (s *Session) Tick() {
	if nil == s.chart {
		return
	}
	now := s.clock.Now()
	s.sched.Tick(now)
	s.effects.Tick(s.sched.Position(), now)
	s.queue.Drain(now)
}

func (s *Session) record(track int, release bool, now time.Duration) {
	s.inputs = append(s.inputs, game.Input{
		Index:   track,
		HitTime: now - s.sched.AudioStart(),
		Release: release,
	})
}

// Press is a key down on a track.
func (s *Session) Press(track int) (game.JudgeResult, bool) {
	if nil == s.chart || s.clock.IsPaused() {
		return game.JudgeResult{}, false
	}
	now := s.clock.Now()
	s.record(track, false, now)
	return s.judge.Press(track, now)
}

// Release is a key up on a track.
func (s *Session) Release(track int) (game.JudgeResult, bool) {
	if nil == s.chart || s.clock.IsPaused() {
		return game.JudgeResult{}, false
	}
	now := s.clock.Now()
	s.record(track, true, now)
	return s.judge.Release(track, now)
}

func (s *Session) Pause() {
	if nil == s.chart || s.clock.IsPaused() {
		return
	}
	s.clock.Pause()
	if nil != s.audio {
		s.audio.Pause()
	}
}

func (s *Session) Resume() {
	if !s.clock.IsPaused() {
		return
	}
	s.clock.Resume()
	if nil != s.audio {
		s.audio.Resume()
	}
}

func (s *Session) Paused() bool {
	return s.clock.IsPaused()
}

// Finished reports whether the song is over, or nothing is playing.
func (s *Session) Finished() bool {
	return nil == s.chart || s.sched.Position() >= s.end
}

func (s *Session) Chart() *game.Chart {
	return s.chart
}

// Position is the song position of the last tick.
func (s *Session) Position() time.Duration {
	return s.sched.Position()
}

// Effect is the effect track value of the current beat.
func (s *Session) Effect() int {
	if nil == s.chart {
		return 0
	}
	return s.chart.EffectAt(s.sched.Position())
}

// Notes lists the live notes, only valid until the next call.
func (s *Session) Notes() []*note.Instance {
	return s.sched.Live()
}

// Pool is exposed for inspection.
func (s *Session) Pool() *note.Pool {
	return s.pool
}

func (s *Session) Speed() float64 {
	return s.sched.Speed()
}

// SetSpeed changes the speed of notes not yet spawned.
func (s *Session) SetSpeed(speed float64) {
	s.sched.SetSpeed(speed)
}

func (s *Session) Summary() score.Summary {
	return s.Stats.Summary()
}

// Judgements is the number of judgements so far.
func (s *Session) Judgements() int {
	total := 0
	for _, c := range s.Stats.Counts {
		total += c
	}
	return total
}

// History is the performance so far, ready to be saved.
func (s *Session) History() *score.History {
	inputs := make([]game.Input, len(s.inputs))
	copy(inputs, s.inputs)
	return &score.History{
		Inputs:  inputs,
		Speed:   s.sched.Speed(),
		Played:  time.Now(),
		Summary: s.Summary(),
	}
}
