package session

import (
	"errors"
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/judge"
	"git.lost.host/meutraa/lanes/internal/note"
	"git.lost.host/meutraa/lanes/internal/scheduler"
	"git.lost.host/meutraa/lanes/internal/score"
	"git.lost.host/meutraa/lanes/internal/testdata"
)

type fakeAudio struct {
	scheduled []time.Duration
	paused    bool
	stopped   int
	fail      bool
}

func (a *fakeAudio) Play(chart *game.Chart, delay time.Duration) error {
	if a.fail {
		return errors.New("no audio device")
	}
	a.scheduled = append(a.scheduled, delay)
	return nil
}
func (a *fakeAudio) Position() time.Duration { return 0 }
func (a *fakeAudio) Pause()                  { a.paused = true }
func (a *fakeAudio) Resume()                 { a.paused = false }
func (a *fakeAudio) Stop()                   { a.stopped++ }

type fakePresenter struct {
	moved   map[uint64]game.Vec3
	results []game.JudgeResult
	effects []bool
}

func newPresenter() *fakePresenter {
	return &fakePresenter{moved: map[uint64]game.Vec3{}}
}

func (p *fakePresenter) Moved(n *note.Instance)    { p.moved[n.ID] = n.Head }
func (p *fakePresenter) Removed(n *note.Instance)  { delete(p.moved, n.ID) }
func (p *fakePresenter) Judged(r game.JudgeResult) { p.results = append(p.results, r) }

func (p *fakePresenter) Effect(code int, on bool) {
	if code == 4 {
		p.effects = append(p.effects, on)
	}
}

type fakeRecorder struct {
	saved []*score.History
}

func (r *fakeRecorder) Save(c *game.Chart, h *score.History) error {
	r.saved = append(r.saved, h)
	return nil
}
func (r *fakeRecorder) Load(c *game.Chart) ([]score.History, error) { return nil, nil }
func (r *fakeRecorder) Best(c *game.Chart) (*score.History, error) {
	if len(r.saved) == 0 {
		return nil, nil
	}
	return r.saved[0], nil
}

func testConfig() Config {
	as := make([]game.Anchor, 4)
	for i := range as {
		as[i] = game.Anchor{Spawn: game.Vec3{X: float64(i), Z: 10}, Hit: game.Vec3{X: float64(i)}}
	}
	return Config{
		Scheduler:      scheduler.Config{Anchors: as, Speed: 10},
		Windows:        judge.DefaultWindows,
		Delay:          time.Second,
		EffectDuration: time.Second,
	}
}

// taps every two beats at 120 bpm on track 0: 2s, 3s, 4s
func testChart() *game.Chart {
	return &game.Chart{
		Name:        "test",
		BPM:         120,
		Length:      5 * time.Second,
		Tracks:      [][]int{{0, 0, 0, 0, 1, 0, 1, 0, 1, 0}, make([]int, 10), make([]int, 10), make([]int, 10)},
		EffectTrack: []int{0, 0, 4, 0, 0, 0, 0, 0, 0, 0},
	}
}

func newSession(t *testing.T) (*Session, *clock.Manual, *fakeAudio, *fakePresenter) {
	t.Helper()
	clk := clock.NewManual(0)
	audio := &fakeAudio{}
	p := newPresenter()
	s, err := New(testConfig(), clk, audio, p, nil)
	if nil != err {
		t.Fatal(err)
	}
	return s, clk, audio, p
}

// run ticks the session every 5ms up to end, pressing track 0 at the given
// wall clock times
func run(s *Session, clk *clock.Manual, end time.Duration, presses ...time.Duration) {
	next := 0
	for now := clk.Now(); now <= end; now += 5 * time.Millisecond {
		clk.Set(now)
		for next < len(presses) && presses[next] <= now {
			s.Press(0)
			next++
		}
		s.Tick()
	}
}

func TestSessionPlay(t *testing.T) {
	s, clk, audio, p := newSession(t)
	if err := s.Start(testChart()); nil != err {
		t.Fatal(err)
	}
	if len(audio.scheduled) != 1 || audio.scheduled[0] != time.Second {
		t.Fatalf("audio should start after the delay, got %v", audio.scheduled)
	}
	if _, ok := s.Press(0); ok {
		t.Fatal("nothing can be hit before the song starts")
	}

	// Hits are due at 3s, 4s and 5s wall clock, the second one is skipped
	run(s, clk, 6*time.Second, 3020*time.Millisecond, 5*time.Second)

	summary := s.Summary()
	if summary.Counts[game.Perfect] != 2 || summary.Counts[game.Miss] != 1 {
		t.Fatalf("unexpected counts %v", summary.Counts)
	}
	if summary.Score != 200 || summary.MaxCombo != 1 {
		t.Fatalf("unexpected score %v combo %v", summary.Score, summary.MaxCombo)
	}
	if len(p.results) != 3 {
		t.Fatalf("the presenter should see every judgement, got %d", len(p.results))
	}
	if len(p.moved) != 0 || s.Pool().Active() != 0 {
		t.Fatal("every note should be gone")
	}
	if len(p.effects) != 2 || !p.effects[0] || p.effects[1] {
		t.Fatalf("effect 4 should have been switched on then off, got %v", p.effects)
	}
	if s.Finished() {
		t.Fatal("the session runs two seconds past the audio")
	}
	run(s, clk, 8*time.Second)
	if !s.Finished() {
		t.Fatal("the session should be finished")
	}
}

func TestSessionPause(t *testing.T) {
	s, clk, audio, _ := newSession(t)
	s.Start(testChart())
	run(s, clk, 2*time.Second)
	position := s.Position()

	s.Pause()
	if !audio.paused || !s.Paused() {
		t.Fatal("pausing should pause the audio")
	}
	clk.Advance(10 * time.Second)
	s.Tick()
	if s.Position() != position {
		t.Fatalf("the song should not move while paused, %v != %v", s.Position(), position)
	}
	if _, ok := s.Press(0); ok || len(s.inputs) != 0 {
		t.Fatal("presses are ignored while paused")
	}

	s.Resume()
	if audio.paused {
		t.Fatal("resuming should resume the audio")
	}
	clk.Advance(5 * time.Millisecond)
	s.Tick()
	if s.Position() != position+5*time.Millisecond {
		t.Fatalf("unexpected position after resume %v", s.Position())
	}
}

func TestSessionAudioFailure(t *testing.T) {
	s, _, audio, _ := newSession(t)
	audio.fail = true
	if err := s.Start(testChart()); nil == err {
		t.Fatal("a failing audio should fail the start")
	}
	if nil != s.Chart() || !s.Finished() {
		t.Fatal("nothing should be playing")
	}
}

func TestSessionRejectsConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Windows.Perfect = 5
	if _, err := New(cfg, clock.NewManual(0), nil, nil, nil); nil == err {
		t.Fatal("unordered windows should be rejected")
	}
	cfg = testConfig()
	cfg.Scheduler.Speed = 0
	if _, err := New(cfg, clock.NewManual(0), nil, nil, nil); nil == err {
		t.Fatal("a zero speed should be rejected")
	}
}

func TestPlaylistSwitch(t *testing.T) {
	s, clk, _, p := newSession(t)
	rec := &fakeRecorder{}
	other := testChart()
	other.Name = "other"
	pl, err := NewPlaylist(s, []*game.Chart{testChart(), other}, rec)
	if nil != err {
		t.Fatal(err)
	}
	if err := pl.Start(); nil != err {
		t.Fatal(err)
	}

	run(s, clk, 3*time.Second, 3*time.Second)
	if len(s.Notes()) == 0 {
		t.Fatal("expected live notes before the switch")
	}

	if err := pl.Next(); nil != err {
		t.Fatal(err)
	}
	if len(s.Notes()) != 0 || s.Pool().Active() != 0 || len(p.moved) != 0 {
		t.Fatal("a switch must release every note")
	}
	if pl.Current().Name != "other" || s.Summary().Score != 0 {
		t.Fatal("the next chart should start from scratch")
	}
	if len(rec.saved) != 1 || rec.saved[0].Score != 100 {
		t.Fatalf("leaving a chart should save its score, got %v", rec.saved)
	}

	if err := pl.Next(); nil != err || pl.Index() != 0 {
		t.Fatal("next should wrap around")
	}
	if err := pl.Previous(); nil != err || pl.Index() != 1 {
		t.Fatal("previous should wrap around")
	}
	if len(rec.saved) != 1 {
		t.Fatal("a chart without judgements is not saved")
	}
	if err := pl.Select(5); nil == err {
		t.Fatal("selecting past the end should fail")
	}
	if best, _ := pl.Best(); nil == best {
		t.Fatal("expected a best score")
	}

	if _, err := NewPlaylist(s, nil, nil); !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatal("an empty playlist should be rejected")
	}
}

func TestReplay(t *testing.T) {
	s, clk, _, _ := newSession(t)
	s.Start(testChart())
	run(s, clk, 8*time.Second, 2990*time.Millisecond, 3980*time.Millisecond, 5030*time.Millisecond)
	live := s.Summary()
	history := s.History()
	if len(history.Inputs) != 3 || history.Inputs[0].HitTime != 1990*time.Millisecond {
		t.Fatalf("unexpected inputs %v", history.Inputs)
	}

	replayed, err := Replay(testConfig(), testChart(), history, 0, nil)
	if nil != err {
		t.Fatal(err)
	}
	if replayed.Score != live.Score || replayed.Counts != live.Counts || replayed.MaxCombo != live.MaxCombo {
		t.Log("live    ", live)
		t.Log("replayed", replayed)
		t.Fail()
	}
}

func TestSessionAutoPlay(t *testing.T) {
	chart, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	s, clk, _, _ := newSession(t)
	if err := s.Start(chart); nil != err {
		t.Fatal(err)
	}

	type action struct {
		at      time.Duration
		track   int
		release bool
	}
	var actions []action
	for _, e := range game.Generate(chart) {
		if !e.Playable() {
			continue
		}
		at := s.sched.AudioStart() + e.Time
		actions = append(actions, action{at: at, track: e.Track})
		if e.IsHold() {
			actions = append(actions, action{at: at + e.Duration, track: e.Track, release: true})
		}
	}

	for now := time.Duration(0); !s.Finished(); now += 5 * time.Millisecond {
		clk.Set(now)
		for _, a := range actions {
			if a.at != now {
				continue
			}
			if a.release {
				s.Release(a.track)
			} else {
				s.Press(a.track)
			}
		}
		s.Tick()
	}

	summary := s.Summary()
	if summary.Counts[game.Perfect] != 12 || summary.MissCount() != 0 {
		t.Fatalf("every note should be perfect, got %v", summary.Counts)
	}
	if summary.Grade != "S" || summary.Accuracy != 100 || summary.MaxCombo != 12 {
		t.Log(summary)
		t.Fail()
	}
}

func TestSessionSkippedHold(t *testing.T) {
	chart, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	s, clk, _, _ := newSession(t)
	if err := s.Start(chart); nil != err {
		t.Fatal(err)
	}
	for now := time.Duration(0); !s.Finished(); now += 5 * time.Millisecond {
		clk.Set(now)
		s.Tick()
	}

	notes, holds := chart.NoteCount()
	if holds != 1 {
		t.Fatalf("the sample chart has one hold, got %v", holds)
	}
	summary := s.Summary()
	if s.Judgements() != notes+holds || summary.MissCount() != notes+holds {
		t.Fatalf("expected %v misses, got %v judgements %v", notes+holds, s.Judgements(), summary.Counts)
	}
	if summary.Accuracy != 0 {
		t.Fatalf("nothing was hit, got accuracy %v", summary.Accuracy)
	}
}
