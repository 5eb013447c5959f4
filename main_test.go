package main

import (
	"errors"
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/judge"
	"git.lost.host/meutraa/lanes/internal/scheduler"
	"git.lost.host/meutraa/lanes/internal/session"
)

// brokenAudio cannot play the chart named broken
type brokenAudio struct{}

func (brokenAudio) Play(chart *game.Chart, delay time.Duration) error {
	if chart.Name == "broken" {
		return errors.New("cannot load song")
	}
	return nil
}
func (brokenAudio) Position() time.Duration { return 0 }
func (brokenAudio) Pause()                  {}
func (brokenAudio) Resume()                 {}
func (brokenAudio) Stop()                   {}

func emptyChart(name string) *game.Chart {
	return &game.Chart{Name: name, BPM: 120, Length: time.Second, Tracks: [][]int{{0, 0}}}
}

func newPlaylist(t *testing.T, charts ...*game.Chart) (*session.Session, *session.Playlist, *clock.Manual) {
	t.Helper()
	cfg := session.Config{
		Scheduler: scheduler.Config{
			Anchors: []game.Anchor{{Spawn: game.Vec3{Z: 10}}},
			Speed:   10,
		},
		Windows: judge.DefaultWindows,
	}
	clk := clock.NewManual(0)
	s, err := session.New(cfg, clk, brokenAudio{}, nil, nil)
	if nil != err {
		t.Fatal(err)
	}
	playlist, err := session.NewPlaylist(s, charts, nil)
	if nil != err {
		t.Fatal(err)
	}
	if err := playlist.Start(); nil != err {
		t.Fatal(err)
	}
	return s, playlist, clk
}

func TestAdvance(t *testing.T) {
	s, playlist, clk := newPlaylist(t, emptyChart("first"), emptyChart("second"))
	if running, err := advance(s, playlist); !running || nil != err {
		t.Fatal("an unfinished chart keeps playing")
	}

	clk.Set(10 * time.Second)
	s.Tick()
	if running, err := advance(s, playlist); !running || nil != err || playlist.Index() != 1 {
		t.Fatal("a finished chart moves to the next one")
	}

	clk.Set(20 * time.Second)
	s.Tick()
	if running, err := advance(s, playlist); running || nil != err {
		t.Fatal("the last chart ends the playlist")
	}
}

func TestAdvanceReportsStartFailure(t *testing.T) {
	s, playlist, clk := newPlaylist(t, emptyChart("first"), emptyChart("broken"))
	clk.Set(10 * time.Second)
	s.Tick()
	running, err := advance(s, playlist)
	if running || nil == err {
		t.Fatalf("a chart that cannot start should stop the loop with an error, got %v %v", running, err)
	}
}
