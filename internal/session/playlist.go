package session

import (
	"errors"
	"fmt"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
)

var ErrEmptyPlaylist = errors.New("no charts to play")

// Playlist switches the session between charts. Leaving a chart saves its
// score when a recorder is set.
type Playlist struct {
	session  *Session
	charts   []*game.Chart
	current  int
	recorder score.Recorder
}

func NewPlaylist(s *Session, charts []*game.Chart, recorder score.Recorder) (*Playlist, error) {
	if len(charts) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return &Playlist{session: s, charts: charts, recorder: recorder}, nil
}

func (p *Playlist) Current() *game.Chart {
	return p.charts[p.current]
}

func (p *Playlist) Index() int {
	return p.current
}

func (p *Playlist) Len() int {
	return len(p.charts)
}

// Start plays the current chart from the beginning.
func (p *Playlist) Start() error {
	return p.session.Start(p.Current())
}

// Restart drops the current performance.
func (p *Playlist) Restart() error {
	return p.Start()
}

func (p *Playlist) Next() error {
	return p.Select((p.current + 1) % len(p.charts))
}

func (p *Playlist) Previous() error {
	return p.Select((p.current - 1 + len(p.charts)) % len(p.charts))
}

func (p *Playlist) Select(index int) error {
	if index < 0 || index >= len(p.charts) {
		return fmt.Errorf("no chart %v, playlist has %v", index, len(p.charts))
	}
	p.Save()
	p.current = index
	return p.Start()
}

// Save stores the current performance if anything was judged.
func (p *Playlist) Save() {
	if nil == p.recorder || nil == p.session.Chart() || p.session.Judgements() == 0 {
		return
	}
	if err := p.recorder.Save(p.session.Chart(), p.session.History()); nil != err {
		p.session.Logger.Println("unable to save score", err)
	}
}

// Finish saves the performance and stops the session.
func (p *Playlist) Finish() {
	p.Save()
	p.session.Stop()
}

// Best is the high score of the current chart, nil if never played.
func (p *Playlist) Best() (*score.History, error) {
	if nil == p.recorder {
		return nil, nil
	}
	return p.recorder.Best(p.Current())
}
