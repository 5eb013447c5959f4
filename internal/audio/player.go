package audio

import (
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Player plays chart audio through the speaker. The speaker is initialised
// with the sample rate of the first song, later songs are resampled.
type Player struct {
	Logger *log.Logger

	rate  beep.SampleRate
	song  *Song
	ctrl  *beep.Ctrl
	ready bool
}

func NewPlayer(logger *log.Logger) *Player {
	if nil == logger {
		logger = log.Default()
	}
	return &Player{Logger: logger}
}

func (p *Player) init(format beep.Format) error {
	if p.ready {
		return nil
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/60)); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	p.rate = format.SampleRate
	p.ready = true
	return nil
}

// Play decodes the chart audio and starts it after delay. A negative delay
// starts part way into the song.
func (p *Player) Play(chart *game.Chart, delay time.Duration) error {
	p.Stop()
	if chart.Audio == "" {
		return fmt.Errorf("chart %v has no audio", chart.Name)
	}
	song, err := Decode(chart.Audio)
	if nil != err {
		return err
	}
	if err := p.init(song.Format); nil != err {
		song.Close()
		return err
	}

	if delay < 0 {
		if err := song.Streamer.Seek(song.Format.SampleRate.N(-delay)); nil != err {
			song.Close()
			return fmt.Errorf("unable to seek %v: %w", chart.Audio, err)
		}
		delay = 0
	}

	var s beep.Streamer = song.Streamer
	if song.Format.SampleRate != p.rate {
		s = beep.Resample(4, song.Format.SampleRate, p.rate, s)
	}
	ctrl := &beep.Ctrl{Streamer: s}

	speaker.Lock()
	p.song = song
	p.ctrl = ctrl
	speaker.Unlock()
	speaker.Play(beep.Seq(beep.Silence(p.rate.N(delay)), ctrl))
	return nil
}

// Position is how far into the song playback is.
func (p *Player) Position() time.Duration {
	if !p.ready {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	if nil == p.song {
		return 0
	}
	return p.song.Format.SampleRate.D(p.song.Streamer.Position())
}

func (p *Player) Pause() {
	p.setPaused(true)
}

func (p *Player) Resume() {
	p.setPaused(false)
}

func (p *Player) setPaused(paused bool) {
	if !p.ready {
		return
	}
	speaker.Lock()
	if nil != p.ctrl {
		p.ctrl.Paused = paused
	}
	speaker.Unlock()
}

func (p *Player) Stop() {
	if !p.ready {
		return
	}
	speaker.Clear()
	speaker.Lock()
	song := p.song
	p.song, p.ctrl = nil, nil
	speaker.Unlock()
	if nil != song {
		if err := song.Close(); nil != err {
			p.Logger.Println("unable to close audio", err)
		}
	}
}
