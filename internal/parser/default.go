package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

// Sequence is the on-disk layout written by the sequence editor.
type Sequence struct {
	BPM            float64 `json:"bpm"`
	NumberOfTracks int     `json:"numberOfTracks"`
	AudioClipPath  string  `json:"audioClipPath"`
	TrackNotes     [][]int `json:"trackNotes"`
	EffectTrack    []int   `json:"effectTrack"`
}

type DefaultParser struct{}

func (p *DefaultParser) ParseFile(file string, length time.Duration) (*game.Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	chart, err := p.Parse(f, length)
	if nil != err {
		return nil, fmt.Errorf("unable to load %v: %w", file, err)
	}
	chart.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if chart.Audio != "" && !filepath.IsAbs(chart.Audio) {
		chart.Audio = filepath.Join(filepath.Dir(file), chart.Audio)
	}
	return chart, nil
}

func (p *DefaultParser) Parse(r io.Reader, length time.Duration) (*game.Chart, error) {
	var seq Sequence
	if err := json.NewDecoder(r).Decode(&seq); nil != err {
		return nil, &MalformedChartError{Field: "json", Reason: err.Error()}
	}
	return Load(&seq, length)
}

// Load validates a decoded sequence and pads every track with empty beats
// up to the number of beats in the audio. Without a length the longest
// track decides.
func Load(seq *Sequence, length time.Duration) (*game.Chart, error) {
	if seq.BPM <= 0 {
		return nil, malformed("bpm", "must be positive, got %v", seq.BPM)
	}
	if seq.NumberOfTracks <= 0 {
		return nil, malformed("numberOfTracks", "must be positive, got %v", seq.NumberOfTracks)
	}

	tracks := seq.TrackNotes
	if tracks == nil {
		// A fresh sequence has no notes yet
		tracks = make([][]int, seq.NumberOfTracks)
	}
	if len(tracks) != seq.NumberOfTracks {
		return nil, malformed("trackNotes", "%v tracks, expected %v", len(tracks), seq.NumberOfTracks)
	}

	beats := 0
	if length > 0 {
		beats = game.TotalBeats(length, seq.BPM)
	} else {
		for _, t := range tracks {
			if len(t) > beats {
				beats = len(t)
			}
		}
		if len(seq.EffectTrack) > beats {
			beats = len(seq.EffectTrack)
		}
	}

	chart := &game.Chart{
		BPM:    seq.BPM,
		Audio:  seq.AudioClipPath,
		Length: length,
		Tracks: make([][]int, len(tracks)),
	}
	for i, t := range tracks {
		padded, err := pad(t, beats, fmt.Sprintf("trackNotes[%d]", i))
		if nil != err {
			return nil, err
		}
		chart.Tracks[i] = padded
	}
	effects, err := pad(seq.EffectTrack, beats, "effectTrack")
	if nil != err {
		return nil, err
	}
	chart.EffectTrack = effects
	return chart, nil
}

func pad(track []int, beats int, field string) ([]int, error) {
	if len(track) > beats {
		return nil, malformed(field, "%v beats, the song only has %v", len(track), beats)
	}
	padded := make([]int, beats)
	for i, v := range track {
		if v < 0 {
			return nil, malformed(field, "negative note value %v at beat %v", v, i)
		}
		padded[i] = v
	}
	return padded, nil
}
