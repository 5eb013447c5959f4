package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Song is a decoded audio file.
type Song struct {
	Streamer beep.StreamSeekCloser
	Format   beep.Format
}

// Decode opens an mp3, ogg or wav file.
func Decode(file string) (*Song, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio format %v", file)
	}
	if nil != err {
		f.Close()
		return nil, fmt.Errorf("unable to decode %v: %w", file, err)
	}
	return &Song{Streamer: streamer, Format: format}, nil
}

func (s *Song) Length() time.Duration {
	return s.Format.SampleRate.D(s.Streamer.Len())
}

func (s *Song) Close() error {
	return s.Streamer.Close()
}

// Length is the duration of an audio file.
func Length(file string) (time.Duration, error) {
	song, err := Decode(file)
	if nil != err {
		return 0, err
	}
	defer song.Close()
	return song.Length(), nil
}
