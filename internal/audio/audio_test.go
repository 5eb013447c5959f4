package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

func writeSilence(t *testing.T, d time.Duration) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "silence.wav")
	f, err := os.Create(file)
	if nil != err {
		t.Fatal(err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(format.SampleRate.N(d)), format); nil != err {
		t.Fatal(err)
	}
	return file
}

func TestLength(t *testing.T) {
	file := writeSilence(t, 1500*time.Millisecond)
	length, err := Length(file)
	if nil != err {
		t.Fatal(err)
	}
	if length != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v", length)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	file := filepath.Join(t.TempDir(), "song.flac")
	if err := os.WriteFile(file, []byte("fLaC"), 0o644); nil != err {
		t.Fatal(err)
	}
	if _, err := Decode(file); nil == err {
		t.Fatal("flac is not supported")
	}
	if _, err := Decode(filepath.Join(t.TempDir(), "missing.mp3")); nil == err {
		t.Fatal("a missing file cannot be decoded")
	}
}

func TestPlayerWithoutSpeaker(t *testing.T) {
	p := NewPlayer(nil)
	if p.Position() != 0 {
		t.Fatal("nothing is playing")
	}
	// Never touches the speaker before a song is decoded
	p.Pause()
	p.Resume()
	p.Stop()
	if err := p.Play(&game.Chart{Name: "silent"}, 0); nil == err {
		t.Fatal("a chart without audio cannot be played")
	}
}
