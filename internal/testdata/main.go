package testdata

import (
	"strings"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/parser"
)

// Length of the audio the sample chart is written for, 16 beats at 120 bpm.
const Length = 8 * time.Second

// GetChart parses the sample chart: taps on every track, one hold on track 1
// from beat 4 to beat 8 and an effect on beat 2.
func GetChart() (*game.Chart, error) {
	var p parser.DefaultParser
	chart, err := p.Parse(strings.NewReader(data), Length)
	if nil != err {
		return nil, err
	}
	chart.Name = "sample"
	return chart, nil
}

const data = `{
	"bpm": 120,
	"numberOfTracks": 4,
	"audioClipPath": "sample.ogg",
	"trackNotes": [
		[0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1],
		[0, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 1],
		[0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1],
		[0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1]
	],
	"effectTrack": [0, 0, 5]
}`
