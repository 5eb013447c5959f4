package theme

import (
	"fmt"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
	"github.com/fatih/color"
)

const (
	noteSym   = "⬤"
	holdSym   = "┃"
	fieldSym  = "-"
	effectSym = "✦"
)

type DefaultTheme struct {
	tiers [len(game.Tiers)]*color.Color
}

func NewDefaultTheme() *DefaultTheme {
	return &DefaultTheme{
		tiers: [...]*color.Color{
			game.Perfect: color.New(color.FgHiMagenta, color.Bold),
			game.Great:   color.New(color.FgCyan, color.Bold),
			game.Good:    color.New(color.FgGreen, color.Bold),
			game.Bad:     color.New(color.FgYellow),
			game.Miss:    color.New(color.FgRed, color.Bold),
		},
	}
}

func (t *DefaultTheme) Tier(tier game.Tier) string {
	return t.tiers[tier].Sprintf("%8v", tier)
}

func (t *DefaultTheme) Note(track int) string {
	return noteColor(track).Sprint(noteSym)
}

func (t *DefaultTheme) HoldBody(track int) string {
	return noteColor(track).Sprint(holdSym)
}

func (t *DefaultTheme) HitField(track int) string {
	return fieldSym
}

func (t *DefaultTheme) Effect(code int) string {
	return effectColor.Sprintf("%v %v", effectSym, code)
}

var (
	effectColor = color.New(color.FgHiYellow, color.Bold)
	noteColors  = []*color.Color{
		color.RGB(236, 30, 0),    // red
		color.RGB(0, 118, 236),   // blue
		color.RGB(106, 0, 236),   // purple
		color.RGB(236, 195, 0),   // yellow
		color.RGB(236, 0, 106),   // pink
		color.RGB(236, 128, 0),   // orange
		color.RGB(173, 236, 236), // light blue
		color.RGB(0, 236, 128),   // green
	}
)

func noteColor(track int) *color.Color {
	if track < 0 {
		return color.New(color.FgWhite)
	}
	return noteColors[track%len(noteColors)]
}

// Summary renders the result screen of a session.
func Summary(t Theme, name string, summary score.Summary) string {
	s := fmt.Sprintf("%v\n\n", color.New(color.Bold).Sprint(name))
	for i, c := range summary.Counts {
		s += fmt.Sprintf("%v  %6v\n", t.Tier(game.Tier(i)), c)
	}
	s += fmt.Sprintf("\n   Score  %6v\n   Combo  %6v\nAccuracy  %6.2f%%\n   Grade  %6v\n",
		summary.Score, summary.MaxCombo, summary.Accuracy, summary.Grade)
	s += fmt.Sprintf("    Mean  %6v\n   Stdev  %6v\n", summary.Mean, summary.Stdev)
	return s
}
