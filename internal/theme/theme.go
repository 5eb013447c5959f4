package theme

import "git.lost.host/meutraa/lanes/internal/game"

type Theme interface {
	// Tier is the coloured, right aligned name of a judgement
	Tier(t game.Tier) string
	Note(track int) string
	HoldBody(track int) string
	HitField(track int) string
	Effect(code int) string
}
