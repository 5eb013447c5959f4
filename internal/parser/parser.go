package parser

import (
	"io"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

type Parser interface {
	// Parse reads one sequence, padded to fit an audio of the given length.
	Parse(r io.Reader, length time.Duration) (*game.Chart, error)
	ParseFile(file string, length time.Duration) (*game.Chart, error)
}
