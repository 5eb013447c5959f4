package render

import (
	"fmt"
	"math"
	"sort"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/note"
	"git.lost.host/meutraa/lanes/internal/score"
	"git.lost.host/meutraa/lanes/internal/theme"
)

const (
	columnsPerUnit  = 3  // Screen columns per distance unit across tracks
	barRow          = 4  // Rows between the hit line and the bottom
	judgementFrames = 60 // How long a judgement stays on screen
)

type span struct {
	col, from, to uint16
}

// Field draws notes travelling down the screen. Depth is mapped to rows,
// the hit line sits near the bottom.
type Field struct {
	r       Renderer
	theme   theme.Theme
	columns []uint16
	keys    []rune

	rows      int
	top, hit  int
	centre    uint16
	sideCol   uint16
	drawn     map[uint64]span
	effects   map[int]bool
	effectMax int
}

// NewField lays tracks out around the centre of a columns by rows terminal,
// keys label the hit line.
func NewField(r Renderer, th theme.Theme, anchors []game.Anchor, keys []rune, columns, rows int) *Field {
	f := &Field{
		r:       r,
		theme:   th,
		columns: make([]uint16, len(anchors)),
		keys:    keys,
		rows:    rows,
		top:     1,
		hit:     rows - barRow,
		centre:  uint16(columns / 2),
		drawn:   map[uint64]span{},
		effects: map[int]bool{},
	}
	if f.hit < 2 {
		f.hit = rows
	}
	mc := columns / 2
	left := mc
	for i, a := range anchors {
		c := mc + int(math.Round(a.Hit.X*columnsPerUnit))
		if c < 2 {
			c = 2
		}
		f.columns[i] = uint16(c)
		if c < left {
			left = c
		}
	}
	side := left - 30
	if side < 2 {
		side = 2
	}
	f.sideCol = uint16(side)
	return f
}

// row projects a point between spawn and hit onto the screen. Points past
// the hit line land below it.
func (f *Field) row(p game.Vec3, a game.Anchor) int {
	depth := a.Spawn.Z - a.Hit.Z
	if depth == 0 {
		return f.hit
	}
	t := (p.Z - a.Hit.Z) / depth
	return f.hit - int(math.Round(t*float64(f.hit-f.top)))
}

func (f *Field) inField(row int) bool {
	return row >= f.top && row <= f.rows
}

func (f *Field) clear(s span) {
	for row := s.from; row <= s.to; row++ {
		f.r.Fill(row, s.col, " ")
	}
}

func (f *Field) Moved(n *note.Instance) {
	if prev, ok := f.drawn[n.ID]; ok {
		f.clear(prev)
		delete(f.drawn, n.ID)
	}
	track := n.Event.Track
	if track < 0 || track >= len(f.columns) {
		return
	}

	head := f.row(n.Head, n.Anchor)
	tail := head
	if n.IsHold() {
		tail = f.row(n.Tail, n.Anchor)
	}
	from, to := tail, head
	if from < f.top {
		from = f.top
	}
	if to > f.rows {
		to = f.rows
	}
	if from > to {
		return
	}

	col := f.columns[track]
	for row := from; row < to; row++ {
		f.r.Fill(uint16(row), col, f.theme.HoldBody(track))
	}
	if f.inField(head) {
		f.r.Fill(uint16(head), col, f.theme.Note(track))
	} else {
		f.r.Fill(uint16(to), col, f.theme.HoldBody(track))
	}
	f.drawn[n.ID] = span{col: col, from: uint16(from), to: uint16(to)}
}

func (f *Field) Removed(n *note.Instance) {
	if prev, ok := f.drawn[n.ID]; ok {
		f.clear(prev)
		delete(f.drawn, n.ID)
	}
}

func (f *Field) Judged(r game.JudgeResult) {
	f.r.AddDecoration(f.centre-4, uint16(f.hit+2), f.theme.Tier(r.Tier), judgementFrames)
	if r.Tier != game.Miss || r.Track < 0 || r.Track >= len(f.columns) {
		return
	}
	col, row := f.columns[r.Track], uint16(f.hit)
	f.r.AddDecoration(col-1, row-1, "\033[1;31m╭\033[0m", judgementFrames)
	f.r.AddDecoration(col+1, row-1, "\033[1;31m╮\033[0m", judgementFrames)
	f.r.AddDecoration(col-1, row+1, "\033[1;31m╰\033[0m", judgementFrames)
	f.r.AddDecoration(col+1, row+1, "\033[1;31m╯\033[0m", judgementFrames)
}

func (f *Field) Effect(code int, on bool) {
	if on {
		f.effects[code] = true
	} else {
		delete(f.effects, code)
	}
	codes := make([]int, 0, len(f.effects))
	for c := range f.effects {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	for i := 0; i < f.effectMax; i++ {
		f.r.Fill(uint16(2+i), f.sideCol, "          ")
	}
	for i, c := range codes {
		f.r.Fill(uint16(2+i), f.sideCol, f.theme.Effect(c))
	}
	if len(codes) > f.effectMax {
		f.effectMax = len(codes)
	}
}

// Stats draws the running score beside the field.
func (f *Field) Stats(s score.Summary, combo int, speed float64) {
	row := uint16(10)
	for i, c := range s.Counts {
		f.r.Fill(row, f.sideCol, fmt.Sprintf("%v:  %6v", f.theme.Tier(game.Tier(i)), c))
		row++
	}
	row++
	f.r.Fill(row, f.sideCol, fmt.Sprintf("   Score:  %6v", s.Score))
	f.r.Fill(row+1, f.sideCol, fmt.Sprintf("   Combo:  %6v", combo))
	f.r.Fill(row+2, f.sideCol, fmt.Sprintf("Accuracy:  %6.2f", s.Accuracy))
	f.r.Fill(row+3, f.sideCol, fmt.Sprintf("    Mean:  %6.1fms", float64(s.Mean.Microseconds())/1000))
	f.r.Fill(row+4, f.sideCol, fmt.Sprintf("   Stdev:  %6.1fms", float64(s.Stdev.Microseconds())/1000))
	f.r.Fill(row+5, f.sideCol, fmt.Sprintf("   Speed:  %6.1f", speed))
}

// Frame draws the hit line and flushes.
func (f *Field) Frame() error {
	for i, col := range f.columns {
		if _, ok := f.occupied(col, uint16(f.hit)); !ok {
			f.r.Fill(uint16(f.hit), col, f.theme.HitField(i))
		}
		if i < len(f.keys) && f.hit+2 <= f.rows {
			f.r.Fill(uint16(f.rows), col, string(f.keys[i]))
		}
	}
	return f.r.Frame()
}

func (f *Field) occupied(col, row uint16) (uint64, bool) {
	for id, s := range f.drawn {
		if s.col == col && row >= s.from && row <= s.to {
			return id, true
		}
	}
	return 0, false
}
