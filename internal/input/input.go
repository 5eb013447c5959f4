package input

// Control is a key that drives the game instead of a track.
type Control int

const (
	NoControl Control = iota
	Quit
	Next
	Previous
	Restart
	Pause
	SpeedUp
	SpeedDown
)

func (c Control) String() string {
	switch c {
	case Quit:
		return "quit"
	case Next:
		return "next"
	case Previous:
		return "previous"
	case Restart:
		return "restart"
	case Pause:
		return "pause"
	case SpeedUp:
		return "speed up"
	case SpeedDown:
		return "speed down"
	}
	return "none"
}

// Event is either a track press/release or a control.
type Event struct {
	Track   int
	Release bool
	Control Control
}

type Source interface {
	Events() <-chan Event
	Close() error
}

// Keymap assigns one key per track, in order.
type Keymap struct {
	keys  []rune
	runes map[rune]int
}

func NewKeymap(keys []rune) *Keymap {
	k := &Keymap{keys: keys, runes: make(map[rune]int, len(keys))}
	for i, r := range keys {
		k.runes[r] = i
	}
	return k
}

func (k *Keymap) Track(r rune) (int, bool) {
	i, ok := k.runes[r]
	return i, ok
}

// Key is the rune bound to a track.
func (k *Keymap) Key(track int) rune {
	if track < 0 || track >= len(k.keys) {
		return ' '
	}
	return k.keys[track]
}

func (k *Keymap) Len() int {
	return len(k.keys)
}

// control maps the rune controls, track keys win over them.
func (k *Keymap) control(r rune) Control {
	if _, ok := k.runes[r]; ok {
		return NoControl
	}
	switch r {
	case 'r':
		return Restart
	case 'q':
		return Quit
	case '+', '=':
		return SpeedUp
	case '-':
		return SpeedDown
	case ' ':
		return Pause
	}
	return NoControl
}
