package input

import (
	"fmt"
	"log"

	"github.com/eiannone/keyboard"
)

// Keyboard reads the terminal. Terminals only report presses, holds end
// when they run out.
type Keyboard struct {
	keymap *Keymap
	events chan Event
	Logger *log.Logger
}

func NewKeyboard(keymap *Keymap, logger *log.Logger) (*Keyboard, error) {
	if nil == logger {
		logger = log.Default()
	}
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	k := &Keyboard{keymap: keymap, events: make(chan Event, 128), Logger: logger}
	go func() {
		defer close(k.events)
		for key := range keys {
			if nil != key.Err {
				k.Logger.Println("unable to read keyboard input", key.Err)
				return
			}
			if ev, ok := keymap.translate(key); ok {
				k.events <- ev
			}
		}
	}()
	return k, nil
}

func (k *Keyboard) Events() <-chan Event {
	return k.events
}

func (k *Keyboard) Close() error {
	return keyboard.Close()
}

func (k *Keymap) translate(key keyboard.KeyEvent) (Event, bool) {
	switch key.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Event{Control: Quit}, true
	case keyboard.KeyArrowRight:
		return Event{Control: Next}, true
	case keyboard.KeyArrowLeft:
		return Event{Control: Previous}, true
	case keyboard.KeyArrowUp:
		return Event{Control: SpeedUp}, true
	case keyboard.KeyArrowDown:
		return Event{Control: SpeedDown}, true
	case keyboard.KeySpace:
		key.Rune = ' '
	}
	if track, ok := k.Track(key.Rune); ok {
		return Event{Track: track}, true
	}
	if c := k.control(key.Rune); c != NoControl {
		return Event{Control: c}, true
	}
	return Event{}, false
}
