package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"syscall"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey = 0x01

	keyEsc   = 1
	keyUp    = 103
	keyLeft  = 105
	keyRight = 106
	keyDown  = 108
)

var codes = map[rune]uint16{
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
	'-': 12, '=': 13,
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'[': 26, ']': 27,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38,
	';': 39, '\'': 40,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50,
	',': 51, '.': 52, '/': 53,
	' ': 57,
}

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Evdev reads a kernel keyboard device, which reports releases too.
type Evdev struct {
	file   io.ReadCloser
	events chan Event
	Logger *log.Logger
}

func NewEvdev(device string, keymap *Keymap, logger *log.Logger) (*Evdev, error) {
	for _, r := range keymap.keys {
		if _, ok := codes[r]; !ok {
			return nil, fmt.Errorf("key %q has no evdev code", r)
		}
	}
	f, err := os.Open(device)
	if nil != err {
		return nil, fmt.Errorf("unable to open %v: %w", device, err)
	}
	return newEvdev(f, keymap, logger), nil
}

func newEvdev(r io.ReadCloser, keymap *Keymap, logger *log.Logger) *Evdev {
	if nil == logger {
		logger = log.Default()
	}
	e := &Evdev{file: r, events: make(chan Event, 128), Logger: logger}
	tracks := make(map[uint16]int, len(keymap.keys))
	controls := map[uint16]Control{
		keyEsc:   Quit,
		keyRight: Next,
		keyLeft:  Previous,
		keyUp:    SpeedUp,
		keyDown:  SpeedDown,
	}
	for i, key := range keymap.keys {
		tracks[codes[key]] = i
	}
	for key, code := range codes {
		if c := keymap.control(key); c != NoControl {
			controls[code] = c
		}
	}

	go func() {
		defer close(e.events)
		var ev keyEvent
		for {
			if err := binary.Read(e.file, binary.LittleEndian, &ev); nil != err {
				if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
					e.Logger.Println(err, "unable to read keyboard input")
				}
				return
			}
			// 0 is a release, 1 a press and 2 a repeat
			if ev.Type != evKey || ev.Value > 1 {
				continue
			}
			if track, ok := tracks[ev.Code]; ok {
				e.events <- Event{Track: track, Release: ev.Value == 0}
			} else if c, ok := controls[ev.Code]; ok && ev.Value == 1 {
				e.events <- Event{Control: c}
			}
		}
	}()
	return e
}

func (e *Evdev) Events() <-chan Event {
	return e.events
}

func (e *Evdev) Close() error {
	return e.file.Close()
}
