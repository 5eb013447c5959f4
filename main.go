package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"git.lost.host/meutraa/lanes/internal/audio"
	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/config"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/input"
	"git.lost.host/meutraa/lanes/internal/parser"
	"git.lost.host/meutraa/lanes/internal/render"
	"git.lost.host/meutraa/lanes/internal/score"
	"git.lost.host/meutraa/lanes/internal/session"
	"git.lost.host/meutraa/lanes/internal/theme"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

// loadCharts parses every chart twice, the first pass finds the audio whose
// length pads the second.
func loadCharts(psr parser.Parser, files []string, logger *log.Logger) ([]*game.Chart, int, error) {
	charts := make([]*game.Chart, 0, len(files))
	tracks := 0
	for _, file := range files {
		chart, err := psr.ParseFile(file, 0)
		if nil != err {
			return nil, 0, err
		}
		if chart.Audio != "" {
			length, err := audio.Length(chart.Audio)
			if nil != err {
				logger.Println("unable to read audio length", err)
			} else if chart, err = psr.ParseFile(file, length); nil != err {
				return nil, 0, err
			}
		}
		if chart.NumTracks() > tracks {
			tracks = chart.NumTracks()
		}
		charts = append(charts, chart)
	}
	return charts, tracks, nil
}

func openInput(cfg *config.Config, keymap *input.Keymap, logger *log.Logger) (input.Source, error) {
	if cfg.Device != "" {
		return input.NewEvdev(cfg.Device, keymap, logger)
	}
	return input.NewKeyboard(keymap, logger)
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if nil != err {
		return err
	}
	logger := log.Default()

	// Ensure our Default implementations are used as interfaces
	var psr parser.Parser = &parser.DefaultParser{}
	var th theme.Theme = theme.NewDefaultTheme()

	charts, tracks, err := loadCharts(psr, cfg.Charts, logger)
	if nil != err {
		return err
	}
	if err := cfg.CheckTracks(tracks); nil != err {
		return err
	}

	store, err := score.Open(cfg.Database)
	if nil != err {
		return err
	}
	defer func() {
		if err := store.Close(); nil != err {
			logger.Println("unable to close score history", err)
		}
	}()
	var recorder score.Recorder = store

	if cfg.Replay {
		return replay(cfg, charts, tracks, store, logger)
	}

	keymap := input.NewKeymap(cfg.Keys)
	src, err := openInput(cfg, keymap, logger)
	if nil != err {
		return err
	}
	defer func() {
		if err := src.Close(); nil != err {
			logger.Println("unable to close input", err)
		}
	}()

	r := render.NewDefaultRenderer(os.Stdout, int(os.Stdout.Fd()))
	columns, rows, err := r.Size()
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}

	sc := cfg.Session(tracks)
	field := render.NewField(r, th, sc.Scheduler.Anchors, cfg.Keys, columns, rows)
	player := audio.NewPlayer(logger)
	s, err := session.New(sc, clock.NewMonotonic(), player, field, logger)
	if nil != err {
		return err
	}
	playlist, err := session.NewPlaylist(s, charts, recorder)
	if nil != err {
		return err
	}

	chart, summary, err := play(cfg, r, field, s, playlist, src)
	if nil != err || nil == chart {
		return err
	}

	fmt.Print(theme.Summary(th, chart.Name, summary))
	if best, err := playlist.Best(); nil != err {
		logger.Println("unable to load high score", err)
	} else if nil != best {
		fmt.Printf("\n    Best  %6v  %v\n", best.Score, best.Played.Format(time.DateOnly))
	}
	return nil
}

// replay scores every stored performance of the charts again and prints it
// next to the score that was saved.
func replay(cfg *config.Config, charts []*game.Chart, tracks int, store *score.DefaultScorer, logger *log.Logger) error {
	sc := cfg.Session(tracks)
	for _, chart := range charts {
		histories, err := store.Load(chart)
		if nil != err {
			return err
		}
		fmt.Printf("%v: %v plays\n", chart.Name, len(histories))
		for i := range histories {
			h := &histories[i]
			summary, err := session.Replay(sc, chart, h, 0, logger)
			if nil != err {
				return err
			}
			fmt.Printf("  %v  saved %6v  replayed %6v  grade %v  misses %v\n",
				h.Played.Format(time.DateOnly), h.Score, summary.Score, summary.Grade, summary.MissCount())
		}
	}
	return nil
}

// play runs the frame loop until the playlist ends or the player quits. It
// returns the last chart played and its summary.
func play(cfg *config.Config, r render.Renderer, field *render.Field, s *session.Session, playlist *session.Playlist, src input.Source) (*game.Chart, score.Summary, error) {
	if err := r.Init(); nil != err {
		return nil, score.Summary{}, err
	}
	defer r.Deinit()

	if err := playlist.Start(); nil != err {
		return nil, score.Summary{}, err
	}

	var err error
	for running := true; running; {
		deadline := time.Now().Add(cfg.FramePeriod)

	drain:
		for {
			select {
			case ev, ok := <-src.Events():
				if !ok {
					running = false
					break drain
				}
				running, err = handle(ev, s, playlist)
				if !running || nil != err {
					break drain
				}
			default:
				break drain
			}
		}
		if !running || nil != err {
			break
		}

		s.Tick()
		field.Stats(s.Summary(), s.Stats.Combo, s.Speed())
		if err := field.Frame(); nil != err {
			return nil, score.Summary{}, err
		}

		if running, err = advance(s, playlist); !running {
			break
		}

		time.Sleep(time.Until(deadline))
	}

	chart, summary := playlist.Current(), s.Summary()
	playlist.Finish()
	return chart, summary, err
}

// advance moves to the next chart once the current one is finished. It
// reports false when the playlist is over or the next chart cannot start.
func advance(s *session.Session, playlist *session.Playlist) (bool, error) {
	if !s.Finished() {
		return true, nil
	}
	if playlist.Index() == playlist.Len()-1 {
		return false, nil
	}
	if err := playlist.Next(); nil != err {
		return false, err
	}
	return true, nil
}

func handle(ev input.Event, s *session.Session, playlist *session.Playlist) (bool, error) {
	switch ev.Control {
	case input.NoControl:
		if ev.Release {
			s.Release(ev.Track)
		} else {
			s.Press(ev.Track)
		}
	case input.Quit:
		return false, nil
	case input.Next:
		return true, playlist.Next()
	case input.Previous:
		return true, playlist.Previous()
	case input.Restart:
		return true, playlist.Restart()
	case input.Pause:
		if s.Paused() {
			s.Resume()
		} else {
			s.Pause()
		}
	case input.SpeedUp:
		s.SetSpeed(s.Speed() + 1)
	case input.SpeedDown:
		s.SetSpeed(s.Speed() - 1)
	}
	return true, nil
}
