package config

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/judge"
	"git.lost.host/meutraa/lanes/internal/scheduler"
	"git.lost.host/meutraa/lanes/internal/session"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

// SpawnZ is the depth notes spawn at, they travel towards the player.
const SpawnZ = 10.0

type Config struct {
	Charts         []string
	Speed          float64
	SpawnDistance  float64
	Spacing        float64
	Latency        time.Duration
	Lead           time.Duration
	Delay          time.Duration
	Windows        judge.Windows
	EffectDuration time.Duration
	Keys           []rune
	Device         string
	Database       string
	FramePeriod    time.Duration
	Pool           int
	Debug          bool
	Replay         bool
}

// Parse reads the command line, args excludes the program name.
func Parse(args []string) (*Config, error) {
	app := kingpin.New("lanes", "A lane based rhythm game for the terminal")
	app.Version(Version)

	var (
		charts         = app.Arg("charts", "Sequence files to play, in order").Required().ExistingFiles()
		speed          = app.Flag("speed", "Note speed in distance units per second").Default("10").Short('s').Float64()
		spawnDistance  = app.Flag("spawn-distance", "Distance between spawn and hit line").Default("18").Float64()
		spacing        = app.Flag("spacing", "Distance between tracks").Default("2").Float64()
		latency        = app.Flag("latency", "Audio latency compensation").Default("100ms").Short('l').Duration()
		lead           = app.Flag("lead", "Added to the hit time of every note").Default("0ms").Duration()
		delay          = app.Flag("delay", "Start delay").Default("3s").Short('d').Duration()
		perfect        = app.Flag("perfect", "Perfect window").Default("1.0").Float64()
		great          = app.Flag("great", "Great window").Default("2.0").Float64()
		good           = app.Flag("good", "Good window").Default("3.5").Float64()
		bad            = app.Flag("bad", "Bad window").Default("4.0").Float64()
		judgeRange     = app.Flag("judge-range", "Earliest press that is judged").Default("4.0").Float64()
		missAllowance  = app.Flag("miss-allowance", "Latest press that is judged").Default("1.0").Float64()
		effectDuration = app.Flag("effect-duration", "How long an effect stays on").Default("3s").Duration()
		keys           = app.Flag("keys", "One key per track").Default("sdjk").Short('k').String()
		device         = app.Flag("device", "Read presses and releases from an evdev keyboard").String()
		database       = app.Flag("db", "Score history database").Default("./scores.db").String()
		framePeriod    = app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').Duration()
		pool           = app.Flag("pool", "Notes allocated up front").Default("20").Int()
		debug          = app.Flag("debug", "Verbose logging").Bool()
		replay         = app.Flag("replay", "Score the stored plays of the charts again and exit").Bool()
	)

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}

	c := &Config{
		Charts:        *charts,
		Speed:         *speed,
		SpawnDistance: *spawnDistance,
		Spacing:       *spacing,
		Latency:       *latency,
		Lead:          *lead,
		Delay:         *delay,
		Windows: judge.Windows{
			Perfect:       *perfect,
			Great:         *great,
			Good:          *good,
			Bad:           *bad,
			Judge:         *judgeRange,
			MissAllowance: *missAllowance,
		},
		EffectDuration: *effectDuration,
		Keys:           []rune(*keys),
		Device:         *device,
		Database:       *database,
		FramePeriod:    *framePeriod,
		Pool:           *pool,
		Debug:          *debug,
		Replay:         *replay,
	}
	if err := c.Validate(); nil != err {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", c.Speed)
	}
	if c.SpawnDistance <= 0 {
		return fmt.Errorf("spawn distance must be positive, got %v", c.SpawnDistance)
	}
	if c.FramePeriod <= 0 {
		return fmt.Errorf("frame period must be positive, got %v", c.FramePeriod)
	}
	if err := c.Windows.Validate(); nil != err {
		return fmt.Errorf("invalid judgement windows: %w", err)
	}
	seen := map[rune]bool{}
	for _, k := range c.Keys {
		if seen[k] {
			return fmt.Errorf("key %q is bound to more than one track", k)
		}
		seen[k] = true
	}
	return nil
}

// CheckTracks fails when a chart has more tracks than there are keys.
func (c *Config) CheckTracks(tracks int) error {
	if tracks > len(c.Keys) {
		return fmt.Errorf("chart has %v tracks but only %v keys are bound", tracks, len(c.Keys))
	}
	return nil
}

// Anchors lays out tracks side by side, centred on x=0.
func (c *Config) Anchors(tracks int) []game.Anchor {
	anchors := make([]game.Anchor, tracks)
	for i := range anchors {
		x := (float64(i) - float64(tracks-1)/2) * c.Spacing
		anchors[i] = game.Anchor{
			Spawn: game.Vec3{X: x, Z: SpawnZ},
			Hit:   game.Vec3{X: x, Z: SpawnZ - c.SpawnDistance},
		}
	}
	return anchors
}

// Session is the session configuration for charts with the given number of
// tracks.
func (c *Config) Session(tracks int) session.Config {
	return session.Config{
		Scheduler: scheduler.Config{
			Anchors: c.Anchors(tracks),
			Speed:   c.Speed,
			Latency: c.Latency,
			Lead:    c.Lead,
		},
		Windows:        c.Windows,
		Delay:          c.Delay,
		EffectDuration: c.EffectDuration,
		Warmup:         c.Pool,
		Debug:          c.Debug,
	}
}
