// Package config collects the viewer settings from defaults, an optional
// JSON file and command line flags, in increasing priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/logging"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/types"
)

// PresentModes lists the accepted present_mode values.
var PresentModes = []string{"fifo", "immediate", "mailbox"}

type Config struct {
	Title  string
	Width  int
	Height int

	// initial view
	Scale  float32
	Origin types.Complex
	Zoom   float32

	// WGSL file; empty uses the embedded shader
	Shader      string
	PresentMode string

	SnapshotDir   string
	MaxIterations int
	Workers       int

	LogLevel string

	// Snapshot, when set, renders the initial view to this PNG path and
	// exits without opening a window.
	Snapshot string
}

func Default() Config {
	return Config{
		Title:         "Interactive Fractal Viewer",
		Width:         800,
		Height:        600,
		Scale:         3.0,
		Origin:        types.NewComplex(-0.5, 0),
		Zoom:          1,
		PresentMode:   "fifo",
		SnapshotDir:   ".",
		MaxIterations: 255,
		Workers:       runtime.GOMAXPROCS(0),
		LogLevel:      "info",
	}
}

// Load reads a JSON config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := cfg.load(path); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse builds the configuration from command line arguments (without
// the program name). Flags given explicitly win over the -config file.
func Parse(args []string, output io.Writer) (Config, error) {
	cfg := Default()
	var path string

	fs := flag.NewFlagSet("mandelbrot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&path, "config", "", "JSON config `file`")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "window title")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "window width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "window height in pixels")
	fs.Var((*float32Value)(&cfg.Scale), "scale", "complex span of the shorter screen side at zoom 1")
	fs.Var((*complexValue)(&cfg.Origin), "origin", "complex point at the centre, as `re,im`")
	fs.Var((*float32Value)(&cfg.Zoom), "zoom", "initial zoom")
	fs.StringVar(&cfg.Shader, "shader", cfg.Shader, "WGSL shader `file` (default embedded)")
	fs.StringVar(&cfg.PresentMode, "present-mode", cfg.PresentMode, "fifo, immediate or mailbox")
	fs.StringVar(&cfg.SnapshotDir, "snapshot-dir", cfg.SnapshotDir, "`directory` for snapshots taken with S")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "escape time limit for snapshots")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "snapshot render goroutines")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.Snapshot, "snapshot", "", "render the initial view to this PNG `file` and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if path != "" {
		set := make(map[string]string)
		fs.Visit(func(f *flag.Flag) {
			set[f.Name] = f.Value.String()
		})
		if err := cfg.load(path); err != nil {
			return Config{}, err
		}
		for name, value := range set {
			if err := fs.Set(name, value); err != nil {
				return Config{}, err
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := c.apply(string(b)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c *Config) apply(js string) error {
	if !gjson.Valid(js) {
		return errors.New("invalid JSON")
	}

	strs := map[string]*string{
		"window.title": &c.Title,
		"shader":       &c.Shader,
		"present_mode": &c.PresentMode,
		"snapshot.dir": &c.SnapshotDir,
		"log.level":    &c.LogLevel,
	}
	for key, p := range strs {
		if r := gjson.Get(js, key); r.Exists() {
			if r.Type != gjson.String {
				return fmt.Errorf("%s: want a string, got %s", key, r.Type)
			}
			*p = r.String()
		}
	}

	ints := map[string]*int{
		"window.width":            &c.Width,
		"window.height":           &c.Height,
		"snapshot.max_iterations": &c.MaxIterations,
		"snapshot.workers":        &c.Workers,
	}
	for key, p := range ints {
		if r := gjson.Get(js, key); r.Exists() {
			if r.Type != gjson.Number {
				return fmt.Errorf("%s: want a number, got %s", key, r.Type)
			}
			*p = int(r.Int())
		}
	}

	floats := map[string]*float32{
		"view.scale": &c.Scale,
		"view.zoom":  &c.Zoom,
	}
	for key, p := range floats {
		if r := gjson.Get(js, key); r.Exists() {
			if r.Type != gjson.Number {
				return fmt.Errorf("%s: want a number, got %s", key, r.Type)
			}
			*p = float32(r.Float())
		}
	}

	if r := gjson.Get(js, "view.origin"); r.Exists() {
		parts := r.Array()
		if !r.IsArray() || len(parts) != 2 || parts[0].Type != gjson.Number || parts[1].Type != gjson.Number {
			return errors.New("view.origin: want [re, im]")
		}
		c.Origin = types.NewComplex(float32(parts[0].Float()), float32(parts[1].Float()))
	}
	return nil
}

func (c *Config) validate() error {
	c.Width = types.AtLeast(c.Width, 1)
	c.Height = types.AtLeast(c.Height, 1)
	if c.Workers < 1 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	if !(c.Scale > 0) {
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	}
	if !(c.Zoom > 0) {
		return fmt.Errorf("zoom must be positive, got %v", c.Zoom)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1, got %d", c.MaxIterations)
	}
	c.PresentMode = strings.ToLower(c.PresentMode)
	if !slices.Contains(PresentModes, c.PresentMode) {
		return fmt.Errorf("unknown present mode %q", c.PresentMode)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

type float32Value float32

func (f *float32Value) String() string {
	return strconv.FormatFloat(float64(*f), 'g', -1, 32)
}

func (f *float32Value) Set(s string) error {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return err
	}
	*f = float32Value(v)
	return nil
}

type complexValue types.Complex

func (c *complexValue) String() string {
	return strconv.FormatFloat(float64(c.Re), 'g', -1, 32) + "," + strconv.FormatFloat(float64(c.Im), 'g', -1, 32)
}

func (c *complexValue) Set(s string) error {
	re, im, ok := strings.Cut(s, ",")
	if !ok {
		return errors.New("want re,im")
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(re), 32)
	if err != nil {
		return err
	}
	i, err := strconv.ParseFloat(strings.TrimSpace(im), 32)
	if err != nil {
		return err
	}
	*c = complexValue(types.NewComplex(float32(r), float32(i)))
	return nil
}
