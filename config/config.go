// Package config handles sbasic.toml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sb/SmallBasic-Online-sub000/vm"
)

// FileName is the name of the configuration file searched for by FindAndLoad.
const FileName = "sbasic.toml"

// Config represents an sbasic.toml configuration.
type Config struct {
	Run        Run        `toml:"run"`
	Log        Log        `toml:"log"`
	TextWindow TextWindow `toml:"textwindow"`

	// Dir is the directory containing the sbasic.toml file (set at load time).
	Dir string `toml:"-"`
}

// Run configures how programs are executed.
type Run struct {
	Mode        string `toml:"mode"`
	Breakpoints []int  `toml:"breakpoints"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// TextWindow sets the initial console colors.
type TextWindow struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
}

// Default returns the configuration used when no sbasic.toml exists.
func Default() *Config {
	return &Config{
		Run: Run{Mode: "run"},
		TextWindow: TextWindow{
			Foreground: vm.DefaultForegroundColor,
			Background: vm.DefaultBackgroundColor,
		},
	}
}

// Load parses an sbasic.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find an sbasic.toml file, then loads
// and returns it. Returns Default() if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// ExecutionMode maps [run] mode onto an engine mode.
func (c *Config) ExecutionMode() vm.ExecutionMode {
	switch strings.ToLower(c.Run.Mode) {
	case "debug":
		return vm.Debug
	case "step":
		return vm.NextStatement
	}
	return vm.RunToEnd
}

// LogPath returns the log file path resolved against the config directory,
// or "" to log to stderr.
func (c *Config) LogPath() string {
	if c.Log.File == "" || filepath.IsAbs(c.Log.File) || c.Dir == "" {
		return c.Log.File
	}
	return filepath.Join(c.Dir, c.Log.File)
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Run.Mode) {
	case "", "run", "debug", "step":
	default:
		return fmt.Errorf("unknown run mode %q", c.Run.Mode)
	}
	for _, line := range c.Run.Breakpoints {
		if line < 1 {
			return fmt.Errorf("breakpoint line %d must be 1 or greater", line)
		}
	}
	for _, color := range []*string{&c.TextWindow.Foreground, &c.TextWindow.Background} {
		canonical, ok := vm.TextWindowColor(*color)
		if !ok {
			return fmt.Errorf("unsupported text window color %q", *color)
		}
		*color = canonical
	}
	return nil
}
