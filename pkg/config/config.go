// Package config holds the interpreter settings that can be given in a TOML
// file. Keys are the Go field names.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"gopkg.in/inconshreveable/log15.v2"
)

const (
	InputModeParse = "parse" // answer `in` sites while parsing
	InputModeRun   = "run"   // answer `in` sites when the statement runs

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var ErrInvalid = errors.New("config: invalid setting")

type Config struct {
	Prompt           string
	Verbosity        string
	InputMode        string
	LooseGlobalFetch bool
	MaxCallDepth     int
	NoReturnNotice   bool
	Color            string
	MaxSourceSize    int
}

// Defaults are the settings used when no file or flag overrides them.
var Defaults = Config{
	Prompt:         ":",
	Verbosity:      "warn",
	InputMode:      InputModeParse,
	MaxCallDepth:   64,
	NoReturnNotice: true,
	Color:          ColorAuto,
	MaxSourceSize:  1 << 20,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Load decodes the TOML file over cfg. Keys absent from the file keep the
// values already in cfg.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = Decode(f, cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func Decode(r io.Reader, cfg *Config) error {
	return tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(cfg)
}

// Dump writes cfg as TOML.
func Dump(w io.Writer, cfg *Config) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Validate checks the enumerated and numeric settings.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.InputMode {
	case InputModeParse, InputModeRun:
	default:
		return fmt.Errorf("%w: InputMode %q, want %q or %q", ErrInvalid, c.InputMode, InputModeParse, InputModeRun)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: Color %q, want auto, always or never", ErrInvalid, c.Color)
	}
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("%w: MaxCallDepth must be positive, got %d", ErrInvalid, c.MaxCallDepth)
	}
	if c.MaxSourceSize <= 0 {
		return fmt.Errorf("%w: MaxSourceSize must be positive, got %d", ErrInvalid, c.MaxSourceSize)
	}
	return nil
}

// Level returns the log level named by Verbosity.
func (c *Config) Level() (log15.Lvl, error) {
	lvl, err := log15.LvlFromString(c.Verbosity)
	if err != nil {
		return 0, fmt.Errorf("%w: Verbosity %q", ErrInvalid, c.Verbosity)
	}
	return lvl, nil
}
