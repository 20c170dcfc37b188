// Package config loads the settings of the ws2812b command.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Backends understood by the command.
const (
	BackendSim    = "sim"
	BackendSPI    = "spi"
	BackendStream = "stream"
)

// Modes understood by the command.
const (
	ModeWrite = "write"
	ModeSend  = "send"
	ModeFade  = "fade"
	ModeStrip = "strip"
)

type Config struct {
	Backend string `yaml:"backend"` // "sim" | "spi" | "stream"
	Pin     string `yaml:"pin"`     // e.g. GPIO18, stream backend
	SPI     string `yaml:"spi"`     // e.g. /dev/spidev0.0; empty picks the first port
	ResetUs int    `yaml:"reset_us"`

	FreqMHz    uint32   `yaml:"freq_mhz"`
	Count      int      `yaml:"count"`
	Color      string   `yaml:"color"`            // hex, e.g. #0000ff
	Colors     []string `yaml:"colors,omitempty"` // strip mode palette, repeated along the strip
	Brightness uint8    `yaml:"brightness"`
	Mode       string   `yaml:"mode"` // "write" | "send" | "fade" | "strip"
	Repeat     int      `yaml:"repeat"`
	FadeStepMs int      `yaml:"fade_step_ms"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Backend:    BackendSim,
		Pin:        "GPIO18",
		ResetUs:    300,
		FreqMHz:    80,
		Count:      1,
		Color:      "#0000ff",
		Brightness: 255,
		Mode:       ModeWrite,
		Repeat:     1,
		FadeStepMs: 5,
	}
}

// Load reads path on top of Default.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, errors.Wrapf(err, "parse %s", path)
	}
	return c, c.Validate()
}

// Save writes c to path.
func Save(path string, c Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(path, b, 0644))
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSim, BackendSPI, BackendStream:
	default:
		return errors.Errorf("unknown backend '%s' (sim|spi|stream)", c.Backend)
	}
	switch c.Mode {
	case ModeWrite, ModeSend, ModeFade, ModeStrip:
	default:
		return errors.Errorf("unknown mode '%s' (write|send|fade|strip)", c.Mode)
	}
	if c.Count < 0 {
		return errors.Errorf("negative LED count %d", c.Count)
	}
	return nil
}
