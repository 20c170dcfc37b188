// Command ws2812b drives a WS2812B strip from a periph.io host, or from a
// simulated channel that logs every frame.
package main

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"

	"github.com/tinygo-org/ws2812b/internal/config"
	"github.com/tinygo-org/ws2812b/pulse"
	"github.com/tinygo-org/ws2812b/pulse/periphpulse"
	"github.com/tinygo-org/ws2812b/pulse/pulsetest"
	"github.com/tinygo-org/ws2812b/ws2812b"
)

var maskAny = errors.WithStack

func main() {
	var configPath, levelFlag string
	cfg := config.Default()

	pflag.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pflag.StringVarP(&levelFlag, "level", "l", "info", "Set log level")
	pflag.StringVarP(&cfg.Backend, "backend", "b", cfg.Backend, "Output backend (sim|spi|stream)")
	pflag.StringVar(&cfg.Pin, "pin", cfg.Pin, "GPIO pin of the stream backend")
	pflag.StringVar(&cfg.SPI, "spi", cfg.SPI, "SPI port of the spi backend (empty for the first one)")
	pflag.IntVar(&cfg.ResetUs, "reset-us", cfg.ResetUs, "Latch time appended to each frame in µs")
	pflag.Uint32Var(&cfg.FreqMHz, "freq", cfg.FreqMHz, "Pulse peripheral source clock in MHz")
	pflag.IntVarP(&cfg.Count, "count", "n", cfg.Count, "Number of LEDs")
	pflag.StringVar(&cfg.Color, "color", cfg.Color, "Color as hex, e.g. #ff8800")
	pflag.StringSliceVar(&cfg.Colors, "colors", cfg.Colors, "Strip mode palette, e.g. #ff0000,#00ff00")
	pflag.Uint8Var(&cfg.Brightness, "brightness", cfg.Brightness, "Brightness 0-255 (send mode)")
	pflag.StringVarP(&cfg.Mode, "mode", "m", cfg.Mode, "What to do (write|send|fade|strip)")
	pflag.IntVar(&cfg.Repeat, "repeat", cfg.Repeat, "Repetitions, 0 repeats forever")
	pflag.IntVar(&cfg.FadeStepMs, "fade-step-ms", cfg.FadeStepMs, "Delay between fade steps in ms")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		Exitf("Invalid log level '%s': %v\n", levelFlag, err)
	}
	logger = logger.Level(level)

	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			Exitf("Failed to load config: %v\n", err)
		}
		cfg = mergeFlags(fileCfg, cfg, pflag.CommandLine)
	}
	if err := cfg.Validate(); err != nil {
		Exitf("Invalid configuration: %v\n", err)
	}

	c, err := parseColor(cfg.Color)
	if err != nil {
		Exitf("Invalid color: %v\n", err)
	}
	palette, err := parsePalette(cfg.Colors, c)
	if err != nil {
		Exitf("Invalid colors: %v\n", err)
	}

	var dev *ws2812b.Device
	p, closer, err := openPeripheral(cfg, logger, func(frame []pulse.Code) {
		colors, err := dev.Encoder().Decode(frame)
		if err != nil {
			logger.Warn().Err(err).Int("codes", len(frame)).Msg("undecodable frame")
			return
		}
		ev := logger.Debug().Int("codes", len(frame)).Int("leds", len(colors))
		if len(colors) > 0 {
			ev = ev.Str("first", fmt.Sprintf("#%02x%02x%02x", colors[0].R, colors[0].G, colors[0].B))
		}
		ev.Msg("frame")
	})
	if err != nil {
		Exitf("Failed to open %s backend: %v\n", cfg.Backend, err)
	}
	defer closer.Close()

	dev, err = ws2812b.New(p, ws2812b.Config{
		FreqMHz:  cfg.FreqMHz,
		FadeStep: time.Duration(cfg.FadeStepMs) * time.Millisecond,
	})
	if err != nil {
		Exitf("Failed to initialize WS2812B: %v\n", err)
	}
	var strip *ws2812b.Strip
	if cfg.Mode == config.ModeStrip {
		if strip, err = ws2812b.NewStrip(dev, cfg.Count); err != nil {
			Exitf("Failed to create strip: %v\n", err)
		}
		strip.Brightness = cfg.Brightness
	}

	logger.Info().
		Str("backend", cfg.Backend).
		Str("mode", cfg.Mode).
		Str("color", cfg.Color).
		Int("count", cfg.Count).
		Msg("Starting")
	for i := 0; cfg.Repeat == 0 || i < cfg.Repeat; i++ {
		if err := run(dev, strip, cfg, c, palette); err != nil {
			logger.Error().Err(err).Int("iteration", i).Msg("Transmission failed")
			closer.Close()
			os.Exit(1)
		}
	}
}

// run performs one repetition of cfg.Mode. strip is only used, and only
// required, in strip mode.
func run(dev *ws2812b.Device, strip *ws2812b.Strip, cfg config.Config, c ws2812b.Color, palette []ws2812b.Color) error {
	switch cfg.Mode {
	case config.ModeStrip:
		return maskAny(paint(strip, palette))
	case config.ModeSend:
		return maskAny(dev.Send(c, cfg.Brightness, cfg.Count))
	case config.ModeFade:
		return maskAny(dev.Fade(c, cfg.Count))
	default:
		return maskAny(dev.Write(c, cfg.Count))
	}
}

// openPeripheral returns the peripheral selected by cfg.Backend. onFrame is
// called for every frame of the sim backend.
func openPeripheral(cfg config.Config, log zerolog.Logger, onFrame func([]pulse.Code)) (pulse.Peripheral, io.Closer, error) {
	reset := time.Duration(cfg.ResetUs) * time.Microsecond
	switch cfg.Backend {
	case config.BackendSPI:
		if _, err := host.Init(); err != nil {
			return nil, nil, maskAny(err)
		}
		port, err := spireg.Open(cfg.SPI)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "open SPI port '%s'", cfg.SPI)
		}
		return periphpulse.NewSPI(port, reset, log), port, nil
	case config.BackendStream:
		if _, err := host.Init(); err != nil {
			return nil, nil, maskAny(err)
		}
		p := gpioreg.ByName(cfg.Pin)
		if p == nil {
			return nil, nil, errors.Errorf("no pin named '%s'", cfg.Pin)
		}
		sp, ok := p.(periphpulse.StreamPin)
		if !ok {
			return nil, nil, errors.Errorf("pin %s cannot stream bits", p)
		}
		return periphpulse.NewStream(sp, reset, log), nopCloser{}, nil
	default:
		return &pulsetest.Peripheral{Channel: &pulsetest.Channel{OnFrame: onFrame}}, nopCloser{}, nil
	}
}

// paint repeats palette along the first row of d and displays it.
func paint(d drivers.Displayer, palette []ws2812b.Color) error {
	w, _ := d.Size()
	for x := int16(0); x < w; x++ {
		c := palette[int(x)%len(palette)]
		d.SetPixel(x, 0, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}
	return d.Display()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// mergeFlags returns fileCfg with the values of every flag explicitly set on
// the command line taken from flagCfg.
func mergeFlags(fileCfg, flagCfg config.Config, fs *pflag.FlagSet) config.Config {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("backend", func() { fileCfg.Backend = flagCfg.Backend })
	set("pin", func() { fileCfg.Pin = flagCfg.Pin })
	set("spi", func() { fileCfg.SPI = flagCfg.SPI })
	set("reset-us", func() { fileCfg.ResetUs = flagCfg.ResetUs })
	set("freq", func() { fileCfg.FreqMHz = flagCfg.FreqMHz })
	set("count", func() { fileCfg.Count = flagCfg.Count })
	set("color", func() { fileCfg.Color = flagCfg.Color })
	set("colors", func() { fileCfg.Colors = flagCfg.Colors })
	set("brightness", func() { fileCfg.Brightness = flagCfg.Brightness })
	set("mode", func() { fileCfg.Mode = flagCfg.Mode })
	set("repeat", func() { fileCfg.Repeat = flagCfg.Repeat })
	set("fade-step-ms", func() { fileCfg.FadeStepMs = flagCfg.FadeStepMs })
	return fileCfg
}

func parseColor(s string) (ws2812b.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return ws2812b.Color{}, errors.Wrapf(err, "parse '%s'", s)
	}
	r, g, b := c.RGB255()
	return ws2812b.Color{R: r, G: g, B: b}, nil
}

// parsePalette parses every entry of hex. An empty list yields fallback
// alone.
func parsePalette(hex []string, fallback ws2812b.Color) ([]ws2812b.Color, error) {
	if len(hex) == 0 {
		return []ws2812b.Color{fallback}, nil
	}
	palette := make([]ws2812b.Color, 0, len(hex))
	for _, s := range hex {
		c, err := parseColor(s)
		if err != nil {
			return nil, err
		}
		palette = append(palette, c)
	}
	return palette, nil
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
