// addactl is a thin demo CLI for the high-precision AD/DA hat. All of the
// acquisition logic lives in pkg/ads1256 and pkg/dac8532; this program only
// wires the transport and prints results.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/warthog618/config"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/gpio"

	"github.com/acqtools/hpadda/pkg/ads1256"
	"github.com/acqtools/hpadda/pkg/rpihat"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

var rootCmd = &cobra.Command{
	Use:   "addactl",
	Short: "addactl drives the high-precision AD/DA hat on a Raspberry Pi",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log driver warnings")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers environment variables (ADDACTL_*) over the stock hat
// wiring and a conservative acquisition setup.
func loadConfig() *config.Config {
	defaults := map[string]interface{}{
		"tclk": "500ns",
		"sclk": uint(gpio.GPIO11),
		"mosi": uint(gpio.GPIO10),
		"miso": uint(gpio.GPIO9),
		"cs":   uint(gpio.GPIO22),
		"cs1":  uint(gpio.GPIO23),
		"rst":  uint(gpio.GPIO18),
		"drdy": uint(gpio.GPIO17),
		"gain": uint(1),
		"sps":  float64(1000),
		"vref": float64(5.0),
	}
	def := dict.New(dict.WithMap(defaults))
	eget := env.New(env.WithEnvPrefix("ADDACTL_"))
	sources := config.NewStack(eget)
	cfg := config.New(sources, config.WithDefault(def))
	return cfg.GetConfig("", config.WithMust)
}

// openADC brings up the transport and an initialized driver handle.
func openADC(cfg *config.Config) (*ads1256.ADS1256, *rpihat.Bus, error) {
	pins := rpihat.Pins{
		SCLK: uint8(cfg.MustGet("sclk").Uint()),
		MOSI: uint8(cfg.MustGet("mosi").Uint()),
		MISO: uint8(cfg.MustGet("miso").Uint()),
		CS:   uint8(cfg.MustGet("cs").Uint()),
		CS1:  uint8(cfg.MustGet("cs1").Uint()),
		RST:  uint8(cfg.MustGet("rst").Uint()),
		DRDY: uint8(cfg.MustGet("drdy").Uint()),
	}

	bus, err := rpihat.Open(cfg.MustGet("tclk").Duration(), pins)
	if err != nil {
		return nil, nil, fmt.Errorf("open hat transport: %w", err)
	}

	gain, ok := ads1256.GainFor(int(cfg.MustGet("gain").Uint()))
	if !ok {
		bus.Close()
		return nil, nil, fmt.Errorf("unsupported gain %d", cfg.MustGet("gain").Uint())
	}
	rate, ok := ads1256.DataRateFor(cfg.MustGet("sps").Float())
	if !ok {
		bus.Close()
		return nil, nil, fmt.Errorf("unsupported data rate %v SPS", cfg.MustGet("sps").Float())
	}

	adc := ads1256.New(bus)
	if verbose {
		adc.SetLogger(log)
	}

	dcfg := ads1256.DefaultConfig()
	dcfg.Gain = gain
	dcfg.DataRate = rate
	dcfg.BufferEnabled = true

	start := time.Now()
	if err = adc.Initialize(dcfg); err != nil {
		bus.Close()
		return nil, nil, fmt.Errorf("initialize ADS1256: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("initialized ADS1256")
	return adc, bus, nil
}
