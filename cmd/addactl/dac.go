package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acqtools/hpadda/pkg/dac8532"
	"github.com/acqtools/hpadda/pkg/rpihat"
)

func init() {
	rootCmd.AddCommand(dacCmd)
}

var dacCmd = &cobra.Command{
	Use:   "dac <A|B> <volts>",
	Short: "Set a DAC8532 output voltage",
	Args:  cobra.ExactArgs(2),
	RunE:  dac,
}

func dac(cmd *cobra.Command, args []string) error {
	var ch dac8532.Channel
	switch strings.ToUpper(args[0]) {
	case "A":
		ch = dac8532.ChannelA
	case "B":
		ch = dac8532.ChannelB
	default:
		return fmt.Errorf("unknown DAC channel '%s'", args[0])
	}

	volts, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("can't parse voltage '%s'", args[1])
	}

	cfg := loadConfig()
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
		return fmt.Errorf("open hat transport: %w", err)
	}
	defer bus.Close()

	d := dac8532.New(bus.DAC(), cfg.MustGet("vref").Float())
	if err = d.SetVoltage(ch, volts); err != nil {
		return err
	}
	log.Info().Stringer("channel", ch).Float64("volts", volts).Msg("DAC output set")
	return nil
}
