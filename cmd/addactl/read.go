package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/acqtools/hpadda/pkg/ads1256"
)

func init() {
	readCmd.Flags().BoolVarP(&readOpts.Differential, "differential", "d", false, "treat the index as a differential pair")
	readCmd.Flags().BoolVarP(&readOpts.Volts, "volts", "V", false, "print volts instead of the raw code")
	rootCmd.AddCommand(readCmd)
}

var (
	readCmd = &cobra.Command{
		Use:   "read <channel>",
		Short: "Read a single sample from one channel",
		Args:  cobra.ExactArgs(1),
		RunE:  read,
	}
	readOpts = struct {
		Differential bool
		Volts        bool
	}{}
)

func read(cmd *cobra.Command, args []string) error {
	ch, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("can't parse channel '%s'", args[0])
	}

	cfg := loadConfig()
	adc, _, err := openADC(cfg)
	if err != nil {
		return err
	}
	defer adc.Close()

	if readOpts.Differential {
		if err = adc.SetScanMode(ads1256.Differential); err != nil {
			return err
		}
	}

	code, err := adc.ReadChannel(ch)
	if err != nil {
		return err
	}

	if readOpts.Volts {
		v := ads1256.RawToVoltage(code, adc.Gain(), cfg.MustGet("vref").Float(), 0)
		fmt.Printf("ch%d=%.6f V\n", ch, v)
		return nil
	}
	fmt.Printf("ch%d=%d\n", ch, code)
	return nil
}
