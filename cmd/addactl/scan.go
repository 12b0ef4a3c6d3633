package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/acqtools/hpadda/pkg/ads1256"
)

func init() {
	scanCmd.Flags().BoolVarP(&scanOpts.Differential, "differential", "d", false, "scan differential pairs")
	scanCmd.Flags().UintVarP(&scanOpts.Settling, "settling", "s", uint(ads1256.SettlingFull), "DRDY cycles to wait after each channel switch (1 = fast)")
	scanCmd.Flags().UintVarP(&scanOpts.Repeat, "repeat", "n", 1, "number of scan passes")
	scanCmd.Flags().BoolVarP(&scanOpts.Monitor, "monitor", "m", false, "print a performance report after the passes")
	rootCmd.AddCommand(scanCmd)
}

var (
	scanCmd = &cobra.Command{
		Use:   "scan <channel>...",
		Short: "Scan an ordered list of channels",
		Long:  `Acquire one sample per listed channel in order. Duplicates are reacquired.`,
		Args:  cobra.RangeArgs(1, 8),
		RunE:  scan,
	}
	scanOpts = struct {
		Differential bool
		Settling     uint
		Repeat       uint
		Monitor      bool
	}{}
)

func scan(cmd *cobra.Command, args []string) error {
	channels := make([]int, len(args))
	for i, arg := range args {
		ch, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("can't parse channel '%s'", arg)
		}
		channels[i] = ch
	}

	cfg := loadConfig()
	adc, _, err := openADC(cfg)
	if err != nil {
		return err
	}
	defer adc.Close()

	if scanOpts.Differential {
		if err = adc.SetScanMode(ads1256.Differential); err != nil {
			return err
		}
	}

	if scanOpts.Monitor {
		adc.BeginMonitoring(adc.DataRate())
	}

	settling := ads1256.SettlingPolicy(scanOpts.Settling)
	vref := cfg.MustGet("vref").Float()
	for pass := uint(0); pass < scanOpts.Repeat; pass++ {
		samples, err := adc.ScanChannels(channels, settling)
		if err != nil {
			return err
		}
		for i, code := range samples {
			v := ads1256.RawToVoltage(code, adc.Gain(), vref, 0)
			fmt.Printf("ch%d=%d (%.6f V)  ", channels[i], code, v)
		}
		fmt.Println()
	}

	if scanOpts.Monitor {
		m := adc.PerformanceReport()
		log.Info().
			Uint64("samples", m.TotalSamples).
			Uint64("scans", m.TotalScans).
			Float64("theoretical_sps", m.TheoreticalSPSPerChannel).
			Float64("actual_sps_per_channel", m.ActualSPSPerChannel).
			Float64("efficiency_pct", m.EfficiencyPercent).
			Str("status", m.Status()).
			Msg("performance report")
	}
	return nil
}
