package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acqtools/hpadda/pkg/ads1256"
)

func init() {
	rootCmd.AddCommand(regsCmd)
}

var regsCmd = &cobra.Command{
	Use:   "regs",
	Short: "Dump the ADS1256 register file",
	Args:  cobra.NoArgs,
	RunE:  regs,
}

func regs(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	adc, _, err := openADC(cfg)
	if err != nil {
		return err
	}
	defer adc.Close()

	registers, err := adc.ReadAllRegisters()
	if err != nil {
		return err
	}
	for reg := 0; reg < len(registers); reg++ {
		fmt.Printf("0x%02X: 0x%02X\n", reg, registers[ads1256.Register(reg)])
	}
	return nil
}
