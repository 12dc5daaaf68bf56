package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vsariola/hailstone"
)

func (a *app) bankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bank",
		Short: "Print the sample bank in use",
		Long: `Print the sample bank as YAML. Without --bank this is the built-in bank, a
good starting point for a bank of your own:

  hailstone bank > mybank.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := readBank(a.cfg.GetString("bank"))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := hailstone.InstrumentHatKick; int(i) <= hailstone.NumInstruments; i++ {
				fmt.Fprintf(out, "# %d: %s (%s)\n", int(i), title(i), i.Mode())
			}
			return bank.Write(out)
		},
	}
}
