package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the code parameters and generator polynomial",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.code.Config()
			gen := a.code.Generator()
			f := a.code.Field()

			fmt.Fprintf(a.stdout, "Code:        %s\n", a.code)
			fmt.Fprintf(a.stdout, "n:           %d bits (codeword)\n", cfg.N)
			fmt.Fprintf(a.stdout, "k:           %d bits (message)\n", cfg.K)
			fmt.Fprintf(a.stdout, "t:           %d correctable bit errors\n", cfg.T)
			fmt.Fprintf(a.stdout, "Parity bits: %d (%d byte(s) per codeword)\n", cfg.N-cfg.K, (cfg.N+7)/8)
			fmt.Fprintf(a.stdout, "Rate:        %.3f\n", float64(cfg.K)/float64(cfg.N))
			fmt.Fprintf(a.stdout, "Field:       %s, %d elements\n", f, f.Size())
			if cfg.N < f.Order() {
				fmt.Fprintf(a.stdout, "Shortened:   by %d bits from %d\n", f.Order()-cfg.N, f.Order())
			}
			fmt.Fprintf(a.stdout, "Generator:   %s (%s), degree %d\n", gen, gen.Poly().Hex(), gen.Degree())
			fmt.Fprintf(a.stdout, "Cosets:      %v\n", gen.Cosets())
			return nil
		},
	}
}
