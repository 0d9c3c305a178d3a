package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/render"
)

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <codeword>",
		Short: "Correct up to t bit errors in an n-bit codeword",
		Long: `Decode an n-bit codeword given in binary or hex. Bit positions in the
report count from 0 at the rightmost (least significant) bit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cw, err := render.ParseWord(args[0], a.code.N())
			if err != nil {
				return fmt.Errorf("codeword: %w", err)
			}
			msg, res, derr := a.code.DecodeMessage(cw)
			if err := render.Report(a.stdout, res, derr, nil, a.color); err != nil {
				return err
			}
			if derr != nil {
				return derr
			}
			fmt.Fprintf(a.stdout, "Message:   %s\n", render.Binary(msg))
			return nil
		},
	}
}
