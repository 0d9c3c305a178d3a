package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/render"
)

func (a *app) encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <message>",
		Short: "Encode a k-bit message into an n-bit codeword",
		Long: `Encode a k-bit message, given in binary (1010101) or hex (0x55), into a
systematic codeword. The message occupies the high k bits of the codeword
and the n-k parity bits follow.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := render.ParseWord(args[0], a.code.K())
			if err != nil {
				return fmt.Errorf("message: %w", err)
			}
			cw, err := a.code.Encode(msg)
			if err != nil {
				return err
			}
			parity, err := bch.Parity(cw, a.code.N(), a.code.K())
			if err != nil {
				return err
			}
			a.logger.Debug("Encoded message", "message", render.Binary(msg), "codeword", render.Hex(cw))
			fmt.Fprintf(a.stdout, "Message:  %s\n", render.Binary(msg))
			fmt.Fprintf(a.stdout, "Codeword: %s (%s)\n", render.Binary(cw), render.Hex(cw))
			fmt.Fprintf(a.stdout, "Parity:   %s\n", render.Binary(parity))
			return nil
		},
	}
}
