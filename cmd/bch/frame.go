package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/frame"
)

func (a *app) frameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Protect byte payloads with the configured code",
	}
	cmd.AddCommand(a.frameEncodeCmd(), a.frameDecodeCmd())
	return cmd
}

func (a *app) frameEncodeCmd() *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "encode <payload>",
		Short: "Encode a 0x-prefixed hex payload (or text with --text) into codeword bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			if text {
				payload = []byte(args[0])
			} else {
				var err error
				if payload, err = hexutil.Decode(args[0]); err != nil {
					return fmt.Errorf("payload: %w", err)
				}
			}
			out, err := frame.New(a.code).Encode(payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, hexutil.Encode(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "Treat the payload as literal text")
	return cmd
}

func (a *app) frameDecodeCmd() *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "decode <frame>",
		Short: "Decode 0x-prefixed hex codeword bytes back into the payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hexutil.Decode(args[0])
			if err != nil {
				return fmt.Errorf("frame: %w", err)
			}
			payload, report, err := frame.New(a.code).Decode(data)
			for _, b := range report.Corrected {
				fmt.Fprintf(a.stdout, "Block %d: corrected bits %v\n", b.Index, b.Positions)
			}
			if err != nil {
				return err
			}
			if text {
				fmt.Fprintln(a.stdout, string(payload))
			} else {
				fmt.Fprintln(a.stdout, hexutil.Encode(payload))
			}
			fmt.Fprintf(a.stdout, "Blocks: %d, bits corrected: %d\n", report.Blocks, report.BitsCorrected())
			return nil
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "Print the payload as text")
	return cmd
}
