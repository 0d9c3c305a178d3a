package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/inject"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/render"
)

type simulateOpts struct {
	message   string
	numErrors int
	errorBits []int
	seed      uint64
	trials    int
}

// tally counts simulation outcomes.
type tally struct {
	clean, corrected, wrong, uncorrectable, miscorrected int
}

func (a *app) simulateCmd() *cobra.Command {
	var o simulateOpts
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Encode, inject bit errors, decode and show what was corrected",
		Long: `Encode a message (random unless --message is given), flip bits in the
codeword and decode it. Errors go at --error-bits when given, otherwise at
--num-errors random positions. With --trials above 1 only a summary of the
outcomes is printed; every trial uses --message when given and fresh random
errors, so --error-bits cannot be combined with it.

In the diff, ^ marks an injected error that was corrected, x an injected
error left in place and ? a bit the decoder flipped that was never
corrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.trials < 1 {
				return fmt.Errorf("--trials must be at least 1, got %d", o.trials)
			}
			if o.trials > 1 && len(o.errorBits) > 0 {
				return errors.New("--error-bits fixes the error pattern and cannot be combined with --trials above 1")
			}
			if o.seed == 0 {
				o.seed = rand.Uint64()
			}
			rng := inject.NewRand(o.seed)
			a.logger.Info("Simulating", "code", a.code.String(), "seed", o.seed)
			if o.numErrors < 0 {
				o.numErrors = a.code.T()
			}
			if o.trials > 1 {
				return a.simulateMany(rng, o)
			}
			return a.simulateOne(rng, o)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&o.message, "message", "", "Message to encode, binary or 0x-prefixed hex (random if empty)")
	fs.IntVar(&o.numErrors, "num-errors", -1, "Number of random bit errors to inject (default t)")
	fs.IntSliceVar(&o.errorBits, "error-bits", nil, "Comma-separated bit positions to flip, 0 is the rightmost bit")
	fs.Uint64Var(&o.seed, "seed", 0, "Random seed for reproducible runs (0 picks one)")
	fs.IntVar(&o.trials, "trials", 1, "Number of random trials to run")
	return cmd
}

func (a *app) simulateOne(rng *rand.Rand, o simulateOpts) error {
	var (
		msg bch.Word
		err error
	)
	if o.message != "" {
		msg, err = render.ParseWord(o.message, a.code.K())
	} else {
		msg, err = inject.RandomWord(rng, a.code.K())
	}
	if err != nil {
		return fmt.Errorf("message: %w", err)
	}
	cw, err := a.code.Encode(msg)
	if err != nil {
		return err
	}

	var (
		received bch.Word
		injected []int
	)
	if len(o.errorBits) > 0 {
		received, err = inject.Flip(cw, o.errorBits)
		injected = o.errorBits
	} else {
		received, injected, err = inject.Random(rng, cw, o.numErrors)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Seed:      %d\n", o.seed)
	fmt.Fprintf(a.stdout, "Message:   %s\n", render.Binary(msg))
	fmt.Fprintf(a.stdout, "Codeword:  %s (%s)\n", render.Binary(cw), render.Hex(cw))

	res, derr := a.code.Decode(received)
	if err := render.Report(a.stdout, res, derr, injected, a.color); err != nil {
		return err
	}
	switch {
	case derr != nil:
		fmt.Fprintln(a.stdout, "Recovered: no (decoding failed)")
	case res.Corrected.Equal(cw):
		fmt.Fprintln(a.stdout, "Recovered: yes")
	default:
		fmt.Fprintf(a.stdout, "Recovered: no (decoded to a different codeword, %d bits away)\n",
			len(res.Corrected.Diff(cw)))
	}
	return nil
}

func (a *app) simulateMany(rng *rand.Rand, o simulateOpts) error {
	var fixed *bch.Word
	if o.message != "" {
		msg, err := render.ParseWord(o.message, a.code.K())
		if err != nil {
			return fmt.Errorf("message: %w", err)
		}
		fixed = &msg
	}

	var tl tally
	for i := 0; i < o.trials; i++ {
		var (
			msg bch.Word
			err error
		)
		if fixed != nil {
			msg = *fixed
		} else if msg, err = inject.RandomWord(rng, a.code.K()); err != nil {
			return err
		}
		cw, err := a.code.Encode(msg)
		if err != nil {
			return err
		}
		received, _, err := inject.Random(rng, cw, o.numErrors)
		if err != nil {
			return err
		}
		res, err := a.code.Decode(received)
		switch {
		case errors.Is(err, bch.ErrUncorrectable):
			tl.uncorrectable++
		case errors.Is(err, bch.ErrMiscorrection):
			tl.miscorrected++
		case err != nil:
			return err
		case !res.Corrected.Equal(cw):
			tl.wrong++
		case res.Clean():
			tl.clean++
		default:
			tl.corrected++
		}
	}

	fmt.Fprintf(a.stdout, "Seed:          %d\n", o.seed)
	fmt.Fprintf(a.stdout, "Trials:        %d with %d error(s) each\n", o.trials, o.numErrors)
	if fixed != nil {
		fmt.Fprintf(a.stdout, "Message:       %s\n", render.Binary(*fixed))
	}
	fmt.Fprintf(a.stdout, "Clean:         %d\n", tl.clean)
	fmt.Fprintf(a.stdout, "Corrected:     %d\n", tl.corrected)
	fmt.Fprintf(a.stdout, "Uncorrectable: %d\n", tl.uncorrectable)
	fmt.Fprintf(a.stdout, "Miscorrected:  %d\n", tl.miscorrected)
	fmt.Fprintf(a.stdout, "Wrong:         %d\n", tl.wrong)
	return nil
}
