// Command bch encodes, decodes and simulates binary BCH codes from the
// command line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/log"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/metrics"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/render"
)

var (
	version = "v0.3.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the state shared by all subcommands once the configuration
// has been resolved.
type app struct {
	v        *viper.Viper
	stdout   io.Writer
	stderr   io.Writer
	color    bool
	cfg      *Config
	code     *bch.Code
	registry *metrics.Registry
	logger   *log.Logger
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:               "bch",
		Short:             "Binary BCH error-correcting codec",
		Version:           fmt.Sprintf("%s (commit %s)", version, commit),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg != nil && a.cfg.Metrics {
				_, err := metrics.NewExporter(a.registry, "").WriteTo(a.stdout)
				return err
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	registerFlags(root.PersistentFlags(), a.v)

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.simulateCmd(),
		a.infoCmd(),
		a.frameCmd(),
		a.serveCmd(),
	)
	return root
}

// setup resolves the configuration, installs the logger and builds the
// code before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(a.v, path)
	if err != nil {
		return err
	}
	codeCfg, err := ValidateConfig(cfg)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.color = false
	if f, ok := a.stdout.(*os.File); ok && !cfg.NoColor {
		a.stdout, a.color = render.Terminal(f)
	}
	logColor := false
	if f, ok := a.stderr.(*os.File); ok && !cfg.NoColor {
		_, logColor = render.Terminal(f)
	}
	log.SetDefault(log.NewTerminal(a.stderr, log.FromVerbosity(cfg.Verbosity), logColor))
	a.logger = log.Default().Module("cli")
	if cfg.ConfigFile != "" {
		a.logger.Info("Loaded config file", "path", cfg.ConfigFile)
	}

	a.registry = metrics.NewRegistry()
	a.code, err = bch.New(codeCfg,
		bch.WithLogger(log.Default().Module("bch")),
		bch.WithMetrics(metrics.NewCodecMetrics(a.registry)),
	)
	if err != nil {
		return err
	}
	a.logger.Debug("Code ready", "code", a.code.String(), "generator", a.code.Generator().String())
	return nil
}
