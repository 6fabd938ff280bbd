package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/tbd/pkg/config"
	"github.com/dd0wney/tbd/pkg/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "tbd",
		Short:         "Thermal bridging and derating of building envelopes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "PSI/KHI sets and overrides (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "level of diagnostics echoed to stderr")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not echo diagnostics")

	cmd.AddCommand(newRunCmd(opts), newSetsCmd(opts))
	return cmd
}

// logger returns the stderr logger diagnostics are echoed to.
func (o *rootOptions) logger(w io.Writer) logging.Logger {
	if o.quiet {
		return logging.NopLogger{}
	}
	if w == nil {
		w = os.Stderr
	}
	return logging.NewJSONLogger(w, logging.ParseLevel(o.logLevel))
}

// loadConfig reads --config, or returns the defaults.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	doc, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, err
	}
	return doc.Config()
}
