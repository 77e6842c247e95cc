// Package cli implements the cryptowill command line
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/canopy-network/canopy/lib/vss"
)

// app carries the state shared by every command of one invocation
type app struct {
	v      *viper.Viper
	config *Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

// NewRootCommand builds the command tree writing results to out and logs and
// errors to errOut
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:      newViper(),
		config: NewConfig(),
		out:    out,
		errOut: errOut,
	}

	rootCmd := &cobra.Command{
		Use:   "cryptowill",
		Short: "cryptowill - inheritance keys shared among trustees with Pedersen VSS",
		Long: `cryptowill creates a random key, publishes its digest together with the
heirs and their percentages, and splits the key among trustees with
Pedersen verifiable secret sharing. Trustees can verify their share
against the public commitments, and any threshold of them can later
reconstruct the key and prove it matches the published digest.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.v, cmd)
			if err != nil {
				return err
			}
			a.config = cfg
			a.logger = newLogger(cfg.LogLevel, cfg.LogFormat, a.errOut)
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	defaults := NewConfig()
	rootCmd.PersistentFlags().String(keyConfig, "", "config file (yaml)")
	rootCmd.PersistentFlags().String(keyDigest, defaults.Digest, "digest algorithm (sha256, keccak256, blake2b-256)")
	rootCmd.PersistentFlags().String(keyLogLevel, defaults.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String(keyLogFormat, defaults.LogFormat, "log format (text, json)")
	rootCmd.PersistentFlags().StringP(keyOutput, "o", defaults.OutputFormat, "output format (text, json)")

	rootCmd.AddCommand(
		a.newCreateCmd(),
		a.newVerifyCmd(),
		a.newReconstructCmd(),
		a.newDemoCmd(),
	)
	return rootCmd
}

// Execute runs the CLI with os.Args and returns the process exit code
func Execute() int {
	rootCmd := NewRootCommand(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		format := string(OutputFormatText)
		if f, ferr := rootCmd.PersistentFlags().GetString(keyOutput); ferr == nil {
			format = f
		}
		_ = NewPrinter(format, os.Stderr).PrintError(err) // best effort
		return 1
	}
	return 0
}

func (a *app) printer() *Printer {
	return NewPrinter(a.config.OutputFormat, a.out)
}

func (a *app) auditOption() vss.Option {
	return vss.WithAuditHandler(newLogAuditHandler(a.logger))
}

// newEngine builds an engine over the default parameters with the configured
// digest algorithm
func (a *app) newEngine() (*vss.Engine, error) {
	algorithm, err := vss.ParseDigestAlgorithm(a.config.Digest)
	if err != nil {
		return nil, err
	}
	return vss.NewEngine(vss.DefaultFieldParams(),
		vss.WithDigest(algorithm),
		a.auditOption(),
	)
}
