package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canopy-network/canopy/lib/vss"
	"github.com/canopy-network/canopy/lib/vss/will"
)

var (
	demoHeirs = []string{
		"0x1234567890123456789012345678901234567890",
		"0x2345678901234567890123456789012345678901",
		"0x3456789012345678901234567890123456789012",
	}
	demoPercentages = []int{50, 30, 20}
)

func (a *app) newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through creating, verifying and settling a will in memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.newEngine()
			if err != nil {
				return err
			}
			cw := will.New(engine, a.logger)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Creating crypto will...")
			w, err := cw.CreateWill(demoHeirs, demoPercentages, a.config.Trustees, a.config.Threshold)
			if err != nil {
				return err
			}
			defer w.Forget()

			fmt.Fprintf(out, "Secret hash: %s\n", w.Digest.Hex())
			fmt.Fprintf(out, "Number of trustees: %d\n", w.NumTrustees)
			fmt.Fprintf(out, "Threshold: %d\n", w.Threshold)

			fmt.Fprintln(out, "\nVerifying trustee shares...")
			for i := 1; i <= w.NumTrustees; i++ {
				ok, err := cw.VerifyTrusteeShare(w, i)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Trustee %d share valid: %t\n", i, ok)
			}

			fmt.Fprintln(out, "\nSimulating secret reconstruction...")
			revealed := make([]vss.RevealedShare, 0, w.Threshold)
			for i := 1; i <= w.Threshold; i++ {
				share, err := cw.RevealShare(w, i)
				if err != nil {
					return err
				}
				revealed = append(revealed, share)
			}
			matches, secret, err := cw.ReconstructSecret(w, revealed)
			if err != nil {
				return err
			}
			original, _ := w.Secret()
			fmt.Fprintf(out, "Reconstruction successful: %t\n", matches)
			fmt.Fprintf(out, "Reconstructed secret matches: %t\n", secret.Cmp(original) == 0)

			fmt.Fprintln(out, "\nContract deployment data:")
			return NewPrinter(string(OutputFormatJSON), out).PrintValue(w.ContractData())
		},
	}

	defaults := NewConfig()
	cmd.Flags().Int(keyTrustees, defaults.Trustees, "number of trustees")
	cmd.Flags().Int(keyThreshold, defaults.Threshold, "trustees required to reconstruct")
	return cmd
}
