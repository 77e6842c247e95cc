package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canopy-network/canopy/lib/vss/will"
)

func (a *app) newCreateCmd() *cobra.Command {
	var (
		heirs       []string
		percentages []int
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a will and write the contract and trustee share files",
		Example: `  cryptowill create \
    --heir 0x1234567890123456789012345678901234567890 --percent 60 \
    --heir 0x2345678901234567890123456789012345678901 --percent 40 \
    --trustees 5 --threshold 3 --out ./will`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.newEngine()
			if err != nil {
				return err
			}
			cw := will.New(engine, a.logger)

			w, err := cw.CreateWill(heirs, percentages, a.config.Trustees, a.config.Threshold)
			if err != nil {
				return err
			}
			defer w.Forget()

			contractPath, sharePaths, err := writeWill(outDir, w)
			if err != nil {
				return err
			}
			a.logger.Info("will written", "dir", outDir, "trustees", w.NumTrustees)
			return a.printer().PrintCreated(outDir, contractPath, sharePaths, w.Digest.Hex())
		},
	}

	defaults := NewConfig()
	cmd.Flags().StringArrayVar(&heirs, "heir", nil, "heir address (repeatable)")
	cmd.Flags().IntSliceVar(&percentages, "percent", nil, "heir percentage, in --heir order (repeatable)")
	cmd.Flags().Int(keyTrustees, defaults.Trustees, "number of trustees")
	cmd.Flags().Int(keyThreshold, defaults.Threshold, "trustees required to reconstruct")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	_ = cmd.MarkFlagRequired("heir")
	_ = cmd.MarkFlagRequired("percent")

	return cmd
}

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}
