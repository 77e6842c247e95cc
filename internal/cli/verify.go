package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/canopy-network/canopy/lib/vss/will"
)

var errShareInvalid = errors.New("share does not match the published commitments")

func (a *app) newVerifyCmd() *cobra.Command {
	var contractPath, sharePath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a trustee share against the contract commitments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("contract", contractPath); err != nil {
				return err
			}
			if err := requireFlag("share", sharePath); err != nil {
				return err
			}

			contract, err := loadContract(contractPath)
			if err != nil {
				return err
			}
			file, err := loadShareFile(sharePath, contract)
			if err != nil {
				return err
			}
			share, err := file.RevealedShare()
			if err != nil {
				return err
			}

			engine, err := will.NewEngineForContract(contract, a.auditOption())
			if err != nil {
				return err
			}
			ok, err := engine.Verify(share.Index, share.Share, contract.CommitmentValues(), contract.Threshold)
			if err != nil {
				return err
			}

			if err := a.printer().PrintVerification(share.Index, ok); err != nil {
				return err
			}
			if !ok {
				return errShareInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contractPath, "contract", "", "contract file")
	cmd.Flags().StringVar(&sharePath, "share", "", "trustee share file")
	return cmd
}
