package cli

import (
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/canopy-network/canopy/lib/vss"
	"github.com/canopy-network/canopy/lib/vss/will"
)

var errDigestMismatch = errors.New("reconstructed secret does not match the published digest")

func (a *app) newReconstructCmd() *cobra.Command {
	var (
		contractPath string
		sharePaths   []string
		showSecret   bool
	)

	cmd := &cobra.Command{
		Use:   "reconstruct",
		Short: "Reconstruct the will secret from trustee share files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("contract", contractPath); err != nil {
				return err
			}

			contract, err := loadContract(contractPath)
			if err != nil {
				return err
			}
			shares := make([]vss.RevealedShare, 0, len(sharePaths))
			for _, path := range sharePaths {
				file, err := loadShareFile(path, contract)
				if err != nil {
					return err
				}
				share, err := file.RevealedShare()
				if err != nil {
					return err
				}
				shares = append(shares, share)
			}

			engine, err := will.NewEngineForContract(contract, a.auditOption())
			if err != nil {
				return err
			}

			// invalid shares are left out of the interpolation
			results, err := engine.VerifyShares(cmd.Context(), shares, contract.CommitmentValues(), contract.Threshold)
			if err != nil {
				return err
			}
			valid := shares[:0]
			for k, ok := range results {
				if ok {
					valid = append(valid, shares[k])
				} else {
					a.logger.Warn("ignoring invalid share", "trustee", shares[k].Index)
				}
			}

			secret, matches, err := engine.ReconstructAndCheck(valid, contract.Threshold, contract.SecretHash)
			if err != nil {
				return err
			}

			printed := ""
			if showSecret {
				printed = hexutil.EncodeBig(secret)
			}
			if err := a.printer().PrintReconstruction(len(valid), matches, printed); err != nil {
				return err
			}
			if !matches {
				return errDigestMismatch
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contractPath, "contract", "", "contract file")
	cmd.Flags().StringArrayVar(&sharePaths, "share", nil, "trustee share file (repeatable)")
	cmd.Flags().BoolVar(&showSecret, "show-secret", false, "print the reconstructed secret")
	return cmd
}
