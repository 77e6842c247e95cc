package vss

import (
	"context"
	"fmt"
	"math/big"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// VerifyShare checks a trustee's share against the dealer's commitments:
//
//	G^F * H^G == prod_{j<threshold} C_j^(index^j mod P)   (mod Q)
//
// A well-formed share that does not match returns false with a nil error.
// Malformed input (bad index, too few commitments, components outside the
// field) returns an error.
func VerifyShare(params *FieldParams, index int, share Share, commitments []*big.Int, threshold int) (bool, error) {
	if params == nil {
		return false, ErrInvalidParams.WithDetails("params cannot be nil")
	}
	if threshold < 1 {
		return false, ErrInvalidThreshold.WithContext("threshold", threshold)
	}
	x, err := params.indexElement(index)
	if err != nil {
		return false, err
	}
	if err := validateShare(params, share); err != nil {
		return false, err
	}
	if err := validateCommitments(params, commitments, threshold); err != nil {
		return false, err
	}

	q := params.GroupModulus
	left := mustPowMod(params.G, share.F, q)
	left.Mul(left, mustPowMod(params.H, share.G, q)).Mod(left, q)

	right := big.NewInt(1)
	exponent := big.NewInt(1)
	for j := 0; j < threshold; j++ {
		right.Mul(right, mustPowMod(commitments[j], exponent, q)).Mod(right, q)
		exponent = params.Mul(exponent, x)
	}

	return left.Cmp(right) == 0, nil
}

// VerifyShares verifies every revealed share concurrently. results[k] is the
// outcome for shares[k]. The first malformed share or a cancelled ctx aborts
// the batch with an error.
func VerifyShares(ctx context.Context, params *FieldParams, shares []RevealedShare, commitments []*big.Int, threshold int) ([]bool, error) {
	if params == nil {
		return nil, ErrInvalidParams.WithDetails("params cannot be nil")
	}
	if err := validateCommitments(params, commitments, threshold); err != nil {
		return nil, err
	}

	results := make([]bool, len(shares))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for k := range shares {
		k := k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := VerifyShare(params, shares[k].Index, shares[k].Share, commitments, threshold)
			if err != nil {
				return fmt.Errorf("share %d: %w", shares[k].Index, err)
			}
			results[k] = ok
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateShare(params *FieldParams, share Share) error {
	if share.F == nil || share.G == nil {
		return ErrValidation.WithDetails("share components cannot be nil")
	}
	if !params.Contains(share.F) || !params.Contains(share.G) {
		return ErrValidation.WithDetails("share components must lie in [0, P)")
	}
	return nil
}

// validateCommitments requires at least threshold commitments, each an
// element of Z_Q^*
func validateCommitments(params *FieldParams, commitments []*big.Int, threshold int) error {
	if threshold < 1 {
		return ErrInvalidThreshold.WithContext("threshold", threshold)
	}
	if len(commitments) < threshold {
		return ErrCommitmentCount.WithDetails("have %d commitments, need %d", len(commitments), threshold)
	}
	for j, c := range commitments {
		if c == nil {
			return ErrValidation.WithDetails("commitment %d is nil", j)
		}
		if c.Sign() <= 0 || c.Cmp(params.GroupModulus) >= 0 {
			return ErrValidation.WithDetails("commitment %d is outside Z_Q^*", j)
		}
	}
	return nil
}
