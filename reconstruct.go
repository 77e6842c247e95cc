package vss

import (
	"fmt"
	"math/big"
)

// LagrangeInterpolation recovers f(0) from the first threshold revealed shares.
// Only the F components are used. Fewer than threshold shares fails with
// ErrInsufficientShares; repeated indices fail with ErrDuplicateIndex.
func LagrangeInterpolation(params *FieldParams, shares []RevealedShare, threshold int) (*big.Int, error) {
	if params == nil {
		return nil, ErrInvalidParams.WithDetails("params cannot be nil")
	}
	if threshold < 1 {
		return nil, ErrInvalidThreshold.WithContext("threshold", threshold)
	}
	if len(shares) < threshold {
		return nil, ErrInsufficientShares.
			WithDetails("need %d, got %d", threshold, len(shares)).
			WithContext("threshold", threshold).
			WithContext("provided", len(shares))
	}

	return interpolateAt(params, shares[:threshold], bigZero)
}

// LagrangeCoefficients returns L_i(0) = prod_{j != i} (0 - x_j) / (x_i - x_j)
// mod P for every x_i in xs.
func LagrangeCoefficients(params *FieldParams, xs []*big.Int) ([]*big.Int, error) {
	if params == nil {
		return nil, ErrInvalidParams.WithDetails("params cannot be nil")
	}
	return lagrangeCoefficientsAt(params, xs, bigZero)
}

func lagrangeCoefficientsAt(params *FieldParams, xs []*big.Int, at *big.Int) ([]*big.Int, error) {
	coefficients := make([]*big.Int, len(xs))
	for i, xi := range xs {
		numerator := big.NewInt(1)
		denominator := big.NewInt(1)

		for j, xj := range xs {
			if i == j {
				continue
			}
			// numerator *= (at - x_j)
			numerator = params.Mul(numerator, params.Sub(at, xj))
			// denominator *= (x_i - x_j)
			denominator = params.Mul(denominator, params.Sub(xi, xj))
		}

		denomInv, err := params.Inverse(denominator)
		if err != nil {
			return nil, ErrDuplicateIndex.
				WithDetails("index %s appears more than once", xi).
				WithCause(err)
		}
		coefficients[i] = params.Mul(numerator, denomInv)
	}
	return coefficients, nil
}

// interpolateAt evaluates at x the unique polynomial of degree len(points)-1
// through the F components of points
func interpolateAt(params *FieldParams, points []RevealedShare, x *big.Int) (*big.Int, error) {
	xs := make([]*big.Int, len(points))
	for i, p := range points {
		xi, err := params.indexElement(p.Index)
		if err != nil {
			return nil, err
		}
		if p.Share.F == nil {
			return nil, ErrValidation.WithDetails("share %d has no F component", p.Index)
		}
		xs[i] = xi
	}

	coefficients, err := lagrangeCoefficientsAt(params, xs, x)
	if err != nil {
		return nil, err
	}

	result := new(big.Int)
	for i, p := range points {
		result = params.Add(result, params.Mul(p.Share.F, coefficients[i]))
	}
	return result, nil
}

// CheckConsistency reports whether all shares lie on one polynomial of degree
// threshold-1. The polynomial through the first threshold shares is evaluated
// at the index of every further share. With exactly threshold shares there is
// nothing to compare and the check passes.
func CheckConsistency(params *FieldParams, shares []RevealedShare, threshold int) error {
	if params == nil {
		return ErrInvalidParams.WithDetails("params cannot be nil")
	}
	if threshold < 1 {
		return ErrInvalidThreshold.WithContext("threshold", threshold)
	}
	if len(shares) < threshold {
		return ErrInsufficientShares.WithDetails("need %d, got %d", threshold, len(shares))
	}

	base := shares[:threshold]
	for _, extra := range shares[threshold:] {
		x, err := params.indexElement(extra.Index)
		if err != nil {
			return err
		}
		if extra.Share.F == nil {
			return ErrValidation.WithDetails("share %d has no F component", extra.Index)
		}
		expected, err := interpolateAt(params, base, x)
		if err != nil {
			return fmt.Errorf("failed to interpolate base shares: %w", err)
		}
		if expected.Cmp(params.Reduce(extra.Share.F)) != 0 {
			return ErrInconsistentShares.WithContext("index", extra.Index)
		}
	}
	return nil
}
