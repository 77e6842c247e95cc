package vss

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Deal is the dealer-side record of one sharing: the public commitments plus
// the private shares and secret polynomial coefficients.
type Deal struct {
	Params    *FieldParams
	Threshold int

	// Shares[i] belongs to the trustee with index i+1
	Shares      []Share
	Commitments []*big.Int

	// FCoefficients are dealer-private: anyone holding them can recompute the
	// F component of every share.
	FCoefficients []*big.Int
}

// NumShares returns the number of issued shares
func (d *Deal) NumShares() int {
	return len(d.Shares)
}

// RevealedShare returns the share of trustee index (1-based)
func (d *Deal) RevealedShare(index int) (RevealedShare, error) {
	if index < 1 || index > len(d.Shares) {
		return RevealedShare{}, ErrInvalidShareIndex.WithDetails("index %d outside [1, %d]", index, len(d.Shares))
	}
	return RevealedShare{Index: index, Share: d.Shares[index-1].Clone()}, nil
}

// RevealedShares returns every share paired with its index
func (d *Deal) RevealedShares() []RevealedShare {
	out := make([]RevealedShare, len(d.Shares))
	for i, s := range d.Shares {
		out[i] = RevealedShare{Index: i + 1, Share: s.Clone()}
	}
	return out
}

// PublicCommitments returns a copy of the commitments
func (d *Deal) PublicCommitments() []*big.Int {
	return cloneInts(d.Commitments)
}

// Zeroize clears the private parts of the deal, the shares and the f
// coefficients. Commitments are public and kept.
func (d *Deal) Zeroize() {
	ZeroizeInts(d.FCoefficients)
	d.FCoefficients = nil
	for i := range d.Shares {
		zeroizeInt(d.Shares[i].F)
		zeroizeInt(d.Shares[i].G)
	}
	d.Shares = nil
}

// PedersenCommitment implements Pedersen commitments G^value * H^blinding in
// the order-P subgroup of Z_Q^*.
type PedersenCommitment struct {
	params *FieldParams
}

// NewPedersenCommitment creates a new Pedersen commitment scheme
func NewPedersenCommitment(params *FieldParams) (*PedersenCommitment, error) {
	if params == nil {
		return nil, ErrInvalidParams.WithDetails("params cannot be nil")
	}
	return &PedersenCommitment{params: params}, nil
}

// Commit creates a Pedersen commitment: Com(value, blinding) = G^value * H^blinding mod Q.
// Exponents are taken modulo the group order P.
func (pc *PedersenCommitment) Commit(value, blinding *big.Int) (*big.Int, error) {
	if value == nil {
		return nil, ErrValidation.WithDetails("value cannot be nil")
	}
	if blinding == nil {
		return nil, ErrValidation.WithDetails("blinding cannot be nil")
	}

	q := pc.params.GroupModulus
	valueCommit := mustPowMod(pc.params.G, pc.params.Reduce(value), q)
	blindingCommit := mustPowMod(pc.params.H, pc.params.Reduce(blinding), q)

	return valueCommit.Mul(valueCommit, blindingCommit).Mod(valueCommit, q), nil
}

// Open verifies that commitment opens to (value, blinding)
func (pc *PedersenCommitment) Open(commitment, value, blinding *big.Int) (bool, error) {
	if commitment == nil {
		return false, ErrValidation.WithDetails("commitment cannot be nil")
	}
	expected, err := pc.Commit(value, blinding)
	if err != nil {
		return false, err
	}
	return expected.Cmp(commitment) == 0, nil
}

// PolynomialCommitment is the public commitment vector C_0..C_{t-1} to the
// coefficient pairs of the secret and blinding polynomials.
type PolynomialCommitment struct {
	params      *FieldParams
	commitments []*big.Int
}

// NewPolynomialCommitment commits to every coefficient pair (f_j, g_j)
func NewPolynomialCommitment(params *FieldParams, f, g *Polynomial) (*PolynomialCommitment, error) {
	pedersen, err := NewPedersenCommitment(params)
	if err != nil {
		return nil, err
	}
	if f == nil || g == nil {
		return nil, ErrValidation.WithDetails("polynomials cannot be nil")
	}
	if f.Degree() != g.Degree() {
		return nil, ErrValidation.WithDetails("polynomial degrees differ: %d and %d", f.Degree(), g.Degree())
	}

	commitments := make([]*big.Int, len(f.coefficients))
	for j := range f.coefficients {
		commitment, err := pedersen.Commit(f.coefficients[j], g.coefficients[j])
		if err != nil {
			return nil, fmt.Errorf("failed to create commitment for coefficient %d: %w", j, err)
		}
		commitments[j] = commitment
	}

	return &PolynomialCommitment{
		params:      params,
		commitments: commitments,
	}, nil
}

// NewPolynomialCommitmentFromValues wraps a published commitment vector
func NewPolynomialCommitmentFromValues(params *FieldParams, commitments []*big.Int) (*PolynomialCommitment, error) {
	if params == nil {
		return nil, ErrInvalidParams.WithDetails("params cannot be nil")
	}
	if len(commitments) == 0 {
		return nil, ErrCommitmentCount.WithDetails("no commitments available")
	}
	if err := validateCommitments(params, commitments, len(commitments)); err != nil {
		return nil, err
	}
	return &PolynomialCommitment{params: params, commitments: cloneInts(commitments)}, nil
}

// Threshold returns the number of shares the committed polynomial requires
func (pc *PolynomialCommitment) Threshold() int {
	return len(pc.commitments)
}

// Verify checks that share is consistent with the commitment vector
func (pc *PolynomialCommitment) Verify(index int, share Share) (bool, error) {
	return VerifyShare(pc.params, index, share, pc.commitments, len(pc.commitments))
}

// Commitments returns a copy of the coefficient commitments
func (pc *PolynomialCommitment) Commitments() []*big.Int {
	return cloneInts(pc.commitments)
}

// GenerateSharesAndCommitments deals secret into numShares shares with the
// given threshold using crypto/rand.
func GenerateSharesAndCommitments(params *FieldParams, secret *big.Int, threshold, numShares int) (*Deal, error) {
	return NewDeal(params, rand.Reader, secret, threshold, numShares)
}

// NewDeal deals secret with randomness from random:
//
//  1. f has constant term secret, g has constant term 0, both of degree threshold-1
//  2. trustee i receives (f(i), g(i)) for i = 1..numShares
//  3. C_j = G^{f_j} * H^{g_j} mod Q for j = 0..threshold-1
//
// The blinding polynomial g is zeroized before returning.
func NewDeal(params *FieldParams, random io.Reader, secret *big.Int, threshold, numShares int) (*Deal, error) {
	if params == nil {
		return nil, ErrInvalidParams.WithDetails("params cannot be nil")
	}
	if threshold < 1 {
		return nil, ErrInvalidThreshold.WithDetails("threshold %d is below 1", threshold)
	}
	if numShares < threshold {
		return nil, ErrInvalidThreshold.WithDetails("number of shares %d is below threshold %d", numShares, threshold)
	}
	// Index P would evaluate at 0 and hand out the secret itself
	if big.NewInt(int64(numShares)).Cmp(params.P) >= 0 {
		return nil, ErrInvalidThreshold.WithDetails("number of shares %d must be below the field prime", numShares)
	}
	if !params.Contains(secret) {
		return nil, ErrSecretOutOfRange
	}

	f, err := NewRandomPolynomial(params, secret, threshold, random)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret polynomial: %w", err)
	}
	g, err := NewRandomPolynomial(params, bigZero, threshold, random)
	if err != nil {
		f.Zeroize()
		return nil, fmt.Errorf("failed to create blinding polynomial: %w", err)
	}
	defer g.Zeroize()

	shares := make([]Share, numShares)
	for i := 1; i <= numShares; i++ {
		x := big.NewInt(int64(i))
		shares[i-1] = Share{F: f.Evaluate(x), G: g.Evaluate(x)}
	}

	commitment, err := NewPolynomialCommitment(params, f, g)
	if err != nil {
		f.Zeroize()
		return nil, err
	}

	return &Deal{
		Params:        params,
		Threshold:     threshold,
		Shares:        shares,
		Commitments:   commitment.commitments,
		FCoefficients: f.coefficients,
	}, nil
}
