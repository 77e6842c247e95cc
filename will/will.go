// Package will implements a cryptographic will on top of Pedersen VSS: a
// random key is shared among trustees, its digest is published alongside the
// heirs and their percentages, and any threshold of trustees can later
// reconstruct the key and prove it matches the digest.
package will

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/canopy-network/canopy/lib/vss"
)

// PercentTotal is the sum heir percentages must reach
const PercentTotal = 100

// TrusteeStatus tracks what has happened to one trustee's share
type TrusteeStatus struct {
	Verified bool `json:"verified"`
	Revealed bool `json:"revealed"`
}

// Will is the dealer-side record of one will. The secret, the secret
// polynomial and the raw shares stay in memory until Forget is called.
type Will struct {
	Digest          vss.Digest
	DigestAlgorithm vss.DigestAlgorithm
	Heirs           []gethcommon.Address
	HeirPercentages []int
	NumTrustees     int
	Threshold       int

	params *vss.FieldParams

	mu     sync.Mutex
	secret *big.Int
	deal   *vss.Deal
	// trustee index -> status
	status map[int]*TrusteeStatus
}

// Commitments returns a copy of the published commitments
func (w *Will) Commitments() []*big.Int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deal.PublicCommitments()
}

// Params returns the parameters the will was dealt under
func (w *Will) Params() *vss.FieldParams {
	return w.params.Clone()
}

// Secret returns a copy of the dealer secret, or false once forgotten
func (w *Will) Secret() (*big.Int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.secret == nil {
		return nil, false
	}
	return new(big.Int).Set(w.secret), true
}

// Status returns the bookkeeping state of trustee index
func (w *Will) Status(index int) (TrusteeStatus, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, ok := w.status[index]
	if !ok {
		return TrusteeStatus{}, vss.ErrInvalidShareIndex.WithDetails("no trustee %d", index)
	}
	return *st, nil
}

// TrusteeShare returns the share held for trustee index
func (w *Will) TrusteeShare(index int) (vss.RevealedShare, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.trusteeShareLocked(index)
}

func (w *Will) trusteeShareLocked(index int) (vss.RevealedShare, error) {
	if w.deal.Shares == nil {
		return vss.RevealedShare{}, ErrForgotten
	}
	return w.deal.RevealedShare(index)
}

// Forget zeroizes the secret, the secret polynomial and the raw shares. Call
// it once every trustee has received its share file. Verification against the
// published commitments keeps working with shares the trustees present.
func (w *Will) Forget() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.secret != nil {
		vss.ZeroizeInts([]*big.Int{w.secret})
		w.secret = nil
	}
	w.deal.Zeroize()
}

// ErrForgotten is returned when private will material has been zeroized
var ErrForgotten = errors.New("will: private material has been forgotten")

// CryptoWill creates and settles wills with one VSS engine
type CryptoWill struct {
	engine    *vss.Engine
	logger    *slog.Logger
	validator *vss.ThresholdValidator
}

// New creates a CryptoWill. A nil logger discards log output.
func New(engine *vss.Engine, logger *slog.Logger) *CryptoWill {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CryptoWill{
		engine:    engine,
		logger:    logger,
		validator: vss.NewDefaultThresholdValidator(),
	}
}

// Engine returns the underlying VSS engine
func (cw *CryptoWill) Engine() *vss.Engine {
	return cw.engine
}

// CreateWill validates the distribution, draws a random secret, publishes its
// digest and deals numTrustees shares of it with the given threshold
func (cw *CryptoWill) CreateWill(heirs []string, percentages []int, numTrustees, threshold int) (*Will, error) {
	addresses, err := validateHeirs(heirs, percentages)
	if err != nil {
		return nil, err
	}
	if numTrustees < 1 {
		return nil, invalid("trustees", "need at least one trustee, got %d", numTrustees)
	}
	if threshold < 1 {
		return nil, invalid("threshold", "must be at least 1, got %d", threshold)
	}
	if threshold > numTrustees {
		return nil, invalid("threshold", "threshold %d cannot exceed number of trustees %d", threshold, numTrustees)
	}

	advice := cw.validator.ValidateThresholdParameters(numTrustees, threshold)
	for _, warning := range advice.Warnings {
		cw.logger.Warn("threshold advice", "warning", warning, "trustees", numTrustees, "threshold", threshold)
	}

	secret, err := cw.engine.RandomSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to draw will secret: %w", err)
	}
	digest, err := cw.engine.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash will secret: %w", err)
	}
	deal, err := cw.engine.Generate(secret, threshold, numTrustees)
	if err != nil {
		return nil, fmt.Errorf("failed to deal will secret: %w", err)
	}

	status := make(map[int]*TrusteeStatus, numTrustees)
	for i := 1; i <= numTrustees; i++ {
		status[i] = &TrusteeStatus{}
	}

	w := &Will{
		Digest:          digest,
		DigestAlgorithm: cw.engine.DigestAlgorithm(),
		Heirs:           addresses,
		HeirPercentages: append([]int(nil), percentages...),
		NumTrustees:     numTrustees,
		Threshold:       threshold,
		params:          cw.engine.Params(),
		secret:          secret,
		deal:            deal,
		status:          status,
	}

	cw.logger.Info("will created",
		"heirs", len(addresses),
		"trustees", numTrustees,
		"threshold", threshold,
		"digest", digest.Hex(),
		"security", advice.SecurityLevel)
	return w, nil
}

// VerifyTrusteeShare checks the share held for trustee index against the
// will's commitments and marks the trustee verified on success
func (cw *CryptoWill) VerifyTrusteeShare(w *Will, index int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	share, err := w.trusteeShareLocked(index)
	if err != nil {
		return false, err
	}
	ok, err := cw.engine.Verify(index, share.Share, w.deal.Commitments, w.Threshold)
	if err != nil {
		return false, err
	}
	if ok {
		w.status[index].Verified = true
	}
	cw.logger.Debug("trustee share checked", "trustee", index, "valid", ok)
	return ok, nil
}

// VerifyAllTrustees verifies every trustee's share concurrently
func (cw *CryptoWill) VerifyAllTrustees(ctx context.Context, w *Will) ([]bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.deal.Shares == nil {
		return nil, ErrForgotten
	}
	results, err := cw.engine.VerifyAll(ctx, w.deal)
	if err != nil {
		return nil, err
	}
	for k, ok := range results {
		if ok {
			w.status[k+1].Verified = true
		}
	}
	return results, nil
}

// RevealShare hands out trustee index's share for reconstruction and records
// the reveal
func (cw *CryptoWill) RevealShare(w *Will, index int) (vss.RevealedShare, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	share, err := w.trusteeShareLocked(index)
	if err != nil {
		return vss.RevealedShare{}, err
	}
	w.status[index].Revealed = true
	cw.logger.Info("trustee share revealed", "trustee", index)
	return share, nil
}

// ReconstructSecret interpolates the secret from revealed shares and reports
// whether its digest matches the published one. Fewer than threshold shares
// fail with vss.ErrInsufficientShares, which callers may retry with more
// shares.
func (cw *CryptoWill) ReconstructSecret(w *Will, revealed []vss.RevealedShare) (bool, *big.Int, error) {
	secret, matches, err := cw.engine.ReconstructAndCheck(revealed, w.Threshold, w.Digest)
	if err != nil {
		if vss.IsRecoverableError(err) {
			cw.logger.Warn("not enough shares revealed", "revealed", len(revealed), "threshold", w.Threshold)
		}
		return false, nil, err
	}

	if !matches {
		cw.logger.Warn("reconstructed secret does not match published digest", "revealed", len(revealed))
	} else {
		cw.logger.Info("will secret reconstructed", "revealed", len(revealed))
	}
	return matches, secret, nil
}

func validateHeirs(heirs []string, percentages []int) ([]gethcommon.Address, error) {
	if len(heirs) == 0 {
		return nil, invalid("heirs", "at least one heir is required")
	}
	if len(heirs) != len(percentages) {
		return nil, invalid("heirs", "number of heirs (%d) must match number of percentages (%d)", len(heirs), len(percentages))
	}

	addresses := make([]gethcommon.Address, len(heirs))
	seen := make(map[gethcommon.Address]bool, len(heirs))
	total := 0
	for i, heir := range heirs {
		if !gethcommon.IsHexAddress(heir) {
			return nil, invalid("heirs", "%q is not a hex address", heir)
		}
		addr := gethcommon.HexToAddress(heir)
		if addr == (gethcommon.Address{}) {
			return nil, invalid("heirs", "heir %d is the zero address", i+1)
		}
		if seen[addr] {
			return nil, invalid("heirs", "heir %s listed more than once", addr.Hex())
		}
		seen[addr] = true
		addresses[i] = addr

		if percentages[i] <= 0 {
			return nil, invalid("percentages", "percentage for heir %d must be positive, got %d", i+1, percentages[i])
		}
		total += percentages[i]
	}
	if total != PercentTotal {
		return nil, invalid("percentages", "percentages must sum to %d, got %d", PercentTotal, total)
	}
	return addresses, nil
}
