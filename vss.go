package vss

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"
	"sync"
	"time"
)

// Share is the pair (f(i), g(i)) issued to the trustee with index i. F carries
// the secret polynomial, G the blinding polynomial. Shares are values: copy
// them with Clone rather than mutating them.
type Share struct {
	F *big.Int
	G *big.Int
}

// Clone returns a deep copy of the share
func (s Share) Clone() Share {
	return Share{F: cloneInt(s.F), G: cloneInt(s.G)}
}

// Equal reports whether both components match
func (s Share) Equal(other Share) bool {
	return intsEqual(s.F, other.F) && intsEqual(s.G, other.G)
}

// RevealedShare is a share presented together with its index, as supplied by
// a trustee at reconstruction time.
type RevealedShare struct {
	Index int
	Share Share
}

// Engine binds one parameter set, a random source, a digest algorithm and
// an audit handler to the package-level operations. It is safe for
// concurrent use.
type Engine struct {
	params *FieldParams
	random io.Reader
	digest DigestAlgorithm
	audit  AuditEventHandler
}

// Option configures an Engine
type Option func(*Engine)

// WithRandom sets the random source used for polynomial coefficients. Reads
// are serialized, so readers that are not safe for concurrent use are fine.
func WithRandom(random io.Reader) Option {
	return func(e *Engine) {
		if random != nil {
			e.random = &lockedReader{r: random}
		}
	}
}

// WithDigest sets the algorithm used by Hash and ReconstructAndCheck
func WithDigest(algorithm DigestAlgorithm) Option {
	return func(e *Engine) {
		e.digest = algorithm
	}
}

// WithAuditHandler installs the handler that receives audit events
func WithAuditHandler(handler AuditEventHandler) Option {
	return func(e *Engine) {
		if handler != nil {
			e.audit = handler
		}
	}
}

// NewEngine creates an engine over params. nil params selects
// DefaultFieldParams.
func NewEngine(params *FieldParams, opts ...Option) (*Engine, error) {
	if params == nil {
		params = DefaultFieldParams()
	}
	if params.P == nil || params.GroupModulus == nil || params.G == nil || params.H == nil {
		return nil, ErrInvalidParams.WithDetails("field parameters are incomplete")
	}

	e := &Engine{
		params: params,
		random: rand.Reader,
		digest: DefaultDigestAlgorithm,
		audit:  &NullAuditHandler{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if _, err := e.digest.New(); err != nil {
		return nil, err
	}
	return e, nil
}

// Params returns a copy of the engine's parameters
func (e *Engine) Params() *FieldParams {
	return e.params.Clone()
}

// DigestAlgorithm returns the configured digest algorithm
func (e *Engine) DigestAlgorithm() DigestAlgorithm {
	return e.digest
}

// RandomSecret draws a uniform secret from [0, P) with the engine's random source
func (e *Engine) RandomSecret() (*big.Int, error) {
	return e.params.RandomElement(e.random)
}

// Generate deals secret into numShares shares, any threshold of which
// reconstruct it
func (e *Engine) Generate(secret *big.Int, threshold, numShares int) (*Deal, error) {
	start := time.Now()

	deal, err := NewDeal(e.params, e.random, secret, threshold, numShares)
	if err != nil {
		e.reportFailure("deal", err, map[string]interface{}{
			"threshold":  threshold,
			"num_shares": numShares,
		})
		return nil, err
	}

	e.audit.OnDeal(NewAuditEventBuilder(AuditEventDeal, ReasonDealRequested).
		WithThreshold(threshold).
		WithShares(numShares, nil).
		WithDuration(time.Since(start)).
		Build())
	return deal, nil
}

// Verify checks one trustee's share against the published commitments
func (e *Engine) Verify(index int, share Share, commitments []*big.Int, threshold int) (bool, error) {
	start := time.Now()

	ok, err := VerifyShare(e.params, index, share, commitments, threshold)
	if err != nil {
		e.reportFailure("share", err, map[string]interface{}{
			"index":     index,
			"threshold": threshold,
		})
		return false, err
	}

	valid, invalid := []int{index}, []int(nil)
	if !ok {
		valid, invalid = nil, []int{index}
	}
	e.audit.OnShareVerification(NewAuditEventBuilder(AuditEventShareVerification, ReasonTrusteeCheck).
		WithThreshold(threshold).
		WithShares(1, []int{index}).
		WithDuration(time.Since(start)).
		BuildShareVerification(valid, invalid))
	return ok, nil
}

// VerifyShares verifies several revealed shares concurrently
func (e *Engine) VerifyShares(ctx context.Context, shares []RevealedShare, commitments []*big.Int, threshold int) ([]bool, error) {
	start := time.Now()

	results, err := VerifyShares(ctx, e.params, shares, commitments, threshold)
	if err != nil {
		e.reportFailure("share", err, map[string]interface{}{
			"share_count": len(shares),
			"threshold":   threshold,
		})
		return nil, err
	}

	var valid, invalid []int
	for k, ok := range results {
		if ok {
			valid = append(valid, shares[k].Index)
		} else {
			invalid = append(invalid, shares[k].Index)
		}
	}
	e.audit.OnShareVerification(NewAuditEventBuilder(AuditEventShareVerification, ReasonBatchCheck).
		WithThreshold(threshold).
		WithShares(len(shares), shareIndices(shares)).
		WithDuration(time.Since(start)).
		BuildShareVerification(valid, invalid))
	return results, nil
}

// VerifyAll verifies every share of a deal against its own commitments
func (e *Engine) VerifyAll(ctx context.Context, deal *Deal) ([]bool, error) {
	if deal == nil {
		return nil, ErrValidation.WithDetails("deal cannot be nil")
	}
	return e.VerifyShares(ctx, deal.RevealedShares(), deal.Commitments, deal.Threshold)
}

// Reconstruct recovers the secret from at least threshold revealed shares
func (e *Engine) Reconstruct(shares []RevealedShare, threshold int) (*big.Int, error) {
	start := time.Now()

	secret, err := LagrangeInterpolation(e.params, shares, threshold)
	if err != nil {
		e.reportFailure("reconstruction", err, map[string]interface{}{
			"share_count": len(shares),
			"threshold":   threshold,
		})
		return nil, err
	}

	e.audit.OnReconstruction(NewAuditEventBuilder(AuditEventReconstruction, ReasonRecovery).
		WithThreshold(threshold).
		WithShares(len(shares), shareIndices(shares)).
		WithDuration(time.Since(start)).
		Build())
	return secret, nil
}

// Hash returns the published digest of secret
func (e *Engine) Hash(secret *big.Int) (Digest, error) {
	return HashSecret(secret, e.digest)
}

// ReconstructAndCheck reconstructs the secret and compares its digest with
// published. A mismatch is reported as false, not as an error.
func (e *Engine) ReconstructAndCheck(shares []RevealedShare, threshold int, published Digest) (*big.Int, bool, error) {
	start := time.Now()

	secret, err := LagrangeInterpolation(e.params, shares, threshold)
	if err != nil {
		e.reportFailure("reconstruction", err, map[string]interface{}{
			"share_count": len(shares),
			"threshold":   threshold,
		})
		return nil, false, err
	}

	digest, err := HashSecret(secret, e.digest)
	if err != nil {
		e.reportFailure("digest", err, nil)
		return nil, false, err
	}
	matches := digest.Equal(published)

	builder := NewAuditEventBuilder(AuditEventReconstruction, ReasonDigestCheck).
		WithThreshold(threshold).
		WithShares(len(shares), shareIndices(shares)).
		WithDigest(e.digest).
		WithDuration(time.Since(start)).
		WithMetadata("digest_match", matches)
	if !matches {
		builder.WithError(nil)
	}
	e.audit.OnReconstruction(builder.Build())

	return secret, matches, nil
}

// reportFailure routes an error to OnValidationFailure when the caller's
// input was rejected and to OnError otherwise
func (e *Engine) reportFailure(validationType string, err error, inputs map[string]interface{}) {
	if IsErrorCategory(err, ErrorCategoryValidation) ||
		IsErrorCategory(err, ErrorCategoryDomain) ||
		IsErrorCategory(err, ErrorCategoryInsufficientShares) {
		e.audit.OnValidationFailure(NewAuditEventBuilder(AuditEventValidationFailure, ReasonValidationError).
			WithError(err).
			BuildValidationFailure(validationType, err.Error(), inputs))
		return
	}
	e.audit.OnError(NewAuditEventBuilder(AuditEventError, ReasonOperationFailure).
		WithError(err).
		WithMetadata("operation", validationType).
		Build())
}

type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}
