package vss

import (
	"fmt"
	"io"
	"math/big"
	"sync"
)

// GeneratorSeed is the public seed the default generators are derived from.
// Anyone can rerun DeriveGenerator with it to check that G and H were not
// chosen with a known discrete-log relation.
const GeneratorSeed = "canopy/vss/pedersen/generators/v1"

// defaultCofactorOffset makes Q = (2^1921 + offset)*P + 1 the smallest prime of
// that form for P = 2^127 - 1.
const defaultCofactorOffset = 22

// primality rounds used when validating caller-supplied parameters
const primalityRounds = 32

// maxGeneratorAttempts bounds the identity-rejection loop in DeriveGenerator
const maxGeneratorAttempts = 16

var (
	defaultParamsOnce sync.Once
	defaultParams     *FieldParams
	defaultParamsErr  error
)

// DefaultPrime returns the default share field prime, 2^127 - 1
func DefaultPrime() *big.Int {
	p := new(big.Int).Lsh(bigOne, 127)
	return p.Sub(p, bigOne)
}

// DefaultGroupModulus returns the 2048-bit prime Q = (2^1921 + 22)*P + 1
// whose multiplicative group contains a subgroup of order P = 2^127 - 1.
func DefaultGroupModulus() *big.Int {
	k := new(big.Int).Lsh(bigOne, 1921)
	k.Add(k, big.NewInt(defaultCofactorOffset))
	q := k.Mul(k, DefaultPrime())
	return q.Add(q, bigOne)
}

// DefaultFieldParams returns the default parameters: P = 2^127 - 1, the
// default group modulus and generators derived from GeneratorSeed. The
// returned value is a copy the caller may keep.
func DefaultFieldParams() *FieldParams {
	defaultParamsOnce.Do(func() {
		defaultParams, defaultParamsErr = deriveFieldParams(DefaultPrime(), DefaultGroupModulus(), []byte(GeneratorSeed))
	})
	if defaultParamsErr != nil {
		// The default constants are fixed; failing here is a build defect.
		panic(fmt.Sprintf("vss: default parameters: %v", defaultParamsErr))
	}
	return defaultParams.Clone()
}

// NewFieldParams validates and assembles caller-supplied parameters. p and q
// must be prime with p | q-1, and g, h must be distinct elements of order p in
// Z_q^*.
func NewFieldParams(p, q, g, h *big.Int) (*FieldParams, error) {
	if err := validateFieldPrimes(p, q); err != nil {
		return nil, err
	}
	if err := validateGenerator(p, q, g); err != nil {
		return nil, ErrInvalidParams.WithDetails("generator G: %v", err)
	}
	if err := validateGenerator(p, q, h); err != nil {
		return nil, ErrInvalidParams.WithDetails("generator H: %v", err)
	}
	if g.Cmp(h) == 0 {
		return nil, ErrInvalidParams.WithDetails("generators G and H must differ")
	}

	return &FieldParams{
		P:            new(big.Int).Set(p),
		GroupModulus: new(big.Int).Set(q),
		G:            new(big.Int).Set(g),
		H:            new(big.Int).Set(h),
	}, nil
}

// NewFieldParamsFromSeed validates p and q and derives both generators from a
// public seed with DeriveGenerator.
func NewFieldParamsFromSeed(p, q *big.Int, seed []byte) (*FieldParams, error) {
	if err := validateFieldPrimes(p, q); err != nil {
		return nil, err
	}
	return deriveFieldParams(p, q, seed)
}

func deriveFieldParams(p, q *big.Int, seed []byte) (*FieldParams, error) {
	g, err := DeriveGenerator(p, q, seed, "G")
	if err != nil {
		return nil, err
	}
	h, err := DeriveGenerator(p, q, seed, "H")
	if err != nil {
		return nil, err
	}
	if g.Cmp(h) == 0 {
		return nil, ErrInvalidParams.WithDetails("derived generators collide")
	}

	return &FieldParams{
		P:            new(big.Int).Set(p),
		GroupModulus: new(big.Int).Set(q),
		G:            g,
		H:            h,
	}, nil
}

// DeriveGenerator hashes (seed, label) to an element of the order-p subgroup
// of Z_q^*: a uniform x in Z_q is expanded from the seed with HKDF and raised
// to the cofactor (q-1)/p. Identity results are rejected and redrawn.
//
// Generators derived under different labels have no discrete-log relation
// known to anyone, which is the hiding requirement of Pedersen commitments.
func DeriveGenerator(p, q *big.Int, seed []byte, label string) (*big.Int, error) {
	if p == nil || q == nil || p.Sign() <= 0 || q.Cmp(big.NewInt(2)) <= 0 {
		return nil, ErrInvalidParams.WithDetails("p and q must be positive")
	}
	qMinusOne := new(big.Int).Sub(q, bigOne)
	cofactor, rem := new(big.Int).QuoRem(qMinusOne, p, new(big.Int))
	if rem.Sign() != 0 {
		return nil, ErrInvalidParams.WithDetails("p does not divide q-1")
	}

	reader := NewDeterministicReader(seed, []byte("generator:"+label))
	// 128 extra bits keep the reduction mod q statistically uniform
	buf := make([]byte, (q.BitLen()+7)/8+16)
	for attempt := 0; attempt < maxGeneratorAttempts; attempt++ {
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, ErrRandomnessGeneration.WithCause(err)
		}
		x := Mod(new(big.Int).SetBytes(buf), q)
		gen := mustPowMod(x, cofactor, q)
		if gen.Cmp(bigOne) > 0 {
			return gen, nil
		}
	}
	return nil, ErrInvalidParams.WithDetails("could not derive generator %q", label)
}

func validateFieldPrimes(p, q *big.Int) error {
	if p == nil || q == nil {
		return ErrInvalidParams.WithDetails("p and q cannot be nil")
	}
	if p.Cmp(big.NewInt(3)) < 0 || !p.ProbablyPrime(primalityRounds) {
		return ErrInvalidParams.WithDetails("p must be an odd prime")
	}
	if q.Cmp(p) <= 0 || !q.ProbablyPrime(primalityRounds) {
		return ErrInvalidParams.WithDetails("q must be a prime larger than p")
	}
	if new(big.Int).Mod(new(big.Int).Sub(q, bigOne), p).Sign() != 0 {
		return ErrInvalidParams.WithDetails("p does not divide q-1")
	}
	return nil
}

// validateGenerator checks 1 < gen < q and gen^p = 1 mod q. With p prime this
// means gen has order exactly p.
func validateGenerator(p, q, gen *big.Int) error {
	if gen == nil {
		return fmt.Errorf("generator cannot be nil")
	}
	if gen.Cmp(bigOne) <= 0 || gen.Cmp(q) >= 0 {
		return fmt.Errorf("generator must lie in (1, q)")
	}
	if mustPowMod(gen, p, q).Cmp(bigOne) != 0 {
		return fmt.Errorf("generator is not in the subgroup of order p")
	}
	return nil
}
