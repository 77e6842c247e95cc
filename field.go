package vss

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// FieldParams carries the arithmetic context of a VSS instance.
//
// P is the prime field of secrets, polynomial coefficients and shares. The
// commitments live in the subgroup of order P of Z_Q^*, where Q is
// GroupModulus and P divides Q-1. G and H generate that subgroup and must
// have no known discrete-log relation.
//
// FieldParams is read-only after construction and may be shared between
// goroutines.
type FieldParams struct {
	P            *big.Int
	GroupModulus *big.Int
	G            *big.Int
	H            *big.Int
}

// Order returns the order of the commitment group, the modulus used to
// reduce exponents. It equals P.
func (fp *FieldParams) Order() *big.Int {
	return new(big.Int).Set(fp.P)
}

// Cofactor returns (Q-1)/P
func (fp *FieldParams) Cofactor() *big.Int {
	k := new(big.Int).Sub(fp.GroupModulus, bigOne)
	return k.Div(k, fp.P)
}

// Clone returns a deep copy of the parameters
func (fp *FieldParams) Clone() *FieldParams {
	return &FieldParams{
		P:            new(big.Int).Set(fp.P),
		GroupModulus: new(big.Int).Set(fp.GroupModulus),
		G:            new(big.Int).Set(fp.G),
		H:            new(big.Int).Set(fp.H),
	}
}

// Equal reports whether two parameter sets describe the same field and group
func (fp *FieldParams) Equal(other *FieldParams) bool {
	if fp == nil || other == nil {
		return fp == other
	}
	return fp.P.Cmp(other.P) == 0 &&
		fp.GroupModulus.Cmp(other.GroupModulus) == 0 &&
		fp.G.Cmp(other.G) == 0 &&
		fp.H.Cmp(other.H) == 0
}

// Contains reports whether x is a canonical field element, 0 <= x < P
func (fp *FieldParams) Contains(x *big.Int) bool {
	return x != nil && x.Sign() >= 0 && x.Cmp(fp.P) < 0
}

// Reduce maps x into [0, P)
func (fp *FieldParams) Reduce(x *big.Int) *big.Int {
	return Mod(x, fp.P)
}

// Add computes (a + b) mod P
func (fp *FieldParams) Add(a, b *big.Int) *big.Int {
	return Mod(new(big.Int).Add(a, b), fp.P)
}

// Sub computes (a - b) mod P
func (fp *FieldParams) Sub(a, b *big.Int) *big.Int {
	return Mod(new(big.Int).Sub(a, b), fp.P)
}

// Mul computes (a * b) mod P
func (fp *FieldParams) Mul(a, b *big.Int) *big.Int {
	return Mod(new(big.Int).Mul(a, b), fp.P)
}

// Neg computes (-a) mod P
func (fp *FieldParams) Neg(a *big.Int) *big.Int {
	return Mod(new(big.Int).Neg(a), fp.P)
}

// Inverse computes a^-1 mod P
func (fp *FieldParams) Inverse(a *big.Int) (*big.Int, error) {
	return ModInverse(a, fp.P)
}

// RandomElement draws a uniform element of [0, P) from random
func (fp *FieldParams) RandomElement(random io.Reader) (*big.Int, error) {
	if random == nil {
		random = rand.Reader
	}
	n, err := rand.Int(random, fp.P)
	if err != nil {
		return nil, ErrRandomnessGeneration.WithCause(err)
	}
	return n, nil
}

// Mod returns the residue of x in [0, m) for m > 0. Unlike the % operator of
// most languages the result is never negative.
func Mod(x, m *big.Int) *big.Int {
	// Euclidean modulus, non-negative for m > 0
	return new(big.Int).Mod(x, m)
}

// PowMod computes base^exponent mod modulus by square-and-multiply, running in
// O(log exponent) multiplications. base is reduced mod modulus first.
func PowMod(base, exponent, modulus *big.Int) (*big.Int, error) {
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, ErrDomain.WithDetails("modulus must be positive")
	}
	if exponent == nil || exponent.Sign() < 0 {
		return nil, ErrDomain.WithDetails("exponent must be non-negative")
	}
	if modulus.Cmp(bigOne) == 0 {
		return new(big.Int), nil
	}

	result := big.NewInt(1)
	b := Mod(base, modulus)
	for i := exponent.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result)
		result.Mod(result, modulus)
		if exponent.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
	}
	return result, nil
}

// mustPowMod is PowMod for arguments already known to be valid
func mustPowMod(base, exponent, modulus *big.Int) *big.Int {
	return new(big.Int).Exp(Mod(base, modulus), exponent, modulus)
}

// ModInverse computes a^-1 mod m with the extended Euclidean algorithm. a may
// be negative. It fails with ErrNoInverse when gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, ErrDomain.WithDetails("modulus must be positive")
	}
	if a == nil {
		return nil, ErrDomain.WithDetails("value cannot be nil")
	}

	// Invariants: oldR = oldS*a (mod m), r = s*a (mod m)
	oldR, r := Mod(a, m), new(big.Int).Set(m)
	oldS, s := big.NewInt(1), big.NewInt(0)
	q, tmp := new(big.Int), new(big.Int)
	for r.Sign() != 0 {
		q.Div(oldR, r)

		tmp.Mul(q, r)
		tmp.Sub(oldR, tmp)
		oldR, r = r, new(big.Int).Set(tmp)

		tmp.Mul(q, s)
		tmp.Sub(oldS, tmp)
		oldS, s = s, new(big.Int).Set(tmp)
	}

	if oldR.Cmp(bigOne) != 0 {
		return nil, ErrNoInverse.WithDetails("gcd(%s, %s) = %s", Mod(a, m), m, oldR)
	}
	return Mod(oldS, m), nil
}

// indexElement converts a 1-based share index into a field element
func (fp *FieldParams) indexElement(index int) (*big.Int, error) {
	if index < 1 {
		return nil, ErrInvalidShareIndex.WithContext("index", index)
	}
	x := big.NewInt(int64(index))
	if x.Cmp(fp.P) >= 0 {
		return nil, ErrInvalidShareIndex.WithDetails("index %d is not below the field prime", index)
	}
	return x, nil
}

// String summarises the parameters without dumping the full group modulus
func (fp *FieldParams) String() string {
	return fmt.Sprintf("FieldParams{P: %d bits, Q: %d bits}", fp.P.BitLen(), fp.GroupModulus.BitLen())
}
