package vss

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Polynomial represents a polynomial over the share field, coefficients
// ordered from the constant term upwards.
type Polynomial struct {
	params       *FieldParams
	coefficients []*big.Int
}

// NewRandomPolynomial creates a polynomial with threshold coefficients whose
// constant term is secret and whose other coefficients are drawn uniformly
// from [0, P) using random. A nil random uses crypto/rand.
func NewRandomPolynomial(params *FieldParams, secret *big.Int, threshold int, random io.Reader) (*Polynomial, error) {
	if params == nil {
		return nil, ErrInvalidParams.WithDetails("params cannot be nil")
	}
	if threshold < 1 {
		return nil, ErrInvalidThreshold.WithContext("threshold", threshold)
	}
	if !params.Contains(secret) {
		return nil, ErrSecretOutOfRange
	}
	if random == nil {
		random = rand.Reader
	}

	coefficients := make([]*big.Int, threshold)
	coefficients[0] = new(big.Int).Set(secret)

	for i := 1; i < threshold; i++ {
		coeff, err := params.RandomElement(random)
		if err != nil {
			return nil, fmt.Errorf("failed to generate coefficient %d: %w", i, err)
		}
		coefficients[i] = coeff
	}

	return &Polynomial{
		params:       params,
		coefficients: coefficients,
	}, nil
}

// NewPolynomial builds a polynomial from explicit coefficients, reducing
// each one into the field. The input slice is copied.
func NewPolynomial(params *FieldParams, coefficients []*big.Int) (*Polynomial, error) {
	if params == nil {
		return nil, ErrInvalidParams.WithDetails("params cannot be nil")
	}
	if len(coefficients) == 0 {
		return nil, ErrInvalidThreshold.WithDetails("polynomial needs at least one coefficient")
	}

	coeffs := make([]*big.Int, len(coefficients))
	for i, c := range coefficients {
		if c == nil {
			return nil, ErrValidation.WithDetails("coefficient %d is nil", i)
		}
		coeffs[i] = params.Reduce(c)
	}
	return &Polynomial{params: params, coefficients: coeffs}, nil
}

// Evaluate evaluates the polynomial at x using Horner's method
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	return EvaluatePolynomial(p.params, p.coefficients, x)
}

// Coefficients returns a copy of the coefficients
func (p *Polynomial) Coefficients() []*big.Int {
	return cloneInts(p.coefficients)
}

// Constant returns a copy of the constant term
func (p *Polynomial) Constant() *big.Int {
	if len(p.coefficients) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(p.coefficients[0])
}

// Degree returns the degree of the polynomial
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Zeroize overwrites the coefficients and drops them
func (p *Polynomial) Zeroize() {
	ZeroizeInts(p.coefficients)
	for i := range p.coefficients {
		p.coefficients[i] = nil
	}
	p.coefficients = nil
}

// GeneratePolynomial returns threshold coefficients, the first being secret and
// the rest uniform in [0, P) from crypto/rand.
func GeneratePolynomial(params *FieldParams, secret *big.Int, threshold int) ([]*big.Int, error) {
	poly, err := NewRandomPolynomial(params, secret, threshold, rand.Reader)
	if err != nil {
		return nil, err
	}
	return poly.coefficients, nil
}

// EvaluatePolynomial evaluates coeffs at x mod P with Horner's method:
// f(x) = a0 + x(a1 + x(a2 + ...)).
func EvaluatePolynomial(params *FieldParams, coeffs []*big.Int, x *big.Int) *big.Int {
	result := new(big.Int)
	for i := len(coeffs) - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, coeffs[i])
		result.Mod(result, params.P)
	}
	return result
}
