package vss

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// DigestSize is the size in bytes of every supported digest and of the
// secret encoding fed to it
const DigestSize = 32

// DigestAlgorithm names a 32-byte hash function used to publish secret digests
type DigestAlgorithm string

const (
	DigestSHA256     DigestAlgorithm = "sha256"
	DigestKeccak256  DigestAlgorithm = "keccak256"
	DigestBLAKE2b256 DigestAlgorithm = "blake2b-256"
)

// DefaultDigestAlgorithm is used when no algorithm is configured
const DefaultDigestAlgorithm = DigestSHA256

// SupportedDigestAlgorithms lists the algorithms HashSecret accepts
func SupportedDigestAlgorithms() []DigestAlgorithm {
	return []DigestAlgorithm{DigestSHA256, DigestKeccak256, DigestBLAKE2b256}
}

// ParseDigestAlgorithm parses an algorithm name, case-insensitively
func ParseDigestAlgorithm(name string) (DigestAlgorithm, error) {
	switch DigestAlgorithm(strings.ToLower(strings.TrimSpace(name))) {
	case DigestSHA256, "sha-256":
		return DigestSHA256, nil
	case DigestKeccak256, "keccak-256":
		return DigestKeccak256, nil
	case DigestBLAKE2b256, "blake2b256", "blake2b":
		return DigestBLAKE2b256, nil
	}
	return "", ErrUnsupportedDigest.WithDetails("%q", name)
}

// New returns a fresh hash.Hash for the algorithm
func (a DigestAlgorithm) New() (hash.Hash, error) {
	switch a {
	case DigestSHA256:
		return sha256.New(), nil
	case DigestKeccak256:
		// Ethereum's Keccak, not the finalized SHA3-256 padding
		return sha3.NewLegacyKeccak256(), nil
	case DigestBLAKE2b256:
		return blake2b.New256(nil)
	}
	return nil, ErrUnsupportedDigest.WithDetails("%q", string(a))
}

func (a DigestAlgorithm) String() string {
	return string(a)
}

// Digest is a 32-byte commitment to a secret
type Digest [DigestSize]byte

// Hex returns the lowercase hex encoding without prefix
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) String() string {
	return d.Hex()
}

// Bytes returns a copy of the digest bytes
func (d Digest) Bytes() []byte {
	out := make([]byte, DigestSize)
	copy(out, d[:])
	return out
}

// Equal compares two digests in constant time
func (d Digest) Equal(other Digest) bool {
	return SecureCompare(d[:], other[:])
}

// IsZero reports whether the digest is unset
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// MarshalText encodes the digest as 0x-prefixed hex
func (d Digest) MarshalText() ([]byte, error) {
	return []byte("0x" + d.Hex()), nil
}

// UnmarshalText accepts hex with or without a 0x prefix
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest decodes a 64-character hex digest, optionally 0x-prefixed
func ParseDigest(s string) (Digest, error) {
	var d Digest
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, ErrValidation.WithDetails("digest is not hex").WithCause(err)
	}
	if len(raw) != DigestSize {
		return d, ErrValidation.WithDetails("digest must be %d bytes, got %d", DigestSize, len(raw))
	}
	copy(d[:], raw)
	return d, nil
}

// EncodeSecret serializes secret as a 32-byte big-endian integer
func EncodeSecret(secret *big.Int) ([]byte, error) {
	if secret == nil || secret.Sign() < 0 {
		return nil, ErrSecretOutOfRange.WithDetails("secret must be a non-negative integer")
	}
	if secret.BitLen() > DigestSize*8 {
		return nil, ErrSecretTooLarge.WithDetails("secret needs %d bits", secret.BitLen())
	}
	buf := make([]byte, DigestSize)
	secret.FillBytes(buf)
	return buf, nil
}

// HashSecret returns algorithm(EncodeSecret(secret))
func HashSecret(secret *big.Int, algorithm DigestAlgorithm) (Digest, error) {
	var d Digest
	h, err := algorithm.New()
	if err != nil {
		return d, err
	}
	encoded, err := EncodeSecret(secret)
	if err != nil {
		return d, err
	}
	defer ZeroizeBytes(encoded)

	h.Write(encoded)
	sum := h.Sum(nil)
	if len(sum) != DigestSize {
		return d, fmt.Errorf("digest %s produced %d bytes", algorithm, len(sum))
	}
	copy(d[:], sum)
	return d, nil
}
