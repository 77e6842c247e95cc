package vss

import (
	"crypto/sha512"
	"io"

	"golang.org/x/crypto/hkdf"
)

// deterministicSalt domain-separates every stream produced by this package
const deterministicSalt = "CANOPY_VSS_DETERMINISTIC_v1"

// MaxDeterministicBytes is the number of bytes a deterministic reader yields
// before it fails (the HKDF-SHA512 output limit).
const MaxDeterministicBytes = 255 * sha512.Size

// NewDeterministicReader returns a reproducible byte stream expanded from seed
// with HKDF-SHA512. info domain-separates streams drawn from the same seed.
//
// The stream is only as secret as seed. It is used to derive public group
// generators and to replay deals in tests; production dealing should keep the
// default crypto/rand source.
func NewDeterministicReader(seed, info []byte) io.Reader {
	return hkdf.New(sha512.New, seed, []byte(deterministicSalt), info)
}
