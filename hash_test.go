package vss

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecretVectors(t *testing.T) {
	tests := []struct {
		name      string
		secret    int64
		algorithm DigestAlgorithm
		want      string
	}{
		{"sha256 of 42", 42, DigestSHA256, "0a28e9ffef0073f9a6a674cf57ee77307f38f0f1bebb087888d9011ed0eeefdf"},
		{"sha256 of 0", 0, DigestSHA256, "66687aadf862bd776c8fc18b8e9f8e20089714856ee233b3902a591d0d5f2925"},
		{"keccak256 of 0", 0, DigestKeccak256, "290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563"},
		{"blake2b-256 of 42", 42, DigestBLAKE2b256, "eeb47dd298405608629b9b9dbd3c81f4ad1443d769472bc267275f4a82e0d167"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := HashSecret(big.NewInt(tt.secret), tt.algorithm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, digest.Hex())
		})
	}
}

func TestHashSecretLargestSecret(t *testing.T) {
	digest, err := HashSecret(DefaultPrime(), DigestSHA256)
	require.NoError(t, err)
	assert.Equal(t, "b85c8870b6605afe13ce12c41a1d9890003a8f11a5c336ef313959c15d9033cc", digest.Hex())
}

func TestHashSecretErrors(t *testing.T) {
	tooWide := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err := HashSecret(tooWide, DigestSHA256)
	assert.ErrorIs(t, err, ErrSecretTooLarge)

	_, err = HashSecret(big.NewInt(-1), DigestSHA256)
	assert.ErrorIs(t, err, ErrSecretOutOfRange)

	_, err = HashSecret(big.NewInt(1), DigestAlgorithm("md5"))
	assert.ErrorIs(t, err, ErrUnsupportedDigest)
}

func TestEncodeSecret(t *testing.T) {
	encoded, err := EncodeSecret(big.NewInt(0x0102))
	require.NoError(t, err)
	require.Len(t, encoded, DigestSize)
	assert.Equal(t, byte(0x01), encoded[30])
	assert.Equal(t, byte(0x02), encoded[31])
	assert.Equal(t, make([]byte, 30), encoded[:30])
}

func TestParseDigestAlgorithm(t *testing.T) {
	tests := map[string]DigestAlgorithm{
		"sha256":      DigestSHA256,
		"SHA-256":     DigestSHA256,
		"keccak256":   DigestKeccak256,
		" Keccak-256": DigestKeccak256,
		"blake2b-256": DigestBLAKE2b256,
		"blake2b":     DigestBLAKE2b256,
	}
	for name, want := range tests {
		got, err := ParseDigestAlgorithm(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseDigestAlgorithm("sha1")
	assert.ErrorIs(t, err, ErrUnsupportedDigest)

	for _, algorithm := range SupportedDigestAlgorithms() {
		h, err := algorithm.New()
		require.NoError(t, err)
		assert.Equal(t, DigestSize, h.Size(), algorithm.String())
	}
}

func TestDigestEncoding(t *testing.T) {
	digest, err := HashSecret(big.NewInt(42), DigestSHA256)
	require.NoError(t, err)

	t.Run("parse with and without prefix", func(t *testing.T) {
		for _, s := range []string{digest.Hex(), "0x" + digest.Hex()} {
			parsed, err := ParseDigest(s)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(digest))
		}
	})

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(struct {
			Hash Digest `json:"hash"`
		}{digest})
		require.NoError(t, err)
		assert.JSONEq(t, `{"hash":"0x`+digest.Hex()+`"}`, string(data))

		var decoded struct {
			Hash Digest `json:"hash"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, digest, decoded.Hash)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseDigest("zz")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = ParseDigest("abcd")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("equality and zero", func(t *testing.T) {
		other, err := HashSecret(big.NewInt(43), DigestSHA256)
		require.NoError(t, err)
		assert.False(t, digest.Equal(other))
		assert.False(t, digest.IsZero())
		assert.True(t, Digest{}.IsZero())
		assert.Equal(t, digest[:], digest.Bytes())
	})
}
