package will

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopy-network/canopy/lib/vss"
)

var (
	testHeirs = []string{
		"0x1234567890123456789012345678901234567890",
		"0x2345678901234567890123456789012345678901",
		"0x3456789012345678901234567890123456789012",
	}
	testPercentages = []int{50, 30, 20}
)

func toyEngine(t *testing.T, opts ...vss.Option) *vss.Engine {
	t.Helper()
	params, err := vss.NewFieldParams(big.NewInt(1019), big.NewInt(2039), big.NewInt(4), big.NewInt(9))
	require.NoError(t, err)
	engine, err := vss.NewEngine(params, opts...)
	require.NoError(t, err)
	return engine
}

func newTestWill(t *testing.T, numTrustees, threshold int) (*CryptoWill, *Will) {
	t.Helper()
	cw := New(toyEngine(t), nil)
	w, err := cw.CreateWill(testHeirs, testPercentages, numTrustees, threshold)
	require.NoError(t, err)
	return cw, w
}

func TestCreateWill(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cw := New(toyEngine(t), logger)

	w, err := cw.CreateWill(testHeirs, testPercentages, 5, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, w.NumTrustees)
	assert.Equal(t, 3, w.Threshold)
	assert.Len(t, w.Heirs, 3)
	assert.Equal(t, testPercentages, w.HeirPercentages)
	assert.Len(t, w.Commitments(), 3)
	assert.Equal(t, vss.DigestSHA256, w.DigestAlgorithm)

	secret, ok := w.Secret()
	require.True(t, ok)
	digest, err := vss.HashSecret(secret, vss.DigestSHA256)
	require.NoError(t, err)
	assert.True(t, digest.Equal(w.Digest))

	for i := 1; i <= 5; i++ {
		st, err := w.Status(i)
		require.NoError(t, err)
		assert.Equal(t, TrusteeStatus{}, st)
	}
	_, err = w.Status(6)
	assert.ErrorIs(t, err, vss.ErrInvalidShareIndex)

	assert.Contains(t, logs.String(), `"msg":"will created"`)
	assert.Contains(t, logs.String(), digest.Hex())
}

func TestCreateWillValidation(t *testing.T) {
	cw := New(toyEngine(t), nil)

	tests := []struct {
		name        string
		heirs       []string
		percentages []int
		trustees    int
		threshold   int
		field       string
	}{
		{"count mismatch", testHeirs, []int{50, 50}, 5, 3, "heirs"},
		{"sum below 100", testHeirs, []int{50, 30, 10}, 5, 3, "percentages"},
		{"sum above 100", testHeirs, []int{50, 30, 30}, 5, 3, "percentages"},
		{"zero percentage", testHeirs[:2], []int{100, 0}, 5, 3, "percentages"},
		{"negative percentage", testHeirs[:2], []int{110, -10}, 5, 3, "percentages"},
		{"threshold above trustees", testHeirs, testPercentages, 3, 4, "threshold"},
		{"zero threshold", testHeirs, testPercentages, 3, 0, "threshold"},
		{"no trustees", testHeirs, testPercentages, 0, 0, "trustees"},
		{"no heirs", nil, nil, 5, 3, "heirs"},
		{"not an address", []string{"alice"}, []int{100}, 5, 3, "heirs"},
		{"short address", []string{"0x1234"}, []int{100}, 5, 3, "heirs"},
		{"zero address", []string{"0x0000000000000000000000000000000000000000"}, []int{100}, 5, 3, "heirs"},
		{"duplicate heir", []string{testHeirs[0], testHeirs[0]}, []int{50, 50}, 5, 3, "heirs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := cw.CreateWill(tt.heirs, tt.percentages, tt.trustees, tt.threshold)
			require.Error(t, err)
			assert.Nil(t, w)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %T: %v", err, err)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, vss.ErrValidation)
		})
	}
}

func TestVerifyTrusteeShare(t *testing.T) {
	cw, w := newTestWill(t, 5, 3)

	for i := 1; i <= 5; i++ {
		ok, err := cw.VerifyTrusteeShare(w, i)
		require.NoError(t, err)
		assert.True(t, ok)

		st, err := w.Status(i)
		require.NoError(t, err)
		assert.True(t, st.Verified)
		assert.False(t, st.Revealed)
	}

	_, err := cw.VerifyTrusteeShare(w, 6)
	assert.ErrorIs(t, err, vss.ErrInvalidShareIndex)
}

func TestVerifyAllTrustees(t *testing.T) {
	cw, w := newTestWill(t, 7, 4)

	results, err := cw.VerifyAllTrustees(context.Background(), w)
	require.NoError(t, err)
	assert.Len(t, results, 7)
	for i, ok := range results {
		assert.True(t, ok)
		st, _ := w.Status(i + 1)
		assert.True(t, st.Verified)
	}
}

func TestReconstructSecret(t *testing.T) {
	cw, w := newTestWill(t, 5, 3)
	original, _ := w.Secret()

	reveal := func(indices ...int) []vss.RevealedShare {
		out := make([]vss.RevealedShare, 0, len(indices))
		for _, i := range indices {
			share, err := cw.RevealShare(w, i)
			require.NoError(t, err)
			out = append(out, share)
		}
		return out
	}

	t.Run("threshold shares", func(t *testing.T) {
		matches, secret, err := cw.ReconstructSecret(w, reveal(1, 2, 3))
		require.NoError(t, err)
		assert.True(t, matches)
		assert.Equal(t, 0, original.Cmp(secret))

		st, _ := w.Status(2)
		assert.True(t, st.Revealed)
		st, _ = w.Status(4)
		assert.False(t, st.Revealed)
	})

	t.Run("any subset", func(t *testing.T) {
		matches, secret, err := cw.ReconstructSecret(w, reveal(5, 2, 4))
		require.NoError(t, err)
		assert.True(t, matches)
		assert.Equal(t, 0, original.Cmp(secret))
	})

	t.Run("insufficient shares", func(t *testing.T) {
		matches, secret, err := cw.ReconstructSecret(w, reveal(1, 2))
		require.Error(t, err)
		assert.False(t, matches)
		assert.Nil(t, secret)
		assert.ErrorIs(t, err, vss.ErrInsufficientShares)
		assert.True(t, vss.IsRecoverableError(err))
	})

	t.Run("forged share does not match the digest", func(t *testing.T) {
		shares := reveal(1, 2, 3)
		shares[0].Share.F = new(big.Int).Mod(new(big.Int).Add(shares[0].Share.F, big.NewInt(1)), big.NewInt(1019))
		matches, _, err := cw.ReconstructSecret(w, shares)
		require.NoError(t, err)
		assert.False(t, matches)
	})
}

func TestForget(t *testing.T) {
	cw, w := newTestWill(t, 5, 3)
	shares := make([]vss.RevealedShare, 0, 3)
	for i := 1; i <= 3; i++ {
		file, err := w.TrusteeShareFile(i)
		require.NoError(t, err)
		share, err := file.RevealedShare()
		require.NoError(t, err)
		shares = append(shares, share)
	}
	commitments := w.Commitments()

	w.Forget()

	_, ok := w.Secret()
	assert.False(t, ok)
	_, err := w.TrusteeShare(1)
	assert.ErrorIs(t, err, ErrForgotten)
	_, err = cw.VerifyTrusteeShare(w, 1)
	assert.ErrorIs(t, err, ErrForgotten)
	_, err = cw.RevealShare(w, 1)
	assert.ErrorIs(t, err, ErrForgotten)
	_, err = cw.VerifyAllTrustees(context.Background(), w)
	assert.ErrorIs(t, err, ErrForgotten)

	// public data and trustee-held shares still settle the will
	assert.Len(t, w.Commitments(), len(commitments))
	matches, _, err := cw.ReconstructSecret(w, shares)
	require.NoError(t, err)
	assert.True(t, matches)

	assert.NotPanics(t, w.Forget)
}

func TestContractData(t *testing.T) {
	engine, err := vss.NewEngine(nil, vss.WithDigest(vss.DigestKeccak256))
	require.NoError(t, err)
	cw := New(engine, nil)
	w, err := cw.CreateWill(testHeirs, testPercentages, 5, 3)
	require.NoError(t, err)

	data, err := json.Marshal(w.ContractData())
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"secret_hash", "digest_algorithm", "commitments", "heirs", "heir_percentages",
		"num_trustees", "threshold", "prime", "group_modulus", "generator_g", "generator_h"} {
		assert.Contains(t, fields, key)
	}
	assert.JSONEq(t, `"0x7fffffffffffffffffffffffffffffff"`, string(fields["prime"]))
	assert.JSONEq(t, `"keccak256"`, string(fields["digest_algorithm"]))

	var decoded ContractData
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, decoded.Validate())
	assert.True(t, decoded.SecretHash.Equal(w.Digest))
	assert.Len(t, decoded.Commitments[0], 256)

	params, err := decoded.FieldParams()
	require.NoError(t, err)
	assert.True(t, params.Equal(vss.DefaultFieldParams()))

	contractEngine, err := NewEngineForContract(&decoded)
	require.NoError(t, err)
	assert.Equal(t, vss.DigestKeccak256, contractEngine.DigestAlgorithm())

	for i := 1; i <= 5; i++ {
		fileData, err := func() ([]byte, error) {
			file, err := w.TrusteeShareFile(i)
			if err != nil {
				return nil, err
			}
			return json.Marshal(file)
		}()
		require.NoError(t, err)

		var file TrusteeShareFile
		require.NoError(t, json.Unmarshal(fileData, &file))
		share, err := file.RevealedShare()
		require.NoError(t, err)

		ok, err := contractEngine.Verify(share.Index, share.Share, decoded.CommitmentValues(), decoded.Threshold)
		require.NoError(t, err)
		assert.True(t, ok, "trustee %d", i)
	}
}

func TestContractDataValidate(t *testing.T) {
	_, w := newTestWill(t, 5, 3)

	tests := []struct {
		name   string
		mutate func(c *ContractData)
	}{
		{"threshold above trustees", func(c *ContractData) { c.Threshold = 6 }},
		{"missing commitment", func(c *ContractData) { c.Commitments = c.Commitments[:2] }},
		{"missing digest", func(c *ContractData) { c.SecretHash = vss.Digest{} }},
		{"percentages changed", func(c *ContractData) { c.HeirPercentages[0] = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contract := w.ContractData()
			require.NoError(t, contract.Validate())
			tt.mutate(contract)
			assert.ErrorIs(t, contract.Validate(), vss.ErrValidation)
			_, err := NewEngineForContract(contract)
			assert.Error(t, err)
		})
	}

	t.Run("tampered generator", func(t *testing.T) {
		contract := w.ContractData()
		contract.GeneratorH = []byte{0x00, 0x07}
		_, err := NewEngineForContract(contract)
		assert.ErrorIs(t, err, vss.ErrInvalidParams)
	})
}

func TestTrusteeShareFileIncomplete(t *testing.T) {
	_, err := (&TrusteeShareFile{TrusteeIndex: 1}).RevealedShare()
	assert.ErrorIs(t, err, vss.ErrValidation)
}
