package vss

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicReader(t *testing.T) {
	read := func(seed, info string, n int) []byte {
		buf := make([]byte, n)
		_, err := io.ReadFull(NewDeterministicReader([]byte(seed), []byte(info)), buf)
		require.NoError(t, err)
		return buf
	}

	assert.Equal(t, read("seed", "a", 64), read("seed", "a", 64))
	assert.NotEqual(t, read("seed", "a", 64), read("seed", "b", 64))
	assert.NotEqual(t, read("seed", "a", 64), read("other", "a", 64))

	// a longer read extends a shorter one
	assert.True(t, bytes.HasPrefix(read("seed", "a", 128), read("seed", "a", 32)))
}

func TestDeterministicReaderLimit(t *testing.T) {
	reader := NewDeterministicReader([]byte("seed"), nil)
	_, err := io.ReadFull(reader, make([]byte, MaxDeterministicBytes))
	require.NoError(t, err)

	_, err = reader.Read(make([]byte, 1))
	assert.Error(t, err)
}
