package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat32BlobRoundTrip(t *testing.T) {
	vector := []float32{0.0, 1.5, -2.25, 3.14159, -0.0001}

	decoded, err := decodeFloat32s(encodeFloat32s(vector))
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)
}

func TestDecodeFloat32s_EmptyBlob(t *testing.T) {
	decoded, err := decodeFloat32s(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeFloat32s_TruncatedBlob(t *testing.T) {
	blob := encodeFloat32s([]float32{1, 2, 3})

	_, err := decodeFloat32s(blob[:len(blob)-1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a multiple of 4")
}
