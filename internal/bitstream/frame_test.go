package bitstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameUnframeRoundTrip(t *testing.T) {
	payload := []byte("hello world")
	bits := Frame(payload)
	require.Equal(t, HeaderBits+len(payload)*8, len(bits))

	got, err := Unframe(bits)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFrameEmptyPayload(t *testing.T) {
	bits := Frame(nil)
	got, err := Unframe(bits)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUnframeShortHeader(t *testing.T) {
	_, err := Unframe(make([]bool, 10))
	require.Error(t, err)
}

func TestUnframeShortRead(t *testing.T) {
	bits := Frame([]byte("abcdef"))
	truncated := bits[:len(bits)-8]
	_, err := Unframe(truncated)
	require.Error(t, err)
}
