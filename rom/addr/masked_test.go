package addr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinimalShift(t *testing.T) {
	shift, err := MinimalShift(0x01FF)
	require.NoError(t, err)
	require.Equal(t, 0, shift)

	shift, err = MinimalShift(0xF000)
	require.NoError(t, err)
	require.Equal(t, 12, shift)

	_, err = MinimalShift(0)
	require.ErrorIs(t, err, ErrBadMask)
}

func TestGetMaskedLocationExit(t *testing.T) {
	// Bytes 3 and 4 hold 0xFF and 0x01 -> little-endian 0x01FF.
	rec := []byte{0, 0, 0, 0xFF, 0xA1}
	got, err := GetMasked(rec, 3, 2, 0x01FF, LittleEndian)
	require.NoError(t, err)
	require.Equal(t, uint64(0x01FF), got)

	got, err = GetMasked(rec, 3, 2, 0xFE00, LittleEndian)
	require.NoError(t, err)
	require.Equal(t, uint64(0xA1>>1), got)
}

func TestGetMaskedBigEndian(t *testing.T) {
	data := []byte{0x12, 0x34}
	got, err := GetMasked(data, 0, 2, 0x0FF0, BigEndian)
	require.NoError(t, err)
	require.Equal(t, uint64(0x23), got)
}

func TestSetMaskedPreservesOtherBits(t *testing.T) {
	data := []byte{0xAA, 0xFF, 0xFF, 0xBB}
	require.NoError(t, SetMasked(data, 1, 2, 0x0FF0, 0x12, LittleEndian))
	require.Equal(t, []byte{0xAA, 0x2F, 0xF1, 0xBB}, data)

	got, err := GetMasked(data, 1, 2, 0x0FF0, LittleEndian)
	require.NoError(t, err)
	require.Equal(t, uint64(0x12), got)
}

func TestSetMaskedRoundTrip(t *testing.T) {
	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		data := make([]byte, 4)
		for val := uint64(0); val <= 0x3F; val++ {
			require.NoError(t, SetMasked(data, 0, 3, 0x03F000, val, order))
			got, err := GetMasked(data, 0, 3, 0x03F000, order)
			require.NoError(t, err)
			require.Equal(t, val, got)
		}
		require.Zero(t, data[3], "byte past the field must not change")
	}
}

func TestSetMaskedErrors(t *testing.T) {
	data := make([]byte, 2)

	err := SetMasked(data, 0, 2, 0x00F0, 0x10, LittleEndian)
	require.ErrorIs(t, err, ErrValueRange)
	require.Equal(t, []byte{0, 0}, data, "rejected value must not be written")

	require.ErrorIs(t, SetMasked(data, 0, 2, 0, 0, LittleEndian), ErrBadMask)
	require.ErrorIs(t, SetMasked(data, 0, 2, 0x0101, 1, LittleEndian), ErrBadMask)
	require.ErrorIs(t, SetMasked(data, 0, 1, 0x01FF, 1, LittleEndian), ErrBadMask)
	require.ErrorIs(t, SetMasked(data, 1, 2, 0xFF, 1, LittleEndian), ErrBounds)

	_, err = GetMasked(data, 0, 9, 0xFF, LittleEndian)
	require.ErrorIs(t, err, ErrBounds)
}
