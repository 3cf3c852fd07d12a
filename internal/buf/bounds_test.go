package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	sum, ok := AddOverflowSafe(10, 5)
	require.True(t, ok)
	require.Equal(t, 15, sum)

	_, ok = AddOverflowSafe(math.MaxInt, 1)
	require.False(t, ok, "adding to MaxInt must overflow")

	_, ok = AddOverflowSafe(math.MinInt, -1)
	require.False(t, ok, "subtracting from MinInt must underflow")
}

func TestCheckRange(t *testing.T) {
	end, err := CheckRange(0x100, 0xF0, 0x10)
	require.NoError(t, err)
	require.Equal(t, 0x100, end)

	_, err = CheckRange(0x100, 0xF0, 0x11)
	require.ErrorContains(t, err, "bounds")

	_, err = CheckRange(0x100, -1, 1)
	require.ErrorContains(t, err, "negative offset")

	_, err = CheckRange(0x100, 1, -1)
	require.ErrorContains(t, err, "negative length")

	_, err = CheckRange(math.MaxInt, math.MaxInt, 1)
	require.ErrorContains(t, err, "overflow")
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}

	got, ok := Slice(data, 1, 3)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, got)

	_, ok = Slice(data, 4, 2)
	require.False(t, ok, "Slice should fail when extending beyond len")
	require.False(t, Has(data, 2, 4))
	require.True(t, Has(data, 2, 1))

	_, ok = Slice(data, -1, 1)
	require.False(t, ok, "Slice should reject negative offset")
	_, ok = Slice(data, 1, -1)
	require.False(t, ok, "Slice should reject negative length")
}
