package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesValue(t *testing.T) {
	var n int64
	v := newBytesValue(&n)
	require.Equal(t, "bytes", v.Type())
	require.Equal(t, "0", v.String())

	require.NoError(t, v.Set("1.5MB"))
	require.EqualValues(t, 1500000, n)
	require.Equal(t, "1.5 MB", v.String())

	require.NoError(t, v.Set("2KiB"))
	require.EqualValues(t, 2048, n)

	require.NoError(t, v.Set("150"))
	require.EqualValues(t, 150, n)

	require.Error(t, v.Set("large"))
}
