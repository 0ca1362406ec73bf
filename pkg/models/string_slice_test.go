package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSliceValue(t *testing.T) {
	v, err := StringSlice{"alpha", "beta"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["alpha","beta"]`, v)

	v, err = StringSlice(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestStringSliceScan(t *testing.T) {
	var s StringSlice
	err := s.Scan(`["one","two"]`)
	require.NoError(t, err)
	assert.Equal(t, StringSlice{"one", "two"}, s)

	err = s.Scan([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, s)

	err = s.Scan(nil)
	require.NoError(t, err)
	assert.Empty(t, s)

	err = s.Scan(42)
	assert.Error(t, err)
}
