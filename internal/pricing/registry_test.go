package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupNormalizesCode(t *testing.T) {
	reg, err := NewRegistry(map[string]int{"RAKESH15": 15})
	require.NoError(t, err)

	c, ok := reg.Lookup("  rakesh15 ")
	assert.True(t, ok)
	assert.Equal(t, "RAKESH15", c.Code)
	assert.Equal(t, 15, c.Percent)
}

func TestRegistry_LookupUnknown(t *testing.T) {
	reg, err := NewRegistry(map[string]int{"RAKESH15": 15})
	require.NoError(t, err)

	_, ok := reg.Lookup("XYZ123")
	assert.False(t, ok)

	_, ok = reg.Lookup("   ")
	assert.False(t, ok)
}

func TestRegistry_LookupIsIdempotent(t *testing.T) {
	reg, err := NewRegistry(map[string]int{"WELCOME10": 10})
	require.NoError(t, err)

	a, _ := reg.Lookup("WELCOME10")
	b, _ := reg.Lookup("welcome10")
	assert.Equal(t, a, b)
}

func TestNewRegistry_RejectsOutOfRange(t *testing.T) {
	_, err := NewRegistry(map[string]int{"BAD": 101})
	assert.Error(t, err)

	_, err = NewRegistry(map[string]int{"BAD": -1})
	assert.Error(t, err)

	_, err = NewRegistry(map[string]int{" ": 10})
	assert.Error(t, err)
}

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry("RAKESH15:15, welcome10:10,")
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	c, ok := reg.Lookup("WELCOME10")
	assert.True(t, ok)
	assert.Equal(t, 10, c.Percent)

	_, err = ParseRegistry("RAKESH15")
	assert.Error(t, err)

	_, err = ParseRegistry("RAKESH15:abc")
	assert.Error(t, err)
}
