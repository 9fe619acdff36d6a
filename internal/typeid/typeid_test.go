package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesPrefix(t *testing.T) {
	id := NewWireID()
	assert.True(t, strings.HasPrefix(id, "wire_"), id)
	assert.Equal(t, PrefixWire, Prefix(id))
	require.NoError(t, Validate(id, PrefixWire))
}

func TestNewIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		id := NewComponentID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestValidateRejects(t *testing.T) {
	assert.Error(t, Validate("not-an-id", PrefixWire))
	assert.Error(t, Validate(NewRectangleID(), PrefixWire))
	assert.Equal(t, "", Prefix("garbage!"))
}
