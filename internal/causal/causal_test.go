package causal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasSignal(t *testing.T) {
	assert.True(t, HasSignal("we switched to postgres because of performance"))
	assert.True(t, HasSignal("this ensures consistency"))
	assert.False(t, HasSignal("nothing special here"))
}

func TestSuggestSubType(t *testing.T) {
	assert.Equal(t, "prevents", SuggestSubType("this was blocked by the firewall"))
	assert.Equal(t, "enables", SuggestSubType("so that we could scale"))
	assert.Equal(t, "causes", SuggestSubType("plain text"))
}

func TestTokenOverlap(t *testing.T) {
	a := map[string]bool{"x": true, "y": true}
	b := map[string]bool{"y": true, "z": true, "w": true}
	assert.InDelta(t, 1.0/3.0, TokenOverlap(a, b), 1e-9)
	assert.Equal(t, 0.0, TokenOverlap(nil, b))
}
