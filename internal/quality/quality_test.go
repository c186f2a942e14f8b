package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFlagsKnownPatterns(t *testing.T) {
	assert.Contains(t, Check("instance i-0123456789abcdef0 is running"), "AWS instance ID")
	assert.Contains(t, Check("12 resources total in this stack"), "resource count")
	assert.Contains(t, Check("all 12 services verified healthy"), "verification receipt")
	assert.Contains(t, Check("state is clean after migration"), "state observation")
	assert.Contains(t, Check("deployed via terraform apply"), "deployment receipt")
	assert.Contains(t, Check("see main.go:42 for the fix"), "file:line reference")
	assert.Contains(t, Check("went from 42 -> 41 after the fix"), "numeric correction")
}

func TestCheckReturnsEmptyForDurableContent(t *testing.T) {
	assert.Empty(t, Check("we decided to use PostgreSQL for the primary datastore"))
}
