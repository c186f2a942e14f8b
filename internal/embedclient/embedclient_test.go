package embedclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseNameStripsTagSuffix(t *testing.T) {
	assert.Equal(t, "nomic-embed-text", baseName("nomic-embed-text:latest"))
	assert.Equal(t, "nomic-embed-text", baseName("nomic-embed-text"))
}

func TestNewDefaultsWhenEnvUnset(t *testing.T) {
	t.Setenv("MNEMON_EMBED_ENDPOINT", "")
	t.Setenv("MNEMON_EMBED_MODEL", "")
	c := New()
	assert.Equal(t, DefaultEndpoint, c.Endpoint)
	assert.Equal(t, DefaultModel, c.Model)
}

func TestNewHonorsEnv(t *testing.T) {
	t.Setenv("MNEMON_EMBED_ENDPOINT", "http://example.com:1234")
	t.Setenv("MNEMON_EMBED_MODEL", "custom-model")
	c := New()
	assert.Equal(t, "http://example.com:1234", c.Endpoint)
	assert.Equal(t, "custom-model", c.Model)
}

func TestUnavailableMessageMentionsEndpointAndModel(t *testing.T) {
	c := &Client{Endpoint: "http://localhost:11434", Model: "nomic-embed-text"}
	msg := c.UnavailableMessage()
	assert.Contains(t, msg, "http://localhost:11434")
	assert.Contains(t, msg, "nomic-embed-text")
}
