package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSortsKeysAndIndents(t *testing.T) {
	var buf bytes.Buffer
	err := JSON(&buf, map[string]any{"b": 1, "a": 2, "c": map[string]any{"z": 1, "y": 2}})
	require.NoError(t, err)

	want := "{\n  \"a\": 2,\n  \"b\": 1,\n  \"c\": {\n    \"y\": 2,\n    \"z\": 1\n  }\n}\n"
	assert.Equal(t, want, buf.String())
}

func TestErrorEnvelope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Error(&buf, "insight not found"))
	assert.Equal(t, "{\n  \"error\": \"insight not found\"\n}\n", buf.String())
}

func TestJSONRoundTripsStructFieldsSorted(t *testing.T) {
	type inner struct {
		Zeta  string `json:"zeta"`
		Alpha string `json:"alpha"`
	}
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, inner{Zeta: "z", Alpha: "a"}))
	assert.Equal(t, "{\n  \"alpha\": \"a\",\n  \"zeta\": \"z\"\n}\n", buf.String())
}
