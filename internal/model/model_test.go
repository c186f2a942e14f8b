package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseWeightTable(t *testing.T) {
	cases := map[int]float64{5: 1.0, 4: 0.8, 3: 0.5, 2: 0.3, 1: 0.15, 0: 0.15, 99: 0.15}
	for imp, want := range cases {
		assert.Equal(t, want, BaseWeight(imp))
	}
}

func TestIsImmune(t *testing.T) {
	assert.True(t, IsImmune(4, 0))
	assert.True(t, IsImmune(5, 0))
	assert.True(t, IsImmune(1, 3))
	assert.False(t, IsImmune(3, 2))
	assert.False(t, IsImmune(1, 0))
}

func TestTimestampRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	s := FormatTimestamp(now)
	assert.Equal(t, "2026-03-01T12:30:00Z", s)
	got, err := ParseTimestamp(s)
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	got2, err := ParseTimestamp("2026-03-01T12:30:00+00:00")
	require.NoError(t, err)
	assert.True(t, now.Equal(got2))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.3333", FormatFloat(1.0/3.0))
	assert.Equal(t, "1.0000", FormatFloat(1.0))
}

func TestTagsRoundTrip(t *testing.T) {
	ins := &Insight{Tags: []string{"b", "a"}}
	raw, err := ins.TagsJSON()
	require.NoError(t, err)
	got, err := ParseTags(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, got)
}

func TestParseMetadataEmpty(t *testing.T) {
	m, err := ParseMetadata("")
	require.NoError(t, err)
	assert.Empty(t, m)
}
