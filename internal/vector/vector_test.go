package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarityIdentities(t *testing.T) {
	v := []float64{1, 2, 3}
	neg := []float64{-1, -2, -3}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity(v, neg), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity(v, []float64{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, v))
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}

func TestSerializeRoundTrip(t *testing.T) {
	v := []float64{0.1, -2.5, 3.0, 1e10}
	blob := Serialize(v)
	assert.Len(t, blob, len(v)*8)
	got, err := Deserialize(blob)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestDeserializeRejectsMisalignedBlob(t *testing.T) {
	_, err := Deserialize([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestSerializeEmpty(t *testing.T) {
	assert.Nil(t, Serialize(nil))
	got, err := Deserialize(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
