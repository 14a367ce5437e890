package ollama

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalientPointPlainJSON(t *testing.T) {
	p, err := parseSalientPoint(`{"x":0.62,"y":0.41,"confidence":0.8,"label":"face"}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.62, p.X, 1e-9)
	assert.InDelta(t, 0.41, p.Y, 1e-9)
	assert.Equal(t, "face", p.Label)
}

func TestParseSalientPointStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"x\":0.3,\"y\":0.2,\"confidence\":0.9,}\n```"
	p, err := parseSalientPoint(raw)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, p.X, 1e-9)
	assert.InDelta(t, 0.9, p.Confidence, 1e-9)
}

func TestParseSalientPointExtractsEmbeddedJSON(t *testing.T) {
	raw := `The most salient point is {"x":0.7,"y":0.5,"confidence":0.6,"label":"dog"} as requested.`
	p, err := parseSalientPoint(raw)
	require.NoError(t, err)
	assert.Equal(t, "dog", p.Label)
}

func TestParseSalientPointNonJSONFallsBackToCenter(t *testing.T) {
	p, err := parseSalientPoint("I cannot see anything interesting here.")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.X, 1e-9)
	assert.InDelta(t, 0.5, p.Y, 1e-9)
	assert.InDelta(t, 0.1, p.Confidence, 1e-9)
}

func TestParseSalientPointClampsOutOfRange(t *testing.T) {
	p, err := parseSalientPoint(`{"x":1.4,"y":-0.2,"confidence":2.0}`)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.X, 1e-9)
	assert.InDelta(t, 0.0, p.Y, 1e-9)
	assert.InDelta(t, 1.0, p.Confidence, 1e-9)
}
