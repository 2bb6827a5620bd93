package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensePredict(t *testing.T) {
	m, err := NewDense(Artifact{
		InputSize: 3,
		Weights:   [][]float64{{1, 0, 0}, {0.5, 0.5, 0.5}},
		Bias:      []float64{0, -1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, m.InputSize())
	assert.Equal(t, 2, m.Horizon())

	out, err := m.Predict(context.Background(), []float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 5}, out, 1e-12)
}

func TestDenseRelu(t *testing.T) {
	m, err := NewDense(Artifact{InputSize: 1, Weights: [][]float64{{-1}, {1}}, Bias: []float64{0, 0}, Activation: "relu"})
	require.NoError(t, err)

	out, err := m.Predict(context.Background(), []float64{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3}, out)
}

func TestDensePredictErrors(t *testing.T) {
	m, err := NewDense(Artifact{InputSize: 2, Weights: [][]float64{{1, 1}}, Bias: []float64{0}})
	require.NoError(t, err)

	_, err = m.Predict(context.Background(), []float64{1})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Predict(ctx, []float64{1, 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDenseValidatesShape(t *testing.T) {
	tests := []struct {
		name string
		a    Artifact
	}{
		{"no input size", Artifact{Weights: [][]float64{{1}}, Bias: []float64{0}}},
		{"no outputs", Artifact{InputSize: 1}},
		{"bias mismatch", Artifact{InputSize: 1, Weights: [][]float64{{1}, {1}}, Bias: []float64{0}}},
		{"row mismatch", Artifact{InputSize: 2, Weights: [][]float64{{1}}, Bias: []float64{0}}},
		{"activation", Artifact{InputSize: 1, Weights: [][]float64{{1}}, Bias: []float64{0}, Activation: "tanh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDense(tt.a)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"input_size":2,"weights":[[0.5,0.5]],"bias":[1]}`), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	out, err := m.Predict(context.Background(), []float64{2, 4})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4}, out, 1e-12)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
