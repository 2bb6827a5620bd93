package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// SequenceModel predicts a fixed number of future values from a scaled window.
type SequenceModel interface {
	// InputSize is the window length the model was trained on.
	InputSize() int
	// Predict returns one scaled prediction per forecast day.
	Predict(ctx context.Context, window []float64) ([]float64, error)
}

// Artifact is the JSON export of a direct multi-output dense regressor:
// out[h] = activation(bias[h] + sum_i weights[h][i]*window[i]).
type Artifact struct {
	InputSize  int         `json:"input_size"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation,omitempty"`
}

// Dense is the in-process SequenceModel built from an Artifact.
type Dense struct {
	inputSize  int
	weights    [][]float64
	bias       []float64
	activation string
}

// NewDense validates the artifact shape and builds a Dense model.
func NewDense(a Artifact) (*Dense, error) {
	if a.InputSize <= 0 {
		return nil, fmt.Errorf("input_size must be positive, got %d", a.InputSize)
	}
	if len(a.Weights) == 0 {
		return nil, fmt.Errorf("model has no output units")
	}
	if len(a.Bias) != len(a.Weights) {
		return nil, fmt.Errorf("bias has %d entries, expected %d", len(a.Bias), len(a.Weights))
	}
	for h, row := range a.Weights {
		if len(row) != a.InputSize {
			return nil, fmt.Errorf("weights row %d has %d entries, expected %d", h, len(row), a.InputSize)
		}
	}
	switch a.Activation {
	case "", "linear", "relu":
	default:
		return nil, fmt.Errorf("unsupported activation %q", a.Activation)
	}

	return &Dense{
		inputSize:  a.InputSize,
		weights:    a.Weights,
		bias:       a.Bias,
		activation: a.Activation,
	}, nil
}

// Load reads a Dense model artifact from a JSON file.
func Load(path string) (*Dense, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	m, err := NewDense(a)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

func (d *Dense) InputSize() int { return d.inputSize }

// Horizon is the number of values every prediction returns.
func (d *Dense) Horizon() int { return len(d.bias) }

func (d *Dense) Predict(ctx context.Context, window []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(window) != d.inputSize {
		return nil, fmt.Errorf("window has %d values, model expects %d", len(window), d.inputSize)
	}

	out := make([]float64, len(d.bias))
	for h, row := range d.weights {
		acc := d.bias[h]
		for i, w := range row {
			acc += w * window[i]
		}
		if d.activation == "relu" {
			acc = math.Max(0, acc)
		}
		out[h] = acc
	}
	return out, nil
}

var _ SequenceModel = (*Dense)(nil)
