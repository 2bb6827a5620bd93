package scaler

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Supported artifact kinds.
const (
	KindMinMax   = "minmax"
	KindStandard = "standard"
)

// Artifact is the JSON export of a fitted single-feature scaler.
type Artifact struct {
	Kind         string    `json:"kind"`
	DataMin      []float64 `json:"data_min,omitempty"`
	DataMax      []float64 `json:"data_max,omitempty"`
	FeatureRange []float64 `json:"feature_range,omitempty"`
	Mean         []float64 `json:"mean,omitempty"`
	Scale        []float64 `json:"scale,omitempty"`
}

// Scaler is an affine transform x*scale + offset fitted on one product's sales.
type Scaler struct {
	kind   string
	scale  float64
	offset float64
}

// Kind reports which artifact kind the scaler was built from.
func (s *Scaler) Kind() string { return s.kind }

// Transform maps raw units into model space.
func (s *Scaler) Transform(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = v*s.scale + s.offset
	}
	return out
}

// InverseTransform maps model-space values back to units.
func (s *Scaler) InverseTransform(scaled []float64) []float64 {
	out := make([]float64, len(scaled))
	for i, v := range scaled {
		out[i] = (v - s.offset) / s.scale
	}
	return out
}

// New builds a Scaler from a decoded artifact.
func New(a Artifact) (*Scaler, error) {
	switch a.Kind {
	case KindMinMax, "":
		dataMin, err := first("data_min", a.DataMin)
		if err != nil {
			return nil, err
		}
		dataMax, err := first("data_max", a.DataMax)
		if err != nil {
			return nil, err
		}
		lo, hi := 0.0, 1.0
		if len(a.FeatureRange) == 2 {
			lo, hi = a.FeatureRange[0], a.FeatureRange[1]
		}
		if hi <= lo {
			return nil, fmt.Errorf("invalid feature_range [%v, %v]", lo, hi)
		}
		dataRange := dataMax - dataMin
		if dataRange == 0 {
			// constant training data; sklearn treats a zero range as 1
			dataRange = 1
		}
		scale := (hi - lo) / dataRange
		return &Scaler{kind: KindMinMax, scale: scale, offset: lo - dataMin*scale}, nil
	case KindStandard:
		mean, err := first("mean", a.Mean)
		if err != nil {
			return nil, err
		}
		std, err := first("scale", a.Scale)
		if err != nil {
			return nil, err
		}
		if std == 0 {
			std = 1
		}
		return &Scaler{kind: KindStandard, scale: 1 / std, offset: -mean / std}, nil
	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", a.Kind)
	}
}

// Load reads and builds a scaler artifact from a JSON file.
func Load(path string) (*Scaler, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler %s: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("decode scaler %s: %w", path, err)
	}
	s, err := New(a)
	if err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}
	return s, nil
}

func first(field string, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("scaler artifact is missing %s", field)
	}
	if math.IsNaN(values[0]) || math.IsInf(values[0], 0) {
		return 0, fmt.Errorf("scaler artifact has non-finite %s", field)
	}
	return values[0], nil
}
