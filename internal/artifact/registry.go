package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/model"
	"github.com/andresuchdata/stockcast/internal/scaler"
	"github.com/rs/zerolog/log"
)

// Registry holds the model and scaler of every product whose artifacts
// loaded. It is built once at startup and never mutated afterwards.
type Registry struct {
	models       map[string]model.SequenceModel
	scalers      *scaler.Adapter
	fingerprints map[string]string
}

// NewRegistry builds a Registry from already-loaded artifacts. A product is
// only usable when it has both a model and a scaler.
func NewRegistry(models map[string]model.SequenceModel, scalers map[string]*scaler.Scaler) *Registry {
	m := make(map[string]model.SequenceModel, len(models))
	for product, mdl := range models {
		if mdl != nil {
			m[product] = mdl
		}
	}
	return &Registry{models: m, scalers: scaler.NewAdapter(scalers), fingerprints: map[string]string{}}
}

// ModelPath is where the model artifact of product is expected inside dir.
func ModelPath(dir, product string) string {
	return filepath.Join(dir, fmt.Sprintf("model_%s.json", product))
}

// ScalerPath is where the scaler artifact of product is expected inside dir.
func ScalerPath(dir, product string) string {
	return filepath.Join(dir, fmt.Sprintf("scaler_%s.json", product))
}

// LoadDir loads the artifact pair of every product from dir. Load failures
// are logged and leave that product unavailable.
func LoadDir(dir string, products []string) *Registry {
	models := make(map[string]model.SequenceModel, len(products))
	scalers := make(map[string]*scaler.Scaler, len(products))
	fingerprints := make(map[string]string, len(products))

	for _, product := range products {
		mdl, err := model.Load(ModelPath(dir, product))
		if err != nil {
			log.Error().Err(err).Str("product", product).Msg("artifact: failed to load model")
			continue
		}
		sc, err := scaler.Load(ScalerPath(dir, product))
		if err != nil {
			log.Error().Err(err).Str("product", product).Msg("artifact: failed to load scaler")
			continue
		}
		fp, err := fingerprint(ModelPath(dir, product), ScalerPath(dir, product))
		if err != nil {
			log.Error().Err(err).Str("product", product).Msg("artifact: failed to fingerprint artifacts")
			continue
		}
		models[product] = mdl
		scalers[product] = sc
		fingerprints[product] = fp
		log.Info().
			Str("product", product).
			Int("input_size", mdl.InputSize()).
			Int("horizon", mdl.Horizon()).
			Str("scaler", sc.Kind()).
			Str("fingerprint", fp).
			Msg("artifact: loaded model and scaler")
	}

	reg := NewRegistry(models, scalers)
	reg.fingerprints = fingerprints
	return reg
}

// Fingerprint identifies the artifact pair loaded for product. It is empty
// for registries built from in-memory artifacts.
func (r *Registry) Fingerprint(product string) string {
	return r.fingerprints[product]
}

// fingerprint hashes the content of the given files in order.
func fingerprint(paths ...string) (string, error) {
	h := sha256.New()
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		h.Write(b)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

// Model returns the sequence model of product.
func (r *Registry) Model(product string) (model.SequenceModel, error) {
	mdl, ok := r.models[product]
	if !ok || !r.scalers.Has(product) {
		return nil, fmt.Errorf("model for %s: %w", product, domain.ErrArtifactMissing)
	}
	return mdl, nil
}

// Scalers returns the per-product scaler adapter.
func (r *Registry) Scalers() *scaler.Adapter {
	return r.scalers
}

// Available lists products with a usable model and scaler, sorted.
func (r *Registry) Available() []string {
	out := make([]string, 0, len(r.models))
	for product := range r.models {
		if r.scalers.Has(product) {
			out = append(out, product)
		}
	}
	sort.Strings(out)
	return out
}
