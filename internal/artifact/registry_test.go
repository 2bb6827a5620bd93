package artifact

import (
	"os"
	"testing"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	model := `{"input_size":2,"weights":[[1,0],[0,1]],"bias":[0,0]}`
	scaler := `{"kind":"minmax","data_min":[0],"data_max":[10]}`

	// complete pair
	writeFile(t, ModelPath(dir, "Product_1"), model)
	writeFile(t, ScalerPath(dir, "Product_1"), scaler)
	// model only
	writeFile(t, ModelPath(dir, "Product_2"), model)
	// corrupt model
	writeFile(t, ModelPath(dir, "Product_3"), `{"input_size":0}`)
	writeFile(t, ScalerPath(dir, "Product_3"), scaler)

	reg := LoadDir(dir, []string{"Product_1", "Product_2", "Product_3", "Product_4"})

	assert.Equal(t, []string{"Product_1"}, reg.Available())

	m, err := reg.Model("Product_1")
	require.NoError(t, err)
	assert.Equal(t, 2, m.InputSize())
	assert.True(t, reg.Scalers().Has("Product_1"))

	for _, p := range []string{"Product_2", "Product_3", "Product_4"} {
		_, err := reg.Model(p)
		assert.ErrorIs(t, err, domain.ErrArtifactMissing, p)
	}
}

func TestArtifactPaths(t *testing.T) {
	assert.Equal(t, "artifacts/model_Product_1.json", ModelPath("artifacts", "Product_1"))
	assert.Equal(t, "artifacts/scaler_Product_1.json", ScalerPath("artifacts", "Product_1"))
}

func TestFingerprintFollowsArtifactContent(t *testing.T) {
	dir := t.TempDir()
	scaler := `{"kind":"minmax","data_min":[0],"data_max":[10]}`
	writeFile(t, ModelPath(dir, "Product_1"), `{"input_size":1,"weights":[[1]],"bias":[0]}`)
	writeFile(t, ScalerPath(dir, "Product_1"), scaler)

	first := LoadDir(dir, []string{"Product_1"}).Fingerprint("Product_1")
	assert.NotEmpty(t, first)
	assert.Equal(t, first, LoadDir(dir, []string{"Product_1"}).Fingerprint("Product_1"))

	writeFile(t, ModelPath(dir, "Product_1"), `{"input_size":1,"weights":[[2]],"bias":[0]}`)
	assert.NotEqual(t, first, LoadDir(dir, []string{"Product_1"}).Fingerprint("Product_1"))

	assert.Empty(t, NewRegistry(nil, nil).Fingerprint("Product_1"))
}
