package drive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Date"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	dest := filepath.Join(t.TempDir(), "data", "sales.xlsx")
	require.NoError(t, writeWorkbook(bytes.NewReader(buf.Bytes()), dest))

	_, err = os.Stat(dest)
	assert.NoError(t, err)
}

func TestWriteWorkbookKeepsExistingFileOnBadDownload(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "sales.xlsx")
	require.NoError(t, os.WriteFile(dest, []byte("previous"), 0o644))

	err := writeWorkbook(strings.NewReader("<html>quota exceeded</html>"), dest)
	require.Error(t, err)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is removed")
}
