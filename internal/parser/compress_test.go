package parser

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGzip(t *testing.T, path string, data []byte) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(data)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeZstd(t *testing.T, path string, data []byte) {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	require.NoError(t, os.WriteFile(path, enc.EncodeAll(data, nil), 0o644))
}

func TestOpen_DecompressesBySuffix(t *testing.T) {
	dir := t.TempDir()
	gzPath := filepath.Join(dir, "matches.csv.gz")
	zstPath := filepath.Join(dir, "matches.csv.zst")
	writeGzip(t, gzPath, []byte(matchesCSV))
	writeZstd(t, zstPath, []byte(matchesCSV))

	for _, path := range []string{gzPath, zstPath} {
		rc, err := Open(path)
		require.NoError(t, err, path)
		got, err := io.ReadAll(rc)
		require.NoError(t, err, path)
		require.NoError(t, rc.Close(), path)
		assert.Equal(t, matchesCSV, string(got), path)
	}

	ms, err := ParseMatchesFile(zstPath)
	require.NoError(t, err)
	assert.Len(t, ms, 3)
}

func TestOpen_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}
