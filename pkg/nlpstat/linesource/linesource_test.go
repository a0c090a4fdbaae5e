package linesource

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const sample = "le chat ||| the cat\r\nla maison ||| the house\n\nfin ||| end"

func readAll(t *testing.T, r *Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, ok := r.Next()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	require.NoError(t, r.Err())
	return lines
}

func writeCompressed(t *testing.T, path string, wrap func(io.Writer) (io.WriteCloser, error)) {
	t.Helper()
	var buf bytes.Buffer
	w, err := wrap(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestNewReader(t *testing.T) {
	r := NewReader(strings.NewReader(sample))
	lines := readAll(t, r)

	assert.Equal(t, []string{"le chat ||| the cat", "la maison ||| the house", "", "fin ||| end"}, lines)
	assert.Equal(t, 4, r.Line())
}

func TestOpenFormats(t *testing.T) {
	dir := t.TempDir()
	expected := []string{"le chat ||| the cat", "la maison ||| the house", "", "fin ||| end"}

	plain := filepath.Join(dir, "table.txt")
	require.NoError(t, os.WriteFile(plain, []byte(sample), 0644))

	gz := filepath.Join(dir, "table.gz")
	writeCompressed(t, gz, func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriter(w), nil
	})

	xzPath := filepath.Join(dir, "table.xz")
	writeCompressed(t, xzPath, func(w io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(w)
	})

	zst := filepath.Join(dir, "table.zst")
	writeCompressed(t, zst, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w)
	})

	for _, path := range []string{plain, gz, xzPath, zst} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			r, err := Open(path)
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, expected, readAll(t, r))
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/phrase-table.gz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, fmt.Sprintf("%+v", err), "linesource.Open")
}

func TestOpenCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip at all"), 0644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open "+path)
}

func TestLineTooLong(t *testing.T) {
	long := strings.Repeat("x", MaxLineSize+1)
	r := NewReader(strings.NewReader(long))

	_, ok := r.Next()
	assert.False(t, ok)
	require.Error(t, r.Err())
	assert.True(t, errors.Is(r.Err(), bufio.ErrTooLong))
	assert.Contains(t, r.Err().Error(), "read line 1")
}
