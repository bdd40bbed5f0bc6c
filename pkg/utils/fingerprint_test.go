package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.csv")
	require.NoError(t, os.WriteFile(path, []byte("Document Number\nINV1\n"), 0o644))

	first, err := FingerprintFile(path)
	require.NoError(t, err)
	again, err := FingerprintFile(path)
	require.NoError(t, err)

	assert.Equal(t, first.Key(), again.Key())
	assert.Equal(t, int64(21), first.Size)
	assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64String("Document Number\nINV1\n")), first.Checksum)

	require.NoError(t, os.WriteFile(path, []byte("Document Number\nINV2\n"), 0o644))
	changed, err := FingerprintFile(path)
	require.NoError(t, err)

	assert.NotEqual(t, first.Key(), changed.Key())
}

func TestFingerprintFile_Missing(t *testing.T) {
	_, err := FingerprintFile(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.csv")
	require.NoError(t, os.WriteFile(path, []byte("Document Number\nINV1\n"), 0o644))

	stat, err := StatFile(path)
	require.NoError(t, err)
	full, err := FingerprintFile(path)
	require.NoError(t, err)

	assert.Empty(t, stat.Checksum)
	assert.True(t, stat.SameStat(full))

	later := full.ModTime.Add(time.Second)
	require.NoError(t, os.Chtimes(path, later, later))
	touched, err := StatFile(path)
	require.NoError(t, err)
	assert.False(t, touched.SameStat(full))

	_, err = StatFile(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}
