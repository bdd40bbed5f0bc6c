// =============================================================================
// Invoice and PO Lookup - File Fingerprint Utility
// =============================================================================
//
// This module identifies a source file's contents, so a loaded table can be
// reused until the file actually changes.
//
// FINGERPRINT STRATEGY:
//   - StatFile reads size and modification time only (no content I/O)
//   - FingerprintFile adds the xxhash64 of the content, so an mtime-only
//     touch yields the same Key
//   - Callers hash again only when SameStat reports a change
//
// =============================================================================

package utils

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies one version of a file.
type Fingerprint struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Checksum string
}

// Key renders the fingerprint as a cache key.
func (f Fingerprint) Key() string {
	return fmt.Sprintf("%s@%d:%s", f.Path, f.Size, f.Checksum)
}

// SameStat reports whether other has the same path, size and mtime.
func (f Fingerprint) SameStat(other Fingerprint) bool {
	return f.Path == other.Path && f.Size == other.Size && f.ModTime.Equal(other.ModTime)
}

// StatFile returns the fingerprint of path without its checksum.
func StatFile(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	return Fingerprint{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// FingerprintFile stats and hashes the file at path.
//
// RETURNS:
//   - The fingerprint.
//   - An error if the file cannot be opened or read.
func FingerprintFile(path string) (Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return Fingerprint{}, fmt.Errorf("failed to hash file %s: %w", path, err)
	}

	return Fingerprint{
		Path:     path,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Checksum: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}
