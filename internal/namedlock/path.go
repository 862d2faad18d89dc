package namedlock

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/namedlock/internal/constants"
)

// DefaultDir returns the lock directory used when none is configured.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), constants.LockDirName)
}

// PathFor returns the lock file used for name inside dir.
// The hash keeps distinct names on distinct files; the slug is for humans.
func PathFor(dir, name string) string {
	sum := sha256.Sum256([]byte(name))
	hash := hex.EncodeToString(sum[:])[:constants.LockHashLength]
	return filepath.Join(dir, slug(name)+"-"+hash+constants.LockFileExt)
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() >= constants.LockSlugMaxLength {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
