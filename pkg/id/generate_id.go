package id

import (
	"crypto/rand"
	"encoding/hex"
	"path"
	"regexp"
	"strings"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectName returns "<id32>-<filename>" with the filename reduced to a
// single safe path segment. An empty filename yields just the id.
func ObjectName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.Trim(reUnsafeName.ReplaceAllString(base, "_"), "._")
	if base == "" {
		return NewID32()
	}
	if len(base) > 128 {
		base = base[len(base)-128:]
	}
	return NewID32() + "-" + base
}
