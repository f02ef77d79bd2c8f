// Package upload stores admin-submitted images and hands back the relative
// path the content document references them by. Uploads are independent of
// content writes: a stored file the editor never saves a reference to simply
// stays around, nothing garbage-collects it.
package upload

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Storage writes one uploaded file and returns its relative path under the
// image root, e.g. "images/logo-1735689600000-a1b2c3d4.png".
type Storage interface {
	Save(ctx context.Context, filename string, body io.Reader, size int64, contentType string) (string, error)
}

// UniqueName derives a collision-free object name from the client's
// filename by appending a millisecond timestamp and a random suffix.
func UniqueName(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = sanitizeBase(base)
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixMilli(), randomSuffix(), strings.ToLower(ext))
}

func sanitizeBase(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func randomSuffix() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
