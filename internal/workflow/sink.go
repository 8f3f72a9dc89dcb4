package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSink writes downloads into Dir under the handle's base name.
type DirSink struct {
	Dir string
}

// Save implements Sink.
func (s DirSink) Save(name string, data []byte) (string, error) {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if base == "" || base == "." || base == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	path := filepath.Join(dir, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
