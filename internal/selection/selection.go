// Package selection validates the file a user picks or drops before it is
// sent for analysis.
//
// No extension or size policy is enforced here; the analysis service decides
// which formats it accepts.
package selection

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// SupportedFormats is what the UI advertises. It is informational only.
var SupportedFormats = []string{"CSV", "Excel", "JSON", "XML"}

var (
	// ErrNoFile is returned when nothing was picked.
	ErrNoFile = errors.New("no file selected")
	// ErrNotRegular is returned when a path names a directory or device.
	ErrNotRegular = errors.New("not a regular file")
)

// RawFile is what a picker or drop target hands over.
type RawFile struct {
	Name     string
	Size     int64
	MimeType string
	Content  []byte
}

// Selection is the user's current candidate file. Validate copies Content, so
// the caller's buffer may be reused; the copy is treated as read-only.
type Selection struct {
	Name     string
	ByteSize int64
	MimeType string
	Content  []byte
}

// Validate normalizes a raw pick into a Selection. The name is reduced to its
// base component, a missing size is taken from the content, and a missing
// MIME type is detected from the content.
func Validate(raw RawFile) (Selection, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Selection{}, ErrNoFile
	}
	if raw.Size < 0 {
		return Selection{}, fmt.Errorf("invalid size %d for %q", raw.Size, name)
	}

	size := raw.Size
	if size == 0 {
		size = int64(len(raw.Content))
	}

	mime := strings.TrimSpace(raw.MimeType)
	if mime == "" {
		mime = mimetype.Detect(raw.Content).String()
	}

	return Selection{
		Name:     filepath.Base(name),
		ByteSize: size,
		MimeType: mime,
		Content:  bytes.Clone(raw.Content),
	}, nil
}

// Load reads a file from disk, the terminal's equivalent of a file picker.
func Load(path string) (RawFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return RawFile{}, ErrNoFile
	}

	info, err := os.Stat(path)
	if err != nil {
		return RawFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return RawFile{}, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return RawFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	return RawFile{
		Name:    filepath.Base(path),
		Size:    info.Size(),
		Content: content,
	}, nil
}

// FormatSize renders the byte size with binary units.
func FormatSize(sel Selection) string {
	n := sel.ByteSize
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
