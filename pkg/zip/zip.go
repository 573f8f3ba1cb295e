package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// Entry is one file inside an export archive.
type Entry struct {
	Name     string
	Modified time.Time
	Data     []byte
}

// Archive packs entries into an in-memory zip. Duplicate names get a numeric
// suffix so no entry shadows another.
func Archive(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		name := uniqueName(e.Name, seen)
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: e.Modified}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}

// uniqueName returns name, or name with the lowest free "-N" suffix, and
// marks the returned name as taken. seen keeps the next suffix to try per base
// name.
func uniqueName(name string, seen map[string]int) string {
	if name == "" {
		name = "file"
	}
	n, taken := seen[name]
	if !taken {
		seen[name] = 2
		return name
	}
	base, ext := splitExt(name)
	for ; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
		if _, used := seen[candidate]; !used {
			seen[name] = n + 1
			seen[candidate] = 2
			return candidate
		}
	}
}

func splitExt(name string) (string, string) {
	for i := len(name) - 1; i > 0; i-- {
		switch name[i] {
		case '.':
			return name[:i], name[i:]
		case '/':
			return name, ""
		}
	}
	return name, ""
}
