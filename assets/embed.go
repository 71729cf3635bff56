package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed ambience/*.wav
var assetsFS embed.FS

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	b, err := assetsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("assets: read %q: %w", path, err)
	}
	return b, nil
}

// LoadAudio loads an embedded audio asset. Bare file names resolve inside
// the ambience directory.
func LoadAudio(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if !strings.Contains(clean, "/") {
		clean = "ambience/" + clean
	}
	return LoadFile(clean)
}

// AudioNames lists the embedded ambience clips by file name.
func AudioNames() []string {
	entries, err := fs.ReadDir(assetsFS, "ambience")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
