package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml
var PrefabsFS embed.FS

// DefaultDir is where edited prefabs are looked for when the host does not
// name a directory.
const DefaultDir = "prefabs"

// Load reads name from dir, falling back to the embedded copy so edited
// prefabs win without a rebuild. An empty dir reads only the embedded copy.
func Load(dir, name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if dir != "" {
		if data, err := os.ReadFile(diskPrefabPath(dir, clean)); err == nil {
			return data, nil
		}
	}
	return PrefabsFS.ReadFile(clean)
}

func ModTime(dir, name string) (time.Time, bool) {
	if dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(diskPrefabPath(dir, cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "prefabs/") {
		return strings.TrimPrefix(s, "prefabs/")
	}
	return filepath.Base(s)
}

func diskPrefabPath(dir, clean string) string {
	return filepath.Join(dir, filepath.FromSlash(clean))
}
