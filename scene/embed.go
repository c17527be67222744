package scene

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scenes/*.yaml
var ScenesFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load reads a scene file from dir on disk, falling back to the embedded
// scenes. An empty dir reads only embedded files.
func Load(dir, name string) ([]byte, error) {
	clean := cleanPath(name, "scenes")
	if dir != "" {
		if data, err := os.ReadFile(diskPath(dir, clean)); err == nil {
			return data, nil
		}
	}
	return ScenesFS.ReadFile(clean)
}

// LoadScript reads a tengo script the same way Load reads scenes.
func LoadScript(dir, name string) ([]byte, error) {
	clean := cleanPath(name, "scripts")
	if dir != "" {
		if data, err := os.ReadFile(diskPath(dir, clean)); err == nil {
			return data, nil
		}
	}
	return ScriptsFS.ReadFile(clean)
}

// ModTime returns the modification time of a scene file on disk.
func ModTime(dir, name string) (time.Time, bool) {
	if dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(diskPath(dir, cleanPath(name, "scenes")))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// cleanPath maps "x", "sub/x" and "scene/sub/x" onto "sub/x" inside the
// embedded tree, adding the .yaml extension to bare scene names.
func cleanPath(name, sub string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "scene/")
	s = strings.TrimPrefix(s, sub+"/")
	if sub == "scenes" && path.Ext(s) == "" {
		s += ".yaml"
	}
	return sub + "/" + s
}

func diskPath(dir, clean string) string {
	return filepath.Join(dir, filepath.FromSlash(clean))
}
