package config

import (
	"os"
	"path/filepath"
)

// Discovery locates configuration files on disk. Search paths are ordered
// from most general to most specific so that later files override earlier
// ones when layered by FileSource.
type Discovery struct {
	searchPaths []string
	filenames   []string
}

// NewDiscovery creates a discovery with the standard search order:
// /etc/shinka, XDG config, ~/.config/shinka, ~/.shinka, the home directory,
// the working directory, and finally $SHINKA_CONFIG_DIR.
func NewDiscovery() *Discovery {
	paths := []string{"/etc/shinka"}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "shinka"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "shinka"),
			filepath.Join(home, ".shinka"),
			home,
		)
	}
	paths = append(paths, ".")
	if dir := os.Getenv("SHINKA_CONFIG_DIR"); dir != "" {
		paths = append(paths, dir)
	}

	return &Discovery{
		searchPaths: paths,
		filenames: []string{
			"shinka.yaml",
			"shinka.yml",
			".shinka.yaml",
			".shinka.yml",
		},
	}
}

// AddSearchPath appends a directory with the highest precedence.
func (d *Discovery) AddSearchPath(path string) {
	d.searchPaths = append(d.searchPaths, path)
}

// Discover returns the absolute paths of all config files found in the
// search paths, in application order.
func (d *Discovery) Discover() []string {
	var found []string
	for _, dir := range d.searchPaths {
		for _, name := range d.filenames {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			found = append(found, path)
		}
	}
	return found
}
