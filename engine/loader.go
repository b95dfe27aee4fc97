package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// GraphLoader loads graph definitions by name.
type GraphLoader interface {
	Load(name string) (*Graph, error)
}

// FileGraphLoader loads graph definitions from YAML files on disk.
type FileGraphLoader struct {
	dirs []string
}

// NewFileGraphLoader creates a loader that searches the given directories
// for graph YAML files.
func NewFileGraphLoader(dirs ...string) *FileGraphLoader {
	return &FileGraphLoader{dirs: dirs}
}

// Load searches for {name}.yaml or {name}.yml across the configured
// directories.
func (l *FileGraphLoader) Load(name string) (*Graph, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if g, err := loadGraphFile(path); err == nil {
				return g, nil
			}
		}
	}
	return nil, fmt.Errorf("engine: graph %q not found in %v", name, l.dirs)
}

// LoadAll reads every YAML graph definition in the configured directories,
// keyed by file base name.
func (l *FileGraphLoader) LoadAll() (map[string]*Graph, error) {
	graphs := make(map[string]*Graph)
	for _, dir := range l.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("engine: reading graph dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := filepath.Ext(entry.Name())
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ext)
			if _, exists := graphs[name]; exists {
				continue // first directory wins
			}
			g, err := loadGraphFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, err
			}
			graphs[name] = g
		}
	}
	return graphs, nil
}

func loadGraphFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("engine: parsing %s: %w", path, err)
	}
	return &g, nil
}
