package themecat

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	yaml "gopkg.in/yaml.v3"

	"github.com/park285/chessgif/internal/analysis"
)

//go:embed themes.yaml
var defaultFiles embed.FS

// SquareColors is one board theme: hex colors for the light and dark squares.
type SquareColors struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

type fileSchema struct {
	BoardThemes map[string]SquareColors `yaml:"board_themes"`
	Tiers       *analysis.Tiers         `yaml:"tiers"`
}

// Catalog holds the board themes and judgment tiers loaded from the embedded
// defaults and an optional override directory.
type Catalog struct {
	mu     sync.RWMutex
	boards map[string]SquareColors
	tiers  analysis.Tiers
}

// New loads the embedded defaults and then applies overrides from dir if set.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{boards: make(map[string]SquareColors)}

	raw, err := fs.ReadFile(defaultFiles, "themes.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded themes: %w", err)
	}
	if err := c.applyYAML(raw); err != nil {
		return nil, fmt.Errorf("embedded themes: %w", err)
	}

	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog built from the embedded themes only.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New("")
		if err != nil {
			// The embedded file ships with the binary; failing to parse it
			// is a build defect, not a runtime condition.
			panic(fmt.Sprintf("themecat: embedded catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read theme dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	seen := make(map[string]string) // theme key -> filename
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		var schema fileSchema
		if err := yaml.Unmarshal(b, &schema); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k := range schema.BoardThemes {
			key := normalizeKey(k)
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("duplicate override theme %q in %s and %s", key, prev, name)
			}
			seen[key] = name
		}
		if err := c.apply(schema); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) applyYAML(b []byte) error {
	var schema fileSchema
	if err := yaml.Unmarshal(b, &schema); err != nil {
		return err
	}
	return c.apply(schema)
}

func (c *Catalog) apply(schema fileSchema) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range schema.BoardThemes {
		if v.Light == "" || v.Dark == "" {
			return fmt.Errorf("theme %q: both light and dark colors are required", k)
		}
		c.boards[normalizeKey(k)] = v
	}
	if schema.Tiers != nil {
		if !schema.Tiers.Valid() {
			return fmt.Errorf("tiers must satisfy 0 < inaccuracy < mistake < blunder, got %+v", *schema.Tiers)
		}
		c.tiers = *schema.Tiers
	}
	return nil
}

// Board looks up a theme by name. Names are case-insensitive and accept
// either dashes or underscores.
func (c *Catalog) Board(name string) (SquareColors, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sc, ok := c.boards[normalizeKey(name)]
	return sc, ok
}

// BoardNames returns the known theme names, sorted.
func (c *Catalog) BoardNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.boards))
	for k := range c.boards {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Tiers returns the judgment tier table.
func (c *Catalog) Tiers() analysis.Tiers {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.tiers.Valid() {
		return analysis.DefaultTiers()
	}
	return c.tiers
}

func normalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}
