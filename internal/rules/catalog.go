package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Catalog serves the marketing rule table, preferring a user-authored file
// when one is configured and present.
type Catalog struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
	loaded time.Time
	table  *Table
}

// NewCatalog constructs a catalog. An empty path serves the embedded table.
func NewCatalog(path string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{path: strings.TrimSpace(path), logger: logger}
}

// Table returns the current rule table, reloading the override file when it
// changed on disk. A configured override path that does not exist falls back
// to the embedded table.
func (c *Catalog) Table() (*Table, error) {
	if c == nil {
		return Default()
	}
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table, nil
}

// Source describes where the table came from.
func (c *Catalog) Source() string {
	if c == nil || c.path == "" {
		return "embedded"
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.loaded.IsZero() {
		return "embedded"
	}
	return c.path
}

func (c *Catalog) ensureLoaded() error {
	if c.path == "" {
		return c.loadDefault()
	}

	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("marketing rules override not found; using embedded table",
				slog.String("path", c.path),
				slog.String("event_type", "rules_override_missing"),
			)
			return c.loadDefault()
		}
		return fmt.Errorf("stat marketing rules %s: %w", c.path, err)
	}

	c.mu.RLock()
	alreadyLoaded := !c.loaded.IsZero() && c.loaded.Equal(info.ModTime())
	c.mu.RUnlock()
	if alreadyLoaded {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read marketing rules %s: %w", c.path, err)
	}
	table, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}

	c.mu.Lock()
	c.table = table
	c.loaded = info.ModTime()
	c.mu.Unlock()
	c.logger.Info("loaded marketing rules",
		slog.String("path", c.path),
		slog.Int("brands", len(table.Brands)),
		slog.Int("rules", table.RuleCount()),
	)
	return nil
}

func (c *Catalog) loadDefault() error {
	c.mu.RLock()
	ready := c.table != nil && c.loaded.IsZero()
	c.mu.RUnlock()
	if ready {
		return nil
	}
	table, err := Default()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.table = table
	c.loaded = time.Time{}
	c.mu.Unlock()
	return nil
}
