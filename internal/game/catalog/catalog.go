package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// moveYAML is the on-disk shape of one move entry.
type moveYAML struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Type     string       `yaml:"type"`
	Category string       `yaml:"category"`
	Power    int          `yaml:"power"`
	Accuracy int          `yaml:"accuracy"`
	PP       int          `yaml:"pp"`
	Priority int          `yaml:"priority"`
	Effects  []effectYAML `yaml:"effects"`
}

// Catalog holds every known MoveDef keyed by ID.
// It is populated once and read-only afterwards; all methods are safe for
// concurrent use.
type Catalog struct {
	logger *zap.Logger

	once    sync.Once
	loadErr error

	mu    sync.RWMutex
	moves map[string]*MoveDef
}

// New creates an empty Catalog. A nil logger is replaced with a no-op logger.
func New(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{logger: logger, moves: make(map[string]*MoveDef)}
}

// NewFromDefs builds an already-loaded Catalog from in-memory definitions.
// Subsequent Load calls are no-ops.
//
// Precondition: every def must be non-nil with a unique ID.
func NewFromDefs(defs ...*MoveDef) *Catalog {
	c := New(nil)
	for _, d := range defs {
		c.moves[d.ID] = d
	}
	c.once.Do(func() {})
	return c
}

// Load reads one YAML source per elemental type (<dir>/<type>.yaml). Missing
// sources are logged and skipped. Only the first call does any work; later
// calls return the first call's result.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns nil when every present source parsed and validated.
func (c *Catalog) Load(dir string) error {
	c.once.Do(func() {
		c.loadErr = c.load(dir)
	})
	return c.loadErr
}

func (c *Catalog) load(dir string) error {
	loaded := make(map[string]*MoveDef)
	for _, typ := range AllTypes {
		path := filepath.Join(dir, string(typ)+".yaml")
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("move source missing, skipping",
				zap.String("type", string(typ)),
				zap.String("path", path),
			)
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		defs, err := decodeMoves(data, typ)
		if err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
		for _, d := range defs {
			if _, dup := loaded[d.ID]; dup {
				return fmt.Errorf("loading %q: duplicate move id %q", path, d.ID)
			}
			loaded[d.ID] = d
		}
	}

	c.mu.Lock()
	c.moves = loaded
	c.mu.Unlock()
	c.logger.Info("move catalog loaded", zap.Int("moves", len(loaded)))
	return nil
}

// decodeMoves parses a type-partitioned move list. Entries that omit a type
// inherit the partition's type; entries that name a different type are rejected.
func decodeMoves(data []byte, partition Type) ([]*MoveDef, error) {
	var raw []moveYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing moves: %w", err)
	}

	out := make([]*MoveDef, 0, len(raw))
	for _, m := range raw {
		typ := partition
		if m.Type != "" && Type(m.Type) != partition {
			return nil, fmt.Errorf("move %q: type %q does not match source %q", m.ID, m.Type, partition)
		}
		def := &MoveDef{
			ID:       m.ID,
			Name:     m.Name,
			Type:     typ,
			Category: Category(m.Category),
			Power:    m.Power,
			Accuracy: m.Accuracy,
			PP:       m.PP,
			Priority: m.Priority,
		}
		for i, e := range m.Effects {
			eff, err := e.toEffect()
			if err != nil {
				return nil, fmt.Errorf("move %q effect %d: %w", m.ID, i, err)
			}
			def.Effects = append(def.Effects, eff)
		}
		if err := def.Validate(); err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

// Get returns the MoveDef for id, or (nil, false) if not found.
func (c *Catalog) Get(id string) (*MoveDef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.moves[id]
	return d, ok
}

// Len returns the number of loaded moves.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.moves)
}
