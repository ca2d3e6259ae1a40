// Package species provides creature species templates loaded from YAML.
package species

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/monbattle/internal/game/catalog"
)

// BaseStats holds the six species base stats.
type BaseStats struct {
	HP        int `yaml:"hp"`
	Attack    int `yaml:"attack"`
	Defense   int `yaml:"defense"`
	SpAttack  int `yaml:"special_attack"`
	SpDefense int `yaml:"special_defense"`
	Speed     int `yaml:"speed"`
}

// LearnsetEntry is a move learned on reaching Level.
type LearnsetEntry struct {
	Level int    `yaml:"level"`
	Move  string `yaml:"move"`
}

// Template defines a species loaded from YAML.
type Template struct {
	ID             string          `yaml:"id"`
	Name           string          `yaml:"name"`
	Types          []catalog.Type  `yaml:"types"`
	BaseStats      BaseStats       `yaml:"base_stats"`
	Learnset       []LearnsetEntry `yaml:"learnset"`
	CaptureRate    int             `yaml:"capture_rate"`
	BaseExperience int             `yaml:"base_experience"`
	// Weight is in kilograms.
	Weight float64 `yaml:"weight"`
	// GenderRatio is the female fraction in [0, 1]; -1 for genderless.
	GenderRatio float64 `yaml:"gender_ratio"`
	// EvolutionItems lists the items that evolve this species, e.g. "moon_stone".
	EvolutionItems []string `yaml:"evolution_items"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, there are one or two
// known types, every base stat is >= 1, 1 <= CaptureRate <= 255 and
// BaseExperience >= 0; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("species template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("species template %q: name must not be empty", t.ID)
	}
	if len(t.Types) < 1 || len(t.Types) > 2 {
		return fmt.Errorf("species template %q: must have one or two types", t.ID)
	}
	for _, typ := range t.Types {
		if _, err := catalog.ParseType(string(typ)); err != nil {
			return fmt.Errorf("species template %q: %w", t.ID, err)
		}
	}
	b := t.BaseStats
	if b.HP < 1 || b.Attack < 1 || b.Defense < 1 || b.SpAttack < 1 || b.SpDefense < 1 || b.Speed < 1 {
		return fmt.Errorf("species template %q: base stats must be >= 1", t.ID)
	}
	if t.CaptureRate < 1 || t.CaptureRate > 255 {
		return fmt.Errorf("species template %q: capture_rate must be 1-255", t.ID)
	}
	if t.BaseExperience < 0 {
		return fmt.Errorf("species template %q: base_experience must be >= 0", t.ID)
	}
	for _, e := range t.Learnset {
		if e.Level < 1 || e.Move == "" {
			return fmt.Errorf("species template %q: learnset entries need level >= 1 and a move", t.ID)
		}
	}
	return nil
}

// MovesAt returns the IDs of the most recent maxMoves moves learnable at level,
// ordered by learn level (ties keep file order).
//
// Postcondition: len(result) <= maxMoves; every entry has Level <= level.
func (t *Template) MovesAt(level, maxMoves int) []string {
	learned := make([]LearnsetEntry, 0, len(t.Learnset))
	for _, e := range t.Learnset {
		if e.Level <= level {
			learned = append(learned, e)
		}
	}
	sort.SliceStable(learned, func(i, j int) bool { return learned[i].Level < learned[j].Level })

	// Relearning the same move does not take an extra slot.
	var ids []string
	seen := make(map[string]bool)
	for i := len(learned) - 1; i >= 0 && len(ids) < maxMoves; i-- {
		if seen[learned[i].Move] {
			continue
		}
		seen[learned[i].Move] = true
		ids = append(ids, learned[i].Move)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// HasType reports whether the species carries typ.
func (t *Template) HasType(typ catalog.Type) bool {
	for _, x := range t.Types {
		if x == typ {
			return true
		}
	}
	return false
}

// LoadTemplateFromBytes parses a single species template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading species dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
