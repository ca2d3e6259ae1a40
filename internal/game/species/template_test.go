package species_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/monbattle/internal/game/catalog"
	"github.com/cory-johannsen/monbattle/internal/game/species"
)

const pidgeyYAML = `
id: pidgey
name: Pidgey
types: [normal, flying]
base_stats: {hp: 40, attack: 45, defense: 40, special_attack: 35, special_defense: 35, speed: 56}
capture_rate: 255
base_experience: 50
weight: 1.8
gender_ratio: 0.5
learnset:
  - {level: 1, move: tackle}
  - {level: 5, move: gust}
  - {level: 9, move: quick_attack}
  - {level: 13, move: peck}
  - {level: 17, move: agility}
`

func validTemplate() *species.Template {
	return &species.Template{
		ID:             "rattata",
		Name:           "Rattata",
		Types:          []catalog.Type{catalog.TypeNormal},
		BaseStats:      species.BaseStats{HP: 30, Attack: 56, Defense: 35, SpAttack: 25, SpDefense: 35, Speed: 72},
		CaptureRate:    255,
		BaseExperience: 51,
	}
}

func TestLoadTemplateFromBytes_Valid(t *testing.T) {
	tmpl, err := species.LoadTemplateFromBytes([]byte(pidgeyYAML))
	require.NoError(t, err)
	assert.Equal(t, "Pidgey", tmpl.Name)
	assert.Equal(t, []catalog.Type{catalog.TypeNormal, catalog.TypeFlying}, tmpl.Types)
	assert.Equal(t, 56, tmpl.BaseStats.Speed)
	assert.Equal(t, 255, tmpl.CaptureRate)
	assert.Len(t, tmpl.Learnset, 5)
}

func TestLoadTemplateFromBytes_UnknownType(t *testing.T) {
	_, err := species.LoadTemplateFromBytes([]byte(`
id: x
name: X
types: [shadow]
base_stats: {hp: 1, attack: 1, defense: 1, special_attack: 1, special_defense: 1, speed: 1}
capture_rate: 3
`))
	assert.Error(t, err)
}

func TestTemplate_Validate(t *testing.T) {
	assert.NoError(t, validTemplate().Validate())

	cases := map[string]func(*species.Template){
		"empty id":          func(t *species.Template) { t.ID = "" },
		"no types":          func(t *species.Template) { t.Types = nil },
		"three types":       func(t *species.Template) { t.Types = []catalog.Type{"normal", "fire", "water"} },
		"zero speed":        func(t *species.Template) { t.BaseStats.Speed = 0 },
		"capture rate 0":    func(t *species.Template) { t.CaptureRate = 0 },
		"capture rate 256":  func(t *species.Template) { t.CaptureRate = 256 },
		"learnset no move":  func(t *species.Template) { t.Learnset = []species.LearnsetEntry{{Level: 1}} },
		"negative base exp": func(t *species.Template) { t.BaseExperience = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tmpl := validTemplate()
			mutate(tmpl)
			assert.Error(t, tmpl.Validate())
		})
	}
}

func TestTemplate_MovesAt(t *testing.T) {
	tmpl, err := species.LoadTemplateFromBytes([]byte(pidgeyYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"tackle"}, tmpl.MovesAt(1, 4))
	assert.Equal(t, []string{"tackle", "gust", "quick_attack"}, tmpl.MovesAt(10, 4))
	assert.Equal(t, []string{"gust", "quick_attack", "peck", "agility"}, tmpl.MovesAt(50, 4))
}

func TestPropertyTemplate_MovesAtBounded(t *testing.T) {
	tmpl, err := species.LoadTemplateFromBytes([]byte(pidgeyYAML))
	require.NoError(t, err)
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(1, 100).Draw(rt, "level")
		maxMoves := rapid.IntRange(0, 4).Draw(rt, "max")
		moves := tmpl.MovesAt(level, maxMoves)
		assert.LessOrEqual(rt, len(moves), maxMoves)
		seen := map[string]bool{}
		for _, m := range moves {
			assert.False(rt, seen[m], "duplicate move %q", m)
			seen[m] = true
		}
	})
}

func TestRegistry_DuplicateID(t *testing.T) {
	_, err := species.NewRegistry(validTemplate(), validTemplate())
	assert.Error(t, err)
}

func TestLoadDirectory_SkipsNonYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pidgey.yaml"), []byte(pidgeyYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# notes"), 0644))

	reg, err := species.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Get("pidgey")
	assert.True(t, ok)
	_, ok = reg.Get("mew")
	assert.False(t, ok)
}

func TestLoadDirectory_RealContent(t *testing.T) {
	reg, err := species.LoadDirectory("../../../content/species")
	require.NoError(t, err)
	for _, id := range []string{"bulbasaur", "charmander", "squirtle", "pidgey", "pikachu", "clefairy", "onix"} {
		_, ok := reg.Get(id)
		assert.True(t, ok, "species %q must be present", id)
	}
}

// Every learnset entry in shipped content must resolve in the shipped move catalog.
func TestRealContent_LearnsetsResolve(t *testing.T) {
	reg, err := species.LoadDirectory("../../../content/species")
	require.NoError(t, err)
	moves := catalog.New(nil)
	require.NoError(t, moves.Load("../../../content/moves"))

	entries, err := os.ReadDir("../../../content/species")
	require.NoError(t, err)
	for _, e := range entries {
		id := e.Name()[:len(e.Name())-len(".yaml")]
		tmpl, ok := reg.Get(id)
		require.True(t, ok, id)
		for _, l := range tmpl.Learnset {
			_, ok := moves.Get(l.Move)
			assert.True(t, ok, "%s learns unknown move %q", id, l.Move)
		}
	}
}
