package battle_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/monbattle/internal/game/battle"
	"github.com/cory-johannsen/monbattle/internal/game/catalog"
	"github.com/cory-johannsen/monbattle/internal/game/species"
)

// scriptSrc replays scripted draws in order, then returns the fallbacks.
type scriptSrc struct {
	mu            sync.Mutex
	ints          []int
	floats        []float64
	intFallback   int
	floatFallback float64
}

func (s *scriptSrc) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		return s.intFallback % n
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptSrc) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return s.floatFallback
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

var (
	tackle = &catalog.MoveDef{
		ID: "tackle", Name: "Tackle", Type: catalog.TypeNormal, Category: catalog.CategoryPhysical,
		Power: 40, Accuracy: 100, PP: 35,
	}
	quickAttack = &catalog.MoveDef{
		ID: "quick_attack", Name: "Quick Attack", Type: catalog.TypeNormal, Category: catalog.CategoryPhysical,
		Power: 40, Accuracy: 100, PP: 30, Priority: 1,
	}
	ember = &catalog.MoveDef{
		ID: "ember", Name: "Ember", Type: catalog.TypeFire, Category: catalog.CategorySpecial,
		Power: 40, Accuracy: 100, PP: 25,
		Effects: []catalog.Effect{catalog.InflictStatus{Target: catalog.TargetOpponent, Status: catalog.StatusBurn, Chance: 10}},
	}
	growl = &catalog.MoveDef{
		ID: "growl", Name: "Growl", Type: catalog.TypeNormal, Category: catalog.CategoryStatus,
		Accuracy: 100, PP: 40,
		Effects: []catalog.Effect{catalog.StatChange{
			Target: catalog.TargetOpponent, Stats: []catalog.Stat{catalog.StatAttack}, Stages: -1, Chance: 100,
		}},
	}
	swordsDance = &catalog.MoveDef{
		ID: "swords_dance", Name: "Swords Dance", Type: catalog.TypeNormal, Category: catalog.CategoryStatus,
		PP: 20,
		Effects: []catalog.Effect{catalog.StatChange{
			Target: catalog.TargetSelf, Stats: []catalog.Stat{catalog.StatAttack}, Stages: 2, Chance: 100,
		}},
	}
	thunderWave = &catalog.MoveDef{
		ID: "thunder_wave", Name: "Thunder Wave", Type: catalog.TypeElectric, Category: catalog.CategoryStatus,
		Accuracy: 90, PP: 20,
		Effects: []catalog.Effect{catalog.InflictStatus{Target: catalog.TargetOpponent, Status: catalog.StatusParalysis, Chance: 100}},
	}
	absorb = &catalog.MoveDef{
		ID: "absorb", Name: "Absorb", Type: catalog.TypeGrass, Category: catalog.CategorySpecial,
		Power: 20, Accuracy: 100, PP: 25,
		Effects: []catalog.Effect{catalog.Drain{Fraction: 0.5}},
	}
)

func evenStats() species.BaseStats {
	return species.BaseStats{HP: 50, Attack: 50, Defense: 50, SpAttack: 50, SpDefense: 50, Speed: 50}
}

// At level 50 every fixture species has 110 HP and 55 in every other stat
// except Firemon, whose speed is 65.
func fixtureSpecies(t *testing.T) *species.Registry {
	t.Helper()
	fireStats := evenStats()
	fireStats.Speed = 60
	reg, err := species.NewRegistry(
		&species.Template{
			ID: "normalmon", Name: "Normalmon", Types: []catalog.Type{catalog.TypeNormal},
			BaseStats: evenStats(), CaptureRate: 45, BaseExperience: 64,
			Learnset: []species.LearnsetEntry{
				{Level: 1, Move: "tackle"}, {Level: 1, Move: "growl"},
				{Level: 1, Move: "quick_attack"}, {Level: 1, Move: "swords_dance"},
			},
		},
		&species.Template{
			ID: "firemon", Name: "Firemon", Types: []catalog.Type{catalog.TypeFire},
			BaseStats: fireStats, CaptureRate: 45, BaseExperience: 62,
			Learnset: []species.LearnsetEntry{{Level: 1, Move: "ember"}, {Level: 1, Move: "tackle"}},
		},
		&species.Template{
			ID: "grassmon", Name: "Grassmon", Types: []catalog.Type{catalog.TypeGrass},
			BaseStats: evenStats(), CaptureRate: 45, BaseExperience: 64,
			Learnset: []species.LearnsetEntry{
				{Level: 1, Move: "absorb"}, {Level: 1, Move: "thunder_wave"}, {Level: 10, Move: "leaf_storm"},
			},
		},
	)
	require.NoError(t, err)
	return reg
}

func fixtureMoves() *catalog.Catalog {
	return catalog.NewFromDefs(tackle, quickAttack, ember, growl, swordsDance, thunderWave, absorb)
}

func fixtureConfig(t *testing.T, src *scriptSrc) battle.Config {
	t.Helper()
	return battle.Config{
		Species: fixtureSpecies(t),
		Moves:   fixtureMoves(),
		Source:  src,
	}
}

func newSession(t *testing.T, src *scriptSrc, player, opponent string, typ battle.BattleType) *battle.Session {
	t.Helper()
	s, err := battle.New(fixtureConfig(t, src), "battle-1",
		battle.Combatant{SpeciesID: player, Level: 50},
		battle.Combatant{SpeciesID: opponent, Level: 50},
		battle.Context{Type: typ, PlayerLevel: 50},
	)
	require.NoError(t, err)
	return s
}

// fighter builds a bare level-50 participant with 100 in every stat.
func fighter(name string, types ...catalog.Type) *battle.Participant {
	return &battle.Participant{
		Name:      name,
		Level:     50,
		Types:     types,
		CurrentHP: 200,
		MaxHP:     200,
		Stats:     battle.Stats{Attack: 100, Defense: 100, SpAttack: 100, SpDefense: 100, Speed: 100},
		Status:    catalog.StatusNormal,
	}
}

func countContaining(lines []string, substr string) int {
	n := 0
	for _, l := range lines {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}
