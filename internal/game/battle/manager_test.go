package battle_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/monbattle/internal/game/battle"
)

func TestManager_Lifecycle(t *testing.T) {
	m := battle.NewManager(fixtureConfig(t, &scriptSrc{intFallback: 50}))
	s, err := m.StartBattle(
		battle.Combatant{SpeciesID: "firemon", Level: 50},
		battle.Combatant{SpeciesID: "normalmon", Level: 50},
		battle.Context{Type: battle.BattleWild},
	)
	require.NoError(t, err)
	_, err = uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	require.NoError(t, m.SubmitBattleAction(s.ID(), battle.SidePlayer, "run", ""))
	res, err := m.BattleResult(s.ID())
	require.NoError(t, err)
	assert.Equal(t, battle.WinnerDraw, res.Winner)
	assert.Equal(t, s.ID(), res.ID)

	final, err := m.EndBattle(s.ID())
	require.NoError(t, err)
	assert.Equal(t, battle.PhaseFled, final.Phase)
	assert.Equal(t, 0, m.Count())
	_, ok = m.Get(s.ID())
	assert.False(t, ok)
}

func TestManager_PayloadRouting(t *testing.T) {
	m := battle.NewManager(fixtureConfig(t, &scriptSrc{intFallback: 50}))
	s, err := m.StartBattle(
		battle.Combatant{SpeciesID: "firemon", Level: 50},
		battle.Combatant{SpeciesID: "normalmon", Level: 50},
		battle.Context{Type: battle.BattleWild},
	)
	require.NoError(t, err)

	require.NoError(t, m.SubmitBattleAction(s.ID(), battle.SidePlayer, "item", "master_ball"))
	res, err := m.BattleResult(s.ID())
	require.NoError(t, err)
	assert.True(t, res.PokemonCaught)
}

func TestManager_Errors(t *testing.T) {
	m := battle.NewManager(fixtureConfig(t, &scriptSrc{}))

	_, err := m.StartBattle(
		battle.Combatant{SpeciesID: "nobody", Level: 5},
		battle.Combatant{SpeciesID: "firemon", Level: 5},
		battle.Context{Type: battle.BattleWild},
	)
	assert.ErrorIs(t, err, battle.ErrTemplateNotFound)
	assert.Equal(t, 0, m.Count())

	assert.ErrorIs(t, m.SubmitBattleAction("nope", battle.SidePlayer, "attack", "tackle"), battle.ErrBattleNotFound)
	_, err = m.BattleResult("nope")
	assert.ErrorIs(t, err, battle.ErrBattleNotFound)
	_, err = m.EndBattle("nope")
	assert.ErrorIs(t, err, battle.ErrBattleNotFound)

	s, err := m.StartBattle(
		battle.Combatant{SpeciesID: "firemon", Level: 5},
		battle.Combatant{SpeciesID: "normalmon", Level: 5},
		battle.Context{Type: battle.BattleTrainer},
	)
	require.NoError(t, err)
	assert.ErrorIs(t, m.SubmitBattleAction(s.ID(), battle.SidePlayer, "dance", ""), battle.ErrInvalidAction)
}
