package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/monbattle/internal/game/battle"
	"github.com/cory-johannsen/monbattle/internal/game/capture"
	"github.com/cory-johannsen/monbattle/internal/storage/postgres"
	"github.com/cory-johannsen/monbattle/internal/testutil"
)

func setupResultRepo(t *testing.T) *postgres.BattleResultRepository {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	return postgres.NewBattleResultRepository(pc.RawPool)
}

func makeResult() battle.Result {
	return battle.Result{
		ID:        uuid.NewString(),
		Type:      battle.BattleWild,
		Player:    battle.Combatant{SpeciesID: "charmander", Level: 12},
		Opponent:  battle.Combatant{SpeciesID: "pidgey", Level: 5},
		Phase:     battle.PhaseVictory,
		Winner:    battle.WinnerPlayer,
		ExpGained: 35,
		Turns:     3,
		BattleLog: []string{"A wild Pidgey appeared!", "Go! Charmander!", "Pidgey fainted!"},
	}
}

func TestBattleResultRepository_SaveAndGet(t *testing.T) {
	repo := setupResultRepo(t)
	ctx := context.Background()

	res := makeResult()
	saved, err := repo.Save(ctx, res)
	require.NoError(t, err)
	assert.Equal(t, res.ID, saved.ID)
	assert.WithinDuration(t, time.Now(), saved.RecordedAt, time.Minute)
	assert.Nil(t, saved.CaptureRate)

	got, err := repo.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, battle.BattleWild, got.Type)
	assert.Equal(t, battle.PhaseVictory, got.Phase)
	assert.Equal(t, battle.WinnerPlayer, got.Winner)
	assert.Equal(t, res.Player, got.Player)
	assert.Equal(t, res.Opponent, got.Opponent)
	assert.Equal(t, 35, got.ExpGained)
	assert.Equal(t, res.BattleLog, got.BattleLog)
}

func TestBattleResultRepository_SaveCapture(t *testing.T) {
	repo := setupResultRepo(t)
	ctx := context.Background()

	res := makeResult()
	res.PokemonCaught = true
	res.Capture = &capture.Result{Success: true, CaptureRate: 93, ShakeCount: 3}
	_, err := repo.Save(ctx, res)
	require.NoError(t, err)

	got, err := repo.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, got.PokemonCaught)
	require.NotNil(t, got.CaptureRate)
	assert.Equal(t, 93, *got.CaptureRate)
	require.NotNil(t, got.ShakeCount)
	assert.Equal(t, 3, *got.ShakeCount)
}

func TestBattleResultRepository_Duplicate(t *testing.T) {
	repo := setupResultRepo(t)
	ctx := context.Background()

	res := makeResult()
	_, err := repo.Save(ctx, res)
	require.NoError(t, err)
	_, err = repo.Save(ctx, res)
	assert.ErrorIs(t, err, postgres.ErrBattleResultExists)
}

func TestBattleResultRepository_NotFound(t *testing.T) {
	repo := setupResultRepo(t)
	_, err := repo.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, postgres.ErrBattleResultNotFound)
}

func TestBattleResultRepository_ListRecent(t *testing.T) {
	repo := setupResultRepo(t)
	ctx := context.Background()

	for range 3 {
		_, err := repo.Save(ctx, makeResult())
		require.NoError(t, err)
	}
	recs, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.False(t, recs[0].RecordedAt.Before(recs[1].RecordedAt))
}
