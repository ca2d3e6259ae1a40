// Package gameserver connects the battle engine to the surrounding session
// layer: it starts battles, relays submissions and records finished results.
package gameserver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/game/battle"
	"github.com/cory-johannsen/monbattle/internal/storage/postgres"
)

// ResultStore persists finished battles.
type ResultStore interface {
	Save(ctx context.Context, res battle.Result) (*postgres.BattleRecord, error)
}

// FinishFunc receives the final result of every battle that reaches a
// terminal phase. Reward application and creating the caught creature's
// record happen here.
type FinishFunc func(res battle.Result)

// BattleHandler relays battle commands to a battle.Manager and records
// results once a battle ends.
//
// Precondition: manager must be non-nil; store and onFinish may be nil.
type BattleHandler struct {
	manager  *battle.Manager
	store    ResultStore
	onFinish FinishFunc
	logger   *zap.Logger
}

// NewBattleHandler creates a BattleHandler.
//
// Postcondition: Returns a non-nil BattleHandler. A nil logger is replaced
// with a no-op logger.
func NewBattleHandler(manager *battle.Manager, store ResultStore, onFinish FinishFunc, logger *zap.Logger) *BattleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BattleHandler{manager: manager, store: store, onFinish: onFinish, logger: logger}
}

// StartWild begins a wild encounter.
//
// Postcondition: Returns the opening result projection, or an error wrapping
// battle.ErrTemplateNotFound if either species is unknown.
func (h *BattleHandler) StartWild(player, wild battle.Combatant, location string, playerLevel int) (battle.Result, error) {
	return h.start(player, wild, battle.Context{
		Type:        battle.BattleWild,
		Location:    location,
		PlayerLevel: playerLevel,
	})
}

// StartTrainer begins a battle against trainerName's creature.
func (h *BattleHandler) StartTrainer(player, opponent battle.Combatant, trainerName string, playerLevel int) (battle.Result, error) {
	return h.start(player, opponent, battle.Context{
		Type:        battle.BattleTrainer,
		TrainerName: trainerName,
		PlayerLevel: playerLevel,
	})
}

func (h *BattleHandler) start(player, opponent battle.Combatant, bctx battle.Context) (battle.Result, error) {
	s, err := h.manager.StartBattle(player, opponent, bctx)
	if err != nil {
		return battle.Result{}, fmt.Errorf("starting %s battle: %w", bctx.Type, err)
	}
	h.logger.Info("battle started",
		zap.String("battle_id", s.ID()),
		zap.String("type", string(bctx.Type)),
		zap.String("player", player.SpeciesID),
		zap.String("opponent", opponent.SpeciesID),
	)
	return s.Result(), nil
}

// Submit relays one action. When the action ends the battle, the result is
// stored, the battle is removed from the manager and onFinish is called.
//
// Postcondition: Returns the current result projection, or an error if the
// submission was rejected or the result could not be stored. A battle whose
// result failed to store stays registered so the caller can retry with Finish.
func (h *BattleHandler) Submit(ctx context.Context, battleID string, side battle.Side, actionType, payload string) (battle.Result, error) {
	if err := h.manager.SubmitBattleAction(battleID, side, actionType, payload); err != nil {
		h.logger.Debug("submission rejected",
			zap.String("battle_id", battleID),
			zap.String("action", actionType),
			zap.Error(err),
		)
		return battle.Result{}, err
	}
	res, err := h.manager.BattleResult(battleID)
	if err != nil {
		return battle.Result{}, err
	}
	if !res.Phase.Terminal() {
		return res, nil
	}
	return h.Finish(ctx, battleID)
}

// Finish stores a terminal battle's result and releases it.
//
// Precondition: the battle must be in a terminal phase.
// Postcondition: On success the battle is no longer tracked by the manager.
func (h *BattleHandler) Finish(ctx context.Context, battleID string) (battle.Result, error) {
	res, err := h.manager.BattleResult(battleID)
	if err != nil {
		return battle.Result{}, err
	}
	if !res.Phase.Terminal() {
		return res, fmt.Errorf("battle %s is still in phase %s", battleID, res.Phase)
	}
	if h.store != nil {
		if _, err := h.store.Save(ctx, res); err != nil {
			h.logger.Error("storing battle result", zap.String("battle_id", battleID), zap.Error(err))
			return res, fmt.Errorf("storing battle %s: %w", battleID, err)
		}
	}
	if _, err := h.manager.EndBattle(battleID); err != nil {
		return res, err
	}
	h.logger.Info("battle finished",
		zap.String("battle_id", battleID),
		zap.String("winner", string(res.Winner)),
		zap.Int("exp", res.ExpGained),
		zap.Bool("caught", res.PokemonCaught),
		zap.Int("turns", res.Turns),
	)
	if h.onFinish != nil {
		h.onFinish(res)
	}
	return res, nil
}

// Result returns the projection of an active battle.
func (h *BattleHandler) Result(battleID string) (battle.Result, error) {
	return h.manager.BattleResult(battleID)
}
