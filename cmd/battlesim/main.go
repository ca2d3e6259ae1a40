// Package main provides battlesim, a command-line driver that plays one
// battle between two species with a simple automated player and prints the
// battle log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/config"
	"github.com/cory-johannsen/monbattle/internal/game/battle"
	"github.com/cory-johannsen/monbattle/internal/game/catalog"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/species"
	"github.com/cory-johannsen/monbattle/internal/gameserver"
	"github.com/cory-johannsen/monbattle/internal/observability"
	"github.com/cory-johannsen/monbattle/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerID := flag.String("player", "charmander", "player species ID")
	playerLevel := flag.Int("player-level", 10, "player creature level")
	opponentID := flag.String("opponent", "pidgey", "opponent species ID")
	opponentLevel := flag.Int("opponent-level", 8, "opponent creature level")
	battleType := flag.String("type", "wild", "battle type: wild or trainer")
	trainer := flag.String("trainer", "Youngster Joey", "trainer name for trainer battles")
	location := flag.String("location", "route 1", "encounter location, used by location-sensitive balls")
	ball := flag.String("ball", "", "ball item ID to throw once the wild creature is below a third of its HP; empty = never")
	maxTurns := flag.Int("max-turns", 100, "give up after this many turns")
	record := flag.Bool("record", false, "store the result in PostgreSQL")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "battlesim")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = observability.Sync(logger) }()

	src := dice.NewCryptoSource()
	if cfg.Battle.Seed != 0 {
		src = dice.NewSeededSource(cfg.Battle.Seed)
	}
	if cfg.Battle.LogDraws {
		src = dice.NewLoggedSource(src, logger)
	}

	moves := catalog.New(logger)
	if err := moves.Load(cfg.Content.MovesDir); err != nil {
		logger.Fatal("loading move catalog", zap.Error(err))
	}
	registry, err := species.LoadDirectory(cfg.Content.SpeciesDir)
	if err != nil {
		logger.Fatal("loading species", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("moves", moves.Len()),
		zap.Int("species", registry.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	var store gameserver.ResultStore
	if *record {
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		store = postgres.NewBattleResultRepository(pool.DB())
	}

	mgr := battle.NewManager(battle.Config{
		Species:     registry,
		Moves:       moves,
		Source:      src,
		Logger:      logger,
		LogCapacity: cfg.Battle.LogCapacity,
	})
	handler := gameserver.NewBattleHandler(mgr, store, nil, logger)

	player := battle.Combatant{SpeciesID: *playerID, Level: *playerLevel}
	opponent := battle.Combatant{SpeciesID: *opponentID, Level: *opponentLevel}
	var res battle.Result
	switch battle.BattleType(*battleType) {
	case battle.BattleWild:
		res, err = handler.StartWild(player, opponent, *location, *playerLevel)
	case battle.BattleTrainer:
		res, err = handler.StartTrainer(player, opponent, *trainer, *playerLevel)
	default:
		log.Fatalf("invalid battle type %q: must be 'wild' or 'trainer'", *battleType)
	}
	if err != nil {
		logger.Fatal("starting battle", zap.Error(err))
	}

	sim := &simulator{handler: handler, manager: mgr, src: src, ball: *ball}
	res, err = sim.run(ctx, res, *maxTurns)
	if err != nil {
		logger.Fatal("simulating battle", zap.Error(err))
	}

	for _, line := range res.BattleLog {
		fmt.Fprintln(os.Stdout, line)
	}
	fmt.Fprintf(os.Stdout, "\nresult: phase=%s winner=%s exp=%d caught=%v turns=%d [%s]\n",
		res.Phase, res.Winner, res.ExpGained, res.PokemonCaught, res.Turns, time.Since(start))
}

// simulator plays both sides of a battle: the player attacks with a random
// usable move and throws a ball at a weakened wild creature; a trainer's
// creature attacks with a random usable move.
type simulator struct {
	handler *gameserver.BattleHandler
	manager *battle.Manager
	src     dice.Source
	ball    string
}

func (s *simulator) run(ctx context.Context, res battle.Result, maxTurns int) (battle.Result, error) {
	id := res.ID
	for res.Turns <= maxTurns {
		sess, ok := s.manager.Get(id)
		if !ok {
			return res, nil
		}
		if sess.Phase().Terminal() {
			return s.handler.Finish(ctx, id)
		}

		typ, payload := s.playerChoice(sess)
		var err error
		res, err = s.handler.Submit(ctx, id, battle.SidePlayer, typ, payload)
		if err != nil {
			return res, err
		}
		if res.Phase.Terminal() || sess.Type() == battle.BattleWild {
			continue
		}
		res, err = s.handler.Submit(ctx, id, battle.SideOpponent, "attack", s.randomMove(sess.Snapshot(battle.SideOpponent)))
		if err != nil {
			return res, err
		}
	}
	return res, fmt.Errorf("battle %s still running after %d turns", id, maxTurns)
}

func (s *simulator) playerChoice(sess *battle.Session) (string, string) {
	opp := sess.Snapshot(battle.SideOpponent)
	if s.ball != "" && sess.Type() == battle.BattleWild && opp.CurrentHP*3 <= opp.MaxHP {
		return "item", s.ball
	}
	return "attack", s.randomMove(sess.Snapshot(battle.SidePlayer))
}

func (s *simulator) randomMove(p battle.Participant) string {
	usable := p.UsableMoves()
	if len(usable) == 0 {
		return catalog.Struggle.ID
	}
	return usable[s.src.Intn(len(usable))].Move.ID
}
