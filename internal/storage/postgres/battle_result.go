package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/monbattle/internal/game/battle"
)

// ErrBattleResultNotFound is returned when a result lookup yields no rows.
var ErrBattleResultNotFound = errors.New("battle result not found")

// ErrBattleResultExists is returned when a battle's result is saved twice.
var ErrBattleResultExists = errors.New("battle result already recorded")

// BattleRecord is a persisted battle result.
type BattleRecord struct {
	battle.Result
	// CaptureRate and ShakeCount are set only when a ball was thrown.
	CaptureRate *int
	ShakeCount  *int
	RecordedAt  time.Time
}

// BattleResultRepository stores finished battle results.
type BattleResultRepository struct {
	db *pgxpool.Pool
}

// NewBattleResultRepository creates a BattleResultRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleResultRepository(db *pgxpool.Pool) *BattleResultRepository {
	return &BattleResultRepository{db: db}
}

// Save records a finished battle.
//
// Precondition: r.ID must be a UUID; r.Phase should be terminal.
// Postcondition: Returns the stored record, or ErrBattleResultExists if the ID
// was already recorded.
func (r *BattleResultRepository) Save(ctx context.Context, res battle.Result) (*BattleRecord, error) {
	var captureRate, shakeCount *int
	if res.Capture != nil {
		captureRate = &res.Capture.CaptureRate
		shakeCount = &res.Capture.ShakeCount
	}
	log := res.BattleLog
	if log == nil {
		log = []string{}
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO battle_results
			(id, battle_type, phase, winner,
			 player_species, player_level, opponent_species, opponent_level,
			 exp_gained, pokemon_caught, turns, capture_rate, shake_count, battle_log)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING `+battleResultColumns,
		res.ID, string(res.Type), string(res.Phase), string(res.Winner),
		res.Player.SpeciesID, res.Player.Level, res.Opponent.SpeciesID, res.Opponent.Level,
		res.ExpGained, res.PokemonCaught, res.Turns, captureRate, shakeCount, log,
	)
	rec, err := scanBattleRecord(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrBattleResultExists
		}
		return nil, fmt.Errorf("inserting battle result: %w", err)
	}
	return rec, nil
}

// Get returns the record for battle id.
//
// Postcondition: Returns ErrBattleResultNotFound if no such battle was recorded.
func (r *BattleResultRepository) Get(ctx context.Context, id string) (*BattleRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+battleResultColumns+` FROM battle_results WHERE id = $1`, id)
	rec, err := scanBattleRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBattleResultNotFound
		}
		return nil, fmt.Errorf("getting battle result: %w", err)
	}
	return rec, nil
}

// ListRecent returns up to limit records, newest first.
//
// Precondition: limit must be > 0.
func (r *BattleResultRepository) ListRecent(ctx context.Context, limit int) ([]*BattleRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+battleResultColumns+` FROM battle_results ORDER BY recorded_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing battle results: %w", err)
	}
	defer rows.Close()

	var out []*BattleRecord
	for rows.Next() {
		rec, err := scanBattleRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning battle result: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battle results: %w", err)
	}
	return out, nil
}

const battleResultColumns = `id::text, battle_type, phase, winner,
	player_species, player_level, opponent_species, opponent_level,
	exp_gained, pokemon_caught, turns, capture_rate, shake_count, battle_log, recorded_at`

func scanBattleRecord(row pgx.Row) (*BattleRecord, error) {
	var (
		rec                BattleRecord
		typ, phase, winner string
	)
	err := row.Scan(
		&rec.ID, &typ, &phase, &winner,
		&rec.Player.SpeciesID, &rec.Player.Level, &rec.Opponent.SpeciesID, &rec.Opponent.Level,
		&rec.ExpGained, &rec.PokemonCaught, &rec.Turns, &rec.CaptureRate, &rec.ShakeCount,
		&rec.BattleLog, &rec.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Type = battle.BattleType(typ)
	rec.Phase = battle.Phase(phase)
	rec.Winner = battle.Winner(winner)
	return &rec, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
