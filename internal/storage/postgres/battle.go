package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
)

// ErrBattleNotFound is returned when a battle lookup yields no results.
var ErrBattleNotFound = errors.New("battle not found")

// ErrBattleExists is returned when saving a battle whose id is already stored.
var ErrBattleExists = errors.New("battle already recorded")

// BattleRecord is one finished battle as stored in the battles table.
type BattleRecord struct {
	ID        uuid.UUID
	StoryID   string
	SceneID   string
	Outcome   string
	Rounds    int
	Exp       int
	Gold      int
	Log       []combat.LogEntry
	Snapshot  combat.BattleSnapshot
	CreatedAt time.Time
}

// NewBattleRecord builds the record of a finished battle fought in sceneID of storyID.
//
// Precondition: b must be over; res must be b.Result().
// Postcondition: returns an error when b's id is not a UUID.
func NewBattleRecord(storyID, sceneID string, b *combat.Battle, res combat.BattleResult) (BattleRecord, error) {
	id, err := uuid.Parse(b.ID())
	if err != nil {
		return BattleRecord{}, fmt.Errorf("parsing battle id %q: %w", b.ID(), err)
	}
	return BattleRecord{
		ID:       id,
		StoryID:  storyID,
		SceneID:  sceneID,
		Outcome:  res.Outcome.String(),
		Rounds:   res.Rounds,
		Exp:      res.Exp,
		Gold:     res.Gold,
		Log:      b.Log(),
		Snapshot: b.Snapshot(),
	}, nil
}

// BattleRepository provides battle history persistence operations.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a BattleRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// Save inserts rec and returns it with CreatedAt set.
//
// Postcondition: Returns ErrBattleExists when rec.ID is already stored.
func (r *BattleRepository) Save(ctx context.Context, rec BattleRecord) (*BattleRecord, error) {
	logJSON, err := json.Marshal(rec.Log)
	if err != nil {
		return nil, fmt.Errorf("encoding battle log: %w", err)
	}
	snapJSON, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding battle snapshot: %w", err)
	}

	out := rec
	err = r.db.QueryRow(ctx, `
		INSERT INTO battles (id, story_id, scene_id, outcome, rounds, exp, gold, log, snapshot)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		rec.ID, rec.StoryID, rec.SceneID, rec.Outcome, rec.Rounds, rec.Exp, rec.Gold, logJSON, snapJSON,
	).Scan(&out.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrBattleExists
		}
		return nil, fmt.Errorf("inserting battle: %w", err)
	}
	return &out, nil
}

// RecordBattle saves the finished battle b, fought in sceneID of storyID.
func (r *BattleRepository) RecordBattle(ctx context.Context, storyID, sceneID string, b *combat.Battle, res combat.BattleResult) error {
	rec, err := NewBattleRecord(storyID, sceneID, b, res)
	if err != nil {
		return err
	}
	if _, err := r.Save(ctx, rec); err != nil {
		return err
	}
	return nil
}

// Get returns the battle with id.
//
// Postcondition: Returns ErrBattleNotFound when no battle has id.
func (r *BattleRepository) Get(ctx context.Context, id uuid.UUID) (*BattleRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, story_id, scene_id, outcome, rounds, exp, gold, log, snapshot, created_at
		FROM battles WHERE id = $1`, id)
	rec, err := scanBattle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBattleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting battle %s: %w", id, err)
	}
	return rec, nil
}

// ListByStory returns up to limit battles of storyID, newest first.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *BattleRepository) ListByStory(ctx context.Context, storyID string, limit int) ([]*BattleRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, story_id, scene_id, outcome, rounds, exp, gold, log, snapshot, created_at
		FROM battles WHERE story_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`, storyID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing battles: %w", err)
	}
	defer rows.Close()

	var out []*BattleRecord
	for rows.Next() {
		rec, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning battle: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battles: %w", err)
	}
	return out, nil
}

// OutcomeCounts returns how many battles of storyID ended with each outcome.
func (r *BattleRepository) OutcomeCounts(ctx context.Context, storyID string) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT outcome, COUNT(*) FROM battles WHERE story_id = $1 GROUP BY outcome`, storyID)
	if err != nil {
		return nil, fmt.Errorf("counting battles: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning battle count: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}

func scanBattle(row pgx.Row) (*BattleRecord, error) {
	var rec BattleRecord
	var logJSON, snapJSON []byte
	if err := row.Scan(
		&rec.ID, &rec.StoryID, &rec.SceneID, &rec.Outcome,
		&rec.Rounds, &rec.Exp, &rec.Gold, &logJSON, &snapJSON, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(logJSON, &rec.Log); err != nil {
		return nil, fmt.Errorf("decoding battle log: %w", err)
	}
	if err := json.Unmarshal(snapJSON, &rec.Snapshot); err != nil {
		return nil, fmt.Errorf("decoding battle snapshot: %w", err)
	}
	return &rec, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
