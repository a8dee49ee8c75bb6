package profilerepo

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/glow-advisor/internal/domain/profile"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

//go:embed schema.sql
var schemaSQL string

// PostgresRepository persists profile state in Postgres. Entities are stored
// as JSONB payloads next to the columns used for lookup and ordering.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schemaSQL)
	return err
}

// CreateProfile inserts a profile row.
func (r *PostgresRepository) CreateProfile(ctx context.Context, p skincare.UserProfile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO skin_profiles (id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID, payload, p.CreatedAt, p.UpdatedAt)
	return err
}

// GetProfile fetches a profile by id.
func (r *PostgresRepository) GetProfile(ctx context.Context, id string) (skincare.UserProfile, bool, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM skin_profiles WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return skincare.UserProfile{}, false, nil
	}
	if err != nil {
		return skincare.UserProfile{}, false, err
	}
	var p skincare.UserProfile
	if err := json.Unmarshal(payload, &p); err != nil {
		return skincare.UserProfile{}, false, err
	}
	return p, true, nil
}

// UpdateProfile overwrites an existing profile.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, p skincare.UserProfile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE skin_profiles SET payload = $2, updated_at = $3 WHERE id = $1
	`, p.ID, payload, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errUnknownProfile
	}
	return nil
}

// AppendAnalysis inserts the result and trims the history to limit rows.
func (r *PostgresRepository) AppendAnalysis(ctx context.Context, profileID string, result skincare.SkinAnalysisResult, limit int) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO skin_analyses (id, profile_id, payload, analyzed_at)
			VALUES ($1, $2, $3, $4)
		`, result.ID, profileID, payload, result.Timestamp); err != nil {
			return err
		}
		if limit <= 0 {
			return nil
		}
		_, err := tx.Exec(ctx, `
			DELETE FROM skin_analyses
			WHERE profile_id = $1
			  AND seq NOT IN (
				SELECT seq FROM skin_analyses WHERE profile_id = $1 ORDER BY seq DESC LIMIT $2
			  )
		`, profileID, limit)
		return err
	})
}

// ListAnalyses returns the newest entries first.
func (r *PostgresRepository) ListAnalyses(ctx context.Context, profileID string, limit int) ([]skincare.SkinAnalysisResult, error) {
	if limit <= 0 {
		limit = profile.DefaultHistoryLimit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT payload FROM skin_analyses
		WHERE profile_id = $1
		ORDER BY seq DESC
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []skincare.SkinAnalysisResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var item skincare.SkinAnalysisResult
		if err := json.Unmarshal(payload, &item); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// GetAnalysis fetches one history entry.
func (r *PostgresRepository) GetAnalysis(ctx context.Context, profileID, analysisID string) (skincare.SkinAnalysisResult, bool, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `
		SELECT payload FROM skin_analyses WHERE profile_id = $1 AND id = $2
	`, profileID, analysisID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return skincare.SkinAnalysisResult{}, false, nil
	}
	if err != nil {
		return skincare.SkinAnalysisResult{}, false, err
	}
	var item skincare.SkinAnalysisResult
	if err := json.Unmarshal(payload, &item); err != nil {
		return skincare.SkinAnalysisResult{}, false, err
	}
	return item, true, nil
}

// SaveRoutine stores routine and deactivates the profile's other routines.
func (r *PostgresRepository) SaveRoutine(ctx context.Context, routine skincare.SavedRoutine) error {
	payload, err := json.Marshal(routine.Routine)
	if err != nil {
		return err
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE saved_routines SET is_active = FALSE WHERE profile_id = $1
		`, routine.ProfileID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO saved_routines (id, profile_id, name, payload, is_active, created_at)
			VALUES ($1, $2, $3, $4, TRUE, $5)
		`, routine.ID, routine.ProfileID, routine.Name, payload, routine.CreatedAt)
		return err
	})
}

// ListRoutines returns routines newest first.
func (r *PostgresRepository) ListRoutines(ctx context.Context, profileID string) ([]skincare.SavedRoutine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, name, payload, is_active, created_at
		FROM saved_routines
		WHERE profile_id = $1
		ORDER BY seq DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []skincare.SavedRoutine
	for rows.Next() {
		item, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ActivateRoutine marks routineID as the profile's only active routine.
func (r *PostgresRepository) ActivateRoutine(ctx context.Context, profileID, routineID string) (skincare.SavedRoutine, bool, error) {
	var (
		routine skincare.SavedRoutine
		found   bool
	)
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE saved_routines SET is_active = (id = $2)
			WHERE profile_id = $1 AND EXISTS (
				SELECT 1 FROM saved_routines WHERE profile_id = $1 AND id = $2
			)
		`, profileID, routineID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		routine, err = scanRoutine(tx.QueryRow(ctx, `
			SELECT id, profile_id, name, payload, is_active, created_at
			FROM saved_routines WHERE id = $1
		`, routineID))
		found = err == nil
		return err
	})
	return routine, found, err
}

func (r *PostgresRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoutine(row rowScanner) (skincare.SavedRoutine, error) {
	var (
		item    skincare.SavedRoutine
		payload []byte
		created time.Time
	)
	if err := row.Scan(&item.ID, &item.ProfileID, &item.Name, &payload, &item.IsActive, &created); err != nil {
		return skincare.SavedRoutine{}, err
	}
	if err := json.Unmarshal(payload, &item.Routine); err != nil {
		return skincare.SavedRoutine{}, err
	}
	item.CreatedAt = created.UTC()
	return item, nil
}

var _ profile.Repository = (*PostgresRepository)(nil)
