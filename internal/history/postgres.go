package history

import (
	"context"
	"database/sql"
	"fmt"

	"heart-risk/internal/config"

	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS prediction_history (
	id            UUID PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL,
	model_version TEXT NOT NULL,
	features      DOUBLE PRECISION[] NOT NULL,
	label         SMALLINT NOT NULL,
	probability   DOUBLE PRECISION
)`

// Open connects to Postgres and verifies the connection.
func Open(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// PostgresRepository stores records in the prediction_history table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create prediction_history: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Record(ctx context.Context, rec Record) error {
	var prob sql.NullFloat64
	if rec.Probability != nil {
		prob = sql.NullFloat64{Float64: *rec.Probability, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prediction_history (id, created_at, model_version, features, label, probability)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.CreatedAt, rec.ModelVersion, pq.Float64Array(rec.Features), rec.Label, prob,
	)
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", rec.ID, err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, model_version, features, label, probability
		 FROM prediction_history
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query prediction_history: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			rec      Record
			features pq.Float64Array
			prob     sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.ModelVersion, &features, &rec.Label, &prob); err != nil {
			return nil, fmt.Errorf("scan prediction_history: %w", err)
		}
		rec.Features = []float64(features)
		if prob.Valid {
			p := prob.Float64
			rec.Probability = &p
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prediction_history: %w", err)
	}
	return out, nil
}
