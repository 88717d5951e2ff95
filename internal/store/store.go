package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS prediction_log (
	id               UUID PRIMARY KEY,
	request_id       TEXT             NOT NULL,
	symptoms         TEXT[]           NOT NULL,
	matched_symptoms TEXT[]           NOT NULL,
	disease          TEXT             NOT NULL,
	confidence       DOUBLE PRECISION NOT NULL,
	level            TEXT             NOT NULL,
	age              DOUBLE PRECISION NOT NULL,
	weight           DOUBLE PRECISION NOT NULL,
	created_at       TIMESTAMPTZ      NOT NULL
)`

// migrate adds columns introduced after the table was first created.
const migrate = `ALTER TABLE prediction_log ADD COLUMN IF NOT EXISTS request_id TEXT NOT NULL DEFAULT ''`

const insertPrediction = `
INSERT INTO prediction_log
	(id, request_id, symptoms, matched_symptoms, disease, confidence, level, age, weight, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// PredictionRecord is one served prediction. ID is generated by the server
// for every record; RequestID is whatever the request carried and may repeat.
type PredictionRecord struct {
	ID         uuid.UUID
	RequestID  string
	Symptoms   []string
	Matched    []string
	Disease    string
	Confidence float64
	Level      string
	Age        float64
	Weight     float64
	CreatedAt  time.Time
}

// Store writes the prediction audit log to Postgres. The trained model is
// never persisted.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool, verifies it with a ping and creates the table.
func Connect(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	for _, stmt := range []string{schema, migrate} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// RecordPrediction inserts rec.
func (s *Store) RecordPrediction(ctx context.Context, rec PredictionRecord) error {
	_, err := s.pool.Exec(ctx, insertPrediction,
		rec.ID, rec.RequestID, nonNil(rec.Symptoms), nonNil(rec.Matched), rec.Disease,
		rec.Confidence, rec.Level, rec.Age, rec.Weight, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", rec.ID, err)
	}
	return nil
}

// nonNil keeps NOT NULL array columns satisfied; pgx encodes a nil slice as NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
