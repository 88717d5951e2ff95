package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestConnectRejectsBadURL(t *testing.T) {
	if _, err := Connect(context.Background(), "://not-a-url"); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestNonNil(t *testing.T) {
	if got := nonNil(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
	in := []string{"fever"}
	if got := nonNil(in); len(got) != 1 || got[0] != "fever" {
		t.Fatalf("expected input back, got %v", got)
	}
}

// Runs only when TEST_DATABASE_URL points at a disposable Postgres.
func TestRecordPredictionIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := Connect(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	rec := PredictionRecord{
		ID:         uuid.New(),
		RequestID:  "retry-1",
		Symptoms:   []string{"Fever ", "cough"},
		Matched:    []string{"fever", "cough"},
		Disease:    "Influenza",
		Confidence: 72.5,
		Level:      "high_confidence",
		Age:        25,
		Weight:     70,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.RecordPrediction(ctx, rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	rec.ID = uuid.New()
	if err := s.RecordPrediction(ctx, rec); err != nil {
		t.Fatalf("record with repeated request id: %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
