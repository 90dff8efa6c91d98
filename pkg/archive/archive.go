// Package archive provides persistence for repair run records.
//
// Every repair served by the API produces a Run record: what came in (as a
// content hash, never the source itself), what the verdict was, and how long
// it took. Records power the GET endpoint that lets clients re-fetch a
// repair's metadata, and give operators a trail of what the rule set did in
// production.
//
// Two backends are provided:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// # Usage
//
//	store := archive.NewMemoryStore()
//
//	run := archive.NewRun(inputHash, "valid", lineCount, duration, false)
//	if err := store.Put(ctx, run); err != nil {
//	    return err
//	}
//
//	got, err := store.Get(ctx, run.ID)
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for archive operations.
var (
	// ErrNotFound is returned when a run record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a run record exists but has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is how long run records are retained.
const DefaultTTL = 7 * 24 * time.Hour

// Run records one repair executed by the service.
type Run struct {
	ID        string        `json:"id" bson:"_id"`
	InputHash string        `json:"input_hash" bson:"input_hash"`
	Status    string        `json:"status" bson:"status"`
	Lines     int           `json:"lines" bson:"lines"`
	Duration  time.Duration `json:"duration_ns" bson:"duration_ns"`
	Cached    bool          `json:"cached" bson:"cached"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time     `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the record has exceeded its TTL.
func (r *Run) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// NewRun creates a run record with a fresh ID and the default TTL.
func NewRun(inputHash, status string, lines int, duration time.Duration, cached bool) *Run {
	now := time.Now().UTC()
	return &Run{
		ID:        uuid.NewString(),
		InputHash: inputHash,
		Status:    status,
		Lines:     lines,
		Duration:  duration,
		Cached:    cached,
		CreatedAt: now,
		ExpiresAt: now.Add(DefaultTTL),
	}
}

// Store is the interface for run record storage backends.
type Store interface {
	// Get retrieves a run by ID.
	// Returns ErrNotFound if the run doesn't exist.
	// Returns ErrExpired if the run exists but has expired.
	Get(ctx context.Context, id string) (*Run, error)

	// Put stores a run, replacing any existing record with the same ID.
	Put(ctx context.Context, run *Run) error

	// Delete removes a run. Deleting an absent run is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired runs.
	Cleanup(ctx context.Context) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
