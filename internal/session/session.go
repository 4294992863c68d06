// Package session records completed pipeline runs so callers can list
// past questions, re-read an answer, or wipe history.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for an ID.
var ErrNotFound = errors.New("session not found")

// Kind labels which pipeline produced a record.
type Kind string

const (
	KindQuery    Kind = "query"
	KindResearch Kind = "research"
)

// Record is one completed run: the request as the caller phrased it
// and the terminal payload the pipeline produced.
type Record struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Request   string        `json:"request"`
	Outcome   any           `json:"outcome,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration"`
}

// Store persists run records. List returns newest first.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) (int, error)
	Close() error
}
