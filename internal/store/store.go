// Package store provides the chart archive interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/ziwei/internal/model"
)

// ErrNotFound is returned when no live record has the requested id.
var ErrNotFound = errors.New("chart not found")

// SaveParams holds parameters for archiving a reading.
type SaveParams struct {
	Input   model.BirthInput
	Reading *model.Reading
}

// ListParams holds parameters for listing archived charts.
type ListParams struct {
	Name   string // substring match on subject name
	Bureau string
	Limit  int
}

// RmParams holds parameters for deleting a chart.
type RmParams struct {
	ID   string
	Hard bool
}

// Store defines the chart archive interface.
type Store interface {
	// Save archives a reading. Returns the created record.
	Save(ctx context.Context, p SaveParams) (*model.Record, error)

	// Get retrieves a live record by id.
	Get(ctx context.Context, id string) (*model.Record, error)

	// List lists records matching the given filters, newest first.
	List(ctx context.Context, p ListParams) ([]model.Record, error)

	// SetInterpretation attaches an interpretation to a record and reindexes it.
	SetInterpretation(ctx context.Context, id string, in *model.Interpretation) error

	// Rm soft-deletes (or hard-deletes) a record.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}
