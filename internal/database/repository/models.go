package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// EnergyKind represents an energy_kinds row.
type EnergyKind struct {
	ID        int
	Label     string
	Unit      string
	SortOrder int
}

// Energy represents an energies row.
type Energy struct {
	ID        string
	Kind      int
	Amount    float64
	Info      string
	Created   int64
	UpdatedAt time.Time
}
