package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jask/energylog/internal/database/repository"
	"github.com/jask/energylog/internal/energy"
)

// Bounds for Last.
const (
	DefaultLastCount = 10
	MaxLastCount     = 100
)

// EnergyService validates and stores meter readings.
type EnergyService struct {
	Energies *repository.EnergyRepo
	Kinds    *repository.KindRepo
	Logger   *slog.Logger
}

func (s *EnergyService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Save validates e, assigns an id when it has none and stores it, replacing a
// reading with the same id.
func (s *EnergyService) Save(ctx context.Context, e energy.Energy) (energy.Energy, error) {
	if err := e.Validate(); err != nil {
		return energy.Energy{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := s.Energies.Upsert(ctx, toRow(e)); err != nil {
		return energy.Energy{}, fmt.Errorf("save reading %s: %w", e.ID, err)
	}
	s.logger().Debug("reading saved", "id", e.ID, "kind", e.Kind.Label(), "amount", e.Amount)
	return e, nil
}

// Get returns one reading; repository.ErrNotFound when it does not exist.
func (s *EnergyService) Get(ctx context.Context, id string) (energy.Energy, error) {
	row, err := s.Energies.Get(ctx, id)
	if err != nil {
		return energy.Energy{}, fmt.Errorf("get reading %s: %w", id, err)
	}
	return fromRow(row), nil
}

// List returns every reading, newest first.
func (s *EnergyService) List(ctx context.Context) ([]energy.Energy, error) {
	return s.list(ctx, repository.EnergyFilters{})
}

// Last returns the n newest readings. n is clamped to [1, MaxLastCount];
// n <= 0 means DefaultLastCount.
func (s *EnergyService) Last(ctx context.Context, n int) ([]energy.Energy, error) {
	return s.list(ctx, repository.EnergyFilters{Limit: ClampLast(n)})
}

// ClampLast applies the Last bounds.
func ClampLast(n int) int {
	switch {
	case n <= 0:
		return DefaultLastCount
	case n > MaxLastCount:
		return MaxLastCount
	}
	return n
}

func (s *EnergyService) list(ctx context.Context, f repository.EnergyFilters) ([]energy.Energy, error) {
	rows, err := s.Energies.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	out := make([]energy.Energy, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	return out, nil
}

// Delete removes a reading.
func (s *EnergyService) Delete(ctx context.Context, id string) error {
	if err := s.Energies.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reading %s: %w", id, err)
	}
	return nil
}

// KindList returns the stored kinds, falling back to the built-in list when
// the table is empty.
func (s *EnergyService) KindList(ctx context.Context) ([]energy.KindInfo, error) {
	rows, err := s.Kinds.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list kinds: %w", err)
	}
	if len(rows) == 0 {
		return energy.KindInfos(), nil
	}
	out := make([]energy.KindInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, energy.KindInfo{Kind: energy.Kind(r.ID), Label: r.Label, Unit: r.Unit})
	}
	return out, nil
}

func toRow(e energy.Energy) repository.Energy {
	return repository.Energy{ID: e.ID, Kind: int(e.Kind), Amount: e.Amount, Info: e.Info, Created: e.Created}
}

func fromRow(r repository.Energy) energy.Energy {
	return energy.Energy{ID: r.ID, Kind: energy.Kind(r.Kind), Amount: r.Amount, Info: r.Info, Created: r.Created}
}
