package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// EnergyFilters narrows List.
type EnergyFilters struct {
	Kind  int   // 0 = any kind
	Since int64 // unix seconds, 0 = no lower bound
	Limit int   // 0 = no limit
}

// EnergyRepo handles meter readings.
type EnergyRepo struct {
	db *sql.DB
}

func NewEnergyRepo(db *sql.DB) *EnergyRepo { return &EnergyRepo{db: db} }

// Upsert inserts e or replaces the reading with the same id.
func (r *EnergyRepo) Upsert(ctx context.Context, e Energy) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO energies(id, kind, amount, info, created, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 kind=excluded.kind,
	 amount=excluded.amount,
	 info=excluded.info,
	 created=excluded.created,
	 updated_at=CURRENT_TIMESTAMP;
	`, e.ID, e.Kind, e.Amount, e.Info, e.Created)
	return err
}

func (r *EnergyRepo) Get(ctx context.Context, id string) (Energy, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, kind, amount, info, created, updated_at FROM energies WHERE id = ?`, id)
	e, err := scanEnergy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Energy{}, ErrNotFound
	}
	return e, err
}

// List returns readings newest first.
func (r *EnergyRepo) List(ctx context.Context, f EnergyFilters) ([]Energy, error) {
	var where []string
	var args []interface{}

	if f.Kind != 0 {
		where = append(where, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.Since != 0 {
		where = append(where, "created >= ?")
		args = append(args, f.Since)
	}

	query := "SELECT id, kind, amount, info, created, updated_at FROM energies"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created DESC, id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Energy
	for rows.Next() {
		e, err := scanEnergy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EnergyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM energies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EnergyRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM energies`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *EnergyRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM energies`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEnergy(s scanner) (Energy, error) {
	var e Energy
	err := s.Scan(&e.ID, &e.Kind, &e.Amount, &e.Info, &e.Created, &e.UpdatedAt)
	return e, err
}
