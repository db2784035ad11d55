package repository

import (
	"context"
	"database/sql"
)

// KindRepo handles energy kinds.
type KindRepo struct {
	db *sql.DB
}

func NewKindRepo(db *sql.DB) *KindRepo {
	return &KindRepo{db: db}
}

func (r *KindRepo) Upsert(ctx context.Context, k EnergyKind) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO energy_kinds(id, label, unit, sort_order)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 label=excluded.label,
	 unit=excluded.unit,
	 sort_order=excluded.sort_order;
	`, k.ID, k.Label, k.Unit, k.SortOrder)
	return err
}

func (r *KindRepo) List(ctx context.Context) ([]EnergyKind, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, unit, sort_order FROM energy_kinds ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []EnergyKind
	for rows.Next() {
		var k EnergyKind
		if err := rows.Scan(&k.ID, &k.Label, &k.Unit, &k.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
