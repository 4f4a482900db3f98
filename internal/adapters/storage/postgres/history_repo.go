package postgres

import (
	"context"
	"database/sql"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/history"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

const entryColumns = `
	h.id, h.animal_id, h.type, h.title, h.description, h.date,
	h.recorded_by, a.owner_id, h.created_at, h.updated_at`

func (r *HistoryRepo) Create(ctx context.Context, e history.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animal_history (
			id, animal_id, type, title, description, date,
			recorded_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		e.ID, e.AnimalID, e.Type, e.Title, e.Description, e.Date,
		e.RecordedBy, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *HistoryRepo) GetByID(ctx context.Context, id string) (history.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM animal_history h
		INNER JOIN animals a ON a.id = h.animal_id
		WHERE h.id = $1
	`, id)

	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return history.Entry{}, faults.NotFound("history entry %s", id)
		}
		return history.Entry{}, err
	}
	return e, nil
}

func (r *HistoryRepo) ListByAnimal(ctx context.Context, animalID string) ([]history.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM animal_history h
		INNER JOIN animals a ON a.id = h.animal_id
		WHERE h.animal_id = $1
		ORDER BY h.date DESC, h.created_at DESC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []history.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *HistoryRepo) Update(ctx context.Context, e history.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animal_history
		SET type = $2, title = $3, description = $4, date = $5, updated_at = $6
		WHERE id = $1
	`,
		e.ID, e.Type, e.Title, e.Description, e.Date, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("history entry %s", e.ID)
	}
	return nil
}

func (r *HistoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animal_history WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("history entry %s", id)
	}
	return nil
}

func scanEntry(row rowScanner) (history.Entry, error) {
	var e history.Entry
	err := row.Scan(
		&e.ID, &e.AnimalID, &e.Type, &e.Title, &e.Description, &e.Date,
		&e.RecordedBy, &e.AnimalOwnerID, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}
