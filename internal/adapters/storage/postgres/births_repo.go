package postgres

import (
	"context"
	"database/sql"

	"livestock-registry/internal/domain/births"
	"livestock-registry/internal/domain/faults"
)

type BirthsRepo struct {
	db *sql.DB
}

func NewBirthsRepo(db *sql.DB) *BirthsRepo {
	return &BirthsRepo{db: db}
}

// birthColumns resuelve el dueño de la madre en el mismo join.
const birthColumns = `
	b.id, b.mother_id, b.calf_id, b.date, b.status, b.calf_sex,
	b.weight, b.notes, b.recorded_by, a.owner_id,
	b.created_at, b.updated_at`

func (r *BirthsRepo) Create(ctx context.Context, b births.Birth) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO births (
			id, mother_id, calf_id, date, status, calf_sex,
			weight, notes, recorded_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		b.ID, b.MotherID, toNullString(b.CalfID), b.Date, b.Status, b.CalfSex,
		b.Weight, b.Notes, b.RecordedBy, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *BirthsRepo) GetByID(ctx context.Context, id string) (births.Birth, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+birthColumns+`
		FROM births b
		INNER JOIN animals a ON a.id = b.mother_id
		WHERE b.id = $1
	`, id)

	b, err := scanBirth(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return births.Birth{}, faults.NotFound("birth %s", id)
		}
		return births.Birth{}, err
	}
	return b, nil
}

func (r *BirthsRepo) ListByMother(ctx context.Context, motherID string) ([]births.Birth, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+birthColumns+`
		FROM births b
		INNER JOIN animals a ON a.id = b.mother_id
		WHERE b.mother_id = $1
		ORDER BY b.date DESC, b.created_at DESC
	`, motherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []births.Birth{}
	for rows.Next() {
		b, err := scanBirth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BirthsRepo) Update(ctx context.Context, b births.Birth) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE births
		SET calf_id = $2, date = $3, status = $4, calf_sex = $5,
		    weight = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`,
		b.ID, toNullString(b.CalfID), b.Date, b.Status, b.CalfSex, b.Weight, b.Notes, b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("birth %s", b.ID)
	}
	return nil
}

func (r *BirthsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM births WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("birth %s", id)
	}
	return nil
}

func scanBirth(row rowScanner) (births.Birth, error) {
	var b births.Birth
	var calf sql.NullString
	err := row.Scan(
		&b.ID, &b.MotherID, &calf, &b.Date, &b.Status, &b.CalfSex,
		&b.Weight, &b.Notes, &b.RecordedBy, &b.MotherOwnerID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return births.Birth{}, err
	}
	b.CalfID = calf.String
	return b, nil
}
