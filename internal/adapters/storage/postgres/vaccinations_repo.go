package postgres

import (
	"context"
	"database/sql"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/vaccinations"
)

type VaccinationsRepo struct {
	db *sql.DB
}

func NewVaccinationsRepo(db *sql.DB) *VaccinationsRepo {
	return &VaccinationsRepo{db: db}
}

// vaccinationColumns usa el alias v y resuelve el dueño del animal en el
// mismo join, sin segunda vuelta.
const vaccinationColumns = `
	v.id, v.animal_id, v.vaccine_name, v.date, v.batch,
	v.veterinarian, v.notes, v.recorded_by, a.owner_id,
	v.created_at, v.updated_at`

func (r *VaccinationsRepo) Create(ctx context.Context, v vaccinations.Vaccination) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaccinations (
			id, animal_id, vaccine_name, date, batch,
			veterinarian, notes, recorded_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		v.ID, v.AnimalID, v.VaccineName, v.Date, v.Batch,
		v.Veterinarian, v.Notes, v.RecordedBy, v.CreatedAt, v.UpdatedAt,
	)
	return err
}

func (r *VaccinationsRepo) GetByID(ctx context.Context, id string) (vaccinations.Vaccination, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+vaccinationColumns+`
		FROM vaccinations v
		INNER JOIN animals a ON a.id = v.animal_id
		WHERE v.id = $1
	`, id)

	v, err := scanVaccination(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return vaccinations.Vaccination{}, faults.NotFound("vaccination %s", id)
		}
		return vaccinations.Vaccination{}, err
	}
	return v, nil
}

func (r *VaccinationsRepo) ListByAnimal(ctx context.Context, animalID string) ([]vaccinations.Vaccination, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vaccinationColumns+`
		FROM vaccinations v
		INNER JOIN animals a ON a.id = v.animal_id
		WHERE v.animal_id = $1
		ORDER BY v.date DESC, v.created_at DESC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []vaccinations.Vaccination{}
	for rows.Next() {
		v, err := scanVaccination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VaccinationsRepo) Update(ctx context.Context, v vaccinations.Vaccination) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vaccinations
		SET vaccine_name = $2, date = $3, batch = $4,
		    veterinarian = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`,
		v.ID, v.VaccineName, v.Date, v.Batch,
		v.Veterinarian, v.Notes, v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("vaccination %s", v.ID)
	}
	return nil
}

func (r *VaccinationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccinations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("vaccination %s", id)
	}
	return nil
}

func scanVaccination(row rowScanner) (vaccinations.Vaccination, error) {
	var v vaccinations.Vaccination
	err := row.Scan(
		&v.ID, &v.AnimalID, &v.VaccineName, &v.Date, &v.Batch,
		&v.Veterinarian, &v.Notes, &v.RecordedBy, &v.AnimalOwnerID,
		&v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}
