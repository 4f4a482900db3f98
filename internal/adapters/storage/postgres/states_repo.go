package postgres

import (
	"context"
	"database/sql"
	"time"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/states"
)

type StatesRepo struct {
	db *sql.DB
}

func NewStatesRepo(db *sql.DB) *StatesRepo {
	return &StatesRepo{db: db}
}

const stateColumns = `
	s.id, s.animal_id, s.type, s.name, s.start_date, s.end_date,
	s.notes, s.active, s.recorded_by, a.owner_id,
	s.created_at, s.updated_at`

func (r *StatesRepo) Create(ctx context.Context, st states.State) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animal_states (
			id, animal_id, type, name, start_date, end_date,
			notes, active, recorded_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		st.ID, st.AnimalID, st.Type, st.Name, st.StartDate, toNullTime(st.EndDate),
		st.Notes, st.Active, st.RecordedBy, st.CreatedAt, st.UpdatedAt,
	)
	return err
}

func (r *StatesRepo) GetByID(ctx context.Context, id string) (states.State, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+stateColumns+`
		FROM animal_states s
		INNER JOIN animals a ON a.id = s.animal_id
		WHERE s.id = $1
	`, id)

	st, err := scanState(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return states.State{}, faults.NotFound("state %s", id)
		}
		return states.State{}, err
	}
	return st, nil
}

func (r *StatesRepo) ListByAnimal(ctx context.Context, animalID string, activeOnly bool) ([]states.State, error) {
	query := `
		SELECT ` + stateColumns + `
		FROM animal_states s
		INNER JOIN animals a ON a.id = s.animal_id
		WHERE s.animal_id = $1`
	if activeOnly {
		query += ` AND s.active`
	}
	query += ` ORDER BY s.start_date DESC, s.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []states.State{}
	for rows.Next() {
		st, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *StatesRepo) Update(ctx context.Context, st states.State) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animal_states
		SET type = $2, name = $3, start_date = $4, end_date = $5,
		    notes = $6, active = $7, updated_at = $8
		WHERE id = $1
	`,
		st.ID, st.Type, st.Name, st.StartDate, toNullTime(st.EndDate),
		st.Notes, st.Active, st.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("state %s", st.ID)
	}
	return nil
}

func (r *StatesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animal_states WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("state %s", id)
	}
	return nil
}

// DeactivateActive apaga en un solo UPDATE el estado vigente de ese tipo.
// Con el alta del nuevo en la misma operación nunca quedan dos activos.
func (r *StatesRepo) DeactivateActive(ctx context.Context, animalID string, t states.StateType, endDate time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE animal_states
		SET active = FALSE, end_date = $3, updated_at = $3
		WHERE animal_id = $1 AND type = $2 AND active
	`, animalID, t, endDate)
	return err
}

func scanState(row rowScanner) (states.State, error) {
	var st states.State
	var end sql.NullTime
	err := row.Scan(
		&st.ID, &st.AnimalID, &st.Type, &st.Name, &st.StartDate, &end,
		&st.Notes, &st.Active, &st.RecordedBy, &st.AnimalOwnerID,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return states.State{}, err
	}
	if end.Valid {
		t := end.Time
		st.EndDate = &t
	}
	return st, nil
}
