package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/faults"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, owner_id, ear_tag, kind, coat, sex, breed,
	birth_date, mother_id, father_id, description,
	created_at, updated_at`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		a.ID, a.OwnerID, a.EarTag, a.Kind, a.Coat, a.Sex, a.Breed,
		toNullTime(a.BirthDate), toNullString(a.MotherID), toNullString(a.FatherID),
		a.Description, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	if strings.TrimSpace(id) == "" {
		return animals.Animal{}, faults.NotFound("animal not found")
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id = $1
	`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, faults.NotFound("animal %s", id)
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET ear_tag = $2, kind = $3, coat = $4, breed = $5,
		    birth_date = $6, mother_id = $7, father_id = $8,
		    description = $9, updated_at = $10
		WHERE id = $1
	`,
		a.ID, a.EarTag, a.Kind, a.Coat, a.Breed,
		toNullTime(a.BirthDate), toNullString(a.MotherID), toNullString(a.FatherID),
		a.Description, a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("animal %s", a.ID)
	}
	return nil
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	// Eventos del animal caen por FK ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("animal %s", id)
	}
	return nil
}

func (r *AnimalsRepo) ListByOwners(ctx context.Context, ownerIDs []string, p animals.Page) ([]animals.Animal, int, error) {
	if len(ownerIDs) == 0 {
		return []animals.Animal{}, 0, nil
	}

	in, args := placeholders(ownerIDs, 1)

	var total int
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM animals WHERE owner_id IN (`+in+`)`, args...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := p.Limit
	if limit < 1 {
		limit = 10
	}
	args = append(args, limit, p.Offset())
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE owner_id IN (`+in+`)
		ORDER BY created_at ASC
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectAnimals(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *AnimalsRepo) FindByIDs(ctx context.Context, ids []string) ([]animals.Animal, error) {
	if len(ids) == 0 {
		return []animals.Animal{}, nil
	}

	in, args := placeholders(ids, 1)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id IN (`+in+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAnimals(rows)
}

func (r *AnimalsRepo) ListChildren(ctx context.Context, parentID string) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE mother_id = $1 OR father_id = $1
		ORDER BY created_at ASC
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAnimals(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var (
		a      animals.Animal
		bd     sql.NullTime
		mother sql.NullString
		father sql.NullString
	)
	if err := row.Scan(
		&a.ID, &a.OwnerID, &a.EarTag, &a.Kind, &a.Coat, &a.Sex, &a.Breed,
		&bd, &mother, &father, &a.Description,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return animals.Animal{}, err
	}
	if bd.Valid {
		t := bd.Time
		a.BirthDate = &t
	}
	a.MotherID = mother.String
	a.FatherID = father.String
	return a, nil
}

func collectAnimals(rows *sql.Rows) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// placeholders arma "$n,$n+1,..." para cláusulas IN.
func placeholders(vals []string, start int) (string, []any) {
	parts := make([]string, len(vals))
	args := make([]any, len(vals))
	for i, v := range vals {
		parts[i] = "$" + strconv.Itoa(start+i)
		args[i] = v
	}
	return strings.Join(parts, ","), args
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
