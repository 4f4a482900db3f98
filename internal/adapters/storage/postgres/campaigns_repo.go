package postgres

import (
	"context"
	"database/sql"

	"livestock-registry/internal/domain/campaigns"
	"livestock-registry/internal/domain/faults"
)

type CampaignsRepo struct {
	db *sql.DB
}

func NewCampaignsRepo(db *sql.DB) *CampaignsRepo {
	return &CampaignsRepo{db: db}
}

const campaignColumns = `
	id, name, date, products, notes, status,
	owner_id, group_id, created_at, updated_at`

// Create inserta la campaña y sus animales en la misma transacción.
func (r *CampaignsRepo) Create(ctx context.Context, c campaigns.Campaign) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO campaigns (`+campaignColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		c.ID, c.Name, c.Date, c.Products, c.Notes, c.Status,
		toNullString(c.OwnerID), toNullString(c.GroupID), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if err := insertCampaignAnimals(ctx, tx, c.ID, c.AnimalIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CampaignsRepo) GetByID(ctx context.Context, id string) (campaigns.Campaign, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE id = $1
	`, id)

	c, err := scanCampaign(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return campaigns.Campaign{}, faults.NotFound("campaign %s", id)
		}
		return campaigns.Campaign{}, err
	}
	if err := r.loadAnimalIDs(ctx, &c); err != nil {
		return campaigns.Campaign{}, err
	}
	return c, nil
}

func (r *CampaignsRepo) Update(ctx context.Context, c campaigns.Campaign) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE campaigns
		SET name = $2, date = $3, products = $4, notes = $5,
		    status = $6, updated_at = $7
		WHERE id = $1
	`,
		c.ID, c.Name, c.Date, c.Products, c.Notes, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("campaign %s", c.ID)
	}

	// Reemplazo completo del conjunto de animales.
	if _, err := tx.ExecContext(ctx, `DELETE FROM campaign_animals WHERE campaign_id = $1`, c.ID); err != nil {
		return err
	}
	if err := insertCampaignAnimals(ctx, tx, c.ID, c.AnimalIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CampaignsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("campaign %s", id)
	}
	return nil
}

func (r *CampaignsRepo) ListByOwner(ctx context.Context, ownerID string) ([]campaigns.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE owner_id = $1
		ORDER BY date DESC, created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *CampaignsRepo) ListByGroups(ctx context.Context, groupIDs []string) ([]campaigns.Campaign, error) {
	if len(groupIDs) == 0 {
		return []campaigns.Campaign{}, nil
	}
	ph, args := placeholders(groupIDs, 1)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE group_id IN (`+ph+`)
		ORDER BY date DESC, created_at DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *CampaignsRepo) collect(ctx context.Context, rows *sql.Rows) ([]campaigns.Campaign, error) {
	defer rows.Close()

	out := []campaigns.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadAnimalIDs(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *CampaignsRepo) loadAnimalIDs(ctx context.Context, c *campaigns.Campaign) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT animal_id FROM campaign_animals WHERE campaign_id = $1
	`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.AnimalIDs = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		c.AnimalIDs = append(c.AnimalIDs, id)
	}
	return rows.Err()
}

func insertCampaignAnimals(ctx context.Context, tx *sql.Tx, campaignID string, animalIDs []string) error {
	for _, animalID := range animalIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO campaign_animals (campaign_id, animal_id) VALUES ($1, $2)
		`, campaignID, animalID)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanCampaign(row rowScanner) (campaigns.Campaign, error) {
	var c campaigns.Campaign
	var owner, group sql.NullString
	err := row.Scan(
		&c.ID, &c.Name, &c.Date, &c.Products, &c.Notes, &c.Status,
		&owner, &group, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return campaigns.Campaign{}, err
	}
	c.OwnerID = owner.String
	c.GroupID = group.String
	return c, nil
}
