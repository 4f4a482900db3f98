package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/groups"
)

type GroupsRepo struct {
	db *sql.DB
}

func NewGroupsRepo(db *sql.DB) *GroupsRepo {
	return &GroupsRepo{db: db}
}

func (r *GroupsRepo) CreateWithOwner(ctx context.Context, g groups.Group, owner groups.Membership) error {
	// Una transacción: grupo y membresía Owner, o nada.
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO groups (id, name, owner_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, g.ID, g.Name, g.OwnerID, g.CreatedAt, g.UpdatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1,$2,$3)
	`, owner.GroupID, owner.UserID, owner.Role); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *GroupsRepo) GetByID(ctx context.Context, id string) (groups.Group, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM groups
		WHERE id = $1
	`, id)

	var g groups.Group
	if err := row.Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return groups.Group{}, faults.NotFound("group %s", id)
		}
		return groups.Group{}, err
	}

	members, err := r.membersOf(ctx, id)
	if err != nil {
		return groups.Group{}, err
	}
	g.Members = members
	return g, nil
}

func (r *GroupsRepo) Update(ctx context.Context, g groups.Group) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE groups
		SET name = $2, updated_at = $3
		WHERE id = $1
	`, g.ID, g.Name, g.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("group %s", g.ID)
	}
	return nil
}

func (r *GroupsRepo) Delete(ctx context.Context, id string) error {
	// Membresías y campañas de grupo caen por FK ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("group %s", id)
	}
	return nil
}

func (r *GroupsRepo) ListForUser(ctx context.Context, userID string) ([]groups.Group, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.owner_id, g.created_at, g.updated_at
		FROM groups g
		INNER JOIN group_members m ON m.group_id = g.id AND m.user_id = $1
		ORDER BY g.created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]groups.Group, 0)
	for rows.Next() {
		var g groups.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		members, err := r.membersOf(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Members = members
	}
	return out, nil
}

func (r *GroupsRepo) membersOf(ctx context.Context, groupID string) ([]groups.Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.group_id, m.user_id, m.role, u.name, u.email
		FROM group_members m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.user_id ASC
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]groups.Membership, 0)
	for rows.Next() {
		var m groups.Membership
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Role, &m.UserName, &m.UserEmail); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type MembershipsRepo struct {
	db *sql.DB
}

func NewMembershipsRepo(db *sql.DB) *MembershipsRepo {
	return &MembershipsRepo{db: db}
}

func (r *MembershipsRepo) Create(ctx context.Context, m groups.Membership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1,$2,$3)
	`, m.GroupID, m.UserID, m.Role)
	if isUniqueViolation(err) {
		// La PK compuesta decide la carrera invite/invite.
		return faults.Conflict("user is already a member of this group")
	}
	return err
}

func (r *MembershipsRepo) Get(ctx context.Context, groupID, userID string) (groups.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT group_id, user_id, role
		FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)

	var m groups.Membership
	if err := row.Scan(&m.GroupID, &m.UserID, &m.Role); err != nil {
		if err == sql.ErrNoRows {
			return groups.Membership{}, faults.NotFound("membership (%s, %s)", groupID, userID)
		}
		return groups.Membership{}, err
	}
	return m, nil
}

func (r *MembershipsRepo) Update(ctx context.Context, m groups.Membership) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE group_members
		SET role = $3
		WHERE group_id = $1 AND user_id = $2
	`, m.GroupID, m.UserID, m.Role)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("membership (%s, %s)", m.GroupID, m.UserID)
	}
	return nil
}

func (r *MembershipsRepo) Delete(ctx context.Context, groupID, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.NotFound("membership (%s, %s)", groupID, userID)
	}
	return nil
}

func (r *MembershipsRepo) ListByGroup(ctx context.Context, groupID string) ([]groups.Membership, error) {
	return (&GroupsRepo{db: r.db}).membersOf(ctx, groupID)
}

func (r *MembershipsRepo) ListByUser(ctx context.Context, userID string) ([]groups.Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT group_id, user_id, role
		FROM group_members
		WHERE user_id = $1
		ORDER BY group_id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]groups.Membership, 0)
	for rows.Next() {
		var m groups.Membership
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Role); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MembershipsRepo) ExistsSharedGroup(ctx context.Context, adminID, memberID string, roles []groups.Role) (bool, error) {
	// roles llega acotado al enum; se interpola como lista de literales.
	if len(roles) == 0 {
		return false, nil
	}
	args := []any{adminID, memberID}
	in := ""
	for i, role := range roles {
		if i > 0 {
			in += ","
		}
		in += "$" + strconv.Itoa(len(args)+1)
		args = append(args, string(role))
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1)
		FROM group_members admin_m
		INNER JOIN group_members member_m ON member_m.group_id = admin_m.group_id
		WHERE admin_m.user_id = $1
		  AND member_m.user_id = $2
		  AND admin_m.role IN (`+in+`)
	`, args...)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
