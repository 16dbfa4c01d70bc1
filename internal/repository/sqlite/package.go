package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/permitdesk/permitdesk/pkg/models"
)

const packageColumns = `id, project_name, address, permit_type, status, description, client_name, client_email, client_phone, estimated_value, created_by, assigned_to, created, updated, submitted_at`

func (r *SQLiteRepo) CreatePackage(ctx context.Context, p *models.PermitPackage) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("package is nil")
	}

	ts := now()
	p.Created = ts
	p.Updated = ts

	res, err := r.conn.Exec(ctx, `INSERT INTO permit_packages (project_name, address, permit_type, status, description, client_name, client_email, client_phone, estimated_value, created_by, assigned_to, created, updated, submitted_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProjectName, p.Address, p.PermitType, p.Status, p.Description, p.ClientName, p.ClientEmail, p.ClientPhone, p.EstimatedValue, p.CreatedBy, p.AssignedTo, p.Created, p.Updated, p.SubmittedAt)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func scanPackage(row interface{ Scan(dest ...any) error }) (*models.PermitPackage, error) {
	var p models.PermitPackage
	if err := row.Scan(&p.ID, &p.ProjectName, &p.Address, &p.PermitType, &p.Status, &p.Description, &p.ClientName, &p.ClientEmail, &p.ClientPhone, &p.EstimatedValue, &p.CreatedBy, &p.AssignedTo, &p.Created, &p.Updated, &p.SubmittedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepo) GetPackage(ctx context.Context, id int64) (*models.PermitPackage, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+packageColumns+` FROM permit_packages WHERE id = ?`, id)
	p, err := scanPackage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRepo) ListPackages(ctx context.Context) ([]models.PermitPackage, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+packageColumns+` FROM permit_packages ORDER BY created DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PermitPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdatePackage(ctx context.Context, p *models.PermitPackage) error {
	if p == nil {
		return fmt.Errorf("package is nil")
	}

	p.Updated = now()
	_, err := r.conn.Exec(ctx, `UPDATE permit_packages SET project_name = ?, address = ?, permit_type = ?, status = ?, description = ?, client_name = ?, client_email = ?, client_phone = ?, estimated_value = ?, created_by = ?, assigned_to = ?, updated = ?, submitted_at = ? WHERE id = ?`,
		p.ProjectName, p.Address, p.PermitType, p.Status, p.Description, p.ClientName, p.ClientEmail, p.ClientPhone, p.EstimatedValue, p.CreatedBy, p.AssignedTo, p.Updated, p.SubmittedAt, p.ID)
	return err
}

// DeletePackage removes the package and its documents. The documents are
// deleted explicitly so the cascade does not rely on the connection's
// foreign_keys pragma.
func (r *SQLiteRepo) DeletePackage(ctx context.Context, id int64) (bool, error) {
	if _, err := r.conn.Exec(ctx, `DELETE FROM package_documents WHERE package_id = ?`, id); err != nil {
		return false, err
	}

	res, err := r.conn.Exec(ctx, `DELETE FROM permit_packages WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
