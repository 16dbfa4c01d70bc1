package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/permitdesk/permitdesk/pkg/models"
)

const documentColumns = `id, package_id, document_name, is_required, is_completed, file_name, file_size, file_path, mime_type, uploaded_at, notes`

func (r *SQLiteRepo) CreateDocument(ctx context.Context, d *models.PackageDocument) (int64, error) {
	if d == nil {
		return 0, fmt.Errorf("document is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO package_documents (package_id, document_name, is_required, is_completed, file_name, file_size, file_path, mime_type, uploaded_at, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.PackageID, d.DocumentName, d.IsRequired, d.IsCompleted, d.FileName, d.FileSize, d.FilePath, d.MimeType, d.UploadedAt, d.Notes)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func scanDocument(row interface{ Scan(dest ...any) error }) (*models.PackageDocument, error) {
	var d models.PackageDocument
	if err := row.Scan(&d.ID, &d.PackageID, &d.DocumentName, &d.IsRequired, &d.IsCompleted, &d.FileName, &d.FileSize, &d.FilePath, &d.MimeType, &d.UploadedAt, &d.Notes); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *SQLiteRepo) GetDocument(ctx context.Context, id int64) (*models.PackageDocument, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+documentColumns+` FROM package_documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func (r *SQLiteRepo) ListByPackage(ctx context.Context, packageID int64) ([]models.PackageDocument, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+documentColumns+` FROM package_documents WHERE package_id = ? ORDER BY id`, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PackageDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateDocument(ctx context.Context, d *models.PackageDocument) error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE package_documents SET document_name = ?, is_required = ?, is_completed = ?, file_name = ?, file_size = ?, file_path = ?, mime_type = ?, uploaded_at = ?, notes = ? WHERE id = ?`,
		d.DocumentName, d.IsRequired, d.IsCompleted, d.FileName, d.FileSize, d.FilePath, d.MimeType, d.UploadedAt, d.Notes, d.ID)
	return err
}

func (r *SQLiteRepo) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM package_documents WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
