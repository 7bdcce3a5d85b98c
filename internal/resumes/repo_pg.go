package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = "id, user_id, name, notes, pdf_url, tex_url, tags, created_at, updated_at"

// Create inserts a new resume row.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, name, notes, pdf_url, tex_url, tags, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	tags, err := marshalTags(resume.Tags)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		resume.ID,
		resume.UserID,
		resume.Name,
		nullString(resume.Notes),
		resume.PdfURL,
		nullString(resume.TexURL),
		tags,
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	return err
}

// ListByUser returns all of the user's resumes, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// GetByID fetches one resume by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1`

	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// Update persists metadata fields and the updated_at timestamp.
func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	const query = `
UPDATE resumes
SET name = $1, notes = $2, tags = $3, updated_at = $4
WHERE id = $5`

	tags, err := marshalTags(resume.Tags)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query, resume.Name, nullString(resume.Notes), tags, resume.UpdatedAt, resume.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var notes sql.NullString
	var texURL sql.NullString
	var tags []byte
	if err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Name,
		&notes,
		&resume.PdfURL,
		&texURL,
		&tags,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	if notes.Valid {
		resume.Notes = &notes.String
	}
	if texURL.Valid {
		resume.TexURL = &texURL.String
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &resume.Tags); err != nil {
			return Resume{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return resume, nil
}

func marshalTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	return data, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
