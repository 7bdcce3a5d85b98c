package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const appColumns = "id, user_id, company, role, date_applied, status, notes, resume_id, follow_up_date, created_at, last_updated"

const followUpLimit = 5

// Create inserts a new application row.
func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, user_id, company, role, date_applied, status, notes, resume_id, follow_up_date, created_at, last_updated)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		app.ID,
		app.UserID,
		app.Company,
		app.Role,
		app.DateApplied,
		app.Status,
		nullString(app.Notes),
		nullString(app.ResumeID),
		nullDate(app.FollowUpDate),
		app.CreatedAt,
		app.LastUpdated,
	)
	return err
}

// ListByUser returns the user's applications matching the filter, ordered
// by date_applied descending.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, f Filter) ([]Application, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + appColumns + " FROM applications WHERE user_id = $1")
	args := []any{userID}

	if f.Status != nil {
		args = append(args, *f.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		fmt.Fprintf(&sb, " AND (company ILIKE $%d OR role ILIKE $%d)", len(args), len(args))
	}
	if f.ResumeID != "" {
		args = append(args, f.ResumeID)
		fmt.Fprintf(&sb, " AND resume_id = $%d", len(args))
	}
	sb.WriteString(" ORDER BY date_applied DESC")

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

// GetByID fetches one application by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	query := "SELECT " + appColumns + " FROM applications WHERE id = $1"

	app, err := scanApplication(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

// Update persists all mutable fields and the last_updated timestamp.
func (r *PGRepo) Update(ctx context.Context, app Application) error {
	const query = `
UPDATE applications
SET company = $1, role = $2, date_applied = $3, status = $4, notes = $5, resume_id = $6, follow_up_date = $7, last_updated = $8
WHERE id = $9`

	res, err := r.DB.ExecContext(
		ctx,
		query,
		app.Company,
		app.Role,
		app.DateApplied,
		app.Status,
		nullString(app.Notes),
		nullString(app.ResumeID),
		nullDate(app.FollowUpDate),
		app.LastUpdated,
		app.ID,
	)
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

// Delete removes the row. The linked resume, if any, is untouched.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
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

// Stats aggregates the user's applications in SQL.
func (r *PGRepo) Stats(ctx context.Context, userID string, today Date) (Stats, error) {
	stats := Stats{ByStatus: make(map[Status]int, len(Statuses()))}
	for _, s := range Statuses() {
		stats.ByStatus[s] = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
SELECT status, COUNT(*)
FROM applications
WHERE user_id = $1
GROUP BY status`, userID)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	followRows, err := r.DB.QueryContext(ctx, `
SELECT id, company, role, follow_up_date
FROM applications
WHERE user_id = $1
  AND follow_up_date IS NOT NULL
  AND follow_up_date >= $2
  AND status NOT IN ($3, $4)
ORDER BY follow_up_date ASC
LIMIT $5`, userID, today, StatusRejected, StatusArchived, followUpLimit)
	if err != nil {
		return Stats{}, err
	}
	defer followRows.Close()

	for followRows.Next() {
		var fu FollowUp
		if err := followRows.Scan(&fu.ID, &fu.Company, &fu.Role, &fu.FollowUpDate); err != nil {
			return Stats{}, err
		}
		stats.Upcoming = append(stats.Upcoming, fu)
	}
	return stats, followRows.Err()
}

// ClearResumeRefs nulls out resume_id on the owner's applications that
// reference a deleted resume.
func (r *PGRepo) ClearResumeRefs(ctx context.Context, userID, resumeID string) error {
	_, err := r.DB.ExecContext(ctx, `
UPDATE applications
SET resume_id = NULL
WHERE user_id = $1 AND resume_id = $2`, userID, resumeID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var notes sql.NullString
	var resumeID sql.NullString
	var followUp sql.NullTime
	if err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.Company,
		&app.Role,
		&app.DateApplied,
		&app.Status,
		&notes,
		&resumeID,
		&followUp,
		&app.CreatedAt,
		&app.LastUpdated,
	); err != nil {
		return Application{}, err
	}
	if notes.Valid {
		app.Notes = &notes.String
	}
	if resumeID.Valid {
		app.ResumeID = &resumeID.String
	}
	if followUp.Valid {
		d := Date{}
		if err := d.Scan(followUp.Time); err != nil {
			return Application{}, err
		}
		app.FollowUpDate = &d
	}
	return app, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDate(d *Date) sql.NullTime {
	if d == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
