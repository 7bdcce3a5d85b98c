package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumitory-backend/internal/resumes"
)

// ResumeDirectory is the slice of the resumes repository this package needs
// for link validation and name enrichment.
type ResumeDirectory interface {
	GetByID(ctx context.Context, id string) (resumes.Resume, error)
}

// Service contains business logic for applications.
type Service struct {
	Repo    Repo
	Resumes ResumeDirectory
}

// CreateInput carries the fields for a full create. Status defaults to
// "applied" when empty.
type CreateInput struct {
	Company      string
	Role         string
	DateApplied  Date
	Status       Status
	Notes        *string
	ResumeID     *string
	FollowUpDate *Date
}

// UpdateInput carries a partial update. Nil means "leave unchanged"; an
// explicit empty ResumeID clears the link.
type UpdateInput struct {
	Company      *string
	Role         *string
	DateApplied  *Date
	Status       *Status
	Notes        *string
	ResumeID     *string
	FollowUpDate *Date
}

// Create inserts a new application after validating the resume link.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Application, error) {
	if strings.TrimSpace(in.Company) == "" || strings.TrimSpace(in.Role) == "" {
		return Application{}, ErrInvalidInput
	}
	if in.DateApplied.IsZero() {
		return Application{}, ErrInvalidInput
	}
	if in.Status == "" {
		in.Status = StatusApplied
	}
	if err := s.validateResumeLink(ctx, userID, in.ResumeID); err != nil {
		return Application{}, err
	}

	now := time.Now().UTC()
	app := Application{
		ID:           uuid.NewString(),
		UserID:       userID,
		Company:      in.Company,
		Role:         in.Role,
		DateApplied:  in.DateApplied,
		Status:       in.Status,
		Notes:        in.Notes,
		ResumeID:     in.ResumeID,
		FollowUpDate: in.FollowUpDate,
		CreatedAt:    now,
		LastUpdated:  now,
	}

	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// QuickAdd creates an application from the minimal fields, defaulting
// date_applied to today and status to "applied".
func (s *Service) QuickAdd(ctx context.Context, userID, company, role string, resumeID *string) (Application, error) {
	return s.Create(ctx, userID, CreateInput{
		Company:     company,
		Role:        role,
		DateApplied: Today(),
		Status:      StatusApplied,
		ResumeID:    resumeID,
	})
}

// List returns the user's applications matching the filter, each enriched
// with the linked resume's name.
func (s *Service) List(ctx context.Context, userID string, f Filter) ([]WithResumeName, error) {
	apps, err := s.Repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	out := make([]WithResumeName, 0, len(apps))
	for _, app := range apps {
		out = append(out, s.enrich(ctx, app))
	}
	return out, nil
}

// Get returns one application after checking ownership, enriched with the
// linked resume's name.
func (s *Service) Get(ctx context.Context, userID, id string) (WithResumeName, error) {
	app, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return WithResumeName{}, err
	}
	return s.enrich(ctx, app), nil
}

// Update applies a partial update and bumps last_updated. A changed
// resume link is re-validated for ownership.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Application, error) {
	app, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return Application{}, err
	}

	if in.Company != nil {
		if strings.TrimSpace(*in.Company) == "" {
			return Application{}, ErrInvalidInput
		}
		app.Company = *in.Company
	}
	if in.Role != nil {
		if strings.TrimSpace(*in.Role) == "" {
			return Application{}, ErrInvalidInput
		}
		app.Role = *in.Role
	}
	if in.DateApplied != nil {
		app.DateApplied = *in.DateApplied
	}
	if in.Status != nil {
		app.Status = *in.Status
	}
	if in.Notes != nil {
		app.Notes = in.Notes
	}
	if in.ResumeID != nil {
		if *in.ResumeID == "" {
			app.ResumeID = nil
		} else {
			if err := s.validateResumeLink(ctx, userID, in.ResumeID); err != nil {
				return Application{}, err
			}
			app.ResumeID = in.ResumeID
		}
	}
	if in.FollowUpDate != nil {
		app.FollowUpDate = in.FollowUpDate
	}
	app.LastUpdated = time.Now().UTC()

	if err := s.Repo.Update(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Delete removes the application row only; a linked resume is untouched.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// StatsSummary aggregates all of the user's applications.
func (s *Service) StatsSummary(ctx context.Context, userID string) (Stats, error) {
	return s.Repo.Stats(ctx, userID, Today())
}

func (s *Service) getOwned(ctx context.Context, userID, id string) (Application, error) {
	app, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if app.UserID != userID {
		return Application{}, ErrForbidden
	}
	return app, nil
}

func (s *Service) validateResumeLink(ctx context.Context, userID string, resumeID *string) error {
	if resumeID == nil || *resumeID == "" {
		return nil
	}
	resume, err := s.Resumes.GetByID(ctx, *resumeID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return ErrResumeNotFound
		}
		return err
	}
	if resume.UserID != userID {
		return ErrResumeNotFound
	}
	return nil
}

// enrich attaches the linked resume's name. A missing resume is tolerated
// and reported as a nil name.
func (s *Service) enrich(ctx context.Context, app Application) WithResumeName {
	out := WithResumeName{Application: app}
	if app.ResumeID == nil {
		return out
	}
	resume, err := s.Resumes.GetByID(ctx, *app.ResumeID)
	if err != nil {
		return out
	}
	out.ResumeName = &resume.Name
	return out
}
