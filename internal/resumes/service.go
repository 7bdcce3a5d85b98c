package resumes

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumitory-backend/internal/shared/metrics"
	"resumitory-backend/internal/shared/storage/blob"
	"resumitory-backend/internal/shared/telemetry"
)

// ApplicationUnlinker clears resume references from the owner's
// applications after a resume is deleted.
type ApplicationUnlinker interface {
	ClearResumeRefs(ctx context.Context, userID, resumeID string) error
}

// Service contains business logic for resumes.
type Service struct {
	Repo    Repo
	Blobs   blob.Store
	Apps    ApplicationUnlinker
	Metrics *metrics.Collector
}

// FileUpload is one incoming file to store.
type FileUpload struct {
	Name   string
	Reader io.Reader
}

// CreateInput carries the validated fields for a new resume. PDF is
// required; Tex is optional.
type CreateInput struct {
	Name  string
	Notes *string
	Tags  []string
	PDF   FileUpload
	Tex   *FileUpload
}

// UpdateInput carries a partial metadata update. Nil means "leave
// unchanged". Files are immutable after creation.
type UpdateInput struct {
	Name  *string
	Notes *string
	Tags  *[]string
}

// Create uploads the files and inserts the row. Uploads happen first; if
// the insert fails the uploaded blobs are orphaned, which is tolerated.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Resume, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Resume{}, ErrInvalidInput
	}

	pdfURL, err := s.upload(ctx, userID, in.PDF)
	if err != nil {
		return Resume{}, err
	}

	var texURL *string
	if in.Tex != nil {
		url, err := s.upload(ctx, userID, *in.Tex)
		if err != nil {
			return Resume{}, err
		}
		texURL = &url
	}

	now := time.Now().UTC()
	resume := Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Notes:     in.Notes,
		PdfURL:    pdfURL,
		TexURL:    texURL,
		Tags:      in.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Get returns one resume after checking ownership.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	return s.getOwned(ctx, userID, id)
}

// Update applies a partial metadata update and bumps updated_at.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Resume, error) {
	resume, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Resume{}, ErrInvalidInput
		}
		resume.Name = *in.Name
	}
	if in.Notes != nil {
		resume.Notes = in.Notes
	}
	if in.Tags != nil {
		resume.Tags = *in.Tags
	}
	resume.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Delete removes the resume's blobs best-effort, deletes the row, then
// clears references from the owner's applications. Blob and unlink
// failures are logged and counted but never fail the request.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	resume, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	s.deleteBlob(ctx, resume.PdfURL)
	if resume.TexURL != nil {
		s.deleteBlob(ctx, *resume.TexURL)
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.Apps != nil {
		if err := s.Apps.ClearResumeRefs(ctx, userID, id); err != nil {
			telemetry.Warn("resume.unlink_failed", map[string]any{
				"resume_id": id,
				"user_id":   userID,
				"err":       err.Error(),
			})
		}
	}
	return nil
}

// Clone duplicates a resume under a new ID with " (Copy)" appended to the
// name. The clone references the same file URLs; nothing is re-uploaded.
func (s *Service) Clone(ctx context.Context, userID, id string) (Resume, error) {
	original, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}

	now := time.Now().UTC()
	clone := Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      original.Name + " (Copy)",
		Notes:     original.Notes,
		PdfURL:    original.PdfURL,
		TexURL:    original.TexURL,
		Tags:      append([]string(nil), original.Tags...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if original.Tags == nil {
		clone.Tags = nil
	}

	if err := s.Repo.Create(ctx, clone); err != nil {
		return Resume{}, err
	}
	return clone, nil
}

func (s *Service) getOwned(ctx context.Context, userID, id string) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if resume.UserID != userID {
		return Resume{}, ErrForbidden
	}
	return resume, nil
}

func (s *Service) upload(ctx context.Context, userID string, f FileUpload) (string, error) {
	url, err := s.Blobs.Upload(ctx, userID, f.Name, f.Reader)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.RecordBlobUploadFailure()
		}
		return "", err
	}
	if s.Metrics != nil {
		s.Metrics.RecordBlobUpload()
	}
	return url, nil
}

func (s *Service) deleteBlob(ctx context.Context, url string) {
	if err := s.Blobs.Delete(ctx, url); err != nil {
		if s.Metrics != nil {
			s.Metrics.RecordBlobDeleteFailure()
		}
		telemetry.Warn("blob.delete_failed", map[string]any{
			"url": url,
			"err": err.Error(),
		})
	}
}
