package resumes

import "context"

// Repo defines persistence operations for resumes. GetByID is not scoped to
// a user so the service layer can tell "no such row" (404) apart from
// "wrong owner" (403).
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	GetByID(ctx context.Context, id string) (Resume, error)
	Update(ctx context.Context, resume Resume) error
	Delete(ctx context.Context, id string) error
}
