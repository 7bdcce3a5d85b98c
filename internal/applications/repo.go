package applications

import "context"

// Repo defines persistence operations for applications. GetByID is not
// scoped to a user so the service layer can tell "no such row" (404) apart
// from "wrong owner" (403). Stats honors the follow-up rules: only dates on
// or after today, excluding rejected and archived, five soonest ascending.
type Repo interface {
	Create(ctx context.Context, app Application) error
	ListByUser(ctx context.Context, userID string, f Filter) ([]Application, error)
	GetByID(ctx context.Context, id string) (Application, error)
	Update(ctx context.Context, app Application) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string, today Date) (Stats, error)
	ClearResumeRefs(ctx context.Context, userID, resumeID string) error
}
