package applications

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo for development and
// tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Application // id -> application
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Application)}
}

// Create stores an application.
func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[app.ID] = cloneApplication(app)
	return nil
}

// ListByUser returns the user's applications matching the filter, ordered
// by date_applied descending.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, f Filter) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Application
	for _, app := range r.data {
		if app.UserID != userID {
			continue
		}
		if f.Status != nil && app.Status != *f.Status {
			continue
		}
		if f.Search != "" && !matchesSearch(app, f.Search) {
			continue
		}
		if f.ResumeID != "" && (app.ResumeID == nil || *app.ResumeID != f.ResumeID) {
			continue
		}
		out = append(out, cloneApplication(app))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].DateApplied.Before(out[i].DateApplied)
	})
	return out, nil
}

// GetByID fetches one application by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.data[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return cloneApplication(app), nil
}

// Update overwrites a stored application.
func (r *MemoryRepo) Update(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[app.ID]; !ok {
		return ErrNotFound
	}
	r.data[app.ID] = cloneApplication(app)
	return nil
}

// Delete removes an application.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// Stats aggregates the user's applications.
func (r *MemoryRepo) Stats(ctx context.Context, userID string, today Date) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{ByStatus: make(map[Status]int, len(Statuses()))}
	for _, s := range Statuses() {
		stats.ByStatus[s] = 0
	}

	for _, app := range r.data {
		if app.UserID != userID {
			continue
		}
		stats.Total++
		stats.ByStatus[app.Status]++

		if app.FollowUpDate == nil || app.FollowUpDate.Before(today) {
			continue
		}
		if app.Status == StatusRejected || app.Status == StatusArchived {
			continue
		}
		stats.Upcoming = append(stats.Upcoming, FollowUp{
			ID:           app.ID,
			Company:      app.Company,
			Role:         app.Role,
			FollowUpDate: *app.FollowUpDate,
		})
	}

	sort.Slice(stats.Upcoming, func(i, j int) bool {
		return stats.Upcoming[i].FollowUpDate.Before(stats.Upcoming[j].FollowUpDate)
	})
	if len(stats.Upcoming) > followUpLimit {
		stats.Upcoming = stats.Upcoming[:followUpLimit]
	}
	return stats, nil
}

// ClearResumeRefs nulls out resume_id on the owner's applications that
// reference a deleted resume.
func (r *MemoryRepo) ClearResumeRefs(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, app := range r.data {
		if app.UserID == userID && app.ResumeID != nil && *app.ResumeID == resumeID {
			app.ResumeID = nil
			r.data[id] = app
		}
	}
	return nil
}

func matchesSearch(app Application, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(app.Company), needle) ||
		strings.Contains(strings.ToLower(app.Role), needle)
}

func cloneApplication(app Application) Application {
	out := app
	if app.Notes != nil {
		notes := *app.Notes
		out.Notes = &notes
	}
	if app.ResumeID != nil {
		id := *app.ResumeID
		out.ResumeID = &id
	}
	if app.FollowUpDate != nil {
		d := *app.FollowUpDate
		out.FollowUpDate = &d
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
