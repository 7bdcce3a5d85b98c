package applications

import "time"

// ApplicationResponse is the outward-facing representation of an
// application.
type ApplicationResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Company      string    `json:"company"`
	Role         string    `json:"role"`
	DateApplied  Date      `json:"date_applied"`
	Status       Status    `json:"status"`
	Notes        *string   `json:"notes"`
	ResumeID     *string   `json:"resume_id"`
	FollowUpDate *Date     `json:"follow_up_date"`
	CreatedAt    time.Time `json:"created_at"`
	LastUpdated  time.Time `json:"last_updated"`
}

// EnrichedResponse adds the linked resume's name to a listing or fetch.
type EnrichedResponse struct {
	ApplicationResponse
	ResumeName *string `json:"resume_name"`
}

// FollowUpResponse is one entry in the stats summary's upcoming list.
type FollowUpResponse struct {
	ID           string `json:"id"`
	Company      string `json:"company"`
	Role         string `json:"role"`
	FollowUpDate Date   `json:"follow_up_date"`
}

// StatsResponse is the stats summary payload.
type StatsResponse struct {
	TotalApplications int                `json:"total_applications"`
	ByStatus          map[string]int     `json:"by_status"`
	UpcomingFollowups []FollowUpResponse `json:"upcoming_followups"`
}

func toResponse(app Application) ApplicationResponse {
	return ApplicationResponse{
		ID:           app.ID,
		UserID:       app.UserID,
		Company:      app.Company,
		Role:         app.Role,
		DateApplied:  app.DateApplied,
		Status:       app.Status,
		Notes:        app.Notes,
		ResumeID:     app.ResumeID,
		FollowUpDate: app.FollowUpDate,
		CreatedAt:    app.CreatedAt,
		LastUpdated:  app.LastUpdated,
	}
}

func toEnrichedResponse(app WithResumeName) EnrichedResponse {
	return EnrichedResponse{
		ApplicationResponse: toResponse(app.Application),
		ResumeName:          app.ResumeName,
	}
}

func toEnrichedResponseList(list []WithResumeName) []EnrichedResponse {
	out := make([]EnrichedResponse, 0, len(list))
	for _, app := range list {
		out = append(out, toEnrichedResponse(app))
	}
	return out
}

func toStatsResponse(stats Stats) StatsResponse {
	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	followups := make([]FollowUpResponse, 0, len(stats.Upcoming))
	for _, fu := range stats.Upcoming {
		followups = append(followups, FollowUpResponse{
			ID:           fu.ID,
			Company:      fu.Company,
			Role:         fu.Role,
			FollowUpDate: fu.FollowUpDate,
		})
	}
	return StatsResponse{
		TotalApplications: stats.Total,
		ByStatus:          byStatus,
		UpcomingFollowups: followups,
	}
}
