package applications

import "time"

// Application is one tracked job application owned by a user. ResumeID, when
// set, references a resume owned by the same user; the link is validated at
// write time, not by a database constraint.
type Application struct {
	ID           string
	UserID       string
	Company      string
	Role         string
	DateApplied  Date
	Status       Status
	Notes        *string
	ResumeID     *string
	FollowUpDate *Date
	CreatedAt    time.Time
	LastUpdated  time.Time
}

// WithResumeName is an application enriched with the linked resume's name.
// ResumeName is nil when the application is unlinked or the resume is gone.
type WithResumeName struct {
	Application
	ResumeName *string
}

// Filter narrows a listing. Zero values mean "no filter".
type Filter struct {
	Status   *Status
	Search   string
	ResumeID string
}

// FollowUp is one upcoming follow-up in the stats summary.
type FollowUp struct {
	ID           string
	Company      string
	Role         string
	FollowUpDate Date
}

// Stats summarizes all of a user's applications. ByStatus always carries
// every status, zero-filled.
type Stats struct {
	Total    int
	ByStatus map[Status]int
	Upcoming []FollowUp
}
