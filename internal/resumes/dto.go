package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Notes     *string   `json:"notes"`
	PdfURL    string    `json:"pdf_url"`
	TexURL    *string   `json:"tex_url"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(resume Resume) ResumeResponse {
	return ResumeResponse{
		ID:        resume.ID,
		UserID:    resume.UserID,
		Name:      resume.Name,
		Notes:     resume.Notes,
		PdfURL:    resume.PdfURL,
		TexURL:    resume.TexURL,
		Tags:      resume.Tags,
		CreatedAt: resume.CreatedAt,
		UpdatedAt: resume.UpdatedAt,
	}
}

func toResponseList(list []Resume) []ResumeResponse {
	out := make([]ResumeResponse, 0, len(list))
	for _, resume := range list {
		out = append(out, toResponse(resume))
	}
	return out
}
