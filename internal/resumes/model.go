package resumes

import "time"

// Resume is one uploaded resume version owned by a user. File URLs are set
// once at creation and never replaced; changing file content means delete
// and re-upload.
type Resume struct {
	ID        string
	UserID    string
	Name      string
	Notes     *string
	PdfURL    string
	TexURL    *string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
