package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resumitory-backend/internal/resumes"
)

type appFixture struct {
	router  *gin.Engine
	repo    *MemoryRepo
	resumes *resumes.MemoryRepo
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	resumeRepo := resumes.NewMemoryRepo()
	svc := &Service{Repo: repo, Resumes: resumeRepo}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-Test-User"))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(router.Group("/applications"))

	return &appFixture{router: router, repo: repo, resumes: resumeRepo}
}

func (f *appFixture) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("X-Test-User", user)
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

func (f *appFixture) seedResume(t *testing.T, userID, name string) resumes.Resume {
	t.Helper()
	now := time.Now().UTC()
	resume := resumes.Resume{
		ID:        "resume-" + name,
		UserID:    userID,
		Name:      name,
		PdfURL:    "/public/resumitory/" + userID + "/x_" + name + ".pdf",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.resumes.Create(context.Background(), resume); err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	return resume
}

func (f *appFixture) seedApplication(t *testing.T, app Application) Application {
	t.Helper()
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
		app.LastUpdated = now
	}
	if app.Status == "" {
		app.Status = StatusApplied
	}
	if err := f.repo.Create(context.Background(), app); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return app
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return env
}

func TestCreateApplication(t *testing.T) {
	f := newAppFixture(t)

	resp := f.do(t, http.MethodPost, "/applications", "user-1", `{
		"company": "Acme",
		"role": "Backend Engineer",
		"date_applied": "2026-08-20",
		"status": "interview",
		"notes": "referred by a friend",
		"follow_up_date": "2026-09-05"
	}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out ApplicationResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode application: %v", err)
	}
	if out.ID == "" || out.UserID != "user-1" {
		t.Fatalf("unexpected application: %+v", out)
	}
	if out.Status != StatusInterview {
		t.Fatalf("expected interview status, got %s", out.Status)
	}
	if out.DateApplied.Format("2006-01-02") != "2026-08-20" {
		t.Fatalf("unexpected date_applied: %v", out.DateApplied)
	}
	if out.FollowUpDate == nil || out.FollowUpDate.Format("2006-01-02") != "2026-09-05" {
		t.Fatalf("unexpected follow_up_date: %v", out.FollowUpDate)
	}
}

func TestCreateApplicationDefaultsStatus(t *testing.T) {
	f := newAppFixture(t)

	resp := f.do(t, http.MethodPost, "/applications", "user-1", `{
		"company": "Acme",
		"role": "Backend Engineer",
		"date_applied": "2026-08-20"
	}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out ApplicationResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode application: %v", err)
	}
	if out.Status != StatusApplied {
		t.Fatalf("expected applied status, got %s", out.Status)
	}
}

func TestCreateApplicationRejectsInvalidStatus(t *testing.T) {
	f := newAppFixture(t)

	resp := f.do(t, http.MethodPost, "/applications", "user-1", `{
		"company": "Acme",
		"role": "Backend Engineer",
		"date_applied": "2026-08-20",
		"status": "ghosted"
	}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	env := decodeError(t, resp)
	if !strings.Contains(env.Error.Message, "invalid status") {
		t.Fatalf("unexpected message: %s", env.Error.Message)
	}
}

func TestCreateApplicationRejectsInvalidDate(t *testing.T) {
	f := newAppFixture(t)

	resp := f.do(t, http.MethodPost, "/applications", "user-1", `{
		"company": "Acme",
		"role": "Backend Engineer",
		"date_applied": "20/08/2026"
	}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	env := decodeError(t, resp)
	if !strings.Contains(env.Error.Message, "invalid date") {
		t.Fatalf("unexpected message: %s", env.Error.Message)
	}
}

func TestCreateApplicationRequiresCompanyAndRole(t *testing.T) {
	f := newAppFixture(t)

	resp := f.do(t, http.MethodPost, "/applications", "user-1", `{
		"company": "  ",
		"role": "Backend Engineer",
		"date_applied": "2026-08-20"
	}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateApplicationRejectsForeignResume(t *testing.T) {
	f := newAppFixture(t)
	theirs := f.seedResume(t, "user-2", "theirs")

	resp := f.do(t, http.MethodPost, "/applications", "user-1", `{
		"company": "Acme",
		"role": "Backend Engineer",
		"date_applied": "2026-08-20",
		"resume_id": "`+theirs.ID+`"
	}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decodeError(t, resp)
	if !strings.Contains(env.Error.Message, "resume not found") {
		t.Fatalf("unexpected message: %s", env.Error.Message)
	}

	list, err := f.repo.ListByUser(context.Background(), "user-1", Filter{})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no row after failed create, got %d", len(list))
	}
}

func TestQuickAddDefaults(t *testing.T) {
	f := newAppFixture(t)

	resp := f.do(t, http.MethodPost, "/applications/quick", "user-1", `{
		"company": "Acme",
		"role": "Backend Engineer"
	}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out ApplicationResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode application: %v", err)
	}
	if out.Status != StatusApplied {
		t.Fatalf("expected applied status, got %s", out.Status)
	}
	if out.DateApplied.Format("2006-01-02") != Today().Format("2006-01-02") {
		t.Fatalf("expected today's date, got %v", out.DateApplied)
	}
	if out.ResumeID != nil {
		t.Fatalf("expected no resume link, got %v", *out.ResumeID)
	}
}

func TestListApplicationsFiltersByStatus(t *testing.T) {
	f := newAppFixture(t)
	f.seedApplication(t, Application{ID: "a1", UserID: "user-1", Company: "Acme", Role: "Backend", DateApplied: NewDate(2026, time.August, 1), Status: StatusInterview})
	f.seedApplication(t, Application{ID: "a2", UserID: "user-1", Company: "Globex", Role: "SRE", DateApplied: NewDate(2026, time.August, 2), Status: StatusApplied})
	f.seedApplication(t, Application{ID: "a3", UserID: "user-2", Company: "Acme", Role: "Backend", DateApplied: NewDate(2026, time.August, 3), Status: StatusInterview})

	resp := f.do(t, http.MethodGet, "/applications?status=interview", "user-1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var list []EnrichedResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "a1" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestListApplicationsRejectsUnknownStatus(t *testing.T) {
	f := newAppFixture(t)

	resp := f.do(t, http.MethodGet, "/applications?status=ghosted", "user-1", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestListApplicationsSearchIsCaseInsensitive(t *testing.T) {
	f := newAppFixture(t)
	f.seedApplication(t, Application{ID: "a1", UserID: "user-1", Company: "Acme Corp", Role: "Backend", DateApplied: NewDate(2026, time.August, 1)})
	f.seedApplication(t, Application{ID: "a2", UserID: "user-1", Company: "Globex", Role: "ACME liaison", DateApplied: NewDate(2026, time.August, 2)})
	f.seedApplication(t, Application{ID: "a3", UserID: "user-1", Company: "Initech", Role: "SRE", DateApplied: NewDate(2026, time.August, 3)})

	resp := f.do(t, http.MethodGet, "/applications?search=acme", "user-1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var list []EnrichedResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches across company and role, got %d", len(list))
	}
}

func TestListApplicationsOrderedByDateDesc(t *testing.T) {
	f := newAppFixture(t)
	f.seedApplication(t, Application{ID: "old", UserID: "user-1", Company: "Acme", Role: "Backend", DateApplied: NewDate(2026, time.July, 1)})
	f.seedApplication(t, Application{ID: "new", UserID: "user-1", Company: "Globex", Role: "SRE", DateApplied: NewDate(2026, time.August, 15)})

	resp := f.do(t, http.MethodGet, "/applications", "user-1", "")
	var list []EnrichedResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "new" || list[1].ID != "old" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestListEnrichesResumeName(t *testing.T) {
	f := newAppFixture(t)
	mine := f.seedResume(t, "user-1", "Backend 2026")
	f.seedApplication(t, Application{ID: "a1", UserID: "user-1", Company: "Acme", Role: "Backend", DateApplied: NewDate(2026, time.August, 1), ResumeID: &mine.ID})
	gone := "resume-gone"
	f.seedApplication(t, Application{ID: "a2", UserID: "user-1", Company: "Globex", Role: "SRE", DateApplied: NewDate(2026, time.August, 2), ResumeID: &gone})

	resp := f.do(t, http.MethodGet, "/applications", "user-1", "")
	var list []EnrichedResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(list))
	}
	byID := map[string]EnrichedResponse{}
	for _, app := range list {
		byID[app.ID] = app
	}
	if byID["a1"].ResumeName == nil || *byID["a1"].ResumeName != "Backend 2026" {
		t.Fatalf("expected resume name on a1, got %v", byID["a1"].ResumeName)
	}
	if byID["a2"].ResumeName != nil {
		t.Fatalf("expected nil resume name for dangling link, got %v", *byID["a2"].ResumeName)
	}
}

func TestGetApplicationOwnership(t *testing.T) {
	f := newAppFixture(t)
	f.seedApplication(t, Application{ID: "a1", UserID: "user-1", Company: "Acme", Role: "Backend", DateApplied: NewDate(2026, time.August, 1)})

	resp := f.do(t, http.MethodGet, "/applications/a1", "user-2", "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	resp = f.do(t, http.MethodGet, "/applications/missing", "user-1", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = f.do(t, http.MethodGet, "/applications/a1", "user-1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestUpdateApplicationStatusBumpsLastUpdated(t *testing.T) {
	f := newAppFixture(t)
	created := time.Now().UTC().Add(-time.Hour)
	f.seedApplication(t, Application{
		ID: "a1", UserID: "user-1", Company: "Acme", Role: "Backend",
		DateApplied: NewDate(2026, time.August, 1), Status: StatusApplied,
		CreatedAt: created, LastUpdated: created,
	})

	resp := f.do(t, http.MethodPatch, "/applications/a1", "user-1", `{"status":"offer"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out ApplicationResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode application: %v", err)
	}
	if out.Status != StatusOffer {
		t.Fatalf("expected offer status, got %s", out.Status)
	}
	if !out.LastUpdated.After(created) {
		t.Fatalf("expected last_updated to advance")
	}
	if out.Company != "Acme" {
		t.Fatalf("untouched fields must survive a partial update")
	}
}

func TestUpdateApplicationClearsResumeLink(t *testing.T) {
	f := newAppFixture(t)
	mine := f.seedResume(t, "user-1", "Backend 2026")
	f.seedApplication(t, Application{ID: "a1", UserID: "user-1", Company: "Acme", Role: "Backend", DateApplied: NewDate(2026, time.August, 1), ResumeID: &mine.ID})

	resp := f.do(t, http.MethodPatch, "/applications/a1", "user-1", `{"resume_id":""}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out ApplicationResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode application: %v", err)
	}
	if out.ResumeID != nil {
		t.Fatalf("expected cleared resume link, got %v", *out.ResumeID)
	}
}

func TestUpdateApplicationRevalidatesResumeLink(t *testing.T) {
	f := newAppFixture(t)
	theirs := f.seedResume(t, "user-2", "theirs")
	f.seedApplication(t, Application{ID: "a1", UserID: "user-1", Company: "Acme", Role: "Backend", DateApplied: NewDate(2026, time.August, 1)})

	resp := f.do(t, http.MethodPatch, "/applications/a1", "user-1", `{"resume_id":"`+theirs.ID+`"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDeleteApplication(t *testing.T) {
	f := newAppFixture(t)
	f.seedApplication(t, Application{ID: "a1", UserID: "user-1", Company: "Acme", Role: "Backend", DateApplied: NewDate(2026, time.August, 1)})

	resp := f.do(t, http.MethodDelete, "/applications/a1", "user-2", "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	resp = f.do(t, http.MethodDelete, "/applications/a1", "user-1", "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = f.do(t, http.MethodGet, "/applications/a1", "user-1", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestStatsSummary(t *testing.T) {
	f := newAppFixture(t)
	today := Today()
	future := func(days int) *Date {
		d := NewDate(today.Year(), today.Month(), today.Day())
		d.Time = d.Time.AddDate(0, 0, days)
		return &d
	}

	f.seedApplication(t, Application{ID: "a1", UserID: "user-1", Company: "C1", Role: "R", DateApplied: NewDate(2026, time.August, 1), Status: StatusApplied, FollowUpDate: future(1)})
	f.seedApplication(t, Application{ID: "a2", UserID: "user-1", Company: "C2", Role: "R", DateApplied: NewDate(2026, time.August, 2), Status: StatusApplied, FollowUpDate: future(2)})
	f.seedApplication(t, Application{ID: "a3", UserID: "user-1", Company: "C3", Role: "R", DateApplied: NewDate(2026, time.August, 3), Status: StatusInterview, FollowUpDate: future(3)})
	f.seedApplication(t, Application{ID: "a4", UserID: "user-1", Company: "C4", Role: "R", DateApplied: NewDate(2026, time.August, 4), Status: StatusInterview, FollowUpDate: future(4)})
	f.seedApplication(t, Application{ID: "a5", UserID: "user-1", Company: "C5", Role: "R", DateApplied: NewDate(2026, time.August, 5), Status: StatusOffer, FollowUpDate: future(5)})
	f.seedApplication(t, Application{ID: "a6", UserID: "user-1", Company: "C6", Role: "R", DateApplied: NewDate(2026, time.August, 6), Status: StatusApplied, FollowUpDate: future(6)})
	// Excluded from upcoming: rejected, and a follow-up in the past.
	f.seedApplication(t, Application{ID: "a7", UserID: "user-1", Company: "C7", Role: "R", DateApplied: NewDate(2026, time.August, 7), Status: StatusRejected, FollowUpDate: future(1)})
	f.seedApplication(t, Application{ID: "a8", UserID: "user-1", Company: "C8", Role: "R", DateApplied: NewDate(2026, time.August, 8), Status: StatusApplied, FollowUpDate: future(-3)})
	// Another user's rows never count.
	f.seedApplication(t, Application{ID: "b1", UserID: "user-2", Company: "X", Role: "R", DateApplied: NewDate(2026, time.August, 1), Status: StatusApplied})

	resp := f.do(t, http.MethodGet, "/applications/stats/summary", "user-1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out StatsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if out.TotalApplications != 8 {
		t.Fatalf("expected total 8, got %d", out.TotalApplications)
	}
	sum := 0
	for _, count := range out.ByStatus {
		sum += count
	}
	if sum != out.TotalApplications {
		t.Fatalf("by_status must sum to the total: %d != %d", sum, out.TotalApplications)
	}
	if len(out.ByStatus) != len(Statuses()) {
		t.Fatalf("expected all statuses zero-filled, got %v", out.ByStatus)
	}
	if out.ByStatus["archived"] != 0 {
		t.Fatalf("expected zero archived, got %d", out.ByStatus["archived"])
	}
	if len(out.UpcomingFollowups) != 5 {
		t.Fatalf("expected 5 upcoming follow-ups, got %d", len(out.UpcomingFollowups))
	}
	for i := 1; i < len(out.UpcomingFollowups); i++ {
		prev := out.UpcomingFollowups[i-1].FollowUpDate
		cur := out.UpcomingFollowups[i].FollowUpDate
		if cur.Before(prev) {
			t.Fatalf("upcoming follow-ups must be ascending: %+v", out.UpcomingFollowups)
		}
	}
	for _, fu := range out.UpcomingFollowups {
		if fu.ID == "a7" || fu.ID == "a8" {
			t.Fatalf("excluded application %s in upcoming list", fu.ID)
		}
	}
}
