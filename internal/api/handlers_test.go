package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kalambet/cgs/internal/auth"
	"github.com/kalambet/cgs/internal/catalog"
	"github.com/kalambet/cgs/internal/profile"
	"github.com/kalambet/cgs/internal/recommend"
	"github.com/kalambet/cgs/internal/storage"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "admin-secret"
)

const testCatalog = `{"jobSkillsMapping": [
  {"jobTitle": "Data Scientist", "requiredSkills": ["Python", "Statistics", "Machine Learning"]},
  {"jobTitle": "Web Developer", "requiredSkills": ["HTML", "CSS", "JavaScript"]}
]}`

type testEnv struct {
	handler http.Handler
	store   *storage.Store
	deps    Deps
}

func newTestEnv(t *testing.T, read catalog.ReadFunc) *testEnv {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	v, err := auth.NewVerifier(auth.SchemeBcrypt, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	authSvc := auth.NewService(store, v, time.Hour)
	if err := authSvc.EnsureAdmin(testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	if read == nil {
		read = func() ([]byte, error) { return []byte(testCatalog), nil }
	}
	loader := catalog.NewLoaderFunc(read)

	deps := Deps{
		Store:       store,
		Auth:        authSvc,
		Profile:     profile.NewManager(store),
		Recommender: recommend.NewService(store, recommend.NewEngine(loader)),
		Catalog:     loader,
	}
	return &testEnv{handler: NewHandler(deps), store: store, deps: deps}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/login", "", loginRequest{Email: email, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", email, w.Code, w.Body.String())
	}
	var sess auth.Session
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decoding session: %v", err)
	}
	return sess.Token
}

// registerStudent registers a student with the given profile and returns a
// session token.
func (e *testEnv) registerStudent(t *testing.T, email, goal string, skills ...string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/register", "", auth.Registration{Name: "Student", Email: email, Password: "password1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d: %s", w.Code, w.Body.String())
	}
	token := e.login(t, email, "password1")

	if skills == nil {
		skills = []string{}
	}
	w = e.do(t, http.MethodPatch, "/api/profile", token, profile.Patch{CareerGoal: &goal, Skills: &skills})
	if w.Code != http.StatusOK {
		t.Fatalf("patch profile: status %d: %s", w.Code, w.Body.String())
	}
	return token
}

func (e *testEnv) addCourse(t *testing.T, title string, skills ...string) storage.Course {
	t.Helper()
	c, err := e.store.CreateCourse(storage.Course{Title: title, Skills: skills})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	return c
}

func decodeCourses(t *testing.T, w *httptest.ResponseRecorder) []storage.Course {
	t.Helper()
	var out []storage.Course
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding courses %q: %v", w.Body.String(), err)
	}
	return out
}

func titles(courses []storage.Course) []string {
	out := make([]string, len(courses))
	for i, c := range courses {
		out[i] = c.Title
	}
	return out
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", w.Body.String(), err)
	}
	return body.Error.Type
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("health = %d %q", w.Code, w.Body.String())
	}
}

func TestRecommend_Unauthenticated(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addCourse(t, "Python 101", "Python")

	w := env.do(t, http.MethodGet, "/api/recommend-courses", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestRecommend_CareerGoalPath(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addCourse(t, "Stats Basics", "Statistics")
	env.addCourse(t, "ML Bootcamp", "Machine Learning", "Statistics")
	env.addCourse(t, "Web Intro", "HTML")
	env.addCourse(t, "Python 101", "Python")

	token := env.registerStudent(t, "ana@example.com", "  data   SCIENTIST ", "python")

	w := env.do(t, http.MethodGet, "/api/recommend-courses", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get(reasonHeader); got != string(recommend.ReasonRanked) {
		t.Errorf("reason = %q", got)
	}
	got := titles(decodeCourses(t, w))
	want := []string{"ML Bootcamp", "Stats Basics"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("courses = %v, want %v", got, want)
	}
}

func TestRecommend_SkillGapPath(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addCourse(t, "Python 101", "Python")
	env.addCourse(t, "Go Tour", "Go")

	token := env.registerStudent(t, "bo@example.com", "", "python")

	w := env.do(t, http.MethodGet, "/api/recommend-courses", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := titles(decodeCourses(t, w))
	if len(got) != 1 || got[0] != "Go Tour" {
		t.Errorf("courses = %v, want [Go Tour]", got)
	}
}

func TestRecommend_EmptyResultsCarryReason(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.registerStudent(t, "cy@example.com", "")

	w := env.do(t, http.MethodGet, "/api/recommend-courses", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
	if got := w.Header().Get(reasonHeader); got != string(recommend.ReasonNoCourses) {
		t.Errorf("reason = %q, want %q", got, recommend.ReasonNoCourses)
	}
}

func TestRecommend_CatalogFailure(t *testing.T) {
	env := newTestEnv(t, func() ([]byte, error) { return nil, errors.New("disk gone") })
	env.addCourse(t, "Python 101", "Python")

	goalToken := env.registerStudent(t, "di@example.com", "Data Scientist")
	w := env.do(t, http.MethodGet, "/api/recommend-courses", goalToken, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("with goal: status = %d, want 503", w.Code)
	}

	// Without a goal the catalog is never read.
	noGoalToken := env.registerStudent(t, "ed@example.com", "")
	w = env.do(t, http.MethodGet, "/api/recommend-courses", noGoalToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("without goal: status = %d, want 200", w.Code)
	}
}

func TestRecommend_ClientGone(t *testing.T) {
	env := newTestEnv(t, func() ([]byte, error) { return nil, context.Canceled })
	env.addCourse(t, "Python 101", "Python")
	token := env.registerStudent(t, "fi@example.com", "Data Scientist")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/recommend-courses", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	if w.Code == http.StatusServiceUnavailable || w.Body.Len() != 0 {
		t.Errorf("abandoned request answered as catalog outage: %d %s", w.Code, w.Body.String())
	}
}

func TestJobSkillsMapping(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/api/data/job-skills-mapping", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != testCatalog {
		t.Errorf("body = %q, want raw catalog", w.Body.String())
	}

	broken := newTestEnv(t, func() ([]byte, error) { return []byte(`{"jobs": []}`), nil })
	w = broken.do(t, http.MethodGet, "/api/data/job-skills-mapping", "", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("malformed catalog: status = %d, want 500", w.Code)
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, nil)
	reg := auth.Registration{Name: "Fay", Email: "Fay@Example.com", Password: "password1"}

	w := env.do(t, http.MethodPost, "/register", "", reg)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("response leaks password hash")
	}

	w = env.do(t, http.MethodPost, "/register", "", reg)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", w.Code)
	}

	w = env.do(t, http.MethodPost, "/register", "", auth.Registration{Name: "X", Email: "not-an-email", Password: "password1"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid email: status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "email") {
		t.Errorf("validation error should name the JSON field: %s", w.Body.String())
	}
}

// 40 two-byte runes pass a rune-count limit of 72 but exceed bcrypt's
// 72-byte input limit.
func TestRegister_PasswordByteLimit(t *testing.T) {
	env := newTestEnv(t, nil)

	long := strings.Repeat("é", 40)
	w := env.do(t, http.MethodPost, "/register", "", auth.Registration{Name: "Gil", Email: "gil@example.com", Password: long})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
	if got := errorType(t, w); got != "invalid_request_error" {
		t.Errorf("error type = %q", got)
	}
	if !strings.Contains(w.Body.String(), "password must be at most 72 bytes") {
		t.Errorf("body = %s", w.Body.String())
	}

	// 36 two-byte runes is exactly 72 bytes.
	w = env.do(t, http.MethodPost, "/register", "", auth.Registration{Name: "Gil", Email: "gil@example.com", Password: strings.Repeat("é", 36)})
	if w.Code != http.StatusCreated {
		t.Errorf("72-byte password: status = %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/login", "", loginRequest{Email: testAdminEmail, Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodPost, "/login", "", loginRequest{Email: testAdminEmail, Password: testAdminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d", w.Code)
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie")
	}

	// The cookie alone authenticates.
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status = %d", rec.Code)
	}
	var id auth.Identity
	if err := json.Unmarshal(rec.Body.Bytes(), &id); err != nil {
		t.Fatal(err)
	}
	if id.Email != testAdminEmail || !id.IsAdmin() {
		t.Errorf("identity = %+v", id)
	}

	w = env.do(t, http.MethodPost, "/logout", cookie.Value, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: status = %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/me", cookie.Value, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("after logout: status = %d, want 401", w.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	env.deps.LoginRateLimit = 2
	h := NewHandler(env.deps)

	var last int
	for i := 0; i < 3; i++ {
		body, _ := json.Marshal(loginRequest{Email: testAdminEmail, Password: "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third attempt: status = %d, want 429", last)
	}
}

func TestAdminGuard(t *testing.T) {
	env := newTestEnv(t, nil)
	student := env.registerStudent(t, "gus@example.com", "")
	body := map[string]any{"courseTitle": "Go Tour", "skills": []string{"Go"}}

	if w := env.do(t, http.MethodPost, "/api/courses", "", body); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", w.Code)
	}
	w := env.do(t, http.MethodPost, "/api/courses", student, body)
	if w.Code != http.StatusForbidden {
		t.Errorf("student: status = %d, want 403", w.Code)
	}
	if got := errorType(t, w); got != "permission_error" {
		t.Errorf("error type = %q", got)
	}

	admin := env.login(t, testAdminEmail, testAdminPassword)
	if w := env.do(t, http.MethodPost, "/api/courses", admin, body); w.Code != http.StatusCreated {
		t.Errorf("admin: status = %d, want 201: %s", w.Code, w.Body.String())
	}
}

func TestCourseCRUD(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.login(t, testAdminEmail, testAdminPassword)

	w := env.do(t, http.MethodPost, "/api/courses", admin, map[string]any{
		"courseTitle": "Python 101",
		"name":        "Dr. Py",
		"skills":      []string{"Python", "Pandas"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d: %s", w.Code, w.Body.String())
	}
	var created storage.Course
	json.Unmarshal(w.Body.Bytes(), &created)

	// Update without "skills" keeps the existing ones.
	path := "/api/courses/" + itoa(created.ID)
	w = env.do(t, http.MethodPut, path, admin, map[string]any{"courseTitle": "Python 102"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d: %s", w.Code, w.Body.String())
	}
	var updated storage.Course
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Title != "Python 102" || len(updated.Skills) != 2 {
		t.Errorf("updated = %+v, want new title and 2 skills", updated)
	}

	// An explicit empty list clears them.
	w = env.do(t, http.MethodPut, path, admin, map[string]any{"courseTitle": "Python 102", "skills": []string{}})
	json.Unmarshal(w.Body.Bytes(), &updated)
	if len(updated.Skills) != 0 {
		t.Errorf("skills = %v, want none", updated.Skills)
	}

	if w := env.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusOK {
		t.Errorf("get: status = %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, path, admin, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/courses/abc", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/courses", admin, map[string]any{"description": "no title"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing title: status = %d, want 400", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/courses", admin, "{not json"); w.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d, want 400", w.Code)
	}
}

func TestCoursesBySkill(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addCourse(t, "Python 101", "Python")
	env.addCourse(t, "Data Wrangling", "Python Pandas")
	env.addCourse(t, "Go Tour", "Go")

	w := env.do(t, http.MethodGet, "/api/courses/by-skill?skill=PYTHON", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := titles(decodeCourses(t, w))
	if strings.Join(got, ",") != "Python 101,Data Wrangling" {
		t.Errorf("courses = %v", got)
	}

	w = env.do(t, http.MethodGet, "/api/courses/by-skill?skill=rust", "", nil)
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("no match body = %q, want []", got)
	}

	if w := env.do(t, http.MethodGet, "/api/courses/by-skill", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing skill: status = %d, want 400", w.Code)
	}
}

func TestPlaylists(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.login(t, testAdminEmail, testAdminPassword)
	c := env.addCourse(t, "Go Tour", "Go")

	w := env.do(t, http.MethodPost, "/api/playlist", admin, playlistRequest{
		CourseID: c.ID,
		Title:    "Intro",
		VideoURL: "https://www.youtube.com/watch?v=abc123&t=10",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d: %s", w.Code, w.Body.String())
	}
	var created playlistResponse
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.VideoID != "abc123" {
		t.Errorf("videoId = %q", created.VideoID)
	}

	w = env.do(t, http.MethodPost, "/api/playlist", admin, playlistRequest{CourseID: 9999, Title: "X", VideoURL: "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown course: status = %d, want 404", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/playlist/course/"+itoa(c.ID), "", nil)
	var list []playlistResponse
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 || list[0].Title != "Intro" {
		t.Errorf("list = %+v", list)
	}

	path := "/api/playlist/" + itoa(created.ID)
	if w := env.do(t, http.MethodDelete, path, admin, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d", w.Code)
	}
}

func TestYoutubeID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc123", "abc123"},
		{"https://www.youtube.com/watch?v=abc123&list=PL1", "abc123"},
		{"https://youtu.be/xyz789?t=42", "xyz789"},
		{"https://www.youtube.com/embed/emb456", "emb456"},
		{"rawid", "rawid"},
	}
	for _, tt := range tests {
		if got := youtubeID(tt.url); got != tt.want {
			t.Errorf("youtubeID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestJobsAndMessages(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.login(t, testAdminEmail, testAdminPassword)

	w := env.do(t, http.MethodPost, "/api/jobs", admin, jobRequest{Title: "Backend Engineer", Company: "Acme", ApplyURL: "https://acme.test/jobs/1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create job: status = %d: %s", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPost, "/api/jobs", admin, jobRequest{Title: "Bad", ApplyURL: "not a url"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad url: status = %d, want 400", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/jobs", "", nil)
	var jobs []storage.JobPosting
	json.Unmarshal(w.Body.Bytes(), &jobs)
	if len(jobs) != 1 || jobs[0].Company != "Acme" {
		t.Errorf("jobs = %+v", jobs)
	}

	w = env.do(t, http.MethodPost, "/api/messages", "", messageRequest{Name: "Hal", Email: "hal@example.com", Body: "hello"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create message: status = %d: %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodGet, "/api/messages", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list messages: status = %d, want 401", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/messages", admin, nil)
	var msgs []storage.Message
	json.Unmarshal(w.Body.Bytes(), &msgs)
	if len(msgs) != 1 || msgs[0].Body != "hello" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.registerStudent(t, "ivy@example.com", "Web Developer", "HTML", "html", " CSS ")

	if w := env.do(t, http.MethodGet, "/api/profile", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var p storage.UserProfile
	json.Unmarshal(w.Body.Bytes(), &p)
	if p.CareerGoal != "Web Developer" {
		t.Errorf("careerGoal = %q", p.CareerGoal)
	}
	if strings.Join(p.Skills, ",") != "HTML,CSS" {
		t.Errorf("skills = %v, want deduplicated [HTML CSS]", p.Skills)
	}
}

func TestCORSExposesReasonHeader(t *testing.T) {
	env := newTestEnv(t, nil)
	env.deps.CORSOrigins = []string{"http://localhost:3000"}
	h := NewHandler(env.deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, reasonHeader) {
		t.Errorf("Expose-Headers = %q", got)
	}
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
