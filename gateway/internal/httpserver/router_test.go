package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/university/gateway/internal/middleware"
	"github.com/Skotchmaster/university/pkg/authclient"
)

type seen struct {
	Service string `json:"service"`
	Path    string `json:"path"`
	Query   string `json:"query"`
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
}

func upstream(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(seen{
			Service: name,
			Path:    r.URL.Path,
			Query:   r.URL.RawQuery,
			UserID:  r.Header.Get(middleware.HeaderUserID),
			Role:    r.Header.Get(middleware.HeaderUserRole),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// authUpstream proxies /auth routes and answers /auth/validate for the token
// "good"; "boom" makes it fail.
func authUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/auth/validate" {
			switch r.Header.Get("Authorization") {
			case "Bearer good":
				_, _ = w.Write([]byte(`{"valid":true,"sub":"42","role":"ETUDIANT"}`))
			case "Bearer boom":
				w.WriteHeader(http.StatusInternalServerError)
			default:
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Invalid or expired token"}`))
			}
			return
		}
		_ = json.NewEncoder(w).Encode(seen{Service: "auth", Path: r.URL.Path})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T) *echo.Echo {
	t.Helper()
	auth := authUpstream(t)
	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		AuthURL:    auth.URL,
		CourseURL:  upstream(t, "course").URL,
		NoteURL:    upstream(t, "note").URL,
		StudentURL: upstream(t, "student").URL,
		Validator:  authclient.NewClient(auth.URL),
	}))
	return e
}

func call(e *echo.Echo, method, path, bearer string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGateway_RoutesToServices(t *testing.T) {
	e := newGateway(t)

	tests := []struct {
		path    string
		service string
		want    string
	}{
		{path: "/api/courses", service: "course", want: "/courses"},
		{path: "/api/courses/3/", service: "course", want: "/courses/3/"},
		{path: "/api/courses/enrollments/student/9", service: "course", want: "/courses/enrollments/student/9"},
		{path: "/api/notes/student/4/average", service: "note", want: "/notes/student/4/average"},
		{path: "/api/students/search?q=awa", service: "student", want: "/students/search"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := call(e, http.MethodGet, tt.path, "good")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got seen
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.service, got.Service)
			assert.Equal(t, tt.want, got.Path)
			assert.Equal(t, "42", got.UserID)
			assert.Equal(t, "ETUDIANT", got.Role)
		})
	}
}

func TestGateway_QueryStringPreserved(t *testing.T) {
	e := newGateway(t)

	rec := call(e, http.MethodGet, "/api/notes?student_id=4&limit=5", "good")
	require.Equal(t, http.StatusOK, rec.Code)
	var got seen
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "student_id=4&limit=5", got.Query)
}

func TestGateway_AuthRoutesAreNotPrevalidated(t *testing.T) {
	e := newGateway(t)

	for path, want := range map[string]string{
		"/api/auth/login": "/auth/login",
		"/auth/register":  "/auth/register",
	} {
		rec := call(e, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		var got seen
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "auth", got.Service)
		assert.Equal(t, want, got.Path)
	}
}

func TestGateway_RejectsBadTokens(t *testing.T) {
	e := newGateway(t)

	rec := call(e, http.MethodGet, "/api/courses", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(e, http.MethodGet, "/api/students", "revoked")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid or expired token"}`, rec.Body.String())

	rec = call(e, http.MethodGet, "/api/notes", "boom")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGateway_DropsSpoofedIdentityHeaders(t *testing.T) {
	e := newGateway(t)

	rec := call(e, http.MethodGet, "/api/courses", "good", middleware.HeaderUserID, "1", middleware.HeaderUserRole, "ADMIN")
	require.Equal(t, http.StatusOK, rec.Code)
	var got seen
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "42", got.UserID)
	assert.Equal(t, "ETUDIANT", got.Role)
}

func TestGateway_UpstreamDown(t *testing.T) {
	auth := authUpstream(t)
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		AuthURL:    auth.URL,
		CourseURL:  deadURL,
		NoteURL:    deadURL,
		StudentURL: deadURL,
		Validator:  authclient.NewClient(auth.URL),
	}))

	rec := call(e, http.MethodGet, "/api/courses", "good")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"message":"upstream unavailable"}`, rec.Body.String())
}

func TestGateway_Health(t *testing.T) {
	e := newGateway(t)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/health", "").Code)
}
