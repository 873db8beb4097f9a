package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/university/pkg/authclient"
	"github.com/Skotchmaster/university/pkg/tokens"
)

type stubRemote struct {
	err error
}

func (s stubRemote) Validate(context.Context, string) (*authclient.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &authclient.Identity{Valid: true}, nil
}

func newServer(t *testing.T, remote RemoteValidator) (*echo.Echo, *tokens.Manager) {
	t.Helper()
	m, err := tokens.NewManager([]byte("test-jwt-secret"), "HS256", time.Minute, time.Hour)
	require.NoError(t, err)

	e := echo.New()
	g := e.Group("", NewBearerAuth(m, remote).RequireAccess())
	g.GET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": UserID(c), "role": Role(c)})
	})
	return e, m
}

func call(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBearerAuth_LocalVerification(t *testing.T) {
	e, m := newServer(t, nil)

	access, err := m.Issue("5", "ENSEIGNANT", tokens.TypeAccess)
	require.NoError(t, err)
	refresh, err := m.Issue("5", "ENSEIGNANT", tokens.TypeRefresh)
	require.NoError(t, err)

	rec := call(e, "Bearer "+access.Value)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"5","role":"ENSEIGNANT"}`, rec.Body.String())

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage", header: "Bearer abc.def.ghi"},
		{name: "refresh token", header: "Bearer " + refresh.Value},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, call(e, tt.header).Code)
		})
	}
}

func TestBearerAuth_RemoteValidation(t *testing.T) {
	revoked, m := newServer(t, stubRemote{err: authclient.ErrUnauthorized})
	access, err := m.Issue("5", "ETUDIANT", tokens.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(revoked, "Bearer "+access.Value).Code)

	down, m := newServer(t, stubRemote{err: errors.New("connection refused")})
	access, err = m.Issue("5", "ETUDIANT", tokens.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, call(down, "Bearer "+access.Value).Code)

	ok, m := newServer(t, stubRemote{})
	access, err = m.Issue("5", "ETUDIANT", tokens.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(ok, "Bearer "+access.Value).Code)
}
