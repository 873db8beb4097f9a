package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager([]byte("test-jwt-secret"), "HS256", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewManager_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewManager(nil, "HS256", 0, 0)
	require.Error(t, err)

	_, err = NewManager([]byte("s"), "RS256", 0, 0)
	require.Error(t, err)

	_, err = NewManager([]byte("s"), "none", 0, 0)
	require.Error(t, err)

	m, err := NewManager([]byte("s"), "HS512", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "HS512", m.Algorithm())
	assert.Equal(t, DefaultAccessTTL, m.TTL(TypeAccess))
	assert.Equal(t, DefaultRefreshTTL, m.TTL(TypeRefresh))
	assert.Equal(t, DefaultRefreshTTL, m.MaxTTL())
}

func TestManager_IssueAndParse(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	now := time.Now().UTC().Truncate(time.Second)
	m.Now = func() time.Time { return now }

	tests := []struct {
		name string
		typ  Type
		ttl  time.Duration
	}{
		{name: "access", typ: TypeAccess, ttl: 15 * time.Minute},
		{name: "refresh", typ: TypeRefresh, ttl: 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issued, err := m.Issue("42", "ETUDIANT", tt.typ)
			require.NoError(t, err)
			assert.True(t, now.Add(tt.ttl).Equal(issued.ExpiresAt))

			claims, err := m.Parse(issued.Value, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, "42", claims.Subject)
			assert.Equal(t, "ETUDIANT", claims.Role)
			assert.Equal(t, tt.typ, claims.Type)
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestManager_IssueTwiceDiffers(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	now := time.Now()
	m.Now = func() time.Time { return now }

	a, err := m.Issue("1", "ADMIN", TypeAccess)
	require.NoError(t, err)
	b, err := m.Issue("1", "ADMIN", TypeAccess)
	require.NoError(t, err)
	assert.NotEqual(t, a.Value, b.Value)
}

func TestManager_Parse_Expired(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	issuedAt := time.Now()
	m.Now = func() time.Time { return issuedAt }

	issued, err := m.Issue("7", "ENSEIGNANT", TypeAccess)
	require.NoError(t, err)

	m.Now = func() time.Time { return issuedAt.Add(16 * time.Minute) }
	_, err = m.Parse(issued.Value, TypeAccess)
	require.ErrorIs(t, err, ErrExpired)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, "expired", Reason(err))
}

func TestManager_Parse_WrongType(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	access, err := m.Issue("7", "ETUDIANT", TypeAccess)
	require.NoError(t, err)
	refresh, err := m.Issue("7", "ETUDIANT", TypeRefresh)
	require.NoError(t, err)

	_, err = m.Parse(access.Value, TypeRefresh)
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = m.Parse(refresh.Value, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)

	claims, err := m.Parse(refresh.Value, "")
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.Type)
}

func TestManager_Parse_Rejects(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	other, err := NewManager([]byte("another-secret"), "HS256", 0, 0)
	require.NoError(t, err)
	foreign, err := other.Issue("1", "ADMIN", TypeAccess)
	require.NoError(t, err)

	hs512, err := NewManager([]byte("test-jwt-secret"), "HS512", 0, 0)
	require.NoError(t, err)
	otherAlg, err := hs512.Issue("1", "ADMIN", TypeAccess)
	require.NoError(t, err)

	sign := func(c jwt.Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-jwt-secret"))
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-valid-jwt"},
		{name: "empty", token: ""},
		{name: "wrong secret", token: foreign.Value},
		{name: "wrong algorithm", token: otherAlg.Value},
		{name: "missing exp", token: sign(Claims{Type: TypeAccess, RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}})},
		{name: "missing sub", token: sign(Claims{Type: TypeAccess, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}})},
		{name: "unknown type", token: sign(Claims{Type: "id", RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: exp}})},
		{name: "mistyped type claim", token: sign(jwt.MapClaims{"sub": "1", "type": 5, "exp": exp.Unix()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token, TypeAccess)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "revoked", Reason(ErrRevoked))
	assert.Equal(t, "wrong_type", Reason(ErrWrongType))
	assert.Equal(t, "", Reason(assert.AnError))
}
