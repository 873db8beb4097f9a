package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Manager signs and parses tokens with one shared HMAC secret.
type Manager struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration

	// Now is the clock used for issuing and for expiry checks.
	Now func() time.Time
}

type Issued struct {
	Value     string
	ExpiresAt time.Time
}

func NewManager(secret []byte, alg string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokens: empty signing secret")
	}
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("tokens: unsupported signing algorithm %q", alg)
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Manager{
		secret:     secret,
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		Now:        time.Now,
	}, nil
}

func (m *Manager) Algorithm() string { return m.method.Alg() }

func (m *Manager) TTL(t Type) time.Duration {
	if t == TypeRefresh {
		return m.refreshTTL
	}
	return m.accessTTL
}

// MaxTTL is the longest lifetime any issued token can have.
func (m *Manager) MaxTTL() time.Duration {
	return max(m.accessTTL, m.refreshTTL)
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Issue mints a token of type t for subject. Each token gets a random jti, so
// two tokens issued within the same second still differ.
func (m *Manager) Issue(subject, role string, t Type) (Issued, error) {
	if !t.Valid() {
		return Issued{}, fmt.Errorf("tokens: unknown token type %q", t)
	}
	now := m.now()
	exp := now.Add(m.TTL(t))

	claims := Claims{
		Role: role,
		Type: t,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("tokens: sign: %w", err)
	}
	return Issued{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Parse checks signature, expiry and claim shape, then compares the token
// type against expected. An empty expected type accepts either kind.
func (m *Manager) Parse(token string, expected Type) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	if claims.Subject == "" || !claims.Type.Valid() {
		return nil, ErrMalformed
	}
	if expected != "" && claims.Type != expected {
		return nil, ErrWrongType
	}
	return &claims, nil
}
