package transport

import (
	"time"

	"github.com/Skotchmaster/university/services/auth/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"     validate:"required"`
	Password string `json:"password"  validate:"required"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UserOut struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Sub   string `json:"sub"`
	Role  string `json:"role"`
}

func NewUserOut(u *models.User) UserOut {
	return UserOut{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}

// SecondsUntil converts an absolute expiry into an expires_in value.
func SecondsUntil(exp, now time.Time) int64 {
	d := exp.Sub(now)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
