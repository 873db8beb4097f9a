package models

import "time"

const (
	RoleStudent = "ETUDIANT"
	RoleTeacher = "ENSEIGNANT"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	FullName     string    `gorm:"not null;default:''"        json:"full_name"`
	Role         string    `gorm:"index;not null"             json:"role"`
	IsActive     bool      `gorm:"not null;default:true"      json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RevokedToken is a persisted revocation entry. The raw token is never
// stored, only its SHA-256.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	TokenHash string    `gorm:"uniqueIndex;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null"      json:"expires_at"`
	RevokedAt time.Time `gorm:"not null"            json:"revoked_at"`
}
