package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatutActif    = "ACTIF"
	StatutSuspendu = "SUSPENDU"
	StatutDiplome  = "DIPLOME"
)

// Student is soft-deleted. Email and matricule are unique among students
// that are not deleted.
type Student struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Fullname         string         `gorm:"not null" json:"fullname"`
	Nom              *string        `json:"nom"`
	Prenom           *string        `json:"prenom"`
	Email            string         `gorm:"not null;index:idx_students_email,unique,where:deleted_at IS NULL" json:"email"`
	Age              int            `json:"age"`
	Matricule        string         `gorm:"not null;index:idx_students_matricule,unique,where:deleted_at IS NULL" json:"matricule"`
	DateNaissance    *string        `gorm:"size:10" json:"dateNaissance"`
	Telephone        *string        `json:"telephone"`
	Adresse          *string        `json:"adresse"`
	Filiere          *string        `gorm:"index" json:"filiere"`
	Niveau           *string        `gorm:"index" json:"niveau"`
	AnneeInscription *int           `gorm:"index" json:"anneeInscription"`
	Photo            *string        `json:"photo"`
	Statut           string         `gorm:"not null;index" json:"statut"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

type AcademicHistory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Annee     *int      `json:"annee"`
	Details   *string   `json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (AcademicHistory) TableName() string { return "academic_history" }
