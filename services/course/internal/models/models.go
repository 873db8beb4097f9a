package models

import "time"

type Course struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         string    `gorm:"uniqueIndex;not null"     json:"code"`
	Name         string    `gorm:"not null"                 json:"name"`
	Description  *string   `json:"description"`
	Credits      int       `gorm:"not null"                 json:"credits"`
	Hours        int       `gorm:"not null"                 json:"hours"`
	Filiere      *string   `gorm:"index"                    json:"filiere"`
	Niveau       *string   `gorm:"index"                    json:"niveau"`
	EnseignantID *uint     `json:"enseignant_id"`
	Salle        *string   `json:"salle"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Enrollment struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"                   json:"id"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_pair"   json:"course_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_pair;index" json:"student_id"`
	EnrolledAt time.Time `gorm:"autoCreateTime"                             json:"enrolled_at"`
}

type Schedule struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID  uint      `gorm:"not null;index"           json:"course_id"`
	DayOfWeek string    `gorm:"not null"                 json:"day_of_week"`
	StartTime string    `gorm:"size:5;not null"          json:"start_time"`
	EndTime   string    `gorm:"size:5;not null"          json:"end_time"`
	Room      *string   `gorm:"index"                    json:"room"`
	CreatedAt time.Time `json:"created_at"`
}
