package models

import "time"

// Note is one graded exam. A student has at most one note per course and
// exam type.
type Note struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"                 json:"id"`
	StudentID   uint      `gorm:"not null;index;uniqueIndex:idx_note_exam" json:"student_id"`
	CourseCode  string    `gorm:"not null;index;uniqueIndex:idx_note_exam" json:"course_code"`
	Note        float64   `gorm:"not null"                                 json:"note"`
	Coefficient float64   `gorm:"not null"                                 json:"coefficient"`
	TypeExam    string    `gorm:"not null;uniqueIndex:idx_note_exam"       json:"type_exam"`
	Semester    *string   `gorm:"index"                                    json:"semester"`
	DateExam    *string   `gorm:"size:10"                                  json:"date_exam"`
	Comment     *string   `json:"comment"`
	CreatedAt   time.Time `gorm:"index"                                    json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
