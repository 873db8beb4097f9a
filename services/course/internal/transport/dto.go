package transport

type CourseRequest struct {
	Code         *string `json:"code"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Credits      *int    `json:"credits"       validate:"omitempty,gte=0"`
	Hours        *int    `json:"hours"         validate:"omitempty,gte=0"`
	Filiere      *string `json:"filiere"`
	Niveau       *string `json:"niveau"`
	EnseignantID *uint   `json:"enseignant_id"`
	Salle        *string `json:"salle"`
}

type EnrollRequest struct {
	CourseID  uint `json:"course_id"  validate:"required"`
	StudentID uint `json:"student_id" validate:"required"`
}

type ScheduleRequest struct {
	CourseID  uint    `json:"course_id"   validate:"required"`
	DayOfWeek string  `json:"day_of_week" validate:"required"`
	StartTime string  `json:"start_time"  validate:"required"`
	EndTime   string  `json:"end_time"    validate:"required"`
	Room      *string `json:"room"`
}
