package transport

type CreateNoteRequest struct {
	StudentID   *uint    `json:"student_id"  validate:"required,gt=0"`
	CourseCode  *string  `json:"course_code" validate:"required"`
	Note        *float64 `json:"note"        validate:"required,gte=0,lte=20"`
	Coefficient *float64 `json:"coefficient" validate:"omitempty,gt=0"`
	TypeExam    *string  `json:"type_exam"`
	Semester    *string  `json:"semester"`
	DateExam    *string  `json:"date_exam"   validate:"omitempty,datetime=2006-01-02"`
	Comment     *string  `json:"comment"`
}

type UpdateNoteRequest struct {
	Note        *float64 `json:"note"        validate:"omitempty,gte=0,lte=20"`
	Coefficient *float64 `json:"coefficient" validate:"omitempty,gt=0"`
	TypeExam    *string  `json:"type_exam"`
	Semester    *string  `json:"semester"`
	DateExam    *string  `json:"date_exam"   validate:"omitempty,datetime=2006-01-02"`
	Comment     *string  `json:"comment"`
}
