package performance

import (
	"github.com/go-playground/validator/v10"
)

type (
	NewActivityInput struct {
		CourseID    string `json:"courseId" validate:"required"`
		CourseTitle string `json:"courseTitle" validate:"required"`
		Origin      string `json:"origin" validate:"required"`
		JoinLink    string `json:"joinLink" validate:"required,url"`
	}

	LogActivityInput struct {
		DurationMinutes int `json:"durationMinutes" validate:"required,gt=0"`
	}
)

func (in *NewActivityInput) Validate(validate *validator.Validate) error {
	return validate.Struct(in)
}

func (in *LogActivityInput) Validate(validate *validator.Validate) error {
	return validate.Struct(in)
}
