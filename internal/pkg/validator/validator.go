package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// "defecttype": field must be a member of the defect type catalog.
	_ = validate.RegisterValidation("defecttype", func(fl validator.FieldLevel) bool {
		return domain.DefectType(fl.Field().String()).Valid()
	})
}

// Validate struct fields, returning field -> failed tag, or nil when valid.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Tag()
	}
	return errors
}
