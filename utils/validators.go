package utils

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// InitValidator registers the custom rules on gin's binding engine so
// DTO tags can use them.
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterCustomValidators(v)
	}
}

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("reminder_time", ValidateReminderTimeRule)
}

func ValidateReminderTimeRule(fl validator.FieldLevel) bool {
	return ValidateReminderTime(fl.Field().String())
}

// ValidateReminderTime accepts 24-hour HH:MM clock values.
func ValidateReminderTime(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}
