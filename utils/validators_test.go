package utils

import "testing"

func TestValidateReminderTime(t *testing.T) {
	valid := []string{"09:00", "23:59", "0:05"}
	for _, value := range valid {
		if !ValidateReminderTime(value) {
			t.Errorf("%q should be a valid reminder time", value)
		}
	}

	invalid := []string{"", "25:00", "12:61", "noon", "0900"}
	for _, value := range invalid {
		if ValidateReminderTime(value) {
			t.Errorf("%q should be rejected", value)
		}
	}
}
