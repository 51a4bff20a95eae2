package validator

import "testing"

type caseForm struct {
	PatientName string   `json:"patient_name" validate:"required"`
	PatientAge  int      `json:"patient_age" validate:"gte=0,lte=150"`
	Priority    string   `json:"priority" validate:"required,oneof=ROUTINE URGENT EMERGENCY"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Specialties []string `json:"specialties" validate:"required,min=1"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&caseForm{
		PatientAge:  200,
		Priority:    "LOW",
		ImageURL:    "not a url",
		Specialties: []string{},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	got := v.FormatValidationErrors(err)
	want := map[string]string{
		"patient_name": "patient_name is required",
		"patient_age":  "patient_age must be less than or equal to 150",
		"priority":     "priority must be one of: ROUTINE URGENT EMERGENCY",
		"image_url":    "image_url must be a valid URL",
		"specialties":  "specialties must contain at least 1 item(s)",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, got[field])
		}
	}
}

func TestValidate_Valid(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&caseForm{
		PatientName: "Jane",
		PatientAge:  30,
		Priority:    "URGENT",
		ImageURL:    "https://pacs.example.com/study/1",
		Specialties: []string{"MRI"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
