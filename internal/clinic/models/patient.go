package models

import "time"

// Patient holds the personal and medical record data owned by the clinic.
type Patient struct {
	ID               string     `json:"id" db:"id"`
	FullName         string     `json:"full_name" db:"full_name"`
	PhoneNumber      string     `json:"phone_number" db:"phone_number"`
	NationalID       string     `json:"national_id,omitempty" db:"national_id"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender           string     `json:"gender,omitempty" db:"gender"`
	Address          string     `json:"address,omitempty" db:"address"`
	BloodType        string     `json:"blood_type,omitempty" db:"blood_type"`
	EmergencyContact string     `json:"emergency_contact,omitempty" db:"emergency_contact"`
	MedicalHistory   string     `json:"medical_history,omitempty" db:"medical_history"`
	Notes            string     `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}
