package models

import "time"

// AppointmentStatus enumerates the scheduled-appointment lifecycle. Cancelled
// and NoShow are the abnormal exits; the walk-in ticket flow never enters them.
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentArrived    AppointmentStatus = "arrived"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

// Appointment is a scheduled (non walk-in) patient visit.
type Appointment struct {
	ID              string            `json:"id" db:"id"`
	PatientID       string            `json:"patient_id" db:"patient_id"`
	DoctorID        string            `json:"doctor_id,omitempty" db:"doctor_id"`
	ScheduledTime   time.Time         `json:"scheduled_time" db:"scheduled_time"`
	DurationMinutes int               `json:"duration_minutes" db:"duration_minutes"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Notes           string            `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`

	PatientName string `json:"patient_name,omitempty" db:"-"`
}
