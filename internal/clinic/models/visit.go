package models

import "time"

// Visit is the permanent clinical record written when a ticket's encounter
// completes. Immutable after insert.
type Visit struct {
	ID            string    `json:"id" db:"id"`
	PatientID     string    `json:"patient_id" db:"patient_id"`
	DoctorID      string    `json:"doctor_id" db:"doctor_id"`
	Diagnosis     string    `json:"diagnosis,omitempty" db:"diagnosis"`
	Prescriptions string    `json:"prescriptions,omitempty" db:"prescriptions"`
	Notes         string    `json:"notes,omitempty" db:"notes"`
	Attachments   string    `json:"attachments,omitempty" db:"attachments"` // JSON array of file paths
	InvoiceAmount *float64  `json:"invoice_amount,omitempty" db:"invoice_amount"`
	VisitDate     time.Time `json:"visit_date" db:"visit_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
