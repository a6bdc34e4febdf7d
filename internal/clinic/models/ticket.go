package models

import "time"

// TicketStatus enumerates the queue ticket lifecycle.
type TicketStatus string

const (
	StatusWaiting        TicketStatus = "waiting"
	StatusCalled         TicketStatus = "called"
	StatusAwaitingRecall TicketStatus = "awaiting_recall"
	StatusInProgress     TicketStatus = "in_progress"
	StatusCompleted      TicketStatus = "completed"
)

// QueueTicket is one walk-in visit attempt for one day. The ticket number is
// sequential within its creation day, starting at 1. Identity and patient
// reference are fixed at creation; status, timestamps and call count mutate
// through the queue engine. Tickets are never deleted: completed ones remain
// as history.
type QueueTicket struct {
	ID           string       `json:"id" db:"id"`
	TicketNumber int          `json:"ticket_number" db:"ticket_number"`
	PatientID    string       `json:"patient_id" db:"patient_id"`
	DoctorID     string       `json:"doctor_id,omitempty" db:"doctor_id"`
	Status       TicketStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	CalledAt     *time.Time   `json:"called_at,omitempty" db:"called_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CallCount    int          `json:"call_count" db:"call_count"`

	// PatientName is filled by joined reads for the UI surfaces.
	PatientName string `json:"patient_name,omitempty" db:"-"`
}
