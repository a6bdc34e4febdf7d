package store

import (
	"errors"
	"time"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicate      = errors.New("record already exists")
	ErrStaffHasVisits = errors.New("staff member has recorded visits")
)

// Store is the canonical collection of patients, tickets, visits,
// appointments and staff. Every UI surface (reception, doctor panel, public
// display) reads and writes through a single Store instance; there is no
// ambient global.
type Store interface {
	// Patients.
	CreatePatient(p *models.Patient) error
	GetPatient(id string) (*models.Patient, error)
	UpdatePatient(p *models.Patient) error
	// DeletePatient cascades to the patient's tickets, visits and
	// appointments.
	DeletePatient(id string) error
	// SearchPatients matches by name, phone or national id substring,
	// newest first.
	SearchPatients(query string) ([]models.Patient, error)

	// Tickets. RegisterPatientWithTicket persists the patient and issues
	// the next ticket number of the day in one transaction.
	RegisterPatientWithTicket(p *models.Patient) (*models.QueueTicket, error)
	CreateTicketForPatient(patientID string) (*models.QueueTicket, error)
	GetTicket(id string) (*models.QueueTicket, error)
	UpdateTicket(t *models.QueueTicket) error
	// CompleteTicket persists the ticket status change and the new visit
	// together: either both commit or neither does.
	CompleteTicket(t *models.QueueTicket, v *models.Visit) error

	// Queue views for the given calendar day.
	ListWaiting(day time.Time) ([]models.QueueTicket, error)
	CurrentlyServed(day time.Time) (*models.QueueTicket, error)
	CompletedCount(day time.Time) (int, error)
	RecentCompleted(day time.Time, limit int) ([]models.QueueTicket, error)
	NextTicketNumber(day time.Time) (int, error)

	// Visits.
	VisitHistory(patientID string, limit int) ([]models.Visit, error)
	VisitCountSince(since time.Time) (int, error)
	VisitCountOn(day time.Time) (int, error)

	// Appointments.
	CreateAppointment(a *models.Appointment) error
	ListAppointments(day time.Time) ([]models.Appointment, error)
	UpdateAppointmentStatus(id string, status models.AppointmentStatus) error

	// Staff.
	CreateStaff(s *models.Staff) error
	GetStaff(id string) (*models.Staff, error)
	GetStaffByUsername(username string) (*models.Staff, error)
	CountStaff() (int, error)
	// DeleteStaff nulls ticket assignments but is blocked while visits
	// reference the staff member.
	DeleteStaff(id string) error
}
