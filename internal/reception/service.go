// Package reception registers patients, issues walk-in tickets and manages
// scheduled appointments. It reads and writes the same store the doctor
// panel and the public display use; there is no separate reception-side
// patient list.
package reception

import (
	"time"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

type Service struct {
	Store store.Store
	Clock clock.Clock
}

func NewService(st store.Store, clk clock.Clock) *Service {
	return &Service{Store: st, Clock: clk}
}

// RegisterInput is the validated reception form.
type RegisterInput struct {
	FullName         string     `json:"full_name" validate:"required,min=3"`
	PhoneNumber      string     `json:"phone_number" validate:"required,min=7,max=15"`
	NationalID       string     `json:"national_id,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Gender           string     `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	Address          string     `json:"address,omitempty"`
	BloodType        string     `json:"blood_type,omitempty"`
	EmergencyContact string     `json:"emergency_contact,omitempty"`
	MedicalHistory   string     `json:"medical_history,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

func (in RegisterInput) patient() *models.Patient {
	return &models.Patient{
		FullName:         in.FullName,
		PhoneNumber:      in.PhoneNumber,
		NationalID:       in.NationalID,
		DateOfBirth:      in.DateOfBirth,
		Gender:           in.Gender,
		Address:          in.Address,
		BloodType:        in.BloodType,
		EmergencyContact: in.EmergencyContact,
		MedicalHistory:   in.MedicalHistory,
		Notes:            in.Notes,
	}
}

// Register persists the patient and issues the day's next ticket in one
// transaction.
func (s *Service) Register(in RegisterInput) (*models.Patient, *models.QueueTicket, error) {
	p := in.patient()
	ticket, err := s.Store.RegisterPatientWithTicket(p)
	if err != nil {
		return nil, nil, err
	}
	return p, ticket, nil
}

// IssueTicket enqueues a returning patient without re-registering them.
func (s *Service) IssueTicket(patientID string) (*models.QueueTicket, error) {
	return s.Store.CreateTicketForPatient(patientID)
}

func (s *Service) Search(query string) ([]models.Patient, error) {
	return s.Store.SearchPatients(query)
}

func (s *Service) Update(id string, in RegisterInput) (*models.Patient, error) {
	existing, err := s.Store.GetPatient(id)
	if err != nil {
		return nil, err
	}
	p := in.patient()
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if err := s.Store.UpdatePatient(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(id string) error {
	return s.Store.DeletePatient(id)
}

// TodayQueue is the reception desk's queue overview.
type TodayQueue struct {
	Waiting        []models.QueueTicket `json:"waiting"`
	Current        *models.QueueTicket  `json:"current,omitempty"`
	WaitingCount   int                  `json:"waiting_count"`
	CompletedToday int                  `json:"completed_today"`
	NextNumber     int                  `json:"next_number"`
}

func (s *Service) Today() (*TodayQueue, error) {
	now := s.Clock.Now()
	waiting, err := s.Store.ListWaiting(now)
	if err != nil {
		return nil, err
	}
	current, err := s.Store.CurrentlyServed(now)
	if err != nil {
		return nil, err
	}
	completed, err := s.Store.CompletedCount(now)
	if err != nil {
		return nil, err
	}
	next, err := s.Store.NextTicketNumber(now)
	if err != nil {
		return nil, err
	}
	return &TodayQueue{
		Waiting:        waiting,
		Current:        current,
		WaitingCount:   len(waiting),
		CompletedToday: completed,
		NextNumber:     next,
	}, nil
}

// AppointmentInput schedules a future visit for an existing patient.
type AppointmentInput struct {
	PatientID       string    `json:"patient_id" validate:"required"`
	DoctorID        string    `json:"doctor_id,omitempty"`
	ScheduledTime   time.Time `json:"scheduled_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

func (s *Service) Schedule(in AppointmentInput) (*models.Appointment, error) {
	if in.DurationMinutes <= 0 {
		in.DurationMinutes = 15
	}
	a := &models.Appointment{
		PatientID:       in.PatientID,
		DoctorID:        in.DoctorID,
		ScheduledTime:   in.ScheduledTime,
		DurationMinutes: in.DurationMinutes,
		Status:          models.AppointmentScheduled,
		Notes:           in.Notes,
	}
	if err := s.Store.CreateAppointment(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) AppointmentsToday() ([]models.Appointment, error) {
	return s.Store.ListAppointments(s.Clock.Now())
}

func (s *Service) SetAppointmentStatus(id string, status models.AppointmentStatus) error {
	return s.Store.UpdateAppointmentStatus(id, status)
}
