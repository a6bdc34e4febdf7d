package staff

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	Store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{Store: st}
}

// Authenticate verifies the username/password pair against the stored bcrypt
// hash and rejects inactive accounts.
func (s *Service) Authenticate(username, password string) (*models.Staff, error) {
	member, err := s.Store.GetStaffByUsername(username)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !member.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return member, nil
}

// Create hashes the password and stores a new staff member.
func (s *Service) Create(username, password, fullName string, role models.StaffRole) (*models.Staff, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	member := &models.Staff{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		Active:       true,
	}
	if err := s.Store.CreateStaff(member); err != nil {
		return nil, err
	}
	return member, nil
}

// ResolveDoctorID returns the doctor id to stamp on tickets and visits: the
// session staff id when it belongs to an active doctor, otherwise the
// configured default operator.
func (s *Service) ResolveDoctorID(sessionStaffID, defaultDoctorID string) string {
	if sessionStaffID != "" {
		member, err := s.Store.GetStaff(sessionStaffID)
		if err == nil && member.Active && member.Role == models.RoleDoctor {
			return member.ID
		}
	}
	return defaultDoctorID
}

// SeedDefaults creates an admin and a doctor account on an empty staff table
// so a fresh installation is usable. Returns the doctor id for use as the
// default operator.
func (s *Service) SeedDefaults() (string, error) {
	n, err := s.Store.CountStaff()
	if err != nil {
		return "", err
	}
	if n > 0 {
		doc, err := s.Store.GetStaffByUsername("doctor")
		if err == nil {
			return doc.ID, nil
		}
		return "", nil
	}

	if _, err := s.Create("admin", "admin", "Administrator", models.RoleAdmin); err != nil {
		return "", err
	}
	doc, err := s.Create("doctor", "doctor", "Default Doctor", models.RoleDoctor)
	if err != nil {
		return "", err
	}
	log.Println("Seeded default staff accounts (admin/doctor); change the passwords.")
	return doc.ID, nil
}
