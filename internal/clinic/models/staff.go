package models

import "time"

type StaffRole string

const (
	RoleAdmin        StaffRole = "admin"
	RoleDoctor       StaffRole = "doctor"
	RoleReceptionist StaffRole = "receptionist"
)

// Staff is a system user: doctors, receptionists and administrators.
type Staff struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         StaffRole `json:"role" db:"role"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
