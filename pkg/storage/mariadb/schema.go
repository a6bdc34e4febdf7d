package mariadb

import "database/sql"

// EnsureSchema creates the tables on first start. Ticket number uniqueness
// per day is enforced by the store's number assignment, not by a constraint
// here.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS patients (
			id CHAR(36) PRIMARY KEY,
			full_name VARCHAR(255) NOT NULL,
			phone_number VARCHAR(32) NOT NULL,
			national_id VARCHAR(32),
			date_of_birth DATETIME,
			gender VARCHAR(8),
			address TEXT,
			blood_type VARCHAR(8),
			emergency_contact VARCHAR(255),
			medical_history TEXT,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS staff (
			id CHAR(36) PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS queue_tickets (
			id CHAR(36) PRIMARY KEY,
			ticket_number INT NOT NULL,
			patient_id CHAR(36) NOT NULL,
			doctor_id CHAR(36),
			status VARCHAR(24) NOT NULL,
			created_at DATETIME NOT NULL,
			called_at DATETIME,
			completed_at DATETIME,
			call_count INT NOT NULL DEFAULT 0,
			INDEX idx_tickets_day (created_at),
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE,
			FOREIGN KEY (doctor_id) REFERENCES staff(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS visits (
			id CHAR(36) PRIMARY KEY,
			patient_id CHAR(36) NOT NULL,
			doctor_id CHAR(36) NOT NULL,
			diagnosis TEXT,
			prescriptions TEXT,
			notes TEXT,
			attachments TEXT,
			invoice_amount DECIMAL(12,2),
			visit_date DATETIME NOT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_visits_patient (patient_id, visit_date),
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE,
			FOREIGN KEY (doctor_id) REFERENCES staff(id) ON DELETE RESTRICT
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id CHAR(36) PRIMARY KEY,
			patient_id CHAR(36) NOT NULL,
			doctor_id CHAR(36),
			scheduled_time DATETIME NOT NULL,
			duration_minutes INT NOT NULL DEFAULT 15,
			status VARCHAR(16) NOT NULL,
			notes TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE,
			FOREIGN KEY (doctor_id) REFERENCES staff(id) ON DELETE SET NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
