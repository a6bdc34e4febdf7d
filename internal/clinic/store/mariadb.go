package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

// SQLStore implements Store on MariaDB through database/sql.
type SQLStore struct {
	DB  *sql.DB
	clk clock.Clock
}

func NewSQLStore(db *sql.DB, clk clock.Clock) *SQLStore {
	return &SQLStore{DB: db, clk: clk}
}

func dayRange(day time.Time) (time.Time, time.Time) {
	start := clock.StartOfDay(day)
	return start, start.Add(24 * time.Hour)
}

const patientColumns = `id, full_name, phone_number, national_id, date_of_birth, gender,
	address, blood_type, emergency_contact, medical_history, notes, created_at, updated_at`

func scanPatient(row interface{ Scan(...interface{}) error }) (*models.Patient, error) {
	var p models.Patient
	var nationalID, gender, address, bloodType, emergency, history, notes sql.NullString
	var dob sql.NullTime
	err := row.Scan(&p.ID, &p.FullName, &p.PhoneNumber, &nationalID, &dob, &gender,
		&address, &bloodType, &emergency, &history, &notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.NationalID = nationalID.String
	p.Gender = gender.String
	p.Address = address.String
	p.BloodType = bloodType.String
	p.EmergencyContact = emergency.String
	p.MedicalHistory = history.String
	p.Notes = notes.String
	if dob.Valid {
		t := dob.Time
		p.DateOfBirth = &t
	}
	return &p, nil
}

func (s *SQLStore) CreatePatient(p *models.Patient) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.clk.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.DB.Exec(`
		INSERT INTO patients
			(id, full_name, phone_number, national_id, date_of_birth, gender,
			 address, blood_type, emergency_contact, medical_history, notes,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FullName, p.PhoneNumber, nullStr(p.NationalID), nullTime(p.DateOfBirth),
		nullStr(p.Gender), nullStr(p.Address), nullStr(p.BloodType),
		nullStr(p.EmergencyContact), nullStr(p.MedicalHistory), nullStr(p.Notes),
		now, now,
	)
	return err
}

func (s *SQLStore) GetPatient(id string) (*models.Patient, error) {
	row := s.DB.QueryRow(`SELECT `+patientColumns+` FROM patients WHERE id = ?`, id)
	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *SQLStore) UpdatePatient(p *models.Patient) error {
	p.UpdatedAt = s.clk.Now()
	res, err := s.DB.Exec(`
		UPDATE patients SET
			full_name = ?, phone_number = ?, national_id = ?, date_of_birth = ?,
			gender = ?, address = ?, blood_type = ?, emergency_contact = ?,
			medical_history = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		p.FullName, p.PhoneNumber, nullStr(p.NationalID), nullTime(p.DateOfBirth),
		nullStr(p.Gender), nullStr(p.Address), nullStr(p.BloodType),
		nullStr(p.EmergencyContact), nullStr(p.MedicalHistory), nullStr(p.Notes),
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeletePatient(id string) error {
	// tickets, visits and appointments cascade via foreign keys
	res, err := s.DB.Exec(`DELETE FROM patients WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SearchPatients(query string) ([]models.Patient, error) {
	like := "%" + query + "%"
	rows, err := s.DB.Query(`
		SELECT `+patientColumns+`
		FROM patients
		WHERE full_name LIKE ? OR phone_number LIKE ? OR national_id LIKE ?
		ORDER BY created_at DESC`,
		like, like, like,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *SQLStore) RegisterPatientWithTicket(p *models.Patient) (*models.QueueTicket, error) {
	now := s.clk.Now()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		INSERT INTO patients
			(id, full_name, phone_number, national_id, date_of_birth, gender,
			 address, blood_type, emergency_contact, medical_history, notes,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FullName, p.PhoneNumber, nullStr(p.NationalID), nullTime(p.DateOfBirth),
		nullStr(p.Gender), nullStr(p.Address), nullStr(p.BloodType),
		nullStr(p.EmergencyContact), nullStr(p.MedicalHistory), nullStr(p.Notes),
		now, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	number, err := nextNumberTx(tx, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	t := &models.QueueTicket{
		ID:           uuid.NewString(),
		TicketNumber: number,
		PatientID:    p.ID,
		Status:       models.StatusWaiting,
		CreatedAt:    now,
		PatientName:  p.FullName,
	}
	_, err = tx.Exec(`
		INSERT INTO queue_tickets (id, ticket_number, patient_id, status, created_at, call_count)
		VALUES (?, ?, ?, ?, ?, 0)`,
		t.ID, t.TicketNumber, t.PatientID, t.Status, t.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// nextNumberTx computes 1 + max(ticket number) among tickets created on the
// same calendar day as now. The uniqueness of the number is an application
// invariant, so the read happens inside the issuing transaction.
func nextNumberTx(tx *sql.Tx, now time.Time) (int, error) {
	start, end := dayRange(now)
	var max sql.NullInt64
	err := tx.QueryRow(`
		SELECT COALESCE(MAX(ticket_number), 0)
		FROM queue_tickets
		WHERE created_at >= ? AND created_at < ?`,
		start, end,
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64) + 1, nil
}

func (s *SQLStore) CreateTicketForPatient(patientID string) (*models.QueueTicket, error) {
	p, err := s.GetPatient(patientID)
	if err != nil {
		return nil, err
	}
	now := s.clk.Now()

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	number, err := nextNumberTx(tx, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	t := &models.QueueTicket{
		ID:           uuid.NewString(),
		TicketNumber: number,
		PatientID:    patientID,
		Status:       models.StatusWaiting,
		CreatedAt:    now,
		PatientName:  p.FullName,
	}
	_, err = tx.Exec(`
		INSERT INTO queue_tickets (id, ticket_number, patient_id, status, created_at, call_count)
		VALUES (?, ?, ?, ?, ?, 0)`,
		t.ID, t.TicketNumber, t.PatientID, t.Status, t.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

const ticketColumns = `t.id, t.ticket_number, t.patient_id, t.doctor_id, t.status,
	t.created_at, t.called_at, t.completed_at, t.call_count, p.full_name`

func scanTicket(row interface{ Scan(...interface{}) error }) (*models.QueueTicket, error) {
	var t models.QueueTicket
	var doctorID sql.NullString
	var calledAt, completedAt sql.NullTime
	err := row.Scan(&t.ID, &t.TicketNumber, &t.PatientID, &doctorID, &t.Status,
		&t.CreatedAt, &calledAt, &completedAt, &t.CallCount, &t.PatientName)
	if err != nil {
		return nil, err
	}
	t.DoctorID = doctorID.String
	if calledAt.Valid {
		v := calledAt.Time
		t.CalledAt = &v
	}
	if completedAt.Valid {
		v := completedAt.Time
		t.CompletedAt = &v
	}
	return &t, nil
}

func (s *SQLStore) GetTicket(id string) (*models.QueueTicket, error) {
	row := s.DB.QueryRow(`
		SELECT `+ticketColumns+`
		FROM queue_tickets t
		JOIN patients p ON t.patient_id = p.id
		WHERE t.id = ?`, id)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *SQLStore) UpdateTicket(t *models.QueueTicket) error {
	res, err := s.DB.Exec(`
		UPDATE queue_tickets SET
			doctor_id = ?, status = ?, called_at = ?, completed_at = ?, call_count = ?
		WHERE id = ?`,
		nullStr(t.DoctorID), t.Status, nullTime(t.CalledAt), nullTime(t.CompletedAt),
		t.CallCount, t.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) CompleteTicket(t *models.QueueTicket, v *models.Visit) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = s.clk.Now()
	_, err = tx.Exec(`
		INSERT INTO visits
			(id, patient_id, doctor_id, diagnosis, prescriptions, notes,
			 attachments, invoice_amount, visit_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.PatientID, v.DoctorID, nullStr(v.Diagnosis), nullStr(v.Prescriptions),
		nullStr(v.Notes), nullStr(v.Attachments), v.InvoiceAmount, v.VisitDate, v.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	res, err := tx.Exec(`
		UPDATE queue_tickets SET
			doctor_id = ?, status = ?, completed_at = ?, call_count = ?
		WHERE id = ?`,
		nullStr(t.DoctorID), t.Status, nullTime(t.CompletedAt), t.CallCount, t.ID,
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	return tx.Commit()
}

func (s *SQLStore) ListWaiting(day time.Time) ([]models.QueueTicket, error) {
	start, end := dayRange(day)
	rows, err := s.DB.Query(`
		SELECT `+ticketColumns+`
		FROM queue_tickets t
		JOIN patients p ON t.patient_id = p.id
		WHERE t.created_at >= ? AND t.created_at < ?
		  AND t.status IN (?, ?)
		ORDER BY
			CASE WHEN t.status = ? THEN 0 ELSE 1 END,
			t.ticket_number ASC`,
		start, end, models.StatusWaiting, models.StatusAwaitingRecall,
		models.StatusAwaitingRecall,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.QueueTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *SQLStore) CurrentlyServed(day time.Time) (*models.QueueTicket, error) {
	start, end := dayRange(day)
	row := s.DB.QueryRow(`
		SELECT `+ticketColumns+`
		FROM queue_tickets t
		JOIN patients p ON t.patient_id = p.id
		WHERE t.created_at >= ? AND t.created_at < ?
		  AND t.status IN (?, ?)
		ORDER BY t.called_at DESC
		LIMIT 1`,
		start, end, models.StatusCalled, models.StatusInProgress,
	)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (s *SQLStore) CompletedCount(day time.Time) (int, error) {
	start, end := dayRange(day)
	var n int
	err := s.DB.QueryRow(`
		SELECT COUNT(*)
		FROM queue_tickets
		WHERE created_at >= ? AND created_at < ? AND status = ?`,
		start, end, models.StatusCompleted,
	).Scan(&n)
	return n, err
}

func (s *SQLStore) RecentCompleted(day time.Time, limit int) ([]models.QueueTicket, error) {
	start, end := dayRange(day)
	rows, err := s.DB.Query(`
		SELECT `+ticketColumns+`
		FROM queue_tickets t
		JOIN patients p ON t.patient_id = p.id
		WHERE t.created_at >= ? AND t.created_at < ? AND t.status = ?
		ORDER BY t.completed_at DESC
		LIMIT ?`,
		start, end, models.StatusCompleted, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.QueueTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *SQLStore) NextTicketNumber(day time.Time) (int, error) {
	start, end := dayRange(day)
	var max sql.NullInt64
	err := s.DB.QueryRow(`
		SELECT COALESCE(MAX(ticket_number), 0)
		FROM queue_tickets
		WHERE created_at >= ? AND created_at < ?`,
		start, end,
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64) + 1, nil
}

func (s *SQLStore) VisitHistory(patientID string, limit int) ([]models.Visit, error) {
	rows, err := s.DB.Query(`
		SELECT id, patient_id, doctor_id, diagnosis, prescriptions, notes,
		       attachments, invoice_amount, visit_date, created_at
		FROM visits
		WHERE patient_id = ?
		ORDER BY visit_date DESC
		LIMIT ?`,
		patientID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Visit
	for rows.Next() {
		var v models.Visit
		var diagnosis, prescriptions, notes, attachments sql.NullString
		var invoice sql.NullFloat64
		err := rows.Scan(&v.ID, &v.PatientID, &v.DoctorID, &diagnosis, &prescriptions,
			&notes, &attachments, &invoice, &v.VisitDate, &v.CreatedAt)
		if err != nil {
			return nil, err
		}
		v.Diagnosis = diagnosis.String
		v.Prescriptions = prescriptions.String
		v.Notes = notes.String
		v.Attachments = attachments.String
		if invoice.Valid {
			amount := invoice.Float64
			v.InvoiceAmount = &amount
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLStore) VisitCountSince(since time.Time) (int, error) {
	var n int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM visits WHERE visit_date >= ?`, since).Scan(&n)
	return n, err
}

func (s *SQLStore) VisitCountOn(day time.Time) (int, error) {
	start, end := dayRange(day)
	var n int
	err := s.DB.QueryRow(
		`SELECT COUNT(*) FROM visits WHERE visit_date >= ? AND visit_date < ?`,
		start, end,
	).Scan(&n)
	return n, err
}

func (s *SQLStore) CreateAppointment(a *models.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.AppointmentScheduled
	}
	a.CreatedAt = s.clk.Now()
	_, err := s.DB.Exec(`
		INSERT INTO appointments
			(id, patient_id, doctor_id, scheduled_time, duration_minutes, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.PatientID, nullStr(a.DoctorID), a.ScheduledTime, a.DurationMinutes,
		a.Status, nullStr(a.Notes), a.CreatedAt,
	)
	return err
}

func (s *SQLStore) ListAppointments(day time.Time) ([]models.Appointment, error) {
	start, end := dayRange(day)
	rows, err := s.DB.Query(`
		SELECT a.id, a.patient_id, a.doctor_id, a.scheduled_time, a.duration_minutes,
		       a.status, a.notes, a.created_at, p.full_name
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		WHERE a.scheduled_time >= ? AND a.scheduled_time < ?
		ORDER BY a.scheduled_time ASC`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Appointment
	for rows.Next() {
		var a models.Appointment
		var doctorID, notes sql.NullString
		err := rows.Scan(&a.ID, &a.PatientID, &doctorID, &a.ScheduledTime,
			&a.DurationMinutes, &a.Status, &notes, &a.CreatedAt, &a.PatientName)
		if err != nil {
			return nil, err
		}
		a.DoctorID = doctorID.String
		a.Notes = notes.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateAppointmentStatus(id string, status models.AppointmentStatus) error {
	res, err := s.DB.Exec(`UPDATE appointments SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) CreateStaff(st *models.Staff) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	st.CreatedAt = s.clk.Now()
	_, err := s.DB.Exec(`
		INSERT INTO staff (id, username, password_hash, full_name, role, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.Username, st.PasswordHash, st.FullName, st.Role, st.Active, st.CreatedAt,
	)
	return err
}

const staffColumns = `id, username, password_hash, full_name, role, active, created_at`

func scanStaff(row interface{ Scan(...interface{}) error }) (*models.Staff, error) {
	var st models.Staff
	err := row.Scan(&st.ID, &st.Username, &st.PasswordHash, &st.FullName,
		&st.Role, &st.Active, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *SQLStore) GetStaff(id string) (*models.Staff, error) {
	row := s.DB.QueryRow(`SELECT `+staffColumns+` FROM staff WHERE id = ?`, id)
	st, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return st, err
}

func (s *SQLStore) GetStaffByUsername(username string) (*models.Staff, error) {
	row := s.DB.QueryRow(`SELECT `+staffColumns+` FROM staff WHERE username = ?`, username)
	st, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return st, err
}

func (s *SQLStore) CountStaff() (int, error) {
	var n int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM staff`).Scan(&n)
	return n, err
}

func (s *SQLStore) DeleteStaff(id string) error {
	var visits int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM visits WHERE doctor_id = ?`, id).Scan(&visits); err != nil {
		return err
	}
	if visits > 0 {
		return ErrStaffHasVisits
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	if _, err = tx.Exec(`UPDATE queue_tickets SET doctor_id = NULL WHERE doctor_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	res, err := tx.Exec(`DELETE FROM staff WHERE id = ?`, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return ErrNotFound
	}
	return tx.Commit()
}

func nullStr(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func nullTime(v *time.Time) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
