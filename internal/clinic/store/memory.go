package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

// MemoryStore is an in-memory Store used by tests and by the demo mode. A
// single mutex serializes every access; callers on timer goroutines and the
// request goroutines interleave safely.
type MemoryStore struct {
	mu           sync.Mutex
	clk          clock.Clock
	patients     map[string]*models.Patient
	tickets      map[string]*models.QueueTicket
	visits       []*models.Visit
	appointments []*models.Appointment
	staff        map[string]*models.Staff
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clk:      clk,
		patients: make(map[string]*models.Patient),
		tickets:  make(map[string]*models.QueueTicket),
		staff:    make(map[string]*models.Staff),
	}
}

func sameDay(t, day time.Time) bool {
	return clock.StartOfDay(t).Equal(clock.StartOfDay(day))
}

func (m *MemoryStore) CreatePatient(p *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := m.clk.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *MemoryStore) GetPatient(id string) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) UpdatePatient(p *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = m.clk.Now()
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *MemoryStore) DeletePatient(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(m.patients, id)
	for tid, t := range m.tickets {
		if t.PatientID == id {
			delete(m.tickets, tid)
		}
	}
	visits := m.visits[:0]
	for _, v := range m.visits {
		if v.PatientID != id {
			visits = append(visits, v)
		}
	}
	m.visits = visits
	appts := m.appointments[:0]
	for _, a := range m.appointments {
		if a.PatientID != id {
			appts = append(appts, a)
		}
	}
	m.appointments = appts
	return nil
}

func (m *MemoryStore) SearchPatients(query string) ([]models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Patient
	for _, p := range m.patients {
		if q == "" ||
			strings.Contains(strings.ToLower(p.FullName), q) ||
			strings.Contains(p.PhoneNumber, q) ||
			strings.Contains(p.NationalID, q) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) RegisterPatientWithTicket(p *models.Patient) (*models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clk.Now()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.patients[p.ID] = &cp

	t := &models.QueueTicket{
		ID:           uuid.NewString(),
		TicketNumber: m.nextNumberLocked(now),
		PatientID:    p.ID,
		Status:       models.StatusWaiting,
		CreatedAt:    now,
	}
	m.tickets[t.ID] = t
	out := *t
	out.PatientName = p.FullName
	return &out, nil
}

func (m *MemoryStore) CreateTicketForPatient(patientID string) (*models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.clk.Now()
	t := &models.QueueTicket{
		ID:           uuid.NewString(),
		TicketNumber: m.nextNumberLocked(now),
		PatientID:    patientID,
		Status:       models.StatusWaiting,
		CreatedAt:    now,
	}
	m.tickets[t.ID] = t
	out := *t
	out.PatientName = p.FullName
	return &out, nil
}

func (m *MemoryStore) nextNumberLocked(day time.Time) int {
	max := 0
	for _, t := range m.tickets {
		if sameDay(t.CreatedAt, day) && t.TicketNumber > max {
			max = t.TicketNumber
		}
	}
	return max + 1
}

func (m *MemoryStore) GetTicket(id string) (*models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *t
	m.fillPatientNameLocked(&out)
	return &out, nil
}

func (m *MemoryStore) UpdateTicket(t *models.QueueTicket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.tickets[t.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Status = t.Status
	cur.DoctorID = t.DoctorID
	cur.CalledAt = t.CalledAt
	cur.CompletedAt = t.CompletedAt
	cur.CallCount = t.CallCount
	return nil
}

func (m *MemoryStore) CompleteTicket(t *models.QueueTicket, v *models.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.tickets[t.ID]
	if !ok {
		return ErrNotFound
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = m.clk.Now()
	cv := *v
	m.visits = append(m.visits, &cv)
	cur.Status = t.Status
	cur.DoctorID = t.DoctorID
	cur.CompletedAt = t.CompletedAt
	cur.CallCount = t.CallCount
	return nil
}

func (m *MemoryStore) fillPatientNameLocked(t *models.QueueTicket) {
	if p, ok := m.patients[t.PatientID]; ok {
		t.PatientName = p.FullName
	}
}

func (m *MemoryStore) ListWaiting(day time.Time) ([]models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.QueueTicket
	for _, t := range m.tickets {
		if !sameDay(t.CreatedAt, day) {
			continue
		}
		if t.Status == models.StatusWaiting || t.Status == models.StatusAwaitingRecall {
			cp := *t
			m.fillPatientNameLocked(&cp)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		// awaiting recall sorts ahead of plain waiting, then ascending number
		ri := 1
		if out[i].Status == models.StatusAwaitingRecall {
			ri = 0
		}
		rj := 1
		if out[j].Status == models.StatusAwaitingRecall {
			rj = 0
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].TicketNumber < out[j].TicketNumber
	})
	return out, nil
}

func (m *MemoryStore) CurrentlyServed(day time.Time) (*models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cur *models.QueueTicket
	for _, t := range m.tickets {
		if !sameDay(t.CreatedAt, day) {
			continue
		}
		if t.Status != models.StatusCalled && t.Status != models.StatusInProgress {
			continue
		}
		// normally at most one ticket is being served; pick the most
		// recently called if the data disagrees
		if cur == nil {
			cur = t
			continue
		}
		if t.CalledAt != nil && (cur.CalledAt == nil || t.CalledAt.After(*cur.CalledAt)) {
			cur = t
		}
	}
	if cur == nil {
		return nil, nil
	}
	out := *cur
	m.fillPatientNameLocked(&out)
	return &out, nil
}

func (m *MemoryStore) CompletedCount(day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tickets {
		if sameDay(t.CreatedAt, day) && t.Status == models.StatusCompleted {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) RecentCompleted(day time.Time, limit int) ([]models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.QueueTicket
	for _, t := range m.tickets {
		if sameDay(t.CreatedAt, day) && t.Status == models.StatusCompleted {
			cp := *t
			m.fillPatientNameLocked(&cp)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := out[i].CompletedAt, out[j].CompletedAt
		if ci == nil || cj == nil {
			return cj == nil && ci != nil
		}
		return ci.After(*cj)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) NextTicketNumber(day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextNumberLocked(day), nil
}

func (m *MemoryStore) VisitHistory(patientID string, limit int) ([]models.Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Visit
	for _, v := range m.visits {
		if v.PatientID == patientID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VisitDate.After(out[j].VisitDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) VisitCountSince(since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.visits {
		if !v.VisitDate.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) VisitCountOn(day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.visits {
		if sameDay(v.VisitDate, day) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CreateAppointment(a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.patients[a.PatientID]; !ok {
		return ErrNotFound
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.AppointmentScheduled
	}
	a.CreatedAt = m.clk.Now()
	cp := *a
	m.appointments = append(m.appointments, &cp)
	return nil
}

func (m *MemoryStore) ListAppointments(day time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, a := range m.appointments {
		if sameDay(a.ScheduledTime, day) {
			cp := *a
			if p, ok := m.patients[a.PatientID]; ok {
				cp.PatientName = p.FullName
			}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out, nil
}

func (m *MemoryStore) UpdateAppointmentStatus(id string, status models.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.appointments {
		if a.ID == id {
			a.Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) CreateStaff(s *models.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.staff {
		if existing.Username == s.Username {
			return ErrDuplicate
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = m.clk.Now()
	cp := *s
	m.staff[s.ID] = &cp
	return nil
}

func (m *MemoryStore) GetStaff(id string) (*models.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) GetStaffByUsername(username string) (*models.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.staff {
		if s.Username == username {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CountStaff() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.staff), nil
}

func (m *MemoryStore) DeleteStaff(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[id]; !ok {
		return ErrNotFound
	}
	for _, v := range m.visits {
		if v.DoctorID == id {
			return ErrStaffHasVisits
		}
	}
	for _, t := range m.tickets {
		if t.DoctorID == id {
			t.DoctorID = ""
		}
	}
	delete(m.staff, id)
	return nil
}
