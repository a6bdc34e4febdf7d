// Package queue implements the walk-in ticket state machine shared by the
// reception desk, the doctor panel and the public display.
//
// A ticket moves through:
//
//	Waiting -> Called -> InProgress -> Completed
//	Called  -> AwaitingRecall (no response) -> Called (re-entry)
//
// Operations whose precondition object is absent (empty waiting list, no
// current ticket) return nil without mutating anything: an idle queue is a
// normal steady state, not an error.
package queue

import (
	"sync"
	"time"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

// Engine applies queue state transitions against the ticket store. A single
// mutex serializes all mutations: user actions and timer-driven refreshes may
// arrive on different goroutines, but at most one transition runs at a time.
type Engine struct {
	mu    sync.Mutex
	store store.Store
	clk   clock.Clock
}

func NewEngine(st store.Store, clk clock.Clock) *Engine {
	return &Engine{store: st, clk: clk}
}

// Snapshot is the projection every consumer re-derives after a mutation.
type Snapshot struct {
	Waiting        []models.QueueTicket `json:"waiting"`
	Current        *models.QueueTicket  `json:"current,omitempty"`
	WaitingCount   int                  `json:"waiting_count"`
	CompletedToday int                  `json:"completed_today"`
}

// EncounterForm carries the free-text fields captured on the doctor panel
// before a visit is completed.
type EncounterForm struct {
	Diagnosis     string
	Prescriptions string
	Notes         string
	InvoiceAmount *float64
}

// CallNext pages the head of the waiting list. A current ticket still in
// Called (the patient never responded) is first demoted to AwaitingRecall
// with its call count incremented. Returns nil when nobody is waiting.
func (e *Engine) CallNext() (*models.QueueTicket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clk.Now()
	waiting, err := e.store.ListWaiting(now)
	if err != nil {
		return nil, err
	}
	if len(waiting) == 0 {
		return nil, nil
	}

	if err := e.demoteUnresponsive(now); err != nil {
		return nil, err
	}

	next := waiting[0]
	return e.promote(&next, now)
}

// CallSpecific pages the named ticket regardless of its place in the waiting
// list, letting staff jump the order deliberately. Returns nil when the
// ticket does not exist or is not eligible to be called.
func (e *Engine) CallSpecific(ticketID string) (*models.QueueTicket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.store.GetTicket(ticketID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if t.Status != models.StatusWaiting && t.Status != models.StatusAwaitingRecall {
		return nil, nil
	}

	now := e.clk.Now()
	if err := e.demoteUnresponsive(now); err != nil {
		return nil, err
	}
	return e.promote(t, now)
}

func (e *Engine) demoteUnresponsive(now time.Time) error {
	current, err := e.store.CurrentlyServed(now)
	if err != nil {
		return err
	}
	if current == nil || current.Status != models.StatusCalled {
		return nil
	}
	current.Status = models.StatusAwaitingRecall
	current.CallCount++
	return e.store.UpdateTicket(current)
}

func (e *Engine) promote(t *models.QueueTicket, now time.Time) (*models.QueueTicket, error) {
	t.Status = models.StatusCalled
	t.CalledAt = &now
	t.CallCount++
	if err := e.store.UpdateTicket(t); err != nil {
		return nil, err
	}
	return t, nil
}

// MarkPresent moves the current ticket to InProgress. The patient responded
// and is with the doctor.
func (e *Engine) MarkPresent() (*models.QueueTicket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.store.CurrentlyServed(e.clk.Now())
	if err != nil || current == nil {
		return nil, err
	}
	current.Status = models.StatusInProgress
	if err := e.store.UpdateTicket(current); err != nil {
		return nil, err
	}
	return current, nil
}

// MarkAbsent moves the current ticket back to AwaitingRecall. It keeps its
// priority: AwaitingRecall tickets sort ahead of plain Waiting ones on the
// next call.
func (e *Engine) MarkAbsent() (*models.QueueTicket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.store.CurrentlyServed(e.clk.Now())
	if err != nil || current == nil {
		return nil, err
	}
	current.Status = models.StatusAwaitingRecall
	if err := e.store.UpdateTicket(current); err != nil {
		return nil, err
	}
	return current, nil
}

// CompleteVisit writes the permanent visit record and closes the current
// ticket. The visit insert and the status change commit together or not at
// all; on failure the ticket keeps its pre-completion status. Returns nil
// when there is no current ticket.
func (e *Engine) CompleteVisit(doctorID string, form EncounterForm) (*models.Visit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clk.Now()
	current, err := e.store.CurrentlyServed(now)
	if err != nil || current == nil {
		return nil, err
	}

	visit := &models.Visit{
		PatientID:     current.PatientID,
		DoctorID:      doctorID,
		Diagnosis:     form.Diagnosis,
		Prescriptions: form.Prescriptions,
		Notes:         form.Notes,
		InvoiceAmount: form.InvoiceAmount,
		VisitDate:     now,
	}

	current.Status = models.StatusCompleted
	current.CompletedAt = &now
	current.DoctorID = doctorID
	if err := e.store.CompleteTicket(current, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// Snapshot re-derives the queue projections from the store. Idempotent, no
// mutation.
func (e *Engine) Snapshot() (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() (*Snapshot, error) {
	now := e.clk.Now()
	waiting, err := e.store.ListWaiting(now)
	if err != nil {
		return nil, err
	}
	current, err := e.store.CurrentlyServed(now)
	if err != nil {
		return nil, err
	}
	completed, err := e.store.CompletedCount(now)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Waiting:        waiting,
		Current:        current,
		WaitingCount:   len(waiting),
		CompletedToday: completed,
	}, nil
}
