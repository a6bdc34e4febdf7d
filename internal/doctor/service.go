// Package doctor wraps the queue engine with the per-session state of the
// doctor's panel: the staged encounter form, the current patient's visit
// history and rolling visit statistics.
package doctor

import (
	"sync"
	"time"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/internal/queue"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

const historyLimit = 10

type Service struct {
	mu     sync.Mutex
	Engine *queue.Engine
	Store  store.Store
	Clock  clock.Clock

	form queue.EncounterForm
}

func NewService(engine *queue.Engine, st store.Store, clk clock.Clock) *Service {
	return &Service{Engine: engine, Store: st, Clock: clk}
}

// Stats are the rolling completed-visit counters shown on the panel. Week
// starts on the locale's Sunday, month on the first.
type Stats struct {
	Today int `json:"today"`
	Week  int `json:"week"`
	Month int `json:"month"`
}

// Panel is the doctor's full view of the queue.
type Panel struct {
	Waiting        []models.QueueTicket `json:"waiting"`
	Current        *models.QueueTicket  `json:"current,omitempty"`
	WaitingCount   int                  `json:"waiting_count"`
	CompletedToday int                  `json:"completed_today"`
	History        []models.Visit       `json:"history"`
	Form           queue.EncounterForm  `json:"form"`
	Stats          Stats                `json:"stats"`
}

func (s *Service) Panel() (*Panel, error) {
	snap, err := s.Engine.Snapshot()
	if err != nil {
		return nil, err
	}

	var history []models.Visit
	if snap.Current != nil {
		history, err = s.Store.VisitHistory(snap.Current.PatientID, historyLimit)
		if err != nil {
			return nil, err
		}
	}

	stats, err := s.stats()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	form := s.form
	s.mu.Unlock()

	return &Panel{
		Waiting:        snap.Waiting,
		Current:        snap.Current,
		WaitingCount:   snap.WaitingCount,
		CompletedToday: snap.CompletedToday,
		History:        history,
		Form:           form,
		Stats:          stats,
	}, nil
}

func (s *Service) stats() (Stats, error) {
	now := s.Clock.Now()
	today := clock.StartOfDay(now)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	todayCount, err := s.Store.VisitCountOn(now)
	if err != nil {
		return Stats{}, err
	}
	weekCount, err := s.Store.VisitCountSince(weekStart)
	if err != nil {
		return Stats{}, err
	}
	monthCount, err := s.Store.VisitCountSince(monthStart)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Today: todayCount, Week: weekCount, Month: monthCount}, nil
}

// StageForm stores the encounter fields typed so far; they are consumed by
// the next Complete.
func (s *Service) StageForm(form queue.EncounterForm) {
	s.mu.Lock()
	s.form = form
	s.mu.Unlock()
}

func (s *Service) CallNext() (*models.QueueTicket, error) {
	return s.Engine.CallNext()
}

func (s *Service) CallSpecific(ticketID string) (*models.QueueTicket, error) {
	return s.Engine.CallSpecific(ticketID)
}

func (s *Service) MarkPresent() (*models.QueueTicket, error) {
	return s.Engine.MarkPresent()
}

func (s *Service) MarkAbsent() (*models.QueueTicket, error) {
	return s.Engine.MarkAbsent()
}

// Complete records the visit for the current ticket using the given form, or
// the staged one when the request carries no fields, then clears the staged
// form. Returns nil when there is no current ticket.
func (s *Service) Complete(doctorID string, form queue.EncounterForm) (*models.Visit, error) {
	if form == (queue.EncounterForm{}) {
		s.mu.Lock()
		form = s.form
		s.mu.Unlock()
	}

	visit, err := s.Engine.CompleteVisit(doctorID, form)
	if err != nil || visit == nil {
		return visit, err
	}

	s.mu.Lock()
	s.form = queue.EncounterForm{}
	s.mu.Unlock()
	return visit, nil
}
