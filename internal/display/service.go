// Package display drives the public queue monitor: a read-only, periodically
// refreshed projection of the ticket store with an audio announcement when
// the called ticket number changes.
package display

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/pkg/clock"
	"github.com/hes0o/clinic-management-system/ws"
)

const (
	waitingPreviewSize   = 5
	completedPreviewSize = 3
)

var healthTips = []string{
	"Drink eight glasses of water a day.",
	"A thirty-minute walk keeps your heart healthy.",
	"Seven to eight hours of sleep are essential.",
	"Eat fresh fruit and vegetables every day.",
	"Wash your hands regularly to prevent illness.",
	"Regular exercise strengthens the immune system.",
	"Cut down on soft drinks and sugar.",
	"Sunlight is a natural source of vitamin D.",
	"Limit screen time before bed for better sleep.",
}

// Board is the projection the display screen renders.
type Board struct {
	CurrentTicketNumber  int                  `json:"current_ticket_number"`
	CurrentPatientName   string               `json:"current_patient_name"`
	Waiting              []models.QueueTicket `json:"waiting"`
	RecentCompleted      []models.QueueTicket `json:"recent_completed"`
	WaitingCount         int                  `json:"waiting_count"`
	EstimatedWaitMinutes int                  `json:"estimated_wait_minutes"`
	CompletedToday       int                  `json:"completed_today"`
	HealthTip            string               `json:"health_tip"`
	Muted                bool                 `json:"muted"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// Service polls the store and republishes the board. All state behind one
// mutex: refreshes may come from the ticker goroutine or a request.
type Service struct {
	mu       sync.Mutex
	store    store.Store
	clk      clock.Clock
	notifier Notifier
	hub      *ws.Hub

	avgServiceMinutes float64
	muted             bool
	lastNumber        int
	tip               string
	board             Board

	stopOnce sync.Once
	stop     chan struct{}
}

func NewService(st store.Store, clk clock.Clock, notifier Notifier, hub *ws.Hub, avgServiceMinutes float64) *Service {
	return &Service{
		store:             st,
		clk:               clk,
		notifier:          notifier,
		hub:               hub,
		avgServiceMinutes: avgServiceMinutes,
		tip:               healthTips[0],
		stop:              make(chan struct{}),
	}
}

// Start launches the refresh ticker and a slower cosmetic ticker rotating the
// health tip. Stop with Stop.
func (s *Service) Start(refreshInterval, tipInterval time.Duration) {
	go func() {
		refresh := time.NewTicker(refreshInterval)
		tips := time.NewTicker(tipInterval)
		defer refresh.Stop()
		defer tips.Stop()
		for {
			select {
			case <-refresh.C:
				if _, err := s.RefreshNow(); err != nil {
					log.Printf("display: refresh: %v", err)
				}
			case <-tips.C:
				s.rotateTip()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Service) rotateTip() {
	s.mu.Lock()
	s.tip = healthTips[rand.Intn(len(healthTips))]
	s.mu.Unlock()
}

// RefreshNow re-reads the store and republishes the board. When the called
// ticket number changed since the previous refresh (and the board is not
// muted) it fires the audio announcement; announcement failure is logged and
// otherwise ignored.
func (s *Service) RefreshNow() (*Board, error) {
	now := s.clk.Now()

	current, err := s.store.CurrentlyServed(now)
	if err != nil {
		return nil, err
	}
	waiting, err := s.store.ListWaiting(now)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.RecentCompleted(now, completedPreviewSize)
	if err != nil {
		return nil, err
	}
	completed, err := s.store.CompletedCount(now)
	if err != nil {
		return nil, err
	}

	number := 0
	name := ""
	if current != nil {
		number = current.TicketNumber
		name = current.PatientName
	}

	preview := waiting
	if len(preview) > waitingPreviewSize {
		preview = preview[:waitingPreviewSize]
	}

	s.mu.Lock()
	board := Board{
		CurrentTicketNumber:  number,
		CurrentPatientName:   name,
		Waiting:              preview,
		RecentCompleted:      recent,
		WaitingCount:         len(waiting),
		EstimatedWaitMinutes: int(float64(len(waiting)) * s.avgServiceMinutes),
		CompletedToday:       completed,
		HealthTip:            s.tip,
		Muted:                s.muted,
		UpdatedAt:            now,
	}
	changed := number != s.lastNumber
	announce := changed && number > 0 && !s.muted
	s.lastNumber = number
	s.board = board
	s.mu.Unlock()

	if announce {
		go func(n int) {
			if err := s.notifier.Announce(n); err != nil {
				log.Printf("display: audio notification: %v", err)
			}
		}(number)
	}
	if changed && s.hub != nil {
		s.hub.BroadcastJSON("display.board", board)
	}
	return &board, nil
}

// Board returns the last published projection without touching the store.
func (s *Service) Board() Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

// SetMuted toggles the audio announcements.
func (s *Service) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

func (s *Service) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}
