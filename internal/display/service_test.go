package display

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []int
}

func (r *recordingNotifier) Announce(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, n)
	return nil
}

func (r *recordingNotifier) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.calls...)
}

func newTestDisplay(t *testing.T) (*Service, *store.MemoryStore, *clock.Fake, *recordingNotifier) {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore(clk)
	notifier := &recordingNotifier{}
	svc := NewService(st, clk, notifier, nil, 10)
	return svc, st, clk, notifier
}

func addTickets(t *testing.T, st *store.MemoryStore, n int) []*models.QueueTicket {
	t.Helper()
	var out []*models.QueueTicket
	for i := 0; i < n; i++ {
		ticket, err := st.RegisterPatientWithTicket(&models.Patient{
			FullName:    "Patient",
			PhoneNumber: "0500000000",
		})
		require.NoError(t, err)
		out = append(out, ticket)
	}
	return out
}

func callTicket(t *testing.T, st *store.MemoryStore, clk *clock.Fake, ticket *models.QueueTicket) {
	t.Helper()
	now := clk.Now()
	ticket.Status = models.StatusCalled
	ticket.CalledAt = &now
	require.NoError(t, st.UpdateTicket(ticket))
	clk.Advance(time.Second)
}

func completeTicket(t *testing.T, st *store.MemoryStore, clk *clock.Fake, ticket *models.QueueTicket) {
	t.Helper()
	now := clk.Now()
	ticket.Status = models.StatusCompleted
	ticket.CompletedAt = &now
	require.NoError(t, st.UpdateTicket(ticket))
	clk.Advance(time.Second)
}

func waitForCalls(t *testing.T, notifier *recordingNotifier, want []int) {
	t.Helper()
	require.Eventually(t, func() bool {
		got := notifier.snapshot()
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)
}

func TestAudioFiresOnlyOnTicketNumberChange(t *testing.T) {
	svc, st, clk, notifier := newTestDisplay(t)

	// observed sequence across polls: 0, 0, 5, 5, 7
	board, err := svc.RefreshNow()
	require.NoError(t, err)
	require.Equal(t, 0, board.CurrentTicketNumber)
	_, err = svc.RefreshNow()
	require.NoError(t, err)
	require.Empty(t, notifier.snapshot())

	tickets := addTickets(t, st, 5)
	callTicket(t, st, clk, tickets[4]) // #5

	_, err = svc.RefreshNow()
	require.NoError(t, err)
	waitForCalls(t, notifier, []int{5})

	_, err = svc.RefreshNow()
	require.NoError(t, err)
	require.Equal(t, []int{5}, notifier.snapshot())

	more := addTickets(t, st, 2) // #6, #7
	completeTicket(t, st, clk, tickets[4])
	callTicket(t, st, clk, more[1]) // #7

	_, err = svc.RefreshNow()
	require.NoError(t, err)
	waitForCalls(t, notifier, []int{5, 7})
}

func TestAudioSuppressedWhenMuted(t *testing.T) {
	svc, st, clk, notifier := newTestDisplay(t)
	svc.SetMuted(true)

	tickets := addTickets(t, st, 1)
	callTicket(t, st, clk, tickets[0])

	board, err := svc.RefreshNow()
	require.NoError(t, err)
	require.Equal(t, 1, board.CurrentTicketNumber)
	require.True(t, board.Muted)
	require.Empty(t, notifier.snapshot())

	// unmuting announces the next change, not the current state
	svc.SetMuted(false)
	_, err = svc.RefreshNow()
	require.NoError(t, err)
	require.Empty(t, notifier.snapshot())
}

func TestBoardPreviewsAndEstimatedWait(t *testing.T) {
	svc, st, clk, _ := newTestDisplay(t)

	tickets := addTickets(t, st, 8)
	callTicket(t, st, clk, tickets[0])
	completeTicket(t, st, clk, tickets[1])

	board, err := svc.RefreshNow()
	require.NoError(t, err)

	require.Equal(t, 1, board.CurrentTicketNumber)
	require.Equal(t, "Patient", board.CurrentPatientName)
	// 6 still waiting, preview capped at 5
	require.Equal(t, 6, board.WaitingCount)
	require.Len(t, board.Waiting, 5)
	require.Equal(t, 60, board.EstimatedWaitMinutes)
	require.Len(t, board.RecentCompleted, 1)
	require.Equal(t, 1, board.CompletedToday)
	require.NotEmpty(t, board.HealthTip)

	// Board() republishes the cached projection
	cached := svc.Board()
	require.Equal(t, board.CurrentTicketNumber, cached.CurrentTicketNumber)
}

func TestNotifierFailureDoesNotBreakRefresh(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore(clk)
	svc := NewService(st, clk, failingNotifier{}, nil, 10)

	tickets := addTickets(t, st, 1)
	callTicket(t, st, clk, tickets[0])

	board, err := svc.RefreshNow()
	require.NoError(t, err)
	require.Equal(t, 1, board.CurrentTicketNumber)

	// next poll still works
	_, err = svc.RefreshNow()
	require.NoError(t, err)
}

type failingNotifier struct{}

func (failingNotifier) Announce(int) error {
	return errors.New("audio backend unavailable")
}
