package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

func newTestStore(t *testing.T) (*MemoryStore, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	return NewMemoryStore(clk), clk
}

func addTicket(t *testing.T, st *MemoryStore, name string) *models.QueueTicket {
	t.Helper()
	ticket, err := st.RegisterPatientWithTicket(&models.Patient{
		FullName:    name,
		PhoneNumber: "0500000000",
	})
	require.NoError(t, err)
	return ticket
}

func setStatus(t *testing.T, st *MemoryStore, ticket *models.QueueTicket, status models.TicketStatus) {
	t.Helper()
	ticket.Status = status
	require.NoError(t, st.UpdateTicket(ticket))
}

func TestNextTicketNumberIsSequentialPerDay(t *testing.T) {
	st, clk := newTestStore(t)

	for want := 1; want <= 5; want++ {
		n, err := st.NextTicketNumber(clk.Now())
		require.NoError(t, err)
		require.Equal(t, want, n)

		ticket := addTicket(t, st, "Patient")
		require.Equal(t, want, ticket.TicketNumber)
	}

	// numbering resets on the next calendar day, independent of yesterday
	clk.Advance(24 * time.Hour)
	n, err := st.NextTicketNumber(clk.Now())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	ticket := addTicket(t, st, "Patient")
	require.Equal(t, 1, ticket.TicketNumber)
}

func TestListWaitingOrdersRecallFirstThenNumber(t *testing.T) {
	st, clk := newTestStore(t)

	t1 := addTicket(t, st, "One")   // #1
	t2 := addTicket(t, st, "Two")   // #2
	t3 := addTicket(t, st, "Three") // #3

	setStatus(t, st, t1, models.StatusAwaitingRecall)
	// t2 and t3 stay waiting

	waiting, err := st.ListWaiting(clk.Now())
	require.NoError(t, err)
	require.Len(t, waiting, 3)
	require.Equal(t, t1.ID, waiting[0].ID)
	require.Equal(t, t2.ID, waiting[1].ID)
	require.Equal(t, t3.ID, waiting[2].ID)
}

func TestCurrentlyServedPicksMostRecentlyCalled(t *testing.T) {
	st, clk := newTestStore(t)

	t1 := addTicket(t, st, "One")
	t2 := addTicket(t, st, "Two")

	first := clk.Now()
	t1.Status = models.StatusCalled
	t1.CalledAt = &first
	require.NoError(t, st.UpdateTicket(t1))

	clk.Advance(time.Minute)
	second := clk.Now()
	t2.Status = models.StatusCalled
	t2.CalledAt = &second
	require.NoError(t, st.UpdateTicket(t2))

	current, err := st.CurrentlyServed(clk.Now())
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, t2.ID, current.ID)
	require.Equal(t, "Two", current.PatientName)
}

func TestRecentCompletedOrdersByCompletionDesc(t *testing.T) {
	st, clk := newTestStore(t)

	var tickets []*models.QueueTicket
	for i := 0; i < 4; i++ {
		ticket := addTicket(t, st, "Patient")
		done := clk.Now()
		ticket.Status = models.StatusCompleted
		ticket.CompletedAt = &done
		require.NoError(t, st.UpdateTicket(ticket))
		tickets = append(tickets, ticket)
		clk.Advance(time.Minute)
	}

	recent, err := st.RecentCompleted(clk.Now(), 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	require.Equal(t, tickets[3].ID, recent[0].ID)
	require.Equal(t, tickets[2].ID, recent[1].ID)
	require.Equal(t, tickets[1].ID, recent[2].ID)

	count, err := st.CompletedCount(clk.Now())
	require.NoError(t, err)
	require.Equal(t, 4, count)
}

func TestDeletePatientCascades(t *testing.T) {
	st, clk := newTestStore(t)

	ticket := addTicket(t, st, "Patient")
	done := clk.Now()
	ticket.Status = models.StatusCompleted
	ticket.CompletedAt = &done
	require.NoError(t, st.CompleteTicket(ticket, &models.Visit{
		PatientID: ticket.PatientID,
		DoctorID:  "doc-1",
		VisitDate: clk.Now(),
	}))

	require.NoError(t, st.DeletePatient(ticket.PatientID))

	_, err := st.GetTicket(ticket.ID)
	require.ErrorIs(t, err, ErrNotFound)
	history, err := st.VisitHistory(ticket.PatientID, 10)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestDeleteStaffRestrictedByVisits(t *testing.T) {
	st, clk := newTestStore(t)

	doc := &models.Staff{Username: "doc", PasswordHash: "x", FullName: "Doc", Role: models.RoleDoctor, Active: true}
	require.NoError(t, st.CreateStaff(doc))

	ticket := addTicket(t, st, "Patient")
	ticket.DoctorID = doc.ID
	ticket.Status = models.StatusCompleted
	done := clk.Now()
	ticket.CompletedAt = &done
	require.NoError(t, st.CompleteTicket(ticket, &models.Visit{
		PatientID: ticket.PatientID,
		DoctorID:  doc.ID,
		VisitDate: clk.Now(),
	}))

	require.ErrorIs(t, st.DeleteStaff(doc.ID), ErrStaffHasVisits)

	// without visits the delete succeeds and the ticket loses its assignment
	nurse := &models.Staff{Username: "nurse", PasswordHash: "x", FullName: "Nurse", Role: models.RoleDoctor, Active: true}
	require.NoError(t, st.CreateStaff(nurse))
	second := addTicket(t, st, "Another")
	second.DoctorID = nurse.ID
	require.NoError(t, st.UpdateTicket(second))

	require.NoError(t, st.DeleteStaff(nurse.ID))
	after, err := st.GetTicket(second.ID)
	require.NoError(t, err)
	require.Empty(t, after.DoctorID)
}

func TestSearchPatientsMatchesNamePhoneNationalID(t *testing.T) {
	st, _ := newTestStore(t)

	require.NoError(t, st.CreatePatient(&models.Patient{
		FullName: "Alice Example", PhoneNumber: "0501111111", NationalID: "9001",
	}))
	require.NoError(t, st.CreatePatient(&models.Patient{
		FullName: "Bob Sample", PhoneNumber: "0502222222", NationalID: "9002",
	}))

	byName, err := st.SearchPatients("alice")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	require.Equal(t, "Alice Example", byName[0].FullName)

	byPhone, err := st.SearchPatients("0502")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	require.Equal(t, "Bob Sample", byPhone[0].FullName)

	all, err := st.SearchPatients("")
	require.NoError(t, err)
	require.Len(t, all, 2)
}
