package reception

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

func newTestService(t *testing.T) (*Service, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	return NewService(store.NewMemoryStore(clk), clk), clk
}

func TestRegisterIssuesSequentialTickets(t *testing.T) {
	svc, _ := newTestService(t)

	patientA, ticketA, err := svc.Register(RegisterInput{
		FullName: "Patient A", PhoneNumber: "0501111111",
	})
	require.NoError(t, err)
	require.NotEmpty(t, patientA.ID)
	require.Equal(t, 1, ticketA.TicketNumber)
	require.Equal(t, models.StatusWaiting, ticketA.Status)

	_, ticketB, err := svc.Register(RegisterInput{
		FullName: "Patient B", PhoneNumber: "0502222222",
	})
	require.NoError(t, err)
	require.Equal(t, 2, ticketB.TicketNumber)
}

func TestIssueTicketForReturningPatient(t *testing.T) {
	svc, _ := newTestService(t)

	patient, first, err := svc.Register(RegisterInput{
		FullName: "Returning", PhoneNumber: "0500000000",
	})
	require.NoError(t, err)
	require.Equal(t, 1, first.TicketNumber)

	second, err := svc.IssueTicket(patient.ID)
	require.NoError(t, err)
	require.Equal(t, 2, second.TicketNumber)
	require.Equal(t, patient.ID, second.PatientID)

	_, err = svc.IssueTicket("missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTodayQueueOverview(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, _, err := svc.Register(RegisterInput{
			FullName: "Patient", PhoneNumber: "0500000000",
		})
		require.NoError(t, err)
	}

	today, err := svc.Today()
	require.NoError(t, err)
	require.Equal(t, 3, today.WaitingCount)
	require.Nil(t, today.Current)
	require.Zero(t, today.CompletedToday)
	require.Equal(t, 4, today.NextNumber)
}

func TestUpdatePreservesIdentityAndCreation(t *testing.T) {
	svc, _ := newTestService(t)

	patient, _, err := svc.Register(RegisterInput{
		FullName: "Before", PhoneNumber: "0500000000",
	})
	require.NoError(t, err)

	updated, err := svc.Update(patient.ID, RegisterInput{
		FullName: "After", PhoneNumber: "0509999999", BloodType: "O+",
	})
	require.NoError(t, err)
	require.Equal(t, patient.ID, updated.ID)
	require.Equal(t, "After", updated.FullName)
	require.Equal(t, patient.CreatedAt, updated.CreatedAt)

	_, err = svc.Update("missing", RegisterInput{FullName: "X", PhoneNumber: "1234567"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestScheduleAndListAppointments(t *testing.T) {
	svc, clk := newTestService(t)

	patient, _, err := svc.Register(RegisterInput{
		FullName: "Scheduled", PhoneNumber: "0500000000",
	})
	require.NoError(t, err)

	appt, err := svc.Schedule(AppointmentInput{
		PatientID:     patient.ID,
		ScheduledTime: clk.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, models.AppointmentScheduled, appt.Status)
	require.Equal(t, 15, appt.DurationMinutes)

	// tomorrow's appointment stays off today's list
	_, err = svc.Schedule(AppointmentInput{
		PatientID:     patient.ID,
		ScheduledTime: clk.Now().AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	today, err := svc.AppointmentsToday()
	require.NoError(t, err)
	require.Len(t, today, 1)
	require.Equal(t, appt.ID, today[0].ID)
	require.Equal(t, "Scheduled", today[0].PatientName)

	require.NoError(t, svc.SetAppointmentStatus(appt.ID, models.AppointmentArrived))
	today, err = svc.AppointmentsToday()
	require.NoError(t, err)
	require.Equal(t, models.AppointmentArrived, today[0].Status)
}
