package doctor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/internal/queue"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

// 2026-03-18 is a Wednesday: week starts Sunday 2026-03-15, month on the 1st.
var testNow = time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(testNow)
	st := store.NewMemoryStore(clk)
	engine := queue.NewEngine(st, clk)
	return NewService(engine, st, clk), st, clk
}

func registerAndComplete(t *testing.T, st *store.MemoryStore, visitDate time.Time) {
	t.Helper()
	ticket, err := st.RegisterPatientWithTicket(&models.Patient{
		FullName:    "Patient",
		PhoneNumber: "0500000000",
	})
	require.NoError(t, err)
	ticket.Status = models.StatusCompleted
	require.NoError(t, st.CompleteTicket(ticket, &models.Visit{
		PatientID: ticket.PatientID,
		DoctorID:  "doc-1",
		VisitDate: visitDate,
	}))
}

func TestStatsRespectWeekAndMonthBoundaries(t *testing.T) {
	svc, st, _ := newTestService(t)

	registerAndComplete(t, st, testNow)                                     // today
	registerAndComplete(t, st, time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)) // this week
	registerAndComplete(t, st, time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC))  // this month
	registerAndComplete(t, st, time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)) // last month

	stats, err := svc.stats()
	require.NoError(t, err)
	require.Equal(t, 1, stats.Today)
	require.Equal(t, 2, stats.Week)
	require.Equal(t, 3, stats.Month)
}

func TestPanelShowsBoundedHistoryForCurrentPatient(t *testing.T) {
	svc, st, _ := newTestService(t)

	ticket, err := st.RegisterPatientWithTicket(&models.Patient{
		FullName:    "Returning Patient",
		PhoneNumber: "0500000000",
	})
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		v := &models.Visit{
			PatientID: ticket.PatientID,
			DoctorID:  "doc-1",
			Diagnosis: fmt.Sprintf("visit %d", i),
			VisitDate: testNow.AddDate(0, 0, -i-1),
		}
		require.NoError(t, st.CompleteTicket(ticket, v))
	}
	called, err := svc.CallNext()
	require.NoError(t, err)
	require.Equal(t, ticket.ID, called.ID)

	panel, err := svc.Panel()
	require.NoError(t, err)
	require.NotNil(t, panel.Current)
	require.Equal(t, ticket.ID, panel.Current.ID)
	require.Len(t, panel.History, 10)
	// newest first
	require.Equal(t, "visit 0", panel.History[0].Diagnosis)
}

func TestPanelHistoryEmptyWithoutCurrentPatient(t *testing.T) {
	svc, _, _ := newTestService(t)

	panel, err := svc.Panel()
	require.NoError(t, err)
	require.Nil(t, panel.Current)
	require.Empty(t, panel.History)
	require.Zero(t, panel.WaitingCount)
}

func TestCompleteConsumesStagedFormAndClearsIt(t *testing.T) {
	svc, st, _ := newTestService(t)

	_, err := st.RegisterPatientWithTicket(&models.Patient{
		FullName:    "Patient",
		PhoneNumber: "0500000000",
	})
	require.NoError(t, err)

	_, err = svc.CallNext()
	require.NoError(t, err)
	_, err = svc.MarkPresent()
	require.NoError(t, err)

	svc.StageForm(queue.EncounterForm{
		Diagnosis:     "Sore throat",
		Prescriptions: "Amoxicillin 500mg",
	})

	visit, err := svc.Complete("doc-1", queue.EncounterForm{})
	require.NoError(t, err)
	require.NotNil(t, visit)
	require.Equal(t, "Sore throat", visit.Diagnosis)
	require.Equal(t, "Amoxicillin 500mg", visit.Prescriptions)

	panel, err := svc.Panel()
	require.NoError(t, err)
	require.Equal(t, queue.EncounterForm{}, panel.Form)
	require.Equal(t, 1, panel.CompletedToday)
}

func TestCompleteWithExplicitFormOverridesStaged(t *testing.T) {
	svc, st, _ := newTestService(t)

	_, err := st.RegisterPatientWithTicket(&models.Patient{
		FullName:    "Patient",
		PhoneNumber: "0500000000",
	})
	require.NoError(t, err)

	_, err = svc.CallNext()
	require.NoError(t, err)

	svc.StageForm(queue.EncounterForm{Diagnosis: "draft"})
	visit, err := svc.Complete("doc-1", queue.EncounterForm{Diagnosis: "final"})
	require.NoError(t, err)
	require.NotNil(t, visit)
	require.Equal(t, "final", visit.Diagnosis)
}
