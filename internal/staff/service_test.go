package staff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/pkg/clock"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	return NewService(store.NewMemoryStore(clk))
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("drhouse", "s3cret", "Dr. House", models.RoleDoctor)
	require.NoError(t, err)

	member, err := svc.Authenticate("drhouse", "s3cret")
	require.NoError(t, err)
	require.Equal(t, created.ID, member.ID)

	_, err = svc.Authenticate("drhouse", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectsInactive(t *testing.T) {
	svc := newTestService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, svc.Store.CreateStaff(&models.Staff{
		Username:     "gone",
		PasswordHash: string(hash),
		FullName:     "Former Staff",
		Role:         models.RoleReceptionist,
		Active:       false,
	}))

	_, err = svc.Authenticate("gone", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveDoctorIDPrefersSession(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Create("doc", "pw", "Doc", models.RoleDoctor)
	require.NoError(t, err)
	receptionist, err := svc.Create("rec", "pw", "Rec", models.RoleReceptionist)
	require.NoError(t, err)

	require.Equal(t, doc.ID, svc.ResolveDoctorID(doc.ID, "default-id"))
	// non-doctor sessions fall back to the default operator
	require.Equal(t, "default-id", svc.ResolveDoctorID(receptionist.ID, "default-id"))
	require.Equal(t, "default-id", svc.ResolveDoctorID("", "default-id"))
	require.Equal(t, "default-id", svc.ResolveDoctorID("missing", "default-id"))
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	svc := newTestService(t)

	docID, err := svc.SeedDefaults()
	require.NoError(t, err)
	require.NotEmpty(t, docID)

	again, err := svc.SeedDefaults()
	require.NoError(t, err)
	require.Equal(t, docID, again)

	n, err := svc.Store.CountStaff()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
