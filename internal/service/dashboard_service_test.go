package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/domain"
)

func TestAdminSummaryWithoutAccessStore(t *testing.T) {
	users := newFakeUserRepo()
	events := newFakeEventRepo()
	regs := newFakeRegistrationRepo(events)
	certs := newFakeCertificateRepo(regs)
	svc := NewDashboardService(users, events, regs, certs, nil, zap.NewNop())

	seedUser(t, users, "Admin", "admin@example.com", domain.RoleAdministrator)
	seedUser(t, users, "Org", "org@example.com", domain.RoleOrganizer)
	_, err := events.Create(context.Background(), &domain.Event{
		Title: "Go Conf", OrganizerID: 2, EventDate: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	summary, err := svc.AdminSummary(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.UsersByRole[domain.RoleAdministrator])
	assert.EqualValues(t, 1, summary.TotalEvents)
	assert.EqualValues(t, 1, summary.UpcomingEvents)
	assert.Nil(t, summary.AccessStats)
}

func TestParticipantSummary(t *testing.T) {
	users := newFakeUserRepo()
	events := newFakeEventRepo()
	regs := newFakeRegistrationRepo(events)
	certs := newFakeCertificateRepo(regs)
	svc := NewDashboardService(users, events, regs, certs, nil, zap.NewNop())

	_, err := regs.Create(context.Background(), &domain.Registration{UserID: 1, EventID: 1, Status: domain.StatusApproved})
	require.NoError(t, err)
	_, err = regs.Create(context.Background(), &domain.Registration{UserID: 1, EventID: 2, Status: domain.StatusPending})
	require.NoError(t, err)

	summary, err := svc.ParticipantSummary(context.Background(), participant(1))
	require.NoError(t, err)
	assert.Len(t, summary.Registrations, 2)
	assert.EqualValues(t, 1, summary.ByStatus[domain.StatusApproved])
	assert.EqualValues(t, 1, summary.ByStatus[domain.StatusPending])
}
