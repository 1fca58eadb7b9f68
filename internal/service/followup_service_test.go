package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/service"
)

type followUpFixture struct {
	svc   *service.FollowUpService
	leads *memoryLeadRepo
}

func newFollowUpFixture(t *testing.T) followUpFixture {
	t.Helper()
	leads := newMemoryLeadRepo()
	followUps := newMemoryFollowUpRepo(leads)
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	svc := service.NewFollowUpService(followUps, leads, newMemoryStatsCache(), node, zap.NewNop())
	return followUpFixture{svc: svc, leads: leads}
}

func (f followUpFixture) seedLead(t *testing.T, userID int64, name string) domain.Lead {
	t.Helper()
	lead, err := f.leads.Create(context.Background(), domain.Lead{
		ID:     time.Now().UnixNano(),
		Name:   name,
		Status: domain.StatusNew,
		UserID: userID,
	})
	require.NoError(t, err)
	return lead
}

func TestCreateFollowUpValidation(t *testing.T) {
	ctx := context.Background()
	f := newFollowUpFixture(t)
	lead := f.seedLead(t, 1, "Acme")

	_, err := f.svc.Create(ctx, 1, service.FollowUpInput{Title: " ", DueDate: time.Now(), LeadID: lead.ID})
	requireAPIError(t, err, "invalid_request", 400)
	require.Contains(t, err.Error(), "Title is required")

	_, err = f.svc.Create(ctx, 1, service.FollowUpInput{Title: "Call back", LeadID: lead.ID})
	requireAPIError(t, err, "invalid_request", 400)
	require.Contains(t, err.Error(), "Invalid date format")

	// Scheduling on another user's lead reads as a missing lead.
	_, err = f.svc.Create(ctx, 2, service.FollowUpInput{Title: "Call back", DueDate: time.Now(), LeadID: lead.ID})
	requireAPIError(t, err, "not_found", 404)
}

func TestFollowUpLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFollowUpFixture(t)
	lead := f.seedLead(t, 1, "Acme")

	created, err := f.svc.Create(ctx, 1, service.FollowUpInput{
		Title:   "Send proposal",
		DueDate: time.Now().Add(24 * time.Hour),
		LeadID:  lead.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Lead)
	require.Equal(t, lead.ID, created.Lead.ID)
	require.False(t, created.Completed)

	completed := true
	updated, err := f.svc.Update(ctx, 1, created.ID, service.UpdateFollowUpInput{Completed: &completed})
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.Equal(t, "Send proposal", updated.Title)

	// Other users cannot touch it.
	_, err = f.svc.Update(ctx, 2, created.ID, service.UpdateFollowUpInput{Completed: &completed})
	requireAPIError(t, err, "not_found", 404)
	err = f.svc.Delete(ctx, 2, created.ID)
	requireAPIError(t, err, "not_found", 404)

	err = f.svc.Delete(ctx, 1, created.ID)
	require.NoError(t, err)
}

func TestListFollowUpsUpcomingFilter(t *testing.T) {
	ctx := context.Background()
	f := newFollowUpFixture(t)
	lead := f.seedLead(t, 1, "Acme")

	past, err := f.svc.Create(ctx, 1, service.FollowUpInput{
		Title:   "Overdue call",
		DueDate: time.Now().Add(-48 * time.Hour),
		LeadID:  lead.ID,
	})
	require.NoError(t, err)

	future, err := f.svc.Create(ctx, 1, service.FollowUpInput{
		Title:   "Next week demo",
		DueDate: time.Now().Add(7 * 24 * time.Hour),
		LeadID:  lead.ID,
	})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, 1, 0, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by due date ascending.
	require.Equal(t, past.ID, all[0].ID)

	upcoming, err := f.svc.List(ctx, 1, 0, true)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, future.ID, upcoming[0].ID)

	byLead, err := f.svc.List(ctx, 1, lead.ID, false)
	require.NoError(t, err)
	require.Len(t, byLead, 2)

	none, err := f.svc.List(ctx, 2, 0, false)
	require.NoError(t, err)
	require.Empty(t, none)
}
