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

func newNoteFixture(t *testing.T) (*service.NoteService, *memoryLeadRepo) {
	t.Helper()
	leads := newMemoryLeadRepo()
	notes := newMemoryNoteRepo(leads)
	node, err := snowflake.NewNode(4)
	require.NoError(t, err)
	return service.NewNoteService(notes, leads, node, zap.NewNop()), leads
}

func seedLead(t *testing.T, leads *memoryLeadRepo, userID int64) domain.Lead {
	t.Helper()
	lead, err := leads.Create(context.Background(), domain.Lead{
		ID:     time.Now().UnixNano(),
		Name:   "Seeded",
		Status: domain.StatusNew,
		UserID: userID,
	})
	require.NoError(t, err)
	return lead
}

func TestNoteLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, leads := newNoteFixture(t)
	lead := seedLead(t, leads, 1)

	note, err := svc.Create(ctx, 1, lead.ID, "  Called, asked to ring back Friday  ")
	require.NoError(t, err)
	require.Equal(t, "Called, asked to ring back Friday", note.Content)
	require.Equal(t, lead.ID, note.LeadID)

	listed, err := svc.ListByLead(ctx, 1, lead.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	err = svc.Delete(ctx, 1, note.ID)
	require.NoError(t, err)

	listed, err = svc.ListByLead(ctx, 1, lead.ID)
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestNoteValidationAndOwnership(t *testing.T) {
	ctx := context.Background()
	svc, leads := newNoteFixture(t)
	lead := seedLead(t, leads, 1)

	_, err := svc.Create(ctx, 1, lead.ID, "   ")
	requireAPIError(t, err, "invalid_request", 400)
	require.Contains(t, err.Error(), "Content is required")

	// A foreign lead reads as missing.
	_, err = svc.Create(ctx, 2, lead.ID, "sneaky")
	requireAPIError(t, err, "not_found", 404)

	note, err := svc.Create(ctx, 1, lead.ID, "legit")
	require.NoError(t, err)

	_, err = svc.ListByLead(ctx, 2, lead.ID)
	requireAPIError(t, err, "not_found", 404)

	err = svc.Delete(ctx, 2, note.ID)
	requireAPIError(t, err, "not_found", 404)
}
