package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/adapter/cache"
	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/importer"
)

type memoryLeadStore struct {
	emails   []string
	inserted []domain.Lead
}

func (m *memoryLeadStore) ListEmails(ctx context.Context, userID int64) ([]string, error) {
	return m.emails, nil
}

func (m *memoryLeadStore) BulkInsert(ctx context.Context, leads []domain.Lead) error {
	m.inserted = append(m.inserted, leads...)
	return nil
}

func newImporter(t *testing.T, store *memoryLeadStore) *importer.Importer {
	t.Helper()
	node, err := snowflake.NewNode(5)
	require.NoError(t, err)
	return importer.New(store, cache.NewNoopStatsCache(), node, zap.NewNop())
}

func runCSV(t *testing.T, store *memoryLeadStore, csv string, skipDuplicates bool) importer.Result {
	t.Helper()
	imp := newImporter(t, store)
	result, err := imp.Import(context.Background(), 1, "leads.csv", strings.NewReader(csv), skipDuplicates)
	require.NoError(t, err)
	return result
}

func TestImportBasicCSV(t *testing.T) {
	store := &memoryLeadStore{}
	result := runCSV(t, store, "name,email,phone\nAcme Plumbing,acme@example.com,555-0100\nBeta Roofing,beta@example.com,\n", false)

	require.True(t, result.Success)
	require.Equal(t, 2, result.Imported)
	require.Empty(t, result.Errors)
	require.Empty(t, result.Duplicates)
	require.Len(t, store.inserted, 2)
	require.Equal(t, "Acme Plumbing", store.inserted[0].Name)
	require.Equal(t, domain.StatusNew, store.inserted[0].Status)
	require.Equal(t, int64(1), store.inserted[0].UserID)
	require.NotZero(t, store.inserted[0].ID)
}

func TestImportHeaderSynonyms(t *testing.T) {
	store := &memoryLeadStore{}
	result := runCSV(t, store, "Full Name,Mail,Telephone,Origin,City\nAcme,acme@example.com,555-0100,referral,Austin\n", false)

	require.Equal(t, 1, result.Imported)
	require.Len(t, store.inserted, 1)
	lead := store.inserted[0]
	require.Equal(t, "Acme", lead.Name)
	require.Equal(t, "acme@example.com", lead.Email)
	require.Equal(t, "555-0100", lead.Phone)
	require.Equal(t, "referral", lead.Source)
	require.Equal(t, "Austin", lead.Location)
}

func TestImportInBatchDuplicateSkipped(t *testing.T) {
	csv := "name,email\nFirst,a@x.com\nSecond,a@x.com\n"

	store := &memoryLeadStore{}
	result := runCSV(t, store, csv, true)

	require.True(t, result.Success)
	require.Equal(t, 1, result.Imported)
	require.Empty(t, result.Errors)
	require.Len(t, result.Duplicates, 1)
	require.Equal(t, 3, result.Duplicates[0].Row)
	require.Equal(t, "a@x.com", result.Duplicates[0].Email)

	// First occurrence wins.
	require.Len(t, store.inserted, 1)
	require.Equal(t, "First", store.inserted[0].Name)
}

func TestImportInBatchDuplicateReported(t *testing.T) {
	csv := "name,email\nFirst,a@x.com\nSecond,a@x.com\n"

	store := &memoryLeadStore{}
	result := runCSV(t, store, csv, false)

	// The duplicate row is still never imported; it just also counts as an
	// error when duplicates are not being skipped.
	require.True(t, result.Success)
	require.Equal(t, 1, result.Imported)
	require.Len(t, result.Duplicates, 1)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 3, result.Errors[0].Row)
	require.Contains(t, result.Errors[0].Error, "a@x.com already exists")
	require.Len(t, store.inserted, 1)
}

func TestImportDuplicateAgainstExistingLeads(t *testing.T) {
	store := &memoryLeadStore{emails: []string{"Taken@Example.com"}}
	result := runCSV(t, store, "name,email\nNewcomer,taken@example.com\nFresh,fresh@example.com\n", true)

	require.Equal(t, 1, result.Imported)
	require.Len(t, result.Duplicates, 1)
	require.Equal(t, 2, result.Duplicates[0].Row)
	require.Len(t, store.inserted, 1)
	require.Equal(t, "Fresh", store.inserted[0].Name)
}

func TestImportRowsWithoutEmailNeverCollide(t *testing.T) {
	store := &memoryLeadStore{}
	result := runCSV(t, store, "name,phone\nAlpha,1\nBeta,2\nGamma,3\n", false)

	require.Equal(t, 3, result.Imported)
	require.Empty(t, result.Duplicates)
}

func TestImportInvalidRowsReported(t *testing.T) {
	store := &memoryLeadStore{}
	result := runCSV(t, store, "name,email\n,missing-name@example.com\nValid,ok@example.com\nBad Email,not-an-email\n", false)

	require.True(t, result.Success)
	require.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 2)
	require.Equal(t, 2, result.Errors[0].Row)
	require.Equal(t, 4, result.Errors[1].Row)
	require.Equal(t, "Name is required.", result.Errors[0].Error)
	require.Equal(t, "Invalid email address.", result.Errors[1].Error)
}

func TestImportAllRowsRejectedIsFailure(t *testing.T) {
	store := &memoryLeadStore{}
	result := runCSV(t, store, "name,email\n,no-name@example.com\n", false)

	require.False(t, result.Success)
	require.Zero(t, result.Imported)
	require.Empty(t, store.inserted)
}

func TestImportRejectsUnknownFileType(t *testing.T) {
	store := &memoryLeadStore{}
	imp := newImporter(t, store)

	_, err := imp.Import(context.Background(), 1, "leads.pdf", strings.NewReader("whatever"), false)
	require.Error(t, err)
	var inputErr *importer.InputError
	require.ErrorAs(t, err, &inputErr)
	require.Contains(t, inputErr.Message, "Invalid file type")
}

func TestImportEmptyFile(t *testing.T) {
	store := &memoryLeadStore{}
	imp := newImporter(t, store)

	_, err := imp.Import(context.Background(), 1, "leads.csv", strings.NewReader("name,email\n"), false)
	var inputErr *importer.InputError
	require.ErrorAs(t, err, &inputErr)
	require.Equal(t, "No data found in file", inputErr.Message)
}
