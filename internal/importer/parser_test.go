package importer_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/prospectly/leadtrack/internal/importer"
)

func workbookBytes(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportExcelWorkbook(t *testing.T) {
	buf := workbookBytes(t, [][]any{
		{"Name", "Email", "Source"},
		{"Acme Plumbing", "acme@example.com", "trade show"},
		{"Beta Roofing", "beta@example.com", ""},
	})

	store := &memoryLeadStore{}
	imp := newImporter(t, store)

	result, err := imp.Import(context.Background(), 1, "leads.xlsx", buf, false)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 2, result.Imported)
	require.Len(t, store.inserted, 2)
	require.Equal(t, "trade show", store.inserted[0].Source)
}

func TestImportExcelHeaderOnly(t *testing.T) {
	buf := workbookBytes(t, [][]any{
		{"Name", "Email"},
	})

	store := &memoryLeadStore{}
	imp := newImporter(t, store)

	_, err := imp.Import(context.Background(), 1, "leads.xlsx", buf, false)
	var inputErr *importer.InputError
	require.ErrorAs(t, err, &inputErr)
	require.Contains(t, inputErr.Message, "header row and one data row")
}

func TestImportCorruptExcel(t *testing.T) {
	store := &memoryLeadStore{}
	imp := newImporter(t, store)

	_, err := imp.Import(context.Background(), 1, "leads.xlsx", bytes.NewReader([]byte("not a zip")), false)
	var inputErr *importer.InputError
	require.ErrorAs(t, err, &inputErr)
	require.Contains(t, inputErr.Message, "Failed to parse Excel file")
}

func TestImportCSVDropsBlankLines(t *testing.T) {
	store := &memoryLeadStore{}
	result := runCSV(t, store, "name,email\nAcme,acme@example.com\n,,\nBeta,beta@example.com\n", false)

	require.Equal(t, 2, result.Imported)
	require.Empty(t, result.Errors)
}
