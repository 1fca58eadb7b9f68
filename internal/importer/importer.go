// Package importer reconciles uploaded CSV/Excel files into lead records:
// it maps heterogeneous column names onto the lead schema, validates each
// row, detects duplicate emails against both existing leads and earlier
// rows in the same batch, and bulk-inserts the accepted subset.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/repository"
	"github.com/prospectly/leadtrack/internal/service"
)

// LeadStore is the slice of the lead repository the reconciler needs.
type LeadStore interface {
	ListEmails(ctx context.Context, userID int64) ([]string, error)
	BulkInsert(ctx context.Context, leads []domain.Lead) error
}

// InputError marks a client-caused import failure (bad file type, empty
// file). Handlers respond 400; anything else is a server error.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// RowError records one rejected row with its raw data for display.
type RowError struct {
	Row   int    `json:"row"`
	Data  Row    `json:"data"`
	Error string `json:"error"`
}

// Duplicate records a row whose email was already taken.
type Duplicate struct {
	Row   int    `json:"row"`
	Email string `json:"email"`
}

// Result summarizes an import run. Success means nothing was rejected or
// at least something was imported.
type Result struct {
	Success    bool        `json:"success"`
	Imported   int         `json:"imported"`
	Errors     []RowError  `json:"errors"`
	Duplicates []Duplicate `json:"duplicates"`
}

// Importer is the bulk-import reconciler.
type Importer struct {
	store     LeadStore
	cache     repository.StatsCache
	snowflake *snowflake.Node
	logger    *zap.Logger
}

// New wires dependencies.
func New(store LeadStore, cache repository.StatsCache, node *snowflake.Node, logger *zap.Logger) *Importer {
	return &Importer{store: store, cache: cache, snowflake: node, logger: logger}
}

// Import parses the named file and inserts every accepted row for the user.
//
// Duplicate detection must see both pre-existing data and earlier rows of
// the same upload, so the email set is seeded once from the store and
// mutated as rows are accepted. Rows are processed strictly in file order;
// the first occurrence of an email in a batch wins.
func (imp *Importer) Import(ctx context.Context, userID int64, filename string, file io.Reader, skipDuplicates bool) (Result, error) {
	rows, err := parse(filename, file)
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return Result{}, &InputError{Message: "No data found in file"}
	}

	seen, err := imp.existingEmails(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Errors:     []RowError{},
		Duplicates: []Duplicate{},
	}
	accepted := make([]domain.Lead, 0, len(rows))

	for i, row := range rows {
		// +2 accounts for the header row and 1-based display numbering.
		rowNumber := i + 2

		input := service.LeadInput{
			Name:     row.pick("name"),
			Location: row.pick("location"),
			Phone:    row.pick("phone"),
			Email:    row.pick("email"),
			Website:  row.pick("website"),
			Notes:    row.pick("notes"),
			Source:   row.pick("source"),
			Status:   domain.StatusNew,
		}

		if err := input.Validate(); err != nil {
			result.Errors = append(result.Errors, RowError{
				Row:   rowNumber,
				Data:  row,
				Error: clientMessage(err),
			})
			continue
		}

		if input.Email != "" {
			emailKey := strings.ToLower(input.Email)
			if _, taken := seen[emailKey]; taken {
				result.Duplicates = append(result.Duplicates, Duplicate{Row: rowNumber, Email: input.Email})
				if !skipDuplicates {
					result.Errors = append(result.Errors, RowError{
						Row:   rowNumber,
						Data:  row,
						Error: fmt.Sprintf("Email %s already exists", input.Email),
					})
				}
				continue
			}
			seen[emailKey] = struct{}{}
		}

		accepted = append(accepted, domain.Lead{
			ID:       imp.snowflake.Generate().Int64(),
			Name:     input.Name,
			Location: input.Location,
			Phone:    input.Phone,
			Email:    input.Email,
			Website:  input.Website,
			Notes:    input.Notes,
			Source:   input.Source,
			Status:   input.Status,
			UserID:   userID,
		})
	}

	if len(accepted) > 0 {
		if err := imp.store.BulkInsert(ctx, accepted); err != nil {
			return Result{}, fmt.Errorf("import leads: %w", err)
		}
		result.Imported = len(accepted)

		if err := imp.cache.DeleteStats(ctx, userID); err != nil {
			imp.logger.Warn("stats cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	result.Success = len(result.Errors) == 0 || result.Imported > 0

	imp.logger.Info("bulk import finished",
		zap.Int64("user_id", userID),
		zap.Int("rows", len(rows)),
		zap.Int("imported", result.Imported),
		zap.Int("errors", len(result.Errors)),
		zap.Int("duplicates", len(result.Duplicates)),
	)
	return result, nil
}

// parse dispatches on the file extension; content is never sniffed.
func parse(filename string, file io.Reader) ([]Row, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "csv":
		return parseCSV(file)
	case "xlsx", "xls":
		return parseWorkbook(file)
	default:
		return nil, &InputError{Message: "Invalid file type. Please upload CSV or Excel files."}
	}
}

func (imp *Importer) existingEmails(ctx context.Context, userID int64) (map[string]struct{}, error) {
	emails, err := imp.store.ListEmails(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load existing emails: %w", err)
	}
	seen := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		seen[strings.ToLower(email)] = struct{}{}
	}
	return seen, nil
}

func clientMessage(err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Description
	}
	return "Invalid data format"
}
