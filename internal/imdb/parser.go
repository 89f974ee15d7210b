package imdb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// validation runs over fixed-size slices of the parsed rows
	validationBatchSize = 100
	// invalid rows are collected up to this cap before giving up
	maxErrorsToReport = 10
	// only the first few row errors are embedded in the failure message
	errorsInMessage = 5
)

// ErrEmptyFile is returned when the file parses to zero data rows
var ErrEmptyFile = errors.New("csv file is empty")

// ParseError reports malformed CSV input (unterminated quotes and the like).
// It aborts parsing before any row validation happens.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv parsing failed at line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RowError is one invalid row with its first field-level complaint
type RowError struct {
	Row     int // 1-based data row number
	Message string
}

// ValidationError reports invalid rows found during the validated pass
type ValidationError struct {
	Errors []RowError // capped at maxErrorsToReport
	Total  int
}

func (e *ValidationError) Error() string {
	details := make([]string, 0, errorsInMessage)
	for i, rowErr := range e.Errors {
		if i >= errorsInMessage {
			break
		}
		details = append(details, fmt.Sprintf("Row %d: %s", rowErr.Row, rowErr.Message))
	}
	joined := strings.Join(details, ". ")

	if e.Total > errorsInMessage {
		return fmt.Sprintf("validation failed for at least %d rows. First errors - %s. Please fix the errors and try again.", e.Total, joined)
	}
	return fmt.Sprintf("validation failed. %s", joined)
}

// ParseAndValidate parses raw CSV text using header-based column mapping and
// validates every data row. Invalid rows are dropped; any invalid row fails
// the whole call with a ValidationError. The returned rows keep the original
// file order.
func ParseAndValidate(content string) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{Line: csvErr.Line, Column: csvErr.Column, Err: csvErr.Err}
		}
		return nil, &ParseError{Err: err}
	}

	if len(records) <= 1 {
		return nil, ErrEmptyFile
	}

	columns := headerIndex(records[0])
	data := records[1:]

	valid := make([]Row, 0, len(data))
	var rowErrors []RowError
	total := 0

	for start := 0; start < len(data) && len(rowErrors) < maxErrorsToReport; start += validationBatchSize {
		end := start + validationBatchSize
		if end > len(data) {
			end = len(data)
		}

		for i := start; i < end; i++ {
			row := mapRow(columns, data[i])
			if msg := validateRow(row); msg != "" {
				total++
				rowErrors = append(rowErrors, RowError{Row: i + 1, Message: msg})
				if len(rowErrors) >= maxErrorsToReport {
					break
				}
				continue
			}
			valid = append(valid, row)
		}
	}

	if len(rowErrors) > 0 {
		return nil, &ValidationError{Errors: rowErrors, Total: total}
	}

	return valid, nil
}

// headerIndex maps trimmed column names to their position
func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return columns
}

// mapRow builds a Row from one record using the header mapping.
// Cells past the record's end read as empty.
func mapRow(columns map[string]int, record []string) Row {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	return Row{
		Const:       cell("Const"),
		YourRating:  cell("Your Rating"),
		DateRated:   cell("Date Rated"),
		Title:       cell("Title"),
		URL:         cell("URL"),
		TitleType:   cell("Title Type"),
		IMDBRating:  cell("IMDb Rating"),
		RuntimeMins: cell("Runtime (mins)"),
		Year:        cell("Year"),
		Genres:      cell("Genres"),
		NumVotes:    cell("Num Votes"),
		ReleaseDate: cell("Release Date"),
		Directors:   cell("Directors"),
	}
}

// validateRow checks one row against the expected shape and returns the first
// field-level complaint, or "" when the row is valid
func validateRow(row Row) string {
	if row.Const == "" {
		return "Const must not be empty"
	}
	if row.Title == "" {
		return "Title must not be empty"
	}
	if row.YourRating != "" {
		rating, err := strconv.Atoi(row.YourRating)
		if err != nil {
			return fmt.Sprintf("Your Rating %q is not an integer", row.YourRating)
		}
		if rating < 1 || rating > 10 {
			return fmt.Sprintf("Your Rating %d is out of range 1-10", rating)
		}
	}
	if row.DateRated != "" {
		if _, err := time.Parse("2006-01-02", row.DateRated); err != nil {
			return fmt.Sprintf("Date Rated %q is not a valid date", row.DateRated)
		}
	}
	if row.Year != "" {
		if _, err := strconv.Atoi(row.Year); err != nil {
			return fmt.Sprintf("Year %q is not an integer", row.Year)
		}
	}
	if row.RuntimeMins != "" {
		if _, err := strconv.Atoi(row.RuntimeMins); err != nil {
			return fmt.Sprintf("Runtime (mins) %q is not an integer", row.RuntimeMins)
		}
	}
	if row.IMDBRating != "" {
		if _, err := strconv.ParseFloat(row.IMDBRating, 64); err != nil {
			return fmt.Sprintf("IMDb Rating %q is not a number", row.IMDBRating)
		}
	}
	return ""
}
