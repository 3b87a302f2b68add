// Package importer parses bulk request uploads from Excel spreadsheets.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/request-manager/internal/engine"
	"github.com/jonesrussell/request-manager/internal/models"
)

// Column indices for the Excel spreadsheet (0-based).
const (
	colURL            = 0 // Column A
	colRequestType    = 1 // Column B
	colPriority       = 2 // Column C
	colContentType    = 3 // Column D
	colCountry        = 4 // Column E
	colZone           = 5 // Column F
	colTitle          = 6 // Column G
	colTags           = 7 // Column H
	colBackcrawlDays  = 8 // Column I
	colRecurringHours = 9 // Column J

	columnCount = 10
)

// SheetName is the worksheet ParseExcelFile reads. Missing sheet falls
// back to the first one in the workbook.
const SheetName = "Requests"

// RequestRow is a parsed spreadsheet row before validation.
type RequestRow struct {
	Row            int // Excel row number (for error reporting)
	URL            string
	RequestType    string
	Priority       string
	ContentType    string
	Country        string
	Zone           string
	Title          string
	Tags           []string
	BackcrawlDays  string
	RecurringHours string
}

// ImportError reports a validation failure on a specific row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

var requestTypes = map[string]models.RequestType{
	"ADHOC":      models.RequestTypeAdhoc,
	"RECURRING":  models.RequestTypeRecurring,
	"LIVESTREAM": models.RequestTypeLivestream,
}

var priorities = map[string]models.Priority{
	"URGENT": models.PriorityUrgent,
	"HIGH":   models.PriorityHigh,
	"MEDIUM": models.PriorityMedium,
	"LOW":    models.PriorityLow,
}

// ValidateRow validates a single row and returns an error message or
// empty string.
func ValidateRow(row RequestRow) string {
	if strings.TrimSpace(row.URL) == "" {
		return "url is required"
	}

	if row.RequestType != "" {
		if _, ok := requestTypes[strings.ToUpper(row.RequestType)]; !ok {
			return "requestType must be ADHOC, RECURRING or LIVESTREAM"
		}
	}

	if row.Priority != "" {
		if _, ok := priorities[strings.ToUpper(row.Priority)]; !ok {
			return "priority must be Urgent, High, Medium or Low"
		}
	}

	if row.BackcrawlDays != "" {
		if n, err := strconv.Atoi(row.BackcrawlDays); err != nil || n < 0 {
			return "backcrawlDepthDays must be a non-negative integer"
		}
	}

	if row.RecurringHours != "" {
		if n, err := strconv.Atoi(row.RecurringHours); err != nil || n <= 0 {
			return "recurringFreqHours must be a positive integer"
		}
	}

	return ""
}

// ToInput converts a validated row into a create input. Call ValidateRow
// first; conversion errors on unvalidated rows are returned as-is.
func ToInput(row RequestRow) (engine.CreateInput, error) {
	if msg := ValidateRow(row); msg != "" {
		return engine.CreateInput{}, fmt.Errorf("row %d: %s", row.Row, msg)
	}

	in := engine.CreateInput{
		URL:         strings.TrimSpace(row.URL),
		RequestType: models.RequestTypeAdhoc,
		Priority:    models.PriorityMedium,
		ContentType: strings.TrimSpace(row.ContentType),
		Country:     strings.TrimSpace(row.Country),
		Zone:        strings.TrimSpace(row.Zone),
		Title:       strings.TrimSpace(row.Title),
		Tags:        row.Tags,
	}

	if row.RequestType != "" {
		in.RequestType = requestTypes[strings.ToUpper(row.RequestType)]
	}
	if row.Priority != "" {
		in.Priority = priorities[strings.ToUpper(row.Priority)]
	}
	if row.BackcrawlDays != "" {
		days, _ := strconv.Atoi(row.BackcrawlDays)
		in.BackcrawlDepthDays = &days
	}
	if row.RecurringHours != "" {
		hours, _ := strconv.Atoi(row.RecurringHours)
		in.RecurringFreqHours = &hours
	}

	return in, nil
}

// ParseExcelFile reads the workbook and returns parsed rows plus
// per-row validation errors. Row 1 is the header and is skipped; fully
// empty rows are ignored.
func ParseExcelFile(r io.Reader) ([]RequestRow, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	var (
		parsed    []RequestRow
		importErr []ImportError
	)
	for i, cells := range rows {
		if i == 0 { // header
			continue
		}
		if emptyRow(cells) {
			continue
		}

		row := parseRow(cells, i+1)
		if msg := ValidateRow(row); msg != "" {
			importErr = append(importErr, ImportError{Row: row.Row, Error: msg})
			continue
		}
		parsed = append(parsed, row)
	}

	return parsed, importErr, nil
}

func parseRow(cells []string, rowNum int) RequestRow {
	padded := make([]string, columnCount)
	copy(padded, cells)
	for i := range padded {
		padded[i] = strings.TrimSpace(padded[i])
	}

	return RequestRow{
		Row:            rowNum,
		URL:            padded[colURL],
		RequestType:    padded[colRequestType],
		Priority:       padded[colPriority],
		ContentType:    padded[colContentType],
		Country:        padded[colCountry],
		Zone:           padded[colZone],
		Title:          padded[colTitle],
		Tags:           splitTags(padded[colTags]),
		BackcrawlDays:  padded[colBackcrawlDays],
		RecurringHours: padded[colRecurringHours],
	}
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
