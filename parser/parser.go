// Package parser decodes raw spreadsheet/CSV uploads into a header/row
// structure with heuristic signals, ahead of template matching and column
// mapping.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ErrorCode identifies a terminal parse failure.
type ErrorCode string

const (
	CodeInvalidFile   ErrorCode = "INVALID_FILE"
	CodeEmptyFile     ErrorCode = "EMPTY_FILE"
	CodeFileTooLarge  ErrorCode = "FILE_TOO_LARGE"
	CodeSheetNotFound ErrorCode = "SHEET_NOT_FOUND"
)

// ParseError is returned when a file cannot be parsed at all; no partial
// sheet accompanies it.
type ParseError struct {
	Code    ErrorCode
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// SampleRowLimit caps the rows returned to the caller regardless of how many
// the file contains.
const SampleRowLimit = 50

// DefaultMaxFileSize bounds uploads when the caller does not supply a limit.
const DefaultMaxFileSize = 10 << 20

// RowWarning flags a field-level issue found while sampling rows. Row is
// 1-indexed counting the header row, so the first data row is 2.
type RowWarning struct {
	Row     int
	Column  string
	Message string
}

// Signals is the heuristic evidence bundle used to suggest a service
// classification before any mapping happens.
type Signals struct {
	HasAgencyColumn      bool
	HasFreightPaidColumn bool
	AddressHasPickup     bool
	SuggestedService     string
	Confidence           float64
	Justifications       []string
}

// ParsedSheet is the in-memory result of one upload. It is never persisted.
type ParsedSheet struct {
	Headers            []string
	SampleRows         []map[string]string
	TotalRows          int
	Warnings           []RowWarning
	RequiredCandidates []string
	RelevantCandidates []string
	Signals            Signals
}

// Parse decodes a file with the default size limit. The sheet name is only
// meaningful for workbook formats; pass "" to use the first sheet.
func Parse(data []byte, filename, sheetName string) (*ParsedSheet, error) {
	return ParseWithLimit(data, filename, sheetName, DefaultMaxFileSize)
}

// ParseWithLimit decodes a file, failing with FILE_TOO_LARGE when the payload
// exceeds maxBytes.
func ParseWithLimit(data []byte, filename, sheetName string, maxBytes int64) (*ParsedSheet, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, &ParseError{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("file %s exceeds the %d byte limit", filename, maxBytes),
		}
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch extension {
	case "csv":
		return parseCSV(data)
	case "xlsx", "xlsm", "xls":
		return parseWorkbook(data, sheetName)
	default:
		return nil, &ParseError{
			Code:    CodeInvalidFile,
			Message: fmt.Sprintf("unsupported file extension %q", extension),
		}
	}
}

// buildSheet assembles the ParsedSheet from a raw header row plus data rows.
// Shared by the CSV and workbook paths.
func buildSheet(rawHeaders []string, rows [][]string) *ParsedSheet {
	headers := make([]string, len(rawHeaders))
	for i, header := range rawHeaders {
		headers[i] = strings.TrimSpace(header)
	}

	sheet := &ParsedSheet{
		Headers:   headers,
		TotalRows: len(rows),
	}

	sampleCount := len(rows)
	if sampleCount > SampleRowLimit {
		sampleCount = SampleRowLimit
	}
	sheet.SampleRows = make([]map[string]string, 0, sampleCount)
	for _, row := range rows[:sampleCount] {
		values := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(row) {
				values[header] = strings.TrimSpace(row[col])
			} else {
				values[header] = ""
			}
		}
		sheet.SampleRows = append(sheet.SampleRows, values)
	}

	sheet.RequiredCandidates, sheet.RelevantCandidates = classifyCandidates(headers)
	sheet.Warnings = collectWarnings(sheet.SampleRows, sheet.RequiredCandidates)
	sheet.Signals = detectSignals(headers, sheet.SampleRows)

	return sheet
}

func collectWarnings(sampleRows []map[string]string, requiredCandidates []string) []RowWarning {
	warnings := make([]RowWarning, 0)
	for i, row := range sampleRows {
		for _, column := range requiredCandidates {
			if strings.TrimSpace(row[column]) == "" {
				warnings = append(warnings, RowWarning{
					Row:     i + 2,
					Column:  column,
					Message: "empty field",
				})
			}
		}
	}
	return warnings
}
