package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// parseCSV decodes delimited text. The separator is sniffed from the first
// five lines: semicolon wins on a strict majority over comma, comma otherwise.
func parseCSV(data []byte) (*ParsedSheet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Code: CodeEmptyFile, Message: "file contains no data"}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Code: CodeEmptyFile, Message: "file contains no data"}
	}
	if err != nil {
		return nil, &ParseError{Code: CodeInvalidFile, Message: fmt.Sprintf("read csv header: %v", err)}
	}

	rows := make([][]string, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Code: CodeInvalidFile, Message: fmt.Sprintf("read csv row %d: %v", len(rows)+2, err)}
		}
		rows = append(rows, row)
	}

	return buildSheet(headers, rows), nil
}

// sniffDelimiter counts comma vs semicolon occurrences across the first five
// lines.
func sniffDelimiter(data []byte) rune {
	lines := strings.SplitN(string(data), "\n", 6)
	if len(lines) > 5 {
		lines = lines[:5]
	}

	commas, semicolons := 0, 0
	for _, line := range lines {
		commas += strings.Count(line, ",")
		semicolons += strings.Count(line, ";")
	}

	if semicolons > commas {
		return ';'
	}
	return ','
}
