package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseWorkbook decodes an Excel workbook. An explicit sheet name must exist;
// with no name the first sheet is used.
func parseWorkbook(data []byte, sheetName string) (*ParsedSheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Code: CodeInvalidFile, Message: fmt.Sprintf("open workbook: %v", err)}
	}
	defer file.Close()

	available := file.GetSheetList()
	if len(available) == 0 {
		return nil, &ParseError{Code: CodeEmptyFile, Message: "workbook has no sheets"}
	}

	selected := sheetName
	if selected == "" {
		selected = available[0]
	} else if !containsSheet(available, selected) {
		return nil, &ParseError{
			Code:    CodeSheetNotFound,
			Message: fmt.Sprintf("sheet %q not found; available sheets: %s", selected, strings.Join(available, ", ")),
		}
	}

	rows, err := file.GetRows(selected)
	if err != nil {
		return nil, &ParseError{Code: CodeInvalidFile, Message: fmt.Sprintf("read sheet %s: %v", selected, err)}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Code: CodeEmptyFile, Message: fmt.Sprintf("sheet %s is empty", selected)}
	}

	return buildSheet(rows[0], rows[1:]), nil
}

func containsSheet(names []string, name string) bool {
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}
