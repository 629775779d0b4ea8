package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSVBasic(t *testing.T) {
	t.Parallel()

	data := []byte("Nombre,Dirección,Teléfono,Ciudad\nJuan Perez,Av. Italia 1234,099123456,Montevideo\n")
	sheet, err := Parse(data, "envios.csv", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sheet.TotalRows != 1 {
		t.Fatalf("want 1 total row, got %d", sheet.TotalRows)
	}
	if len(sheet.SampleRows) != 1 {
		t.Fatalf("want 1 sample row, got %d", len(sheet.SampleRows))
	}
	if len(sheet.Headers) != 4 {
		t.Fatalf("want 4 headers, got %v", sheet.Headers)
	}
	for _, header := range []string{"Nombre", "Dirección", "Teléfono", "Ciudad"} {
		if !containsString(sheet.RequiredCandidates, header) {
			t.Fatalf("header %q missing from required candidates %v", header, sheet.RequiredCandidates)
		}
	}
}

func TestParseCSVSampleCap(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("Nombre,Dirección\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "Cliente %d,Calle %d\n", i, i)
	}

	sheet, err := Parse([]byte(b.String()), "bulk.csv", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheet.TotalRows != 100 {
		t.Fatalf("want 100 total rows, got %d", sheet.TotalRows)
	}
	if len(sheet.SampleRows) != SampleRowLimit {
		t.Fatalf("want sample capped at %d, got %d", SampleRowLimit, len(sheet.SampleRows))
	}
}

func TestParseCSVSemicolonDelimiter(t *testing.T) {
	t.Parallel()

	data := []byte("Nombre;Dirección;Teléfono\nAna;Bulevar Artigas 567;098765432\n")
	sheet, err := Parse(data, "envios.csv", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Headers) != 3 {
		t.Fatalf("semicolon not detected, headers: %v", sheet.Headers)
	}
}

func TestParseEmptyFieldWarnings(t *testing.T) {
	t.Parallel()

	data := []byte("Nombre,Dirección\nJuan,\n,Av. Italia 1234\n")
	sheet, err := Parse(data, "envios.csv", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sheet.Warnings) != 2 {
		t.Fatalf("want 2 warnings, got %v", sheet.Warnings)
	}
	first := sheet.Warnings[0]
	if first.Row != 2 || first.Column != "Dirección" || first.Message != "empty field" {
		t.Fatalf("unexpected first warning: %+v", first)
	}
	second := sheet.Warnings[1]
	if second.Row != 3 || second.Column != "Nombre" {
		t.Fatalf("unexpected second warning: %+v", second)
	}
}

func TestParseErrorCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		filename string
		limit    int64
		want     ErrorCode
	}{
		{name: "unsupported extension", data: []byte("x"), filename: "datos.pdf", limit: DefaultMaxFileSize, want: CodeInvalidFile},
		{name: "empty csv", data: []byte(""), filename: "datos.csv", limit: DefaultMaxFileSize, want: CodeEmptyFile},
		{name: "whitespace only csv", data: []byte("\n\n"), filename: "datos.csv", limit: DefaultMaxFileSize, want: CodeEmptyFile},
		{name: "oversize", data: bytes.Repeat([]byte("a"), 32), filename: "datos.csv", limit: 16, want: CodeFileTooLarge},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseWithLimit(tc.data, tc.filename, "", tc.limit)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("want *ParseError, got %v", err)
			}
			if parseErr.Code != tc.want {
				t.Fatalf("want code %s, got %s", tc.want, parseErr.Code)
			}
		})
	}
}

func TestParseWorkbookSheetSelection(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, []workbookSheet{
		{name: "Envios", rows: [][]string{
			{"Nombre", "Dirección"},
			{"Juan", "Av. Italia 1234"},
		}},
		{name: "Otros", rows: [][]string{
			{"Columna"},
			{"valor"},
		}},
	})

	sheet, err := Parse(data, "envios.xlsx", "Envios")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheet.TotalRows != 1 {
		t.Fatalf("want 1 row, got %d", sheet.TotalRows)
	}

	_, err = Parse(data, "envios.xlsx", "NoExiste")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Code != CodeSheetNotFound {
		t.Fatalf("want SHEET_NOT_FOUND, got %v", err)
	}
	if !strings.Contains(parseErr.Message, "Envios") {
		t.Fatalf("error should list available sheets: %v", parseErr)
	}
}

func TestDetectSignals(t *testing.T) {
	t.Parallel()

	data := []byte("Nombre,Dirección,Agencia,Flete\n" +
		"Juan,Agencia Central,DAC,si\n" +
		"Ana,Retiro sucursal Pando,DAC,no\n" +
		"Luis,Av. Italia 1234,DAC,si\n")

	sheet, err := Parse(data, "envios.csv", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	signals := sheet.Signals
	if !signals.HasAgencyColumn {
		t.Fatal("agency column signal should fire")
	}
	if !signals.HasFreightPaidColumn {
		t.Fatal("freight-paid column signal should fire")
	}
	if !signals.AddressHasPickup {
		t.Fatal("pickup keyword signal should fire: 2 of 3 addresses mention pickup")
	}
	if signals.SuggestedService != ServiceAgencyPickup {
		t.Fatalf("want suggested service %q, got %q", ServiceAgencyPickup, signals.SuggestedService)
	}
	want := agencyColumnIncrement + freightColumnIncrement + pickupAddressIncrement
	if signals.Confidence != want {
		t.Fatalf("want confidence %.2f, got %.2f", want, signals.Confidence)
	}
	if len(signals.Justifications) != 3 {
		t.Fatalf("want 3 justifications, got %v", signals.Justifications)
	}
}

func TestSignalConfidenceCapped(t *testing.T) {
	t.Parallel()

	rows := []map[string]string{
		{"Dirección": "Agencia Central"},
		{"Dirección": "Sucursal Pando"},
	}
	signals := detectSignals([]string{"Dirección", "Agencia", "Flete", "Agencia destino"}, rows)
	if signals.Confidence > 1.0 {
		t.Fatalf("confidence must be capped at 1.0, got %.2f", signals.Confidence)
	}
}

type workbookSheet struct {
	name string
	rows [][]string
}

func buildWorkbook(t *testing.T, sheets []workbookSheet) []byte {
	t.Helper()

	file := excelize.NewFile()
	for idx, sheet := range sheets {
		name := sheet.name
		if idx == 0 {
			if err := file.SetSheetName(file.GetSheetName(0), name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := file.NewSheet(name); err != nil {
				t.Fatalf("create sheet: %v", err)
			}
		}
		for i, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := file.SetSheetRow(name, cell, &values); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
