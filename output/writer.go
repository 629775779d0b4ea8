// Package output exports committed canonical records to CSV or Excel.
package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"goship/shipment"
)

type Writer interface {
	Write(path string, records []shipment.Record) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

var exportHeaders = []string{
	"TrackingCode", "RecipientName", "RecipientAddress", "RecipientPhone", "RecipientEmail",
	"Department", "Locality", "PostalCode", "Observations", "Notes", "FreightPaid",
	"FreightAmount", "Cost", "PackageSize", "PackageCount", "Weight", "ContentDescription",
	"Agency", "ServiceType", "DeliveryType", "SourceFile", "CreatedAt",
}

func exportRow(record shipment.Record) []string {
	return []string{
		record.TrackingCode,
		record.RecipientName,
		record.RecipientAddress,
		record.RecipientPhone,
		record.RecipientEmail,
		record.Department,
		record.Locality,
		record.PostalCode,
		record.Observations,
		record.Notes,
		formatBool(record.FreightPaid),
		formatFloat(record.FreightAmount),
		formatFloat(record.Cost),
		record.PackageSize,
		formatFloat(record.PackageCount),
		formatFloat(record.Weight),
		record.ContentDescription,
		record.Agency,
		record.ServiceTypeID,
		string(record.DeliveryType),
		record.SourceFile,
		record.CreatedAt.Format(time.RFC3339),
	}
}

func formatBool(value *bool) string {
	if value == nil {
		return ""
	}
	return strconv.FormatBool(*value)
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
