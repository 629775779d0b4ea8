package mapping

import (
	"strconv"
	"strings"

	"goship/shipment"
)

// Deterministic value transforms. These never go through the classifier; a
// mapping only decides which column feeds which field, the transforms decide
// how the cell text becomes a typed value.

var affirmativeTokens = map[string]bool{
	"si": true, "sí": true, "pago": true, "pagado": true,
	"1": true, "true": true, "yes": true,
}

var negativeTokens = map[string]bool{
	"no": true, "0": true, "false": true,
}

// ParseFreightPaid interprets a freight-paid cell. Unknown or empty values
// return nil rather than guessing.
func ParseFreightPaid(raw string) *bool {
	token := strings.ToLower(strings.TrimSpace(raw))
	if affirmativeTokens[token] {
		value := true
		return &value
	}
	if negativeTokens[token] {
		value := false
		return &value
	}
	return nil
}

const phoneSeparators = " \t()-./"

// NormalizePhone strips whitespace and common punctuation separators.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if strings.ContainsRune(phoneSeparators, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseDecimal parses a numeric cell accepting a comma as decimal separator.
// Non-numeric input yields nil.
func ParseDecimal(raw string) *float64 {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &value
}

// cleanText trims a free-text cell. The caller treats "" as null.
func cleanText(raw string) string {
	return strings.TrimSpace(raw)
}

// Apply builds one canonical record from a raw row using the column
// assignments. Ignore targets are skipped; empty or unparseable values leave
// the field in its null state.
func Apply(mappings []ColumnMapping, row map[string]string) shipment.Record {
	record := shipment.Record{}

	for _, mapping := range mappings {
		if mapping.TargetField == shipment.FieldIgnore {
			continue
		}
		raw, ok := row[mapping.SourceHeader]
		if !ok {
			continue
		}
		setField(&record, mapping.TargetField, raw)
	}

	return record
}

func setField(record *shipment.Record, field shipment.TargetField, raw string) {
	switch field {
	case shipment.FieldTrackingCode:
		record.TrackingCode = cleanText(raw)
	case shipment.FieldRecipientName:
		record.RecipientName = cleanText(raw)
	case shipment.FieldRecipientAddress:
		record.RecipientAddress = cleanText(raw)
	case shipment.FieldRecipientPhone:
		record.RecipientPhone = NormalizePhone(cleanText(raw))
	case shipment.FieldRecipientEmail:
		record.RecipientEmail = cleanText(raw)
	case shipment.FieldDepartment:
		record.Department = cleanText(raw)
	case shipment.FieldLocality:
		record.Locality = cleanText(raw)
	case shipment.FieldPostalCode:
		record.PostalCode = cleanText(raw)
	case shipment.FieldObservations:
		record.Observations = cleanText(raw)
	case shipment.FieldNotes:
		record.Notes = cleanText(raw)
	case shipment.FieldFreightPaid:
		record.FreightPaid = ParseFreightPaid(raw)
	case shipment.FieldFreightAmount:
		record.FreightAmount = ParseDecimal(raw)
	case shipment.FieldCost:
		record.Cost = ParseDecimal(raw)
	case shipment.FieldPackageSize:
		record.PackageSize = cleanText(raw)
	case shipment.FieldPackageCount:
		record.PackageCount = ParseDecimal(raw)
	case shipment.FieldWeight:
		record.Weight = ParseDecimal(raw)
	case shipment.FieldContentDescription:
		record.ContentDescription = cleanText(raw)
	case shipment.FieldAgency:
		record.Agency = cleanText(raw)
	case shipment.FieldServiceType:
		record.ServiceTypeID = cleanText(raw)
	}
}
