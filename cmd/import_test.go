package cmd

import (
	"testing"

	"goship/mapping"
	"goship/shipment"
)

func TestFieldMapFromMappings(t *testing.T) {
	mappings := []mapping.ColumnMapping{
		{SourceHeader: "Número de Guía", TargetField: shipment.FieldTrackingCode, Confidence: 0.8},
		{SourceHeader: "Teléfono", TargetField: shipment.FieldRecipientPhone, Confidence: 0.8},
		{SourceHeader: "Notas", TargetField: shipment.FieldIgnore, Confidence: 0.1},
	}

	fieldMap := fieldMapFromMappings(mappings)

	if len(fieldMap) != 2 {
		t.Fatalf("expected 2 mapped columns, got %d", len(fieldMap))
	}
	if fieldMap["numero de guia"] != shipment.FieldTrackingCode {
		t.Fatalf("expected normalized tracking header, got %v", fieldMap)
	}
	if fieldMap["telefono"] != shipment.FieldRecipientPhone {
		t.Fatalf("expected normalized phone header, got %v", fieldMap)
	}
	if _, ok := fieldMap["notas"]; ok {
		t.Fatalf("ignored columns must not be persisted")
	}
}
