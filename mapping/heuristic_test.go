package mapping

import (
	"context"
	"testing"

	"goship/shipment"
)

func TestHeuristicClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   shipment.TargetField
	}{
		{header: "Nombre", want: shipment.FieldRecipientName},
		{header: "Destinatario", want: shipment.FieldRecipientName},
		{header: "Dirección", want: shipment.FieldRecipientAddress},
		{header: "Teléfono", want: shipment.FieldRecipientPhone},
		{header: "Email", want: shipment.FieldRecipientEmail},
		{header: "Departamento", want: shipment.FieldDepartment},
		{header: "Localidad", want: shipment.FieldLocality},
		{header: "Ciudad", want: shipment.FieldLocality},
		{header: "Código Postal", want: shipment.FieldPostalCode},
		{header: "Observaciones", want: shipment.FieldObservations},
		{header: "Flete Pago", want: shipment.FieldFreightPaid},
		{header: "Costo de Flete", want: shipment.FieldFreightAmount},
		{header: "Costo", want: shipment.FieldCost},
		{header: "Tamaño", want: shipment.FieldPackageSize},
		{header: "Peso", want: shipment.FieldWeight},
		{header: "Contenido", want: shipment.FieldContentDescription},
		{header: "Agencia", want: shipment.FieldAgency},
		{header: "Tipo de Servicio", want: shipment.FieldServiceType},
		{header: "Número de Guía", want: shipment.FieldTrackingCode},
		{header: "Columna Rara", want: shipment.FieldIgnore},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.header, func(t *testing.T) {
			t.Parallel()
			got := classifyHeader(tc.header)
			if got.TargetField != tc.want {
				t.Fatalf("classifyHeader(%q) = %s, want %s", tc.header, got.TargetField, tc.want)
			}
		})
	}
}

func TestHeuristicConfidences(t *testing.T) {
	t.Parallel()

	matched := classifyHeader("Dirección")
	if matched.Confidence < 0.6 || matched.Confidence > 0.8 {
		t.Fatalf("matched confidence out of range: %v", matched.Confidence)
	}
	unmatched := classifyHeader("Columna Rara")
	if unmatched.Confidence != unmatchedConfidence {
		t.Fatalf("unmatched confidence = %v, want %v", unmatched.Confidence, unmatchedConfidence)
	}
}

func TestHeuristicOneMappingPerHeader(t *testing.T) {
	t.Parallel()

	provider := &HeuristicProvider{}
	headers := []string{"Nombre", "Dirección", "Nombre del vendedor", "Notas"}
	suggestion, err := provider.SuggestMapping(context.Background(), Request{Headers: headers})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestion.Mappings) != len(headers) {
		t.Fatalf("want %d mappings, got %d", len(headers), len(suggestion.Mappings))
	}

	seen := make(map[shipment.TargetField]int)
	for _, m := range suggestion.Mappings {
		if m.TargetField != shipment.FieldIgnore {
			seen[m.TargetField]++
		}
	}
	for field, count := range seen {
		if count > 1 {
			t.Fatalf("field %s assigned to %d columns", field, count)
		}
	}
}

func TestHeuristicDeterministic(t *testing.T) {
	t.Parallel()

	provider := &HeuristicProvider{}
	req := Request{Headers: []string{"Nombre", "Dirección", "Flete", "Peso"}}

	first, err := provider.SuggestMapping(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := provider.SuggestMapping(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first.Mappings {
		if first.Mappings[i] != second.Mappings[i] {
			t.Fatalf("heuristic mapping not deterministic at %d: %+v != %+v", i, first.Mappings[i], second.Mappings[i])
		}
	}
}
