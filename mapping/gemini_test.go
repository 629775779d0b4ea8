package mapping

import (
	"strings"
	"testing"

	"goship/shipment"
)

func TestParseGeminiResponseCoercesUnknownFields(t *testing.T) {
	t.Parallel()

	text := `{
		"columns": [
			{"header": "Nombre", "field": "recipient_name", "confidence": 0.9},
			{"header": "Columna X", "field": "made_up_field", "confidence": 0.9},
			{"header": "Peso", "field": "weight", "confidence": 1.7}
		],
		"notes": ["layout looks like a courier export"]
	}`

	suggestion, err := parseGeminiResponse(text, []string{"Nombre", "Columna X", "Peso", "Extra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestion.Mappings) != 4 {
		t.Fatalf("want one mapping per header, got %d", len(suggestion.Mappings))
	}

	if suggestion.Mappings[0].TargetField != shipment.FieldRecipientName {
		t.Fatalf("unexpected field: %s", suggestion.Mappings[0].TargetField)
	}
	if suggestion.Mappings[1].TargetField != shipment.FieldIgnore {
		t.Fatal("unknown classifier output must be coerced to ignore")
	}
	if suggestion.Mappings[2].Confidence != 1.0 {
		t.Fatalf("confidence must be clamped to 1.0, got %v", suggestion.Mappings[2].Confidence)
	}
	if suggestion.Mappings[3].TargetField != shipment.FieldIgnore {
		t.Fatal("headers the classifier skipped must map to ignore")
	}
}

func TestParseGeminiResponseRepairsSloppyJSON(t *testing.T) {
	t.Parallel()

	// Trailing comma and missing quotes, the kind of output LLMs produce.
	text := "```json\n{\"columns\": [{\"header\": \"Nombre\", \"field\": \"recipient_name\", \"confidence\": 0.8},]}\n```"

	suggestion, err := parseGeminiResponse(text, []string{"Nombre"})
	if err != nil {
		t.Fatalf("repairable json should parse: %v", err)
	}
	if suggestion.Mappings[0].TargetField != shipment.FieldRecipientName {
		t.Fatalf("unexpected field: %s", suggestion.Mappings[0].TargetField)
	}
}

func TestBuildPromptIncludesContext(t *testing.T) {
	t.Parallel()

	prompt := buildPrompt(Request{
		Headers:        []string{"Nombre", "Dirección"},
		SampleRows:     []map[string]string{{"Nombre": "Juan", "Dirección": "Av. Italia 1234"}},
		OrgName:        "Tienda Test",
		RequiredFields: []shipment.TargetField{shipment.FieldRecipientName},
	})

	for _, fragment := range []string{"Tienda Test", "Nombre | Dirección", "recipient_name", "Juan | Av. Italia 1234"} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}
