// Package mapping classifies source columns into canonical shipment fields
// and applies value-level transforms. Two interchangeable providers exist: an
// AI-backed classifier and a deterministic heuristic fallback.
package mapping

import (
	"context"

	"goship/internal/headernorm"
	"goship/shipment"
)

// ColumnMapping assigns one source header to a canonical target field.
type ColumnMapping struct {
	SourceHeader string
	TargetField  shipment.TargetField
	Transform    string
	Confidence   float64
}

// Suggestion is a provider's full answer for one header layout.
type Suggestion struct {
	Mappings []ColumnMapping
	Defaults map[shipment.TargetField]string
	// Questions the provider wants answered by the operator before commit.
	Questions []string
	Notes     []string
}

// Request carries headers, a small row sample, and optional business context
// into a provider.
type Request struct {
	Headers    []string
	SampleRows []map[string]string
	OrgName    string
	// RequiredFields hints which canonical fields the caller expects to see.
	RequiredFields []shipment.TargetField
}

// Provider suggests a column mapping for a header layout. Implementations
// must only emit target fields from the closed enum.
type Provider interface {
	Name() string
	SuggestMapping(ctx context.Context, req Request) (*Suggestion, error)
}

// FromFieldMap rebuilds column mappings from a persisted field map keyed by
// normalized header. Headers the map does not know go to ignore; mappings
// sourced from a saved template carry full confidence.
func FromFieldMap(fieldMap map[string]shipment.TargetField, headers []string) []ColumnMapping {
	mappings := make([]ColumnMapping, 0, len(headers))
	for _, header := range headers {
		field, ok := fieldMap[headernorm.Normalize(header)]
		if !ok {
			mappings = append(mappings, ColumnMapping{
				SourceHeader: header,
				TargetField:  shipment.FieldIgnore,
				Confidence:   unmatchedConfidence,
			})
			continue
		}
		mappings = append(mappings, ColumnMapping{
			SourceHeader: header,
			TargetField:  shipment.ParseTargetField(string(field)),
			Confidence:   1.0,
		})
	}
	return mappings
}

// clampConfidence keeps confidences inside [0, 1].
func clampConfidence(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
