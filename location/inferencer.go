// Package location infers structured department/locality fields from
// free-text addresses. Results are best-effort guesses with confidence and
// warnings; the caller decides what to do with them.
package location

import (
	"strings"

	"goship/internal/headernorm"
	"goship/shipment"
)

// Warning tags attached to inference results.
const (
	WarnDepartmentNotFound       = "department not found"
	WarnLocalityInferredManually = "locality inferred manually"
)

// Department is a reference-data department (e.g. Canelones).
type Department struct {
	ID   string
	Name string
}

// Locality is a reference-data locality within a department.
type Locality struct {
	ID           string
	DepartmentID string
	Name         string
}

// Context is the reference data an inference runs against.
type Context struct {
	Departments []Department
	// Localities grouped by department id.
	Localities map[string][]Locality
}

// Result is a best-effort structured parse of a free-text address.
type Result struct {
	DepartmentID   string
	LocalityID     string
	ManualLocality string
	DeliveryType   shipment.DeliveryType
	Confidence     float64
	Warnings       []string
}

// Segment delimiters: hyphen variants and commas. Splitting happens on the
// raw text because normalization itself erases this punctuation.
var segmentDelimiters = []string{"–", "—", "-", ","}

var pickupKeywords = map[string]bool{
	"agencia": true, "sucursal": true, "retiro": true,
	"pickup": true, "pick up": true, "retira": true,
}

// Infer parses an address into department/locality identifiers and a
// delivery-type hint. It never fails; worst case it returns a zero-confidence
// result with warnings.
func Infer(address string, ctx Context) Result {
	result := Result{Warnings: make([]string, 0, 1)}

	segments := splitSegments(address)
	if len(segments) == 0 {
		return result
	}

	// A pickup keyword in the last segment marks branch pickup and is not
	// part of the location itself.
	last := segments[len(segments)-1]
	if pickupKeywords[last] {
		result.DeliveryType = shipment.DeliveryPickup
		segments = segments[:len(segments)-1]
	}
	if len(segments) == 0 {
		return result
	}

	department := matchDepartment(segments[0], ctx.Departments)
	if department == nil {
		result.Warnings = append(result.Warnings, WarnDepartmentNotFound)
		return result
	}
	result.DepartmentID = department.ID
	result.Confidence = 0.5

	localities := ctx.Localities[department.ID]

	if len(segments) > 1 {
		candidate := segments[1]
		if locality := matchLocality(candidate, localities); locality != nil {
			result.LocalityID = locality.ID
			result.Confidence = 1.0
			return result
		}
		if !pickupKeywords[candidate] {
			result.ManualLocality = headernorm.Title(candidate)
			result.Warnings = append(result.Warnings, WarnLocalityInferredManually)
		}
		return result
	}

	// Department-only input: fall back to the capital, the locality sharing
	// the department's name.
	if capital := matchLocality(headernorm.Normalize(department.Name), localities); capital != nil {
		result.LocalityID = capital.ID
		result.Confidence = 0.8
		return result
	}

	result.ManualLocality = headernorm.Title(headernorm.Normalize(department.Name))
	result.Warnings = append(result.Warnings, WarnLocalityInferredManually)
	return result
}

// splitSegments splits the raw address on the delimiter set and normalizes
// each piece, dropping empties.
func splitSegments(address string) []string {
	raw := address
	for _, delimiter := range segmentDelimiters {
		raw = strings.ReplaceAll(raw, delimiter, "\x00")
	}

	parts := strings.Split(raw, "\x00")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if normalized := headernorm.Normalize(part); normalized != "" {
			segments = append(segments, normalized)
		}
	}
	return segments
}

func matchDepartment(segment string, departments []Department) *Department {
	for i := range departments {
		if headernorm.Normalize(departments[i].Name) == segment {
			return &departments[i]
		}
	}
	return nil
}

func matchLocality(segment string, localities []Locality) *Locality {
	for i := range localities {
		if headernorm.Normalize(localities[i].Name) == segment {
			return &localities[i]
		}
	}
	return nil
}
