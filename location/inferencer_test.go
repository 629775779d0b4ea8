package location

import (
	"testing"

	"goship/shipment"
)

func referenceContext() Context {
	return Context{
		Departments: []Department{
			{ID: "dep-canelones", Name: "Canelones"},
			{ID: "dep-maldonado", Name: "Maldonado"},
			{ID: "dep-montevideo", Name: "Montevideo"},
		},
		Localities: map[string][]Locality{
			"dep-canelones": {
				{ID: "loc-canelones", DepartmentID: "dep-canelones", Name: "Canelones"},
				{ID: "loc-sanramon", DepartmentID: "dep-canelones", Name: "San Ramón"},
				{ID: "loc-pando", DepartmentID: "dep-canelones", Name: "Pando"},
			},
			"dep-maldonado": {
				{ID: "loc-maldonado", DepartmentID: "dep-maldonado", Name: "Maldonado"},
				{ID: "loc-sancarlos", DepartmentID: "dep-maldonado", Name: "San Carlos"},
			},
			"dep-montevideo": {
				{ID: "loc-pocitos", DepartmentID: "dep-montevideo", Name: "Pocitos"},
			},
		},
	}
}

func TestInferDepartmentAndLocality(t *testing.T) {
	t.Parallel()

	result := Infer("Canelones - San Ramon - Calle 1", referenceContext())
	if result.DepartmentID != "dep-canelones" {
		t.Fatalf("unexpected department: %q", result.DepartmentID)
	}
	if result.LocalityID != "loc-sanramon" {
		t.Fatalf("unexpected locality: %q", result.LocalityID)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("want confidence 1.0, got %v", result.Confidence)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("want no warnings, got %v", result.Warnings)
	}
}

func TestInferPickupWithCapitalFallback(t *testing.T) {
	t.Parallel()

	result := Infer("Maldonado - Agencia", referenceContext())
	if result.DeliveryType != shipment.DeliveryPickup {
		t.Fatalf("want branch pickup, got %q", result.DeliveryType)
	}
	if result.DepartmentID != "dep-maldonado" {
		t.Fatalf("unexpected department: %q", result.DepartmentID)
	}
	if result.LocalityID != "loc-maldonado" {
		t.Fatalf("want capital locality, got %q", result.LocalityID)
	}
	if result.Confidence != 0.8 {
		t.Fatalf("want confidence 0.8, got %v", result.Confidence)
	}
}

func TestInferUnknownDepartment(t *testing.T) {
	t.Parallel()

	result := Infer("Unknown - City", referenceContext())
	if result.DepartmentID != "" {
		t.Fatalf("unexpected department: %q", result.DepartmentID)
	}
	if result.Confidence != 0 {
		t.Fatalf("want confidence 0, got %v", result.Confidence)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != WarnDepartmentNotFound {
		t.Fatalf("want department-not-found warning, got %v", result.Warnings)
	}
}

func TestInferManualLocality(t *testing.T) {
	t.Parallel()

	result := Infer("Canelones, Barrio Nuevo", referenceContext())
	if result.DepartmentID != "dep-canelones" {
		t.Fatalf("unexpected department: %q", result.DepartmentID)
	}
	if result.LocalityID != "" {
		t.Fatalf("no stored locality expected, got %q", result.LocalityID)
	}
	if result.ManualLocality != "Barrio Nuevo" {
		t.Fatalf("manual locality should be title-cased, got %q", result.ManualLocality)
	}
	if result.Confidence != 0.5 {
		t.Fatalf("want confidence 0.5, got %v", result.Confidence)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != WarnLocalityInferredManually {
		t.Fatalf("want manual-locality warning, got %v", result.Warnings)
	}
}

func TestInferDepartmentWithoutCapital(t *testing.T) {
	t.Parallel()

	result := Infer("Montevideo", referenceContext())
	if result.DepartmentID != "dep-montevideo" {
		t.Fatalf("unexpected department: %q", result.DepartmentID)
	}
	if result.LocalityID != "" {
		t.Fatalf("no capital locality exists, got %q", result.LocalityID)
	}
	if result.ManualLocality != "Montevideo" {
		t.Fatalf("department name should become the manual locality, got %q", result.ManualLocality)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != WarnLocalityInferredManually {
		t.Fatalf("want manual-locality warning, got %v", result.Warnings)
	}
}

func TestInferAccentAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	result := Infer("CANELONES - san ramón", referenceContext())
	if result.LocalityID != "loc-sanramon" {
		t.Fatalf("accented input should still match, got %q", result.LocalityID)
	}
}

func TestInferEmptyAndPickupOnly(t *testing.T) {
	t.Parallel()

	empty := Infer("   ", referenceContext())
	if empty.DepartmentID != "" || empty.Confidence != 0 {
		t.Fatalf("blank address should yield an empty result: %+v", empty)
	}

	pickupOnly := Infer("Agencia", referenceContext())
	if pickupOnly.DeliveryType != shipment.DeliveryPickup {
		t.Fatalf("want pickup delivery type, got %q", pickupOnly.DeliveryType)
	}
	if pickupOnly.DepartmentID != "" {
		t.Fatalf("no department should be inferred: %+v", pickupOnly)
	}
}
