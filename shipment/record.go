// Package shipment holds the canonical shipment model that imported rows are
// reconciled into.
package shipment

import "time"

// TargetField is one canonical shipment attribute a source column may be
// mapped to. The set is closed; anything a classifier returns outside it must
// be coerced to FieldIgnore.
type TargetField string

const (
	FieldTrackingCode       TargetField = "tracking_code"
	FieldRecipientName      TargetField = "recipient_name"
	FieldRecipientAddress   TargetField = "recipient_address"
	FieldRecipientPhone     TargetField = "recipient_phone"
	FieldRecipientEmail     TargetField = "recipient_email"
	FieldDepartment         TargetField = "department"
	FieldLocality           TargetField = "locality"
	FieldPostalCode         TargetField = "postal_code"
	FieldObservations       TargetField = "observations"
	FieldNotes              TargetField = "notes"
	FieldFreightPaid        TargetField = "freight_paid"
	FieldFreightAmount      TargetField = "freight_amount"
	FieldCost               TargetField = "cost"
	FieldPackageSize        TargetField = "package_size"
	FieldPackageCount       TargetField = "package_count"
	FieldWeight             TargetField = "weight"
	FieldContentDescription TargetField = "content_description"
	FieldAgency             TargetField = "agency"
	FieldServiceType        TargetField = "service_type"

	// FieldIgnore marks a source column that maps to nothing.
	FieldIgnore TargetField = "ignore"
)

var validTargetFields = map[TargetField]bool{
	FieldTrackingCode:       true,
	FieldRecipientName:      true,
	FieldRecipientAddress:   true,
	FieldRecipientPhone:     true,
	FieldRecipientEmail:     true,
	FieldDepartment:         true,
	FieldLocality:           true,
	FieldPostalCode:         true,
	FieldObservations:       true,
	FieldNotes:              true,
	FieldFreightPaid:        true,
	FieldFreightAmount:      true,
	FieldCost:               true,
	FieldPackageSize:        true,
	FieldPackageCount:       true,
	FieldWeight:             true,
	FieldContentDescription: true,
	FieldAgency:             true,
	FieldServiceType:        true,
	FieldIgnore:             true,
}

// ParseTargetField coerces a raw value into the closed enum. Unknown values
// become FieldIgnore so external classifier output can never widen the schema.
func ParseTargetField(raw string) TargetField {
	field := TargetField(raw)
	if validTargetFields[field] {
		return field
	}
	return FieldIgnore
}

// TargetFields lists every assignable field except the ignore sentinel, in a
// stable order suitable for prompts and exports.
func TargetFields() []TargetField {
	return []TargetField{
		FieldTrackingCode,
		FieldRecipientName,
		FieldRecipientAddress,
		FieldRecipientPhone,
		FieldRecipientEmail,
		FieldDepartment,
		FieldLocality,
		FieldPostalCode,
		FieldObservations,
		FieldNotes,
		FieldFreightPaid,
		FieldFreightAmount,
		FieldCost,
		FieldPackageSize,
		FieldPackageCount,
		FieldWeight,
		FieldContentDescription,
		FieldAgency,
		FieldServiceType,
	}
}

// DeliveryType distinguishes door delivery from branch pickup.
type DeliveryType string

const (
	DeliveryHome   DeliveryType = "home_delivery"
	DeliveryPickup DeliveryType = "branch_pickup"
)

// Record is one canonical shipment after mapping and transforms. Pointer
// fields are nil when the source value was empty or unparseable; raw string
// sentinels are never stored.
type Record struct {
	ID                 string
	OrgID              string
	TrackingCode       string
	RecipientName      string
	RecipientAddress   string
	RecipientPhone     string
	RecipientEmail     string
	Department         string
	Locality           string
	PostalCode         string
	Observations       string
	Notes              string
	FreightPaid        *bool
	FreightAmount      *float64
	Cost               *float64
	PackageSize        string
	PackageCount       *float64
	Weight             *float64
	ContentDescription string
	Agency             string
	ServiceTypeID      string
	DeliveryType       DeliveryType

	SourceFile   string
	SourceFormat string
	CreatedAt    time.Time
}
