// Package templates recognizes previously-seen header layouts and reuses
// their saved column mappings.
package templates

import (
	"context"
	"errors"
	"time"

	"goship/shipment"
)

// ErrNotFound is returned by stores when no template matches a lookup.
var ErrNotFound = errors.New("template not found")

// Template is an organization-scoped saved association between a header
// layout and a column mapping. The sha256 strict signature is the identity
// key; the short fingerprint is kept for display only.
type Template struct {
	ID             string
	OrgID          string
	Name           string
	Signature      string
	SignatureLoose string
	Fingerprint    string
	Headers        []string
	FieldMap       map[string]shipment.TargetField
	Defaults       map[shipment.TargetField]string
	UpdatedAt      time.Time
}

// Store abstracts template persistence. Lookups are always scoped by
// organization.
type Store interface {
	GetBySignature(ctx context.Context, orgID, signature string) (*Template, error)
	GetByLooseSignature(ctx context.Context, orgID, signature string) (*Template, error)
	ListByOrg(ctx context.Context, orgID string) ([]Template, error)
	// Upsert saves a template. A uniqueness conflict on (org, signature)
	// resolves to the pre-existing record instead of failing.
	Upsert(ctx context.Context, tpl Template) (*Template, error)
}
