// Package dedup flags probable duplicate shipments before commit. Verdicts
// are advisory; the caller decides whether to skip, merge, or force-create.
package dedup

import (
	"context"
	"errors"
	"time"

	"goship/shipment"
)

// ErrNotFound is returned by record stores when no record matches a lookup.
var ErrNotFound = errors.New("record not found")

// Window is how far back the content match looks.
const Window = 72 * time.Hour

// MatchQuery narrows the time-windowed lookup. Zero-valued fields are not
// part of the filter.
type MatchQuery struct {
	OrgID         string
	ServiceTypeID string
	Since         time.Time
	Phone         string
	Address       string
	AgencyID      string
	DeliveryType  shipment.DeliveryType
}

// RecordStore is the read side of the committed-records store, always scoped
// by organization.
type RecordStore interface {
	GetByTrackingCode(ctx context.Context, orgID, trackingCode string) (*shipment.Record, error)
	FindRecentMatch(ctx context.Context, query MatchQuery) (*shipment.Record, error)
}

// Verdict is the outcome of a duplicate check.
type Verdict struct {
	IsDuplicate     bool
	MatchedRecordID string
	Reason          string
}

const (
	reasonTrackingCode = "tracking code already exists"
	reasonRecentMatch  = "probable duplicate within 72 hours"
)

// Checker runs duplicate detection against a record store.
type Checker struct {
	store RecordStore
	now   func() time.Time
}

func NewChecker(store RecordStore) *Checker {
	return &Checker{store: store, now: time.Now}
}

// Check looks for a probable duplicate of the candidate record. Store
// failures degrade to a non-duplicate verdict; this check never blocks an
// import.
func (c *Checker) Check(ctx context.Context, orgID string, record shipment.Record, serviceTypeID, agencyID string, deliveryType shipment.DeliveryType) Verdict {
	if record.TrackingCode != "" {
		existing, err := c.store.GetByTrackingCode(ctx, orgID, record.TrackingCode)
		if err == nil && existing != nil {
			return Verdict{
				IsDuplicate:     true,
				MatchedRecordID: existing.ID,
				Reason:          reasonTrackingCode,
			}
		}
	}

	// Without at least one content filter the window query would match any
	// recent record for the organization.
	if record.RecipientPhone == "" && record.RecipientAddress == "" && agencyID == "" && deliveryType == "" {
		return Verdict{}
	}

	query := MatchQuery{
		OrgID:         orgID,
		ServiceTypeID: serviceTypeID,
		Since:         c.now().Add(-Window),
		Phone:         record.RecipientPhone,
		Address:       record.RecipientAddress,
		AgencyID:      agencyID,
		DeliveryType:  deliveryType,
	}

	existing, err := c.store.FindRecentMatch(ctx, query)
	if err != nil || existing == nil {
		return Verdict{}
	}

	return Verdict{
		IsDuplicate:     true,
		MatchedRecordID: existing.ID,
		Reason:          reasonRecentMatch,
	}
}
