package dedup

import (
	"context"
	"errors"
	"testing"
	"time"

	"goship/shipment"
)

type fakeRecordStore struct {
	byTracking map[string]*shipment.Record
	recent     *shipment.Record
	recentErr  error
	lastQuery  MatchQuery
}

func (s *fakeRecordStore) GetByTrackingCode(_ context.Context, orgID, code string) (*shipment.Record, error) {
	record, ok := s.byTracking[orgID+"/"+code]
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}

func (s *fakeRecordStore) FindRecentMatch(_ context.Context, query MatchQuery) (*shipment.Record, error) {
	s.lastQuery = query
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	if s.recent == nil {
		return nil, ErrNotFound
	}
	return s.recent, nil
}

func TestCheckTrackingCodeDuplicate(t *testing.T) {
	t.Parallel()

	store := &fakeRecordStore{byTracking: map[string]*shipment.Record{
		"org-1/UY123": {ID: "rec-1", TrackingCode: "UY123"},
	}}
	checker := NewChecker(store)

	verdict := checker.Check(context.Background(), "org-1", shipment.Record{TrackingCode: "UY123"}, "svc-1", "", "")
	if !verdict.IsDuplicate {
		t.Fatal("same tracking code must be a duplicate")
	}
	if verdict.MatchedRecordID != "rec-1" {
		t.Fatalf("unexpected matched record: %q", verdict.MatchedRecordID)
	}
	if verdict.Reason != "tracking code already exists" {
		t.Fatalf("unexpected reason: %q", verdict.Reason)
	}
}

func TestCheckTrackingCodeScopedByOrg(t *testing.T) {
	t.Parallel()

	store := &fakeRecordStore{byTracking: map[string]*shipment.Record{
		"org-1/UY123": {ID: "rec-1", TrackingCode: "UY123"},
	}}
	checker := NewChecker(store)

	verdict := checker.Check(context.Background(), "org-2", shipment.Record{TrackingCode: "UY123"}, "svc-1", "", "")
	if verdict.IsDuplicate {
		t.Fatal("tracking codes must not match across organizations")
	}
}

func TestCheckRecentContentMatch(t *testing.T) {
	t.Parallel()

	store := &fakeRecordStore{recent: &shipment.Record{ID: "rec-2"}}
	checker := NewChecker(store)

	record := shipment.Record{
		RecipientPhone:   "099123456",
		RecipientAddress: "Av. Italia 1234",
	}
	verdict := checker.Check(context.Background(), "org-1", record, "svc-1", "ag-7", shipment.DeliveryHome)
	if !verdict.IsDuplicate {
		t.Fatal("recent content match must be a duplicate")
	}
	if verdict.Reason != "probable duplicate within 72 hours" {
		t.Fatalf("unexpected reason: %q", verdict.Reason)
	}

	query := store.lastQuery
	if query.OrgID != "org-1" || query.ServiceTypeID != "svc-1" {
		t.Fatalf("query missing org/service scope: %+v", query)
	}
	if query.Phone != "099123456" || query.Address != "Av. Italia 1234" {
		t.Fatalf("query missing content filters: %+v", query)
	}
	if query.AgencyID != "ag-7" || query.DeliveryType != shipment.DeliveryHome {
		t.Fatalf("query missing agency/delivery filters: %+v", query)
	}
}

func TestCheckWindowBound(t *testing.T) {
	t.Parallel()

	store := &fakeRecordStore{}
	checker := NewChecker(store)
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	checker.now = func() time.Time { return fixed }

	checker.Check(context.Background(), "org-1", shipment.Record{RecipientPhone: "099123456"}, "svc-1", "", "")
	want := fixed.Add(-72 * time.Hour)
	if !store.lastQuery.Since.Equal(want) {
		t.Fatalf("want since %v, got %v", want, store.lastQuery.Since)
	}
}

func TestCheckNoMatch(t *testing.T) {
	t.Parallel()

	checker := NewChecker(&fakeRecordStore{})
	verdict := checker.Check(context.Background(), "org-1", shipment.Record{TrackingCode: "UYXXX"}, "svc-1", "", "")
	if verdict.IsDuplicate {
		t.Fatalf("no match should not be a duplicate: %+v", verdict)
	}
}

func TestCheckSkipsWindowQueryWithoutContentFilters(t *testing.T) {
	t.Parallel()

	store := &fakeRecordStore{recent: &shipment.Record{ID: "rec-9"}}
	checker := NewChecker(store)

	verdict := checker.Check(context.Background(), "org-1", shipment.Record{}, "svc-1", "", "")
	if verdict.IsDuplicate {
		t.Fatal("a record with no comparable content must not match anything")
	}
	if store.lastQuery.OrgID != "" {
		t.Fatal("window query should be skipped entirely")
	}
}

func TestCheckStoreFailureDegrades(t *testing.T) {
	t.Parallel()

	checker := NewChecker(&fakeRecordStore{recentErr: errors.New("store down")})
	verdict := checker.Check(context.Background(), "org-1", shipment.Record{RecipientPhone: "099123456"}, "svc-1", "", "")
	if verdict.IsDuplicate {
		t.Fatal("store failure must degrade to non-duplicate, not error")
	}
}
