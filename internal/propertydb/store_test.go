package propertydb_test

import (
	"path/filepath"
	"testing"
	"time"

	"attrinfer/internal/propertydb"
)

func openTestStore(t *testing.T) *propertydb.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "property.db")
	s, err := propertydb.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInsertAndListListings(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if _, err := s.InsertListing(propertydb.Listing{
		ParcelID: "P-1", Phone: "555-0100", OwnerName: "Jane Doe",
		LotAcres: 1.03, ListPrice: 250000, ListedAt: now,
	}); err != nil {
		t.Fatalf("InsertListing: %v", err)
	}
	if _, err := s.InsertListing(propertydb.Listing{
		ParcelID: "P-1", Phone: "(555) 010-0000", OwnerName: "Jane Doe",
		LotAcres: 1.07, ListPrice: 255000, ListedAt: now.AddDate(0, 0, 7),
	}); err != nil {
		t.Fatalf("InsertListing: %v", err)
	}

	got, err := s.ListingsFor("P-1")
	if err != nil {
		t.Fatalf("ListingsFor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	if got[0].ListPrice != 250000 {
		t.Errorf("expected oldest-first ordering, got %+v", got[0])
	}
}

func TestParcelIDsAcrossTables(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()
	if _, err := s.InsertListing(propertydb.Listing{ParcelID: "P-1", ListedAt: now}); err != nil {
		t.Fatalf("InsertListing: %v", err)
	}
	if _, err := s.InsertAppraisal(propertydb.Appraisal{ParcelID: "P-2", AssessedAt: now}); err != nil {
		t.Fatalf("InsertAppraisal: %v", err)
	}
	if _, err := s.InsertTaxRecord(propertydb.TaxRecord{ParcelID: "P-1", TaxYear: 2025}); err != nil {
		t.Fatalf("InsertTaxRecord: %v", err)
	}

	ids, err := s.ParcelIDs()
	if err != nil {
		t.Fatalf("ParcelIDs: %v", err)
	}
	want := []string{"P-1", "P-2"}
	if len(ids) != len(want) {
		t.Fatalf("ParcelIDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ParcelIDs[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestAppraisalsAndTaxRecordsEmptyForUnknownParcel(t *testing.T) {
	s := openTestStore(t)
	appraisals, err := s.AppraisalsFor("nonexistent")
	if err != nil {
		t.Fatalf("AppraisalsFor: %v", err)
	}
	if len(appraisals) != 0 {
		t.Errorf("expected no appraisals, got %v", appraisals)
	}
	taxes, err := s.TaxRecordsFor("nonexistent")
	if err != nil {
		t.Fatalf("TaxRecordsFor: %v", err)
	}
	if len(taxes) != 0 {
		t.Errorf("expected no tax records, got %v", taxes)
	}
}
