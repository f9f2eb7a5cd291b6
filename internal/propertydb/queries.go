package propertydb

import (
	"database/sql"
	"fmt"
	"time"
)

// Listing is one MLS listing row for a parcel.
type Listing struct {
	ID        int64
	ParcelID  string
	Phone     string
	OwnerName string
	LotAcres  float64
	ListPrice float64
	ListedAt  time.Time
}

// Appraisal is one appraisal-district record for a parcel.
type Appraisal struct {
	ID          int64
	ParcelID    string
	OwnerName   string
	LotSqft     float64
	MarketValue float64
	AssessedAt  time.Time
}

// TaxRecord is one county tax-roll entry for a parcel.
type TaxRecord struct {
	ID         int64
	ParcelID   string
	OwnerName  string
	OwnerPhone string
	LotAcres   float64
	TaxYear    int
}

// ListingsFor returns every listing row for parcelID, oldest first.
func (s *Store) ListingsFor(parcelID string) ([]Listing, error) {
	rows, err := s.db.Query(
		`SELECT id, parcel_id, phone, owner_name, lot_acres, list_price, listed_at
		 FROM listings WHERE parcel_id = ? ORDER BY listed_at`,
		parcelID,
	)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		var phone, owner sql.NullString
		var lotAcres, listPrice sql.NullFloat64
		var listedAt string
		if err := rows.Scan(&l.ID, &l.ParcelID, &phone, &owner, &lotAcres, &listPrice, &listedAt); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		l.Phone = nullStr(phone)
		l.OwnerName = nullStr(owner)
		l.LotAcres = nullFloat(lotAcres)
		l.ListPrice = nullFloat(listPrice)
		t, err := time.Parse(time.RFC3339, listedAt)
		if err != nil {
			return nil, fmt.Errorf("parse listed_at: %w", err)
		}
		l.ListedAt = t
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return out, nil
}

// AppraisalsFor returns every appraisal row for parcelID, oldest first.
func (s *Store) AppraisalsFor(parcelID string) ([]Appraisal, error) {
	rows, err := s.db.Query(
		`SELECT id, parcel_id, owner_name, lot_sqft, market_value, assessed_at
		 FROM appraisals WHERE parcel_id = ? ORDER BY assessed_at`,
		parcelID,
	)
	if err != nil {
		return nil, fmt.Errorf("query appraisals: %w", err)
	}
	defer rows.Close()

	var out []Appraisal
	for rows.Next() {
		var a Appraisal
		var owner sql.NullString
		var lotSqft, marketValue sql.NullFloat64
		var assessedAt string
		if err := rows.Scan(&a.ID, &a.ParcelID, &owner, &lotSqft, &marketValue, &assessedAt); err != nil {
			return nil, fmt.Errorf("scan appraisal: %w", err)
		}
		a.OwnerName = nullStr(owner)
		a.LotSqft = nullFloat(lotSqft)
		a.MarketValue = nullFloat(marketValue)
		t, err := time.Parse(time.RFC3339, assessedAt)
		if err != nil {
			return nil, fmt.Errorf("parse assessed_at: %w", err)
		}
		a.AssessedAt = t
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list appraisals: %w", err)
	}
	return out, nil
}

// TaxRecordsFor returns every tax-roll row for parcelID, most recent year
// first.
func (s *Store) TaxRecordsFor(parcelID string) ([]TaxRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, parcel_id, owner_name, owner_phone, lot_acres, tax_year
		 FROM tax_records WHERE parcel_id = ? ORDER BY tax_year DESC`,
		parcelID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tax_records: %w", err)
	}
	defer rows.Close()

	var out []TaxRecord
	for rows.Next() {
		var r TaxRecord
		var owner, phone sql.NullString
		var lotAcres sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.ParcelID, &owner, &phone, &lotAcres, &r.TaxYear); err != nil {
			return nil, fmt.Errorf("scan tax_record: %w", err)
		}
		r.OwnerName = nullStr(owner)
		r.OwnerPhone = nullStr(phone)
		r.LotAcres = nullFloat(lotAcres)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tax_records: %w", err)
	}
	return out, nil
}

// InsertListing inserts one seed listing row.
func (s *Store) InsertListing(l Listing) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO listings(parcel_id, phone, owner_name, lot_acres, list_price, listed_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		l.ParcelID, l.Phone, l.OwnerName, l.LotAcres, l.ListPrice, l.ListedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert listing: %w", err)
	}
	return res.LastInsertId()
}

// InsertAppraisal inserts one seed appraisal row.
func (s *Store) InsertAppraisal(a Appraisal) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO appraisals(parcel_id, owner_name, lot_sqft, market_value, assessed_at)
		 VALUES(?, ?, ?, ?, ?)`,
		a.ParcelID, a.OwnerName, a.LotSqft, a.MarketValue, a.AssessedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert appraisal: %w", err)
	}
	return res.LastInsertId()
}

// InsertTaxRecord inserts one seed tax-roll row.
func (s *Store) InsertTaxRecord(r TaxRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO tax_records(parcel_id, owner_name, owner_phone, lot_acres, tax_year)
		 VALUES(?, ?, ?, ?, ?)`,
		r.ParcelID, r.OwnerName, r.OwnerPhone, r.LotAcres, r.TaxYear,
	)
	if err != nil {
		return 0, fmt.Errorf("insert tax_record: %w", err)
	}
	return res.LastInsertId()
}

// ParcelIDs returns every distinct parcel_id referenced by any of the
// three tables, used by the CLI's infer command when no parcel is given.
func (s *Store) ParcelIDs() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT parcel_id FROM (
			SELECT parcel_id FROM listings
			UNION SELECT parcel_id FROM appraisals
			UNION SELECT parcel_id FROM tax_records
		) ORDER BY parcel_id`)
	if err != nil {
		return nil, fmt.Errorf("query parcel ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan parcel id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list parcel ids: %w", err)
	}
	return out, nil
}
