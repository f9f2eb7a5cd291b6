package propertydb

const currentSchemaVersion = 1

// schema is the fresh-install DDL for the three datasets the sample
// Property::Inferrer draws on: MLS listing history, appraisal district
// records, and county tax records. All three key on parcel_id so a single
// property can be joined across sources without a shared primary key.
var schema = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS listings (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	parcel_id   TEXT NOT NULL,
	phone       TEXT,
	owner_name  TEXT,
	lot_acres   REAL,
	list_price  REAL,
	listed_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS appraisals (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	parcel_id    TEXT NOT NULL,
	owner_name   TEXT,
	lot_sqft     REAL,
	market_value REAL,
	assessed_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tax_records (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	parcel_id   TEXT NOT NULL,
	owner_name  TEXT,
	owner_phone TEXT,
	lot_acres   REAL,
	tax_year    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_listings_parcel   ON listings(parcel_id);
CREATE INDEX IF NOT EXISTS idx_appraisals_parcel  ON appraisals(parcel_id);
CREATE INDEX IF NOT EXISTS idx_tax_records_parcel ON tax_records(parcel_id);
`
