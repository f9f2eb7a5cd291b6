// Package property is the sample consumer of pkg/infer: a real-estate
// parcel entity and the field/source declarations that infer its phone
// number, owner name, lot size, and list price from three overlapping
// datasets (MLS listings, appraisal-district records, county tax rolls).
package property

import (
	"time"

	"attrinfer/internal/propertydb"
)

// Property is the entity instance pkg/infer evaluates. It is opaque to the
// engine: user blocks reach it through ctx.Entity(); Declare registers no
// Share helpers for it.
type Property struct {
	ParcelID string
	Store    *propertydb.Store
	AsOf     time.Time
}

// New builds a Property for parcelID against store, stamped with the
// current time for recency scoring.
func New(store *propertydb.Store, parcelID string) *Property {
	return &Property{ParcelID: parcelID, Store: store, AsOf: time.Now().UTC()}
}
