package property

import (
	"fmt"

	"attrinfer/internal/propertydb"
	"attrinfer/pkg/infer"
)

func listingsDataset(ctx *infer.Context[*Property]) (any, error) {
	p := ctx.Entity()
	rows, err := p.Store.ListingsFor(p.ParcelID)
	if err != nil {
		return nil, fmt.Errorf("load listings for %s: %w", p.ParcelID, err)
	}
	return rows, nil
}

func appraisalsDataset(ctx *infer.Context[*Property]) (any, error) {
	p := ctx.Entity()
	rows, err := p.Store.AppraisalsFor(p.ParcelID)
	if err != nil {
		return nil, fmt.Errorf("load appraisals for %s: %w", p.ParcelID, err)
	}
	return rows, nil
}

func taxRecordsDataset(ctx *infer.Context[*Property]) (any, error) {
	p := ctx.Entity()
	rows, err := p.Store.TaxRecordsFor(p.ParcelID)
	if err != nil {
		return nil, fmt.Errorf("load tax records for %s: %w", p.ParcelID, err)
	}
	return rows, nil
}

func asListings(ds any) []propertydb.Listing       { return ds.([]propertydb.Listing) }
func asAppraisals(ds any) []propertydb.Appraisal   { return ds.([]propertydb.Appraisal) }
func asTaxRecords(ds any) []propertydb.TaxRecord   { return ds.([]propertydb.TaxRecord) }
