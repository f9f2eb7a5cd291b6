package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"attrinfer/internal/propertydb"
)

var (
	seedDBPath      string
	seedFixturePath string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a YAML fixture of listings/appraisals/tax records into the store",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDBPath, "db", "propertyinfer.db", "SQLite store path")
	seedCmd.Flags().StringVarP(&seedFixturePath, "file", "f", "", "path to the YAML fixture (required)")
	_ = seedCmd.MarkFlagRequired("file")
}

// fixture mirrors a YAML seed file: a flat list of parcels, each with the
// rows observed for it in each of the three datasets.
type fixture struct {
	Parcels []fixtureParcel `yaml:"parcels"`
}

type fixtureParcel struct {
	ParcelID   string              `yaml:"parcel_id"`
	Listings   []fixtureListing    `yaml:"listings"`
	Appraisals []fixtureAppraisal  `yaml:"appraisals"`
	TaxRecords []fixtureTaxRecord  `yaml:"tax_records"`
}

type fixtureListing struct {
	Phone     string  `yaml:"phone"`
	OwnerName string  `yaml:"owner_name"`
	LotAcres  float64 `yaml:"lot_acres"`
	ListPrice float64 `yaml:"list_price"`
	ListedAt  string  `yaml:"listed_at"`
}

type fixtureAppraisal struct {
	OwnerName   string  `yaml:"owner_name"`
	LotSqft     float64 `yaml:"lot_sqft"`
	MarketValue float64 `yaml:"market_value"`
	AssessedAt  string  `yaml:"assessed_at"`
}

type fixtureTaxRecord struct {
	OwnerName  string `yaml:"owner_name"`
	OwnerPhone string `yaml:"owner_phone"`
	LotAcres   float64 `yaml:"lot_acres"`
	TaxYear    int     `yaml:"tax_year"`
}

func runSeed(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(seedFixturePath)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	store, err := propertydb.Open(seedDBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	listings, appraisals, taxRecords := 0, 0, 0
	for _, p := range fx.Parcels {
		for _, l := range p.Listings {
			listedAt, err := parseFixtureTime(l.ListedAt)
			if err != nil {
				return fmt.Errorf("parcel %s: listing listed_at: %w", p.ParcelID, err)
			}
			if _, err := store.InsertListing(propertydb.Listing{
				ParcelID: p.ParcelID, Phone: l.Phone, OwnerName: l.OwnerName,
				LotAcres: l.LotAcres, ListPrice: l.ListPrice, ListedAt: listedAt,
			}); err != nil {
				return fmt.Errorf("parcel %s: insert listing: %w", p.ParcelID, err)
			}
			listings++
		}
		for _, a := range p.Appraisals {
			assessedAt, err := parseFixtureTime(a.AssessedAt)
			if err != nil {
				return fmt.Errorf("parcel %s: appraisal assessed_at: %w", p.ParcelID, err)
			}
			if _, err := store.InsertAppraisal(propertydb.Appraisal{
				ParcelID: p.ParcelID, OwnerName: a.OwnerName,
				LotSqft: a.LotSqft, MarketValue: a.MarketValue, AssessedAt: assessedAt,
			}); err != nil {
				return fmt.Errorf("parcel %s: insert appraisal: %w", p.ParcelID, err)
			}
			appraisals++
		}
		for _, r := range p.TaxRecords {
			if _, err := store.InsertTaxRecord(propertydb.TaxRecord{
				ParcelID: p.ParcelID, OwnerName: r.OwnerName, OwnerPhone: r.OwnerPhone,
				LotAcres: r.LotAcres, TaxYear: r.TaxYear,
			}); err != nil {
				return fmt.Errorf("parcel %s: insert tax record: %w", p.ParcelID, err)
			}
			taxRecords++
		}
	}

	fmt.Printf("seeded %d parcel(s): %d listings, %d appraisals, %d tax records\n",
		len(fx.Parcels), listings, appraisals, taxRecords)
	return nil
}

func parseFixtureTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
