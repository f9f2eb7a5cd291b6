package property

import (
	"math"

	"attrinfer/internal/textnorm"
	"attrinfer/internal/units"
	"attrinfer/pkg/infer"
)

// Declare builds and validates the Property declaration: the phone,
// owner_name, lot_size_acres, and list_price fields, each drawing on one or
// more of the listings/appraisals/tax_records datasets. Call this once per process;
// the returned declaration is safe to share across every Property
// evaluated afterward.
func Declare() (*infer.Declaration[*Property], error) {
	decl := infer.NewDeclaration[*Property]("Property")

	decl.Dataset("listings", listingsDataset)
	decl.Dataset("appraisals", appraisalsDataset)
	decl.Dataset("tax_records", taxRecordsDataset)

	declarePhone(decl)
	declareOwnerName(decl)
	declareLotSizeAcres(decl)
	declareListPrice(decl)

	if err := decl.Validate(); err != nil {
		return nil, err
	}
	return decl, nil
}

func declarePhone(decl *infer.Declaration[*Property]) {
	decl.Field("phone", func(fb *infer.FieldBuilder[*Property]) {
		fb.Canonicalize(func(_ *infer.Context[*Property], raw any) (any, error) {
			return textnorm.DigitsOnly(raw.(string)), nil
		})
		fb.Prefer(firstMemberPrefer)

		fb.Source("listings", 0.6, func(sb *infer.SourceBuilder[*Property]) {
			sb.Candidates(func(ctx *infer.Context[*Property]) ([]any, error) {
				ds, err := ctx.Dataset()
				if err != nil {
					return nil, err
				}
				var out []any
				for _, row := range asListings(ds) {
					if row.Phone != "" {
						out = append(out, row.Phone)
					}
				}
				return out, nil
			})
			sb.Prefer(func(_ *infer.Context[*Property], key any, raws []any) (any, error) {
				strs := make([]string, len(raws))
				for i, r := range raws {
					strs[i] = r.(string)
				}
				return textnorm.Closest(key.(string), strs), nil
			})
			sb.Score(func(ctx *infer.Context[*Property], _ any, raws []any) (float64, error) {
				return ScoreForCount(len(raws)), nil
			})
		})

		fb.Source("tax_records", 0.4, func(sb *infer.SourceBuilder[*Property]) {
			sb.Candidates(func(ctx *infer.Context[*Property]) ([]any, error) {
				ds, err := ctx.Dataset()
				if err != nil {
					return nil, err
				}
				var out []any
				for _, row := range asTaxRecords(ds) {
					if row.OwnerPhone != "" {
						out = append(out, row.OwnerPhone)
					}
				}
				return out, nil
			})
			sb.Prefer(func(_ *infer.Context[*Property], key any, raws []any) (any, error) {
				strs := make([]string, len(raws))
				for i, r := range raws {
					strs[i] = r.(string)
				}
				return textnorm.Closest(key.(string), strs), nil
			})
			sb.Score(func(ctx *infer.Context[*Property], _ any, raws []any) (float64, error) {
				return ScoreForCount(len(raws)), nil
			})
		})
	})
}

func declareOwnerName(decl *infer.Declaration[*Property]) {
	decl.Field("owner_name", func(fb *infer.FieldBuilder[*Property]) {
		fb.Canonicalize(func(_ *infer.Context[*Property], raw any) (any, error) {
			return textnorm.TitleCase(raw.(string)), nil
		})
		fb.Prefer(firstMemberPrefer)

		fb.Source("listings", 0.3, ownerNameSource(func(ctx *infer.Context[*Property]) ([]any, error) {
			ds, err := ctx.Dataset()
			if err != nil {
				return nil, err
			}
			var out []any
			for _, row := range asListings(ds) {
				if row.OwnerName != "" {
					out = append(out, row.OwnerName)
				}
			}
			return out, nil
		}))
		fb.Source("appraisals", 0.4, ownerNameSource(func(ctx *infer.Context[*Property]) ([]any, error) {
			ds, err := ctx.Dataset()
			if err != nil {
				return nil, err
			}
			var out []any
			for _, row := range asAppraisals(ds) {
				if row.OwnerName != "" {
					out = append(out, row.OwnerName)
				}
			}
			return out, nil
		}))
		fb.Source("tax_records", 0.3, ownerNameSource(func(ctx *infer.Context[*Property]) ([]any, error) {
			ds, err := ctx.Dataset()
			if err != nil {
				return nil, err
			}
			var out []any
			for _, row := range asTaxRecords(ds) {
				if row.OwnerName != "" {
					out = append(out, row.OwnerName)
				}
			}
			return out, nil
		}))
	})
}

func ownerNameSource(candidates infer.CandidatesFunc[*Property]) func(*infer.SourceBuilder[*Property]) {
	return func(sb *infer.SourceBuilder[*Property]) {
		sb.Candidates(candidates)
		sb.Score(func(_ *infer.Context[*Property], _ any, raws []any) (float64, error) {
			return ScoreForCount(len(raws)), nil
		})
	}
}

func declareLotSizeAcres(decl *infer.Declaration[*Property]) {
	decl.Field("lot_size_acres", func(fb *infer.FieldBuilder[*Property]) {
		fb.Canonicalize(func(_ *infer.Context[*Property], raw any) (any, error) {
			return math.Round(raw.(float64)*10) / 10, nil
		})

		fb.Source("listings", 0.5, func(sb *infer.SourceBuilder[*Property]) {
			sb.Candidates(func(ctx *infer.Context[*Property]) ([]any, error) {
				ds, err := ctx.Dataset()
				if err != nil {
					return nil, err
				}
				var out []any
				for _, row := range asListings(ds) {
					if row.LotAcres > 0 {
						out = append(out, row.LotAcres)
					}
				}
				return out, nil
			})
			sb.Score(func(_ *infer.Context[*Property], _ any, raws []any) (float64, error) {
				return ScoreForCount(len(raws)), nil
			})
		})

		fb.Source("appraisals", 0.3, func(sb *infer.SourceBuilder[*Property]) {
			sb.Candidates(func(ctx *infer.Context[*Property]) ([]any, error) {
				ds, err := ctx.Dataset()
				if err != nil {
					return nil, err
				}
				var out []any
				for _, row := range asAppraisals(ds) {
					if row.LotSqft > 0 {
						out = append(out, units.SqftToAcres(row.LotSqft))
					}
				}
				return out, nil
			})
			sb.Score(func(_ *infer.Context[*Property], _ any, raws []any) (float64, error) {
				return ScoreForCount(len(raws)), nil
			})
		})

		fb.Source("tax_records", 0.2, func(sb *infer.SourceBuilder[*Property]) {
			sb.Candidates(func(ctx *infer.Context[*Property]) ([]any, error) {
				ds, err := ctx.Dataset()
				if err != nil {
					return nil, err
				}
				var out []any
				for _, row := range asTaxRecords(ds) {
					if row.LotAcres > 0 {
						out = append(out, row.LotAcres)
					}
				}
				return out, nil
			})
			sb.Score(func(_ *infer.Context[*Property], _ any, raws []any) (float64, error) {
				return ScoreForCount(len(raws)), nil
			})
		})
	})
}

func declareListPrice(decl *infer.Declaration[*Property]) {
	decl.Field("list_price", func(fb *infer.FieldBuilder[*Property]) {
		fb.Canonicalize(func(_ *infer.Context[*Property], raw any) (any, error) {
			return math.Round(raw.(float64)/1000) * 1000, nil
		})

		fb.Source("listings", 1.0, func(sb *infer.SourceBuilder[*Property]) {
			sb.Candidates(func(ctx *infer.Context[*Property]) ([]any, error) {
				ds, err := ctx.Dataset()
				if err != nil {
					return nil, err
				}
				var out []any
				for _, row := range asListings(ds) {
					if row.ListPrice > 0 {
						out = append(out, row.ListPrice)
					}
				}
				return out, nil
			})
			sb.Score(func(ctx *infer.Context[*Property], _ any, raws []any) (float64, error) {
				p := ctx.Entity()
				ds, err := ctx.Dataset()
				if err != nil {
					return 0, err
				}
				listings := asListings(ds)
				var mostRecent float64
				for _, row := range listings {
					for _, raw := range raws {
						if row.ListPrice == raw.(float64) {
							r := RecencyOf(row.ListedAt, p.AsOf)
							if s := ScoreForRecency(r); s > mostRecent {
								mostRecent = s
							}
						}
					}
				}
				return mostRecent, nil
			})
		})
	})
}
