package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"attrinfer/internal/logging"
	"attrinfer/internal/metrics"
	"attrinfer/internal/property"
	"attrinfer/internal/propertydb"
	"attrinfer/pkg/infer"
)

var (
	inferDBPath  string
	inferParcel  string
	inferField   string
	inferExplain bool
)

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Infer field values for one parcel, or every known parcel",
	RunE:  runInfer,
}

func init() {
	inferCmd.Flags().StringVar(&inferDBPath, "db", "propertyinfer.db", "SQLite store path")
	inferCmd.Flags().StringVar(&inferParcel, "parcel", "", "parcel ID to infer (omit to infer every known parcel)")
	inferCmd.Flags().StringVar(&inferField, "field", "", "limit to one field (phone, owner_name, lot_size_acres, list_price)")
	inferCmd.Flags().BoolVar(&inferExplain, "explain", false, "print the full score trail instead of just the best value")
}

func runInfer(cmd *cobra.Command, _ []string) error {
	logger := logging.New("infer")

	store, err := propertydb.Open(inferDBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	decl, err := property.Declare()
	if err != nil {
		return fmt.Errorf("declare property inferrer: %w", err)
	}

	parcels := []string{inferParcel}
	if inferParcel == "" {
		parcels, err = store.ParcelIDs()
		if err != nil {
			return fmt.Errorf("list parcels: %w", err)
		}
	}
	if len(parcels) == 0 {
		fmt.Println("no parcels found")
		return nil
	}

	fields := allFields
	if inferField != "" {
		fields = []string{inferField}
	}

	results := make([][]parcelResult, len(parcels))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, parcel := range parcels {
		i, parcel := i, parcel
		g.Go(func() error {
			_ = ctx
			results[i] = inferParcelFields(decl, store, parcel, fields, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if inferExplain {
		printExplained(decl, store, parcels, fields)
	} else {
		printSummary(parcels, results)
	}
	return nil
}

var allFields = []string{"phone", "owner_name", "lot_size_acres", "list_price"}

type parcelResult struct {
	field string
	value any
	ok    bool
	err   error
	trail map[any]float64
}

func inferParcelFields(decl *infer.Declaration[*property.Property], store *propertydb.Store, parcel string, fields []string, logger interface {
	Error(string, ...any)
}) []parcelResult {
	ee := infer.NewEntityEvaluator(decl, property.New(store, parcel))
	out := make([]parcelResult, 0, len(fields))
	for _, field := range fields {
		started := time.Now()
		value, ok, err := ee.BestValueFor(field)
		if err != nil {
			logger.Error("field evaluation failed", "parcel", parcel, "field", field, "err", err)
			metrics.ObserveFieldEvaluation(field, started, false, 0, err)
			out = append(out, parcelResult{field: field, err: err})
			continue
		}
		var trail map[any]float64
		var score float64
		if inferExplain || ok {
			trail, _ = ee.ScoresFor(field)
			score = trail[value]
		}
		metrics.ObserveFieldEvaluation(field, started, ok, score, nil)
		out = append(out, parcelResult{field: field, value: value, ok: ok, trail: trail})
	}
	return out
}

func printSummary(parcels []string, results [][]parcelResult) {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	header := table.Row{"parcel"}
	for _, f := range allFields {
		header = append(header, f)
	}
	w.AppendHeader(header)

	for i, parcel := range parcels {
		row := table.Row{parcel}
		byField := map[string]parcelResult{}
		for _, r := range results[i] {
			byField[r.field] = r
		}
		for _, f := range allFields {
			r, present := byField[f]
			switch {
			case !present:
				row = append(row, "-")
			case r.err != nil:
				row = append(row, "error: "+r.err.Error())
			case !r.ok:
				row = append(row, "(none)")
			default:
				row = append(row, fmt.Sprint(r.value))
			}
		}
		w.AppendRow(row)
	}
	fmt.Println(w.Render())
}

// printExplained prints the full pipeline for each field of each parcel:
// per-source raw candidates, classes, and scores, then the field-level
// sourced/ungrouped/grouped/final stages and the best value they produce.
func printExplained(decl *infer.Declaration[*property.Property], store *propertydb.Store, parcels []string, fields []string) {
	for _, parcel := range parcels {
		fmt.Printf("parcel %s\n", parcel)
		ee := infer.NewEntityEvaluator(decl, property.New(store, parcel))
		for _, field := range fields {
			fe, err := ee.EvaluatorFor(field)
			if err != nil {
				fmt.Printf("  %s: error: %v\n", field, err)
				continue
			}
			fmt.Printf("  %s:\n", field)

			for _, se := range fe.SourceEvaluators() {
				fmt.Printf("    source %q (weight %.2f)\n", se.Name(), se.Weight())
				raw, err := se.RawCandidates()
				if err != nil {
					fmt.Printf("      error: %v\n", err)
					continue
				}
				printClasses("raw candidates", raw)

				cand, err := se.Candidates()
				if err != nil {
					fmt.Printf("      error: %v\n", err)
					continue
				}
				printClasses("candidates", cand)

				scores, err := se.Scores()
				if err != nil {
					fmt.Printf("      error: %v\n", err)
					continue
				}
				printScoreMap("scores", scores)
			}

			unw, err := fe.SourcedUnweightedScores()
			if err != nil {
				fmt.Printf("    error: %v\n", err)
				continue
			}
			for _, sname := range sortedKeysOf(unw) {
				printScoreMap("sourced_unweighted_scores["+sname+"]", unw[sname])
			}

			w, err := fe.SourcedWeightedScores()
			if err != nil {
				fmt.Printf("    error: %v\n", err)
				continue
			}
			for _, sname := range sortedKeysOf(w) {
				printScoreMap("sourced_weighted_scores["+sname+"]", w[sname])
			}

			ungrouped, err := fe.UngroupedScores()
			if err != nil {
				fmt.Printf("    error: %v\n", err)
				continue
			}
			printScoreMap("ungrouped_scores", ungrouped)

			groups, err := fe.GroupedScores()
			if err != nil {
				fmt.Printf("    error: %v\n", err)
				continue
			}
			fmt.Println("    grouped_scores:")
			for _, g := range groups {
				fmt.Printf("      %v: members=%v score=%.4f\n", g.Key, g.Members, g.Score)
			}

			final, err := ee.ScoresFor(field)
			if err != nil {
				fmt.Printf("    error: %v\n", err)
				continue
			}
			printScoreMap("scores", final)

			best, ok, err := fe.BestValue()
			if err != nil {
				fmt.Printf("    error: %v\n", err)
				continue
			}
			fmt.Printf("    best_value: %v\n", valueOrNone(best, ok))
		}
	}
}

func printClasses(label string, classes []infer.RawClass) {
	fmt.Printf("      %s:\n", label)
	for _, c := range classes {
		fmt.Printf("        %v: %v\n", c.Key, c.Raws)
	}
}

func printScoreMap(label string, scores map[any]float64) {
	fmt.Printf("    %s:\n", label)
	keys := make([]string, 0, len(scores))
	byString := map[string]any{}
	for k := range scores {
		s := fmt.Sprint(k)
		keys = append(keys, s)
		byString[s] = k
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("      %v: %.4f\n", k, scores[byString[k]])
	}
}

func sortedKeysOf(m map[string]map[any]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func valueOrNone(v any, ok bool) any {
	if !ok {
		return "(none)"
	}
	return v
}
