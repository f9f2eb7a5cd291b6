package infer_test

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"attrinfer/pkg/infer"
)

// fixture is the minimal entity type the end-to-end scenarios below
// evaluate against. None of the scenarios need more than a label.
type fixture struct {
	Label string
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// levenshtein is a plain edit-distance helper, inlined here rather than
// pulled from a shared package since S1 is the only place in this suite
// that needs it.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// TestS1_SingleSourcePhonebook covers one source, three raw spellings of the
// same phone number, where the preferrer picks the raw closest by edit
// distance to the digits-only canonical key.
func TestS1_SingleSourcePhonebook(t *testing.T) {
	raws := []string{"555.111.2222", "(555) 111-2222", "555-111-2222"}

	decl := infer.NewDeclaration[fixture]("phonebook")
	decl.Dataset("phones", func(ctx *infer.Context[fixture]) (any, error) {
		return raws, nil
	})
	decl.Field("phone", func(fb *infer.FieldBuilder[fixture]) {
		fb.Canonicalize(func(_ *infer.Context[fixture], raw any) (any, error) {
			return digitsOnly(raw.(string)), nil
		})
		fb.Prefer(func(_ *infer.Context[fixture], key any, classRaws []any) (any, error) {
			k := key.(string)
			best := classRaws[0].(string)
			bestDist := levenshtein(best, k)
			for _, r := range classRaws[1:] {
				rs := r.(string)
				if d := levenshtein(rs, k); d < bestDist {
					best, bestDist = rs, d
				}
			}
			return best, nil
		})
		fb.Source("phones", 1.0, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(func(ctx *infer.Context[fixture]) ([]any, error) {
				ds, err := ctx.Dataset()
				if err != nil {
					return nil, err
				}
				out := make([]any, 0, len(ds.([]string)))
				for _, r := range ds.([]string) {
					out = append(out, r)
				}
				return out, nil
			})
			sb.Score(func(_ *infer.Context[fixture], _ any, _ []any) (float64, error) {
				return 1.0, nil
			})
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, fixture{Label: "s1"})
	scores, err := ee.ScoresFor("phone")
	if err != nil {
		t.Fatalf("ScoresFor: %v", err)
	}
	want := map[any]float64{"555.111.2222": 1.0}
	if diff := cmp.Diff(want, scores); diff != "" {
		t.Errorf("scores mismatch:\n%s", diff)
	}

	best, ok, err := ee.BestValueFor("phone")
	if err != nil || !ok {
		t.Fatalf("BestValueFor: %v ok=%v", err, ok)
	}
	if best != "555.111.2222" {
		t.Errorf("best_value = %v, want 555.111.2222", best)
	}
}

// TestS2_TwoSourcesSameCanonical grounds S2: two sources agree after field
// canonicalization, field preferrer picks the first raw.
func TestS2_TwoSourcesSameCanonical(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("case-fold")
	decl.Dataset("a", constDataset[fixture]([]string{"foo"}))
	decl.Dataset("b", constDataset[fixture]([]string{"FOO"}))

	decl.Field("word", func(fb *infer.FieldBuilder[fixture]) {
		fb.Canonicalize(upperCanon)
		fb.Prefer(firstRawPrefer)
		fb.Source("a", 0.6, constScoredSource[fixture](1.0))
		fb.Source("b", 0.4, constScoredSource[fixture](1.0))
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, fixture{Label: "s2"})
	fe, err := ee.EvaluatorFor("word")
	if err != nil {
		t.Fatalf("EvaluatorFor: %v", err)
	}

	best, ok, err := fe.BestValue()
	if err != nil || !ok {
		t.Fatalf("BestValue: %v ok=%v", err, ok)
	}
	if best != "foo" {
		t.Errorf("best_value = %v, want foo", best)
	}

	scores, err := fe.Scores()
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	got := scores["foo"]
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("scores[foo] = %v, want 1.0", got)
	}
}

// TestS3_CrossSourceWinner grounds S3: identity canon/prefer, final scores
// are exact per-representative weighted sums.
func TestS3_CrossSourceWinner(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("cross-source")
	decl.Dataset("a", func(_ *infer.Context[fixture]) (any, error) { return nil, nil })
	decl.Dataset("b", func(_ *infer.Context[fixture]) (any, error) { return nil, nil })

	decl.Field("word", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("a", 0.6, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(constCandidates("foo", "baz"))
			sb.Score(mapScore(map[string]float64{"foo": 1.0, "baz": 0.7}))
		})
		fb.Source("b", 0.4, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(constCandidates("bar", "baz"))
			sb.Score(mapScore(map[string]float64{"bar": 1.0, "baz": 0.9}))
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, fixture{Label: "s3"})
	scores, err := ee.ScoresFor("word")
	if err != nil {
		t.Fatalf("ScoresFor: %v", err)
	}
	checkApprox(t, scores, "foo", 0.60)
	checkApprox(t, scores, "bar", 0.40)
	checkApprox(t, scores, "baz", 0.78)

	best, ok, err := ee.BestValueFor("word")
	if err != nil || !ok {
		t.Fatalf("BestValueFor: %v ok=%v", err, ok)
	}
	if best != "baz" {
		t.Errorf("best_value = %v, want baz", best)
	}
}

// TestFieldIntrospection_ExposesAllStages grounds the full introspection
// surface atop S3's cross-source fixture: every intermediate stage between
// a source's raw scorecard and the field's final scores must be reachable
// from outside pkg/infer, not just the final Scores()/BestValue() pair.
func TestFieldIntrospection_ExposesAllStages(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("cross-source-explain")
	decl.Dataset("a", func(_ *infer.Context[fixture]) (any, error) { return nil, nil })
	decl.Dataset("b", func(_ *infer.Context[fixture]) (any, error) { return nil, nil })

	decl.Field("word", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("a", 0.6, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(constCandidates("foo", "baz"))
			sb.Score(mapScore(map[string]float64{"foo": 1.0, "baz": 0.7}))
		})
		fb.Source("b", 0.4, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(constCandidates("bar", "baz"))
			sb.Score(mapScore(map[string]float64{"bar": 1.0, "baz": 0.9}))
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, fixture{Label: "explain"})
	fe, err := ee.EvaluatorFor("word")
	if err != nil {
		t.Fatalf("EvaluatorFor: %v", err)
	}

	unw, err := fe.SourcedUnweightedScores()
	if err != nil {
		t.Fatalf("SourcedUnweightedScores: %v", err)
	}
	checkApprox(t, unw["a"], "foo", 1.0)
	checkApprox(t, unw["a"], "baz", 0.7)
	checkApprox(t, unw["b"], "bar", 1.0)
	checkApprox(t, unw["b"], "baz", 0.9)

	w, err := fe.SourcedWeightedScores()
	if err != nil {
		t.Fatalf("SourcedWeightedScores: %v", err)
	}
	checkApprox(t, w["a"], "foo", 0.60)
	checkApprox(t, w["a"], "baz", 0.42)
	checkApprox(t, w["b"], "bar", 0.40)
	checkApprox(t, w["b"], "baz", 0.36)

	ungrouped, err := fe.UngroupedScores()
	if err != nil {
		t.Fatalf("UngroupedScores: %v", err)
	}
	checkApprox(t, ungrouped, "foo", 0.60)
	checkApprox(t, ungrouped, "bar", 0.40)
	checkApprox(t, ungrouped, "baz", 0.78)

	groups, err := fe.GroupedScores()
	if err != nil {
		t.Fatalf("GroupedScores: %v", err)
	}
	byKey := map[any]infer.FieldGroup{}
	for _, g := range groups {
		byKey[g.Key] = g
	}
	if math.Abs(byKey["baz"].Score-0.78) > 1e-9 {
		t.Errorf("grouped baz score = %v, want 0.78", byKey["baz"].Score)
	}
	if len(byKey["baz"].Members) != 1 || byKey["baz"].Members[0] != "baz" {
		t.Errorf("grouped baz members = %v, want [baz] (identity canonicalizer)", byKey["baz"].Members)
	}

	scores, err := fe.Scores()
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	checkApprox(t, scores, "baz", 0.78)
}

// TestSourceIntrospection_ExposesAllStages grounds the per-source
// introspection surface that cmd/propertyinfer's --explain flag reads.
func TestSourceIntrospection_ExposesAllStages(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("source-explain")
	decl.Dataset("a", constDataset[fixture]([]string{"foo", "FOO"}))
	decl.Field("word", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("a", 0.9, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(constCandidates("foo", "FOO"))
			sb.Canonicalize(upperCanon)
			sb.Prefer(firstRawPrefer)
			sb.Score(func(_ *infer.Context[fixture], _ any, raws []any) (float64, error) {
				return float64(len(raws)), nil
			})
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, fixture{Label: "source-explain"})
	fe, err := ee.EvaluatorFor("word")
	if err != nil {
		t.Fatalf("EvaluatorFor: %v", err)
	}
	ses := fe.SourceEvaluators()
	if len(ses) != 1 {
		t.Fatalf("expected 1 source, got %d", len(ses))
	}
	se := ses[0]
	if se.Name() != "a" || se.Weight() != 0.9 {
		t.Errorf("Name/Weight = %q/%v, want a/0.9", se.Name(), se.Weight())
	}

	raw, err := se.RawCandidates()
	if err != nil {
		t.Fatalf("RawCandidates: %v", err)
	}
	if len(raw) != 1 || raw[0].Key != "FOO" || len(raw[0].Raws) != 2 {
		t.Errorf("RawCandidates = %+v, want one class keyed FOO with 2 raws", raw)
	}

	cand, err := se.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(cand) != 1 || cand[0].Key != "foo" {
		t.Errorf("Candidates = %+v, want one entry keyed foo (first raw wins)", cand)
	}

	scores, err := se.Scores()
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	checkApprox(t, scores, "foo", 2.0)
}

// TestS4_BucketedAcres grounds S4: field canonicalizer rounds to the
// nearest 0.1 and, absent a source-level override, the source inherits it,
// so raw_candidates are already bucketed.
func TestS4_BucketedAcres(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("acres")
	decl.Dataset("listings", constDataset[fixture]([]float64{1.12, 1.07, 2.51}))

	decl.Field("lot_size_acres", func(fb *infer.FieldBuilder[fixture]) {
		fb.Canonicalize(func(_ *infer.Context[fixture], raw any) (any, error) {
			return math.Round(raw.(float64)*10) / 10, nil
		})
		fb.Source("listings", 0.6, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(func(ctx *infer.Context[fixture]) ([]any, error) {
				ds, err := ctx.Dataset()
				if err != nil {
					return nil, err
				}
				out := make([]any, 0)
				for _, v := range ds.([]float64) {
					out = append(out, v)
				}
				return out, nil
			})
			sb.Score(func(_ *infer.Context[fixture], _ any, raws []any) (float64, error) {
				n := float64(len(raws))
				return 1 - math.Pow(0.95, math.Sqrt(n)), nil
			})
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, fixture{Label: "s4"})
	scores, err := ee.ScoresFor("lot_size_acres")
	if err != nil {
		t.Fatalf("ScoresFor: %v", err)
	}
	checkApprox(t, scores, 1.1, 0.0413)
	checkApprox(t, scores, 2.5, 0.03)

	best, ok, err := ee.BestValueFor("lot_size_acres")
	if err != nil || !ok {
		t.Fatalf("BestValueFor: %v ok=%v", err, ok)
	}
	if best != 1.1 {
		t.Errorf("best_value = %v, want 1.1", best)
	}
}

// TestS5_EmptyAcrossAllSources grounds S5: no candidates anywhere yields an
// empty scorecard and a missing best value, never an error.
func TestS5_EmptyAcrossAllSources(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("empty")
	decl.Dataset("only", constDataset[fixture]([]string{}))
	decl.Field("phone", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("only", 1.0, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(func(_ *infer.Context[fixture]) ([]any, error) { return nil, nil })
			sb.Score(func(_ *infer.Context[fixture], _ any, _ []any) (float64, error) { return 1.0, nil })
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, fixture{Label: "s5"})
	scores, err := ee.ScoresFor("phone")
	if err != nil {
		t.Fatalf("ScoresFor: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("expected empty scores, got %v", scores)
	}

	_, ok, err := ee.BestValueFor("phone")
	if err != nil {
		t.Fatalf("BestValueFor: %v", err)
	}
	if ok {
		t.Error("expected ok=false for empty field")
	}

	vals, err := ee.FieldValues()
	if err != nil {
		t.Fatalf("FieldValues: %v", err)
	}
	v, present := vals["phone"]
	if !present {
		t.Error("field_values should still include a field with no best value")
	}
	if v != nil {
		t.Errorf("field_values[phone] = %v, want nil", v)
	}
}

// TestS6_FieldReentryExtendsSources grounds S6: declaring the same field
// twice appends a second source while preserving the first.
func TestS6_FieldReentryExtendsSources(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("title")
	decl.Dataset("a", constDataset[fixture]([]string{}))
	decl.Dataset("b", constDataset[fixture]([]string{}))

	decl.Field("title", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("a", 0.7, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(func(_ *infer.Context[fixture]) ([]any, error) { return nil, nil })
			sb.Score(func(_ *infer.Context[fixture], _ any, _ []any) (float64, error) { return 0, nil })
		})
	})
	decl.Field("title", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("b", 0.3, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(func(_ *infer.Context[fixture]) ([]any, error) { return nil, nil })
			sb.Score(func(_ *infer.Context[fixture], _ any, _ []any) (float64, error) { return 0, nil })
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, fixture{Label: "s6"})
	fe, err := ee.EvaluatorFor("title")
	if err != nil {
		t.Fatalf("EvaluatorFor: %v", err)
	}
	if got := len(fe.SourceEvaluators()); got != 2 {
		t.Fatalf("expected 2 sources after re-entry, got %d", got)
	}
}

// TestInvariant_MemoizationSingleInvocation grounds universal invariant 6:
// a source's candidates producer runs at most once per entity evaluator,
// no matter how many times scores are read.
func TestInvariant_MemoizationSingleInvocation(t *testing.T) {
	calls := 0
	decl := infer.NewDeclaration[fixture]("memo")
	decl.Dataset("a", constDataset[fixture]([]string{"x"}))
	decl.Field("f", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("a", 1.0, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(func(_ *infer.Context[fixture]) ([]any, error) {
				calls++
				return []any{"x"}, nil
			})
			sb.Score(func(_ *infer.Context[fixture], _ any, _ []any) (float64, error) { return 1.0, nil })
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, fixture{Label: "memo"})
	for i := 0; i < 5; i++ {
		if _, err := ee.ScoresFor("f"); err != nil {
			t.Fatalf("ScoresFor: %v", err)
		}
		if _, _, err := ee.BestValueFor("f"); err != nil {
			t.Fatalf("BestValueFor: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("candidates producer invoked %d times, want 1", calls)
	}
}

// TestInvariant_WeightMonotonicity grounds universal invariant 2:
// increasing a source's weight cannot decrease its contribution to
// ungrouped_scores.
func TestInvariant_WeightMonotonicity(t *testing.T) {
	build := func(weight float64) map[any]float64 {
		decl := infer.NewDeclaration[fixture]("mono")
		decl.Dataset("a", constDataset[fixture]([]string{"x"}))
		decl.Field("f", func(fb *infer.FieldBuilder[fixture]) {
			fb.Source("a", weight, func(sb *infer.SourceBuilder[fixture]) {
				sb.Candidates(constCandidates("x"))
				sb.Score(func(_ *infer.Context[fixture], _ any, _ []any) (float64, error) { return 0.5, nil })
			})
		})
		if err := decl.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		ee := infer.NewEntityEvaluator(decl, fixture{Label: "mono"})
		scores, err := ee.ScoresFor("f")
		if err != nil {
			t.Fatalf("ScoresFor: %v", err)
		}
		return scores
	}

	low := build(0.2)
	high := build(0.8)
	if !(high["x"] >= low["x"]) {
		t.Errorf("expected monotonic increase: low=%v high=%v", low["x"], high["x"])
	}
}

// TestInvariant_EmptyFieldStaysCallable grounds universal invariant 7.
func TestInvariant_EmptyFieldStaysCallable(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("empty2")
	decl.Dataset("a", constDataset[fixture]([]string{}))
	decl.Field("f", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("a", 1.0, func(sb *infer.SourceBuilder[fixture]) {
			sb.Candidates(func(_ *infer.Context[fixture]) ([]any, error) { return nil, nil })
			sb.Score(func(_ *infer.Context[fixture], _ any, _ []any) (float64, error) { return 1.0, nil })
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	ee := infer.NewEntityEvaluator(decl, fixture{Label: "e2"})
	for i := 0; i < 3; i++ {
		if _, _, err := ee.BestValueFor("f"); err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
	}
}

func TestValidate_RejectsIncompleteSource(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("bad")
	decl.Field("f", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("missing", 1.0, func(sb *infer.SourceBuilder[fixture]) {
			// no Candidates, no Score, and "missing" was never registered
			// via Dataset — every structural check should fire.
		})
	})
	if err := decl.Validate(); err == nil {
		t.Fatal("expected Validate to report errors")
	}
}

func TestSource_NonPositiveWeightIsConfigurationError(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("bad-weight")
	decl.Dataset("a", constDataset[fixture]([]string{}))
	decl.Field("f", func(fb *infer.FieldBuilder[fixture]) {
		fb.Source("a", 0, func(sb *infer.SourceBuilder[fixture]) {})
	})
	err := decl.Validate()
	if err == nil {
		t.Fatal("expected a ConfigurationError for a zero weight")
	}
	var ce *infer.ConfigurationError
	if !asConfigErr(err, &ce) {
		t.Fatalf("expected *infer.ConfigurationError in %v", err)
	}
}

func asConfigErr(err error, target **infer.ConfigurationError) bool {
	type unwrapper interface{ Unwrap() []error }
	if u, ok := err.(unwrapper); ok {
		for _, e := range u.Unwrap() {
			if ce, ok := e.(*infer.ConfigurationError); ok {
				*target = ce
				return true
			}
		}
	}
	if ce, ok := err.(*infer.ConfigurationError); ok {
		*target = ce
		return true
	}
	return false
}

func TestLookupError_UnknownField(t *testing.T) {
	decl := infer.NewDeclaration[fixture]("empty-decl")
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	ee := infer.NewEntityEvaluator(decl, fixture{})
	_, _, err := ee.BestValueFor("nonexistent")
	if err == nil {
		t.Fatal("expected LookupError")
	}
	if _, ok := err.(*infer.LookupError); !ok {
		t.Errorf("expected *infer.LookupError, got %T", err)
	}
}

func TestShare_ForwardsEntityField(t *testing.T) {
	type entity struct {
		Phone string
	}
	decl := infer.NewDeclaration[entity]("share-demo")
	decl.Share("Phone")
	decl.Dataset("noop", func(_ *infer.Context[entity]) (any, error) { return nil, nil })
	decl.Field("echoed_phone", func(fb *infer.FieldBuilder[entity]) {
		fb.Source("noop", 1.0, func(sb *infer.SourceBuilder[entity]) {
			sb.Candidates(func(ctx *infer.Context[entity]) ([]any, error) {
				v, err := ctx.Helper("Phone")
				if err != nil {
					return nil, err
				}
				return []any{v}, nil
			})
			sb.Score(func(_ *infer.Context[entity], _ any, _ []any) (float64, error) { return 1.0, nil })
		})
	})
	if err := decl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	ee := infer.NewEntityEvaluator(decl, entity{Phone: "555-0100"})
	best, ok, err := ee.BestValueFor("echoed_phone")
	if err != nil || !ok {
		t.Fatalf("BestValueFor: %v ok=%v", err, ok)
	}
	if best != "555-0100" {
		t.Errorf("best_value = %v, want 555-0100", best)
	}
}

// --- shared fixtures ---

func constDataset[E any](v any) infer.DatasetFunc[E] {
	return func(_ *infer.Context[E]) (any, error) { return v, nil }
}

func constCandidates(vals ...string) infer.CandidatesFunc[fixture] {
	return func(_ *infer.Context[fixture]) ([]any, error) {
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = v
		}
		return out, nil
	}
}

func constScoredSource[E any](score float64) func(*infer.SourceBuilder[E]) {
	return func(sb *infer.SourceBuilder[E]) {
		sb.Candidates(func(ctx *infer.Context[E]) ([]any, error) {
			ds, err := ctx.Dataset()
			if err != nil {
				return nil, err
			}
			out := make([]any, 0)
			for _, v := range ds.([]string) {
				out = append(out, v)
			}
			return out, nil
		})
		sb.Score(func(_ *infer.Context[E], _ any, _ []any) (float64, error) { return score, nil })
	}
}

func mapScore(m map[string]float64) infer.ScoreFunc[fixture] {
	return func(_ *infer.Context[fixture], rep any, _ []any) (float64, error) {
		return m[rep.(string)], nil
	}
}

func upperCanon(_ *infer.Context[fixture], raw any) (any, error) {
	return strings.ToUpper(raw.(string)), nil
}

func firstRawPrefer(_ *infer.Context[fixture], _ any, raws []any) (any, error) {
	return raws[0], nil
}

func checkApprox(t *testing.T, scores map[any]float64, key any, want float64) {
	t.Helper()
	got, ok := scores[key]
	if !ok {
		t.Errorf("missing score for %v; have keys %v", key, sortedKeys(scores))
		return
	}
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("scores[%v] = %v, want %v", key, got, want)
	}
}

func sortedKeys(m map[any]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, fmt.Sprint(k))
	}
	sort.Strings(out)
	return out
}
