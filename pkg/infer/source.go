package infer

// SourceEvaluator produces an equivalence-class -> score mapping for one
// source, for one entity instance. Every stage is computed at most once
// and memoized; recomputation is forbidden once a stage has a value.
type SourceEvaluator[E any] struct {
	decl     *SourceDecl[E]
	entity   E
	ctx      *Context[E]
	datasets map[string]DatasetFunc[E]

	datasetComputed bool
	dataset         any
	datasetErr      error

	rawComputed bool
	rawGroups   *orderedRawGroups
	rawErr      error

	candComputed bool
	candidates   *orderedCandidates
	candErr      error

	scoresComputed bool
	scoreEntries   []sourceScoreEntry
	scores         *orderedScores
	scoresErr      error
}

// sourceScoreEntry preserves, alongside the clamped score used for
// aggregation, the raw value the score function actually returned (which
// may be negative or nil-equivalent) for introspection.
type sourceScoreEntry struct {
	Representative any
	Raws           []any
	RawScore       float64
	RawScoreValid  bool // always true for stored entries: a score block that errors or panics aborts the stage instead
	Score          float64
}

// Name returns the source's name (the dataset name it is bound to).
func (se *SourceEvaluator[E]) Name() string {
	return se.decl.Name
}

// Weight returns the source's declared weight, as applied when the owning
// field sums this source's scorecard into its weighted contribution.
func (se *SourceEvaluator[E]) Weight() float64 {
	return se.decl.Weight
}

func newSourceEvaluator[E any](decl *SourceDecl[E], entity E, root *Context[E], datasets map[string]DatasetFunc[E]) *SourceEvaluator[E] {
	se := &SourceEvaluator[E]{decl: decl, entity: entity, datasets: datasets}
	se.ctx = &Context[E]{
		entity:   entity,
		helpers:  root.helpers,
		hasData:  true,
		datasetN: decl.DatasetName,
	}
	return se
}

func (se *SourceEvaluator[E]) datasetValue() (any, error) {
	if se.datasetComputed {
		return se.dataset, se.datasetErr
	}
	se.datasetComputed = true

	fn, ok := se.datasets[se.decl.DatasetName]
	if !ok {
		se.datasetErr = &ConfigurationError{Field: se.decl.FieldName, Source: se.decl.Name, Message: "unregistered dataset " + se.decl.DatasetName}
		return nil, se.datasetErr
	}

	// Bind the context's dataset lazily: the producer itself must not see
	// its own not-yet-computed value through ctx.Dataset().
	val, err := safeCallDataset(fn, se.ctx)
	if err != nil {
		se.datasetErr = &DatasetError{Field: se.decl.FieldName, Source: se.decl.Name, Dataset: se.decl.DatasetName, Err: err}
		return nil, se.datasetErr
	}
	se.dataset = val
	se.ctx.dataset = val
	return val, nil
}

// RawCandidates returns the grouped-by-canonical-key raw candidates: stage
// 1 of the source pipeline. Empty candidates producer output yields an
// empty group set, not an error.
func (se *SourceEvaluator[E]) RawCandidates() ([]RawClass, error) {
	if se.rawComputed {
		if se.rawErr != nil {
			return nil, se.rawErr
		}
		return se.rawGroups.classes(), nil
	}
	se.rawComputed = true

	if _, err := se.datasetValue(); err != nil {
		se.rawErr = err
		return nil, err
	}

	if se.decl.Candidates == nil {
		se.rawErr = &ConfigurationError{Field: se.decl.FieldName, Source: se.decl.Name, Message: "source has no candidates producer"}
		return nil, se.rawErr
	}

	raws, err := safeCallCandidates(se.decl.Candidates, se.ctx)
	if err != nil {
		se.rawErr = &UserBlockError{Field: se.decl.FieldName, Source: se.decl.Name, Stage: "candidates", Err: err}
		return nil, se.rawErr
	}

	canon := se.decl.Canonicalize
	if canon == nil {
		canon = defaultCanonicalize[E]
	}

	groups := newOrderedRawGroups()
	for _, raw := range raws {
		key, err := safeCallCanonicalize(canon, se.ctx, raw)
		if err != nil {
			se.rawErr = &UserBlockError{Field: se.decl.FieldName, Source: se.decl.Name, Stage: "canonicalize", Err: err}
			return nil, se.rawErr
		}
		if err := groups.append(key, raw); err != nil {
			se.rawErr = err
			return nil, err
		}
	}
	se.rawGroups = groups
	return se.rawGroups.classes(), nil
}

// Candidates returns the preferred-representative -> raws mapping: stage 2
// of the source pipeline.
func (se *SourceEvaluator[E]) Candidates() ([]RawClass, error) {
	if se.candComputed {
		if se.candErr != nil {
			return nil, se.candErr
		}
		return se.candidates.entries(), nil
	}
	se.candComputed = true

	classes, err := se.RawCandidates()
	if err != nil {
		se.candErr = err
		return nil, err
	}

	prefer := se.decl.Prefer
	if prefer == nil {
		prefer = defaultPrefer[E]
	}

	out := newOrderedCandidates()
	for _, class := range classes {
		rep, err := safeCallPrefer(prefer, se.ctx, class.Key, class.Raws)
		if err != nil {
			se.candErr = &UserBlockError{Field: se.decl.FieldName, Source: se.decl.Name, Stage: "prefer", Err: err}
			return nil, se.candErr
		}
		if err := out.put(rep, class.Raws); err != nil {
			se.candErr = err
			return nil, err
		}
	}
	se.candidates = out
	return se.candidates.entries(), nil
}

// scoresRaw computes the per-source scorecard (stage 3 of the source
// pipeline) in the engine's internal ordered representation, for reuse by
// FieldEvaluator's weighted-aggregation stage.
func (se *SourceEvaluator[E]) scoresRaw() (*orderedScores, error) {
	if se.scoresComputed {
		return se.scores, se.scoresErr
	}
	se.scoresComputed = true

	entries, err := se.Candidates()
	if err != nil {
		se.scoresErr = err
		return nil, err
	}

	if se.decl.Score == nil {
		se.scoresErr = &ConfigurationError{Field: se.decl.FieldName, Source: se.decl.Name, Message: "source has no score function"}
		return nil, se.scoresErr
	}

	out := newOrderedScores()
	se.scoreEntries = make([]sourceScoreEntry, 0, len(entries))
	for _, e := range entries {
		raw, valid, err := safeCallScore(se.decl.Score, se.ctx, e.Key, e.Raws)
		if err != nil {
			se.scoresErr = &UserBlockError{Field: se.decl.FieldName, Source: se.decl.Name, Stage: "score", Err: err}
			return nil, se.scoresErr
		}
		effective := raw
		if !valid || effective < 0 {
			effective = 0
		}
		se.scoreEntries = append(se.scoreEntries, sourceScoreEntry{
			Representative: e.Key,
			Raws:           e.Raws,
			RawScore:       raw,
			RawScoreValid:  valid,
			Score:          effective,
		})
		if err := out.set(e.Key, effective); err != nil {
			se.scoresErr = err
			return nil, err
		}
	}
	se.scores = out
	return se.scores, nil
}

// Scores returns the per-source representative -> score scorecard (stage 3
// of the source pipeline). Negative or unusable score-function results are
// clamped to 0; ScoreEntries exposes the raw values for introspection.
func (se *SourceEvaluator[E]) Scores() (map[any]float64, error) {
	out, err := se.scoresRaw()
	if err != nil {
		return nil, err
	}
	return out.asMap(), nil
}

// ScoreEntries exposes the full per-representative score detail
// (raw value, validity, clamped value) computed by the last call to
// Scores. Callers needing introspection should call Scores first.
func (se *SourceEvaluator[E]) ScoreEntries() []sourceScoreEntry {
	out := make([]sourceScoreEntry, len(se.scoreEntries))
	copy(out, se.scoreEntries)
	return out
}
