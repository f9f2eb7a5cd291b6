package infer

// FieldEvaluator computes one field's best value and full score trail for
// one entity instance, aggregating across every source the field declares.
// Every stage is computed at most once and memoized.
type FieldEvaluator[E any] struct {
	decl    *FieldDecl[E]
	declRef *Declaration[E]
	ctx     *Context[E]

	sources     map[string]*SourceEvaluator[E]
	sourceOrder []string

	sourcedComputed bool
	sourcedUnw      map[string]*orderedScores
	sourcedW        map[string]*orderedScores
	sourcedErr      error

	ungroupedComputed bool
	ungrouped         *orderedScores
	ungroupedErr      error

	groupedComputed bool
	groups          []FieldGroup
	groupedErr      error

	scoresComputed bool
	scores         *orderedScores
	scoresErr      error

	bestComputed bool
	best         any
	bestOK       bool
	bestErr      error
}

// FieldGroup is one field-level equivalence class formed by regrouping the
// sources' combined representatives under the field canonicalizer.
type FieldGroup struct {
	Key     any
	Members []any
	Score   float64
}

func newFieldEvaluator[E any](decl *FieldDecl[E], declRef *Declaration[E], entity E) *FieldEvaluator[E] {
	fe := &FieldEvaluator[E]{
		decl:    decl,
		declRef: declRef,
		ctx:     declRef.newContext(entity),
		sources: map[string]*SourceEvaluator[E]{},
	}
	root := declRef.newContext(entity)
	for _, sname := range decl.SourceOrder {
		sd := decl.Sources[sname]
		fe.sources[sname] = newSourceEvaluator(sd, entity, root, declRef.datasets)
		fe.sourceOrder = append(fe.sourceOrder, sname)
	}
	return fe
}

// SourceEvaluators returns, in declaration order, the per-source
// evaluators backing this field — the audit trail's per-source detail.
func (fe *FieldEvaluator[E]) SourceEvaluators() []*SourceEvaluator[E] {
	out := make([]*SourceEvaluator[E], 0, len(fe.sourceOrder))
	for _, n := range fe.sourceOrder {
		out = append(out, fe.sources[n])
	}
	return out
}

// sourcedScoresRaw computes, per source, its unweighted scorecard (stage 1)
// and its weight-multiplied scorecard (stage 2), in the engine's internal
// ordered representation.
func (fe *FieldEvaluator[E]) sourcedScoresRaw() (map[string]*orderedScores, map[string]*orderedScores, error) {
	if fe.sourcedComputed {
		return fe.sourcedUnw, fe.sourcedW, fe.sourcedErr
	}
	fe.sourcedComputed = true

	unw := map[string]*orderedScores{}
	w := map[string]*orderedScores{}
	for _, sname := range fe.sourceOrder {
		sd := fe.decl.Sources[sname]
		se := fe.sources[sname]
		raw, err := se.scoresRaw()
		if err != nil {
			fe.sourcedErr = err
			return nil, nil, err
		}
		unw[sname] = raw

		weighted := newOrderedScores()
		for _, k := range raw.keys() {
			v, _ := raw.get(k)
			if err := weighted.add(k, v*sd.Weight); err != nil {
				fe.sourcedErr = err
				return nil, nil, err
			}
		}
		w[sname] = weighted
	}
	fe.sourcedUnw = unw
	fe.sourcedW = w
	return unw, w, nil
}

// SourcedUnweightedScores returns, per source, that source's own scorecard
// before the field's per-source weight is applied (stage 1 of the field
// pipeline) — the raw audit trail behind each source's contribution.
func (fe *FieldEvaluator[E]) SourcedUnweightedScores() (map[string]map[any]float64, error) {
	unw, _, err := fe.sourcedScoresRaw()
	if err != nil {
		return nil, err
	}
	return scoresMapOfMap(unw), nil
}

// SourcedWeightedScores returns, per source, that source's scorecard after
// its declared weight has been applied (stage 2 of the field pipeline).
func (fe *FieldEvaluator[E]) SourcedWeightedScores() (map[string]map[any]float64, error) {
	_, w, err := fe.sourcedScoresRaw()
	if err != nil {
		return nil, err
	}
	return scoresMapOfMap(w), nil
}

func scoresMapOfMap(m map[string]*orderedScores) map[string]map[any]float64 {
	out := make(map[string]map[any]float64, len(m))
	for k, v := range m {
		out[k] = v.asMap()
	}
	return out
}

// ungroupedScoresRaw combines every source's weighted scorecard into one
// representative -> score accumulator (stage 3), summing contributions
// when two sources happen to agree on the same representative value and
// otherwise preserving each source's own internal ordering, sources
// visited in declaration order.
func (fe *FieldEvaluator[E]) ungroupedScoresRaw() (*orderedScores, error) {
	if fe.ungroupedComputed {
		return fe.ungrouped, fe.ungroupedErr
	}
	fe.ungroupedComputed = true

	_, weighted, err := fe.sourcedScoresRaw()
	if err != nil {
		fe.ungroupedErr = err
		return nil, err
	}

	out := newOrderedScores()
	for _, sname := range fe.sourceOrder {
		ws := weighted[sname]
		for _, k := range ws.keys() {
			v, _ := ws.get(k)
			if err := out.add(k, v); err != nil {
				fe.ungroupedErr = err
				return nil, err
			}
		}
	}
	fe.ungrouped = out
	return out, nil
}

// UngroupedScores returns the representative -> score accumulator formed by
// summing every source's weighted scorecard by exact representative
// equality (stage 3 of the field pipeline), before the field canonicalizer
// has had a chance to merge representatives across sources.
func (fe *FieldEvaluator[E]) UngroupedScores() (map[any]float64, error) {
	out, err := fe.ungroupedScoresRaw()
	if err != nil {
		return nil, err
	}
	return out.asMap(), nil
}

// groupedScoresRaw regroups the ungrouped representatives under the
// field's canonicalizer (stage 4): a field may merge representatives that
// two different sources canonicalized differently at the source level,
// e.g. "(555) 123-4567" from one source and "555-123-4567" from another.
func (fe *FieldEvaluator[E]) groupedScoresRaw() ([]FieldGroup, error) {
	if fe.groupedComputed {
		return fe.groups, fe.groupedErr
	}
	fe.groupedComputed = true

	ungrouped, err := fe.ungroupedScoresRaw()
	if err != nil {
		fe.groupedErr = err
		return nil, err
	}

	canon := fe.decl.Canonicalize
	if canon == nil {
		canon = defaultCanonicalize[E]
	}

	order := []any{}
	index := map[any]int{}
	members := map[any][]any{}
	sums := map[any]float64{}

	for _, k := range ungrouped.keys() {
		score, _ := ungrouped.get(k)
		gkey, err := safeCallCanonicalize(canon, fe.ctx, k)
		if err != nil {
			fe.groupedErr = &UserBlockError{Field: fe.decl.Name, Stage: "canonicalize", Err: err}
			return nil, fe.groupedErr
		}
		if !isHashable(gkey) {
			fe.groupedErr = &ConfigurationError{Field: fe.decl.Name, Message: "canonical key is not hashable: " + describeType(gkey)}
			return nil, fe.groupedErr
		}
		if _, ok := index[gkey]; !ok {
			index[gkey] = len(order)
			order = append(order, gkey)
		}
		members[gkey] = append(members[gkey], k)
		sums[gkey] += score
	}

	groups := make([]FieldGroup, len(order))
	for i, gkey := range order {
		groups[i] = FieldGroup{Key: gkey, Members: members[gkey], Score: sums[gkey]}
	}
	fe.groups = groups
	return groups, nil
}

// GroupedScores returns the field-level equivalence classes formed by
// regrouping the ungrouped representatives under the field canonicalizer
// (stage 4 of the field pipeline): a field may merge representatives that
// two different sources canonicalized differently at the source level,
// e.g. "(555) 123-4567" from one source and "555-123-4567" from another.
func (fe *FieldEvaluator[E]) GroupedScores() ([]FieldGroup, error) {
	return fe.groupedScoresRaw()
}

// scoresRaw applies the field preferrer to each group to pick its final
// representative (stage 5), in the engine's internal ordered
// representation. Two groups whose preferrer picks the same final
// representative collide; the later group in processing order wins, per
// the engine's pinned last-wins collision rule.
func (fe *FieldEvaluator[E]) scoresRaw() (*orderedScores, error) {
	if fe.scoresComputed {
		return fe.scores, fe.scoresErr
	}
	fe.scoresComputed = true

	groups, err := fe.groupedScoresRaw()
	if err != nil {
		fe.scoresErr = err
		return nil, err
	}

	prefer := fe.decl.Prefer
	if prefer == nil {
		prefer = defaultPrefer[E]
	}

	out := newOrderedScores()
	for _, g := range groups {
		rep, err := safeCallPrefer(prefer, fe.ctx, g.Key, g.Members)
		if err != nil {
			fe.scoresErr = &UserBlockError{Field: fe.decl.Name, Stage: "prefer", Err: err}
			return nil, fe.scoresErr
		}
		if err := out.set(rep, g.Score); err != nil {
			fe.scoresErr = err
			return nil, err
		}
	}
	fe.scores = out
	return out, nil
}

// Scores applies the field preferrer to each group to pick its final
// representative -> score map (stage 5), the audit trail behind
// BestValue's pick.
func (fe *FieldEvaluator[E]) Scores() (map[any]float64, error) {
	out, err := fe.scoresRaw()
	if err != nil {
		return nil, err
	}
	return out.asMap(), nil
}

// BestValue returns the field's highest-scoring representative (stage 6),
// breaking ties by first insertion order. ok is false if the field has no
// scored candidates at all.
func (fe *FieldEvaluator[E]) BestValue() (value any, ok bool, err error) {
	if fe.bestComputed {
		return fe.best, fe.bestOK, fe.bestErr
	}
	fe.bestComputed = true

	scores, err := fe.scoresRaw()
	if err != nil {
		fe.bestErr = err
		return nil, false, err
	}
	v, ok := scores.argmax()
	fe.best, fe.bestOK = v, ok
	return v, ok, nil
}
