package infer

// EntityEvaluator is the handle an application holds for one entity
// instance. It lazily builds and memoizes one FieldEvaluator per field the
// caller actually asks about — fields never touched by the caller are
// never evaluated.
type EntityEvaluator[E any] struct {
	decl   *Declaration[E]
	entity E
	fields map[string]*FieldEvaluator[E]
}

// NewEntityEvaluator builds an evaluator for entity against decl. decl
// must already have had Validate called on it; NewEntityEvaluator does not
// re-check structural completeness.
func NewEntityEvaluator[E any](decl *Declaration[E], entity E) *EntityEvaluator[E] {
	return &EntityEvaluator[E]{decl: decl, entity: entity, fields: map[string]*FieldEvaluator[E]{}}
}

// EvaluatorFor returns the memoized FieldEvaluator for name, creating it on
// first request. Returns a LookupError if name was never declared.
func (ee *EntityEvaluator[E]) EvaluatorFor(name string) (*FieldEvaluator[E], error) {
	if fe, ok := ee.fields[name]; ok {
		return fe, nil
	}
	fd, ok := ee.decl.fields[name]
	if !ok {
		return nil, &LookupError{Field: name}
	}
	fe := newFieldEvaluator(fd, ee.decl, ee.entity)
	ee.fields[name] = fe
	return fe, nil
}

// BestValueFor returns the highest-scoring value for field name, and
// whether the field produced any scored candidate at all.
func (ee *EntityEvaluator[E]) BestValueFor(name string) (value any, ok bool, err error) {
	fe, err := ee.EvaluatorFor(name)
	if err != nil {
		return nil, false, err
	}
	return fe.BestValue()
}

// ScoresFor returns the full representative -> score map for field name,
// the audit trail behind BestValueFor's pick.
func (ee *EntityEvaluator[E]) ScoresFor(name string) (map[any]float64, error) {
	fe, err := ee.EvaluatorFor(name)
	if err != nil {
		return nil, err
	}
	return fe.Scores()
}

// FieldValues evaluates BestValueFor across every declared field, in
// declaration order, and returns every declared field name, nil for the
// ones that produced no best value. It stops and returns the first error
// a field evaluation raises rather than silently skipping it, since a
// field that can't be evaluated is a configuration or data problem the
// caller needs to see, not a field that happens to have no candidates.
func (ee *EntityEvaluator[E]) FieldValues() (map[string]any, error) {
	out := map[string]any{}
	for _, name := range ee.decl.fieldOrder {
		v, ok, err := ee.BestValueFor(name)
		if err != nil {
			return nil, err
		}
		if ok {
			out[name] = v
		} else {
			out[name] = nil
		}
	}
	return out, nil
}
