package infer

import "errors"

// CandidatesFunc produces the finite, possibly empty sequence of raw
// candidates a source contributes for one entity instance.
type CandidatesFunc[E any] func(ctx *Context[E]) ([]any, error)

// CanonicalizeFunc reduces a raw candidate to the key under which
// candidates are grouped into an equivalence class.
type CanonicalizeFunc[E any] func(ctx *Context[E], raw any) (any, error)

// PreferFunc chooses (or synthesizes) the representative value for an
// equivalence class given its canonical key and its member raws.
type PreferFunc[E any] func(ctx *Context[E], key any, raws []any) (any, error)

// ScoreFunc assigns a non-negative confidence score to a class's
// preferred representative given its member raws. A nil result or a
// negative number is treated as 0 for aggregation; ScoreFunc may still
// return it for introspection.
type ScoreFunc[E any] func(ctx *Context[E], representative any, raws []any) (float64, error)

func defaultCanonicalize[E any](_ *Context[E], raw any) (any, error) { return raw, nil }

func defaultPrefer[E any](_ *Context[E], key any, _ []any) (any, error) { return key, nil }

// SourceDecl is the (dataset_name, field back-reference, candidates
// producer, canonicalizer, preferrer, score function, weight) tuple for
// one source.
type SourceDecl[E any] struct {
	Name         string
	FieldName    string
	DatasetName  string
	Weight       float64
	Candidates   CandidatesFunc[E]
	Canonicalize CanonicalizeFunc[E]
	Prefer       PreferFunc[E]
	Score        ScoreFunc[E]
}

// FieldDecl is the (name, canonicalizer, preferrer, sources) tuple for one
// field; each source's weight is held on its SourceDecl.
type FieldDecl[E any] struct {
	Name         string
	Canonicalize CanonicalizeFunc[E]
	Prefer       PreferFunc[E]
	Sources      map[string]*SourceDecl[E]
	SourceOrder  []string
}

// Declaration is the process-wide, once-per-entity-type registry of
// datasets, helpers, and fields. Build one with NewDeclaration, register
// datasets/helpers/fields, then call Validate before constructing any
// EntityEvaluator from it.
type Declaration[E any] struct {
	Name       string
	datasets   map[string]DatasetFunc[E]
	helpers    map[string]HelperFunc[E]
	fields     map[string]*FieldDecl[E]
	fieldOrder []string
	errs       []error
	finalized  bool
}

// NewDeclaration creates an empty declaration for entity type E.
func NewDeclaration[E any](name string) *Declaration[E] {
	return &Declaration[E]{
		Name:     name,
		datasets: map[string]DatasetFunc[E]{},
		helpers:  map[string]HelperFunc[E]{},
		fields:   map[string]*FieldDecl[E]{},
	}
}

// Dataset registers a named dataset producer. Idempotent: the first
// declaration for a given name wins; re-registering under the same name
// is a no-op rather than an overwrite.
func (d *Declaration[E]) Dataset(name string, fn DatasetFunc[E]) {
	if _, exists := d.datasets[name]; exists {
		return
	}
	d.datasets[name] = fn
}

// Helper (re)binds a named helper, available inside every user block.
func (d *Declaration[E]) Helper(name string, fn HelperFunc[E]) {
	d.helpers[name] = fn
}

// Share registers, for each name in attrs, a helper that forwards to the
// entity's field or zero-arg method of that name.
func (d *Declaration[E]) Share(attrs ...string) {
	for _, a := range attrs {
		d.Helper(a, shareHelper[E](a))
	}
}

// Field creates a field on first call, or re-enters its declaration
// context on subsequent calls with the same name — existing canonicalizer/
// preferrer are preserved unless body explicitly replaces them, and new
// sources append after whatever the field already had, preserving
// declaration order.
func (d *Declaration[E]) Field(name string, body func(*FieldBuilder[E])) *FieldBuilder[E] {
	fd, exists := d.fields[name]
	if !exists {
		fd = &FieldDecl[E]{
			Name:         name,
			Canonicalize: defaultCanonicalize[E],
			Prefer:       defaultPrefer[E],
			Sources:      map[string]*SourceDecl[E]{},
		}
		d.fields[name] = fd
		d.fieldOrder = append(d.fieldOrder, name)
	}

	fb := &FieldBuilder[E]{decl: fd, owner: d}
	d.withConfigRecover(func() {
		if body != nil {
			body(fb)
		}
	})
	return fb
}

// withConfigRecover runs fn, converting any panic carrying a
// *ConfigurationError into an accumulated declaration error instead of
// letting it escape. This is how Source() rejects a non-positive weight
// immediately at the call site (a mistake always detectable without
// seeing the rest of the declaration) while still leaving the overall
// registration process panic-free for callers.
func (d *Declaration[E]) withConfigRecover(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*ConfigurationError); ok {
				d.errs = append(d.errs, ce)
				return
			}
			panic(r)
		}
	}()
	fn()
}

// Validate checks structural completeness: every source has a candidates
// producer, a score function, and a dataset name registered via Dataset.
// Call it once, right after registration, before the first
// NewEntityEvaluator. It also finalizes the declaration: further calls to
// Dataset/Helper/Field after Validate are still technically possible but
// unsupported — treat the declaration as immutable from here on.
func (d *Declaration[E]) Validate() error {
	var errs []error
	errs = append(errs, d.errs...)

	for _, fname := range d.fieldOrder {
		fd := d.fields[fname]
		for _, sname := range fd.SourceOrder {
			sd := fd.Sources[sname]
			if sd.Candidates == nil {
				errs = append(errs, &ConfigurationError{Field: fname, Source: sname, Message: "source has no candidates producer"})
			}
			if sd.Score == nil {
				errs = append(errs, &ConfigurationError{Field: fname, Source: sname, Message: "source has no score function"})
			}
			if _, ok := d.datasets[sd.DatasetName]; !ok {
				errs = append(errs, &ConfigurationError{Field: fname, Source: sname, Message: "source references unregistered dataset " + sd.DatasetName})
			}
		}
	}

	d.finalized = true
	return errors.Join(errs...)
}

// Fields returns the declared field names in declaration order.
func (d *Declaration[E]) Fields() []string {
	out := make([]string, len(d.fieldOrder))
	copy(out, d.fieldOrder)
	return out
}

func (d *Declaration[E]) newContext(entity E) *Context[E] {
	return &Context[E]{entity: entity, helpers: d.helpers}
}

// FieldBuilder is the in-progress declaration context for one field,
// passed to the body given to Declaration.Field.
type FieldBuilder[E any] struct {
	decl  *FieldDecl[E]
	owner *Declaration[E]
}

// Canonicalize sets the field-level canonicalizer.
func (b *FieldBuilder[E]) Canonicalize(fn CanonicalizeFunc[E]) *FieldBuilder[E] {
	b.decl.Canonicalize = fn
	return b
}

// Prefer sets the field-level preferrer.
func (b *FieldBuilder[E]) Prefer(fn PreferFunc[E]) *FieldBuilder[E] {
	b.decl.Prefer = fn
	return b
}

// Source registers a source under this field, bound to the named dataset
// with the given weight. weight must be positive; a non-positive weight
// panics with a *ConfigurationError, recovered by the enclosing
// Declaration.Field call and surfaced later through Validate.
func (b *FieldBuilder[E]) Source(datasetName string, weight float64, body func(*SourceBuilder[E])) *SourceBuilder[E] {
	if weight <= 0 {
		panic(&ConfigurationError{
			Field:   b.decl.Name,
			Source:  datasetName,
			Message: "source weight must be positive",
		})
	}

	sd, exists := b.decl.Sources[datasetName]
	if !exists {
		sd = &SourceDecl[E]{
			Name:         datasetName,
			FieldName:    b.decl.Name,
			DatasetName:  datasetName,
			Canonicalize: b.decl.Canonicalize,
			Prefer:       b.decl.Prefer,
		}
		b.decl.Sources[datasetName] = sd
		b.decl.SourceOrder = append(b.decl.SourceOrder, datasetName)
	}
	sd.Weight = weight

	sb := &SourceBuilder[E]{decl: sd}
	if body != nil {
		body(sb)
	}
	return sb
}

// SourceBuilder is the in-progress declaration context for one source,
// passed to the body given to FieldBuilder.Source.
type SourceBuilder[E any] struct {
	decl *SourceDecl[E]
}

// Candidates sets the source's raw-candidate producer.
func (b *SourceBuilder[E]) Candidates(fn CandidatesFunc[E]) *SourceBuilder[E] {
	b.decl.Candidates = fn
	return b
}

// Canonicalize overrides the source-level canonicalizer (defaults to the
// field's).
func (b *SourceBuilder[E]) Canonicalize(fn CanonicalizeFunc[E]) *SourceBuilder[E] {
	b.decl.Canonicalize = fn
	return b
}

// Prefer overrides the source-level preferrer (defaults to the field's).
func (b *SourceBuilder[E]) Prefer(fn PreferFunc[E]) *SourceBuilder[E] {
	b.decl.Prefer = fn
	return b
}

// Score sets the source's score function.
func (b *SourceBuilder[E]) Score(fn ScoreFunc[E]) *SourceBuilder[E] {
	b.decl.Score = fn
	return b
}
