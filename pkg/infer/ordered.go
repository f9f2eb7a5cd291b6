package infer

import "reflect"

// isHashable reports whether v is safe to use as a Go map key: comparable,
// and not a type whose comparison would panic at runtime (slices, maps,
// funcs, or any composite containing one). Canonicalizers are expected to
// reduce raw candidates to primitives or small comparable structs; a
// canonical key that fails this check is a declaration mistake, reported
// as a ConfigurationError rather than left to panic deep inside a map
// write.
func isHashable(v any) bool {
	if v == nil {
		return true
	}
	t := reflect.TypeOf(v)
	return t.Comparable()
}

// scoredEntry is one (representative, score) pair within an orderedScores,
// preserving the position it was first inserted at.
type scoredEntry struct {
	Key   any
	Score float64
}

// orderedScores is an insertion-ordered representative -> score
// accumulator. Grouping, weighting, and summation stages all build one of
// these so that declaration order and producer order — not Go's
// unspecified map iteration order — determine tie-breaks in best-value
// selection.
type orderedScores struct {
	order []any
	index map[any]int
	vals  map[any]float64
}

func newOrderedScores() *orderedScores {
	return &orderedScores{index: map[any]int{}, vals: map[any]float64{}}
}

// add sums delta into the score for key, appending key to the insertion
// order on first sight. Returns ConfigurationError if key is not a valid
// map key.
func (o *orderedScores) add(key any, delta float64) error {
	if !isHashable(key) {
		return &ConfigurationError{Message: "canonical key is not hashable: " + describeType(key)}
	}
	if _, ok := o.index[key]; !ok {
		o.index[key] = len(o.order)
		o.order = append(o.order, key)
	}
	o.vals[key] += delta
	return nil
}

// set overwrites (rather than sums) the score for key, moving it to the
// end of the insertion order if it already existed. Used to implement the
// pinned "last-wins" preferrer-collision rule.
func (o *orderedScores) set(key any, value float64) error {
	if !isHashable(key) {
		return &ConfigurationError{Message: "canonical key is not hashable: " + describeType(key)}
	}
	if i, ok := o.index[key]; ok {
		o.order = append(o.order[:i], o.order[i+1:]...)
		for k, idx := range o.index {
			if idx > i {
				o.index[k] = idx - 1
			}
		}
	}
	o.index[key] = len(o.order)
	o.order = append(o.order, key)
	o.vals[key] = value
	return nil
}

func (o *orderedScores) get(key any) (float64, bool) {
	v, ok := o.vals[key]
	return v, ok
}

func (o *orderedScores) keys() []any {
	out := make([]any, len(o.order))
	copy(out, o.order)
	return out
}

// asMap returns a plain map copy for the public introspection surface.
func (o *orderedScores) asMap() map[any]float64 {
	out := make(map[any]float64, len(o.vals))
	for k, v := range o.vals {
		out[k] = v
	}
	return out
}

// argmax returns the key with the maximum score, breaking ties by first
// insertion order. Returns nil, false if empty.
func (o *orderedScores) argmax() (any, bool) {
	if len(o.order) == 0 {
		return nil, false
	}
	best := o.order[0]
	bestScore := o.vals[best]
	for _, k := range o.order[1:] {
		if o.vals[k] > bestScore {
			best = k
			bestScore = o.vals[k]
		}
	}
	return best, true
}

func describeType(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}

// RawClass is one source-level equivalence class: the raws that
// canonicalized to the same key, in producer order.
type RawClass struct {
	Key  any
	Raws []any
}

// orderedRawGroups groups raw candidates by canonical key, preserving
// first-appearance order of each key.
type orderedRawGroups struct {
	order []any
	index map[any]int
	raws  map[any][]any
}

func newOrderedRawGroups() *orderedRawGroups {
	return &orderedRawGroups{index: map[any]int{}, raws: map[any][]any{}}
}

func (g *orderedRawGroups) append(key any, raw any) error {
	if !isHashable(key) {
		return &ConfigurationError{Message: "canonical key is not hashable: " + describeType(key)}
	}
	if _, ok := g.index[key]; !ok {
		g.index[key] = len(g.order)
		g.order = append(g.order, key)
	}
	g.raws[key] = append(g.raws[key], raw)
	return nil
}

func (g *orderedRawGroups) classes() []RawClass {
	out := make([]RawClass, len(g.order))
	for i, k := range g.order {
		out[i] = RawClass{Key: k, Raws: g.raws[k]}
	}
	return out
}

// orderedCandidates maps preferred representative -> contributing raws,
// in insertion order, implementing the pinned last-wins collision rule:
// a representative collision concatenates the raw lists and repositions
// the entry to the end of the order.
type orderedCandidates struct {
	order []any
	index map[any]int
	raws  map[any][]any
}

func newOrderedCandidates() *orderedCandidates {
	return &orderedCandidates{index: map[any]int{}, raws: map[any][]any{}}
}

func (c *orderedCandidates) put(rep any, raws []any) error {
	if !isHashable(rep) {
		return &ConfigurationError{Message: "preferred representative is not hashable: " + describeType(rep)}
	}
	if i, ok := c.index[rep]; ok {
		c.raws[rep] = append(c.raws[rep], raws...)
		c.order = append(c.order[:i], c.order[i+1:]...)
		for k, idx := range c.index {
			if idx > i {
				c.index[k] = idx - 1
			}
		}
		c.index[rep] = len(c.order)
		c.order = append(c.order, rep)
		return nil
	}
	c.index[rep] = len(c.order)
	c.order = append(c.order, rep)
	c.raws[rep] = raws
	return nil
}

func (c *orderedCandidates) entries() []RawClass {
	out := make([]RawClass, len(c.order))
	for i, k := range c.order {
		out[i] = RawClass{Key: k, Raws: c.raws[k]}
	}
	return out
}

func (c *orderedCandidates) asMap() map[any][]any {
	out := make(map[any][]any, len(c.raws))
	for k, v := range c.raws {
		out[k] = v
	}
	return out
}
