package infer

import (
	"fmt"
	"reflect"
)

// HelperFunc is a named callable injected into every user block. Helpers
// may call other helpers and, inside a source-scoped block, read the
// bound dataset.
type HelperFunc[E any] func(ctx *Context[E], args ...any) (any, error)

// DatasetFunc produces the queryable dataset value for one dataset
// descriptor, evaluated in the context of one entity instance.
type DatasetFunc[E any] func(ctx *Context[E]) (any, error)

// Context is the per-block evaluation scope. It exposes the entity
// instance, the helpers registered on the declaration, and — for
// source-scoped blocks — the memoized dataset value the source is bound
// to. Context has no exported fields; user blocks read the entity through
// Entity() and forward everything else through Helper()/Dataset(), since
// Go has no open classes to splice entity attributes directly into scope
// (see Declaration.Share for the attribute-forwarding helper).
type Context[E any] struct {
	entity   E
	helpers  map[string]HelperFunc[E]
	dataset  any
	hasData  bool
	datasetN string
}

// Entity returns the entity instance this context was constructed for.
func (c *Context[E]) Entity() E {
	return c.entity
}

// Dataset returns the memoized dataset value for the source this context
// is scoped to. Calling Dataset from a field-level (not source-level)
// block returns an error: field-level canonicalize/prefer blocks are not
// bound to any one dataset.
func (c *Context[E]) Dataset() (any, error) {
	if !c.hasData {
		return nil, fmt.Errorf("infer: dataset is not available outside a source-scoped block")
	}
	return c.dataset, nil
}

// Helper invokes a registered helper by name. It returns an error if no
// helper with that name was registered.
func (c *Context[E]) Helper(name string, args ...any) (any, error) {
	fn, ok := c.helpers[name]
	if !ok {
		return nil, fmt.Errorf("infer: no such helper %q", name)
	}
	return fn(c, args...)
}

// shareHelper builds a HelperFunc that forwards to the entity's field or
// zero-arg method of the given name via reflection. This is the one place
// the engine uses reflection: Go's static typing gives no other way to
// express "forward an unknown-at-compile-time attribute name to the
// entity", which is exactly what Share's declared contract requires.
func shareHelper[E any](attr string) HelperFunc[E] {
	return func(ctx *Context[E], _ ...any) (any, error) {
		v := reflect.ValueOf(ctx.entity)
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, fmt.Errorf("infer: share(%q): entity is nil", attr)
			}
			v = v.Elem()
		}
		if v.Kind() == reflect.Struct {
			if f := v.FieldByName(attr); f.IsValid() {
				return f.Interface(), nil
			}
		}
		m := reflect.ValueOf(ctx.entity).MethodByName(attr)
		if m.IsValid() {
			out := m.Call(nil)
			if len(out) == 0 {
				return nil, nil
			}
			return out[0].Interface(), nil
		}
		return nil, fmt.Errorf("infer: share(%q): entity has no such field or method", attr)
	}
}
