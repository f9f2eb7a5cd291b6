// Package infer implements a multi-source attribute inference engine: given
// several heterogeneous, partially-overlapping datasets about the same
// entity, it produces one best-guess value per declared field along with
// an auditable score trail.
//
// A Declaration registers, once per entity type, the datasets, helpers and
// fields the entity supports. Fields declare one or more Sources, each
// bound to a dataset, a weight, and user-supplied candidates/canonicalize/
// prefer/score blocks. At evaluation time NewEntityEvaluator materializes a
// lazily-computed, memoized view over one entity instance: field and source
// evaluators compute raw candidates, group them into canonical equivalence
// classes, pick a preferred representative per class, score each class,
// and weight-combine across sources to produce a final best value.
//
// The engine is single-threaded and not reentrant per entity evaluator;
// concurrent access to the same EntityEvaluator is undefined behavior.
// Evaluating distinct entities concurrently is safe.
package infer
