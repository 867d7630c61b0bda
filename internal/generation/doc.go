// Package generation orchestrates the AI content pipeline.
//
// A Service drives each pipeline step against the show store and a
// Generator implementation. Multi-entity steps run through a generic
// chunk runner: entities are marked generating and flushed before each
// model call, one call covers a whole chunk, and results are matched
// back by a stable key. A failed call rolls back only the members of
// the failing chunk; earlier chunks stay committed. Entities the model
// omitted are rolled back individually so nothing lingers in the
// generating state after a batch completes.
package generation
