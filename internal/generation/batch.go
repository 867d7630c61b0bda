package generation

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultChunkSize bounds how many entities share one model call when
// the config leaves the size unset.
const DefaultChunkSize = 3

// BatchError reports a model call that failed for one chunk. Members of
// the failing chunk were rolled back; earlier chunks stay committed.
type BatchError struct {
	Chunk int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("generation chunk %d: %v", e.Chunk, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Target is one unit of a chunked batch. Key must be stable across the
// model call so the result can be matched back.
type Target[T any] struct {
	Key    string
	Entity T
}

// Keyed is a model result carrying its match key.
type Keyed[R any] struct {
	Key   string
	Value R
}

// Hooks supplies the per-entity persistence operations for one batch.
// Every hook must persist its effect before returning: the runner
// relies on MarkGenerating being flushed before Call so a crash
// mid-chunk leaves detectable generating entities instead of silently
// lost work.
type Hooks[T, R any] struct {
	// MarkGenerating transitions the entity to generating and persists
	// it.
	MarkGenerating func(ctx context.Context, entity T) error
	// Call performs one model invocation for a whole chunk.
	Call func(ctx context.Context, entities []T) ([]Keyed[R], error)
	// Apply writes the result onto the entity, transitions it to its
	// completed state, and persists it.
	Apply func(ctx context.Context, entity T, value R) error
	// Rollback returns a still-generating entity to its prior state and
	// persists it.
	Rollback func(ctx context.Context, entity T) error
}

// Outcome summarizes one batch run.
type Outcome struct {
	Requested  int `json:"requested"`
	Applied    int `json:"applied"`
	RolledBack int `json:"rolled_back"`
	Chunks     int `json:"chunks"`
	// SkippedKeys lists result keys that matched no target in their
	// chunk. Skipped results are dropped, not applied.
	SkippedKeys []string `json:"skipped_keys,omitempty"`
}

// RunChunks drives targets through the chunked generation protocol.
//
// Each chunk is marked generating and flushed, covered by a single
// Call, then reconciled: matched results are applied, unreturned
// targets are rolled back. A Call failure rolls back the whole chunk
// and aborts the batch with a *BatchError; a chunk whose results match
// nothing is rolled back and the batch continues. Work committed by
// earlier chunks is never undone.
func RunChunks[T, R any](ctx context.Context, logger *slog.Logger, chunkSize int, targets []Target[T], hooks Hooks[T, R]) (*Outcome, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	outcome := &Outcome{Requested: len(targets)}

	for start := 0; start < len(targets); start += chunkSize {
		end := min(start+chunkSize, len(targets))
		chunk := targets[start:end]
		chunkIndex := outcome.Chunks
		outcome.Chunks++

		if err := markChunk(ctx, chunk, hooks, outcome); err != nil {
			return outcome, &BatchError{Chunk: chunkIndex, Err: err}
		}

		entities := make([]T, len(chunk))
		for i, t := range chunk {
			entities[i] = t.Entity
		}
		results, err := hooks.Call(ctx, entities)
		if err != nil {
			if rbErr := rollbackChunk(ctx, chunk, nil, hooks, outcome); rbErr != nil {
				return outcome, &BatchError{Chunk: chunkIndex, Err: fmt.Errorf("rollback after call failure: %w (call error: %v)", rbErr, err)}
			}
			return outcome, &BatchError{Chunk: chunkIndex, Err: err}
		}

		inChunk := make(map[string]int, len(chunk))
		for i, t := range chunk {
			inChunk[t.Key] = i
		}
		matched := make(map[string]R, len(results))
		for _, r := range results {
			if _, ok := inChunk[r.Key]; !ok {
				logger.Warn("dropping result with unknown key", "key", r.Key, "chunk", chunkIndex)
				outcome.SkippedKeys = append(outcome.SkippedKeys, r.Key)
				continue
			}
			matched[r.Key] = r.Value
		}

		applied := make(map[string]struct{}, len(matched))
		for _, t := range chunk {
			value, ok := matched[t.Key]
			if !ok {
				continue
			}
			if err := hooks.Apply(ctx, t.Entity, value); err != nil {
				if rbErr := rollbackChunk(ctx, chunk, applied, hooks, outcome); rbErr != nil {
					return outcome, &BatchError{Chunk: chunkIndex, Err: fmt.Errorf("rollback after apply failure: %w (apply error: %v)", rbErr, err)}
				}
				return outcome, &BatchError{Chunk: chunkIndex, Err: fmt.Errorf("apply result for %q: %w", t.Key, err)}
			}
			applied[t.Key] = struct{}{}
			outcome.Applied++
		}

		// Targets the model did not answer for go back to their prior
		// state. A fully empty chunk is not fatal; the next chunk may
		// still succeed.
		for _, t := range chunk {
			if _, ok := applied[t.Key]; ok {
				continue
			}
			if err := hooks.Rollback(ctx, t.Entity); err != nil {
				return outcome, &BatchError{Chunk: chunkIndex, Err: fmt.Errorf("rollback unreturned target %q: %w", t.Key, err)}
			}
			outcome.RolledBack++
			logger.Warn("model omitted target, rolled back", "key", t.Key, "chunk", chunkIndex)
		}
	}

	return outcome, nil
}

// markChunk transitions every member to generating. A failure rolls
// back the members already marked so a half-marked chunk never reaches
// the model.
func markChunk[T, R any](ctx context.Context, chunk []Target[T], hooks Hooks[T, R], outcome *Outcome) error {
	for i, t := range chunk {
		if err := hooks.MarkGenerating(ctx, t.Entity); err != nil {
			for _, prev := range chunk[:i] {
				if rbErr := hooks.Rollback(ctx, prev.Entity); rbErr != nil {
					return fmt.Errorf("rollback %q after mark failure: %w (mark error: %v)", prev.Key, rbErr, err)
				}
				outcome.RolledBack++
			}
			return fmt.Errorf("mark %q generating: %w", t.Key, err)
		}
	}
	return nil
}

// rollbackChunk reverts every member that was not successfully applied.
// applied may be nil when nothing was.
func rollbackChunk[T, R any](ctx context.Context, chunk []Target[T], applied map[string]struct{}, hooks Hooks[T, R], outcome *Outcome) error {
	for _, t := range chunk {
		if applied != nil {
			if _, ok := applied[t.Key]; ok {
				continue
			}
		}
		if err := hooks.Rollback(ctx, t.Entity); err != nil {
			return fmt.Errorf("rollback %q: %w", t.Key, err)
		}
		outcome.RolledBack++
	}
	return nil
}
