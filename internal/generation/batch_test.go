package generation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"telenovela/internal/generation"
	"telenovela/internal/logging"
)

// item is a minimal batch member for exercising the runner directly.
type item struct {
	key     string
	state   string
	content string
}

func newItems(keys ...string) []*item {
	items := make([]*item, len(keys))
	for i, key := range keys {
		items[i] = &item{key: key, state: "pending"}
	}
	return items
}

func targetsOf(items []*item) []generation.Target[*item] {
	targets := make([]generation.Target[*item], len(items))
	for i, it := range items {
		targets[i] = generation.Target[*item]{Key: it.key, Entity: it}
	}
	return targets
}

// trackingHooks applies the standard lifecycle to items and lets the
// test swap in its own Call.
func trackingHooks(call func(ctx context.Context, chunk []*item) ([]generation.Keyed[string], error)) generation.Hooks[*item, string] {
	return generation.Hooks[*item, string]{
		MarkGenerating: func(_ context.Context, it *item) error {
			if it.state != "pending" {
				return fmt.Errorf("cannot mark %q generating from %q", it.key, it.state)
			}
			it.state = "generating"
			return nil
		},
		Call: call,
		Apply: func(_ context.Context, it *item, value string) error {
			it.state = "generated"
			it.content = value
			return nil
		},
		Rollback: func(_ context.Context, it *item) error {
			it.state = "pending"
			it.content = ""
			return nil
		},
	}
}

func echoCall(_ context.Context, chunk []*item) ([]generation.Keyed[string], error) {
	results := make([]generation.Keyed[string], len(chunk))
	for i, it := range chunk {
		results[i] = generation.Keyed[string]{Key: it.key, Value: "content-" + it.key}
	}
	return results, nil
}

func TestRunChunksAppliesAllResults(t *testing.T) {
	items := newItems("a", "b", "c", "d", "e")
	outcome, err := generation.RunChunks(context.Background(), logging.NewNop(), 2, targetsOf(items), trackingHooks(echoCall))
	if err != nil {
		t.Fatalf("run chunks: %v", err)
	}
	if outcome.Applied != 5 || outcome.RolledBack != 0 || outcome.Chunks != 3 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	for _, it := range items {
		if it.state != "generated" || it.content != "content-"+it.key {
			t.Fatalf("item %q not applied: %+v", it.key, it)
		}
	}
}

func TestRunChunksRollsBackFailingChunkOnly(t *testing.T) {
	items := newItems("a", "b", "c", "d", "e", "f")
	boom := errors.New("model unavailable")
	calls := 0
	call := func(ctx context.Context, chunk []*item) ([]generation.Keyed[string], error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return echoCall(ctx, chunk)
	}

	outcome, err := generation.RunChunks(context.Background(), logging.NewNop(), 3, targetsOf(items), trackingHooks(call))
	var batchErr *generation.BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if batchErr.Chunk != 1 {
		t.Fatalf("failure attributed to chunk %d, want 1", batchErr.Chunk)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause not preserved: %v", err)
	}

	// First chunk stays committed, second reverts completely.
	for _, it := range items[:3] {
		if it.state != "generated" {
			t.Fatalf("committed item %q reverted: %+v", it.key, it)
		}
	}
	for _, it := range items[3:] {
		if it.state != "pending" || it.content != "" {
			t.Fatalf("failed-chunk item %q not rolled back: %+v", it.key, it)
		}
	}
	if outcome.Applied != 3 || outcome.RolledBack != 3 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestRunChunksRollsBackUnreturnedTargets(t *testing.T) {
	items := newItems("a", "b", "c")
	call := func(_ context.Context, chunk []*item) ([]generation.Keyed[string], error) {
		// Answer for everyone except "b".
		var results []generation.Keyed[string]
		for _, it := range chunk {
			if it.key == "b" {
				continue
			}
			results = append(results, generation.Keyed[string]{Key: it.key, Value: "content-" + it.key})
		}
		return results, nil
	}

	outcome, err := generation.RunChunks(context.Background(), logging.NewNop(), 3, targetsOf(items), trackingHooks(call))
	if err != nil {
		t.Fatalf("run chunks: %v", err)
	}
	if outcome.Applied != 2 || outcome.RolledBack != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if items[1].state != "pending" {
		t.Fatalf("omitted item not rolled back: %+v", items[1])
	}
	if items[0].state != "generated" || items[2].state != "generated" {
		t.Fatal("matched items should be applied")
	}
}

func TestRunChunksSkipsUnknownResultKeys(t *testing.T) {
	items := newItems("a")
	call := func(_ context.Context, chunk []*item) ([]generation.Keyed[string], error) {
		return []generation.Keyed[string]{
			{Key: "a", Value: "content-a"},
			{Key: "zz", Value: "hallucinated"},
		}, nil
	}

	outcome, err := generation.RunChunks(context.Background(), logging.NewNop(), 3, targetsOf(items), trackingHooks(call))
	if err != nil {
		t.Fatalf("run chunks: %v", err)
	}
	if outcome.Applied != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if len(outcome.SkippedKeys) != 1 || outcome.SkippedKeys[0] != "zz" {
		t.Fatalf("unknown key not reported: %+v", outcome.SkippedKeys)
	}
}

func TestRunChunksEmptyChunkContinues(t *testing.T) {
	items := newItems("a", "b", "c", "d")
	calls := 0
	call := func(ctx context.Context, chunk []*item) ([]generation.Keyed[string], error) {
		calls++
		if calls == 1 {
			return nil, nil
		}
		return echoCall(ctx, chunk)
	}

	outcome, err := generation.RunChunks(context.Background(), logging.NewNop(), 2, targetsOf(items), trackingHooks(call))
	if err != nil {
		t.Fatalf("an empty chunk must not abort the batch: %v", err)
	}
	if outcome.Applied != 2 || outcome.RolledBack != 2 || outcome.Chunks != 2 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	for _, it := range items[:2] {
		if it.state != "pending" {
			t.Fatalf("empty-chunk item %q not rolled back: %+v", it.key, it)
		}
	}
	for _, it := range items[2:] {
		if it.state != "generated" {
			t.Fatalf("later chunk item %q not applied: %+v", it.key, it)
		}
	}
}

func TestRunChunksDefaultsChunkSize(t *testing.T) {
	items := newItems("a", "b", "c", "d")
	outcome, err := generation.RunChunks(context.Background(), logging.NewNop(), 0, targetsOf(items), trackingHooks(echoCall))
	if err != nil {
		t.Fatalf("run chunks: %v", err)
	}
	if outcome.Chunks != 2 {
		t.Fatalf("expected default chunk size %d to yield 2 chunks, got %d",
			generation.DefaultChunkSize, outcome.Chunks)
	}
}
