package fileproc

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestForEachFile_CollectsAllResults(t *testing.T) {
	files := []string{"a", "b", "c", "d"}

	results := ForEachFile(context.Background(), files, func(path string) (string, error) {
		return strings.ToUpper(path), nil
	}, nil, nil)

	sort.Strings(results)
	want := []string{"A", "B", "C", "D"}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %q, want %q", i, results[i], want[i])
		}
	}
}

func TestForEachFile_SkipsFailedItems(t *testing.T) {
	files := []string{"ok1", "bad", "ok2"}
	var mu sync.Mutex
	var failed []string

	results := ForEachFile(context.Background(), files, func(path string) (string, error) {
		if path == "bad" {
			return "", errors.New("unreadable")
		}
		return path, nil
	}, nil, func(path string, err error) {
		mu.Lock()
		failed = append(failed, path)
		mu.Unlock()
	})

	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
	if len(failed) != 1 || failed[0] != "bad" {
		t.Errorf("failed = %v, want [bad]", failed)
	}
}

func TestForEachFile_Progress(t *testing.T) {
	files := []string{"a", "b", "c"}
	var ticks int32

	ForEachFile(context.Background(), files, func(path string) (int, error) {
		return len(path), nil
	}, func() { atomic.AddInt32(&ticks, 1) }, nil)

	if ticks != 3 {
		t.Errorf("progress ticks = %d, want 3", ticks)
	}
}

func TestForEachFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []string{"a", "b", "c"}
	var started int32

	results := ForEachFile(ctx, files, func(path string) (string, error) {
		atomic.AddInt32(&started, 1)
		return path, nil
	}, nil, nil)

	if started != 0 {
		t.Errorf("started %d files on cancelled context, want 0", started)
	}
	if len(results) != 0 {
		t.Errorf("got %d results on cancelled context, want 0", len(results))
	}
}

func TestForEachFile_Empty(t *testing.T) {
	results := ForEachFile(context.Background(), nil, func(path string) (int, error) {
		return 0, nil
	}, nil, nil)
	if results != nil {
		t.Errorf("expected nil results for empty input, got %v", results)
	}
}
