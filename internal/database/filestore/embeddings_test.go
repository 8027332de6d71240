package filestore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/logger"
)

func newTestStore(t *testing.T) (*EmbeddingStore, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	store, err := NewEmbeddingStore(filepath.Join(t.TempDir(), "encodings"), logger.New().WithOutput(&buf))
	if err != nil {
		t.Fatalf("NewEmbeddingStore() unexpected error: %v", err)
	}
	return store, &buf
}

func TestEmbeddingStore_CreatesDirectory(t *testing.T) {
	store, _ := newTestStore(t)
	info, err := os.Stat(store.dir)
	if err != nil {
		t.Fatalf("Stat() unexpected error: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected encodings path to be a directory")
	}
}

func TestEmbeddingStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.Save(ctx, "Alice", []float64{0.1, 0.2, 0.3}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if err := store.Save(ctx, "Bob", []float64{0.4, 0.5, 0.6}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(store.dir, "Alice.gob")); err != nil {
		t.Errorf("expected Alice.gob to exist: %v", err)
	}

	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("LoadAll() returned %d identities, want 2", len(all))
	}
	if got := all["Bob"]; len(got) != 3 || got[0] != 0.4 || got[2] != 0.6 {
		t.Errorf("LoadAll()[Bob] = %v, want [0.4 0.5 0.6]", got)
	}
}

func TestEmbeddingStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.Save(ctx, "Alice", []float64{1, 1}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if err := store.Save(ctx, "Alice", []float64{2, 2}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("LoadAll() returned %d identities, want 1", len(all))
	}
	if all["Alice"][0] != 2 {
		t.Errorf("LoadAll()[Alice] = %v, want [2 2]", all["Alice"])
	}

	entries, err := os.ReadDir(store.dir)
	if err != nil {
		t.Fatalf("ReadDir() unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file after overwrite, got %d", len(entries))
	}
}

func TestEmbeddingStore_Exists(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	exists, err := store.Exists(ctx, "Alice")
	if err != nil {
		t.Fatalf("Exists() unexpected error: %v", err)
	}
	if exists {
		t.Error("Exists() = true before save, want false")
	}

	if err := store.Save(ctx, "Alice", []float64{1}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	exists, err = store.Exists(ctx, "Alice")
	if err != nil {
		t.Fatalf("Exists() unexpected error: %v", err)
	}
	if !exists {
		t.Error("Exists() = false after save, want true")
	}
}

func TestEmbeddingStore_SkipsCorruptAndForeignFiles(t *testing.T) {
	ctx := context.Background()
	store, logs := newTestStore(t)

	if err := store.Save(ctx, "Alice", []float64{1, 2}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.dir, "Mallory.gob"), []byte("not a gob"), 0o644); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	if err := os.Mkdir(filepath.Join(store.dir, "nested.gob"), 0o755); err != nil {
		t.Fatalf("Mkdir() unexpected error: %v", err)
	}

	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("LoadAll() returned %d identities, want 1: %v", len(all), all)
	}
	if _, ok := all["Alice"]; !ok {
		t.Error("expected Alice to load")
	}
	if !strings.Contains(logs.String(), "Mallory") {
		t.Errorf("expected corrupt record to be logged, got %q", logs.String())
	}
}

func TestEmbeddingStore_ListSorted(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, name := range []string{"Carol", "Alice", "Bob"} {
		if err := store.Save(ctx, name, []float64{1}); err != nil {
			t.Fatalf("Save(%s) unexpected error: %v", name, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	want := []string{"Alice", "Bob", "Carol"}
	if len(list) != len(want) {
		t.Fatalf("List() returned %d identities, want %d", len(list), len(want))
	}
	for i, id := range list {
		if id.Name != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, id.Name, want[i])
		}
		if id.UpdatedAt.IsZero() {
			t.Errorf("List()[%d] UpdatedAt is zero", i)
		}
	}
}

func TestNewEmbeddingStore_EmptyDir(t *testing.T) {
	if _, err := NewEmbeddingStore("", nil); err == nil {
		t.Error("NewEmbeddingStore(\"\") expected error")
	}
}
