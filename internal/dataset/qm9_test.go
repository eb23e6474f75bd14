package dataset

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLabels(t *testing.T) {
	content := "CID01\t[1.5, -0.25, 3]\nCID02\t[0.0]\n"
	path := filepath.Join(t.TempDir(), "labels.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	table, err := LoadLabels(path)
	if err != nil {
		t.Fatalf("LoadLabels failed: %v", err)
	}
	if len(table.Order) != 2 {
		t.Fatalf("expected 2 molecules, got %d", len(table.Order))
	}
	if got := table.Labels["CID01"]; len(got) != 3 || got[1] != -0.25 {
		t.Errorf("unexpected labels for CID01: %v", got)
	}
}

func TestLoadLabels_InvalidArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.jsonl")
	if err := os.WriteFile(path, []byte("CID01\t{\"not\": \"an array\"}\n"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if _, err := LoadLabels(path); err == nil {
		t.Fatal("expected error for non-array label payload")
	}
}

func TestSplitQM9(t *testing.T) {
	const n = QM9TestSize + QM9ValidSize + 137
	table := &GraphTable{Graphs: make(map[string]json.RawMessage, n)}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("gdb_%06d", i)
		table.Graphs[id] = json.RawMessage(`{}`)
		table.Order = append(table.Order, id)
	}

	split, err := SplitQM9(table, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("SplitQM9 failed: %v", err)
	}

	if len(split.Test) != QM9TestSize {
		t.Errorf("test set size %d, want %d", len(split.Test), QM9TestSize)
	}
	if len(split.Valid) != QM9ValidSize {
		t.Errorf("valid set size %d, want %d", len(split.Valid), QM9ValidSize)
	}
	if len(split.Train) != 137 {
		t.Errorf("train set size %d, want 137", len(split.Train))
	}

	// the three sets are disjoint and cover every id
	seen := make(map[string]int, n)
	for _, set := range [][]string{split.Test, split.Valid, split.Train} {
		for _, id := range set {
			seen[id]++
		}
	}
	if len(seen) != n {
		t.Errorf("split covers %d ids, want %d", len(seen), n)
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("id %s assigned %d times", id, count)
		}
	}
}

func TestSplitQM9_TooSmall(t *testing.T) {
	table := &GraphTable{Graphs: map[string]json.RawMessage{}, Order: drugIDs(100)}
	if _, err := SplitQM9(table, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for dataset smaller than the fixed split sizes")
	}
}
