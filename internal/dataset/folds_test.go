package dataset

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
)

func pairList(n int) []DrugPair {
	pairs := make([]DrugPair, n)
	for i := range pairs {
		pairs[i] = DrugPair{D1: fmt.Sprintf("A%04d", i), D2: fmt.Sprintf("B%04d", i)}
	}
	return pairs
}

func TestSplitFolds_SizesSumToTotal(t *testing.T) {
	sets := PairSets{
		"C0001": pairList(503), // 10 folds of 50, last absorbs 53
		"C0002": pairList(500),
	}
	order := []string{"C0001", "C0002"}

	folds, err := SplitFolds(sets, order, 10)
	if err != nil {
		t.Fatalf("SplitFolds failed: %v", err)
	}
	if len(folds) != 10 {
		t.Fatalf("expected 10 folds, got %d", len(folds))
	}

	for _, sid := range order {
		total := 0
		for fold := 1; fold <= 10; fold++ {
			n := len(folds[fold][sid])
			total += n
			if fold < 10 && n != len(sets[sid])/10 {
				t.Errorf("fold %d of %s: expected %d pairs, got %d", fold, sid, len(sets[sid])/10, n)
			}
		}
		if total != len(sets[sid]) {
			t.Errorf("%s: fold sizes sum to %d, want %d", sid, total, len(sets[sid]))
		}
	}

	// last fold of C0001 absorbs the remainder
	if n := len(folds[10]["C0001"]); n != 53 {
		t.Errorf("last fold of C0001 should hold 53 pairs, got %d", n)
	}
}

func TestSplitFolds_Contiguous(t *testing.T) {
	sets := PairSets{"C0001": pairList(40)}

	folds, err := SplitFolds(sets, []string{"C0001"}, 4)
	if err != nil {
		t.Fatalf("SplitFolds failed: %v", err)
	}

	i := 0
	for fold := 1; fold <= 4; fold++ {
		for _, p := range folds[fold]["C0001"] {
			if p != sets["C0001"][i] {
				t.Fatalf("fold %d breaks input order at element %d", fold, i)
			}
			i++
		}
	}
}

func TestSplitFolds_InvalidFoldCount(t *testing.T) {
	if _, err := SplitFolds(PairSets{}, nil, 0); err == nil {
		t.Fatal("expected error for fold count 0")
	}
}

func TestPrepareDecagon(t *testing.T) {
	graphs := &GraphTable{Graphs: map[string]json.RawMessage{}}
	for _, id := range drugIDs(40) {
		graphs.Graphs[id] = json.RawMessage(`{}`)
		graphs.Order = append(graphs.Order, id)
	}

	observed := make([]DrugPair, 0, 30)
	for i := 0; i < 30; i++ {
		observed = append(observed, DrugPair{D1: graphs.Order[i%40], D2: graphs.Order[(i+7)%40]})
	}
	table := &SideEffectTable{
		Pairs: map[string][]DrugPair{"C0001": observed},
		Order: []string{"C0001"},
		Index: map[string]int{"C0001": 0},
	}

	pos, neg, err := PrepareDecagon(table, graphs, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("PrepareDecagon failed: %v", err)
	}

	if len(pos["C0001"]) != len(observed) {
		t.Errorf("positive set size changed: got %d, want %d", len(pos["C0001"]), len(observed))
	}
	if len(neg["C0001"]) != len(observed) {
		t.Errorf("negative set should match positive size: got %d, want %d", len(neg["C0001"]), len(observed))
	}

	// shuffling must not lose or invent pairs
	want := make(map[DrugPair]int)
	for _, p := range observed {
		want[p]++
	}
	for _, p := range pos["C0001"] {
		want[p]--
	}
	for p, n := range want {
		if n != 0 {
			t.Errorf("pair %v count off by %d after shuffle", p, n)
		}
	}
}

func TestPrepareDecagon_Deterministic(t *testing.T) {
	graphs := &GraphTable{Graphs: map[string]json.RawMessage{}}
	for _, id := range drugIDs(60) {
		graphs.Graphs[id] = json.RawMessage(`{}`)
		graphs.Order = append(graphs.Order, id)
	}

	table := &SideEffectTable{
		Pairs: map[string][]DrugPair{},
		Order: []string{"C0001", "C0002"},
		Index: map[string]int{"C0001": 0, "C0002": 1},
	}
	for i, sid := range table.Order {
		pairs := make([]DrugPair, 0, 25)
		for j := 0; j < 25; j++ {
			pairs = append(pairs, DrugPair{D1: graphs.Order[(i+j)%60], D2: graphs.Order[(i+j+11)%60]})
		}
		table.Pairs[sid] = pairs
	}

	posA, negA, err := PrepareDecagon(table, graphs, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	posB, negB, err := PrepareDecagon(table, graphs, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	// the same seed must reproduce both the drawn negatives and the
	// exact shuffle order of every list
	for _, sid := range table.Order {
		if len(posA[sid]) != len(posB[sid]) || len(negA[sid]) != len(negB[sid]) {
			t.Fatalf("%s: set sizes diverge between runs", sid)
		}
		for i := range posA[sid] {
			if posA[sid][i] != posB[sid][i] {
				t.Fatalf("%s: positive order diverges at %d: %v vs %v", sid, i, posA[sid][i], posB[sid][i])
			}
		}
		for i := range negA[sid] {
			if negA[sid][i] != negB[sid][i] {
				t.Fatalf("%s: negative order diverges at %d: %v vs %v", sid, i, negA[sid][i], negB[sid][i])
			}
		}
	}
}
