package dataset

import "encoding/json"

// DrugPair is an unordered pair of distinct drug identifiers. The two ids
// are never equal; loaders reject rows that pair a drug with itself.
type DrugPair struct {
	D1 string `json:"d1"`
	D2 string `json:"d2"`
}

// Reversed returns the pair with its members swapped
func (p DrugPair) Reversed() DrugPair {
	return DrugPair{D1: p.D2, D2: p.D1}
}

// GraphTable maps drug ids to their graph structures. The graph JSON is
// opaque: it is carried through to consumers without being interpreted.
type GraphTable struct {
	Graphs map[string]json.RawMessage
	// Order holds drug ids in first-seen file order, so downstream
	// sampling and index splits stay deterministic across runs.
	Order []string
}

// Len returns the number of drugs in the table
func (t *GraphTable) Len() int {
	return len(t.Order)
}

// SideEffectTable groups interacting drug pairs by side-effect id,
// filtered to side effects seen often enough to be usable.
type SideEffectTable struct {
	Pairs map[string][]DrugPair
	// Order holds side-effect ids in the order they were retained
	Order []string
	// Index assigns each retained side effect a dense index
	Index map[string]int
}

// Len returns the number of retained side effects
func (t *SideEffectTable) Len() int {
	return len(t.Order)
}

// Meta describes the vocabulary sizes of a dataset's graphs
type Meta struct {
	NAtomType int `json:"n_atom_type"`
	NBondType int `json:"n_bond_type"`
}

var (
	// DecagonMeta covers the polypharmacy dataset
	DecagonMeta = Meta{NAtomType: 100, NBondType: 20}
	// QM9Meta covers QM9: C/H/O/N/F atoms; single, double, triple,
	// aromatic and self-loop bonds
	QM9Meta = Meta{NAtomType: 5, NBondType: 5}
)
