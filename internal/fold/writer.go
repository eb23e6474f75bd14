// Package fold serializes prepared cross-validation splits to disk:
// one gob file per fold plus a JSON manifest describing the run.
package fold

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"molcv/internal/dataset"
	"molcv/pkg/logger"
)

// Data is the on-disk payload of a single fold: the positive and negative
// drug-pair subsets assigned to it, keyed by side-effect id.
type Data struct {
	Pos dataset.PairSets
	Neg dataset.PairSets
}

// Count records the pair totals of one written fold
type Count struct {
	Fold int `json:"fold"`
	Pos  int `json:"pos_pairs"`
	Neg  int `json:"neg_pairs"`
}

// Manifest describes a completed split run
type Manifest struct {
	RunID       string         `json:"run_id"`
	Dataset     string         `json:"dataset"`
	CreatedAt   time.Time      `json:"created_at"`
	Seed        int64          `json:"seed"`
	Threshold   int            `json:"threshold,omitempty"`
	NFold       int            `json:"n_fold,omitempty"`
	NSideEffect int            `json:"n_side_effect,omitempty"`
	Meta        dataset.Meta   `json:"meta"`
	Folds       []Count        `json:"folds,omitempty"`
	Splits      map[string]int `json:"splits,omitempty"`
}

// FoldFileName returns the file name of one fold, e.g. fold03.gob
func FoldFileName(fold int) string {
	return fmt.Sprintf("fold%02d.gob", fold)
}

// WriteDecagonFolds writes one gob file per fold under dir and returns the
// per-fold pair counts for the manifest.
func WriteDecagonFolds(dir string, pos, neg map[int]dataset.PairSets, nFold int) ([]Count, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create fold directory: %w", err)
	}

	log := logger.Get()
	counts := make([]Count, 0, nFold)

	for fold := 1; fold <= nFold; fold++ {
		data := Data{Pos: pos[fold], Neg: neg[fold]}
		path := filepath.Join(dir, FoldFileName(fold))
		if err := writeGob(path, &data); err != nil {
			return nil, err
		}

		c := Count{Fold: fold, Pos: countPairs(data.Pos), Neg: countPairs(data.Neg)}
		counts = append(counts, c)

		log.Info("Wrote fold",
			zap.String("path", path),
			zap.Int("pos_pairs", c.Pos),
			zap.Int("neg_pairs", c.Neg),
		)
	}
	return counts, nil
}

// ReadFold loads a fold file written by WriteDecagonFolds
func ReadFold(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fold file: %w", err)
	}
	defer f.Close()

	var data Data
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode fold file: %w", err)
	}
	return &data, nil
}

// WriteQM9Split writes the three index files of the QM9 partition under dir
// and returns the per-set sizes for the manifest.
func WriteQM9Split(dir string, split *dataset.QM9Split) (map[string]int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create split directory: %w", err)
	}

	sets := map[string][]string{
		"test":  split.Test,
		"valid": split.Valid,
		"train": split.Train,
	}
	sizes := make(map[string]int, len(sets))
	for name, ids := range sets {
		path := filepath.Join(dir, name+".idx.gob")
		if err := writeGob(path, ids); err != nil {
			return nil, err
		}
		sizes[name] = len(ids)
	}
	return sizes, nil
}

// ReadIndexSplit loads one QM9 index file
func ReadIndexSplit(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()

	var ids []string
	if err := gob.NewDecoder(f).Decode(&ids); err != nil {
		return nil, fmt.Errorf("failed to decode index file: %w", err)
	}
	return ids, nil
}

// NewManifest creates a manifest with a fresh run id
func NewManifest(datasetName string, seed int64, meta dataset.Meta) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Dataset:   datasetName,
		CreatedAt: time.Now().UTC(),
		Seed:      seed,
		Meta:      meta,
	}
}

// Write stores the manifest as indented JSON next to the fold files
func (m *Manifest) Write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	logger.Get().Info("Wrote manifest", zap.String("path", path), zap.String("run_id", m.RunID))
	return nil
}

// ReadManifest loads a manifest written by Write
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

func writeGob(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

func countPairs(sets dataset.PairSets) int {
	total := 0
	for _, pairs := range sets {
		total += len(pairs)
	}
	return total
}
