package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"molcv/pkg/errors"
	"molcv/pkg/logger"
)

// debugTopN is how many of the largest side effects the debug cut keeps
const debugTopN = 20

// ReadDDIInstances reads the drug-drug-interaction CSV and groups observed
// drug pairs by side-effect id. Only side effects with at least threshold
// pairs are retained. With debug set, the result is further cut to the
// debugTopN largest side effects, ordered by descending pair count.
//
// The CSV must carry a header row and at least the columns
// (drug_id_1, drug_id_2, side_effect_id); extra columns are ignored.
func ReadDDIInstances(path string, threshold int, debug bool) (*SideEffectTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open DDI file: %w", err)
	}
	defer f.Close()

	log := logger.Get()

	// The raw CSV runs to hundreds of MB; stream rows instead of
	// materializing the whole file
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // column count varies across releases
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, errors.NewMalformedLine(path, 0, fmt.Errorf("empty file, header expected"))
		}
		return nil, fmt.Errorf("failed to parse DDI CSV: %w", err)
	}

	pairs := make(map[string][]DrugPair)
	var seen []string

	lineNo := 1 // header consumed above
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse DDI CSV: %w", err)
		}
		lineNo++
		if len(row) < 3 {
			return nil, errors.NewMissingColumns(path, lineNo, len(row))
		}
		did1, did2, sid := row[0], row[1], row[2]
		if did1 == did2 {
			return nil, errors.NewDuplicateDrug(path, lineNo, did1)
		}
		if _, ok := pairs[sid]; !ok {
			seen = append(seen, sid)
		}
		pairs[sid] = append(pairs[sid], DrugPair{D1: did1, D2: did2})
	}

	// Keep only side effects frequent enough to split into folds
	table := &SideEffectTable{
		Pairs: make(map[string][]DrugPair),
		Index: make(map[string]int),
	}
	for _, sid := range seen {
		if len(pairs[sid]) >= threshold {
			table.Order = append(table.Order, sid)
			table.Pairs[sid] = pairs[sid]
		}
	}

	if debug {
		sort.SliceStable(table.Order, func(a, b int) bool {
			return len(table.Pairs[table.Order[a]]) > len(table.Pairs[table.Order[b]])
		})
		if len(table.Order) > debugTopN {
			for _, sid := range table.Order[debugTopN:] {
				delete(table.Pairs, sid)
			}
			table.Order = table.Order[:debugTopN]
		}
		log.Debug("Debug cut applied", zap.Int("side_effects", table.Len()))
	}

	for idx, sid := range table.Order {
		table.Index[sid] = idx
	}

	log.Info("Built side-effect dictionary",
		zap.String("path", path),
		zap.Int("threshold", threshold),
		zap.Int("total_side_effects", len(seen)),
		zap.Int("retained_side_effects", table.Len()),
	)
	return table, nil
}
