package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"go.uber.org/zap"

	"molcv/pkg/errors"
	"molcv/pkg/logger"
)

// QM9 split sizes: 10k test, 10k validation, remainder train
const (
	QM9TestSize  = 10000
	QM9ValidSize = 10000
)

// LabelTable maps drug ids to their regression target vectors
type LabelTable struct {
	Labels map[string][]float64
	Order  []string
}

// QM9Split holds the three disjoint id sets of the QM9 partition
type QM9Split struct {
	Test  []string
	Valid []string
	Train []string
}

// LoadLabels reads a tab-separated file of drug-id / label-array lines.
// Each label payload is a JSON array of property values.
func LoadLabels(path string) (*LabelTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer f.Close()

	log := logger.Get()

	table := &LabelTable{Labels: make(map[string][]float64)}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		id, rawLabels, found := strings.Cut(line, "\t")
		if !found {
			return nil, errors.NewMalformedLine(path, lineNo, fmt.Errorf("no tab separator"))
		}

		var labels []float64
		if err := json.Unmarshal([]byte(rawLabels), &labels); err != nil {
			return nil, errors.NewMalformedLine(path, lineNo, err)
		}

		if _, exists := table.Labels[id]; !exists {
			table.Order = append(table.Order, id)
		}
		table.Labels[id] = labels
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}

	log.Info("Loaded QM9 labels",
		zap.String("path", path),
		zap.Int("molecules", len(table.Order)),
	)
	return table, nil
}

// SplitQM9 partitions the graph ids into test, validation and train sets
// via a seeded permutation: the first QM9TestSize ids are test, the next
// QM9ValidSize validation, the rest train.
func SplitQM9(graphs *GraphTable, rng *rand.Rand) (*QM9Split, error) {
	need := QM9TestSize + QM9ValidSize + 1
	if graphs.Len() < need {
		return nil, errors.NewDatasetTooSmall(need, graphs.Len())
	}

	perm := make([]string, graphs.Len())
	copy(perm, graphs.Order)
	rng.Shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	split := &QM9Split{
		Test:  perm[:QM9TestSize],
		Valid: perm[QM9TestSize : QM9TestSize+QM9ValidSize],
		Train: perm[QM9TestSize+QM9ValidSize:],
	}

	logger.Get().Info("Split QM9 dataset",
		zap.Int("test", len(split.Test)),
		zap.Int("valid", len(split.Valid)),
		zap.Int("train", len(split.Train)),
	)
	return split, nil
}
