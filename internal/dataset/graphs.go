package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"molcv/pkg/errors"
	"molcv/pkg/logger"
)

// LoadGraphs reads a tab-separated file of drug-id / graph-JSON lines into
// a GraphTable. The graph structure is validated as JSON but otherwise kept
// opaque.
func LoadGraphs(path string) (*GraphTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer f.Close()

	log := logger.Get()

	table := &GraphTable{Graphs: make(map[string]json.RawMessage)}

	scanner := bufio.NewScanner(f)
	// Graph lines for large molecules run well past the default token size
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		id, rawGraph, found := strings.Cut(line, "\t")
		if !found {
			return nil, errors.NewMalformedLine(path, lineNo, fmt.Errorf("no tab separator"))
		}

		if !json.Valid([]byte(rawGraph)) {
			return nil, errors.NewMalformedLine(path, lineNo, fmt.Errorf("invalid graph JSON"))
		}

		if _, exists := table.Graphs[id]; !exists {
			table.Order = append(table.Order, id)
		}
		table.Graphs[id] = json.RawMessage(strings.TrimSpace(rawGraph))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	log.Info("Loaded drug graph structures",
		zap.String("path", path),
		zap.Int("drugs", table.Len()),
	)
	return table, nil
}
