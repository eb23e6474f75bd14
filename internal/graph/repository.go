// Package graph mirrors a prepared drug-interaction network into Neo4j so
// the split can be explored with Cypher: drug nodes, INTERACTS edges keyed
// by side effect, and the fold each pair was assigned to.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"molcv/internal/dataset"
	"molcv/pkg/errors"
	"molcv/pkg/logger"
)

// edges per UNWIND batch; keeps transactions bounded on large side effects
const batchSize = 1000

// Edge labels distinguishing observed pairs from sampled negatives
const (
	LabelPositive = "pos"
	LabelNegative = "neg"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// EnsureSchema creates the uniqueness constraint and indexes the export
// relies on. Safe to call repeatedly.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	statements := []string{
		`CREATE CONSTRAINT drug_id_unique IF NOT EXISTS
		 FOR (d:Drug) REQUIRE d.id IS UNIQUE`,
		`CREATE INDEX interacts_side_effect IF NOT EXISTS
		 FOR ()-[i:INTERACTS]-() ON (i.side_effect)`,
	}
	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return errors.NewGraphQueryFailed(stmt, err)
		}
	}
	return nil
}

// UpsertDrugs merges one Drug node per id
func (r *Repository) UpsertDrugs(ctx context.Context, ids []string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		UNWIND $ids AS id
		MERGE (:Drug {id: id})
	`
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		_, err := session.Run(ctx, query, map[string]interface{}{
			"ids": ids[start:end],
		})
		if err != nil {
			return errors.NewGraphQueryFailed(query, err)
		}
	}

	r.logger.Info("Upserted drug nodes", zap.Int("drugs", len(ids)))
	return nil
}

// UpsertInteractions merges INTERACTS edges for one side effect and fold.
// label is LabelPositive for observed pairs and LabelNegative for sampled
// ones.
func (r *Repository) UpsertInteractions(ctx context.Context, sideEffect string, foldIdx int, label string, pairs []dataset.DrugPair) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		UNWIND $pairs AS pair
		MATCH (a:Drug {id: pair.d1})
		MATCH (b:Drug {id: pair.d2})
		MERGE (a)-[i:INTERACTS {side_effect: $side_effect, label: $label}]->(b)
		SET i.fold = $fold
	`
	for start := 0; start < len(pairs); start += batchSize {
		end := start + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		batch := make([]map[string]interface{}, 0, end-start)
		for _, p := range pairs[start:end] {
			batch = append(batch, map[string]interface{}{"d1": p.D1, "d2": p.D2})
		}
		_, err := session.Run(ctx, query, map[string]interface{}{
			"pairs":       batch,
			"side_effect": sideEffect,
			"label":       label,
			"fold":        foldIdx,
		})
		if err != nil {
			return errors.NewGraphQueryFailed(query, err)
		}
	}
	return nil
}

// ExportFolds mirrors every fold's positive and negative pairs into the
// graph. Drug nodes must already exist (see UpsertDrugs).
func (r *Repository) ExportFolds(ctx context.Context, pos, neg map[int]dataset.PairSets, order []string) error {
	for foldIdx := 1; foldIdx <= len(pos); foldIdx++ {
		for _, sid := range order {
			if err := r.UpsertInteractions(ctx, sid, foldIdx, LabelPositive, pos[foldIdx][sid]); err != nil {
				return err
			}
			if err := r.UpsertInteractions(ctx, sid, foldIdx, LabelNegative, neg[foldIdx][sid]); err != nil {
				return err
			}
		}
		r.logger.Info("Exported fold to graph", zap.Int("fold", foldIdx))
	}
	return nil
}

// Stats returns the node and relationship counts of the exported network
func (r *Repository) Stats(ctx context.Context) (drugs int64, interactions int64, err error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	// aggregate drugs first so relationship rows are not multiplied per
	// drug node; the aggregation also yields a 0/0 row on an empty store
	query := `
		OPTIONAL MATCH (d:Drug)
		WITH count(d) AS drugs
		OPTIONAL MATCH ()-[i:INTERACTS]->()
		RETURN drugs, count(i) AS interactions
	`
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return 0, 0, errors.NewGraphQueryFailed(query, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch stats record: %w", err)
	}

	if v, ok := record.Get("drugs"); ok {
		drugs, _ = v.(int64)
	}
	if v, ok := record.Get("interactions"); ok {
		interactions, _ = v.(int64)
	}
	return drugs, interactions, nil
}
