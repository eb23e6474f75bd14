package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"molcv/internal/dataset"
	"molcv/internal/fold"
	"molcv/internal/graph"
	"molcv/pkg/config"
	apperrors "molcv/pkg/errors"
	"molcv/pkg/logger"
)

func main() {
	dataDir := flag.String("p", "", "path to read inputs and store splits (default ./data/)")
	graphData := flag.String("graph_data", "", "graph features input file, e.g. drug.feat.wo_h.self_loop.idx.jsonl")
	ddiData := flag.String("ddi_data", "", "drug-drug-interaction CSV (decagon)")
	qm9Labels := flag.String("qm9_labels", "", "label file (qm9)")
	nFold := flag.Int("n_fold", 0, "number of folds for decagon; qm9 uses 10k-10k-113k")
	threshold := flag.Int("threshold", 0, "minimum pair count for a side effect to be kept")
	seed := flag.Int64("seed", 0, "sampling and shuffle seed")
	export := flag.Bool("export", false, "mirror the prepared decagon network into Neo4j")
	debug := flag.Bool("debug", false, "keep only the 20 largest side effects and log per-item detail")
	flag.Parse()

	// Initialize logger
	if err := logger.Init(*debug); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	datasets, err := selectedDatasets(flag.Args())
	if err != nil {
		log.Fatal("Invalid dataset selection", zap.Error(err))
	}

	// Load configuration; flags override env values
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	applyFlags(cfg, *dataDir, *graphData, *ddiData, *qm9Labels, *nFold, *threshold, *seed)

	log.Info("Preparing cross-validation splits",
		zap.Strings("datasets", datasets),
		zap.String("data_dir", cfg.DataDir),
		zap.Int64("seed", cfg.Seed),
	)

	for _, name := range datasets {
		switch name {
		case "qm9":
			err = runQM9(cfg)
		case "decagon":
			err = runDecagon(cfg, *export, *debug)
		}
		if err != nil {
			log.Fatal("Split preparation failed", zap.String("dataset", name), zap.Error(err))
		}
	}

	log.Info("Done")
}

// selectedDatasets validates the positional dataset arguments. Each dataset
// runs at most once, qm9 before decagon, regardless of argument order.
func selectedDatasets(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one dataset required: qm9, decagon")
	}
	requested := make(map[string]bool)
	for _, arg := range args {
		name := strings.ToLower(arg)
		if name != "qm9" && name != "decagon" {
			return nil, fmt.Errorf("unknown dataset %q (choices: qm9, decagon)", arg)
		}
		requested[name] = true
	}
	var out []string
	for _, name := range []string{"qm9", "decagon"} {
		if requested[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

func applyFlags(cfg *config.Config, dataDir, graphData, ddiData, qm9Labels string, nFold, threshold int, seed int64) {
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if graphData != "" {
		cfg.GraphData = graphData
	}
	if ddiData != "" {
		cfg.DDIData = ddiData
	}
	if qm9Labels != "" {
		cfg.QM9Labels = qm9Labels
	}
	if nFold > 0 {
		cfg.NFold = nFold
	}
	if threshold > 0 {
		cfg.Threshold = threshold
	}
	if seed != 0 {
		cfg.Seed = seed
	}
}

// inputPath resolves a configured file name against the data directory
func inputPath(cfg *config.Config, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.DataDir, name)
}

func runDecagon(cfg *config.Config, export, debug bool) error {
	log := logger.Get()

	graphs, err := dataset.LoadGraphs(inputPath(cfg, cfg.GraphData))
	if err != nil {
		return err
	}

	sideEffects, err := dataset.ReadDDIInstances(inputPath(cfg, cfg.DDIData), cfg.Threshold, debug)
	if err != nil {
		return err
	}
	log.Info("Total types of polypharmacy side effects", zap.Int("count", sideEffects.Len()))

	rng := rand.New(rand.NewSource(cfg.Seed))
	pos, neg, err := dataset.PrepareDecagon(sideEffects, graphs, rng)
	if err != nil {
		return err
	}

	posFolds, err := dataset.SplitFolds(pos, sideEffects.Order, cfg.NFold)
	if err != nil {
		return err
	}
	negFolds, err := dataset.SplitFolds(neg, sideEffects.Order, cfg.NFold)
	if err != nil {
		return err
	}

	foldDir := filepath.Join(cfg.DataDir, "decagon", "folds")
	counts, err := fold.WriteDecagonFolds(foldDir, posFolds, negFolds, cfg.NFold)
	if err != nil {
		return err
	}

	manifest := fold.NewManifest("decagon", cfg.Seed, dataset.DecagonMeta)
	manifest.Threshold = cfg.Threshold
	manifest.NFold = cfg.NFold
	manifest.NSideEffect = sideEffects.Len()
	manifest.Folds = counts
	if err := manifest.Write(foldDir); err != nil {
		return err
	}

	if export {
		if err := exportToNeo4j(cfg, graphs, posFolds, negFolds, sideEffects.Order); err != nil {
			return err
		}
	}
	return nil
}

func runQM9(cfg *config.Config) error {
	graphs, err := dataset.LoadGraphs(inputPath(cfg, cfg.GraphData))
	if err != nil {
		return err
	}

	labels, err := dataset.LoadLabels(inputPath(cfg, cfg.QM9Labels))
	if err != nil {
		return err
	}

	missing := 0
	for _, id := range graphs.Order {
		if _, ok := labels.Labels[id]; !ok {
			missing++
		}
	}
	if missing > 0 {
		logger.Get().Warn("Graphs without labels", zap.Int("count", missing))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	split, err := dataset.SplitQM9(graphs, rng)
	if err != nil {
		return err
	}

	splitDir := filepath.Join(cfg.DataDir, "qm9")
	sizes, err := fold.WriteQM9Split(splitDir, split)
	if err != nil {
		return err
	}

	manifest := fold.NewManifest("qm9", cfg.Seed, dataset.QM9Meta)
	manifest.Splits = sizes
	return manifest.Write(splitDir)
}

func exportToNeo4j(cfg *config.Config, graphs *dataset.GraphTable, pos, neg map[int]dataset.PairSets, order []string) error {
	log := logger.Get()

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return err
	}
	defer driver.Close(context.Background())

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	repo := graph.NewRepository(driver)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.UpsertDrugs(ctx, graphs.Order); err != nil {
		return err
	}
	if err := repo.ExportFolds(ctx, pos, neg, order); err != nil {
		return err
	}

	drugs, interactions, err := repo.Stats(ctx)
	if err != nil {
		return err
	}
	log.Info("Exported interaction network",
		zap.Int64("drugs", drugs),
		zap.Int64("interactions", interactions),
	)
	return nil
}
