package dataset

import (
	"math/rand"

	"go.uber.org/zap"

	"molcv/pkg/errors"
	"molcv/pkg/logger"
)

// PairSets holds per-side-effect pair lists, positive or negative
type PairSets map[string][]DrugPair

// PrepareDecagon builds, for every retained side effect, a shuffled copy of
// its positive pairs and an equal-size shuffled set of sampled negatives.
// Drugs are drawn from the graph table's id order, so results are
// reproducible for a fixed rng seed.
func PrepareDecagon(sideEffects *SideEffectTable, graphs *GraphTable, rng *rand.Rand) (pos PairSets, neg PairSets, err error) {
	log := logger.Get()

	pos = make(PairSets, sideEffects.Len())
	neg = make(PairSets, sideEffects.Len())

	for _, sid := range sideEffects.Order {
		observed := sideEffects.Pairs[sid]

		positives := make(map[DrugPair]struct{}, len(observed))
		for _, p := range observed {
			positives[p] = struct{}{}
		}

		negatives, err := SampleNegatives(graphs.Order, positives, len(observed), sid, rng)
		if err != nil {
			return nil, nil, err
		}

		shuffled := make([]DrugPair, len(observed))
		copy(shuffled, observed)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		rng.Shuffle(len(negatives), func(i, j int) {
			negatives[i], negatives[j] = negatives[j], negatives[i]
		})

		pos[sid] = shuffled
		neg[sid] = negatives

		log.Debug("Prepared side effect",
			zap.String("side_effect", sid),
			zap.Int("pairs", len(shuffled)),
		)
	}
	return pos, neg, nil
}

// SplitFolds slices every side effect's pair list into nFold contiguous
// parts of len/nFold pairs each; the last fold absorbs the remainder.
// Fold indices run 1..nFold and every fold maps all side effects, possibly
// to empty slices when a list is shorter than the fold count.
func SplitFolds(sets PairSets, order []string, nFold int) (map[int]PairSets, error) {
	if nFold < 1 {
		return nil, errors.NewInvalidFoldCount(nFold)
	}

	folds := make(map[int]PairSets, nFold)
	for fold := 1; fold <= nFold; fold++ {
		folds[fold] = make(PairSets, len(order))
	}

	for _, sid := range order {
		pairs := sets[sid]
		foldLen := len(pairs) / nFold
		for fold := 1; fold <= nFold; fold++ {
			start := (fold - 1) * foldLen
			end := fold * foldLen
			if fold == nFold {
				end = len(pairs)
			}
			folds[fold][sid] = pairs[start:end]
		}
	}
	return folds, nil
}
