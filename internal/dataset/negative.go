package dataset

import (
	"math/rand"

	"molcv/pkg/errors"
)

// maxConsecutiveRejects bounds the rejection loop: once the positive set
// saturates the pair space, sampling would otherwise spin forever.
const maxConsecutiveRejects = 1 << 20

// SampleNegatives rejection-samples size unordered pairs of distinct drugs
// that appear, in neither orientation, in the positive set. The result is
// deterministic for a fixed rng seed. sideEffect is only used to label the
// error when sampling cannot reach the target size.
func SampleNegatives(drugIDs []string, positives map[DrugPair]struct{}, size int, sideEffect string, rng *rand.Rand) ([]DrugPair, error) {
	if len(drugIDs) < 2 {
		return nil, errors.NewSamplingExhausted(sideEffect, size, 0)
	}

	drawn := make(map[DrugPair]struct{}, size)
	out := make([]DrugPair, 0, size)
	rejects := 0

	for len(out) < size {
		i := rng.Intn(len(drugIDs))
		j := rng.Intn(len(drugIDs) - 1)
		if j >= i {
			j++
		}
		pair := DrugPair{D1: drugIDs[i], D2: drugIDs[j]}

		if _, ok := drawn[pair]; ok {
			rejects++
		} else if _, ok := drawn[pair.Reversed()]; ok {
			rejects++
		} else if _, ok := positives[pair]; ok {
			rejects++
		} else if _, ok := positives[pair.Reversed()]; ok {
			rejects++
		} else {
			drawn[pair] = struct{}{}
			out = append(out, pair)
			rejects = 0
			continue
		}

		if rejects >= maxConsecutiveRejects {
			return nil, errors.NewSamplingExhausted(sideEffect, size, len(out))
		}
	}
	return out, nil
}
