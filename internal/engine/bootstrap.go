package engine

import (
	"math/rand"

	"suppsignal/domain/checkin"
)

const (
	// bootstrapBlockDays groups resampled days into weekly blocks so the
	// resamples preserve within-week autocorrelation
	bootstrapBlockDays = 7
	// defaultBootstrapIterations is the resample count when the caller
	// does not override it
	defaultBootstrapIterations = 800
)

// blockBootstrapConfidence estimates how robust the sign of the observed
// treated-minus-control difference is. The window is partitioned into
// consecutive 7-day blocks, blocks are resampled with replacement, and
// the result is the percentage of resamples whose difference carries the
// observed sign. Deterministic given the same rows and rng seed.
func blockBootstrapConfidence(rows []checkin.DayRow, metric checkin.Metric, observedDiff float64, iterations int, rng *rand.Rand) int {
	if observedDiff == 0 || len(rows) == 0 {
		return 0
	}
	if iterations <= 0 {
		iterations = defaultBootstrapIterations
	}

	blocks := partitionBlocks(rows, bootstrapBlockDays)
	if len(blocks) == 0 {
		return 0
	}

	observedPositive := observedDiff > 0
	matches, valid := 0, 0

	for i := 0; i < iterations; i++ {
		var treatedSum, controlSum float64
		var treatedN, controlN int

		for range blocks {
			block := blocks[rng.Intn(len(blocks))]
			for _, row := range block {
				v, ok := row.Value(metric)
				if !ok {
					continue
				}
				if row.Treated {
					treatedSum += v
					treatedN++
				} else {
					controlSum += v
					controlN++
				}
			}
		}

		// A resample that drew no usable days for one group says nothing
		// about the sign
		if treatedN == 0 || controlN == 0 {
			continue
		}
		valid++

		diff := treatedSum/float64(treatedN) - controlSum/float64(controlN)
		if (diff > 0) == observedPositive && diff != 0 {
			matches++
		}
	}

	if valid == 0 {
		return 0
	}
	return int(float64(matches) / float64(valid) * 100)
}

// partitionBlocks splits the ordered day rows into consecutive blocks of
// blockDays days; the final block may be shorter
func partitionBlocks(rows []checkin.DayRow, blockDays int) [][]checkin.DayRow {
	var blocks [][]checkin.DayRow
	for start := 0; start < len(rows); start += blockDays {
		end := start + blockDays
		if end > len(rows) {
			end = len(rows)
		}
		blocks = append(blocks, rows[start:end])
	}
	return blocks
}
