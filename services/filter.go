package services

import (
	"catalogue-cleaner/config"
	"catalogue-cleaner/models"
	"catalogue-cleaner/utils"
)

// AnomalyFilter drops rows that violate the quality gates. It is two-phase:
// every priced row must be observed before any row can be judged, because the
// accept/reject test is relative to a group-level statistic.
type AnomalyFilter struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewAnomalyFilter creates an AnomalyFilter with the given config and logger.
func NewAnomalyFilter(cfg *config.Config, logger *utils.Logger) *AnomalyFilter {
	return &AnomalyFilter{cfg: cfg, logger: logger}
}

type priceAccumulator struct {
	sum   float64
	count int
}

// ComputeStats runs phase A: the per-fingerprint mean of final prices over
// all priced rows, before any filtering. Partitions accumulate in parallel
// with no shared state; the partials are merged by this goroutine alone once
// the pool drains. Memory is bounded by the number of distinct fingerprints.
func (f *AnomalyFilter) ComputeStats(rows []*models.EnrichedRow, workers int) map[string]*models.GroupStats {
	ranges := utils.Partition(len(rows), workers)
	partials := make([]map[string]*priceAccumulator, len(ranges))

	pool := utils.NewWorkerPool(workers)
	for i, rng := range ranges {
		i, rng := i, rng
		pool.Submit(func() {
			acc := make(map[string]*priceAccumulator)
			for _, row := range rows[rng[0]:rng[1]] {
				if row.PriceFinal == nil {
					continue
				}
				a := acc[row.Fingerprint]
				if a == nil {
					a = &priceAccumulator{}
					acc[row.Fingerprint] = a
				}
				a.sum += *row.PriceFinal
				a.count++
			}
			partials[i] = acc
		})
	}
	pool.Wait()

	merged := make(map[string]*priceAccumulator)
	for _, acc := range partials {
		for fp, a := range acc {
			m := merged[fp]
			if m == nil {
				merged[fp] = a
				continue
			}
			m.sum += a.sum
			m.count += a.count
		}
	}

	stats := make(map[string]*models.GroupStats, len(merged))
	for fp, a := range merged {
		stats[fp] = &models.GroupStats{
			Fingerprint: fp,
			MeanPrice:   a.sum / float64(a.count),
			Count:       a.count,
		}
	}

	f.logger.Info("[filter] Group stats over %d fingerprints", len(stats))
	return stats
}

// Filter runs phase B: a row survives iff its final price is present, at
// least the minimum, no more than the group mean times the multiplier, and
// its fingerprint is longer than one character. The stats are the fixed
// pre-filter reference and are never recomputed as rows drop.
func (f *AnomalyFilter) Filter(rows []*models.EnrichedRow, stats map[string]*models.GroupStats) []*models.EnrichedRow {
	kept := make([]*models.EnrichedRow, 0, len(rows))
	for _, row := range rows {
		if !f.survives(row, stats) {
			continue
		}
		kept = append(kept, row)
	}

	f.logger.Info("[filter] Kept %d of %d rows (dropped %d)",
		len(kept), len(rows), len(rows)-len(kept))
	return kept
}

func (f *AnomalyFilter) survives(row *models.EnrichedRow, stats map[string]*models.GroupStats) bool {
	if row.PriceFinal == nil {
		return false
	}
	price := *row.PriceFinal
	if price < f.cfg.MinPriceEUR {
		return false
	}
	gs := stats[row.Fingerprint]
	if gs == nil || price > gs.MeanPrice*f.cfg.MaxPriceMultiplier {
		return false
	}
	return len(row.Fingerprint) > 1
}
