package services

import (
	"sort"
	"unicode/utf8"

	"catalogue-cleaner/models"
	"catalogue-cleaner/utils"
)

// Aggregator groups surviving rows by fingerprint and emits one summary
// record per group, sorted by occurrence count descending.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

type group struct {
	displayTitle string
	titleLen     int
	priceSum     float64
	count        int
}

// Aggregate builds the final summary. Callers pass the anomaly filter's
// output, so every row is expected to carry a final price; rows without one
// are skipped rather than counted. The display title is the longest raw
// name in the group (first encountered wins ties — longer names are assumed
// to retain more of the original text). The average is recomputed from the
// filtered set, so it may differ from the pre-filter group mean. Ties in
// occurrence count keep first-appearance order.
func (a *Aggregator) Aggregate(rows []*models.EnrichedRow) []*models.AggregateRecord {
	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, row := range rows {
		if row.PriceFinal == nil {
			continue
		}
		g := groups[row.Fingerprint]
		if g == nil {
			g = &group{}
			groups[row.Fingerprint] = g
			order = append(order, row.Fingerprint)
		}
		// Character length, not bytes: accented names must compete fairly.
		if n := utf8.RuneCountInString(row.Raw.RawName); n > g.titleLen {
			g.displayTitle = row.Raw.RawName
			g.titleLen = n
		}
		g.priceSum += *row.PriceFinal
		g.count++
	}

	records := make([]*models.AggregateRecord, 0, len(groups))
	for _, fp := range order {
		g := groups[fp]
		records = append(records, &models.AggregateRecord{
			DisplayTitle:    g.displayTitle,
			AvgPrice:        round2(g.priceSum / float64(g.count)),
			OccurrenceCount: g.count,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].OccurrenceCount > records[j].OccurrenceCount
	})

	a.logger.Info("[aggregator] Emitting %d product groups", len(records))
	return records
}
