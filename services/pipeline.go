package services

import (
	"catalogue-cleaner/config"
	"catalogue-cleaner/models"
	"catalogue-cleaner/source"
	"catalogue-cleaner/utils"
)

// Pipeline chains the five stages: read, normalize, fingerprint, filter,
// aggregate. Any stage failure aborts the run; row-local price dirtiness
// never does.
type Pipeline struct {
	cfg           *config.Config
	logger        *utils.Logger
	normalizer    *PriceNormalizer
	fingerprinter *Fingerprinter
	filter        *AnomalyFilter
	aggregator    *Aggregator
}

// NewPipeline wires the stages from one immutable config.
func NewPipeline(cfg *config.Config, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		cfg:           cfg,
		logger:        logger,
		normalizer:    NewPriceNormalizer(cfg, logger),
		fingerprinter: NewFingerprinter(cfg.Synonyms, cfg.Stopwords),
		filter:        NewAnomalyFilter(cfg, logger),
		aggregator:    NewAggregator(logger),
	}
}

// Run executes the full pipeline over the configured input feed and returns
// the sorted summary records plus run totals.
func (p *Pipeline) Run() ([]*models.AggregateRecord, *models.RunReport, error) {
	reader := source.NewReader(p.cfg.InputPath, p.logger)
	raw, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	rows := p.enrich(raw)

	priced := 0
	for _, row := range rows {
		if row.PriceFinal != nil {
			priced++
		}
	}

	stats := p.filter.ComputeStats(rows, p.cfg.MaxWorkers)
	kept := p.filter.Filter(rows, stats)
	records := p.aggregator.Aggregate(kept)

	report := &models.RunReport{
		RowsRead:      len(raw),
		RowsPriced:    priced,
		RowsFiltered:  len(rows) - len(kept),
		GroupsEmitted: len(records),
	}
	return records, report, nil
}

// enrich runs the per-row transforms. They are order-independent and share
// no mutable state, so the row slice is partitioned across the worker pool
// and each worker owns its range exclusively.
func (p *Pipeline) enrich(raw []*models.RawRow) []*models.EnrichedRow {
	rows := make([]*models.EnrichedRow, len(raw))
	for i, r := range raw {
		rows[i] = &models.EnrichedRow{Raw: r}
	}

	pool := utils.NewWorkerPool(p.cfg.MaxWorkers)
	for _, rng := range utils.Partition(len(rows), p.cfg.MaxWorkers) {
		rng := rng
		pool.Submit(func() {
			for _, row := range rows[rng[0]:rng[1]] {
				p.normalizer.Normalize(row)
				p.fingerprinter.Fingerprint(row)
			}
		})
	}
	pool.Wait()

	p.logger.Info("[pipeline] Enriched %d rows (%d workers)", len(rows), p.cfg.MaxWorkers)
	return rows
}
