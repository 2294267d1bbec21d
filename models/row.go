package models

// RawRow holds one unprocessed line of the catalogue feed, straight from
// the source file. Columns are positional: id, raw_name, raw_price, shop, date.
type RawRow struct {
	ID       int
	RawName  string
	RawPrice string
	Shop     string
	Date     string
}

// EnrichedRow is a RawRow after per-row cleaning. ParsedPrice and PriceFinal
// are nil when the raw price text could not be parsed — a missing price is a
// normal value in this feed, not an error.
type EnrichedRow struct {
	Raw         *RawRow
	IsUSD       bool
	ParsedPrice *float64
	PriceFinal  *float64
	Fingerprint string
}

// GroupStats holds the pre-filter price statistics for one fingerprint group.
// The mean is computed once over all priced rows and never recomputed as
// rows are dropped; the filter is judged against this fixed reference.
type GroupStats struct {
	Fingerprint string
	MeanPrice   float64
	Count       int
}

// AggregateRecord is one row of the final summary: a representative title,
// the averaged price of the surviving group, and how many feed rows
// collapsed into it.
type AggregateRecord struct {
	DisplayTitle    string
	AvgPrice        float64
	OccurrenceCount int
}

// RunReport holds the totals logged at the end of a pipeline run.
type RunReport struct {
	RowsRead      int
	RowsPriced    int
	RowsFiltered  int
	GroupsEmitted int
}
