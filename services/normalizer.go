package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"catalogue-cleaner/config"
	"catalogue-cleaner/models"
	"catalogue-cleaner/utils"
)

// numericResidue strips every character that is not a digit, comma or period.
var numericResidue = regexp.MustCompile(`[^0-9,.]`)

// PriceNormalizer converts a dirty raw price string into a currency-corrected
// numeric value. It is a pure per-row function of its inputs and the shared
// configuration; a price that cannot be parsed becomes nil, never an error.
type PriceNormalizer struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewPriceNormalizer creates a PriceNormalizer with the given config and logger.
func NewPriceNormalizer(cfg *config.Config, logger *utils.Logger) *PriceNormalizer {
	return &PriceNormalizer{cfg: cfg, logger: logger}
}

// Normalize fills the price fields of row from its raw price text.
//
// Four ordered decisions:
//  1. currency: USD iff the text contains a dollar sign
//  2. extraction: strip to [0-9,.], comma becomes decimal point, parse
//  3. scale fix: values over the threshold lost their decimal point, /100
//  4. conversion: USD values divided by the exchange rate, then 2-dp round
func (n *PriceNormalizer) Normalize(row *models.EnrichedRow) {
	raw := row.Raw.RawPrice
	row.IsUSD = strings.Contains(raw, "$")

	parsed, ok := n.extract(raw)
	if !ok {
		n.logger.Debug("[normalizer] Unparseable price %q (row %d)", raw, row.Raw.ID)
		return
	}
	row.ParsedPrice = &parsed

	corrected := parsed
	if corrected > n.cfg.PriceScaleThreshold {
		corrected = corrected / 100
	}

	final := corrected
	if row.IsUSD {
		final = final / n.cfg.USDToEURRate
	}
	final = round2(final)
	row.PriceFinal = &final
}

// extract reduces raw to its numeric residue and parses it. Every comma is
// treated as a decimal separator, so thousands-grouped values fail to parse
// and surface as a missing price rather than a wrong one.
func (n *PriceNormalizer) extract(raw string) (float64, bool) {
	cleaned := numericResidue.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
