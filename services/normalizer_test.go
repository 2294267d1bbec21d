package services

import (
	"testing"

	"catalogue-cleaner/config"
	"catalogue-cleaner/models"
	"catalogue-cleaner/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		USDToEURRate:        1.10,
		MinPriceEUR:         5.0,
		MaxPriceMultiplier:  10.0,
		PriceScaleThreshold: 10000.0,
		Synonyms:            config.DefaultSynonyms(),
		Stopwords:           config.DefaultStopwords(),
		MaxWorkers:          2,
	}
}

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func normalizeRaw(t *testing.T, n *PriceNormalizer, rawPrice string) *models.EnrichedRow {
	t.Helper()
	row := &models.EnrichedRow{Raw: &models.RawRow{ID: 1, RawPrice: rawPrice}}
	n.Normalize(row)
	return row
}

func TestNormalizePriceFinal(t *testing.T) {
	n := NewPriceNormalizer(testConfig(), newTestLogger())

	tests := []struct {
		raw  string
		want float64
	}{
		{"$110.00", 100.00},  // 110 / 1.10
		{"197200", 1972.00},  // scale error, /100
		{"€ 50,00", 50.00},   // currency symbol + comma separator
		{"123.45 eur", 123.45},
		{"0", 0},
		{"$123.45", 112.23}, // 123.45 / 1.10 rounded
	}

	for _, tt := range tests {
		row := normalizeRaw(t, n, tt.raw)
		if row.PriceFinal == nil {
			t.Errorf("Normalize(%q): PriceFinal = nil; want %.2f", tt.raw, tt.want)
			continue
		}
		if *row.PriceFinal != tt.want {
			t.Errorf("Normalize(%q): PriceFinal = %.4f; want %.2f", tt.raw, *row.PriceFinal, tt.want)
		}
	}
}

func TestNormalizeUnparseablePriceIsAbsent(t *testing.T) {
	n := NewPriceNormalizer(testConfig(), newTestLogger())

	for _, raw := range []string{"invalid", "", "...", "1,200.50", "free"} {
		row := normalizeRaw(t, n, raw)
		if row.ParsedPrice != nil {
			t.Errorf("Normalize(%q): ParsedPrice = %v; want nil", raw, *row.ParsedPrice)
		}
		if row.PriceFinal != nil {
			t.Errorf("Normalize(%q): PriceFinal = %v; want nil", raw, *row.PriceFinal)
		}
	}
}

func TestNormalizeCurrencyDetection(t *testing.T) {
	n := NewPriceNormalizer(testConfig(), newTestLogger())

	tests := []struct {
		raw  string
		want bool
	}{
		{"$110.00", true},
		{"110.00$", true},
		{"invalid $", true},
		{"110.00 eur", false},
		{"", false},
	}

	for _, tt := range tests {
		row := normalizeRaw(t, n, tt.raw)
		if row.IsUSD != tt.want {
			t.Errorf("Normalize(%q): IsUSD = %v; want %v", tt.raw, row.IsUSD, tt.want)
		}
	}
}

func TestNormalizeScaleCorrectionBeforeConversion(t *testing.T) {
	n := NewPriceNormalizer(testConfig(), newTestLogger())

	// 110000 is above the threshold: /100 first, then /1.10.
	row := normalizeRaw(t, n, "$110000")
	if row.PriceFinal == nil {
		t.Fatal("PriceFinal = nil; want value")
	}
	if *row.PriceFinal != 1000.00 {
		t.Errorf("PriceFinal = %.2f; want 1000.00", *row.PriceFinal)
	}
}

func TestNormalizeThresholdIsExclusive(t *testing.T) {
	n := NewPriceNormalizer(testConfig(), newTestLogger())

	// Exactly at the threshold: no correction.
	row := normalizeRaw(t, n, "10000")
	if row.PriceFinal == nil || *row.PriceFinal != 10000.00 {
		t.Errorf("PriceFinal = %v; want 10000.00", row.PriceFinal)
	}
}
