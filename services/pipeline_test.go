package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalogue-cleaner/config"
	"catalogue-cleaner/source"
)

func writeFeed(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func pipelineConfig(input string) *config.Config {
	cfg := testConfig()
	cfg.InputPath = input
	return cfg
}

func TestPipelineEndToEnd(t *testing.T) {
	input := writeFeed(t,
		`1,Sony PS5 Edition Limitée,$110.00,Amazon,2023-10-01`,
		`2,Promo Sony PlayStation 5,197200,Fnac,2023-10-02`,
		`3,sony playstation 5,"€ 50,00",Darty,2023-10-03`,
		`4,Sony PS5,invalid,Amazon,2023-10-04`,
		`5,Logitech Mouse MX,20.00,Amazon,2023-10-05`,
		`6,logitech  mouse mx,25.00,Boulanger,2023-10-06`,
		`7,Sticker,2.00,Amazon,2023-10-07`,
	)

	p := NewPipeline(pipelineConfig(input), newTestLogger())
	records, report, err := p.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d groups; want 2", len(records))
	}

	// PlayStation group: prices 100.00, 1972.00, 50.00; the invalid row is
	// excluded from averaging, the sticker falls below the minimum price.
	ps := records[0]
	if ps.OccurrenceCount != 3 {
		t.Errorf("playstation count = %d; want 3", ps.OccurrenceCount)
	}
	if ps.AvgPrice != 707.33 {
		t.Errorf("playstation avg = %.2f; want 707.33", ps.AvgPrice)
	}
	if ps.DisplayTitle != "Sony PS5 Edition Limitée" {
		t.Errorf("playstation title = %q", ps.DisplayTitle)
	}

	mouse := records[1]
	if mouse.OccurrenceCount != 2 {
		t.Errorf("mouse count = %d; want 2", mouse.OccurrenceCount)
	}
	if mouse.AvgPrice != 22.50 {
		t.Errorf("mouse avg = %.2f; want 22.50", mouse.AvgPrice)
	}
	if mouse.DisplayTitle != "logitech  mouse mx" {
		t.Errorf("mouse title = %q", mouse.DisplayTitle)
	}

	if report.RowsRead != 7 {
		t.Errorf("RowsRead = %d; want 7", report.RowsRead)
	}
	if report.RowsPriced != 6 {
		t.Errorf("RowsPriced = %d; want 6", report.RowsPriced)
	}
	if report.RowsFiltered != 2 {
		t.Errorf("RowsFiltered = %d; want 2", report.RowsFiltered)
	}
	if report.GroupsEmitted != 2 {
		t.Errorf("GroupsEmitted = %d; want 2", report.GroupsEmitted)
	}
}

func TestPipelineMissingInput(t *testing.T) {
	cfg := pipelineConfig(filepath.Join(t.TempDir(), "nope.csv"))
	p := NewPipeline(cfg, newTestLogger())

	_, _, err := p.Run()
	if !errors.Is(err, source.ErrInputNotFound) {
		t.Errorf("err = %v; want ErrInputNotFound", err)
	}
}

func TestPipelineMalformedFeedFailsFast(t *testing.T) {
	input := writeFeed(t,
		`1,Sony PS5,100.00,Amazon,2023-10-01`,
		`2,Sony PS5,100.00,Amazon`, // missing column
	)

	p := NewPipeline(pipelineConfig(input), newTestLogger())
	_, _, err := p.Run()

	var malformed *source.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v; want MalformedRecordError", err)
	}
	if malformed.Line != 2 {
		t.Errorf("Line = %d; want 2", malformed.Line)
	}
}

func TestPipelineIdempotentOnCleanInput(t *testing.T) {
	// A feed that is already clean and deduplicated comes back unchanged:
	// one group per row, same price, same title.
	input := writeFeed(t,
		`1,Apple iPhone 13 Pro,999.00,Amazon,2023-10-01`,
		`2,Dell XPS 13,1199.50,Fnac,2023-10-02`,
		`3,Lenovo ThinkPad,849.99,Darty,2023-10-03`,
	)

	p := NewPipeline(pipelineConfig(input), newTestLogger())
	records, _, err := p.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d groups; want 3", len(records))
	}
	wantPrices := map[string]float64{
		"Apple iPhone 13 Pro": 999.00,
		"Dell XPS 13":         1199.50,
		"Lenovo ThinkPad":     849.99,
	}
	for _, rec := range records {
		want, ok := wantPrices[rec.DisplayTitle]
		if !ok {
			t.Errorf("unexpected title %q", rec.DisplayTitle)
			continue
		}
		if rec.AvgPrice != want {
			t.Errorf("%s: avg = %.2f; want %.2f", rec.DisplayTitle, rec.AvgPrice, want)
		}
		if rec.OccurrenceCount != 1 {
			t.Errorf("%s: count = %d; want 1", rec.DisplayTitle, rec.OccurrenceCount)
		}
	}
}
