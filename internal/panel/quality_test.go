package panel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bankpanel/internal/ffiec"
)

func qualityRows() []Row {
	branches := 5
	return []Row{
		{Record: ffiec.Record{RSSDID: "a", FDICCert: 1, Year: 2019, TotalAssets: fp(100)}},
		{Record: ffiec.Record{RSSDID: "a", FDICCert: 1, Year: 2020, TotalAssets: fp(110)}, TotalBranches: &branches, Has10K: true},
		{Record: ffiec.Record{RSSDID: "b", FDICCert: 2, Year: 2020}},
	}
}

func TestQuality(t *testing.T) {
	report := Quality(qualityRows())

	if report.TotalRecords != 3 || report.UniqueBanks != 2 {
		t.Errorf("totals wrong: %+v", report)
	}
	if report.MinYear != 2019 || report.MaxYear != 2020 {
		t.Errorf("year span wrong: %d-%d", report.MinYear, report.MaxYear)
	}

	// Total_Assets present in 2 of 3 rows.
	if pct := report.Completeness["Total_Assets"]; pct < 66 || pct > 67 {
		t.Errorf("Total_Assets completeness = %.1f, want ~66.7", pct)
	}
	if report.TrueCount["Has_10K"] != 1 {
		t.Errorf("Has_10K true count = %d, want 1", report.TrueCount["Has_10K"])
	}

	want := []YearCount{
		{Year: 2019, TotalBanks: 1},
		{Year: 2020, TotalBanks: 2, WithSOD: 1, With10K: 1},
	}
	if diff := cmp.Diff(want, report.ByYear); diff != "" {
		t.Errorf("ByYear mismatch (-want +got):\n%s", diff)
	}
}

func TestQualityEmpty(t *testing.T) {
	report := Quality(nil)
	if report.TotalRecords != 0 || report.UniqueBanks != 0 {
		t.Errorf("empty panel report wrong: %+v", report)
	}
}

func TestNumericSummaries(t *testing.T) {
	s := NumericSummaries(qualityRows())

	assets, ok := s["Total_Assets"]
	if !ok {
		t.Fatal("missing Total_Assets summary")
	}
	if assets.NonNull != 2 || assets.Min != 100 || assets.Max != 110 || assets.Mean != 105 {
		t.Errorf("Total_Assets summary wrong: %+v", assets)
	}

	// Non-numeric columns are excluded.
	if _, ok := s["Bank_Name"]; ok {
		t.Error("Bank_Name should not have a numeric summary")
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "panel.csv")
	rows := Derive(Build(testRecords(), nil, nil, nil, 0, 0))

	if err := WriteCSV(rows, path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(records) != 4 { // header + 3 rows
		t.Fatalf("got %d lines, want 4", len(records))
	}

	header := records[0]
	if header[0] != "BANK_ID" || header[len(header)-1] != "Asset_Growth_YoY" {
		t.Errorf("unexpected header order: %v ... %v", header[0], header[len(header)-1])
	}
	if len(header) != len(Columns()) {
		t.Errorf("header has %d columns, schema has %d", len(header), len(Columns()))
	}

	// Booleans render as True/False, missing numerics as empty.
	rssdIdx, hasIdx := -1, -1
	for i, h := range header {
		switch h {
		case "RSSD_ID":
			rssdIdx = i
		case "Has_10K":
			hasIdx = i
		}
	}
	if records[1][rssdIdx] != "123456" {
		t.Errorf("first data row RSSD_ID = %q", records[1][rssdIdx])
	}
	if records[1][hasIdx] != "False" {
		t.Errorf("Has_10K = %q, want False", records[1][hasIdx])
	}
}
