package edgar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bankpanel/internal/match"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCompaniesHeaderVariants(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"standard", "CIK,Company_Name\n100,First National Corp\n"},
		{"lowercase cik", "cik,CompanyName\n100,First National Corp\n"},
		{"entity name", "CIK,Entity_Name\n100,First National Corp\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "companies.csv", tt.content)
			companies, err := LoadCompanies(path)
			if err != nil {
				t.Fatalf("LoadCompanies failed: %v", err)
			}
			if len(companies) != 1 || companies[0].CIK != "100" || companies[0].Name != "First National Corp" {
				t.Errorf("unexpected companies: %+v", companies)
			}
		})
	}
}

func TestLoadCompaniesMissingNameColumn(t *testing.T) {
	path := writeFixture(t, "companies.csv", "CIK,Ticker\n100,FNC\n")
	if _, err := LoadCompanies(path); err == nil {
		t.Error("expected error for missing name column")
	}
}

func TestLoadFilings(t *testing.T) {
	path := writeFixture(t, "filings.csv", `CIK,FormType,DateFiled
100,10-K,2020-03-15
100,DEF 14A,2020-04-10
100,10-K/A,2020-06-01
200,10-K,bad-date
`)

	filings, err := LoadFilings(path)
	if err != nil {
		t.Fatalf("LoadFilings failed: %v", err)
	}
	if len(filings) != 3 {
		t.Fatalf("got %d filings, want 3 (bad date dropped)", len(filings))
	}
	if filings[0].Form != "10-K" || filings[0].Filed.Year() != 2020 {
		t.Errorf("unexpected filing: %+v", filings[0])
	}
}

func testMappings() []match.Mapping {
	return []match.Mapping{
		{CIK: "100", RSSDID: "123456", Score: 95},
		{CIK: "200", RSSDID: "789012", Score: 88},
	}
}

func TestAggregateAnnual(t *testing.T) {
	d := func(s string) time.Time {
		tm, _ := time.Parse("2006-01-02", s)
		return tm
	}
	filings := []Filing{
		{CIK: "100", Form: "10-K", Filed: d("2020-06-01")},
		{CIK: "100", Form: "10-K/A", Filed: d("2020-03-15")},
		{CIK: "100", Form: "DEF 14A", Filed: d("2020-04-10")},
		{CIK: "100", Form: "8-K", Filed: d("2020-05-01")},
		{CIK: "100", Form: "10-K", Filed: d("2021-03-01")},
		{CIK: "999", Form: "10-K", Filed: d("2020-03-01")}, // unmapped CIK
	}

	metrics := AggregateAnnual(filings, testMappings())
	if len(metrics) != 2 {
		t.Fatalf("got %d bank-years, want 2", len(metrics))
	}

	m := metrics[0]
	if m.RSSDID != "123456" || m.Year != 2020 {
		t.Fatalf("unexpected first metric: %+v", m)
	}
	if m.TotalAnnualFilings != 4 {
		t.Errorf("TotalAnnualFilings = %d, want 4", m.TotalAnnualFilings)
	}
	if !m.Has10K || !m.HasDEF14A {
		t.Errorf("form flags wrong: %+v", m)
	}
	// 10-K/A counts as a 10-K filing, like the source data treats amendments.
	if m.FilingCount10K != 2 {
		t.Errorf("FilingCount10K = %d, want 2", m.FilingCount10K)
	}
	// Earliest 10-K date wins.
	if m.FilingDate10K == nil || m.FilingDate10K.Format("2006-01-02") != "2020-03-15" {
		t.Errorf("FilingDate10K = %v, want 2020-03-15", m.FilingDate10K)
	}

	if metrics[1].Year != 2021 || metrics[1].HasDEF14A {
		t.Errorf("unexpected second metric: %+v", metrics[1])
	}
}

func TestAggregateQuarterly(t *testing.T) {
	d := func(s string) time.Time {
		tm, _ := time.Parse("2006-01-02", s)
		return tm
	}
	filings := []Filing{
		{CIK: "100", Form: "10-Q", Filed: d("2020-05-10")},
		{CIK: "100", Form: "10-Q", Filed: d("2020-08-10")},
		{CIK: "100", Form: "10-Q", Filed: d("2020-11-09")},
		{CIK: "999", Form: "10-Q", Filed: d("2020-05-01")},
	}

	metrics := AggregateQuarterly(filings, testMappings())
	if len(metrics) != 1 {
		t.Fatalf("got %d bank-years, want 1", len(metrics))
	}
	if metrics[0].RSSDID != "123456" || metrics[0].FilingCount10Q != 3 {
		t.Errorf("unexpected quarterly metrics: %+v", metrics[0])
	}
}

func TestAggregateAnnualSharedCIK(t *testing.T) {
	// One holding company CIK mapped to two charters: filings count for both.
	mappings := []match.Mapping{
		{CIK: "100", RSSDID: "a"},
		{CIK: "100", RSSDID: "b"},
	}
	filed, _ := time.Parse("2006-01-02", "2020-03-15")
	metrics := AggregateAnnual([]Filing{{CIK: "100", Form: "10-K", Filed: filed}}, mappings)
	if len(metrics) != 2 {
		t.Fatalf("got %d bank-years, want 2", len(metrics))
	}
	for _, m := range metrics {
		if !m.Has10K {
			t.Errorf("both charters should carry the filing: %+v", m)
		}
	}
}
