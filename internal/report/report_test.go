package report

import (
	"os"
	"path/filepath"
	"testing"

	"bankpanel/internal/ffiec"
	"bankpanel/internal/panel"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func sampleRows() []panel.Row {
	return []panel.Row{
		{
			Record: ffiec.Record{
				BankID: "BANK_0001", RSSDID: "100", FDICCert: 11, BankName: "First Bank", Year: 2019,
				TotalAssets: floatPtr(1000000), TotalDeposits: floatPtr(800000),
			},
			TotalBranches:     intPtr(10),
			TotalDepositsSOD:  floatPtr(790000),
			DepositsPerBranch: floatPtr(79000),
			Has10K:            true,
			IsPublicCompany:   true,
		},
		{
			Record: ffiec.Record{
				BankID: "BANK_0001", RSSDID: "100", FDICCert: 11, BankName: "First Bank", Year: 2020,
				TotalAssets: floatPtr(1100000),
			},
			AssetGrowthYoY: floatPtr(0.1),
		},
	}
}

func TestFieldDefinitionsCoverPanelColumns(t *testing.T) {
	for _, col := range panel.Columns() {
		if _, ok := LookupField(col.Name); !ok {
			t.Errorf("panel column %q has no field definition", col.Name)
		}
	}
	if len(FieldDefinitions) != len(panel.Columns()) {
		t.Errorf("got %d field definitions for %d panel columns",
			len(FieldDefinitions), len(panel.Columns()))
	}
}

func TestFieldsBySource(t *testing.T) {
	total := 0
	for _, source := range SourceOrder {
		fields := FieldsBySource(source)
		if len(fields) == 0 {
			t.Errorf("source %q has no fields", source)
		}
		for _, f := range fields {
			if f.Source != source {
				t.Errorf("field %q grouped under %q but declares %q", f.Name, source, f.Source)
			}
		}
		total += len(fields)
	}
	if total != len(FieldDefinitions) {
		t.Errorf("source sections cover %d of %d fields", total, len(FieldDefinitions))
	}

	ffiecFields := FieldsBySource(SourceFFIEC)
	if len(ffiecFields) != 17 {
		t.Errorf("expected 17 FFIEC fields, got %d", len(ffiecFields))
	}
}

func TestDictionaryWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict", "Data_Dictionary.pdf")

	d := NewDictionary(sampleRows())
	if err := d.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) < 1024 {
		t.Errorf("pdf suspiciously small: %d bytes", len(data))
	}
	if string(data[:5]) != "%PDF-" {
		t.Errorf("output is not a pdf, starts with %q", data[:5])
	}
}

func TestDictionaryWriteEmptyPanel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	d := NewDictionary(nil)
	if err := d.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Stat: %v", err)
	}
}
