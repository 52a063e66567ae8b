package csvio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadBasic(t *testing.T) {
	path := writeFile(t, "basic.csv", "A,B,C\n1,2,3\n4,5,6\n")

	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tbl.Len())
	}
	if got := tbl.Field(tbl.Rows[1], "B"); got != "5" {
		t.Errorf("Field(B) = %q, want 5", got)
	}
	if _, ok := tbl.Col("Z"); ok {
		t.Error("Col(Z) should not exist")
	}
}

func TestReadHandlesBOMAndRaggedRows(t *testing.T) {
	path := writeFile(t, "ragged.csv", "\uFEFFA,B,C\n1,2\n")

	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tbl.Headers[0] != "A" {
		t.Errorf("BOM not stripped: header[0] = %q", tbl.Headers[0])
	}
	if got := tbl.Field(tbl.Rows[0], "C"); got != "" {
		t.Errorf("short row should pad, got C=%q", got)
	}
}

func TestReadLatin1(t *testing.T) {
	// 0xC9 is É in ISO 8859-1 and an invalid byte sequence in UTF-8.
	content := "NAMEFULL,CERT\nCR\xc9DIT BANK,123\n"
	path := writeFile(t, "sod.csv", content)

	tbl, err := ReadLatin1(path)
	if err != nil {
		t.Fatalf("ReadLatin1 failed: %v", err)
	}
	name := tbl.Field(tbl.Rows[0], "NAMEFULL")
	if !strings.Contains(name, "É") {
		t.Errorf("Latin-1 decode failed, got %q", name)
	}
}

func TestFirstCol(t *testing.T) {
	path := writeFile(t, "edgar.csv", "cik,CompanyName\n1,First Bank\n")
	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	name, _, ok := tbl.FirstCol("CIK", "cik")
	if !ok || name != "cik" {
		t.Errorf("FirstCol = %q ok=%v, want cik/true", name, ok)
	}
	if _, _, ok := tbl.FirstCol("Entity_Name", "Name"); ok {
		t.Error("FirstCol should miss absent candidates")
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1234.5", 1234.5, true},
		{"1,234,567", 1234567, true},
		{" 42 ", 42, true},
		{"", 0, false},
		{"NA", 0, false},
		{"NaN", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseFloat(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseFloat(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseInt(t *testing.T) {
	if v, ok := ParseInt("2020.0"); !ok || v != 2020 {
		t.Errorf("ParseInt(2020.0) = %d,%v want 2020,true", v, ok)
	}
	if _, ok := ParseInt("x"); ok {
		t.Error("ParseInt(x) should fail")
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2015", 2015, true},
		{"2015.0", 2015, true},
		{"2020-03-15", 2020, true},
		{"03/15/2020", 2020, true},
		{"15", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseYear(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseYear(%q) = %d,%v want %d,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
