package match

import (
	"testing"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"national association suffix", "First National Bank, National Association", "FIRST NATIONAL"},
		{"na abbreviation", "WELLS FARGO BANK NA", "WELLS FARGO"},
		{"dotted na", "Citibank, N.A.", "CITIBANK"},
		{"corp and inc", "First Bancshares Corp Inc.", "FIRST BANCSHARES"},
		{"bancorp kept", "First Bancorp Inc.", "FIRST BANCORP"},
		{"the prefix", "The Community Savings Bank", "COMMUNITY"},
		{"punctuation", "Smith & Jones Bank-Trust Co.", "SMITH JONES TRUST CO"},
		{"slash kept", "Bancorp South/West", "BANCORP SOUTH/WEST"},
		{"empty", "", ""},
		{"only noise", "The Bank Corp", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanName(tt.in); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildMappingAcceptsAboveThreshold(t *testing.T) {
	banks := []Entity{
		{ID: "123456", Name: "First National Bank, National Association"},
		{ID: "789012", Name: "Community Savings Bank"},
		{ID: "555555", Name: "Totally Unrelated Credit Union"},
	}
	companies := []Entity{
		{ID: "0001", Name: "FIRST NATIONAL CORP"},
		{ID: "0002", Name: "COMMUNITY SVGS FINANCIAL GROUP"},
		{ID: "0003", Name: "ACME WIDGETS INC"},
	}

	mappings := BuildMapping(banks, companies, DefaultThreshold, 0)

	byRSSD := make(map[string]Mapping)
	for _, m := range mappings {
		byRSSD[m.RSSDID] = m
	}

	m, ok := byRSSD["123456"]
	if !ok {
		t.Fatal("expected a match for First National")
	}
	if m.CIK != "0001" {
		t.Errorf("matched wrong company: %+v", m)
	}
	if m.Score < DefaultThreshold {
		t.Errorf("accepted score %d below threshold", m.Score)
	}
	if m.FFIECName != "First National Bank, National Association" {
		t.Errorf("original name not preserved: %q", m.FFIECName)
	}

	if _, ok := byRSSD["555555"]; ok {
		t.Error("unrelated name should not match any company")
	}
}

func TestBuildMappingExactCleanMatchScores100(t *testing.T) {
	banks := []Entity{{ID: "1", Name: "Pinnacle Bank"}}
	companies := []Entity{{ID: "9", Name: "PINNACLE BANCORP"}}

	mappings := BuildMapping(banks, companies, 100, 0)
	if len(mappings) != 1 {
		t.Fatalf("got %d mappings, want 1", len(mappings))
	}
	if mappings[0].Score != 100 {
		t.Errorf("identical cleaned names should score 100, got %d", mappings[0].Score)
	}
}

func TestBuildMappingSkipsEmptyCleanedNames(t *testing.T) {
	banks := []Entity{{ID: "1", Name: "The Bank"}}
	companies := []Entity{{ID: "9", Name: "Corp Inc"}}

	if mappings := BuildMapping(banks, companies, 0, 0); len(mappings) != 0 {
		t.Errorf("empty cleaned names should be excluded, got %+v", mappings)
	}
}

func TestByCIK(t *testing.T) {
	mappings := []Mapping{
		{CIK: "1", RSSDID: "a", Score: 90},
		{CIK: "1", RSSDID: "b", Score: 85},
		{CIK: "2", RSSDID: "c", Score: 95},
	}
	idx := ByCIK(mappings)
	if len(idx["1"]) != 2 {
		t.Errorf("CIK 1 should map to 2 banks, got %d", len(idx["1"]))
	}
	if len(idx["2"]) != 1 {
		t.Errorf("CIK 2 should map to 1 bank, got %d", len(idx["2"]))
	}
}
