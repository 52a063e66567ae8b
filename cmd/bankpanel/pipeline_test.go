package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"bankpanel/internal/config"
	"bankpanel/internal/store"
)

// testConfig points every path into a temp dir and installs the globals the
// pipeline helpers read.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	c := config.DefaultConfig()
	c.Data.Dir = dir
	c.Data.EdgarDir = filepath.Join(dir, "edgar")
	c.Data.OutDir = filepath.Join(dir, "out")
	c.Store.DatabasePath = filepath.Join(dir, "out", "test.db")

	prevCfg, prevLogger := cfg, logger
	cfg, logger = c, zap.NewNop()
	t.Cleanup(func() { cfg, logger = prevCfg, prevLogger })
	return c
}

func writeInput(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestGetMappingMissingCompanyFileDegrades(t *testing.T) {
	c := testConfig(t)

	// Registry present, Edgar dir absent entirely.
	writeInput(t, c.RegistryPath(), "RSSD_ID,Bank_Name\n123456,First National Bank\n")

	st, err := store.Open(c.Store.DatabasePath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	mappings, err := getMapping(st, false)
	if err != nil {
		t.Fatalf("expected soft degradation, got error: %v", err)
	}
	if mappings != nil {
		t.Fatalf("expected empty mapping, got %d entries", len(mappings))
	}

	// The empty mapping must not be cached; a later run with the company
	// file in place should still perform the match.
	cached, err := st.LoadMapping()
	if err != nil {
		t.Fatalf("LoadMapping: %v", err)
	}
	if cached != nil {
		t.Fatalf("empty mapping was cached: %d entries", len(cached))
	}
}

func TestGetMappingBuildsAndCaches(t *testing.T) {
	c := testConfig(t)

	writeInput(t, c.RegistryPath(), "RSSD_ID,Bank_Name\n123456,First National Bank\n")
	writeInput(t, c.CompanyPath(), "CIK,Company_Name\n0001,FIRST NATIONAL CORP\n")

	st, err := store.Open(c.Store.DatabasePath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	mappings, err := getMapping(st, false)
	if err != nil {
		t.Fatalf("getMapping: %v", err)
	}
	if len(mappings) != 1 || mappings[0].CIK != "0001" || mappings[0].RSSDID != "123456" {
		t.Fatalf("unexpected mapping: %+v", mappings)
	}

	cached, err := st.LoadMapping()
	if err != nil {
		t.Fatalf("LoadMapping: %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("mapping not cached: %+v", cached)
	}
}
