// Package sod processes the FDIC Summary of Deposits branch files:
// one row per branch per year, aggregated to bank-year metrics.
package sod

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"bankpanel/internal/csvio"
	"bankpanel/internal/logging"
)

// loadConcurrency bounds parallel SOD file reads. The yearly exports are
// large enough that parallel parsing pays off, but there is no reason to
// open every file at once.
const loadConcurrency = 4

// Branch is one cleaned branch record from a SOD export.
type Branch struct {
	Cert     int64
	RSSDID   string
	Year     int
	Deposits float64
	BankName string
	Assets   *float64
}

// BankYear is the SOD aggregate for one bank in one year.
type BankYear struct {
	FDICCert      int64
	Year          int
	TotalBranches int
	TotalDeposits float64
	RSSDID        string
	BankName      string
	TotalAssets   *float64

	DepositsPerBranch float64
	// Nil for a bank's first observed year.
	BranchGrowthYoY *float64
}

// LoadDir finds all SOD files matching pattern under dir and loads them
// concurrently. A file that fails to load is skipped with a warning; the
// remaining files still contribute.
func LoadDir(ctx context.Context, dir, pattern string) ([]Branch, error) {
	timer := logging.StartTimer(logging.CategorySOD, "LoadDir")
	defer timer.StopWithInfo()

	log := logging.Get(logging.CategorySOD)

	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad SOD pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no SOD files matching %q in %s", pattern, dir)
	}
	sort.Strings(paths)
	log.Info("found %d SOD files in %s", len(paths), dir)

	perFile := make([][]Branch, len(paths))
	var mu sync.Mutex
	skipped := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			branches, err := loadFile(path)
			if err != nil {
				log.Warn("skipping %s: %v", path, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			perFile[i] = branches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Branch
	for _, branches := range perFile {
		all = append(all, branches...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no SOD files loaded successfully (%d skipped)", skipped)
	}

	log.Info("loaded %d branch records (%d files skipped)", len(all), skipped)
	return all, nil
}

// loadFile parses one SOD export. SOD files are Latin-1 encoded. Rows
// without a parseable CERT and YEAR are dropped.
func loadFile(path string) ([]Branch, error) {
	tbl, err := csvio.ReadLatin1(path)
	if err != nil {
		return nil, err
	}

	for _, required := range []string{"CERT", "YEAR"} {
		if _, ok := tbl.Col(required); !ok {
			return nil, fmt.Errorf("missing %s column", required)
		}
	}

	branches := make([]Branch, 0, tbl.Len())
	for _, row := range tbl.Rows {
		cert, certOK := csvio.ParseInt(tbl.Field(row, "CERT"))
		year, yearOK := csvio.ParseYear(tbl.Field(row, "YEAR"))
		if !certOK || !yearOK {
			continue
		}

		b := Branch{
			Cert:     cert,
			RSSDID:   tbl.Field(row, "RSSDID"),
			Year:     year,
			BankName: tbl.Field(row, "NAMEFULL"),
		}
		if dep, ok := csvio.ParseFloat(tbl.Field(row, "DEPSUM")); ok {
			b.Deposits = dep
		}
		if assets, ok := csvio.ParseFloat(tbl.Field(row, "ASSET")); ok {
			v := assets
			b.Assets = &v
		}
		branches = append(branches, b)
	}

	logging.Get(logging.CategorySOD).Debug("%s: %d valid branch rows of %d", path, len(branches), tbl.Len())
	return branches, nil
}

type bankYearKey struct {
	cert int64
	year int
}

// Summarize aggregates branch records to bank-year level: branch count,
// deposit sum, deposits per branch, and year-over-year branch growth.
// Identifier fields take the first value seen for the bank-year.
func Summarize(branches []Branch) []BankYear {
	timer := logging.StartTimer(logging.CategorySOD, "Summarize")
	defer timer.Stop()

	agg := make(map[bankYearKey]*BankYear)
	var order []bankYearKey
	for _, b := range branches {
		key := bankYearKey{b.Cert, b.Year}
		by, ok := agg[key]
		if !ok {
			by = &BankYear{
				FDICCert:    b.Cert,
				Year:        b.Year,
				RSSDID:      b.RSSDID,
				BankName:    b.BankName,
				TotalAssets: b.Assets,
			}
			agg[key] = by
			order = append(order, key)
		}
		by.TotalBranches++
		by.TotalDeposits += b.Deposits
	}

	result := make([]BankYear, 0, len(order))
	for _, key := range order {
		by := agg[key]
		by.DepositsPerBranch = by.TotalDeposits / float64(by.TotalBranches)
		result = append(result, *by)
	}

	// YoY growth requires bank-then-year ordering. Growth compares against
	// the previous observed year, matching the original series semantics.
	sort.Slice(result, func(i, j int) bool {
		if result[i].FDICCert != result[j].FDICCert {
			return result[i].FDICCert < result[j].FDICCert
		}
		return result[i].Year < result[j].Year
	})
	for i := 1; i < len(result); i++ {
		prev := result[i-1]
		if result[i].FDICCert != prev.FDICCert || prev.TotalBranches == 0 {
			continue
		}
		growth := float64(result[i].TotalBranches-prev.TotalBranches) / float64(prev.TotalBranches)
		result[i].BranchGrowthYoY = &growth
	}

	logging.Get(logging.CategorySOD).Info("aggregated %d branch records into %d bank-years", len(branches), len(result))
	return result
}
