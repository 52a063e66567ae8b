// Package panel merges the FFIEC, SOD, and Edgar bank-year datasets into
// the final panel: one row per bank per year, keyed by (RSSD_ID, Year).
package panel

import (
	"time"

	"bankpanel/internal/edgar"
	"bankpanel/internal/ffiec"
	"bankpanel/internal/logging"
	"bankpanel/internal/sod"
)

// Row is one bank-year observation in the final panel. FFIEC identifiers
// and financials are embedded; SOD and Edgar columns are nil (or false)
// when the left joins found no match.
type Row struct {
	ffiec.Record

	// SOD branch network, joined on (FDIC_Cert, Year)
	TotalBranches              *int
	TotalDepositsSOD           *float64
	DepositsPerBranch          *float64
	BranchGrowthYoY            *float64
	BranchEfficiencyPercentile *float64

	// Edgar filings, joined on (RSSD_ID, Year)
	Has10K             bool
	Has10Q             bool
	HasDEF14A          bool
	TotalAnnualFilings *int
	FilingCount10K     *int
	FilingCount10Q     *int
	FilingCountDEF14A  *int
	FilingDate10K      *time.Time
	FilingDateDEF14A   *time.Time

	// Derived
	IsPublicCompany bool
	AssetGrowthYoY  *float64
}

type certYearKey struct {
	cert int64
	year int
}

type rssdYearKey struct {
	rssd string
	year int
}

// Build left-joins the SOD aggregates and Edgar metrics onto the FFIEC
// records. Years outside [minYear, maxYear] are dropped when the bounds are
// non-zero. FFIEC is the spine: a bank-year absent from FFIEC never enters
// the panel.
func Build(records []ffiec.Record, sodAgg []sod.BankYear, annual []edgar.AnnualMetrics, quarterly []edgar.QuarterlyMetrics, minYear, maxYear int) []Row {
	timer := logging.StartTimer(logging.CategoryPanel, "Build")
	defer timer.StopWithInfo()

	log := logging.Get(logging.CategoryPanel)

	sodIdx := make(map[certYearKey]sod.BankYear, len(sodAgg))
	for _, by := range sodAgg {
		sodIdx[certYearKey{by.FDICCert, by.Year}] = by
	}
	annualIdx := make(map[rssdYearKey]edgar.AnnualMetrics, len(annual))
	for _, m := range annual {
		annualIdx[rssdYearKey{m.RSSDID, m.Year}] = m
	}
	quarterlyIdx := make(map[rssdYearKey]edgar.QuarterlyMetrics, len(quarterly))
	for _, m := range quarterly {
		quarterlyIdx[rssdYearKey{m.RSSDID, m.Year}] = m
	}

	rows := make([]Row, 0, len(records))
	sodMatched, edgarMatched := 0, 0
	for _, rec := range records {
		if minYear != 0 && rec.Year < minYear {
			continue
		}
		if maxYear != 0 && rec.Year > maxYear {
			continue
		}

		row := Row{Record: rec}

		if rec.FDICCert != 0 {
			if by, ok := sodIdx[certYearKey{rec.FDICCert, rec.Year}]; ok {
				branches := by.TotalBranches
				deposits := by.TotalDeposits
				perBranch := by.DepositsPerBranch
				row.TotalBranches = &branches
				row.TotalDepositsSOD = &deposits
				row.DepositsPerBranch = &perBranch
				row.BranchGrowthYoY = by.BranchGrowthYoY
				sodMatched++
			}
		}

		if m, ok := annualIdx[rssdYearKey{rec.RSSDID, rec.Year}]; ok {
			total := m.TotalAnnualFilings
			count10K := m.FilingCount10K
			countDEF := m.FilingCountDEF14A
			row.Has10K = m.Has10K
			row.HasDEF14A = m.HasDEF14A
			row.TotalAnnualFilings = &total
			row.FilingCount10K = &count10K
			row.FilingCountDEF14A = &countDEF
			row.FilingDate10K = m.FilingDate10K
			row.FilingDateDEF14A = m.FilingDateDEF14A
			edgarMatched++
		}
		if m, ok := quarterlyIdx[rssdYearKey{rec.RSSDID, rec.Year}]; ok {
			count10Q := m.FilingCount10Q
			row.Has10Q = count10Q > 0
			row.FilingCount10Q = &count10Q
		}

		rows = append(rows, row)
	}

	log.Info("built panel: %d rows (SOD matched %d, Edgar matched %d)", len(rows), sodMatched, edgarMatched)
	return rows
}
