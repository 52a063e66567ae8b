// Package edgar loads SEC Edgar filing metadata and aggregates it to
// bank-year metrics via the CIK-RSSD crosswalk. Edgar only covers
// publicly-traded banks, so these loaders degrade softly: a missing input
// file means no Edgar columns, not a failed run.
package edgar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"bankpanel/internal/csvio"
	"bankpanel/internal/logging"
	"bankpanel/internal/match"
)

// Company is one Edgar registrant from the company summary file.
type Company struct {
	CIK  string
	Name string
}

// Filing is one SEC filing record.
type Filing struct {
	CIK   string
	Form  string
	Filed time.Time
}

// AnnualMetrics summarizes a bank-year's annual filings (10-K, DEF 14A).
type AnnualMetrics struct {
	RSSDID string
	Year   int

	TotalAnnualFilings int
	Has10K             bool
	HasDEF14A          bool
	FilingCount10K     int
	FilingCountDEF14A  int
	FilingDate10K      *time.Time
	FilingDateDEF14A   *time.Time
}

// QuarterlyMetrics summarizes a bank-year's 10-Q filings.
type QuarterlyMetrics struct {
	RSSDID         string
	Year           int
	FilingCount10Q int
}

// Header variants seen across Edgar exports.
var (
	cikColumns  = []string{"CIK", "cik"}
	nameColumns = []string{"Company_Name", "CompanyName", "Entity_Name", "Name", "COMPANY_NAME"}
	formColumns = []string{"FormType", "Form_Type", "Form"}
	dateColumns = []string{"DateFiled", "Filing_Date", "Date"}
)

// LoadCompanies loads the Edgar company summary (CIK + company name).
func LoadCompanies(path string) ([]Company, error) {
	log := logging.Get(logging.CategoryEdgar)

	tbl, err := csvio.Read(path)
	if err != nil {
		return nil, err
	}

	cikCol, _, ok := tbl.FirstCol(cikColumns...)
	if !ok {
		return nil, fmt.Errorf("%s: no CIK column", path)
	}
	nameCol, _, ok := tbl.FirstCol(nameColumns...)
	if !ok {
		return nil, fmt.Errorf("%s: no company name column", path)
	}

	var companies []Company
	for _, row := range tbl.Rows {
		cik := tbl.Field(row, cikCol)
		name := tbl.Field(row, nameCol)
		if cik == "" || name == "" {
			continue
		}
		companies = append(companies, Company{CIK: cik, Name: name})
	}

	log.Info("loaded %d Edgar companies from %s", len(companies), path)
	return companies, nil
}

// LoadFilings loads a filings file (annual or quarterly). Rows without a
// CIK or a parseable filing date are dropped.
func LoadFilings(path string) ([]Filing, error) {
	log := logging.Get(logging.CategoryEdgar)

	tbl, err := csvio.Read(path)
	if err != nil {
		return nil, err
	}

	cikCol, _, ok := tbl.FirstCol(cikColumns...)
	if !ok {
		return nil, fmt.Errorf("%s: no CIK column", path)
	}
	dateCol, _, ok := tbl.FirstCol(dateColumns...)
	if !ok {
		return nil, fmt.Errorf("%s: no filing date column", path)
	}
	formCol, _, _ := tbl.FirstCol(formColumns...)

	var filings []Filing
	dropped := 0
	for _, row := range tbl.Rows {
		cik := tbl.Field(row, cikCol)
		filed, dateOK := csvio.ParseDate(tbl.Field(row, dateCol))
		if cik == "" || !dateOK {
			dropped++
			continue
		}
		f := Filing{CIK: cik, Filed: filed}
		if formCol != "" {
			f.Form = tbl.Field(row, formCol)
		}
		filings = append(filings, f)
	}

	log.Info("loaded %d filings from %s (%d dropped)", len(filings), path, dropped)
	return filings, nil
}

// isForm reports whether a form type field names the given form, allowing
// amendments ("10-K/A") and case differences as the source data does.
func isForm(form, want string) bool {
	return strings.Contains(strings.ToUpper(form), strings.ToUpper(want))
}

type bankYearKey struct {
	rssd string
	year int
}

// AggregateAnnual joins annual filings to the CIK-RSSD mapping and computes
// per bank-year 10-K / DEF 14A metrics. Filings whose CIK is not in the
// mapping are discarded (an inner join).
func AggregateAnnual(filings []Filing, mappings []match.Mapping) []AnnualMetrics {
	timer := logging.StartTimer(logging.CategoryEdgar, "AggregateAnnual")
	defer timer.Stop()

	byCIK := match.ByCIK(mappings)

	agg := make(map[bankYearKey]*AnnualMetrics)
	for _, f := range filings {
		for _, mp := range byCIK[f.CIK] {
			key := bankYearKey{mp.RSSDID, f.Filed.Year()}
			m, ok := agg[key]
			if !ok {
				m = &AnnualMetrics{RSSDID: mp.RSSDID, Year: f.Filed.Year()}
				agg[key] = m
			}
			m.TotalAnnualFilings++
			if isForm(f.Form, "10-K") {
				m.Has10K = true
				m.FilingCount10K++
				if m.FilingDate10K == nil || f.Filed.Before(*m.FilingDate10K) {
					d := f.Filed
					m.FilingDate10K = &d
				}
			}
			if isForm(f.Form, "DEF 14A") {
				m.HasDEF14A = true
				m.FilingCountDEF14A++
				if m.FilingDateDEF14A == nil || f.Filed.Before(*m.FilingDateDEF14A) {
					d := f.Filed
					m.FilingDateDEF14A = &d
				}
			}
		}
	}

	result := sortedAnnual(agg)
	logging.Get(logging.CategoryEdgar).Info("aggregated %d annual filings into %d bank-years", len(filings), len(result))
	return result
}

// AggregateQuarterly joins quarterly filings to the mapping and counts
// 10-Q filings per bank-year.
func AggregateQuarterly(filings []Filing, mappings []match.Mapping) []QuarterlyMetrics {
	timer := logging.StartTimer(logging.CategoryEdgar, "AggregateQuarterly")
	defer timer.Stop()

	byCIK := match.ByCIK(mappings)

	agg := make(map[bankYearKey]*QuarterlyMetrics)
	for _, f := range filings {
		for _, mp := range byCIK[f.CIK] {
			key := bankYearKey{mp.RSSDID, f.Filed.Year()}
			m, ok := agg[key]
			if !ok {
				m = &QuarterlyMetrics{RSSDID: mp.RSSDID, Year: f.Filed.Year()}
				agg[key] = m
			}
			m.FilingCount10Q++
		}
	}

	result := make([]QuarterlyMetrics, 0, len(agg))
	for _, m := range agg {
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].RSSDID != result[j].RSSDID {
			return result[i].RSSDID < result[j].RSSDID
		}
		return result[i].Year < result[j].Year
	})

	logging.Get(logging.CategoryEdgar).Info("aggregated %d quarterly filings into %d bank-years", len(filings), len(result))
	return result
}

func sortedAnnual(agg map[bankYearKey]*AnnualMetrics) []AnnualMetrics {
	result := make([]AnnualMetrics, 0, len(agg))
	for _, m := range agg {
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].RSSDID != result[j].RSSDID {
			return result[i].RSSDID < result[j].RSSDID
		}
		return result[i].Year < result[j].Year
	})
	return result
}
