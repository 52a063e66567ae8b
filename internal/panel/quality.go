package panel

import (
	"sort"

	"bankpanel/internal/logging"
)

// QualityReport summarizes coverage of the merged panel.
type QualityReport struct {
	TotalRecords int
	UniqueBanks  int
	MinYear      int
	MaxYear      int

	// Completeness is the percentage of rows with a value, per column.
	Completeness map[string]float64

	// TrueCount counts rows with True, for the boolean indicator columns.
	TrueCount map[string]int

	ByYear []YearCount
}

// YearCount is panel coverage for one year.
type YearCount struct {
	Year       int
	TotalBanks int
	WithSOD    int
	With10K    int
}

// booleanColumns always render a value, so completeness is meaningless for
// them; coverage is the count of True instead.
var booleanColumns = map[string]bool{
	"Has_10K":           true,
	"Has_10Q":           true,
	"Has_DEF14A":        true,
	"Is_Public_Company": true,
}

// FieldGroup names the key columns of one data source, for display.
type FieldGroup struct {
	Name   string
	Fields []string
}

// KeyFieldGroups are the completeness groups shown by the quality command.
var KeyFieldGroups = []FieldGroup{
	{Name: "FFIEC Data", Fields: []string{
		"Total_Assets", "Total_Deposits", "Total_Equity",
		"Net_Interest_Income", "Noninterest_Income",
	}},
	{Name: "SOD Data", Fields: []string{
		"Total_Branches", "Deposits_Per_Branch", "Branch_Growth_YoY",
	}},
	{Name: "Edgar Data", Fields: []string{
		"Has_10K", "Has_10Q", "Has_DEF14A",
	}},
}

// Quality computes the quality report for a merged panel.
func Quality(rows []Row) *QualityReport {
	timer := logging.StartTimer(logging.CategoryPanel, "Quality")
	defer timer.Stop()

	report := &QualityReport{
		TotalRecords: len(rows),
		Completeness: make(map[string]float64),
		TrueCount:    make(map[string]int),
	}
	if len(rows) == 0 {
		return report
	}

	banks := make(map[string]bool)
	years := make(map[int]*YearCount)
	for i := range rows {
		r := &rows[i]
		banks[r.RSSDID] = true

		yc, ok := years[r.Year]
		if !ok {
			yc = &YearCount{Year: r.Year}
			years[r.Year] = yc
		}
		yc.TotalBanks++
		if r.TotalBranches != nil {
			yc.WithSOD++
		}
		if r.Has10K {
			yc.With10K++
		}

		if report.MinYear == 0 || r.Year < report.MinYear {
			report.MinYear = r.Year
		}
		if r.Year > report.MaxYear {
			report.MaxYear = r.Year
		}
	}
	report.UniqueBanks = len(banks)

	for _, col := range Columns() {
		if booleanColumns[col.Name] {
			count := 0
			for i := range rows {
				if col.Value(&rows[i]) == "True" {
					count++
				}
			}
			report.TrueCount[col.Name] = count
			continue
		}
		nonEmpty := 0
		for i := range rows {
			if col.Value(&rows[i]) != "" {
				nonEmpty++
			}
		}
		report.Completeness[col.Name] = 100 * float64(nonEmpty) / float64(len(rows))
	}

	for _, yc := range years {
		report.ByYear = append(report.ByYear, *yc)
	}
	sort.Slice(report.ByYear, func(i, j int) bool {
		return report.ByYear[i].Year < report.ByYear[j].Year
	})

	logging.Get(logging.CategoryPanel).Info("quality: %d records, %d banks, %d-%d",
		report.TotalRecords, report.UniqueBanks, report.MinYear, report.MaxYear)
	return report
}

// Summary holds descriptive statistics for one numeric column.
type Summary struct {
	NonNull int
	Pct     float64
	Min     float64
	Max     float64
	Mean    float64
}

// NumericSummaries computes descriptive statistics for every numeric
// column, feeding the data dictionary's quality tables.
func NumericSummaries(rows []Row) map[string]Summary {
	result := make(map[string]Summary)
	if len(rows) == 0 {
		return result
	}

	for _, col := range Columns() {
		if col.Num == nil {
			continue
		}
		var s Summary
		var sum float64
		for i := range rows {
			v, ok := col.Num(&rows[i])
			if !ok {
				continue
			}
			if s.NonNull == 0 || v < s.Min {
				s.Min = v
			}
			if s.NonNull == 0 || v > s.Max {
				s.Max = v
			}
			sum += v
			s.NonNull++
		}
		if s.NonNull > 0 {
			s.Mean = sum / float64(s.NonNull)
		}
		s.Pct = 100 * float64(s.NonNull) / float64(len(rows))
		result[col.Name] = s
	}
	return result
}
