package panel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bankpanel/internal/logging"
)

// Column describes one panel column: its CSV header, how to render a row's
// value, and (for numeric columns) how to extract the value for summary
// statistics. A rendered empty string means missing.
type Column struct {
	Name  string
	Value func(*Row) string
	Num   func(*Row) (float64, bool)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func fmtDate(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02")
}

func numFloat(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func numInt(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}

func floatColumn(name string, get func(*Row) *float64) Column {
	return Column{
		Name:  name,
		Value: func(r *Row) string { return fmtFloat(get(r)) },
		Num:   func(r *Row) (float64, bool) { return numFloat(get(r)) },
	}
}

func intColumn(name string, get func(*Row) *int) Column {
	return Column{
		Name:  name,
		Value: func(r *Row) string { return fmtInt(get(r)) },
		Num:   func(r *Row) (float64, bool) { return numInt(get(r)) },
	}
}

// Columns returns the panel schema in output order.
func Columns() []Column {
	return []Column{
		{Name: "BANK_ID", Value: func(r *Row) string { return r.BankID }},
		{Name: "RSSD_ID", Value: func(r *Row) string { return r.RSSDID }},
		// Same as RSSD_ID; kept for compatibility with raw FFIEC extracts.
		{Name: "IDRSSD", Value: func(r *Row) string { return r.RSSDID }},
		{Name: "FDIC_Cert", Value: func(r *Row) string {
			if r.FDICCert == 0 {
				return ""
			}
			return strconv.FormatInt(r.FDICCert, 10)
		}},
		{Name: "Bank_Name", Value: func(r *Row) string { return r.BankName }},
		{Name: "Year", Value: func(r *Row) string { return strconv.Itoa(r.Year) }},

		floatColumn("Total_Assets", func(r *Row) *float64 { return r.TotalAssets }),
		floatColumn("Total_Deposits", func(r *Row) *float64 { return r.TotalDeposits }),
		floatColumn("Total_Equity", func(r *Row) *float64 { return r.TotalEquity }),
		floatColumn("Total_Liabilities", func(r *Row) *float64 { return r.TotalLiabilities }),
		floatColumn("NIB_Deposits", func(r *Row) *float64 { return r.NIBDeposits }),
		floatColumn("Cash_Balances", func(r *Row) *float64 { return r.CashBalances }),
		floatColumn("Securities_AFS", func(r *Row) *float64 { return r.SecuritiesAFS }),
		floatColumn("Loans_Net", func(r *Row) *float64 { return r.LoansNet }),
		floatColumn("Other_Borrowed_Money", func(r *Row) *float64 { return r.OtherBorrowedMoney }),
		floatColumn("Net_Interest_Income", func(r *Row) *float64 { return r.NetInterestIncome }),
		floatColumn("Noninterest_Income", func(r *Row) *float64 { return r.NoninterestIncome }),
		floatColumn("Noninterest_Expense", func(r *Row) *float64 { return r.NoninterestExpense }),
		floatColumn("ALLL", func(r *Row) *float64 { return r.ALLL }),
		floatColumn("Nonaccrual_Loans", func(r *Row) *float64 { return r.NonaccrualLoans }),
		floatColumn("Premises_Fixed_Assets", func(r *Row) *float64 { return r.PremisesFixedAssets }),
		floatColumn("Goodwill", func(r *Row) *float64 { return r.Goodwill }),
		floatColumn("Intangible_Assets", func(r *Row) *float64 { return r.IntangibleAssets }),

		intColumn("Total_Branches", func(r *Row) *int { return r.TotalBranches }),
		floatColumn("Total_Deposits_SOD", func(r *Row) *float64 { return r.TotalDepositsSOD }),
		floatColumn("Deposits_Per_Branch", func(r *Row) *float64 { return r.DepositsPerBranch }),
		floatColumn("Branch_Growth_YoY", func(r *Row) *float64 { return r.BranchGrowthYoY }),
		floatColumn("Branch_Efficiency_Percentile", func(r *Row) *float64 { return r.BranchEfficiencyPercentile }),

		{Name: "Has_10K", Value: func(r *Row) string { return fmtBool(r.Has10K) }},
		{Name: "Has_10Q", Value: func(r *Row) string { return fmtBool(r.Has10Q) }},
		{Name: "Has_DEF14A", Value: func(r *Row) string { return fmtBool(r.HasDEF14A) }},
		intColumn("Total_Annual_Filings", func(r *Row) *int { return r.TotalAnnualFilings }),
		intColumn("Filing_Count_10K", func(r *Row) *int { return r.FilingCount10K }),
		intColumn("Filing_Count_10Q", func(r *Row) *int { return r.FilingCount10Q }),
		intColumn("Filing_Count_DEF14A", func(r *Row) *int { return r.FilingCountDEF14A }),
		{Name: "Filing_Date_10K", Value: func(r *Row) string { return fmtDate(r.FilingDate10K) }},
		{Name: "Filing_Date_DEF14A", Value: func(r *Row) string { return fmtDate(r.FilingDateDEF14A) }},

		{Name: "Is_Public_Company", Value: func(r *Row) string { return fmtBool(r.IsPublicCompany) }},
		floatColumn("Asset_Growth_YoY", func(r *Row) *float64 { return r.AssetGrowthYoY }),
	}
}

// WriteCSV writes the panel to a CSV file, creating the directory if needed.
func WriteCSV(rows []Row, path string) error {
	timer := logging.StartTimer(logging.CategoryPanel, "WriteCSV")
	defer timer.StopWithInfo()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create panel file: %w", err)
	}
	defer f.Close()

	cols := Columns()
	w := csv.NewWriter(f)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Name
	}
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(cols))
	for i := range rows {
		for j, c := range cols {
			record[j] = c.Value(&rows[i])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush panel file: %w", err)
	}

	logging.Get(logging.CategoryPanel).Info("wrote %d rows x %d columns to %s", len(rows), len(cols), path)
	return nil
}
