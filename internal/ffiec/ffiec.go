// Package ffiec loads the FFIEC Call Report annual dataset and the bank
// registry that anchors the panel.
package ffiec

import (
	"fmt"

	"bankpanel/internal/csvio"
	"bankpanel/internal/logging"
)

// Record is one bank-year observation from the FFIEC annual dataset.
// Financial fields are pointers: a nil value means the bank did not report
// the item, which is distinct from reporting zero.
type Record struct {
	BankID   string
	RSSDID   string
	FDICCert int64 // 0 when missing
	BankName string
	Year     int

	// Balance sheet
	TotalAssets        *float64
	TotalDeposits      *float64
	TotalEquity        *float64
	TotalLiabilities   *float64
	NIBDeposits        *float64
	CashBalances       *float64
	SecuritiesAFS      *float64
	LoansNet           *float64
	OtherBorrowedMoney *float64

	// Income statement
	NetInterestIncome  *float64
	NoninterestIncome  *float64
	NoninterestExpense *float64

	// Asset quality
	ALLL            *float64
	NonaccrualLoans *float64

	// Innovation proxies
	PremisesFixedAssets *float64
	Goodwill            *float64
	IntangibleAssets    *float64
}

// RegistryEntry is one bank in the registry (one row per bank, not per year).
type RegistryEntry struct {
	RSSDID   string
	BankName string
}

// financialColumns maps CSV headers to Record fields.
var financialColumns = []struct {
	header string
	field  func(*Record) **float64
}{
	{"Total_Assets", func(r *Record) **float64 { return &r.TotalAssets }},
	{"Total_Deposits", func(r *Record) **float64 { return &r.TotalDeposits }},
	{"Total_Equity", func(r *Record) **float64 { return &r.TotalEquity }},
	{"Total_Liabilities", func(r *Record) **float64 { return &r.TotalLiabilities }},
	{"NIB_Deposits", func(r *Record) **float64 { return &r.NIBDeposits }},
	{"Cash_Balances", func(r *Record) **float64 { return &r.CashBalances }},
	{"Securities_AFS", func(r *Record) **float64 { return &r.SecuritiesAFS }},
	{"Loans_Net", func(r *Record) **float64 { return &r.LoansNet }},
	{"Other_Borrowed_Money", func(r *Record) **float64 { return &r.OtherBorrowedMoney }},
	{"Net_Interest_Income", func(r *Record) **float64 { return &r.NetInterestIncome }},
	{"Noninterest_Income", func(r *Record) **float64 { return &r.NoninterestIncome }},
	{"Noninterest_Expense", func(r *Record) **float64 { return &r.NoninterestExpense }},
	{"ALLL", func(r *Record) **float64 { return &r.ALLL }},
	{"Nonaccrual_Loans", func(r *Record) **float64 { return &r.NonaccrualLoans }},
	{"Premises_Fixed_Assets", func(r *Record) **float64 { return &r.PremisesFixedAssets }},
	{"Goodwill", func(r *Record) **float64 { return &r.Goodwill }},
	{"Intangible_Assets", func(r *Record) **float64 { return &r.IntangibleAssets }},
}

// LoadAnnual loads the FFIEC annual dataset. Rows missing RSSD_ID or Year
// are dropped and counted.
func LoadAnnual(path string) ([]Record, error) {
	timer := logging.StartTimer(logging.CategoryFFIEC, "LoadAnnual")
	defer timer.StopWithInfo()

	log := logging.Get(logging.CategoryFFIEC)

	tbl, err := csvio.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load FFIEC annual data: %w", err)
	}

	rssdCol, _, ok := tbl.FirstCol("RSSD_ID", "IDRSSD", "RSSDID")
	if !ok {
		return nil, fmt.Errorf("%s: no RSSD identifier column", path)
	}
	if _, ok := tbl.Col("Year"); !ok {
		return nil, fmt.Errorf("%s: no Year column", path)
	}

	records := make([]Record, 0, tbl.Len())
	dropped := 0
	for _, row := range tbl.Rows {
		rssd := tbl.Field(row, rssdCol)
		year, yearOK := csvio.ParseYear(tbl.Field(row, "Year"))
		if rssd == "" || !yearOK {
			dropped++
			continue
		}

		rec := Record{
			BankID:   tbl.Field(row, "BANK_ID"),
			RSSDID:   rssd,
			BankName: tbl.Field(row, "Bank_Name"),
			Year:     year,
		}
		if cert, ok := csvio.ParseInt(tbl.Field(row, "FDIC_Cert")); ok {
			rec.FDICCert = cert
		}
		for _, col := range financialColumns {
			if v, ok := csvio.ParseFloat(tbl.Field(row, col.header)); ok {
				val := v
				*col.field(&rec) = &val
			}
		}
		records = append(records, rec)
	}

	log.Info("loaded %d FFIEC records from %s (%d dropped)", len(records), path, dropped)
	return records, nil
}

// LoadRegistry loads the bank registry (RSSD_ID + Bank_Name per bank).
func LoadRegistry(path string) ([]RegistryEntry, error) {
	log := logging.Get(logging.CategoryFFIEC)

	tbl, err := csvio.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank registry: %w", err)
	}

	rssdCol, _, ok := tbl.FirstCol("RSSD_ID", "IDRSSD", "RSSDID")
	if !ok {
		return nil, fmt.Errorf("%s: no RSSD identifier column", path)
	}
	nameCol, _, ok := tbl.FirstCol("Bank_Name", "NAME", "Name")
	if !ok {
		return nil, fmt.Errorf("%s: no bank name column", path)
	}

	seen := make(map[string]bool)
	var entries []RegistryEntry
	for _, row := range tbl.Rows {
		rssd := tbl.Field(row, rssdCol)
		name := tbl.Field(row, nameCol)
		if rssd == "" || name == "" || seen[rssd] {
			continue
		}
		seen[rssd] = true
		entries = append(entries, RegistryEntry{RSSDID: rssd, BankName: name})
	}

	log.Info("loaded %d registry banks from %s", len(entries), path)
	return entries, nil
}
