// Package report renders the PDF data dictionary for the merged panel.
package report

// FieldDef documents one column of the output panel.
type FieldDef struct {
	Name        string
	Source      string
	Description string
	Type        string
	Unit        string
	Example     string
}

// Source section names, in display order.
const (
	SourceIdentifier   = "Identifier"
	SourceFFIEC        = "FFIEC Call Report"
	SourceSOD          = "SOD (Summary of Deposits)"
	SourceSODDerived   = "SOD (Calculated)"
	SourceEdgar        = "Edgar SEC Filings"
	SourceEdgarDerived = "Edgar (Derived)"
	SourceCalculated   = "Calculated"
)

// SourceOrder lists the section order used by the dictionary.
var SourceOrder = []string{
	SourceIdentifier,
	SourceFFIEC,
	SourceSOD,
	SourceSODDerived,
	SourceEdgar,
	SourceEdgarDerived,
	SourceCalculated,
}

// FieldDefinitions documents every panel column, in output column order
// within each source.
var FieldDefinitions = []FieldDef{
	{
		Name:        "BANK_ID",
		Source:      SourceIdentifier,
		Description: "Unique internal bank identifier assigned sequentially (BANK_0001, BANK_0002, etc.)",
		Type:        "String",
		Unit:        "N/A",
		Example:     "BANK_0001",
	},
	{
		Name:        "RSSD_ID",
		Source:      SourceIdentifier,
		Description: "Federal Reserve Research, Statistics, Supervision, Discount, and Credit (RSSD) identifier. Primary key for matching across regulatory datasets.",
		Type:        "String",
		Unit:        "N/A",
		Example:     "123456",
	},
	{
		Name:        "IDRSSD",
		Source:      SourceIdentifier,
		Description: "Same as RSSD_ID. Preserved for backward compatibility with raw FFIEC data.",
		Type:        "String",
		Unit:        "N/A",
		Example:     "123456",
	},
	{
		Name:        "FDIC_Cert",
		Source:      SourceIdentifier,
		Description: "FDIC Certificate Number. Unique identifier for FDIC-insured institutions.",
		Type:        "Integer",
		Unit:        "N/A",
		Example:     "12345",
	},
	{
		Name:        "Bank_Name",
		Source:      SourceIdentifier,
		Description: "Official legal name of the financial institution as reported to regulators.",
		Type:        "String",
		Unit:        "N/A",
		Example:     "First National Bank",
	},
	{
		Name:        "Year",
		Source:      SourceIdentifier,
		Description: "Calendar year of the observation (2010-2021).",
		Type:        "Integer",
		Unit:        "Year",
		Example:     "2020",
	},

	{
		Name:        "Total_Assets",
		Source:      SourceFFIEC,
		Description: "Total assets reported on the balance sheet. Represents all resources owned or controlled by the bank. From RCON2170 (domestic) or RCFD2170 (consolidated).",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "1000000 (= $1 billion)",
	},
	{
		Name:        "Total_Deposits",
		Source:      SourceFFIEC,
		Description: "Total deposits including demand deposits, savings deposits, and time deposits. Primary funding source for banks. From RCON2200 or RCFD2200.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "800000 (= $800 million)",
	},
	{
		Name:        "Total_Equity",
		Source:      SourceFFIEC,
		Description: "Total equity capital including common stock, surplus, and retained earnings. Represents shareholders' equity. From RCON3210 or RCFD3210.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "100000 (= $100 million)",
	},
	{
		Name:        "Total_Liabilities",
		Source:      SourceFFIEC,
		Description: "Total liabilities including all deposits, borrowed money, and other obligations. From RCON2948 or RCFD2948.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "900000 (= $900 million)",
	},
	{
		Name:        "NIB_Deposits",
		Source:      SourceFFIEC,
		Description: "Noninterest-bearing deposits (e.g., checking accounts). High proportion indicates strong customer relationships and low funding costs. From RCON6631 or RCFD6631.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "200000 (= $200 million)",
	},
	{
		Name:        "Cash_Balances",
		Source:      SourceFFIEC,
		Description: "Cash and balances due from depository institutions. Includes vault cash and deposits at other banks. From RCON0081 or RCFD0081.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "50000 (= $50 million)",
	},
	{
		Name:        "Securities_AFS",
		Source:      SourceFFIEC,
		Description: "Securities available for sale. Investment securities that can be sold before maturity. From RCON1773 or RCFD1773.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "150000 (= $150 million)",
	},
	{
		Name:        "Loans_Net",
		Source:      SourceFFIEC,
		Description: "Total loans and leases net of unearned income and allowance for loan losses. Primary earning asset for banks. From RCONB528 or RCFDB528.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "600000 (= $600 million)",
	},
	{
		Name:        "Other_Borrowed_Money",
		Source:      SourceFFIEC,
		Description: "Borrowed funds from sources other than deposits (e.g., Federal Home Loan Bank advances, Fed funds purchased). From RCON3190 or RCFD3190.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "50000 (= $50 million)",
	},
	{
		Name:        "Net_Interest_Income",
		Source:      SourceFFIEC,
		Description: "Net interest income (interest income minus interest expense). Primary source of bank revenue. From RIAD4074 or RIAD4065.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "40000 (= $40 million)",
	},
	{
		Name:        "Noninterest_Income",
		Source:      SourceFFIEC,
		Description: "Income from sources other than interest (e.g., fees, service charges, trading income). Innovation indicator for diversified revenue. From RIAD4079 or RIAD4080.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "10000 (= $10 million)",
	},
	{
		Name:        "Noninterest_Expense",
		Source:      SourceFFIEC,
		Description: "Operating expenses excluding interest expense (e.g., salaries, occupancy, technology costs). From RIAD4093 or RIAD4135.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "35000 (= $35 million)",
	},
	{
		Name:        "ALLL",
		Source:      SourceFFIEC,
		Description: "Allowance for Loan and Lease Losses. Reserve for expected credit losses. Higher values indicate higher risk loans. From RCON3123 or RCFD3123.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "8000 (= $8 million)",
	},
	{
		Name:        "Nonaccrual_Loans",
		Source:      SourceFFIEC,
		Description: "Loans on nonaccrual status (90+ days past due or otherwise impaired). Asset quality indicator. From RCON1403 or RCFD1403.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "3000 (= $3 million)",
	},
	{
		Name:        "Premises_Fixed_Assets",
		Source:      SourceFFIEC,
		Description: "Premises and fixed assets including buildings, equipment, and furniture. Proxy for physical infrastructure investment. From RCON2145 or RCFD2145.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "15000 (= $15 million)",
	},
	{
		Name:        "Goodwill",
		Source:      SourceFFIEC,
		Description: "Goodwill from business combinations. Present for banks that have made acquisitions. From RCON3163 or RCFD3163.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "5000 (= $5 million)",
	},
	{
		Name:        "Intangible_Assets",
		Source:      SourceFFIEC,
		Description: "Identifiable intangible assets including software, core deposit intangibles, and other intellectual property. Innovation indicator. From RCON2143, RCFD2143, RCON0426, or RCFD0426.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "2000 (= $2 million)",
	},

	{
		Name:        "Total_Branches",
		Source:      SourceSOD,
		Description: "Total number of physical branch locations as of June 30. Indicator of distribution strategy and market presence.",
		Type:        "Integer",
		Unit:        "Count",
		Example:     "25",
	},
	{
		Name:        "Total_Deposits_SOD",
		Source:      SourceSOD,
		Description: "Total deposits across all branches as reported in SOD. Should closely match FFIEC Total_Deposits but may differ due to timing and scope.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "800000 (= $800 million)",
	},
	{
		Name:        "Deposits_Per_Branch",
		Source:      SourceSODDerived,
		Description: "Average deposits per branch (Total_Deposits_SOD / Total_Branches). Key efficiency and innovation metric - higher values suggest digital adoption or efficient branch strategy.",
		Type:        "Float",
		Unit:        "Thousands of USD",
		Example:     "32000 (= $32 million per branch)",
	},
	{
		Name:        "Branch_Growth_YoY",
		Source:      SourceSODDerived,
		Description: "Year-over-year percentage change in branch count ((Branches_t - Branches_t-1) / Branches_t-1). Negative growth may indicate digital transformation.",
		Type:        "Float",
		Unit:        "Percentage (decimal)",
		Example:     "-0.05 (= -5% branch reduction)",
	},
	{
		Name:        "Branch_Efficiency_Percentile",
		Source:      SourceSODDerived,
		Description: "Percentile rank of Deposits_Per_Branch within each year. Values from 0 to 1, where 1.0 = highest efficiency.",
		Type:        "Float",
		Unit:        "Percentile (0-1)",
		Example:     "0.75 (= 75th percentile)",
	},

	{
		Name:        "Has_10K",
		Source:      SourceEdgar,
		Description: "Boolean indicator of whether bank filed annual 10-K report with SEC. TRUE only for publicly-traded banks.",
		Type:        "Boolean",
		Unit:        "True/False",
		Example:     "True",
	},
	{
		Name:        "Has_10Q",
		Source:      SourceEdgar,
		Description: "Boolean indicator of whether bank filed quarterly 10-Q reports with SEC. TRUE only for publicly-traded banks.",
		Type:        "Boolean",
		Unit:        "True/False",
		Example:     "True",
	},
	{
		Name:        "Has_DEF14A",
		Source:      SourceEdgar,
		Description: "Boolean indicator of whether bank filed DEF 14A proxy statement with SEC. Contains board and governance information.",
		Type:        "Boolean",
		Unit:        "True/False",
		Example:     "False",
	},
	{
		Name:        "Total_Annual_Filings",
		Source:      SourceEdgar,
		Description: "Total count of all SEC filings (10-K, DEF 14A, etc.) made during the year.",
		Type:        "Integer",
		Unit:        "Count",
		Example:     "12",
	},
	{
		Name:        "Filing_Count_10K",
		Source:      SourceEdgar,
		Description: "Count of 10-K filings for the year (typically 1, but may include amendments).",
		Type:        "Integer",
		Unit:        "Count",
		Example:     "1",
	},
	{
		Name:        "Filing_Count_10Q",
		Source:      SourceEdgar,
		Description: "Count of 10-Q filings for the year (typically 3: Q1, Q2, Q3. Q4 is covered by 10-K).",
		Type:        "Integer",
		Unit:        "Count",
		Example:     "3",
	},
	{
		Name:        "Filing_Count_DEF14A",
		Source:      SourceEdgar,
		Description: "Count of DEF 14A proxy statements filed during the year (typically 1 for annual meeting).",
		Type:        "Integer",
		Unit:        "Count",
		Example:     "1",
	},
	{
		Name:        "Filing_Date_10K",
		Source:      SourceEdgar,
		Description: "Date of first 10-K filing during the year.",
		Type:        "Date",
		Unit:        "YYYY-MM-DD",
		Example:     "2020-03-15",
	},
	{
		Name:        "Filing_Date_DEF14A",
		Source:      SourceEdgar,
		Description: "Date of first DEF 14A filing during the year.",
		Type:        "Date",
		Unit:        "YYYY-MM-DD",
		Example:     "2020-04-10",
	},
	{
		Name:        "Is_Public_Company",
		Source:      SourceEdgarDerived,
		Description: "Boolean indicator of whether bank is publicly traded (Has_10K = True). Public companies subject to SEC reporting requirements.",
		Type:        "Boolean",
		Unit:        "True/False",
		Example:     "True",
	},

	{
		Name:        "Asset_Growth_YoY",
		Source:      SourceCalculated,
		Description: "Year-over-year percentage growth in Total_Assets ((Assets_t - Assets_t-1) / Assets_t-1). Growth indicator and innovation proxy.",
		Type:        "Float",
		Unit:        "Percentage (decimal)",
		Example:     "0.08 (= 8% growth)",
	},
}

// FieldsBySource returns the field definitions for one source section,
// preserving declaration order.
func FieldsBySource(source string) []FieldDef {
	var fields []FieldDef
	for _, f := range FieldDefinitions {
		if f.Source == source {
			fields = append(fields, f)
		}
	}
	return fields
}

// LookupField returns the definition for a column name.
func LookupField(name string) (FieldDef, bool) {
	for _, f := range FieldDefinitions {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}
