package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"bankpanel/internal/logging"
	"bankpanel/internal/panel"
)

// Palette used throughout the dictionary.
var (
	headingColor = [3]int{31, 78, 120}
	accentColor  = [3]int{68, 114, 196}
	stripeColor  = [3]int{242, 242, 242}
)

// Dictionary renders the panel's data dictionary PDF.
type Dictionary struct {
	pdf     *fpdf.Fpdf
	quality *panel.QualityReport
	stats   map[string]panel.Summary
	now     time.Time
}

// NewDictionary prepares a dictionary for the given panel.
func NewDictionary(rows []panel.Row) *Dictionary {
	return &Dictionary{
		quality: panel.Quality(rows),
		stats:   panel.NumericSummaries(rows),
		now:     time.Now(),
	}
}

// Write renders the dictionary to the given path.
func (d *Dictionary) Write(path string) error {
	timer := logging.StartTimer(logging.CategoryReport, "Dictionary.Write")
	defer timer.Stop()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	d.pdf = fpdf.New("P", "mm", "Letter", "")
	d.pdf.SetMargins(19, 19, 19)
	d.pdf.SetAutoPageBreak(true, 19)
	d.pdf.SetFooterFunc(func() {
		d.pdf.SetY(-15)
		d.pdf.SetFont("Helvetica", "I", 8)
		d.pdf.SetTextColor(128, 128, 128)
		d.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", d.pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	d.titlePage()
	d.overviewSection()
	d.fieldSections()
	d.qualitySection()
	d.usageNotes()

	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	logging.Get(logging.CategoryReport).Info("wrote data dictionary to %s", path)
	return nil
}

func (d *Dictionary) heading1(text string) {
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.SetTextColor(headingColor[0], headingColor[1], headingColor[2])
	d.pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	d.pdf.Ln(2)
}

func (d *Dictionary) heading2(text string) {
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.SetTextColor(accentColor[0], accentColor[1], accentColor[2])
	d.pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	d.pdf.Ln(1)
}

func (d *Dictionary) body(text string) {
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(0, 5, text, "", "L", false)
	d.pdf.Ln(2)
}

func (d *Dictionary) titlePage() {
	d.pdf.AddPage()
	d.pdf.Ln(40)

	d.pdf.SetFont("Helvetica", "B", 28)
	d.pdf.SetTextColor(headingColor[0], headingColor[1], headingColor[2])
	d.pdf.CellFormat(0, 12, "BANK INNOVATION DATASET", "", 1, "C", false, 0, "")
	d.pdf.CellFormat(0, 12, "Data Dictionary", "", 1, "C", false, 0, "")
	d.pdf.Ln(6)

	d.pdf.SetFont("Helvetica", "", 14)
	d.pdf.SetTextColor(accentColor[0], accentColor[1], accentColor[2])
	d.pdf.CellFormat(0, 8, "Complete Reference for the Bank-Year Panel", "", 1, "C", false, 0, "")
	d.pdf.Ln(20)

	yearRange := "N/A"
	if d.quality.TotalRecords > 0 {
		yearRange = fmt.Sprintf("%d-%d", d.quality.MinYear, d.quality.MaxYear)
	}
	info := [][2]string{
		{"Dataset Version:", "1.0"},
		{"Documentation Date:", d.now.Format("January 2, 2006")},
		{"Data Period:", yearRange},
		{"Data Sources:", "FFIEC Call Reports, SOD, Edgar SEC Filings"},
	}
	for _, row := range info {
		d.pdf.SetFont("Helvetica", "B", 11)
		d.pdf.SetTextColor(0, 0, 0)
		d.pdf.CellFormat(60, 8, row[0], "", 0, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 11)
		d.pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
	d.pdf.Ln(16)

	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.CellFormat(0, 6, "Purpose:", "", 1, "L", false, 0, "")
	d.body("This data dictionary documents the Bank Innovation Dataset, which integrates " +
		"financial performance data, branch network metrics, and SEC filing information " +
		"for U.S. banking institutions. The dataset supports research on bank innovation, " +
		"digital transformation, and competitive strategy.")
}

func (d *Dictionary) overviewSection() {
	d.pdf.AddPage()
	d.heading1("1. DATASET OVERVIEW")

	yearRange := "N/A"
	if d.quality.TotalRecords > 0 {
		yearRange = fmt.Sprintf("%d-%d", d.quality.MinYear, d.quality.MaxYear)
	}
	d.body(fmt.Sprintf("The Bank Innovation Dataset combines regulatory filings, branch network "+
		"data, and SEC disclosures into one panel of U.S. banking institutions. The dataset "+
		"contains %d bank-year observations covering %d unique banks over the period %s, "+
		"with %d variables spanning financial performance, branch efficiency, and public filings. "+
		"The panel has one row per bank per year, keyed by RSSD_ID and Year.",
		d.quality.TotalRecords, d.quality.UniqueBanks, yearRange, len(panel.Columns())))

	d.heading2("1.1 Data Sources")
	d.tableHeader([]string{"Source", "Description", "Coverage"}, []float64{42, 90, 45})
	rows := [][]string{
		{"FFIEC Call Reports", "Quarterly regulatory filings with detailed financial data", "100% of banks (regulatory requirement)"},
		{"SOD (Summary of Deposits)", "Branch-level deposit data collected annually by FDIC", "~95% of banks (branch-based institutions)"},
		{"Edgar SEC Filings", "10-K, 10-Q, and DEF 14A filings for public companies", "~2-3% of banks (publicly-traded only)"},
	}
	for i, row := range rows {
		d.tableRow(row, []float64{42, 90, 45}, i%2 == 1)
	}
	d.pdf.Ln(5)

	d.heading2("1.2 Unit Conventions")
	d.body("Financial Values: all dollar amounts are reported in thousands of USD unless " +
		"otherwise noted. For example, Total_Assets = 1,000,000 represents $1 billion in assets.")
	d.body("Percentages: growth rates and ratios are expressed as decimals. For example, " +
		"Asset_Growth_YoY = 0.08 represents 8% growth.")
	d.body("Dates: all dates follow ISO 8601 format (YYYY-MM-DD).")
}

func (d *Dictionary) fieldSections() {
	d.pdf.AddPage()
	d.heading1("2. FIELD DEFINITIONS")

	for i, source := range SourceOrder {
		fields := FieldsBySource(source)
		if len(fields) == 0 {
			continue
		}
		if i > 0 {
			d.pdf.AddPage()
		}
		d.heading2(source)
		for _, f := range fields {
			d.fieldEntry(f)
		}
	}
}

func (d *Dictionary) fieldEntry(f FieldDef) {
	// Keep the field header and its rows on one page.
	if d.pdf.GetY() > 230 {
		d.pdf.AddPage()
	}

	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.SetTextColor(headingColor[0], headingColor[1], headingColor[2])
	d.pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s)", f.Name, f.Type), "", 1, "L", false, 0, "")

	rows := [][2]string{
		{"Unit:", f.Unit},
		{"Example:", f.Example},
		{"Description:", f.Description},
	}
	for _, row := range rows {
		d.pdf.SetFont("Helvetica", "B", 9)
		d.pdf.SetTextColor(0, 0, 0)
		d.pdf.CellFormat(26, 5, row[0], "", 0, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 9)
		d.pdf.MultiCell(0, 5, row[1], "", "L", false)
	}
	d.pdf.Ln(3)
}

func (d *Dictionary) qualitySection() {
	d.pdf.AddPage()
	d.heading1("3. DATA QUALITY METRICS")

	d.heading2("3.1 Field Completeness")
	d.body("The following tables show the percentage of non-null values for each field. " +
		"100% indicates every record has a value; lower percentages indicate missing data. " +
		"Boolean indicators always carry a value, so the count of True rows is shown instead.")

	for _, source := range SourceOrder {
		fields := FieldsBySource(source)
		if len(fields) == 0 {
			continue
		}
		if d.pdf.GetY() > 210 {
			d.pdf.AddPage()
		}
		d.pdf.SetFont("Helvetica", "B", 10)
		d.pdf.SetTextColor(0, 0, 0)
		d.pdf.CellFormat(0, 6, source, "", 1, "L", false, 0, "")

		d.tableHeader([]string{"Field", "Completeness"}, []float64{90, 40})
		for i, f := range fields {
			value := ""
			if pct, ok := d.quality.Completeness[f.Name]; ok {
				value = fmt.Sprintf("%.1f%%", pct)
			} else if count, ok := d.quality.TrueCount[f.Name]; ok {
				value = fmt.Sprintf("%d True", count)
			}
			if value == "" {
				continue
			}
			d.tableRow([]string{f.Name, value}, []float64{90, 40}, i%2 == 1)
		}
		d.pdf.Ln(4)
	}

	d.pdf.AddPage()
	d.heading2("3.2 Descriptive Statistics")
	d.body("Summary statistics for the numeric columns with at least one observation.")

	widths := []float64{58, 22, 22, 28, 28, 28}
	d.tableHeader([]string{"Field", "Non-Null", "Pct", "Min", "Max", "Mean"}, widths)
	stripe := false
	for _, f := range FieldDefinitions {
		s, ok := d.stats[f.Name]
		if !ok || s.NonNull == 0 {
			continue
		}
		if d.pdf.GetY() > 240 {
			d.pdf.AddPage()
			d.tableHeader([]string{"Field", "Non-Null", "Pct", "Min", "Max", "Mean"}, widths)
		}
		d.tableRow([]string{
			f.Name,
			fmt.Sprintf("%d", s.NonNull),
			fmt.Sprintf("%.1f%%", s.Pct),
			formatStat(s.Min),
			formatStat(s.Max),
			formatStat(s.Mean),
		}, widths, stripe)
		stripe = !stripe
	}
	d.pdf.Ln(4)

	d.heading2("3.3 Known Limitations and Missing Data")
	d.body("Edgar SEC Filings (Low Coverage): only 2-3% of banks are publicly traded and " +
		"required to file with the SEC. The remaining banks are private institutions with no " +
		"Edgar data. This is expected for the dataset structure.")
	d.body("SOD Branch Data (~95% Coverage): some banks do not operate physical branches " +
		"(e.g., online-only banks, credit card banks, trust companies) and thus do not appear " +
		"in SOD data.")
	d.body("FFIEC Asset Quality Fields (Variable Coverage): fields like Nonaccrual_Loans and " +
		"Goodwill have lower completeness because not all banks report these items. This " +
		"reflects legitimate differences in business models rather than data quality issues.")
	d.body("RCON vs RCFD Codes: most banks report only domestic operations (RCON codes). Only " +
		"large multinational banks report consolidated operations (RCFD codes). The dataset " +
		"prioritizes RCON codes for compatibility.")
}

func (d *Dictionary) usageNotes() {
	d.pdf.AddPage()
	d.heading1("4. USAGE NOTES")

	d.heading2("4.1 Matching Across Datasets")
	d.body("Primary Key: RSSD_ID + Year uniquely identifies each observation.")
	d.body("Cross-Dataset Matching: RSSD_ID is used for all Federal Reserve and FFIEC data. " +
		"FDIC_Cert is used for FDIC data including SOD. The SEC CIK identifier (not included " +
		"in this dataset) links Edgar filings during construction.")
	d.body("Bank Name Matching: bank names may change due to mergers, acquisitions, or " +
		"rebranding. Always use RSSD_ID for reliable matching across time.")

	d.heading2("4.2 Recommended Analyses")
	d.body("Innovation Metrics: Deposits_Per_Branch (digital adoption or efficient branch " +
		"strategy), Branch_Growth_YoY (negative growth may signal digital transformation), " +
		"Noninterest_Income / Total_Assets (product diversification), and " +
		"Intangible_Assets / Total_Assets (technology investment proxy).")
	d.body("Efficiency Metrics: Noninterest_Expense / (Net_Interest_Income + " +
		"Noninterest_Income) gives the efficiency ratio; NIB_Deposits / Total_Deposits " +
		"measures the low-cost funding advantage.")
	d.body("Growth Metrics: Asset_Growth_YoY is the overall growth indicator; compare to " +
		"Branch_Growth_YoY to assess digital vs. physical expansion.")

	d.heading2("4.3 Citation")
	d.body("When using this dataset in academic research, please cite the data sources: " +
		"Federal Financial Institutions Examination Council, \"Consolidated Reports of " +
		"Condition and Income\"; Federal Deposit Insurance Corporation, \"Summary of " +
		"Deposits\"; U.S. Securities and Exchange Commission, \"Edgar Database\".")
}

func (d *Dictionary) tableHeader(labels []string, widths []float64) {
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFillColor(accentColor[0], accentColor[1], accentColor[2])
	for i, label := range labels {
		d.pdf.CellFormat(widths[i], 7, label, "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *Dictionary) tableRow(cells []string, widths []float64, stripe bool) {
	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetTextColor(0, 0, 0)
	if stripe {
		d.pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
	} else {
		d.pdf.SetFillColor(255, 255, 255)
	}
	for i, cell := range cells {
		d.pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
}

func formatStat(v float64) string {
	if v == float64(int64(v)) && v > -1e15 && v < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4f", v)
}
