package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bankpanel/cmd/bankpanel/ui"
	"bankpanel/internal/edgar"
	"bankpanel/internal/ffiec"
	"bankpanel/internal/match"
	"bankpanel/internal/panel"
	"bankpanel/internal/report"
	"bankpanel/internal/sod"
	"bankpanel/internal/store"
)

var rebuildMapping bool

// buildCmd runs the full pipeline
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the full pipeline and write the panel CSV",
	Long: `Runs every pipeline step in order: load FFIEC Call Report data, load
and aggregate SOD branch data, build (or reuse) the CIK-RSSD mapping,
aggregate Edgar filing metrics, merge everything into the bank-year
panel, derive growth and efficiency metrics, and write the panel CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := buildPanel(cmd.Context(), st)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := panel.WriteCSV(rows, cfg.PanelPath()); err != nil {
			recordStep(st, "write", 0, start, err)
			return err
		}
		recordStep(st, "write", len(rows), start, nil)

		logger.Info("panel written",
			zap.String("path", cfg.PanelPath()),
			zap.Int("rows", len(rows)))
		fmt.Printf("Wrote %d bank-year observations to %s\n", len(rows), cfg.PanelPath())

		printQuality(panel.Quality(rows))
		return nil
	},
}

// sodCmd loads and aggregates the SOD branch files
var sodCmd = &cobra.Command{
	Use:   "sod",
	Short: "Load and aggregate the SOD branch files",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		bankYears, err := loadSOD(cmd.Context(), st)
		if err != nil {
			return err
		}

		styles := ui.DefaultStyles()
		byYear := make(map[int]int)
		for _, by := range bankYears {
			byYear[by.Year]++
		}
		years := sortedKeys(byYear)

		table := ui.NewTable("SOD Bank-Years", "Year", "Banks")
		for _, year := range years {
			table.AddRow(fmt.Sprintf("%d", year), fmt.Sprintf("%d", byYear[year]))
		}
		fmt.Print(table.View(styles))
		fmt.Printf("Total: %d bank-year aggregates\n", len(bankYears))
		return nil
	},
}

// matchCmd builds or shows the CIK-RSSD mapping
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Build the CIK-RSSD name mapping",
	Long: `Fuzzy-matches Edgar company names against the FFIEC bank registry and
caches the resulting CIK-RSSD mapping in SQLite. Subsequent runs reuse
the cache; pass --rebuild to force a fresh match.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		mappings, err := getMapping(st, rebuildMapping)
		if err != nil {
			return err
		}

		styles := ui.DefaultStyles()
		table := ui.NewTable("CIK-RSSD Mapping (sample)", "CIK", "RSSD_ID", "Score", "Edgar Name", "FFIEC Name")
		for i, m := range mappings {
			if i >= 15 {
				break
			}
			table.AddRow(m.CIK, m.RSSDID, fmt.Sprintf("%d", m.Score), m.EdgarName, m.FFIECName)
		}
		fmt.Print(table.View(styles))
		fmt.Printf("Total: %d matched institutions (threshold %d)\n", len(mappings), cfg.Match.Threshold)
		return nil
	},
}

// edgarCmd aggregates Edgar filing metrics
var edgarCmd = &cobra.Command{
	Use:   "edgar",
	Short: "Aggregate Edgar filing metrics per bank-year",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		mappings, err := getMapping(st, false)
		if err != nil {
			return err
		}

		annual, quarterly, err := loadEdgarMetrics(st, mappings)
		if err != nil {
			return err
		}

		fmt.Printf("Annual filing metrics:    %d bank-years\n", len(annual))
		fmt.Printf("Quarterly filing metrics: %d bank-years\n", len(quarterly))
		return nil
	},
}

// mergeCmd builds and writes the panel without the quality report
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the sources and write the panel CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := buildPanel(cmd.Context(), st)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := panel.WriteCSV(rows, cfg.PanelPath()); err != nil {
			recordStep(st, "write", 0, start, err)
			return err
		}
		recordStep(st, "write", len(rows), start, nil)
		fmt.Printf("Wrote %d bank-year observations to %s\n", len(rows), cfg.PanelPath())
		return nil
	},
}

// qualityCmd runs the pipeline and prints the quality report
var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Build the panel in memory and print the quality report",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := buildPanel(cmd.Context(), st)
		if err != nil {
			return err
		}
		printQuality(panel.Quality(rows))
		return nil
	},
}

// reportCmd generates the PDF data dictionary
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the PDF data dictionary",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := buildPanel(cmd.Context(), st)
		if err != nil {
			return err
		}

		start := time.Now()
		dict := report.NewDictionary(rows)
		if err := dict.Write(cfg.DictionaryPath()); err != nil {
			recordStep(st, "report", 0, start, err)
			return err
		}
		recordStep(st, "report", len(rows), start, nil)

		fmt.Printf("Wrote data dictionary to %s\n", cfg.DictionaryPath())
		return nil
	},
}

// statusCmd shows store statistics and recent pipeline runs
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store statistics and recent pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.GetStats()
		if err != nil {
			return err
		}
		fmt.Printf("Cached mappings: %d\n", stats["cik_rssd_mapping"])
		fmt.Printf("Recorded runs:   %d\n\n", stats["pipeline_runs"])

		runs, err := st.RecentRuns(10)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return nil
		}

		styles := ui.DefaultStyles()
		table := ui.NewTable("Recent Runs", "Step", "Records", "Duration", "Status")
		for _, r := range runs {
			table.AddRow(r.Step, fmt.Sprintf("%d", r.Records), r.Duration.String(), r.Status)
		}
		fmt.Print(table.View(styles))
		return nil
	},
}

func init() {
	matchCmd.Flags().BoolVar(&rebuildMapping, "rebuild", false, "Discard the cached mapping and re-match")
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.Store.DatabasePath)
}

// recordStep logs a pipeline step to the runs table. Recording failures are
// logged but never fail the step itself.
func recordStep(st *store.Store, step string, records int, start time.Time, stepErr error) {
	if _, err := st.RecordRun(step, records, time.Since(start), stepErr); err != nil {
		logger.Warn("failed to record pipeline run", zap.String("step", step), zap.Error(err))
	}
}

func loadFFIEC(st *store.Store) ([]ffiec.Record, error) {
	start := time.Now()
	records, err := ffiec.LoadAnnual(cfg.AnnualPath())
	recordStep(st, "ffiec", len(records), start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load FFIEC data: %w", err)
	}
	logger.Info("loaded FFIEC records", zap.Int("count", len(records)))
	return records, nil
}

func loadSOD(ctx context.Context, st *store.Store) ([]sod.BankYear, error) {
	start := time.Now()
	branches, err := sod.LoadDir(ctx, cfg.Data.Dir, cfg.Data.SODPattern)
	if err != nil {
		recordStep(st, "sod", 0, start, err)
		return nil, fmt.Errorf("failed to load SOD data: %w", err)
	}
	bankYears := sod.Summarize(branches)
	recordStep(st, "sod", len(bankYears), start, nil)
	logger.Info("aggregated SOD data",
		zap.Int("branches", len(branches)),
		zap.Int("bank_years", len(bankYears)))
	return bankYears, nil
}

// getMapping returns the CIK-RSSD mapping, from the SQLite cache when
// present. rebuild forces a fresh fuzzy match.
func getMapping(st *store.Store, rebuild bool) ([]match.Mapping, error) {
	if rebuild {
		if err := st.ClearMapping(); err != nil {
			return nil, err
		}
	} else {
		cached, err := st.LoadMapping()
		if err != nil {
			return nil, err
		}
		if cached != nil {
			logger.Info("using cached CIK-RSSD mapping", zap.Int("count", len(cached)))
			return cached, nil
		}
	}

	start := time.Now()

	// Edgar only covers public banks. No company file means no Edgar
	// integration, not a failed run; the panel degrades to FFIEC+SOD.
	// The empty mapping is not cached so a later run retries the match.
	companies, err := edgar.LoadCompanies(cfg.CompanyPath())
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Edgar company file missing, skipping Edgar integration",
			zap.String("path", cfg.CompanyPath()))
		recordStep(st, "match", 0, start, nil)
		return nil, nil
	}
	if err != nil {
		recordStep(st, "match", 0, start, err)
		return nil, fmt.Errorf("failed to load Edgar companies: %w", err)
	}

	registry, err := ffiec.LoadRegistry(cfg.RegistryPath())
	if err != nil {
		recordStep(st, "match", 0, start, err)
		return nil, fmt.Errorf("failed to load bank registry: %w", err)
	}

	banks := make([]match.Entity, len(registry))
	for i, r := range registry {
		banks[i] = match.Entity{ID: r.RSSDID, Name: r.BankName}
	}
	targets := make([]match.Entity, len(companies))
	for i, c := range companies {
		targets[i] = match.Entity{ID: c.CIK, Name: c.Name}
	}

	logger.Info("fuzzy matching bank names",
		zap.Int("banks", len(banks)),
		zap.Int("companies", len(targets)),
		zap.Int("threshold", cfg.Match.Threshold))
	mappings := match.BuildMapping(banks, targets, cfg.Match.Threshold, cfg.Match.ProgressEvery)
	recordStep(st, "match", len(mappings), start, nil)

	if err := st.SaveMapping(mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// loadEdgarMetrics aggregates the Edgar filing files. Edgar only covers
// public banks, so a missing filings file yields empty metrics rather
// than a failed run.
func loadEdgarMetrics(st *store.Store, mappings []match.Mapping) ([]edgar.AnnualMetrics, []edgar.QuarterlyMetrics, error) {
	start := time.Now()

	var annual []edgar.AnnualMetrics
	annualFilings, err := edgar.LoadFilings(cfg.AnnualFilingsPath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("annual filings file missing, skipping Edgar annual metrics",
			zap.String("path", cfg.AnnualFilingsPath()))
	case err != nil:
		recordStep(st, "edgar", 0, start, err)
		return nil, nil, fmt.Errorf("failed to load annual filings: %w", err)
	default:
		annual = edgar.AggregateAnnual(annualFilings, mappings)
	}

	var quarterly []edgar.QuarterlyMetrics
	quarterlyFilings, err := edgar.LoadFilings(cfg.QuarterlyFilingsPath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("quarterly filings file missing, skipping Edgar quarterly metrics",
			zap.String("path", cfg.QuarterlyFilingsPath()))
	case err != nil:
		recordStep(st, "edgar", 0, start, err)
		return nil, nil, fmt.Errorf("failed to load quarterly filings: %w", err)
	default:
		quarterly = edgar.AggregateQuarterly(quarterlyFilings, mappings)
	}

	recordStep(st, "edgar", len(annual)+len(quarterly), start, nil)
	return annual, quarterly, nil
}

// buildPanel runs every pipeline step and returns the derived panel rows.
func buildPanel(ctx context.Context, st *store.Store) ([]panel.Row, error) {
	records, err := loadFFIEC(st)
	if err != nil {
		return nil, err
	}

	bankYears, err := loadSOD(ctx, st)
	if err != nil {
		return nil, err
	}

	mappings, err := getMapping(st, false)
	if err != nil {
		return nil, err
	}

	annual, quarterly, err := loadEdgarMetrics(st, mappings)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows := panel.Build(records, bankYears, annual, quarterly, cfg.Years.Min, cfg.Years.Max)
	rows = panel.Derive(rows)
	recordStep(st, "merge", len(rows), start, nil)

	logger.Info("panel built", zap.Int("rows", len(rows)))
	return rows, nil
}

func printQuality(q *panel.QualityReport) {
	styles := ui.DefaultStyles()

	fmt.Println(styles.Title.Render("Panel Quality Report"))
	fmt.Printf("Records:      %d\n", q.TotalRecords)
	fmt.Printf("Unique banks: %d\n", q.UniqueBanks)
	if q.TotalRecords > 0 {
		fmt.Printf("Years:        %d-%d\n", q.MinYear, q.MaxYear)
	}
	fmt.Println()

	for _, group := range panel.KeyFieldGroups {
		table := ui.NewTable(group.Name, "Field", "Coverage")
		for _, field := range group.Fields {
			if pct, ok := q.Completeness[field]; ok {
				table.AddRow(field, fmt.Sprintf("%.1f%%", pct))
			} else if count, ok := q.TrueCount[field]; ok {
				table.AddRow(field, fmt.Sprintf("%d True", count))
			}
		}
		fmt.Print(table.View(styles))
	}

	if len(q.ByYear) > 0 {
		table := ui.NewTable("Coverage by Year", "Year", "Banks", "With SOD", "With 10-K")
		for _, yc := range q.ByYear {
			table.AddRow(
				fmt.Sprintf("%d", yc.Year),
				fmt.Sprintf("%d", yc.TotalBanks),
				fmt.Sprintf("%d", yc.WithSOD),
				fmt.Sprintf("%d", yc.With10K),
			)
		}
		fmt.Print(table.View(styles))
	}
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
