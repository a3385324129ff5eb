// Package main provides the CLI entrypoint for wrecks.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/config"
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/dashui"
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/dataset"
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/stats"
	"github.com/didi520rain/cs230-shipwreck-explorer/internal/store"
)

const (
	defaultView       = "map"
	defaultReportView = "all"
)

var (
	configPath string
	verbose    bool

	dashData     string
	dashDB       string
	dashFrom     int
	dashTo       int
	dashTypes    []string
	dashMinLives int
	dashView     string

	reportData     string
	reportDB       string
	reportFrom     int
	reportTo       int
	reportTypes    []string
	reportMinLives int
	reportView     string
	reportWidth    int

	importData  string
	importDB    string
	importForce bool

	typesData string
	typesDB   string

	logger *zap.Logger
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wrecks",
		Short:         "Explore the Great Lakes shipwreck dataset",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// The dashboard owns the terminal; zap would write over it.
			if cmd.Name() == "wrecks" {
				return nil
			}
			cfg := zap.NewProductionConfig()
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: XDG config dir)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.Flags().StringVar(&dashData, "data", "", "shipwreck CSV to load instead of the snapshot")
	rootCmd.Flags().StringVar(&dashDB, "db", "", "SQLite snapshot path (default: XDG data dir)")
	rootCmd.Flags().IntVar(&dashFrom, "from", 0, "lower year bound (default: first year in the dataset)")
	rootCmd.Flags().IntVar(&dashTo, "to", 0, "upper year bound (default: last year in the dataset)")
	rootCmd.Flags().StringSliceVar(&dashTypes, "types", nil, "vessel types to include (default: all)")
	rootCmd.Flags().IntVar(&dashMinLives, "min-lives", 0, "minimum lives lost")
	rootCmd.Flags().StringVar(&dashView, "view", defaultView, "starting view: map, types, trend or deadliest")

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	explore := fileCfg.Explore
	applyStringConfig(cmd, "data", &dashData, explore.Data)
	applyStringConfig(cmd, "db", &dashDB, explore.DB)
	applyIntConfig(cmd, "from", &dashFrom, explore.From)
	applyIntConfig(cmd, "to", &dashTo, explore.To)
	applyTypesConfig(cmd, "types", &dashTypes, explore.Types)
	applyIntConfig(cmd, "min-lives", &dashMinLives, explore.MinLives)
	applyStringConfig(cmd, "view", &dashView, explore.View)

	view, err := stats.ParseView(dashView)
	if err != nil {
		return err
	}
	if err := validateFilterFlags(dashFrom, dashTo, dashMinLives); err != nil {
		return err
	}

	ds, err := loadDataset(dashData, dashDB)
	if err != nil {
		return err
	}
	criteria, err := buildCriteria(ds, dashFrom, dashTo, dashTypes, dashMinLives)
	if err != nil {
		return err
	}

	program := tea.NewProgram(dashui.NewModel(ds, criteria, view), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the explorer views as plain text",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}

	reportCmd.Flags().StringVar(&reportData, "data", "", "shipwreck CSV to load instead of the snapshot")
	reportCmd.Flags().StringVar(&reportDB, "db", "", "SQLite snapshot path (default: XDG data dir)")
	reportCmd.Flags().IntVar(&reportFrom, "from", 0, "lower year bound (default: first year in the dataset)")
	reportCmd.Flags().IntVar(&reportTo, "to", 0, "upper year bound (default: last year in the dataset)")
	reportCmd.Flags().StringSliceVar(&reportTypes, "types", nil, "vessel types to include (default: all)")
	reportCmd.Flags().IntVar(&reportMinLives, "min-lives", 0, "minimum lives lost")
	reportCmd.Flags().StringVar(&reportView, "view", defaultReportView, "view to print: all, map, types, trend or deadliest")
	reportCmd.Flags().IntVar(&reportWidth, "width", 0, "output width in columns (default: terminal width)")

	return reportCmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	explore := fileCfg.Explore
	applyStringConfig(cmd, "data", &reportData, explore.Data)
	applyStringConfig(cmd, "db", &reportDB, explore.DB)
	applyIntConfig(cmd, "from", &reportFrom, explore.From)
	applyIntConfig(cmd, "to", &reportTo, explore.To)
	applyTypesConfig(cmd, "types", &reportTypes, explore.Types)
	applyIntConfig(cmd, "min-lives", &reportMinLives, explore.MinLives)

	views, err := resolveReportViews(reportView)
	if err != nil {
		return err
	}
	if err := validateFilterFlags(reportFrom, reportTo, reportMinLives); err != nil {
		return err
	}

	ds, err := loadDataset(reportData, reportDB)
	if err != nil {
		return err
	}
	logger.Debug("dataset loaded", zap.Int("records", ds.Len()))

	criteria, err := buildCriteria(ds, reportFrom, reportTo, reportTypes, reportMinLives)
	if err != nil {
		return err
	}

	width := reportWidth
	if width <= 0 {
		width = stats.TerminalWidth()
	}
	report := stats.BuildReport(ds, criteria)
	logger.Debug("report built",
		zap.Int("matches", len(report.Records)),
		zap.String("criteria", stats.FormatCriteria(criteria)))
	return stats.RenderReport(cmd.OutOrStdout(), report, views, width, false)
}

func newImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a shipwreck CSV into the snapshot database",
		Args:  cobra.NoArgs,
		RunE:  runImportCmd,
	}

	importCmd.Flags().StringVar(&importData, "data", "", "shipwreck CSV to import")
	importCmd.Flags().StringVar(&importDB, "db", "", "SQLite snapshot path (default: XDG data dir)")
	importCmd.Flags().BoolVar(&importForce, "force", false, "replace an existing snapshot")
	_ = importCmd.MarkFlagRequired("data")

	return importCmd
}

func runImportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &importDB, fileCfg.Explore.DB)

	ds, err := dataset.LoadCSV(importData)
	if err != nil {
		return fmt.Errorf("failed to load CSV: %w", err)
	}
	logger.Debug("CSV loaded", zap.String("path", importData), zap.Int("records", ds.Len()))

	dbPath := importDB
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	existing, err := st.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect snapshot: %w", err)
	}
	if existing > 0 {
		if !importForce {
			return fmt.Errorf("snapshot at %s already holds %d records (use --force to replace)", dbPath, existing)
		}
		if err := st.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		logger.Debug("cleared existing snapshot", zap.Int("records", existing))
	}

	inserted, err := st.InsertWrecks(ctx, ds.Records())
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	logger.Info("snapshot written", zap.String("db", dbPath), zap.Int("records", inserted))
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d wrecks into %s\n", inserted, dbPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newTypesCmd() *cobra.Command {
	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "List vessel types in the dataset with wreck counts",
		Args:  cobra.NoArgs,
		RunE:  runTypesCmd,
	}

	typesCmd.Flags().StringVar(&typesData, "data", "", "shipwreck CSV to load instead of the snapshot")
	typesCmd.Flags().StringVar(&typesDB, "db", "", "SQLite snapshot path (default: XDG data dir)")

	return typesCmd
}

func runTypesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	explore := fileCfg.Explore
	applyStringConfig(cmd, "data", &typesData, explore.Data)
	applyStringConfig(cmd, "db", &typesDB, explore.DB)

	ds, err := loadDataset(typesData, typesDB)
	if err != nil {
		return err
	}
	logger.Debug("dataset loaded", zap.Int("records", ds.Len()))

	counts := stats.TypeCounts(ds.Records())
	if len(counts) == 0 {
		return fmt.Errorf("dataset has no vessel types")
	}
	nameWidth := 0
	for _, tc := range counts {
		if len(tc.VesselType) > nameWidth {
			nameWidth = len(tc.VesselType)
		}
	}
	for _, tc := range counts {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-*s  %d\n", nameWidth, tc.VesselType, tc.Count); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the config path, creating a default config if absent",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := resolveConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logger.Info("default config written", zap.String("path", path))
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// loadDataset reads the CSV when a path is given, otherwise the SQLite
// snapshot. Derived columns are recomputed on every load.
func loadDataset(dataPath, dbPath string) (*dataset.Dataset, error) {
	if dataPath != "" {
		ds, err := dataset.LoadCSV(dataPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load CSV: %w", err)
		}
		return ds, nil
	}

	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, missingSnapshotError(dbPath)
		}
		return nil, fmt.Errorf("failed to stat db: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	records, err := st.ListWrecks(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if len(records) == 0 {
		return nil, missingSnapshotError(dbPath)
	}
	return dataset.FromRecords(records), nil
}

func missingSnapshotError(dbPath string) error {
	lines := []string{
		fmt.Sprintf("no wreck data at: %s", dbPath),
		"Import a CSV: wrecks import --data <csv>",
		"Or load one directly: wrecks --data <csv>",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

// buildCriteria fills unset year bounds from the dataset span and resolves
// type names against the dataset's vessel type list.
func buildCriteria(ds *dataset.Dataset, from, to int, typeNames []string, minLives int) (model.FilterCriteria, error) {
	span := ds.YearRange()
	if from == 0 {
		from = span.From
	}
	if to == 0 {
		to = span.To
	}
	if from > to {
		return model.FilterCriteria{}, fmt.Errorf("--from must not exceed --to")
	}

	var types []string
	if len(typeNames) > 0 {
		matched, unknown := ds.ResolveTypes(typeNames)
		if len(unknown) > 0 {
			return model.FilterCriteria{}, fmt.Errorf("unknown vessel types: %s (run: wrecks types)", strings.Join(unknown, ", "))
		}
		types = matched
	}

	return model.FilterCriteria{
		Years:        model.YearRange{From: from, To: to},
		VesselTypes:  types,
		MinLivesLost: minLives,
	}, nil
}

func validateFilterFlags(from, to, minLives int) error {
	if from != 0 && to != 0 && from > to {
		return fmt.Errorf("--from must not exceed --to")
	}
	if minLives < 0 {
		return fmt.Errorf("--min-lives must be >= 0")
	}
	return nil
}

func resolveReportViews(name string) ([]stats.View, error) {
	if name == "" || strings.EqualFold(name, defaultReportView) {
		return stats.AllViews(), nil
	}
	view, err := stats.ParseView(name)
	if err != nil {
		return nil, err
	}
	return []stats.View{view}, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyTypesConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if len(value) == 0 {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), value...)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wrecks configuration
# Uncomment a value to enable it. CLI flags override config values.

[explore]
# data = "ShipwreckDatabase.csv"  # CSV to load instead of the snapshot
# db = %q
# from = 1679                     # Lower year bound
# to = 2000                       # Upper year bound
# types = ["Schooner"]            # Vessel types to include
# min-lives = 0                   # Minimum lives lost
# view = %q                       # Starting view (map, types, trend, deadliest)
`,
		config.DefaultDBPath(),
		defaultView,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
