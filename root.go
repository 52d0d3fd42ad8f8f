package main

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nconklindev/sheetscope/internal/config"
	sheetlog "github.com/nconklindev/sheetscope/internal/log"
	"github.com/nconklindev/sheetscope/internal/ui"
)

// Global flag values.
var (
	configPath string
	verbose    bool
	logFile    string
	noColor    bool
	rowLimit   int
	encoding   string
)

// cfg is loaded once per invocation before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "sheetscope [file]",
	Short: "Browse CSV and Excel spreadsheets in the terminal",
	Long: `Sheetscope opens CSV, XLSX and XLS files in an interactive viewer.
Columns are classified as numeric, categorical or date, rows can be
searched and sorted, and a categorical column can be charted against a
numeric one.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if noColor {
			color.NoColor = true
		}
		loaded, err := loadConfig(cmd.Flags())
		if err != nil {
			return exitError(ExitInvalidArgs, "%v", err)
		}
		cfg = loaded
		return nil
	},
	RunE: runViewer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().IntVar(&rowLimit, "row-limit", 0, "maximum rows to display")
	rootCmd.PersistentFlags().StringVar(&encoding, "encoding", "", "CSV character encoding (utf-8, latin1, windows-1252)")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies flags the user set on top.
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return c, err
	}

	if flags.Changed("row-limit") {
		c.RowLimit = rowLimit
	}
	if flags.Changed("encoding") {
		c.CSVEncoding = encoding
	}
	if flags.Changed("log-file") {
		c.LogFile = logFile
	}
	return c, c.Validate()
}

// setupLogging points slog at the configured log file, or at fallback
// when there is none. The returned func closes the file.
func setupLogging(fallback io.Writer) (func(), error) {
	if cfg.LogFile == "" {
		sheetlog.Setup(fallback, verbose)
		return func() {}, nil
	}
	f, err := sheetlog.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	sheetlog.Setup(f, verbose)
	return func() { _ = f.Close() }, nil
}

func runViewer(_ *cobra.Command, args []string) error {
	// The TUI owns the terminal, so logs only go to a file.
	closeLog, err := setupLogging(nil)
	if err != nil {
		return exitError(ExitInvalidArgs, "open log file: %v", err)
	}
	defer closeLog()

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	slog.Debug("starting viewer", "file", path, "row_limit", cfg.RowLimit)

	p := tea.NewProgram(ui.InitialModel(cfg, path), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	return nil
}

// stderr is swapped out in tests.
var stderr io.Writer = os.Stderr
