package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/journal/internal/config"
	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/notes"
	"github.com/existflow/journal/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool

	// cfg is loaded once per invocation in PersistentPreRunE
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "Project Journal - dated notes and progress per project",
	Long: `Project Journal keeps dated log entries and progress snapshots for your
projects, and turns them into summaries with a chat model.

Run 'journal' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Journal started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB(cmd.Context())
		if err != nil {
			logger.Error("Failed to open database", logger.F("error", err))
			return err
		}
		defer func() {
			_ = database.Close()
			logger.Info("Database closed")
		}()

		logger.Info("Launching TUI")
		m := tui.NewModel(database, newGenerator(database), cfg.PeriodicDays)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Journal exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(serverCmd)
}

// openDB opens the store selected by the loaded config
func openDB(ctx context.Context) (*db.DB, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	database, err := db.Open(ctx, db.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func newGenerator(database *db.DB) *notes.Generator {
	return notes.NewGenerator(database, notes.NewOpenAIClient(cfg.OpenAI.BaseURL), cfg.OpenAI.Model)
}
