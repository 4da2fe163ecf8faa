package cli

import (
	"fmt"
	"time"

	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/notes"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Generate a periodic update across all projects",
	Long: `Collect every project's entries for a period and ask the chat model
for one combined update.

Without flags the period is the last periodic_days days, ending today.

Examples:
  journal update
  journal update --days 14
  journal update --from 2024-03-01 --to 2024-03-31`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

var (
	updateFrom string
	updateTo   string
	updateDays int
)

func init() {
	updateCmd.Flags().StringVar(&updateFrom, "from", "", "First day of the period")
	updateCmd.Flags().StringVar(&updateTo, "to", "", "Last day of the period (default today)")
	updateCmd.Flags().IntVarP(&updateDays, "days", "d", 0, "Period length in days when --from is not given")
}

// updatePeriod works out the first and last calendar day of the update
func updatePeriod(from, to string, days int, now time.Time) (time.Time, time.Time, error) {
	end := now.UTC()
	if to != "" {
		t, err := parseDateArg(to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}

	if from != "" {
		start, err := parseDateArg(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if start.After(end) {
			return time.Time{}, time.Time{}, fmt.Errorf("--from must not be after --to")
		}
		return start, end, nil
	}

	if days < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("--days must be at least 1")
	}
	return end.AddDate(0, 0, -(days - 1)), end, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	days := updateDays
	if days == 0 {
		days = cfg.PeriodicDays
	}
	startDay, endDay, err := updatePeriod(updateFrom, updateTo, days, time.Now())
	if err != nil {
		return err
	}

	start, end := notes.PeriodBounds(startDay, endDay)
	collected, err := notes.CollectPeriodicNotes(ctx, database, start, end)
	if err != nil {
		return fmt.Errorf("failed to collect entries: %w", err)
	}

	label := notes.RangeLabel(startDay, endDay)
	logger.Info("Generating periodic update", logger.F("label", label), logger.F("projects", len(collected)))
	fmt.Printf("🔄 Generating update for %s (%d projects)...\n\n", label, len(collected))

	out, err := newGenerator(database).GeneratePeriodicUpdate(ctx, label, collected)
	if err != nil {
		return explainNotesError(err)
	}

	fmt.Println(notes.OrPlaceholder(out))
	return nil
}
