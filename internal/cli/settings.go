package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/existflow/journal/internal/notes"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and write stored settings",
	Long: `Read and write settings kept in the journal database.

Known keys:
  openai-api-key                  Credential for the chat model
  project-summary-system-prompt   Template for project notes
  periodic-summary-system-prompt  Template for periodic updates`,
	RunE: runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a setting (or its built-in default)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value...]",
	Short: "Store a setting",
	Long: `Store a setting. Pass "-" as the value to read it from stdin.

Examples:
  journal settings set project-summary-system-prompt "Summarize tersely."
  journal settings set periodic-summary-system-prompt - < prompt.txt`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSettingsSet,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the OpenAI API key without echoing it",
	Args:  cobra.NoArgs,
	RunE:  runSettingsSetKey,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
}

// maskSecret hides all but the last four characters
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func runSettingsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	known := notes.SettingKeys()
	keys := make([]string, 0, len(known))
	for k := range known {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println()
	for _, k := range keys {
		stored, ok, err := database.GetSetting(ctx, k, "")
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", k, err)
		}
		switch {
		case !ok && known[k] == "":
			fmt.Printf("  %-32s (not set)\n", k)
		case !ok:
			fmt.Printf("  %-32s (default)\n", k)
		case k == notes.KeyAPIKey:
			fmt.Printf("  %-32s %s\n", k, maskSecret(stored))
		default:
			fmt.Printf("  %-32s %s\n", k, truncate(stored, 40))
		}
	}
	fmt.Println()
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	key := args[0]
	value, ok, err := database.GetSetting(ctx, key, notes.SettingKeys()[key])
	if err != nil {
		return fmt.Errorf("failed to read setting: %w", err)
	}
	if !ok {
		return fmt.Errorf("setting %s is not set", key)
	}
	if key == notes.KeyAPIKey {
		value = maskSecret(value)
	}
	fmt.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	key := args[0]
	if _, known := notes.SettingKeys()[key]; !known {
		fmt.Fprintf(os.Stderr, "warning: %s is not a known setting\n", key)
	}

	value, err := readContent(args[1:])
	if err != nil {
		return err
	}

	if err := database.SetSetting(ctx, key, value); err != nil {
		return fmt.Errorf("failed to store setting: %w", err)
	}

	fmt.Printf("✓ Saved %s\n", key)
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	fmt.Print("OpenAI API key: ")
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}

	key := strings.TrimSpace(string(keyBytes))
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	if err := database.SetSetting(ctx, notes.KeyAPIKey, key); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	fmt.Println("✅ API key saved")
	return nil
}
