package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Configure journal-server",
}

var serverSetTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Set the bearer token journal-server requires",
	Long: `Prompt for an API token and store its bcrypt hash in the config file.

journal-server rejects API requests without "Authorization: Bearer <token>"
once a token is set. Use 'journal server clear-token' to disable auth.`,
	Args: cobra.NoArgs,
	RunE: runServerSetToken,
}

var serverClearTokenCmd = &cobra.Command{
	Use:   "clear-token",
	Short: "Remove the journal-server token",
	Args:  cobra.NoArgs,
	RunE:  runServerClearToken,
}

func init() {
	serverCmd.AddCommand(serverSetTokenCmd)
	serverCmd.AddCommand(serverClearTokenCmd)
}

func runServerSetToken(cmd *cobra.Command, args []string) error {
	fmt.Print("Token: ")
	tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	fmt.Print("Confirm Token: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(tokenBytes))
	if token != strings.TrimSpace(string(confirmBytes)) {
		return fmt.Errorf("tokens do not match")
	}
	if len(token) < 8 {
		return fmt.Errorf("token must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash token: %w", err)
	}

	cfg.Server.TokenHash = string(hash)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✅ Server token saved")
	return nil
}

func runServerClearToken(cmd *cobra.Command, args []string) error {
	cfg.Server.TokenHash = ""
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println("Server token cleared; API auth is disabled")
	return nil
}
