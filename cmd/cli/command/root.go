package command

// root.go defines the root command and global flags of the moviehub CLI.

import (
	"fmt"
	"os"

	"moviehub/cmd/cli/authentication"
	"moviehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "moviehub",
	Short: "moviehub - MovieHub Command Line Interface",
	Long: `moviehub talks to the MovieHub API. Use it to:
- Browse the catalog by popularity
- Read reviews
- Rate, review and wishlist movies once logged in

Use "moviehub [command] --help" to see all available commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗", err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("MOVIEHUB_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080/api"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")
}

// newClient returns an API client carrying the stored token, if any.
func newClient() *client.HTTPClient {
	c := client.NewHTTPClient(apiURL)
	if creds, err := authentication.GetCredentials(); err == nil && creds != nil {
		c.SetToken(creds.Token)
	}
	return c
}

// requireLogin fails early instead of letting the API answer UNAUTHENTICATED.
func requireLogin() (*client.HTTPClient, error) {
	creds, err := authentication.GetCredentials()
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}
	if creds == nil {
		return nil, fmt.Errorf("not logged in, run 'moviehub auth login' first")
	}
	c := client.NewHTTPClient(apiURL)
	c.SetToken(creds.Token)
	return c, nil
}

func success(format string, args ...any) {
	color.Green("✓ "+format, args...)
}
