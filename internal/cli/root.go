// Package cli provides the command-line interface for painscout.
package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "painscout",
	Short: "Discover user pain points on Reddit and X",
	Long: `Painscout submits a query to the pain point discovery service, streams
the analysis progress, and prints the summarized frustration signals.

Guests get a limited number of free searches; sign in for a daily quota
and persisted history.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("PAINSCOUT_SERVER", "http://localhost:3000"), "service base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// sessionPath is where the signed-in session cookie is stored.
func sessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "painscout", "session.json"), nil
}

type sessionFile struct {
	Cookie string `json:"cookie"`
}

// loadCookie returns the stored session cookie, empty if not signed in.
func loadCookie() string {
	path, err := sessionPath()
	if err != nil {
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var s sessionFile
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s.Cookie
}

func storeCookie(cookie string) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.Marshal(sessionFile{Cookie: cookie})
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func clearCookie() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
