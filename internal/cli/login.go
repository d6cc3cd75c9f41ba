package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"painscout/internal/search"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the service",
	Long: `Login opens the browser-based sign-in flow and stores the resulting
session cookie for later commands.

Visit <server>/auth/login in a browser, complete the sign-in, then paste
the session cookie from the browser's dev tools when prompted.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, args []string) error {
	fmt.Printf("Open %s/auth/login in your browser and sign in.\n", serverURL)
	fmt.Print("Paste the session cookie here: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read cookie: %w", err)
	}
	cookie := strings.TrimSpace(line)
	if cookie == "" {
		return fmt.Errorf("no cookie provided")
	}

	if err := storeCookie(cookie); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	// Signing in resets the local guest counter, matching the server's
	// quota reset on authentication.
	if usage, err := search.NewUsageStore(); err == nil {
		if err := usage.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not reset guest counter: %v\n", err)
		}
	}

	fmt.Println("Signed in. Daily quota now applies instead of the guest limit.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := clearCookie(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}
