package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"painscout/internal/search"
)

var searchPlatforms []string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a pain point analysis for a query",
	Long: `Search submits a query to the analysis service and streams progress until
the summarized result is ready.

Examples:
  painscout search "Notion pain points"
  painscout search "email marketing issues" --platform reddit --platform x`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchPlatforms, "platform", "p", []string{"reddit"}, "platforms to search (reddit, x)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	usage, err := search.NewUsageStore()
	if err != nil {
		return fmt.Errorf("init usage store: %w", err)
	}

	orch := search.NewOrchestrator(serverURL, usage)
	orch.Cookie = loadCookie()

	if orch.Cookie == "" {
		fmt.Printf("%d free searches remaining\n", orch.GuestRemaining())
	}

	lastMessage := ""
	orch.OnUpdate = func(s search.Session) {
		if s.StatusMessage != lastMessage && s.State != search.StateError {
			lastMessage = s.StatusMessage
			fmt.Printf("[%3d%%] %s\n", s.Progress, s.StatusMessage)
		}
	}

	if err := orch.Submit(ctx, args[0], searchPlatforms); err != nil {
		var qerr *search.QuotaError
		if errors.As(err, &qerr) {
			fmt.Println(qerr.Message)
			if qerr.Guest() {
				fmt.Println("Sign in with 'painscout login' to continue.")
			}
			return nil
		}
		return err
	}

	result := orch.Result()
	if result == nil {
		return fmt.Errorf("no result received")
	}

	fmt.Printf("\nFrustration score: %d/100\n\n%s\n", result.FrustrationScore, result.Summary)

	for i, insight := range result.Insights {
		fmt.Printf("\n%d. %s [%s / %s]\n", i+1, insight.Title, insight.Severity, insight.Category)
		fmt.Printf("   %s\n", insight.Description)
		if insight.Opportunity != "" {
			fmt.Printf("   Opportunity: %s\n", insight.Opportunity)
		}
		if insight.Quote != "" {
			fmt.Printf("   > %s\n", insight.Quote)
		}
	}

	if verbose {
		reddit, x := orch.Posts()
		if len(reddit) > 0 {
			fmt.Printf("\nReddit posts (%d):\n", len(reddit))
			for _, p := range reddit {
				fmt.Printf("  - %s (%s)\n", p.Title, p.Link)
			}
		}
		if len(x) > 0 {
			fmt.Printf("\nX posts (%d):\n", len(x))
			for _, p := range x {
				fmt.Printf("  - %s (%s)\n", p.Title, p.Link)
			}
		}
	}

	return nil
}
