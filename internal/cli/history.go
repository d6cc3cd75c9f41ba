package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"painscout/internal/search"
)

var (
	historyPage  int
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved analyses",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyListCmd.Flags().IntVar(&historyPage, "page", 1, "page number")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "records per page")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

func historyClient() *search.HistoryClient {
	return search.NewHistoryClient(serverURL, loadCookie())
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	resp, err := historyClient().List(context.Background(), historyPage, historyLimit)
	if err != nil {
		return err
	}

	if len(resp.Records) == 0 {
		fmt.Println("No saved analyses.")
		return nil
	}

	for _, r := range resp.Records {
		fmt.Printf("%s  %s  score=%d  posts=%d  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.FrustrationScore, r.TotalPosts, r.Query)
	}
	fmt.Printf("\nPage %d of %d (%d total)\n", resp.Pagination.Page, resp.Pagination.TotalPages, resp.Pagination.Total)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	record, err := historyClient().Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Query: %s\nDate: %s\nFrustration score: %d/100\n\n%s\n",
		record.Query, record.CreatedAt.Format("2006-01-02 15:04"), record.FrustrationScore, record.Summary)

	for i, insight := range record.Insights {
		fmt.Printf("\n%d. %s [%s / %s]\n", i+1, insight.Title, insight.Severity, insight.Category)
		fmt.Printf("   %s\n", insight.Description)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if err := historyClient().Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Println("Deleted.")
	return nil
}
