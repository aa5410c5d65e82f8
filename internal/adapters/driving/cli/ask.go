package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

var (
	askNoCache bool
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask <url> [query]",
	Short: "Answer a question about one PDF",
	Long: `Fetches the PDF at url (or an absolute local path), indexes it and answers
the query. Without a query the document is summarised.

Examples:
  pdfanalysis ask https://example.com/report.pdf
  pdfanalysis ask /tmp/report.pdf "What are the key findings?"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askNoCache, "no-cache", false, "bypass the answer cache")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askResult is the JSON form of an answer.
type askResult struct {
	URL       string `json:"url"`
	Query     string `json:"query"`
	Answer    string `json:"answer"`
	FromCache bool   `json:"from_cache"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	source := args[0]
	query := domain.DefaultQuery
	if len(args) == 2 {
		query = args[1]
	}

	answer, err := analysisService.AnswerQuery(cmd.Context(), source, query, !askNoCache)
	if err != nil {
		return fmt.Errorf("error processing PDF: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(askResult{
			URL:       answer.Source,
			Query:     answer.Query,
			Answer:    answer.Text,
			FromCache: answer.FromCache,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if answer.FromCache {
		cmd.Println()
		cmd.Println("(served from cache)")
	}
	return nil
}
