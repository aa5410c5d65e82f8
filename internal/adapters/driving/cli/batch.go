package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// batchHeaderWidth bounds the source shown in each item header.
const batchHeaderWidth = 50

var (
	batchQuery string
	batchFile  string
	batchJSON  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [url...]",
	Short: "Answer one question about many PDFs",
	Long: `Answers the same query against every PDF in order. A failing PDF is
reported and the batch continues with the next one.

Sources come from the arguments and from --file (one per line, "-" for stdin).

Examples:
  pdfanalysis batch https://example.com/a.pdf https://example.com/b.pdf
  pdfanalysis batch -f urls.txt -q "List the authors."`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchQuery, "query", "q", domain.DefaultQuery, "question asked of every PDF")
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "read sources from file, one per line")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	sources, err := collectSources(cmd, args)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New("please enter at least one PDF URL")
	}

	items, err := analysisService.BatchAnswerQueries(cmd.Context(), sources, batchQuery)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if batchJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputBatch(cmd, items)
	return nil
}

// collectSources merges argument sources with those read from --file.
func collectSources(cmd *cobra.Command, args []string) ([]string, error) {
	sources := make([]string, 0, len(args))
	for _, arg := range args {
		sources = append(sources, domain.ParseSourceList(arg)...)
	}
	if batchFile == "" {
		return sources, nil
	}

	var r io.Reader
	if batchFile == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(batchFile)
		if err != nil {
			return nil, fmt.Errorf("open source list: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source list: %w", err)
	}
	return append(sources, domain.ParseSourceList(string(data))...), nil
}

func outputBatch(cmd *cobra.Command, items []domain.BatchItem) {
	for i, item := range items {
		cmd.Printf("PDF %d: %s\n", i+1, domain.Truncate(item.Source, batchHeaderWidth))
		if item.OK() {
			cmd.Println(item.Result)
		} else {
			cmd.Printf("Error: %s\n", item.Result)
		}
		cmd.Println()
	}
	cmd.Printf("Completed analysis of %d PDFs\n", len(items))
	if failed := domain.CountFailures(items); failed > 0 {
		cmd.Printf("%d failed\n", failed)
	}
}
