package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/blogwriter/margins/internal/worker"
)

var (
	concurrency int
	outputDir   string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Fact-check multiple text blocks from a file in parallel",
	Long: `Batch fact-checks many blocks of text concurrently:
- Blocks are separated by blank lines in the input file
- Blocks are checked in parallel with a configurable worker count
- All workers share one verifier, so the rate limit and cache apply globally
- One JSON report is written per block

Example:
  margins batch paragraphs.txt
  margins batch paragraphs.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./margins-reports", "output directory for reports")
	batchCmd.Flags().StringVar(&provider, "provider", "", "verifier provider (openai, http)")
	batchCmd.Flags().StringVar(&providerModel, "model", "", "model name for LLM-backed providers")
	batchCmd.Flags().StringVar(&baseURL, "base-url", "", "verification API base URL")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-memory result cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	jobs, err := worker.ReadBlocks(args[0])
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no text blocks found in %s", args[0])
	}

	cfg := buildConfig()
	verifier, err := buildVerifier(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Checking %d blocks with %d workers\n", len(jobs), concurrency)

	processor := worker.NewBatchProcessor(verifier, cfg.Verifier.MaxClaims, concurrency)
	results := processor.Process(jobs)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: %v\n", r.ID, r.Err)
			continue
		}

		data, err := json.MarshalIndent(r.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.ID, err)
		}
		path := filepath.Join(outputDir, r.ID+".json")
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "  %s: %d claims -> %s\n", r.ID, r.Result.TotalClaims, path)
		}
	}

	fmt.Fprintf(os.Stderr, "Done: %d checked, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d blocks failed", failed, len(results))
	}
	return nil
}
