package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogwriter/margins/internal/factcheck"
	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/sources"
	"github.com/blogwriter/margins/internal/verify"
)

var (
	outJSON         string
	checkTimeout    time.Duration
	provider        string
	providerModel   string
	baseURL         string
	noCache         bool
	validateSources bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file|->",
	Short: "Fact-check a run of text",
	Long: `Check sends the text to the claim-verification service, shows the
progress sequence while the check is in flight, and prints the result.

The text is read from the given file, or from stdin when the argument is
"-". A hard timeout bounds the whole check; on timeout or service failure
the result carries success=false and a user-facing error message.

Example:
  margins check draft.txt
  echo "The Eiffel Tower was completed in 1889." | margins check -
  margins check draft.txt --provider openai --model gpt-4o-mini
  margins check draft.txt --validate-sources --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "write the result JSON to this path instead of stdout")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "hard deadline for the whole check")
	checkCmd.Flags().StringVar(&provider, "provider", "", "verifier provider (openai, http)")
	checkCmd.Flags().StringVar(&providerModel, "model", "", "model name for LLM-backed providers")
	checkCmd.Flags().StringVar(&baseURL, "base-url", "", "verification API base URL")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-memory result cache")
	checkCmd.Flags().BoolVar(&validateSources, "validate-sources", false, "probe the source links cited by the result")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readInput(args[0])
	if err != nil {
		return err
	}

	cfg := buildConfig()
	cfg.FactCheck.Timeout = checkTimeout

	verifier, err := buildVerifier(cfg)
	if err != nil {
		return err
	}

	result, err := runOrchestrated(verifier, cfg, text)
	if err != nil {
		return err
	}

	if validateSources && len(result.Claims) > 0 {
		printSourceChecks(cfg, result)
	}

	return writeResult(result)
}

// runOrchestrated drives one fact-check through the orchestrator, mirroring
// what the editor surface does, and renders progress on stderr.
func runOrchestrated(verifier verify.Verifier, cfg *model.Config, text string) (*model.FactCheckResult, error) {
	updates := make(chan struct{}, 16)
	o := factcheck.NewOrchestrator(verifier, cfg.FactCheck, cfg.Verifier.MaxClaims, func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer o.Close()

	o.StartCheck(text)
	if !o.InProgress() {
		return nil, fmt.Errorf("nothing to check: input is empty")
	}

	var lastLabel string
	deadline := time.NewTimer(cfg.FactCheck.Timeout + 5*time.Second)
	defer deadline.Stop()

	for {
		select {
		case <-updates:
			if step := o.Progress(); step != nil && step.Label != lastLabel {
				lastLabel = step.Label
				fmt.Fprintf(os.Stderr, "  [%3d%%] %s\n", step.Percent, step.Label)
			}
			if !o.InProgress() {
				if result := o.Result(); result != nil {
					return result, nil
				}
			}
		case <-deadline.C:
			return nil, fmt.Errorf("fact check did not settle within its deadline")
		}
	}
}

func printSourceChecks(cfg *model.Config, result *model.FactCheckResult) {
	urls := sources.ClaimSourceURLs(result.Claims)
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "No source links cited.")
		return
	}

	validator := sources.NewValidator(cfg.Sources, cfg.Concurrency.ValidationWorkers, cfg.Verifier.UserAgent)
	checks := validator.Validate(cmdContext(), urls)

	fmt.Fprintf(os.Stderr, "\nSource links (%d):\n", len(checks))
	for _, c := range checks {
		status := "ok"
		switch {
		case c.Blocked:
			status = "blocked"
		case c.Dead:
			status = "dead"
		case !c.Accessible:
			status = fmt.Sprintf("unreachable (%d)", c.StatusCode)
		}
		fmt.Fprintf(os.Stderr, "  %-12s %s\n", status, c.URL)
	}
}

func writeResult(result *model.FactCheckResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')

	if outJSON == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outJSON, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Result written to %s\n", outJSON)
	}
	return nil
}

func readInput(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
