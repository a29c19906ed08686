package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/dispatch"
	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/worker"
)

var (
	batchOp     string
	concurrency int
	splitMinLen int
	splitInput  bool
	batchHTML   bool
	batchOutput string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run one operation over many claims in parallel",
	Long: `Batch runs one operation over every claim in a file:
- Read claims from the input file (one per line, # for comments)
- Or, with --split, treat the file as prose and split it into sentences
- Process claims in parallel with a configurable worker count
- Print results in input order

Example:
  claimcheck batch claims.txt
  claimcheck batch claims.txt --op check_manipulation --concurrency 8
  claimcheck batch article.txt --split --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchOp, "op", dispatch.OpAnalyzeClaim, "operation to run (analyze_claim, validate_sources, check_manipulation)")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().BoolVar(&splitInput, "split", false, "split the file into sentences instead of reading one claim per line")
	batchCmd.Flags().IntVar(&splitMinLen, "min-length", 20, "minimum sentence length with --split")
	batchCmd.Flags().BoolVar(&batchHTML, "html", false, "treat input as HTML and analyze its visible text (implies --split)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output format: text or json (default from config)")
}

// batchItem is one line of JSON batch output
type batchItem struct {
	Index     int             `json:"index"`
	Input     string          `json:"input"`
	RequestID string          `json:"requestId,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	format := outputFormat(batchOutput)
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown batch output format: %s (use text or json)", format)
	}

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}

	d, err := dispatch.New(cfg.DefaultFramework(), logger)
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  claimcheck batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Operation:    %s\n", batchOp)
	fmt.Fprintf(os.Stderr, "  Framework:    %s\n", cfg.DefaultFramework())
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(d, workers)

	var results []*worker.CallResult
	if splitInput || batchHTML {
		text, err := readInput(nil, file, os.Stdin, batchHTML)
		if err != nil {
			return err
		}
		results, err = processor.Process(ctx, batchOp, "", extract.SplitSentences(text, splitMinLen))
		if err != nil {
			return fmt.Errorf("process batch: %w", err)
		}
	} else {
		// One claim per line
		results, err = processor.ProcessFile(ctx, batchOp, "", file)
		if err != nil {
			return fmt.Errorf("process batch: %w", err)
		}
	}

	failures, err := writeBatch(cmd.OutOrStdout(), format, results)
	if err != nil {
		return err
	}

	logger.Debug("batch complete",
		zap.String("operation", batchOp),
		zap.Int("total", len(results)),
		zap.Int("failures", failures),
	)

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", len(results)-failures)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)
	fmt.Fprintf(os.Stderr, "\n")

	if failures > 0 {
		return fmt.Errorf("%d of %d calls failed", failures, len(results))
	}
	return nil
}

// writeBatch prints results in input order and returns the number of failures
func writeBatch(w io.Writer, format string, results []*worker.CallResult) (int, error) {
	failures := 0
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, r := range results {
		if r.Error != nil {
			failures++
		}

		if format == formatJSON {
			item := batchItem{Index: r.Index, Input: r.Input}
			if r.Error != nil {
				item.Error = r.Error.Error()
			} else {
				item.RequestID = r.Result.RequestID
				item.Result = r.Result.Structured
			}
			if err := enc.Encode(item); err != nil {
				return failures, fmt.Errorf("encode result: %w", err)
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "── [%d] %s\n", r.Index+1, r.Input); err != nil {
			return failures, err
		}
		if r.Error != nil {
			if _, err := fmt.Fprintf(w, "✗ %v\n\n", r.Error); err != nil {
				return failures, err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", r.Result.Text); err != nil {
			return failures, err
		}
	}

	return failures, nil
}
