package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ppiankov/modality/internal/model"
	"github.com/ppiankov/modality/internal/pipeline"
	"github.com/ppiankov/modality/internal/worker"
)

var (
	batchAnalyzer analyzerFlags
	batchOutput   outputFlags
	concurrency   int
	batchTimeout  time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Parse many sentences from a file in parallel",
	Long: `Batch parses one sentence per line concurrently:
- Read sentences from the input file (blank lines are skipped)
- Run the analyzer with a configurable number of workers
- Throttle analyzer process spawns
- Render all results, in input order, as one document

Example:
  modality batch sentences.txt
  modality batch sentences.txt --concurrency 8 --format yaml --out events.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchAnalyzer.register(batchCmd)
	batchOutput.register(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	batchAnalyzer.apply(cmd, cfg)
	batchOutput.apply(cmd, cfg)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	format, err := pipeline.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, log)
	batch, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	sentences := make([]*model.Sentence, 0, batch.Succeeded())
	for _, result := range batch.Results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Sentence, result.Error)
			continue
		}
		sentences = append(sentences, result.Result)
	}

	if err := writeOutput(cmd, pipeline.NewRenderer(format), batchOutput.out, sentences); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Run:       %s\n", batch.RunID)
	fmt.Fprintf(os.Stderr, "  Total:     %d sentences\n", len(batch.Results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", batch.Succeeded())
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", len(batch.Results)-batch.Succeeded())
	fmt.Fprintf(os.Stderr, "\n")

	if errs := multierr.Errors(batch.Err()); len(errs) > 0 {
		return fmt.Errorf("%d of %d sentences failed", len(errs), len(batch.Results))
	}
	return nil
}
