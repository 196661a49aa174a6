package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/modality/internal/model"
	"github.com/ppiankov/modality/internal/pipeline"
)

var (
	parseAnalyzer analyzerFlags
	parseOutput   outputFlags
	parseTimeout  time.Duration
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <sentence>...",
	Short: "Run the analyzer on sentences and print resolved events",
	Long: `Parse runs zunda once per sentence and resolves its output into:
- events anchored to their predicate word
- the chunks each event governs, with dependency links
- per-word features and functional expression tags

Example:
  modality parse 花子は太郎を食事に誘った裕子が嫌いだった
  modality parse --format markdown --out report.md 雨が降った
  modality parse --binary /opt/zunda/bin/zunda --args "-m /opt/zunda/model" 雨が降った`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseAnalyzer.register(parseCmd)
	parseOutput.register(parseCmd)
	parseCmd.Flags().DurationVar(&parseTimeout, "timeout", 2*time.Minute, "overall timeout")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	parseAnalyzer.apply(cmd, cfg)
	parseOutput.apply(cmd, cfg)

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

	ctx, cancel := context.WithTimeout(cmd.Context(), parseTimeout)
	defer cancel()

	log.Debug("Parsing", zap.Int("sentences", len(args)), zap.String("binary", cfg.Analyzer.Binary), zap.Strings("args", cfg.Analyzer.Args))

	sentences := make([]*model.Sentence, 0, len(args))
	for _, sentence := range args {
		s, err := p.ParseSentence(ctx, sentence)
		if err != nil {
			return fmt.Errorf("parse %q: %w", sentence, err)
		}
		sentences = append(sentences, s)
	}

	return writeOutput(cmd, pipeline.NewRenderer(format), parseOutput.out, sentences)
}

// writeOutput renders to the --out file or to stdout
func writeOutput(cmd *cobra.Command, r *pipeline.Renderer, path string, sentences []*model.Sentence) error {
	if path == "" {
		return r.Render(cmd.OutOrStdout(), sentences...)
	}
	if err := r.RenderFile(path, sentences...); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}
