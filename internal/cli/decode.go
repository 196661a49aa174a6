package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/modality/internal/model"
	"github.com/ppiankov/modality/internal/pipeline"
	"github.com/ppiankov/modality/internal/zunda"
)

var (
	decodeEncoding string
	decodeOutput   outputFlags
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Parse analyzer output captured earlier",
	Long: `Decode reads zunda output from a file (or stdin when the file is
omitted or "-") and resolves it without running the analyzer.

Example:
  echo 雨が降った | zunda > out.txt && modality decode out.txt
  zunda < sentence.txt | modality decode --format text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVar(&decodeEncoding, "encoding", "utf-8", "encoding of the analyzer output (IANA name such as Shift_JIS or EUC-JP, or sjis, cp932, euc_jp)")
	decodeOutput.register(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("encoding") {
		cfg.Analyzer.Encoding = decodeEncoding
	}
	decodeOutput.apply(cmd, cfg)

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	format, err := pipeline.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	parser, err := zunda.NewParser(cfg.Analyzer.Encoding)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	s, err := pipeline.New(nil, parser, log).ParseOutput(raw)
	if err != nil {
		return err
	}

	return writeOutput(cmd, pipeline.NewRenderer(format), decodeOutput.out, []*model.Sentence{s})
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return raw, nil
}
