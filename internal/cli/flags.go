package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/modality/internal/analyzer"
	"github.com/ppiankov/modality/internal/model"
)

// analyzerFlags are shared by every command that runs the analyzer
type analyzerFlags struct {
	binary   string
	args     string
	encoding string
	timeout  time.Duration
	noCache  bool
}

func (f *analyzerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.binary, "binary", "zunda", "analyzer executable")
	cmd.Flags().StringVar(&f.args, "args", "", "extra analyzer arguments, split on whitespace (no shell)")
	cmd.Flags().StringVar(&f.encoding, "encoding", "utf-8", "encoding of the analyzer output (IANA name such as Shift_JIS or EUC-JP, or sjis, cp932, euc_jp)")
	cmd.Flags().DurationVar(&f.timeout, "analyzer-timeout", 30*time.Second, "timeout for one analyzer run")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable cache (always run the analyzer)")
}

// apply overrides config values with flags the user actually set
func (f *analyzerFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("binary") {
		cfg.Analyzer.Binary = f.binary
	}
	if flags.Changed("args") {
		cfg.Analyzer.Args = analyzer.SplitArgs(f.args)
	}
	if flags.Changed("encoding") {
		cfg.Analyzer.Encoding = f.encoding
	}
	if flags.Changed("analyzer-timeout") {
		cfg.Analyzer.Timeout = f.timeout
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
}

// outputFlags select format and destination
type outputFlags struct {
	format string
	out    string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "json", "output format: json, yaml, markdown, html, text")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default: stdout)")
}

func (f *outputFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = f.format
	}
}
