package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/modality/internal/analyzer"
	"github.com/ppiankov/modality/internal/cache"
	"github.com/ppiankov/modality/internal/model"
	"github.com/ppiankov/modality/internal/worker"
	"github.com/ppiankov/modality/internal/zunda"
)

// Pipeline runs the analyzer on a sentence and parses its output
type Pipeline struct {
	analyzer analyzer.Analyzer
	parser   *zunda.Parser
	log      *zap.Logger
}

// NewPipeline assembles the analyzer chain described by cfg:
// cache (optional) -> spawn limiter -> analyzer process
func NewPipeline(cfg *model.Config, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	parser, err := zunda.NewParser(cfg.Analyzer.Encoding)
	if err != nil {
		return nil, fmt.Errorf("create parser: %w", err)
	}

	runner := analyzer.NewRunner(cfg.Analyzer, log)

	var a analyzer.Analyzer = &throttled{
		next:    runner,
		limiter: worker.NewLimiter(cfg.RateLimiting.SpawnsPerSecond, cfg.RateLimiting.Burst),
		binary:  runner.Binary(),
		log:     log.Named("limiter"),
	}

	if cfg.Cache.Enabled {
		c := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		a = analyzer.NewCached(a, runner.Binary(), runner.Args(), c, 0, log)
	}

	return New(a, parser, log), nil
}

// New creates a pipeline over an arbitrary analyzer
func New(a analyzer.Analyzer, parser *zunda.Parser, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		analyzer: a,
		parser:   parser,
		log:      log.Named("pipeline"),
	}
}

// ParseSentence analyzes and parses a single sentence
func (p *Pipeline) ParseSentence(ctx context.Context, sentence string) (*model.Sentence, error) {
	raw, err := p.analyzer.Analyze(ctx, sentence)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	s, err := p.ParseOutput(raw)
	if err != nil {
		p.log.Warn("Unable to parse analyzer output", zap.String("sentence", sentence), zap.Error(err))
		return nil, err
	}

	s.Text = sentence
	return s, nil
}

// ParseOutput parses analyzer output captured elsewhere
func (p *Pipeline) ParseOutput(raw []byte) (*model.Sentence, error) {
	s, err := p.parser.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	s.ID = uuid.NewString()
	p.log.Debug("Parsed sentence",
		zap.String("id", s.ID),
		zap.Int("events", len(s.Events)),
		zap.Int("chunks", len(s.Chunks)),
		zap.Int("words", s.WordCount))
	return s, nil
}

// throttled waits for the spawn limiter before each analyzer run
type throttled struct {
	next    analyzer.Analyzer
	limiter *worker.Limiter
	binary  string
	log     *zap.Logger
}

func (t *throttled) Analyze(ctx context.Context, sentence string) ([]byte, error) {
	if !t.limiter.Allow(t.binary) {
		t.log.Debug("Spawn rate reached, waiting", zap.String("binary", t.binary))
		if err := t.limiter.Wait(ctx, t.binary); err != nil {
			return nil, fmt.Errorf("wait for spawn slot: %w", err)
		}
	}
	return t.next.Analyze(ctx, sentence)
}
