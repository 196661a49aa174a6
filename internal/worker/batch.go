package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ppiankov/modality/internal/model"
)

// Parser turns one sentence into its resolved events
type Parser interface {
	ParseSentence(ctx context.Context, sentence string) (*model.Sentence, error)
}

// SentenceJob parses a single sentence
type SentenceJob struct {
	Sentence string
	Parser   Parser
}

// Execute executes the job
func (j *SentenceJob) Execute(ctx context.Context) Result {
	result, err := j.Parser.ParseSentence(ctx, j.Sentence)
	return &SentenceResult{
		Sentence: j.Sentence,
		Result:   result,
		Error:    err,
	}
}

// SentenceResult is the outcome of one SentenceJob
type SentenceResult struct {
	Sentence string
	Result   *model.Sentence
	Error    error
}

// GetError returns the error from the parse
func (r *SentenceResult) GetError() error {
	return r.Error
}

// BatchResult holds the results of one batch run, in input order
type BatchResult struct {
	RunID   string
	Results []*SentenceResult
}

// Succeeded returns the number of sentences parsed without error
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Error == nil {
			n++
		}
	}
	return n
}

// Err combines all per-sentence errors, nil if every sentence succeeded
func (b *BatchResult) Err() error {
	var err error
	for i, r := range b.Results {
		if r.Error != nil {
			err = multierr.Append(err, fmt.Errorf("sentence %d %q: %w", i+1, r.Sentence, r.Error))
		}
	}
	return err
}

// BatchProcessor parses many sentences concurrently
type BatchProcessor struct {
	parser      Parser
	concurrency int
	log         *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(parser Parser, concurrency int, log *zap.Logger) *BatchProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchProcessor{
		parser:      parser,
		concurrency: concurrency,
		log:         log.Named("batch"),
	}
}

// ProcessSentences parses all sentences and returns results in input order
func (b *BatchProcessor) ProcessSentences(ctx context.Context, sentences []string) *BatchResult {
	batch := &BatchResult{
		RunID:   uuid.NewString(),
		Results: make([]*SentenceResult, 0, len(sentences)),
	}
	if len(sentences) == 0 {
		return batch
	}

	log := b.log.With(zap.String("run", batch.RunID))
	log.Info("Batch starting", zap.Int("sentences", len(sentences)), zap.Int("workers", b.concurrency))

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, s := range sentences {
		if ctx.Err() != nil {
			log.Warn("Batch cancelled, stopping workers", zap.Error(ctx.Err()))
			pool.Shutdown()
			break
		}
		pool.Submit(&SentenceJob{Sentence: s, Parser: b.parser})
	}

	results := pool.Wait()
	for i, s := range sentences {
		if i < len(results) && results[i] != nil {
			batch.Results = append(batch.Results, results[i].(*SentenceResult))
			continue
		}

		// Never ran because ctx was cancelled
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		batch.Results = append(batch.Results, &SentenceResult{Sentence: s, Error: err})
	}

	log.Info("Batch completed", zap.Int("succeeded", batch.Succeeded()), zap.Int("failed", len(sentences)-batch.Succeeded()))
	return batch
}

// ProcessFile reads sentences from a file and parses them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) (*BatchResult, error) {
	sentences, err := ReadSentencesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sentences: %w", err)
	}

	return b.ProcessSentences(ctx, sentences), nil
}

// ReadSentencesFromFile reads sentences from a file (one per line)
func ReadSentencesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadSentences(file)
}

// ReadSentences reads one sentence per line, skipping blank lines
func ReadSentences(r io.Reader) ([]string, error) {
	var sentences []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sentences = append(sentences, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sentences, nil
}
