package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/ppiankov/modality/internal/model"
)

// mockParser fails for sentences containing "壊"
type mockParser struct{}

func (m *mockParser) ParseSentence(ctx context.Context, sentence string) (*model.Sentence, error) {
	time.Sleep(5 * time.Millisecond)
	if strings.Contains(sentence, "壊") {
		return nil, errors.New("parse error")
	}
	return &model.Sentence{Text: sentence, Events: []model.Event{}}, nil
}

func TestBatchProcessor_ProcessSentences(t *testing.T) {
	processor := NewBatchProcessor(&mockParser{}, 2, zaptest.NewLogger(t))

	sentences := []string{"雨が降った", "花子は嫌いだった", "太郎を誘った"}
	batch := processor.ProcessSentences(context.Background(), sentences)

	if len(batch.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(batch.Results))
	}
	if batch.RunID == "" {
		t.Error("expected a run id")
	}
	for i, res := range batch.Results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Sentence, res.Error)
		}
		if res.Sentence != sentences[i] || res.Result.Text != sentences[i] {
			t.Errorf("result %d out of order: %q", i, res.Sentence)
		}
	}
	if batch.Succeeded() != 3 || batch.Err() != nil {
		t.Errorf("expected 3 successes and no error, got %d, %v", batch.Succeeded(), batch.Err())
	}
}

func TestBatchProcessor_Errors(t *testing.T) {
	processor := NewBatchProcessor(&mockParser{}, 2, nil)

	batch := processor.ProcessSentences(context.Background(), []string{"壊れた", "雨", "壊す"})

	if batch.Succeeded() != 1 {
		t.Errorf("expected 1 success, got %d", batch.Succeeded())
	}
	if errs := multierr.Errors(batch.Err()); len(errs) != 2 {
		t.Errorf("expected 2 combined errors, got %d", len(errs))
	}
	if batch.Results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockParser{}, 2, nil)

	batch := processor.ProcessSentences(context.Background(), nil)
	if len(batch.Results) != 0 {
		t.Errorf("expected 0 results, got %d", len(batch.Results))
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	processor := NewBatchProcessor(&mockParser{}, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := processor.ProcessSentences(ctx, []string{"雨", "雪", "晴れ"})
	if len(batch.Results) != 3 {
		t.Fatalf("expected a result for every sentence, got %d", len(batch.Results))
	}
	for _, res := range batch.Results {
		if res.Result == nil && res.Error == nil {
			t.Errorf("expected error or result for %s", res.Sentence)
		}
	}
}

// cancellingParser cancels the batch context while parsing its first sentence
type cancellingParser struct {
	cancel context.CancelFunc
}

func (c *cancellingParser) ParseSentence(ctx context.Context, sentence string) (*model.Sentence, error) {
	c.cancel()
	return &model.Sentence{Text: sentence, Events: []model.Event{}}, nil
}

func TestBatchProcessor_CancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	processor := NewBatchProcessor(&cancellingParser{cancel: cancel}, 1, zaptest.NewLogger(t))

	sentences := make([]string, 50)
	for i := range sentences {
		sentences[i] = "雨が降った"
	}

	done := make(chan *BatchResult)
	go func() {
		done <- processor.ProcessSentences(ctx, sentences)
	}()

	var batch *BatchResult
	select {
	case batch = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not stop after cancellation")
	}

	if len(batch.Results) != len(sentences) {
		t.Fatalf("expected a result for every sentence, got %d", len(batch.Results))
	}
	if batch.Succeeded() == len(sentences) {
		t.Error("expected sentences after cancellation to be skipped")
	}
	if !errors.Is(batch.Err(), context.Canceled) {
		t.Errorf("expected skipped sentences to report context.Canceled, got %v", batch.Err())
	}
}

func TestReadSentencesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentences.txt")
	content := "花子は太郎を食事に誘った\n\n  雨が降った  \r\n裕子が嫌いだった"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	sentences, err := ReadSentencesFromFile(path)
	if err != nil {
		t.Fatalf("ReadSentencesFromFile: %v", err)
	}

	want := []string{"花子は太郎を食事に誘った", "雨が降った", "裕子が嫌いだった"}
	if len(sentences) != len(want) {
		t.Fatalf("expected %v, got %v", want, sentences)
	}
	for i := range want {
		if sentences[i] != want[i] {
			t.Errorf("sentence %d: expected %q, got %q", i, want[i], sentences[i])
		}
	}
}

func TestReadSentencesFromFile_Missing(t *testing.T) {
	if _, err := ReadSentencesFromFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
