package zunda

import (
	"errors"
	"strings"

	"github.com/ppiankov/modality/internal/model"
)

// chunkRecord is a chunk as read from the output, before its head and
// function word indices are replaced by surface text
type chunkRecord struct {
	linkTo int
	head   int
	fn     int
	score  float64
	words  []model.Word
}

// eventRecord is an event whose anchor is still an absolute word index
type eventRecord struct {
	anchor int
	event  model.Event
}

// tables collects everything read from one analyzer run.
// They are resolved exactly once.
type tables struct {
	events   []eventRecord
	chunks   []*chunkRecord
	resolved bool
}

// build reads the analyzer output into tables. The last line is the
// end-of-sentence marker and is dropped unconditionally; empty lines are skipped.
func build(text string) (*tables, error) {
	t := &tables{}

	var (
		tags      []string
		wordCount int
	)

	lines := splitLines(text)
	if len(lines) > 0 {
		lines = lines[:len(lines)-1]
	}

	for i, raw := range lines {
		if raw == "" {
			continue
		}

		rec, err := classify(raw)
		if err == nil {
			switch rec := rec.(type) {
			case funcexpLine:
				tags = rec.tags
				wordCount = 0
			case eventLine:
				t.events = append(t.events, eventRecord{
					anchor: rec.anchor,
					event: model.Event{
						Source:       rec.source,
						Tense:        rec.tense,
						Assumptional: rec.assumptional,
						Type:         rec.eventType,
						Authenticity: rec.authenticity,
						Sentiment:    rec.sentiment,
						Chunks:       []*model.Chunk{},
					},
				})
			case chunkLine:
				t.chunks = append(t.chunks, &chunkRecord{
					linkTo: rec.linkTo,
					head:   rec.head,
					fn:     rec.fn,
					score:  rec.score,
				})
			case wordLine:
				err = t.addWord(rec, tags, wordCount)
				wordCount++
			}
		}

		if err != nil {
			var me *MalformedError
			if errors.As(err, &me) {
				me.Line = i + 1
				me.Text = raw
			}
			return nil, err
		}
	}

	return t, nil
}

// addWord appends a word to the most recently opened chunk
func (t *tables) addWord(w wordLine, tags []string, index int) error {
	if len(t.chunks) == 0 {
		return malformedf("word line before any chunk header")
	}
	if index >= len(tags) {
		return malformedf("no funcexp tag for word %d (%d tags)", index, len(tags))
	}

	current := t.chunks[len(t.chunks)-1]
	current.words = append(current.words, model.Word{
		Surface: w.surface,
		Feature: w.feature,
		Funcexp: tags[index],
	})
	return nil
}

// splitLines splits on line breaks without yielding a trailing empty line
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
