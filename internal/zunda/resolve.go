package zunda

import (
	"strings"

	"github.com/ppiankov/modality/internal/model"
)

// wordPos addresses one word in the flattened word sequence
type wordPos struct {
	chunk int
	word  int
}

// resolve runs both resolution passes and returns the finished sentence.
// Every chunk is resolved before any event picks up chunk references.
func (t *tables) resolve() (*model.Sentence, error) {
	if t.resolved {
		return nil, ErrAlreadyResolved
	}
	t.resolved = true

	chunks, err := t.resolveChunks()
	if err != nil {
		return nil, err
	}

	flat := flatten(chunks)

	events := make([]model.Event, 0, len(t.events))
	for i, rec := range t.events {
		if rec.anchor >= len(flat) {
			return nil, malformedf("event %d: word index %d out of range (%d words)", i, rec.anchor, len(flat))
		}
		events = append(events, anchorEvent(rec, chunks, flat[rec.anchor]))
	}

	return &model.Sentence{
		Events:    events,
		Chunks:    chunks,
		WordCount: len(flat),
	}, nil
}

// resolveChunks builds reverse links and replaces head/func indices with surface text
func (t *tables) resolveChunks() ([]*model.Chunk, error) {
	chunks := make([]*model.Chunk, len(t.chunks))
	for i, rec := range t.chunks {
		if rec.head < 0 || rec.head >= len(rec.words) {
			return nil, malformedf("chunk %d: head index %d out of range (%d words)", i, rec.head, len(rec.words))
		}
		if rec.fn < 0 || rec.fn >= len(rec.words) {
			return nil, malformedf("chunk %d: func index %d out of range (%d words)", i, rec.fn, len(rec.words))
		}
		if rec.linkTo != model.NoLink && (rec.linkTo >= len(t.chunks) || rec.linkTo == i) {
			return nil, malformedf("chunk %d: link target %d out of range (%d chunks)", i, rec.linkTo, len(t.chunks))
		}

		chunks[i] = &model.Chunk{
			LinkTo:   rec.linkTo,
			LinkFrom: []int{},
			Head:     rec.words[rec.head].Surface,
			Func:     rec.words[rec.fn].Surface,
			Score:    rec.score,
			Words:    rec.words,
		}
	}

	for i, c := range chunks {
		if c.LinkTo != model.NoLink {
			target := chunks[c.LinkTo]
			target.LinkFrom = append(target.LinkFrom, i)
		}
	}

	return chunks, nil
}

// flatten lists every word position in chunk order, then word order
func flatten(chunks []*model.Chunk) []wordPos {
	var flat []wordPos
	for ci, c := range chunks {
		for wi := range c.Words {
			flat = append(flat, wordPos{chunk: ci, word: wi})
		}
	}
	return flat
}

// anchorEvent attaches an event to the chunk holding its anchor word and
// to every chunk depending on it
func anchorEvent(rec eventRecord, chunks []*model.Chunk, pos wordPos) model.Event {
	ev := rec.event
	anchor := chunks[pos.chunk]

	ev.Word = anchor.Words[pos.word].Surface
	ev.Chunks = make([]*model.Chunk, 0, len(anchor.LinkFrom)+1)
	for _, from := range anchor.LinkFrom {
		ev.Chunks = append(ev.Chunks, chunks[from])
	}
	ev.Chunks = append(ev.Chunks, anchor)

	var span strings.Builder
	for _, c := range ev.Chunks {
		span.WriteString(c.Surface())
	}
	ev.Span = span.String()

	return ev
}
