// Package zunda parses the output of the zunda extended modality analyzer
// into events, chunks and words.
//
// Parsing is two-phase: all lines are read into tables first, then chunk
// links, head/function words and event anchors are resolved against the
// complete tables.
package zunda

import (
	"fmt"

	"golang.org/x/text/encoding"

	"github.com/ppiankov/modality/internal/model"
)

// Parser decodes and parses analyzer output produced with a given encoding
type Parser struct {
	encodingName string
	enc          encoding.Encoding
}

// NewParser creates a parser for output in the named encoding ("" means utf-8)
func NewParser(encodingName string) (*Parser, error) {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	return &Parser{encodingName: encodingName, enc: enc}, nil
}

// Encoding returns the configured encoding name
func (p *Parser) Encoding() string {
	return p.encodingName
}

// Decode converts raw analyzer output to text
func (p *Parser) Decode(raw []byte) (string, error) {
	return decode(p.enc, raw)
}

// ParseBytes decodes raw analyzer output and parses it
func (p *Parser) ParseBytes(raw []byte) (*model.Sentence, error) {
	text, err := p.Decode(raw)
	if err != nil {
		return nil, err
	}
	return ParseSentence(text)
}

// Parse returns the resolved events of one analyzer run
func Parse(text string) ([]model.Event, error) {
	s, err := ParseSentence(text)
	if err != nil {
		return nil, err
	}
	return s.Events, nil
}

// ParseSentence returns the resolved events together with all chunks
func ParseSentence(text string) (*model.Sentence, error) {
	t, err := build(text)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	s, err := t.resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve output: %w", err)
	}
	return s, nil
}
