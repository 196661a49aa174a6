package model

import "strings"

// NoLink is the forward link value of the sentence-final (root) chunk
const NoLink = -1

// FuncexpNone is the funcexp tag of words outside any functional expression
const FuncexpNone = "O"

// Word is a single morpheme as reported by the analyzer
type Word struct {
	Surface string `json:"surface" yaml:"surface"`
	Feature string `json:"feature" yaml:"feature"` // IPADIC feature string, kept verbatim
	Funcexp string `json:"funcexp" yaml:"funcexp"` // e.g. "O", "B:判断", "I:完了"
}

// Chunk is a syntactic unit (bunsetsu) with its dependency links
type Chunk struct {
	LinkTo   int     `json:"link_to" yaml:"link_to"`     // Index of the chunk this one attaches to, NoLink for root
	LinkFrom []int   `json:"link_from" yaml:"link_from"` // Indices of chunks attaching to this one, in sentence order
	Head     string  `json:"head" yaml:"head"`           // Surface of the head word
	Func     string  `json:"func" yaml:"func"`           // Surface of the function word
	Score    float64 `json:"score" yaml:"score"`         // Attachment score, opaque
	Words    []Word  `json:"words" yaml:"words"`
}

// IsRoot reports whether the chunk has no forward link
func (c *Chunk) IsRoot() bool {
	return c.LinkTo == NoLink
}

// Surface concatenates the surface text of all words in the chunk
func (c *Chunk) Surface() string {
	var b strings.Builder
	for _, w := range c.Words {
		b.WriteString(w.Surface)
	}
	return b.String()
}

// Event is a predicate annotated with extended modality
type Event struct {
	Word         string   `json:"word" yaml:"word"` // Surface of the anchoring word
	Source       string   `json:"source" yaml:"source"`
	Tense        string   `json:"tense" yaml:"tense"`
	Assumptional string   `json:"assumptional" yaml:"assumptional"`
	Type         string   `json:"type" yaml:"type"`
	Authenticity string   `json:"authenticity" yaml:"authenticity"`
	Sentiment    string   `json:"sentiment" yaml:"sentiment"`
	Chunks       []*Chunk `json:"chunks" yaml:"chunks"` // Dependents of the anchor chunk, then the anchor chunk
	Span         string   `json:"words" yaml:"words"`   // Concatenated surface of Chunks
}

// Sentence is the complete parse of one analyzer run
type Sentence struct {
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Text      string   `json:"text,omitempty" yaml:"text,omitempty"`
	Events    []Event  `json:"events" yaml:"events"`
	Chunks    []*Chunk `json:"chunks" yaml:"chunks"`
	WordCount int      `json:"word_count" yaml:"word_count"`
}

// Surface reconstructs the sentence from its chunks
func (s *Sentence) Surface() string {
	var b strings.Builder
	for _, c := range s.Chunks {
		b.WriteString(c.Surface())
	}
	return b.String()
}
