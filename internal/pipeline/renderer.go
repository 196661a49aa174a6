package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/modality/internal/model"
)

// Format selects how results are rendered
type Format string

// Supported output formats
const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatMarkdown, FormatHTML, FormatText:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (supported: json, yaml, markdown, html, text)", s)
}

// Renderer writes parsed sentences in one format
type Renderer struct {
	format Format
}

// NewRenderer creates a new renderer
func NewRenderer(format Format) *Renderer {
	return &Renderer{format: format}
}

// Render writes the sentences to w. A single sentence is rendered as one
// document, several as a list.
func (r *Renderer) Render(w io.Writer, sentences ...*model.Sentence) error {
	switch r.format {
	case FormatYAML:
		return renderYAML(w, sentences)
	case FormatMarkdown:
		return renderMarkdown(w, sentences)
	case FormatHTML:
		return renderHTML(w, sentences)
	case FormatText:
		return renderText(w, sentences)
	default:
		return renderJSON(w, sentences)
	}
}

// RenderFile writes the sentences to path
func (r *Renderer) RenderFile(path string, sentences ...*model.Sentence) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close file: %w", closeErr)
		}
	}()

	return r.Render(f, sentences...)
}

func document(sentences []*model.Sentence) any {
	if len(sentences) == 1 {
		return sentences[0]
	}
	return sentences
}

func renderJSON(w io.Writer, sentences []*model.Sentence) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document(sentences)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func renderYAML(w io.Writer, sentences []*model.Sentence) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document(sentences)); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return enc.Close()
}

func renderMarkdown(w io.Writer, sentences []*model.Sentence) error {
	var b strings.Builder

	for i, s := range sentences {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", title(s))

		if len(s.Events) == 0 {
			b.WriteString("_No events._\n")
		} else {
			b.WriteString("| # | Word | Source | Tense | Assumptional | Type | Authenticity | Sentiment | Span |\n")
			b.WriteString("|---|------|--------|-------|--------------|------|--------------|-----------|------|\n")
			for j, ev := range s.Events {
				fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
					j, mdCell(ev.Word), mdCell(ev.Source), mdCell(ev.Tense), mdCell(ev.Assumptional),
					mdCell(ev.Type), mdCell(ev.Authenticity), mdCell(ev.Sentiment), mdCell(ev.Span))
			}
		}

		b.WriteString("\n### Chunks\n\n")
		b.WriteString("| # | Text | Head | Func | Link | From | Funcexp | Score |\n")
		b.WriteString("|---|------|------|------|------|------|---------|-------|\n")
		for j, c := range s.Chunks {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %.6f |\n",
				j, mdCell(c.Surface()), mdCell(c.Head), mdCell(c.Func), linkLabel(c), linksLabel(c.LinkFrom), mdCell(funcexpLabel(c)), c.Score)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func renderText(w io.Writer, sentences []*model.Sentence) error {
	var b strings.Builder

	for _, s := range sentences {
		fmt.Fprintf(&b, "%s (%d events, %d chunks, %d words)\n", title(s), len(s.Events), len(s.Chunks), s.WordCount)
		for _, ev := range s.Events {
			fmt.Fprintf(&b, "  %s [%s/%s/%s/%s/%s/%s] %s\n",
				ev.Word, ev.Source, ev.Tense, ev.Assumptional, ev.Type, ev.Authenticity, ev.Sentiment, ev.Span)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderHTML(w io.Writer, sentences []*model.Sentence) error {
	body := element(atom.Body)
	for _, s := range sentences {
		body.AppendChild(textElement(atom.H2, title(s)))
		body.AppendChild(eventTable(s))
		body.AppendChild(chunkTable(s))
	}

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	head.AppendChild(textElement(atom.Title, "modality report"))

	root := element(atom.Html, html.Attribute{Key: "lang", Val: "ja"})
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render HTML: %w", err)
	}
	return nil
}

func eventTable(s *model.Sentence) *html.Node {
	table := element(atom.Table, html.Attribute{Key: "class", Val: "events"})
	table.AppendChild(row(atom.Th, "Word", "Source", "Tense", "Assumptional", "Type", "Authenticity", "Sentiment", "Span"))
	for _, ev := range s.Events {
		table.AppendChild(row(atom.Td, ev.Word, ev.Source, ev.Tense, ev.Assumptional, ev.Type, ev.Authenticity, ev.Sentiment, ev.Span))
	}
	return table
}

func chunkTable(s *model.Sentence) *html.Node {
	table := element(atom.Table, html.Attribute{Key: "class", Val: "chunks"})
	table.AppendChild(row(atom.Th, "#", "Text", "Head", "Func", "Link", "From", "Score"))
	for i, c := range s.Chunks {
		table.AppendChild(row(atom.Td, fmt.Sprint(i), c.Surface(), c.Head, c.Func, linkLabel(c), linksLabel(c.LinkFrom), fmt.Sprintf("%.6f", c.Score)))
	}
	return table
}

func row(cell atom.Atom, values ...string) *html.Node {
	tr := element(atom.Tr)
	for _, v := range values {
		tr.AppendChild(textElement(cell, v))
	}
	return tr
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textElement(a atom.Atom, text string) *html.Node {
	n := element(a)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func title(s *model.Sentence) string {
	if s.Text != "" {
		return s.Text
	}
	return s.Surface()
}

// funcexpLabel lists the tagged words of a chunk, "-" when none is tagged
func funcexpLabel(c *model.Chunk) string {
	var parts []string
	for _, w := range c.Words {
		if w.Funcexp != model.FuncexpNone {
			parts = append(parts, w.Surface+"="+w.Funcexp)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func linkLabel(c *model.Chunk) string {
	if c.IsRoot() {
		return "root"
	}
	return fmt.Sprint(c.LinkTo)
}

func linksLabel(links []int) string {
	parts := make([]string, len(links))
	for i, l := range links {
		parts[i] = fmt.Sprint(l)
	}
	return strings.Join(parts, ",")
}
