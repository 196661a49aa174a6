package zunda

import (
	"strconv"
	"strings"
	"unicode"
)

// Line-start markers of the analyzer output
const (
	funcexpMarker = "#FUNCEXP"
	eventMarker   = "#EVENT"
	chunkMarker   = "* "
)

// line is one classified record of the analyzer output.
// Exactly one of the concrete types below implements it.
type line interface {
	isLine()
}

// funcexpLine carries the functional expression tags of the words that follow
type funcexpLine struct {
	tags []string
}

// eventLine declares an event anchored at an absolute word index
type eventLine struct {
	anchor       int
	source       string
	tense        string
	assumptional string
	eventType    string
	authenticity string
	sentiment    string
}

// chunkLine opens a new chunk
type chunkLine struct {
	linkTo int
	head   int
	fn     int
	score  float64
}

// wordLine is one morpheme of the current chunk
type wordLine struct {
	surface string
	feature string
}

func (funcexpLine) isLine() {}
func (eventLine) isLine()   {}
func (chunkLine) isLine()   {}
func (wordLine) isLine()    {}

// classify turns a non-empty line into its typed record.
// Markers are tested in priority order: funcexp, event, chunk, word.
func classify(text string) (line, error) {
	switch {
	case strings.HasPrefix(text, funcexpMarker):
		return parseFuncexpLine(text)
	case strings.HasPrefix(text, eventMarker):
		return parseEventLine(text)
	case strings.HasPrefix(text, chunkMarker):
		return parseChunkLine(text)
	default:
		return parseWordLine(text)
	}
}

// #FUNCEXP<TAB>O,B:判断
func parseFuncexpLine(text string) (line, error) {
	fields := strings.Split(text, "\t")
	if len(fields) < 2 {
		return nil, malformedf("funcexp line has no tag field")
	}
	return funcexpLine{tags: strings.Split(fields[1], ",")}, nil
}

// #EVENT0<TAB>10<TAB>wr:筆者<TAB>非未来<TAB>0<TAB>叙述<TAB>成立<TAB>0
func parseEventLine(text string) (line, error) {
	fields := strings.Split(text, "\t")
	if len(fields) < 8 {
		return nil, malformedf("event line has %d fields, want at least 8", len(fields))
	}

	anchor, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, malformedf("event word index %q: %v", fields[1], err)
	}
	if anchor < 0 {
		return nil, malformedf("event word index %d is negative", anchor)
	}

	source := strings.Split(fields[2], ":")
	if len(source) < 2 {
		return nil, malformedf("event source %q has no ':' separator", fields[2])
	}

	return eventLine{
		anchor:       anchor,
		source:       source[1],
		tense:        fields[3],
		assumptional: fields[4],
		eventType:    fields[5],
		authenticity: fields[6],
		sentiment:    fields[7],
	}, nil
}

// * 0 5D 0/1 -1.817920
func parseChunkLine(text string) (line, error) {
	fields := strings.Split(text, " ")
	if len(fields) < 5 {
		return nil, malformedf("chunk line has %d fields, want at least 5", len(fields))
	}

	rawLink := strings.TrimRightFunc(fields[2], func(r rune) bool { return !unicode.IsDigit(r) })
	linkTo, err := strconv.Atoi(rawLink)
	if err != nil {
		return nil, malformedf("chunk link %q: %v", fields[2], err)
	}
	if linkTo < -1 {
		return nil, malformedf("chunk link %d is out of range", linkTo)
	}

	headFunc := strings.Split(fields[3], "/")
	if len(headFunc) != 2 {
		return nil, malformedf("chunk head/func %q is not of the form head/func", fields[3])
	}
	head, err := strconv.Atoi(headFunc[0])
	if err != nil {
		return nil, malformedf("chunk head index %q: %v", headFunc[0], err)
	}
	fn, err := strconv.Atoi(headFunc[1])
	if err != nil {
		return nil, malformedf("chunk func index %q: %v", headFunc[1], err)
	}

	score, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return nil, malformedf("chunk score %q: %v", fields[4], err)
	}

	return chunkLine{linkTo: linkTo, head: head, fn: fn, score: score}, nil
}

// 花子<TAB>名詞,固有名詞,人名,名,*,*,花子,ハナコ,ハナコ
func parseWordLine(text string) (line, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != 2 {
		return nil, malformedf("word line has %d tab-separated fields, want 2", len(fields))
	}
	return wordLine{surface: fields[0], feature: fields[1]}, nil
}
