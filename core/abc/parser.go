package abc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/Lyrebird/core/errors"
	"github.com/FocuswithJustin/Lyrebird/core/notation"
)

// ParseResult is the outcome of parsing one ABC tune.
type ParseResult struct {
	// Timelines holds one timeline per (voice, verse) pair, in declaration
	// order of the verse numbers.
	Timelines []*notation.Timeline

	// TextVerses are whole verses taken from %%begintext blocks. They have
	// no timeline and are appended after the sung verses.
	TextVerses []*notation.Verse

	// Meta is the document metadata from header fields.
	Meta notation.Metadata

	// Diagnostics are the non-fatal findings recorded while parsing.
	Diagnostics []notation.Diagnostic
}

// musicLine is the alignment template built from one line of music: the
// note-bearing positions and the position index at which each bar starts.
type musicLine struct {
	positions []notation.Position
	barStarts []int
	line      int
}

// parser holds the state for one Parse call. Header defaults (the default
// note length) are scoped to the document, never shared across calls.
type parser struct {
	result     ParseResult
	defaultLen notation.Duration
	voice      string
	current    *musicLine // most recent music line for the current voice
	lastMusic  map[string]*musicLine
	verseCount int // lyric lines seen since the last music line
	timelines  map[string]*notation.Timeline
	tuneSeen   bool
	inText     bool
	textVerse  *notation.Verse
}

// Parse consumes scanner tokens and builds per-verse timelines for the first
// tune in the input. Lyric lines are zipped positionally against the most
// recently declared note line of the same voice; a lyric line with more
// syllables than note positions fails with an AlignmentError.
func Parse(tokens []notation.Token) (*ParseResult, error) {
	p := &parser{
		defaultLen: notation.Duration{Num: 1, Den: 8},
		voice:      "1",
		lastMusic:  make(map[string]*musicLine),
		timelines:  make(map[string]*notation.Timeline),
	}

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch tok.Kind {
		case notation.TokenHeader:
			if done := p.header(tok); done {
				return &p.result, nil
			}
			i++

		case notation.TokenDirective:
			p.directive(tok)
			i++

		case notation.TokenNote, notation.TokenBarLine:
			// Group the whole music line.
			j := i
			for j < len(tokens) && tokens[j].Line == tok.Line &&
				(tokens[j].Kind == notation.TokenNote || tokens[j].Kind == notation.TokenBarLine ||
					tokens[j].Kind == notation.TokenUnknown || tokens[j].Kind == notation.TokenHeader) {
				j++
			}
			p.musicLine(tokens[i:j])
			i = j

		case notation.TokenLyricSyllable:
			j := i
			for j < len(tokens) && tokens[j].Line == tok.Line && tokens[j].Kind == notation.TokenLyricSyllable {
				j++
			}
			if err := p.lyricLine(tokens[i:j]); err != nil {
				return nil, err
			}
			i = j

		case notation.TokenUnknown:
			p.warnf(tok.Line, "unrecognized content %q", tok.Raw)
			i++

		default:
			i++
		}
	}
	return &p.result, nil
}

func (p *parser) warnf(line int, format string, args ...interface{}) {
	p.result.Diagnostics = append(p.result.Diagnostics, notation.Warn(line, fmt.Sprintf(format, args...)))
}

// header applies one header field. It returns true when a second tune
// starts; only the first tune of a tune book is converted.
func (p *parser) header(tok notation.Token) bool {
	switch tok.Key {
	case "X":
		if p.tuneSeen {
			return true
		}
		p.tuneSeen = true
	case "T":
		if tok.Value != "" {
			p.result.Meta.Titles = append(p.result.Meta.Titles, tok.Value)
		}
	case "M":
		p.result.Meta.TimeSignature = tok.Value
		p.applyMeterDefault(tok.Value)
	case "L":
		if d, ok := parseFraction(tok.Value); ok {
			p.defaultLen = d
		} else {
			p.warnf(tok.Line, "invalid note length %q", tok.Value)
		}
	case "K":
		p.result.Meta.Key = tok.Value
	case "Q":
		p.result.Meta.TempoText = tok.Value
	case "C":
		p.addAuthor("music", tok.Value)
	case "V":
		name, _, _ := strings.Cut(strings.TrimSpace(tok.Value), " ")
		if name != "" {
			p.voice = name
			p.current = p.lastMusic[name]
			p.verseCount = 0
		}
	case "OHAUTHOR":
		p.addAuthor("words", tok.Value)
	case "OHCOMPOSER", "OHARRANGER":
		p.addAuthor("music", tok.Value)
	case "OHTRANSLATOR":
		p.addAuthor("translation", tok.Value)
	case "OHCATEGORY":
		if tok.Value != "" {
			p.result.Meta.Themes = append(p.result.Meta.Themes, strings.ToLower(tok.Value))
		}
	case "OHTOPICS":
		// Topic lists are free-form; no structured mapping exists yet.
	default:
		p.warnf(tok.Line, "unknown header field %q", tok.Key)
	}
	return false
}

func (p *parser) addAuthor(authorType, name string) {
	if name == "" || name == "none" {
		return
	}
	p.result.Meta.Authors = append(p.result.Meta.Authors, notation.Author{Type: authorType, Name: name})
}

// applyMeterDefault sets the default note length from the meter when no L:
// field has fixed it: meters below 3/4 default to 1/16, others to 1/8.
func (p *parser) applyMeterDefault(meter string) {
	m, ok := parseFraction(meter)
	if !ok {
		return
	}
	if m.Num*4 < m.Den*3 {
		p.defaultLen = notation.Duration{Num: 1, Den: 16}
	} else {
		p.defaultLen = notation.Duration{Num: 1, Den: 8}
	}
}

// directive handles %%begintext blocks; all other directives are
// formatting hints with no lyric content.
func (p *parser) directive(tok notation.Token) {
	switch {
	case strings.HasPrefix(tok.Key, "begintext"):
		p.inText = true
		p.textVerse = &notation.Verse{}
		p.result.TextVerses = append(p.result.TextVerses, p.textVerse)
	case strings.HasPrefix(tok.Key, "endtext"):
		p.inText = false
		p.textVerse = nil
	case p.inText:
		text := strings.TrimSpace(tok.Raw)
		text = strings.ReplaceAll(text, "\\t", "")
		if text == "" {
			p.textVerse = &notation.Verse{}
			p.result.TextVerses = append(p.result.TextVerses, p.textVerse)
			return
		}
		p.textVerse.Lines = append(p.textVerse.Lines, notation.Line{
			Fragments: []notation.Fragment{{Text: text}},
		})
	}
}

// musicLine builds the alignment template from one line of music and resets
// the verse counter for the lyric lines that follow.
func (p *parser) musicLine(tokens []notation.Token) {
	ml := &musicLine{barStarts: []int{0}}
	if len(tokens) > 0 {
		ml.line = tokens[0].Line
	}
	for _, tok := range tokens {
		switch tok.Kind {
		case notation.TokenNote:
			if tok.Rest {
				// Rests are skipped for alignment purposes.
				continue
			}
			ml.positions = append(ml.positions, notation.Position{
				Duration: p.defaultLen.Mul(tok.Duration.Num, tok.Duration.Den),
				Pitch:    tok.Pitch,
				Chord:    tok.Chord,
			})
		case notation.TokenBarLine:
			ml.barStarts = append(ml.barStarts, len(ml.positions))
		case notation.TokenHeader:
			// Inline field such as [L:1/4]; takes effect mid-line.
			p.header(tok)
		case notation.TokenUnknown:
			p.warnf(tok.Line, "unrecognized music content %q", tok.Raw)
		}
	}
	p.current = ml
	p.lastMusic[p.voice] = ml
	p.verseCount = 0
}

// lyricLine zips one "w:" line against the current music line. The first
// lyric line after a music line belongs to verse 1, the second to verse 2,
// and so on.
func (p *parser) lyricLine(tokens []notation.Token) error {
	if p.current == nil {
		p.warnf(tokens[0].Line, "lyric line with no preceding note line")
		return nil
	}

	verse := strconv.Itoa(p.verseCount + 1)
	p.verseCount++

	positions := make([]notation.Position, len(p.current.positions))
	copy(positions, p.current.positions)

	pi := 0
	for _, tok := range tokens {
		syl := tok.Syllables[0]
		switch {
		case syl.BarAdvance:
			pi = p.current.nextBar(pi)
		case syl.Skip:
			pi++
		default:
			if pi >= len(positions) {
				return errors.NewAlignment(p.voice, tok.Line, countSung(tokens), len(positions))
			}
			s := syl
			s.Verse = verse
			positions[pi].Syllable = &s
			pi++
		}
	}
	if len(positions) > 0 {
		// Each sung line of music is one line of verse text.
		positions[len(positions)-1].BreakAfter = true
	}

	tl := p.timeline(verse)
	tl.Positions = append(tl.Positions, positions...)
	return nil
}

// nextBar returns the index of the first position in the bar after pi.
func (ml *musicLine) nextBar(pi int) int {
	for _, start := range ml.barStarts {
		if start > pi {
			return start
		}
	}
	return len(ml.positions)
}

func countSung(tokens []notation.Token) int {
	n := 0
	for _, tok := range tokens {
		s := tok.Syllables[0]
		if !s.Skip && !s.BarAdvance {
			n++
		}
	}
	return n
}

// timeline returns the timeline for a verse of the current voice, creating
// it in declaration order.
func (p *parser) timeline(verse string) *notation.Timeline {
	key := p.voice + "\x00" + verse
	if tl, ok := p.timelines[key]; ok {
		return tl
	}
	tl := &notation.Timeline{Voice: p.voice, Verse: verse}
	p.timelines[key] = tl
	p.result.Timelines = append(p.result.Timelines, tl)
	return tl
}

// parseFraction parses "3/4" or "C"/"C|" meter shorthands.
func parseFraction(s string) (notation.Duration, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "C":
		return notation.Duration{Num: 4, Den: 4}, true
	case "C|":
		return notation.Duration{Num: 2, Den: 2}, true
	}
	numStr, denStr, ok := strings.Cut(s, "/")
	if !ok {
		return notation.Duration{}, false
	}
	num, err1 := strconv.Atoi(strings.TrimSpace(numStr))
	den, err2 := strconv.Atoi(strings.TrimSpace(denStr))
	if err1 != nil || err2 != nil || num <= 0 || den <= 0 {
		return notation.Duration{}, false
	}
	return notation.Duration{Num: num, Den: den}, true
}
