package musicxml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/Lyrebird/core/notation"
)

// ParseResult is the outcome of parsing one MusicXML score.
type ParseResult struct {
	// Timelines holds one timeline per (part, verse) pair. Parts keep their
	// document order; verses keep first-seen order within each part.
	Timelines []*notation.Timeline

	// Meta is the score metadata from header tokens.
	Meta notation.Metadata

	// Diagnostics are the non-fatal findings recorded while parsing.
	Diagnostics []notation.Diagnostic
}

// partState accumulates one part's shared position sequence and the
// per-verse syllable attachments onto it.
type partState struct {
	voice      string
	positions  []notation.Position
	attach     map[string]map[int]notation.Syllable
	verseOrder []string
}

// Parse consumes scanner tokens and builds per-verse timelines. Every verse
// of a part shares the part's duration sequence; a note's lyric elements
// attach one syllable per verse at that note's position.
func Parse(tokens []notation.Token) (*ParseResult, error) {
	result := &ParseResult{}
	var parts []*partState
	var cur *partState

	part := func() *partState {
		if cur == nil {
			cur = &partState{voice: "1", attach: make(map[string]map[int]notation.Syllable)}
			parts = append(parts, cur)
		}
		return cur
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case notation.TokenHeader:
			parseHeader(result, tok)

		case notation.TokenPart:
			cur = &partState{voice: tok.Key, attach: make(map[string]map[int]notation.Syllable)}
			if cur.voice == "" {
				cur.voice = "1"
			}
			parts = append(parts, cur)

		case notation.TokenNote:
			if tok.Rest {
				continue
			}
			p := part()
			idx := len(p.positions)
			p.positions = append(p.positions, notation.Position{
				Duration: tok.Duration,
				Pitch:    tok.Pitch,
				Chord:    tok.Chord,
			})
			for _, syl := range tok.Syllables {
				verse := syl.Verse
				if verse == "" {
					verse = "1"
				}
				if p.attach[verse] == nil {
					p.attach[verse] = make(map[int]notation.Syllable)
					p.verseOrder = append(p.verseOrder, verse)
				}
				if prev, dup := p.attach[verse][idx]; dup {
					result.Diagnostics = append(result.Diagnostics, notation.Warn(0, fmt.Sprintf(
						"part %s: note carries two lyrics for verse %s (%q, %q), keeping the first",
						p.voice, verse, prev.Text, syl.Text)))
					continue
				}
				p.attach[verse][idx] = syl
			}

		case notation.TokenBarLine:
			if tok.Break && cur != nil && len(cur.positions) > 0 {
				cur.positions[len(cur.positions)-1].BreakAfter = true
			}
		}
	}

	for _, p := range parts {
		for _, verse := range p.verseOrder {
			tl := &notation.Timeline{Voice: p.voice, Verse: verse}
			tl.Positions = make([]notation.Position, len(p.positions))
			copy(tl.Positions, p.positions)
			for idx, syl := range p.attach[verse] {
				s := syl
				s.Verse = verse
				tl.Positions[idx].Syllable = &s
			}
			result.Timelines = append(result.Timelines, tl)
		}
	}
	return result, nil
}

// parseHeader maps one metadata token onto the score metadata.
func parseHeader(result *ParseResult, tok notation.Token) {
	switch {
	case tok.Key == "work-title" || tok.Key == "movement-title":
		result.Meta.Titles = append(result.Meta.Titles, tok.Value)
	case strings.HasPrefix(tok.Key, "creator:"):
		role := strings.TrimPrefix(tok.Key, "creator:")
		result.Meta.Authors = append(result.Meta.Authors, notation.Author{
			Type: creatorRole(role),
			Name: tok.Value,
		})
	case tok.Key == "fifths":
		if v, err := strconv.Atoi(tok.Value); err == nil {
			result.Meta.Key = fifthsToKey(v)
		}
	case tok.Key == "time":
		result.Meta.TimeSignature = tok.Value
	case tok.Key == "tempo":
		result.Meta.TempoText = tok.Value
	}
}

// creatorRole maps MusicXML creator types to author roles.
func creatorRole(role string) string {
	switch role {
	case "composer", "arranger":
		return "music"
	case "lyricist", "poet":
		return "words"
	case "translator":
		return "translation"
	}
	return role
}

var keyNames = []string{
	"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F",
	"C",
	"G", "D", "A", "E", "B", "F#", "C#",
}

// fifthsToKey names the major key for a circle-of-fifths count.
func fifthsToKey(fifths int) string {
	idx := fifths + 7
	if idx < 0 || idx >= len(keyNames) {
		return ""
	}
	return keyNames[idx]
}
