// Package assemble turns a per-verse Timeline into verse text: syllables
// joined into words, words grouped into lines at structural break markers.
package assemble

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/Lyrebird/core/notation"
)

// Assemble concatenates the syllables of one timeline into a named verse.
// Begin/Middle/End syllables join without separators into a single word
// fragment; Single syllables form one-word fragments. A chord annotation
// encountered at or before a word's first syllable attaches to that word.
// Line breaks come only from BreakAfter markers, never from position counts.
func Assemble(tl *notation.Timeline) (*notation.Verse, []notation.Diagnostic) {
	verse := &notation.Verse{Name: tl.Verse}
	var diags []notation.Diagnostic

	var line notation.Line
	var word strings.Builder
	wordChord := ""
	pendingChord := ""
	open := false  // inside a multi-syllable word
	split := false // the open word was cut by a line break

	endWord := func() {
		if word.Len() == 0 && wordChord == "" {
			return
		}
		line.Fragments = append(line.Fragments, notation.Fragment{
			Text:  word.String(),
			Chord: wordChord,
		})
		word.Reset()
		wordChord = ""
		open = false
	}
	endLine := func() {
		endWord()
		if len(line.Fragments) > 0 {
			verse.Lines = append(verse.Lines, line)
		}
		line = notation.Line{}
	}

	for i := range tl.Positions {
		pos := &tl.Positions[i]
		if pos.Chord != "" {
			pendingChord = pos.Chord
		}

		s := pos.Syllable
		if s != nil && !s.Skip && !s.BarAdvance {
			kind := s.Kind
			if (kind == notation.Middle || kind == notation.End) && !open {
				if !split {
					diags = append(diags, notation.Warn(0, fmt.Sprintf(
						"verse %s: %s syllable %q has no word to continue, treating as a word start",
						tl.Verse, kind, s.Text)))
				}
				if kind == notation.Middle {
					kind = notation.Begin
				} else {
					kind = notation.Single
				}
			}
			split = false

			if !open {
				wordChord = pendingChord
				pendingChord = ""
			}
			word.WriteString(s.Text)
			open = kind.Continues()
			if !open {
				endWord()
			}
		}

		if pos.BreakAfter {
			if open {
				diags = append(diags, notation.Warn(0, fmt.Sprintf(
					"verse %s: line break splits word after %q", tl.Verse, word.String())))
				split = true
			}
			endLine()
		}
	}
	endLine()

	return verse, diags
}
