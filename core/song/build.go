package song

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/Lyrebird/core/errors"
	"github.com/FocuswithJustin/Lyrebird/core/notation"
)

// Build turns an assembled verse set into the canonical song model.
// Verse names are normalized to OpenLyrics form: numeric names become
// "v1", "v2", ...; the chorus label becomes "c1". Verses keep their
// declaration order, and verseOrder lists them in that order.
func Build(vs *notation.VerseSet) (*Song, error) {
	s := &Song{
		Xmlns:     Namespace,
		Version:   FormatVersion,
		CreatedIn: CreatedIn,
	}
	buildProperties(s, vs.Meta)

	var order []string
	for _, v := range vs.Verses() {
		if v.Empty() {
			continue
		}
		name, err := normalizeVerseName(v.Name)
		if err != nil {
			return nil, err
		}
		s.Verses = append(s.Verses, Verse{Name: name, Lines: buildLines(v)})
		order = append(order, name)
	}
	if len(s.Verses) == 0 {
		return nil, errors.NewUnsupported("song", "lyrics", "no verse has any lyric content")
	}
	s.Properties.VerseOrder = strings.Join(order, " ")

	if s.PrimaryTitle() == "" {
		s.Properties.Titles = append([]Title{{Value: untitled(s)}}, s.Properties.Titles...)
	}
	return s, nil
}

func buildProperties(s *Song, meta notation.Metadata) {
	for _, t := range meta.Titles {
		s.Properties.Titles = append(s.Properties.Titles, Title{Value: t})
	}
	for _, a := range meta.Authors {
		s.Properties.Authors = append(s.Properties.Authors, Author{Type: a.Type, Value: a.Name})
	}
	s.Properties.Key = meta.Key
	if meta.TempoText != "" {
		s.Properties.Tempo = &Tempo{Type: "text", Value: meta.TempoText}
	}
	for _, th := range meta.Themes {
		s.Properties.Themes = append(s.Properties.Themes, Theme{Value: th})
	}
}

// buildLines flattens a verse into mixed content: fragments joined with
// single spaces, chords placed before the word they annotate, and a break
// between lines.
func buildLines(v *notation.Verse) Lines {
	var lines Lines
	first := true
	for _, line := range v.Lines {
		if line.Empty() {
			continue
		}
		if !first {
			lines.AppendBreak()
		}
		first = false
		for i, frag := range line.Fragments {
			if i > 0 {
				lines.AppendText(" ")
			}
			lines.AppendChord(frag.Chord)
			lines.AppendText(frag.Text)
		}
	}
	return lines
}

// normalizeVerseName maps parser verse labels onto OpenLyrics verse names.
func normalizeVerseName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", errors.NewInternal("builder", "verse with empty name reached the builder")
	}
	if name == "c" || name == "chorus" {
		return "c1", nil
	}
	if isDigits(name) {
		return "v" + name, nil
	}
	if validVerseName(name) {
		return name, nil
	}
	return "", errors.NewInternal("builder", fmt.Sprintf("verse name %q cannot be normalized", name))
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// validVerseName matches OpenLyrics verse names: a type letter, a number,
// and an optional part letter ("v1", "c1", "b1", "v1a").
func validVerseName(s string) bool {
	if len(s) < 2 {
		return false
	}
	switch s[0] {
	case 'v', 'c', 'b', 'p', 'e', 'i', 'o':
	default:
		return false
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 1 {
		return false
	}
	if i == len(s) {
		return true
	}
	return i == len(s)-1 && s[i] >= 'a' && s[i] <= 'z'
}

func untitled(s *Song) string {
	if len(s.Verses) > 0 {
		text := s.Verses[0].Lines.Text()
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
		if text != "" {
			return text
		}
	}
	return "Untitled"
}
