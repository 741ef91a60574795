// Package convert is the conversion front door: it detects the input
// notation, runs the matching scanner and parser, assembles the timelines
// into verses and builds the canonical song model.
package convert

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/Lyrebird/core/abc"
	"github.com/FocuswithJustin/Lyrebird/core/assemble"
	"github.com/FocuswithJustin/Lyrebird/core/encoding"
	"github.com/FocuswithJustin/Lyrebird/core/errors"
	"github.com/FocuswithJustin/Lyrebird/core/musicxml"
	"github.com/FocuswithJustin/Lyrebird/core/notation"
	"github.com/FocuswithJustin/Lyrebird/core/song"
	"github.com/FocuswithJustin/Lyrebird/internal/logging"
)

// Format identifies an input notation.
type Format int

// Input formats.
const (
	// FormatUnknown is input no detector claimed.
	FormatUnknown Format = iota
	// FormatABC is ABC compact notation.
	FormatABC
	// FormatMusicXML is a score-partwise MusicXML document.
	FormatMusicXML
	// FormatOpenLyrics is an already-canonical OpenLyrics document.
	FormatOpenLyrics
)

func (f Format) String() string {
	switch f {
	case FormatABC:
		return "abc"
	case FormatMusicXML:
		return "musicxml"
	case FormatOpenLyrics:
		return "openlyrics"
	}
	return "unknown"
}

// Options control a conversion.
type Options struct {
	// Format forces the input format, skipping detection.
	Format Format
}

// Result is the outcome of one conversion.
type Result struct {
	// Song is the canonical model.
	Song *song.Song

	// Format is the detected (or forced) input format.
	Format Format

	// Fingerprint is the hex BLAKE3 digest of the raw input bytes.
	Fingerprint string

	// Diagnostics are all non-fatal findings from every stage, in stage order.
	Diagnostics []notation.Diagnostic
}

// Detect sniffs the input notation from decoded text. XML documents are
// classified by their root element; anything with ABC header fields near the
// top is ABC.
func Detect(text string) Format {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if strings.HasPrefix(trimmed, "<") {
		switch rootElement(trimmed) {
		case "score-partwise", "score-timewise":
			return FormatMusicXML
		case "song":
			return FormatOpenLyrics
		}
		return FormatUnknown
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if strings.HasPrefix(line, "X:") || strings.HasPrefix(line, "T:") {
			return FormatABC
		}
		return FormatUnknown
	}
	return FormatUnknown
}

// rootElement returns the name of the first XML element, skipping the
// declaration, comments and doctype.
func rootElement(s string) string {
	for {
		i := strings.IndexByte(s, '<')
		if i < 0 || i+1 >= len(s) {
			return ""
		}
		s = s[i+1:]
		switch {
		case strings.HasPrefix(s, "?"), strings.HasPrefix(s, "!"):
			j := strings.IndexByte(s, '>')
			if j < 0 {
				return ""
			}
			s = s[j+1:]
		default:
			end := strings.IndexAny(s, " \t\r\n>/")
			if end < 0 {
				return s
			}
			return s[:end]
		}
	}
}

// Convert decodes, detects and converts one input document into the
// canonical song model. All diagnostics from scanning, parsing and assembly
// are collected on the result; alignment failures and malformed input abort
// with an error.
func Convert(raw []byte, opts Options) (*Result, error) {
	text, err := encoding.DecodeUTF8(raw)
	if err != nil {
		return nil, &errors.MalformedError{Format: "input", Message: "undecodable text encoding", Err: err}
	}

	sum := blake3.Sum256(raw)
	result := &Result{Fingerprint: hex.EncodeToString(sum[:])}

	result.Format = opts.Format
	if result.Format == FormatUnknown {
		result.Format = Detect(text)
	}
	logging.Debug("converting input",
		"format", result.Format.String(),
		"bytes", len(raw),
		"fingerprint", result.Fingerprint[:12])

	switch result.Format {
	case FormatABC:
		err = convertABC(result, text)
	case FormatMusicXML:
		err = convertMusicXML(result, []byte(text))
	case FormatOpenLyrics:
		result.Song, err = song.Read([]byte(text))
	default:
		return nil, errors.NewUnsupported("convert", "input",
			"input is neither ABC, MusicXML nor OpenLyrics")
	}
	if err != nil {
		return nil, err
	}

	logging.Debug("conversion complete",
		"title", result.Song.PrimaryTitle(),
		"verses", len(result.Song.Verses),
		"diagnostics", len(result.Diagnostics))
	return result, nil
}

func convertABC(result *Result, text string) error {
	tokens, err := abc.Scan(text)
	if err != nil {
		return err
	}
	parsed, err := abc.Parse(tokens)
	if err != nil {
		return err
	}
	result.Diagnostics = append(result.Diagnostics, parsed.Diagnostics...)

	vs := notation.NewVerseSet()
	vs.Meta = parsed.Meta
	result.mergeTimelines(vs, parsed.Timelines)

	abc.Normalize(vs)
	abc.AppendTextVerses(vs, parsed.TextVerses)

	s, err := song.Build(vs)
	if err != nil {
		return err
	}
	result.Song = s
	return nil
}

func convertMusicXML(result *Result, data []byte) error {
	tokens, err := musicxml.Scan(data)
	if err != nil {
		return err
	}
	parsed, err := musicxml.Parse(tokens)
	if err != nil {
		return err
	}
	result.Diagnostics = append(result.Diagnostics, parsed.Diagnostics...)

	vs := notation.NewVerseSet()
	vs.Meta = parsed.Meta
	result.mergeTimelines(vs, parsed.Timelines)

	s, err := song.Build(vs)
	if err != nil {
		return err
	}
	result.Song = s
	return nil
}

// mergeTimelines assembles each lyric-bearing timeline and folds it into the
// verse set. Timelines arrive in voice declaration order, so on a verse-name
// collision the first-declared voice wins and the loser is reported.
func (r *Result) mergeTimelines(vs *notation.VerseSet, timelines []*notation.Timeline) {
	for _, tl := range timelines {
		if !tl.HasSyllables() {
			continue
		}
		verse, diags := assemble.Assemble(tl)
		r.Diagnostics = append(r.Diagnostics, diags...)
		if vs.Merge(verse) {
			r.Diagnostics = append(r.Diagnostics, notation.Warn(0, fmt.Sprintf(
				"voice %s: verse %s already has lyrics from an earlier voice, dropping this voice's copy",
				tl.Voice, verse.Name)))
		}
	}
}
