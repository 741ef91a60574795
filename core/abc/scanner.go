// Package abc converts ABC notation into the shared Timeline model.
// The scanner tokenizes header fields, music lines and "w:" lyric lines;
// the parser zips lyric lines against note lines to build per-verse
// timelines.
package abc

import (
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/Lyrebird/core/errors"
	"github.com/FocuswithJustin/Lyrebird/core/notation"
)

// abcFile represents a lexed ABC file as a sequence of meaningful lines.
type abcFile struct {
	Lines []abcLine `@@*`
}

// abcLine is a single line classified by its leading characters.
type abcLine struct {
	Pos       lexer.Position
	Directive string `  @Directive`
	Comment   string `| @Comment`
	Lyric     string `| @Lyric`
	Field     string `| @Field`
	Music     string `| @Music`
}

// abcLexer defines line-based token patterns.
// Order matters: more specific patterns come first ("w:" lyric lines would
// otherwise lex as generic fields, "%%" directives as comments).
var abcLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Directive", Pattern: `%%[^\r\n]*`},
	{Name: "Comment", Pattern: `%[^\r\n]*`},
	{Name: "Lyric", Pattern: `w:[^\r\n]*`},
	{Name: "Field", Pattern: `[A-Za-z]:[^\r\n]*`},
	{Name: "Music", Pattern: `[^\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Newline", Pattern: `[\r\n]+`},
})

// abcParser is the Participle parser for ABC files.
var abcParser = participle.MustBuild[abcFile](
	participle.Lexer(abcLexer),
	participle.Elide("Whitespace", "Newline"),
)

// Scan tokenizes ABC input into notation tokens. The token stream is finite
// and single-pass; unrecognized content inside music lines is emitted as
// Unknown tokens rather than failing. Low-level syntax errors (an
// unterminated chord symbol) fail with a Malformed error.
func Scan(input string) ([]notation.Token, error) {
	file, err := abcParser.ParseString("", input)
	if err != nil {
		return nil, &errors.MalformedError{Format: "ABC", Message: err.Error(), Err: err}
	}

	var tokens []notation.Token
	for _, line := range file.Lines {
		n := line.Pos.Line
		switch {
		case line.Directive != "":
			body := strings.TrimPrefix(line.Directive, "%%")
			key, value, _ := strings.Cut(body, " ")
			tokens = append(tokens, notation.Token{
				Kind:  notation.TokenDirective,
				Line:  n,
				Key:   strings.ToLower(strings.TrimSpace(key)),
				Value: value,
				Raw:   body,
			})

		case line.Comment != "":
			// Only structured metadata comments carry information; anything
			// else is ignored, as comments are free-form.
			body := strings.TrimPrefix(line.Comment, "%")
			if key, rest, ok := strings.Cut(strings.TrimSpace(body), " "); ok && strings.HasPrefix(key, "OH") {
				tokens = append(tokens, notation.Token{
					Kind:  notation.TokenHeader,
					Line:  n,
					Key:   key,
					Value: strings.TrimSpace(rest),
				})
			}

		case line.Lyric != "":
			tokens = append(tokens, scanLyricLine(strings.TrimPrefix(line.Lyric, "w:"), n)...)

		case line.Field != "":
			key, value, _ := strings.Cut(line.Field, ":")
			tokens = append(tokens, notation.Token{
				Kind:  notation.TokenHeader,
				Line:  n,
				Key:   key,
				Value: strings.TrimSpace(stripComment(value)),
			})

		case line.Music != "":
			music, err := scanMusicLine(line.Music, n)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, music...)
		}
	}
	return tokens, nil
}

// stripComment removes a trailing % comment from a line body.
func stripComment(s string) string {
	if i := strings.IndexByte(s, '%'); i >= 0 {
		return s[:i]
	}
	return s
}

// scanLyricLine tokenizes the body of a "w:" line into syllable tokens.
// Alignment markers ("*" skips a note, "_" holds the previous syllable,
// "|" advances to the next bar) become syllables with the corresponding
// flag set. A "-" splits a word: the syllable before it is marked as
// continuing, which forces the following syllable to Middle/End.
func scanLyricLine(body string, lineNo int) []notation.Token {
	var tokens []notation.Token
	var cur strings.Builder
	continued := false // previous syllable ended with a hyphen

	flush := func(hyphenated bool) {
		if cur.Len() == 0 {
			if hyphenated && len(tokens) > 0 {
				// "syll -able" style: the hyphen follows a completed
				// syllable, reopen it as a continuation.
				last := &tokens[len(tokens)-1].Syllables[0]
				if !last.Skip && !last.BarAdvance {
					switch last.Kind {
					case notation.Single:
						last.Kind = notation.Begin
					case notation.End:
						last.Kind = notation.Middle
					}
					continued = true
				}
			}
			return
		}
		kind := notation.Single
		switch {
		case continued && hyphenated:
			kind = notation.Middle
		case continued:
			kind = notation.End
		case hyphenated:
			kind = notation.Begin
		}
		tokens = append(tokens, notation.Token{
			Kind:      notation.TokenLyricSyllable,
			Line:      lineNo,
			Syllables: []notation.Syllable{{Text: cur.String(), Kind: kind}},
		})
		cur.Reset()
		continued = hyphenated
	}

	marker := func(s notation.Syllable) {
		flush(false)
		tokens = append(tokens, notation.Token{
			Kind:      notation.TokenLyricSyllable,
			Line:      lineNo,
			Syllables: []notation.Syllable{s},
		})
	}

	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case ' ', '\t':
			flush(false)
		case '-':
			flush(true)
		case '_':
			marker(notation.Syllable{Skip: true})
		case '*':
			marker(notation.Syllable{Skip: true})
		case '|':
			marker(notation.Syllable{BarAdvance: true})
		case '~':
			cur.WriteRune(' ')
		case '\\':
			if i+1 < len(runes) {
				i++
				cur.WriteRune(runes[i])
			}
		default:
			cur.WriteRune(c)
		}
	}
	flush(false)
	return tokens
}

// scanMusicLine tokenizes a music line into note, rest and bar-line tokens.
// Note durations are emitted as multipliers of the default note length; the
// parser resolves them. Decorations, grace notes and slur marks do not
// affect lyric alignment and are skipped.
func scanMusicLine(line string, lineNo int) ([]notation.Token, error) {
	var tokens []notation.Token
	var unknown strings.Builder
	pendingChord := ""
	pendingSlur := false

	flushUnknown := func() {
		if unknown.Len() > 0 {
			tokens = append(tokens, notation.Token{
				Kind: notation.TokenUnknown,
				Line: lineNo,
				Raw:  unknown.String(),
			})
			unknown.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == ' ' || c == '\t':
			flushUnknown()

		case c == '%':
			// Trailing comment.
			flushUnknown()
			i = len(runes)

		case c == '|' || c == ':':
			flushUnknown()
			for i+1 < len(runes) && strings.ContainsRune("|]:", runes[i+1]) {
				i++
			}
			tokens = append(tokens, notation.Token{Kind: notation.TokenBarLine, Line: lineNo})

		case c == '"':
			flushUnknown()
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '"' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, errors.NewMalformed("ABC", lineNo, "unterminated chord symbol")
			}
			pendingChord = string(runes[i+1 : end])
			i = end

		case c == '!':
			// Decoration, skip to the closing mark.
			for i+1 < len(runes) {
				i++
				if runes[i] == '!' {
					break
				}
			}

		case c == '{':
			// Grace notes carry no lyrics.
			for i+1 < len(runes) && runes[i] != '}' {
				i++
			}

		case c == '(':
			if i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				// Tuplet marker: the digit is part of the marker, not a note length.
				i++
				continue
			}
			pendingSlur = true

		case c == ')':
			// Slur close.

		case c == '[':
			// Inline field or chord bracket.
			if i+2 < len(runes) && unicode.IsLetter(runes[i+1]) && runes[i+2] == ':' {
				end := i
				for end < len(runes) && runes[end] != ']' {
					end++
				}
				field := string(runes[i+1 : end])
				key, value, _ := strings.Cut(field, ":")
				tokens = append(tokens, notation.Token{
					Kind:  notation.TokenHeader,
					Line:  lineNo,
					Key:   key,
					Value: strings.TrimSpace(value),
				})
				i = end
				continue
			}
			// Bracketed chord: one sung position. Use the first note for
			// pitch, then skip the remainder of the bracket.
			flushUnknown()
			end := i
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			inner, n := scanNote(runes, i+1)
			if n > 0 && end < len(runes) {
				// Trailing length modifier applies to the whole chord.
				num, den, n2 := scanLength(runes, end+1)
				end += n2
				inner.Duration = inner.Duration.Mul(num, den)
				inner.Line = lineNo
				inner.Chord = pendingChord
				inner.Slur = pendingSlur
				pendingChord = ""
				pendingSlur = false
				tokens = append(tokens, inner)
			}
			i = end

		case c == '-':
			if len(tokens) > 0 && tokens[len(tokens)-1].Kind == notation.TokenNote {
				tokens[len(tokens)-1].Tie = true
			}

		case c == 'z' || c == 'Z' || c == 'x':
			flushUnknown()
			num, den, n := scanLength(runes, i+1)
			i += n
			tokens = append(tokens, notation.Token{
				Kind:     notation.TokenNote,
				Line:     lineNo,
				Rest:     true,
				Duration: notation.Duration{Num: num, Den: den},
			})

		case isPitchStart(c):
			flushUnknown()
			tok, n := scanNote(runes, i)
			if n == 0 {
				unknown.WriteRune(c)
				continue
			}
			i += n - 1
			tok.Line = lineNo
			tok.Chord = pendingChord
			tok.Slur = pendingSlur
			pendingChord = ""
			pendingSlur = false
			tokens = append(tokens, tok)

		case c == '<' || c == '>' || c == '.' || c == '~' || c == 'y':
			// Broken rhythm, articulation and spacers: no lyric relevance.

		default:
			unknown.WriteRune(c)
		}
	}
	flushUnknown()
	return tokens, nil
}

// isPitchStart reports whether c can begin a note: an accidental or a
// pitch letter.
func isPitchStart(c rune) bool {
	if c == '^' || c == '=' || c == '_' {
		return true
	}
	return (c >= 'A' && c <= 'G') || (c >= 'a' && c <= 'g')
}

// scanNote reads one note starting at runes[i]: accidentals, pitch letter,
// octave marks and length modifier. It returns the token and the number of
// runes consumed (0 when no note starts at i).
func scanNote(runes []rune, i int) (notation.Token, int) {
	start := i
	var pitch strings.Builder

	for i < len(runes) && (runes[i] == '^' || runes[i] == '=' || runes[i] == '_') {
		pitch.WriteRune(runes[i])
		i++
	}
	if i >= len(runes) {
		return notation.Token{}, 0
	}
	c := runes[i]
	if !((c >= 'A' && c <= 'G') || (c >= 'a' && c <= 'g')) {
		return notation.Token{}, 0
	}
	pitch.WriteRune(c)
	i++
	for i < len(runes) && (runes[i] == '\'' || runes[i] == ',') {
		pitch.WriteRune(runes[i])
		i++
	}
	num, den, n := scanLength(runes, i)
	i += n

	return notation.Token{
		Kind:     notation.TokenNote,
		Pitch:    pitch.String(),
		Duration: notation.Duration{Num: num, Den: den},
	}, i - start
}

// scanLength reads a length modifier ("2", "/", "//", "3/2", "/4") starting
// at runes[i]. It returns the multiplier fraction and runes consumed.
func scanLength(runes []rune, i int) (num, den, n int) {
	start := i
	num, den = 1, 1

	digits := func() (int, bool) {
		v, ok := 0, false
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			v = v*10 + int(runes[i]-'0')
			i++
			ok = true
		}
		return v, ok
	}

	if v, ok := digits(); ok {
		num = v
	}
	for i < len(runes) && runes[i] == '/' {
		i++
		if v, ok := digits(); ok {
			den *= v
		} else {
			den *= 2
		}
	}
	return num, den, i - start
}
