package notation

// types.go - Shared data model for the conversion pipeline.
// All scanners and parsers emit these types; the assembler and the canonical
// model builder consume them. Format packages should import these types from
// core/notation rather than defining their own.

// TokenKind identifies the variant of a Token.
type TokenKind int

// Token kinds.
const (
	// TokenHeader is a key-value metadata field (ABC "T:..." line,
	// MusicXML work-title, creator, etc.).
	TokenHeader TokenKind = iota
	// TokenBarLine is a bar line or measure boundary.
	TokenBarLine
	// TokenNote is a note or rest event with a duration.
	TokenNote
	// TokenLyricSyllable is a standalone lyric syllable (ABC "w:" lines).
	TokenLyricSyllable
	// TokenPart marks the start of a voice/part.
	TokenPart
	// TokenDirective is a processing directive (ABC "%%..." lines).
	TokenDirective
	// TokenUnknown is an unrecognized line or element, kept verbatim so the
	// parser can decide whether it is fatal.
	TokenUnknown
)

// SyllableKind describes how a syllable joins neighboring syllables to form a word.
type SyllableKind int

// Syllable kinds.
const (
	// Single is a complete word on its own.
	Single SyllableKind = iota
	// Begin starts a multi-syllable word.
	Begin
	// Middle continues a multi-syllable word.
	Middle
	// End finishes a multi-syllable word.
	End
)

func (k SyllableKind) String() string {
	switch k {
	case Single:
		return "single"
	case Begin:
		return "begin"
	case Middle:
		return "middle"
	case End:
		return "end"
	}
	return "unknown"
}

// Continues reports whether a syllable of this kind joins onto the next one.
func (k SyllableKind) Continues() bool {
	return k == Begin || k == Middle
}

// Syllable is one lyric fragment attached to a musical position.
type Syllable struct {
	// Text is the syllable text. Empty for skip/hold markers.
	Text string

	// Kind describes how the syllable joins its neighbors.
	Kind SyllableKind

	// Verse is the verse number or label this syllable belongs to.
	// Empty means the default verse ("1").
	Verse string

	// Skip marks an alignment placeholder that consumes one note position
	// without contributing text (ABC "*" and "_").
	Skip bool

	// BarAdvance marks an alignment marker that skips to the next bar
	// (ABC "|" inside a lyric line).
	BarAdvance bool
}

// Duration is a note length as a fraction of a whole note.
type Duration struct {
	Num int
	Den int
}

// Mul returns d scaled by num/den, reduced.
func (d Duration) Mul(num, den int) Duration {
	r := Duration{Num: d.Num * num, Den: d.Den * den}
	return r.reduce()
}

func (d Duration) reduce() Duration {
	if d.Num == 0 || d.Den == 0 {
		return d
	}
	g := gcd(d.Num, d.Den)
	return Duration{Num: d.Num / g, Den: d.Den / g}
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// Token is a notation-specific primitive event produced by a scanner.
// It is a tagged variant: Kind selects which fields are meaningful.
// Tokens are immutable once emitted.
type Token struct {
	// Kind selects the token variant.
	Kind TokenKind

	// Line is the 1-based source line, 0 if unknown.
	Line int

	// Key and Value carry header fields (TokenHeader) and directives
	// (TokenDirective, where Key is the directive name).
	Key   string
	Value string

	// Duration, Pitch, Chord, Rest, Tie and Slur carry note events (TokenNote).
	Duration Duration
	Pitch    string
	Chord    string
	Rest     bool
	Tie      bool
	Slur     bool

	// Syllables carries lyric content. A TokenLyricSyllable has exactly one
	// entry; a TokenNote may carry several (MusicXML multi-verse lyrics).
	Syllables []Syllable

	// Break marks a bar line that implies a forced line break
	// (MusicXML measure ends; never plain ABC bar lines).
	Break bool

	// Raw is the unrecognized source text (TokenUnknown).
	Raw string
}

// Position is one musical instant in a Timeline: a duration, optional
// pitch/chord metadata, and zero or one attached syllable.
type Position struct {
	Duration Duration
	Pitch    string
	Chord    string

	// Syllable is the attached lyric fragment, nil when the position is unsung.
	Syllable *Syllable

	// BreakAfter forces a line break after this position. Set only from
	// structural markers in the source, never inferred from bar lines alone.
	BreakAfter bool
}

// Timeline is the ordered sequence of positions for one voice, annotated with
// the verse the attached syllables belong to. Multi-verse notation yields one
// Timeline per verse number sharing the same duration sequence.
type Timeline struct {
	// Voice identifies the voice/part this timeline came from.
	Voice string

	// Verse is the verse number or label, "" for the default verse.
	Verse string

	// Positions is the totally ordered position sequence.
	Positions []Position
}

// HasSyllables reports whether any position carries a lyric syllable.
func (t *Timeline) HasSyllables() bool {
	for i := range t.Positions {
		if t.Positions[i].Syllable != nil && !t.Positions[i].Syllable.Skip {
			return true
		}
	}
	return false
}

// Severity classifies a diagnostic.
type Severity int

// Diagnostic severities.
const (
	// SeverityInfo is informational.
	SeverityInfo Severity = iota
	// SeverityWarning indicates a recoverable anomaly; conversion continues.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Diagnostic is a non-fatal finding recorded during conversion.
type Diagnostic struct {
	Severity Severity
	Message  string
	// Line is the 1-based source line, 0 if unknown.
	Line int
}

// Warn creates a warning diagnostic.
func Warn(line int, message string) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Message: message, Line: line}
}

// Author is a document-level author credit.
type Author struct {
	// Type is the author role ("words", "music", "translation"), empty if unknown.
	Type string
	Name string
}

// Metadata is the document-level metadata collected from header tokens.
type Metadata struct {
	// Titles in declaration order. The first entry is the primary title.
	Titles []string

	Authors []Author

	// Key is the key signature text (e.g., "G", "Dm"), empty if absent.
	Key string

	// TempoText is the tempo annotation text, empty if absent.
	TempoText string

	// TimeSignature is the meter text (e.g., "3/4"), empty if absent.
	TimeSignature string

	// Themes are category/topic labels.
	Themes []string
}
