package abc

import (
	"errors"
	"testing"

	lyrerrors "github.com/FocuswithJustin/Lyrebird/core/errors"
	"github.com/FocuswithJustin/Lyrebird/core/notation"
)

func TestScanHeaderFields(t *testing.T) {
	input := "X:1\nT:Amazing Grace\nM:3/4\nL:1/4\nK:G % key change later\n"
	tokens, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := []struct {
		key   string
		value string
	}{
		{"X", "1"},
		{"T", "Amazing Grace"},
		{"M", "3/4"},
		{"L", "1/4"},
		{"K", "G"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Kind != notation.TokenHeader {
			t.Errorf("token %d kind = %v, want header", i, tok.Kind)
		}
		if tok.Key != w.key || tok.Value != w.value {
			t.Errorf("token %d = %s:%q, want %s:%q", i, tok.Key, tok.Value, w.key, w.value)
		}
	}
	if tokens[1].Line != 2 {
		t.Errorf("T: line = %d, want 2", tokens[1].Line)
	}
}

func TestScanMetadataComments(t *testing.T) {
	input := "%OHAUTHOR John Newton\n% plain comment\n%OHCATEGORY Hymn\n"
	tokens, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2 (plain comments are dropped)", len(tokens))
	}
	if tokens[0].Key != "OHAUTHOR" || tokens[0].Value != "John Newton" {
		t.Errorf("token 0 = %s:%q", tokens[0].Key, tokens[0].Value)
	}
	if tokens[1].Key != "OHCATEGORY" || tokens[1].Value != "Hymn" {
		t.Errorf("token 1 = %s:%q", tokens[1].Key, tokens[1].Value)
	}
}

func TestScanLyricLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []notation.Syllable
	}{
		{
			name:  "hyphenated word",
			input: "w:A-maz-ing grace",
			want: []notation.Syllable{
				{Text: "A", Kind: notation.Begin},
				{Text: "maz", Kind: notation.Middle},
				{Text: "ing", Kind: notation.End},
				{Text: "grace", Kind: notation.Single},
			},
		},
		{
			name:  "hyphen after space reopens previous syllable",
			input: "w:syll -able",
			want: []notation.Syllable{
				{Text: "syll", Kind: notation.Begin},
				{Text: "able", Kind: notation.End},
			},
		},
		{
			name:  "alignment markers",
			input: "w:la * _ | la",
			want: []notation.Syllable{
				{Text: "la", Kind: notation.Single},
				{Skip: true},
				{Skip: true},
				{BarAdvance: true},
				{Text: "la", Kind: notation.Single},
			},
		},
		{
			name:  "tilde joins words on one note",
			input: "w:of~the",
			want: []notation.Syllable{
				{Text: "of the", Kind: notation.Single},
			},
		},
		{
			name:  "escaped hyphen stays literal",
			input: `w:e\-mail`,
			want: []notation.Syllable{
				{Text: "e-mail", Kind: notation.Single},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Scan(tt.input + "\n")
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if len(tokens) != len(tt.want) {
				t.Fatalf("got %d syllable tokens, want %d", len(tokens), len(tt.want))
			}
			for i, w := range tt.want {
				got := tokens[i].Syllables[0]
				if got.Text != w.Text || got.Kind != w.Kind || got.Skip != w.Skip || got.BarAdvance != w.BarAdvance {
					t.Errorf("syllable %d = %+v, want %+v", i, got, w)
				}
			}
		})
	}
}

func TestScanMusicLine(t *testing.T) {
	tokens, err := Scan("\"G\"GA B2 z c |\n")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	var notes []notation.Token
	bars := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case notation.TokenNote:
			notes = append(notes, tok)
		case notation.TokenBarLine:
			bars++
		default:
			t.Errorf("unexpected token kind %v", tok.Kind)
		}
	}
	if len(notes) != 5 {
		t.Fatalf("got %d notes, want 5", len(notes))
	}
	if bars != 1 {
		t.Errorf("got %d bar lines, want 1", bars)
	}
	if notes[0].Pitch != "G" || notes[0].Chord != "G" {
		t.Errorf("note 0 = pitch %q chord %q, want G with chord G", notes[0].Pitch, notes[0].Chord)
	}
	if notes[1].Chord != "" {
		t.Errorf("chord symbol leaked onto note 1: %q", notes[1].Chord)
	}
	if notes[2].Duration != (notation.Duration{Num: 2, Den: 1}) {
		t.Errorf("B2 duration = %v, want 2/1", notes[2].Duration)
	}
	if !notes[3].Rest {
		t.Error("z should scan as a rest")
	}
	if notes[4].Pitch != "c" {
		t.Errorf("note 4 pitch = %q, want c", notes[4].Pitch)
	}
}

func TestScanNoteLengths(t *testing.T) {
	tests := []struct {
		input string
		want  notation.Duration
	}{
		{"A", notation.Duration{Num: 1, Den: 1}},
		{"A2", notation.Duration{Num: 2, Den: 1}},
		{"A/", notation.Duration{Num: 1, Den: 2}},
		{"A//", notation.Duration{Num: 1, Den: 4}},
		{"A3/2", notation.Duration{Num: 3, Den: 2}},
		{"A/4", notation.Duration{Num: 1, Den: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Scan(tt.input + "\n")
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Duration != tt.want {
				t.Errorf("duration = %v, want %v", tokens[0].Duration, tt.want)
			}
		})
	}
}

func TestScanTieAndDecorations(t *testing.T) {
	tokens, err := Scan("!trill!A-{gc}B (3CDE\n")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	var notes []notation.Token
	for _, tok := range tokens {
		if tok.Kind == notation.TokenNote {
			notes = append(notes, tok)
		}
	}
	if len(notes) != 5 {
		t.Fatalf("got %d notes, want 5 (grace notes skipped)", len(notes))
	}
	if !notes[0].Tie {
		t.Error("A- should carry a tie")
	}
	if notes[1].Pitch != "B" {
		t.Errorf("note after grace group = %q, want B", notes[1].Pitch)
	}
}

func TestScanInlineField(t *testing.T) {
	tokens, err := Scan("GA [L:1/4] Bc\n")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	foundField := false
	for _, tok := range tokens {
		if tok.Kind == notation.TokenHeader && tok.Key == "L" && tok.Value == "1/4" {
			foundField = true
		}
	}
	if !foundField {
		t.Error("inline [L:1/4] field not scanned as header token")
	}
}

func TestScanUnterminatedChord(t *testing.T) {
	_, err := Scan("\"Gmaj GABc |\n")
	if err == nil {
		t.Fatal("unterminated chord symbol should fail")
	}
	var merr *lyrerrors.MalformedError
	if !errors.As(err, &merr) {
		t.Errorf("error type = %T, want MalformedError", err)
	}
	if !errors.Is(err, lyrerrors.ErrMalformed) {
		t.Error("error should match ErrMalformed sentinel")
	}
}

func TestScanDirective(t *testing.T) {
	tokens, err := Scan("%%begintext\n")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Kind != notation.TokenDirective {
		t.Fatalf("tokens = %+v, want one directive", tokens)
	}
	if tokens[0].Key != "begintext" {
		t.Errorf("directive key = %q, want begintext", tokens[0].Key)
	}

	tokens, err = Scan("%%The Lord has promised\n")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if tokens[0].Raw != "The Lord has promised" {
		t.Errorf("directive raw = %q, case must be preserved", tokens[0].Raw)
	}
}
