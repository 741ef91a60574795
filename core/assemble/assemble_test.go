package assemble

import (
	"reflect"
	"testing"

	"github.com/FocuswithJustin/Lyrebird/core/notation"
)

func pos(text string, kind notation.SyllableKind) notation.Position {
	return notation.Position{Syllable: &notation.Syllable{Text: text, Kind: kind}}
}

func lineTexts(v *notation.Verse) []string {
	out := make([]string, 0, len(v.Lines))
	for _, l := range v.Lines {
		out = append(out, l.Text())
	}
	return out
}

func TestAssembleSingles(t *testing.T) {
	tl := &notation.Timeline{Verse: "1", Positions: []notation.Position{
		pos("how", notation.Single),
		pos("sweet", notation.Single),
		pos("the", notation.Single),
		pos("sound", notation.Single),
	}}

	verse, diags := Assemble(tl)
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if verse.Name != "1" {
		t.Errorf("verse name = %q", verse.Name)
	}
	if got := lineTexts(verse); !reflect.DeepEqual(got, []string{"how sweet the sound"}) {
		t.Errorf("lines = %v", got)
	}
	if len(verse.Lines[0].Fragments) != 4 {
		t.Errorf("got %d fragments, want 4", len(verse.Lines[0].Fragments))
	}
}

func TestAssembleMultiSyllableWord(t *testing.T) {
	tl := &notation.Timeline{Verse: "1", Positions: []notation.Position{
		pos("A", notation.Begin),
		pos("maz", notation.Middle),
		pos("ing", notation.End),
		pos("grace", notation.Single),
	}}

	verse, diags := Assemble(tl)
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	frags := verse.Lines[0].Fragments
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	if frags[0].Text != "Amazing" {
		t.Errorf("word = %q, want Amazing (no separators inside a word)", frags[0].Text)
	}
	if frags[1].Text != "grace" {
		t.Errorf("word = %q, want grace", frags[1].Text)
	}
}

func TestAssembleLineBreaks(t *testing.T) {
	positions := []notation.Position{
		pos("one", notation.Single),
		pos("two", notation.Single),
		pos("three", notation.Single),
		pos("four", notation.Single),
	}
	positions[1].BreakAfter = true
	tl := &notation.Timeline{Verse: "2", Positions: positions}

	verse, _ := Assemble(tl)
	if got := lineTexts(verse); !reflect.DeepEqual(got, []string{"one two", "three four"}) {
		t.Errorf("lines = %v", got)
	}
}

func TestAssembleUnsungPositionsIgnored(t *testing.T) {
	tl := &notation.Timeline{Verse: "1", Positions: []notation.Position{
		pos("la", notation.Single),
		{}, // melisma continuation, no syllable
		{Syllable: &notation.Syllable{Skip: true}},
		pos("di", notation.Single),
	}}

	verse, diags := Assemble(tl)
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if got := lineTexts(verse); !reflect.DeepEqual(got, []string{"la di"}) {
		t.Errorf("lines = %v", got)
	}
}

func TestAssembleChordAttachesToWord(t *testing.T) {
	positions := []notation.Position{
		pos("A", notation.Begin),
		pos("maz", notation.Middle),
		pos("ing", notation.End),
		pos("grace", notation.Single),
	}
	positions[0].Chord = "G"
	positions[3].Chord = "D7"
	tl := &notation.Timeline{Verse: "1", Positions: positions}

	verse, _ := Assemble(tl)
	frags := verse.Lines[0].Fragments
	if frags[0].Chord != "G" {
		t.Errorf("chord on %q = %q, want G", frags[0].Text, frags[0].Chord)
	}
	if frags[1].Chord != "D7" {
		t.Errorf("chord on %q = %q, want D7", frags[1].Text, frags[1].Chord)
	}
}

func TestAssembleChordOnUnsungPositionCarriesForward(t *testing.T) {
	positions := []notation.Position{
		{Chord: "Em"}, // intro note, no lyric
		pos("grace", notation.Single),
	}
	tl := &notation.Timeline{Verse: "1", Positions: positions}

	verse, _ := Assemble(tl)
	frag := verse.Lines[0].Fragments[0]
	if frag.Chord != "Em" {
		t.Errorf("chord = %q, want Em carried to the next sung word", frag.Chord)
	}
}

func TestAssembleChordMidWordWaitsForNextWord(t *testing.T) {
	positions := []notation.Position{
		pos("A", notation.Begin),
		pos("men", notation.End),
		pos("amen", notation.Single),
	}
	positions[1].Chord = "C"
	tl := &notation.Timeline{Verse: "1", Positions: positions}

	verse, _ := Assemble(tl)
	frags := verse.Lines[0].Fragments
	if frags[0].Chord != "" {
		t.Errorf("chord landed inside a word: %q", frags[0].Chord)
	}
	if frags[1].Chord != "C" {
		t.Errorf("chord = %q, want C on the following word", frags[1].Chord)
	}
}

func TestAssembleOrphanContinuation(t *testing.T) {
	tests := []struct {
		name string
		kind notation.SyllableKind
		want string
	}{
		{"orphan end", notation.End, "lone"},
		{"orphan middle", notation.Middle, "lonesome"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions := []notation.Position{pos("lone", tt.kind)}
			if tt.kind == notation.Middle {
				positions = append(positions, pos("some", notation.End))
			}
			tl := &notation.Timeline{Verse: "1", Positions: positions}

			verse, diags := Assemble(tl)
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
			}
			if diags[0].Severity != notation.SeverityWarning {
				t.Errorf("severity = %v, want warning", diags[0].Severity)
			}
			if got := verse.Lines[0].Fragments[0].Text; got != tt.want {
				t.Errorf("word = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssembleBreakInsideWord(t *testing.T) {
	positions := []notation.Position{
		pos("bro", notation.Begin),
		pos("ken", notation.End),
	}
	positions[0].BreakAfter = true
	tl := &notation.Timeline{Verse: "1", Positions: positions}

	verse, diags := Assemble(tl)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if got := lineTexts(verse); !reflect.DeepEqual(got, []string{"bro", "ken"}) {
		t.Errorf("lines = %v", got)
	}
}

func TestAssembleEmptyTimeline(t *testing.T) {
	verse, diags := Assemble(&notation.Timeline{Verse: "1"})
	if len(verse.Lines) != 0 {
		t.Errorf("lines = %v, want none", verse.Lines)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
}
