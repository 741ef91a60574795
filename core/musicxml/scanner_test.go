package musicxml

import (
	"errors"
	"testing"

	lyrerrors "github.com/FocuswithJustin/Lyrebird/core/errors"
	"github.com/FocuswithJustin/Lyrebird/core/notation"
)

const hymnScore = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="4.0">
  <work><work-title>Amazing Grace</work-title></work>
  <identification>
    <creator type="composer">Traditional</creator>
    <creator type="lyricist">John Newton</creator>
  </identification>
  <part-list>
    <score-part id="P1"><part-name>Soprano</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>2</divisions>
        <key><fifths>1</fifths></key>
        <time><beats>3</beats><beat-type>4</beat-type></time>
      </attributes>
      <harmony><root><root-step>G</root-step></root><kind>major</kind></harmony>
      <note>
        <pitch><step>D</step><octave>4</octave></pitch>
        <duration>2</duration>
        <lyric number="1"><syllabic>begin</syllabic><text>A</text></lyric>
        <lyric number="2"><syllabic>single</syllabic><text>'Twas</text></lyric>
      </note>
      <note>
        <pitch><step>G</step><octave>4</octave></pitch>
        <duration>4</duration>
        <lyric number="1"><syllabic>end</syllabic><text>maz</text></lyric>
        <lyric number="2"><syllabic>single</syllabic><text>grace</text></lyric>
      </note>
    </measure>
    <measure number="2">
      <note><rest/><duration>2</duration></note>
      <note>
        <pitch><step>B</step><alter>-1</alter><octave>4</octave></pitch>
        <duration>4</duration>
        <lyric number="1"><syllabic>single</syllabic><text>grace</text></lyric>
      </note>
      <note>
        <pitch><step>B</step><octave>4</octave></pitch>
        <duration>2</duration>
      </note>
    </measure>
  </part>
</score-partwise>`

func TestScanScore(t *testing.T) {
	tokens, err := Scan([]byte(hymnScore))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	headers := make(map[string]string)
	var notes []notation.Token
	var parts []notation.Token
	breaks := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case notation.TokenHeader:
			headers[tok.Key] = tok.Value
		case notation.TokenNote:
			notes = append(notes, tok)
		case notation.TokenPart:
			parts = append(parts, tok)
		case notation.TokenBarLine:
			if tok.Break {
				breaks++
			}
		}
	}

	if headers["work-title"] != "Amazing Grace" {
		t.Errorf("work-title = %q", headers["work-title"])
	}
	if headers["creator:composer"] != "Traditional" || headers["creator:lyricist"] != "John Newton" {
		t.Errorf("creators = %v", headers)
	}
	if headers["fifths"] != "1" || headers["time"] != "3/4" {
		t.Errorf("key/meter = %v", headers)
	}
	if len(parts) != 1 || parts[0].Key != "P1" || parts[0].Value != "Soprano" {
		t.Errorf("parts = %v", parts)
	}
	if breaks != 2 {
		t.Errorf("got %d measure breaks, want 2", breaks)
	}
	if len(notes) != 5 {
		t.Fatalf("got %d notes, want 5", len(notes))
	}

	first := notes[0]
	if first.Pitch != "D4" {
		t.Errorf("pitch = %q, want D4", first.Pitch)
	}
	// divisions=2, duration=2: a quarter note.
	if first.Duration != (notation.Duration{Num: 1, Den: 4}) {
		t.Errorf("duration = %v, want 1/4", first.Duration)
	}
	if first.Chord != "G" {
		t.Errorf("chord = %q, want G", first.Chord)
	}
	if len(first.Syllables) != 2 {
		t.Fatalf("got %d syllables, want 2", len(first.Syllables))
	}
	if s := first.Syllables[0]; s.Text != "A" || s.Kind != notation.Begin || s.Verse != "1" {
		t.Errorf("syllable 1 = %+v", s)
	}
	if s := first.Syllables[1]; s.Text != "'Twas" || s.Kind != notation.Single || s.Verse != "2" {
		t.Errorf("syllable 2 = %+v", s)
	}

	if !notes[2].Rest {
		t.Error("note 2 should be a rest")
	}
	if notes[3].Pitch != "Bb4" {
		t.Errorf("flat pitch = %q, want Bb4", notes[3].Pitch)
	}
	if len(notes[4].Syllables) != 0 {
		t.Errorf("melisma note has syllables: %v", notes[4].Syllables)
	}
}

func TestScanTimewiseRejected(t *testing.T) {
	_, err := Scan([]byte(`<score-timewise><measure number="1"/></score-timewise>`))
	if err == nil {
		t.Fatal("score-timewise should be rejected")
	}
	var uerr *lyrerrors.UnsupportedStructureError
	if !errors.As(err, &uerr) {
		t.Fatalf("error type = %T, want UnsupportedStructureError", err)
	}
	if uerr.Element != "score-timewise" {
		t.Errorf("element = %q", uerr.Element)
	}
	if !errors.Is(err, lyrerrors.ErrUnsupported) {
		t.Error("error should match ErrUnsupported sentinel")
	}
}

func TestScanNonScoreRejected(t *testing.T) {
	_, err := Scan([]byte(`<html><body/></html>`))
	if err == nil {
		t.Fatal("non-score XML should be rejected")
	}
	if !errors.Is(err, lyrerrors.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestScanMalformedXML(t *testing.T) {
	_, err := Scan([]byte(`<score-partwise><part id="P1">`))
	if err == nil {
		t.Fatal("truncated XML should be rejected")
	}
	if !errors.Is(err, lyrerrors.ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestScanChordNotesDropped(t *testing.T) {
	score := `<score-partwise>
  <part id="P1">
    <measure number="1">
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
      <note><chord/><pitch><step>E</step><octave>4</octave></pitch><duration>1</duration></note>
    </measure>
  </part>
</score-partwise>`
	tokens, err := Scan([]byte(score))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	notes := 0
	for _, tok := range tokens {
		if tok.Kind == notation.TokenNote {
			notes++
		}
	}
	if notes != 1 {
		t.Errorf("got %d notes, want 1 (chord note shares a position)", notes)
	}
}

func TestScanElisionTextJoined(t *testing.T) {
	score := `<score-partwise>
  <part id="P1">
    <measure number="1">
      <note>
        <pitch><step>C</step><octave>4</octave></pitch><duration>1</duration>
        <lyric number="1"><syllabic>single</syllabic><text>all</text><elision> </elision><syllabic>single</syllabic><text>my</text></lyric>
      </note>
    </measure>
  </part>
</score-partwise>`
	tokens, err := Scan([]byte(score))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	for _, tok := range tokens {
		if tok.Kind == notation.TokenNote {
			if len(tok.Syllables) != 1 || tok.Syllables[0].Text != "allmy" {
				t.Errorf("syllables = %+v", tok.Syllables)
			}
		}
	}
}

func TestScanHarmonySuffixes(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{"minor", `<harmony><root><root-step>E</root-step></root><kind>minor</kind></harmony>`, "Em"},
		{"dominant with alter", `<harmony><root><root-step>B</root-step><root-alter>-1</root-alter></root><kind>dominant</kind></harmony>`, "Bb7"},
		{"text attribute wins", `<harmony><root><root-step>D</root-step></root><kind text="sus">suspended-fourth</kind></harmony>`, "Dsus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := `<score-partwise><part id="P1"><measure number="1">` + tt.xml +
				`<note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>` +
				`</measure></part></score-partwise>`
			tokens, err := Scan([]byte(score))
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			for _, tok := range tokens {
				if tok.Kind == notation.TokenNote && tok.Chord != tt.want {
					t.Errorf("chord = %q, want %q", tok.Chord, tt.want)
				}
			}
		})
	}
}
