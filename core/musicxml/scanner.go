// Package musicxml converts MusicXML scores into the shared Timeline model.
// Only score-partwise documents are supported; lyrics are attached directly
// to notes, so no positional zipping is needed.
package musicxml

import (
	"strings"

	"github.com/FocuswithJustin/Lyrebird/core/errors"
	"github.com/FocuswithJustin/Lyrebird/core/notation"
	"github.com/FocuswithJustin/Lyrebird/core/xml"
)

// Scan parses a MusicXML document and flattens it into notation tokens:
// header tokens for the score metadata, a part token per part, note tokens
// carrying their lyric syllables, and a breaking bar-line token at the end
// of every measure.
func Scan(data []byte) ([]notation.Token, error) {
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, &errors.MalformedError{Format: "MusicXML", Message: err.Error(), Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.NewMalformed("MusicXML", 0, "document has no root element")
	}
	switch root.Name() {
	case "score-partwise":
	case "score-timewise":
		return nil, errors.NewUnsupported("MusicXML", "score-timewise",
			"only score-partwise documents are supported")
	default:
		return nil, errors.NewUnsupported("MusicXML", root.Name(), "not a MusicXML score")
	}

	tokens := scanMetadata(root)

	partNames := scanPartList(root)
	parts, err := root.XPath("part")
	if err != nil {
		return nil, errors.Wrap(err, "selecting parts")
	}
	for _, part := range parts {
		id := part.Attr("id")
		tokens = append(tokens, notation.Token{
			Kind:  notation.TokenPart,
			Key:   id,
			Value: partNames[id],
		})
		tokens = scanPart(part, tokens)
	}
	return tokens, nil
}

// scanMetadata emits header tokens for titles, creators, key and meter.
func scanMetadata(root *xml.Node) []notation.Token {
	var tokens []notation.Token
	emit := func(key, value string) {
		value = strings.TrimSpace(value)
		if value != "" {
			tokens = append(tokens, notation.Token{Kind: notation.TokenHeader, Key: key, Value: value})
		}
	}

	if n, _ := root.XPathFirst("work/work-title"); n != nil {
		emit("work-title", n.InnerText())
	}
	if n, _ := root.XPathFirst("movement-title"); n != nil {
		emit("movement-title", n.InnerText())
	}
	creators, _ := root.XPath("identification/creator")
	for _, c := range creators {
		emit("creator:"+c.Attr("type"), c.InnerText())
	}
	if n, _ := root.XPathFirst("//attributes/key/fifths"); n != nil {
		emit("fifths", n.InnerText())
	}
	if n, _ := root.XPathFirst("//attributes/time"); n != nil {
		beats, _ := n.XPathFirst("beats")
		beatType, _ := n.XPathFirst("beat-type")
		if beats != nil && beatType != nil {
			emit("time", beats.InnerText()+"/"+beatType.InnerText())
		}
	}
	if n, _ := root.XPathFirst("//direction/sound[@tempo]"); n != nil {
		emit("tempo", n.Attr("tempo"))
	}
	return tokens
}

// scanPartList maps part ids to the printable part names.
func scanPartList(root *xml.Node) map[string]string {
	names := make(map[string]string)
	scoreParts, _ := root.XPath("part-list/score-part")
	for _, sp := range scoreParts {
		if n, _ := sp.XPathFirst("part-name"); n != nil {
			names[sp.Attr("id")] = strings.TrimSpace(n.InnerText())
		}
	}
	return names
}

// scanPart walks one part's measures in document order. Divisions state
// carries across measures, as MusicXML declares it once and amends it rarely.
func scanPart(part *xml.Node, tokens []notation.Token) []notation.Token {
	divisions := 1
	pendingChord := ""

	measures, _ := part.XPath("measure")
	for _, measure := range measures {
		for _, el := range measure.Children() {
			switch el.Name() {
			case "attributes":
				if n, _ := el.XPathFirst("divisions"); n != nil {
					if v := atoi(n.InnerText()); v > 0 {
						divisions = v
					}
				}
			case "harmony":
				pendingChord = scanHarmony(el)
			case "note":
				tok, ok := scanNote(el, divisions)
				if !ok {
					continue
				}
				tok.Chord = pendingChord
				pendingChord = ""
				tokens = append(tokens, tok)
			}
		}
		tokens = append(tokens, notation.Token{Kind: notation.TokenBarLine, Break: true})
	}
	return tokens
}

// scanNote converts one note element. Chord notes (simultaneous with the
// previous note) are dropped: they occupy no position of their own.
func scanNote(note *xml.Node, divisions int) (notation.Token, bool) {
	if n, _ := note.XPathFirst("chord"); n != nil {
		return notation.Token{}, false
	}

	tok := notation.Token{Kind: notation.TokenNote}
	if n, _ := note.XPathFirst("rest"); n != nil {
		tok.Rest = true
	}
	if n, _ := note.XPathFirst("pitch"); n != nil {
		tok.Pitch = scanPitch(n)
	}
	if n, _ := note.XPathFirst("duration"); n != nil {
		if v := atoi(n.InnerText()); v > 0 {
			tok.Duration = notation.Duration{Num: v, Den: 4 * divisions}.Mul(1, 1)
		}
	}
	if n, _ := note.XPathFirst("tie[@type='start']"); n != nil {
		tok.Tie = true
	}

	lyrics, _ := note.XPath("lyric")
	for _, lyric := range lyrics {
		syl, ok := scanLyric(lyric)
		if !ok {
			continue
		}
		tok.Syllables = append(tok.Syllables, syl)
	}
	return tok, true
}

// scanLyric converts one lyric element into a verse-tagged syllable.
// Extend-only lyrics (melisma continuations) carry no text and are dropped.
func scanLyric(lyric *xml.Node) (notation.Syllable, bool) {
	texts, _ := lyric.XPath("text")
	if len(texts) == 0 {
		return notation.Syllable{}, false
	}
	var b strings.Builder
	for _, t := range texts {
		b.WriteString(t.InnerText())
	}

	verse := lyric.Attr("number")
	if verse == "" {
		verse = "1"
	}
	kind := notation.Single
	if n, _ := lyric.XPathFirst("syllabic"); n != nil {
		switch strings.TrimSpace(n.InnerText()) {
		case "begin":
			kind = notation.Begin
		case "middle":
			kind = notation.Middle
		case "end":
			kind = notation.End
		}
	}
	return notation.Syllable{Text: b.String(), Kind: kind, Verse: verse}, true
}

func scanPitch(pitch *xml.Node) string {
	step, _ := pitch.XPathFirst("step")
	if step == nil {
		return ""
	}
	s := strings.TrimSpace(step.InnerText())
	if alter, _ := pitch.XPathFirst("alter"); alter != nil {
		switch atoi(strings.TrimSpace(alter.InnerText())) {
		case 1:
			s += "#"
		case -1:
			s += "b"
		}
	}
	if octave, _ := pitch.XPathFirst("octave"); octave != nil {
		s += strings.TrimSpace(octave.InnerText())
	}
	return s
}

// scanHarmony renders a harmony element as a chord symbol.
func scanHarmony(harmony *xml.Node) string {
	rootStep, _ := harmony.XPathFirst("root/root-step")
	if rootStep == nil {
		return ""
	}
	chord := strings.TrimSpace(rootStep.InnerText())
	if alter, _ := harmony.XPathFirst("root/root-alter"); alter != nil {
		switch atoi(strings.TrimSpace(alter.InnerText())) {
		case 1:
			chord += "#"
		case -1:
			chord += "b"
		}
	}
	if kind, _ := harmony.XPathFirst("kind"); kind != nil {
		if text := kind.Attr("text"); text != "" {
			chord += text
		} else {
			chord += kindSuffix(strings.TrimSpace(kind.InnerText()))
		}
	}
	return chord
}

// kindSuffix maps common harmony kinds to chord symbol suffixes.
func kindSuffix(kind string) string {
	switch kind {
	case "", "major", "none":
		return ""
	case "minor":
		return "m"
	case "dominant":
		return "7"
	case "major-seventh":
		return "maj7"
	case "minor-seventh":
		return "m7"
	case "diminished":
		return "dim"
	case "augmented":
		return "aug"
	case "suspended-fourth":
		return "sus4"
	case "suspended-second":
		return "sus2"
	}
	return ""
}

func atoi(s string) int {
	v := 0
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0
		}
		v = v*10 + int(c-'0')
	}
	if neg {
		return -v
	}
	return v
}
