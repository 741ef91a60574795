// Package song holds the canonical lyric-centric song model and its XML
// serialization. The model follows the OpenLyrics layout: properties with
// titles, authors and themes, plus named verses of chorded lyric lines.
package song

import "encoding/xml"

// Namespace is the OpenLyrics XML namespace.
const Namespace = "http://openlyrics.info/namespace/2009/song"

// FormatVersion is the OpenLyrics schema version written by this package.
const FormatVersion = "0.8"

// CreatedIn identifies the producing application in written documents.
const CreatedIn = "Lyrebird 0.1.0"

// Song is the canonical model produced by every conversion.
type Song struct {
	XMLName      xml.Name   `xml:"song"`
	Xmlns        string     `xml:"xmlns,attr"`
	Version      string     `xml:"version,attr"`
	CreatedIn    string     `xml:"createdIn,attr,omitempty"`
	ModifiedIn   string     `xml:"modifiedIn,attr,omitempty"`
	ModifiedDate string     `xml:"modifiedDate,attr,omitempty"`
	Properties   Properties `xml:"properties"`
	Verses       []Verse    `xml:"lyrics>verse"`
}

// Properties is the song-level metadata block.
type Properties struct {
	Titles     []Title  `xml:"titles>title"`
	Authors    []Author `xml:"authors>author"`
	Key        string   `xml:"key,omitempty"`
	Tempo      *Tempo   `xml:"tempo,omitempty"`
	Themes     []Theme  `xml:"themes>theme"`
	VerseOrder string   `xml:"verseOrder,omitempty"`
}

// Title is one song title. The first title is the primary one.
type Title struct {
	Value string `xml:",chardata"`
}

// Author is one author credit with an optional role.
type Author struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

// Tempo is the tempo annotation; only textual tempos are produced.
type Tempo struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// Theme is one category label.
type Theme struct {
	Value string `xml:",chardata"`
}

// Verse is a named block of lyric lines.
type Verse struct {
	Name  string `xml:"name,attr"`
	Lines Lines  `xml:"lines"`
}

// ContentKind selects the variant of a lyric content item.
type ContentKind int

// Content kinds.
const (
	// Text is plain lyric text.
	Text ContentKind = iota
	// Chord is an inline chord annotation at this point in the text.
	Chord
	// Break is a line break.
	Break
)

// Content is one item of mixed lyric content.
type Content struct {
	Kind  ContentKind
	Text  string // Text items
	Chord string // Chord items: the chord name
}

// Lines is a verse's mixed content: text runs, inline chords and breaks.
type Lines struct {
	Content []Content
}

// Text renders the lines as plain text with newline separators, dropping
// chord annotations.
func (l Lines) Text() string {
	var out []byte
	for _, c := range l.Content {
		switch c.Kind {
		case Text:
			out = append(out, c.Text...)
		case Break:
			out = append(out, '\n')
		}
	}
	return string(out)
}

// AppendText appends a text run, merging into a preceding text run.
func (l *Lines) AppendText(text string) {
	if text == "" {
		return
	}
	if n := len(l.Content); n > 0 && l.Content[n-1].Kind == Text {
		l.Content[n-1].Text += text
		return
	}
	l.Content = append(l.Content, Content{Kind: Text, Text: text})
}

// AppendChord appends an inline chord annotation.
func (l *Lines) AppendChord(name string) {
	if name == "" {
		return
	}
	l.Content = append(l.Content, Content{Kind: Chord, Chord: name})
}

// AppendBreak appends a line break.
func (l *Lines) AppendBreak() {
	l.Content = append(l.Content, Content{Kind: Break})
}

// MarshalXML writes the mixed content as OpenLyrics lines markup:
// character data interleaved with <chord name="..."/> and <br/> elements.
func (l Lines) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = "lines"
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range l.Content {
		switch c.Kind {
		case Text:
			if err := e.EncodeToken(xml.CharData(c.Text)); err != nil {
				return err
			}
		case Chord:
			el := xml.StartElement{
				Name: xml.Name{Local: "chord"},
				Attr: []xml.Attr{{Name: xml.Name{Local: "name"}, Value: c.Chord}},
			}
			if err := e.EncodeToken(el); err != nil {
				return err
			}
			if err := e.EncodeToken(xml.EndElement{Name: el.Name}); err != nil {
				return err
			}
		case Break:
			el := xml.StartElement{Name: xml.Name{Local: "br"}}
			if err := e.EncodeToken(el); err != nil {
				return err
			}
			if err := e.EncodeToken(xml.EndElement{Name: el.Name}); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// PrimaryTitle returns the first title, "" when none is set.
func (s *Song) PrimaryTitle() string {
	if len(s.Properties.Titles) == 0 {
		return ""
	}
	return s.Properties.Titles[0].Value
}
