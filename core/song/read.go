package song

import (
	"strings"

	"github.com/FocuswithJustin/Lyrebird/core/errors"
	"github.com/FocuswithJustin/Lyrebird/core/xml"
)

// Read parses an OpenLyrics XML document into the song model. Mixed lyric
// content is walked in document order so chord placement survives a
// write/read round trip.
func Read(data []byte) (*Song, error) {
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, &errors.MalformedError{Format: "OpenLyrics", Message: err.Error(), Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.NewMalformed("OpenLyrics", 0, "document has no root element")
	}
	if root.Name() != "song" {
		return nil, errors.NewUnsupported("OpenLyrics", root.Name(), "not an OpenLyrics document")
	}

	s := &Song{
		Xmlns:        root.Attr("xmlns"),
		Version:      root.Attr("version"),
		CreatedIn:    root.Attr("createdIn"),
		ModifiedIn:   root.Attr("modifiedIn"),
		ModifiedDate: root.Attr("modifiedDate"),
	}
	readProperties(s, root)

	verses, err := root.XPath("lyrics/verse")
	if err != nil {
		return nil, errors.Wrap(err, "selecting verses")
	}
	for _, v := range verses {
		verse := Verse{Name: v.Attr("name")}
		linesEls, _ := v.XPath("lines")
		for i, lines := range linesEls {
			if i > 0 {
				verse.Lines.AppendBreak()
			}
			readLines(&verse.Lines, lines)
		}
		s.Verses = append(s.Verses, verse)
	}
	return s, nil
}

func readProperties(s *Song, root *xml.Node) {
	titles, _ := root.XPath("properties/titles/title")
	for _, t := range titles {
		s.Properties.Titles = append(s.Properties.Titles, Title{Value: t.InnerText()})
	}
	authors, _ := root.XPath("properties/authors/author")
	for _, a := range authors {
		s.Properties.Authors = append(s.Properties.Authors, Author{
			Type:  a.Attr("type"),
			Value: a.InnerText(),
		})
	}
	if n, _ := root.XPathFirst("properties/key"); n != nil {
		s.Properties.Key = n.InnerText()
	}
	if n, _ := root.XPathFirst("properties/tempo"); n != nil {
		s.Properties.Tempo = &Tempo{Type: n.Attr("type"), Value: n.InnerText()}
	}
	themes, _ := root.XPath("properties/themes/theme")
	for _, t := range themes {
		s.Properties.Themes = append(s.Properties.Themes, Theme{Value: t.InnerText()})
	}
	if n, _ := root.XPathFirst("properties/verseOrder"); n != nil {
		s.Properties.VerseOrder = strings.TrimSpace(n.InnerText())
	}
}

// readLines walks one lines element's mixed content in document order.
func readLines(dst *Lines, lines *xml.Node) {
	for _, child := range lines.RawChildren() {
		switch {
		case child.IsText():
			dst.AppendText(normalizeSpace(child.InnerText()))
		case child.Name() == "chord":
			dst.AppendChord(child.Attr("name"))
		case child.Name() == "br":
			dst.AppendBreak()
		}
	}
}

// normalizeSpace collapses the whitespace runs that XML indentation
// introduces into single spaces.
func normalizeSpace(s string) string {
	fields := strings.Fields(s)
	joined := strings.Join(fields, " ")
	if joined == "" {
		return ""
	}
	if s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r' {
		joined = " " + joined
	}
	last := s[len(s)-1]
	if last == ' ' || last == '\t' || last == '\n' || last == '\r' {
		joined += " "
	}
	return joined
}
