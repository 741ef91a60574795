package song

import (
	"bytes"
	"encoding/xml"

	"github.com/FocuswithJustin/Lyrebird/core/errors"
)

// Write serializes a song as an OpenLyrics XML document. Output is compact:
// indentation inside mixed lyric content would change the lyric text, so no
// element is indented.
func Write(s *Song) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(s); err != nil {
		return nil, errors.Wrap(err, "encoding song")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding song")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
