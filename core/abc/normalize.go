package abc

import (
	"regexp"
	"strconv"

	"github.com/FocuswithJustin/Lyrebird/core/notation"
)

// ChorusName is the verse label given to a chorus split off the first verse.
const ChorusName = "c"

var verseNumberPrefix = regexp.MustCompile(`^[1-9][0-9]?\.\s*`)

// Normalize applies ABC songbook conventions to an assembled verse set:
// a leading "N." verse number on the first line of a verse is stripped, and
// when the first verse is longer than every later verse, its tail is split
// off as the chorus and placed after the first verse.
func Normalize(vs *notation.VerseSet) {
	stripVerseNumbers(vs)
	splitChorus(vs)
}

func stripVerseNumbers(vs *notation.VerseSet) {
	for _, v := range vs.Verses() {
		if len(v.Lines) == 0 || len(v.Lines[0].Fragments) == 0 {
			continue
		}
		frag := &v.Lines[0].Fragments[0]
		frag.Text = verseNumberPrefix.ReplaceAllString(frag.Text, "")
	}
}

// splitChorus implements the common ABC layout where the chorus is written
// once, as extra lines at the end of the first verse.
func splitChorus(vs *notation.VerseSet) {
	verses := vs.Verses()
	if len(verses) < 2 {
		return
	}
	restMax := 0
	for _, v := range verses[1:] {
		if len(v.Lines) > restMax {
			restMax = len(v.Lines)
		}
	}
	first := verses[0]
	if len(first.Lines) <= restMax {
		return
	}

	chorus := vs.Verse(ChorusName)
	chorus.Lines = append(chorus.Lines, first.Lines[restMax:]...)
	first.Lines = first.Lines[:restMax:restMax]
	vs.InsertAfter(ChorusName, first.Name)
}

// AppendTextVerses adds %%begintext verses after the sung verses, numbered
// to continue where the sung verse numbers stop. Call it after Normalize so
// text verses never skew the chorus heuristic. Leading verse numbers are
// stripped the same way as on sung verses.
func AppendTextVerses(vs *notation.VerseSet, textVerses []*notation.Verse) {
	next := 0
	for _, name := range vs.Names() {
		if n, err := strconv.Atoi(name); err == nil && n > next {
			next = n
		}
	}
	for _, v := range textVerses {
		if v.Empty() {
			continue
		}
		next++
		dst := vs.Verse(strconv.Itoa(next))
		dst.Lines = append(dst.Lines, v.Lines...)
		if len(dst.Lines) > 0 && len(dst.Lines[0].Fragments) > 0 {
			frag := &dst.Lines[0].Fragments[0]
			frag.Text = verseNumberPrefix.ReplaceAllString(frag.Text, "")
		}
	}
}
