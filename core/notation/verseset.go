package notation

import "strings"

// Fragment is one word of lyric text with an optional chord annotation that
// applies at the fragment's leading boundary.
type Fragment struct {
	Text  string
	Chord string
}

// Line is an ordered sequence of word fragments.
type Line struct {
	Fragments []Fragment
}

// Text renders the line as plain text, joining fragments with single spaces.
// Chord annotations are not included.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Fragments))
	for _, f := range l.Fragments {
		if f.Text != "" {
			parts = append(parts, f.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Empty reports whether the line has no text content.
func (l Line) Empty() bool {
	for _, f := range l.Fragments {
		if f.Text != "" {
			return false
		}
	}
	return true
}

// Verse is a named ordered sequence of lines.
type Verse struct {
	// Name is the verse number or label ("1", "2", "c").
	Name  string
	Lines []Line
}

// Empty reports whether the verse has no non-empty lines.
func (v *Verse) Empty() bool {
	for _, l := range v.Lines {
		if !l.Empty() {
			return false
		}
	}
	return true
}

// VerseSet maps verse names to verses, preserving insertion order, plus the
// document metadata collected from header tokens. Verses with the same name
// encountered non-contiguously merge in order of appearance.
type VerseSet struct {
	Meta Metadata

	order  []string
	verses map[string]*Verse
}

// NewVerseSet creates an empty VerseSet.
func NewVerseSet() *VerseSet {
	return &VerseSet{verses: make(map[string]*Verse)}
}

// Verse returns the verse with the given name, creating it if needed.
// First use of a name fixes its position in the default ordering.
func (vs *VerseSet) Verse(name string) *Verse {
	if name == "" {
		name = "1"
	}
	if v, ok := vs.verses[name]; ok {
		return v
	}
	v := &Verse{Name: name}
	vs.verses[name] = v
	vs.order = append(vs.order, name)
	return v
}

// Lookup returns the verse with the given name, or nil.
func (vs *VerseSet) Lookup(name string) *Verse {
	return vs.verses[name]
}

// Names returns verse names in insertion order.
func (vs *VerseSet) Names() []string {
	return vs.order
}

// Verses returns verses in insertion order.
func (vs *VerseSet) Verses() []*Verse {
	out := make([]*Verse, 0, len(vs.order))
	for _, name := range vs.order {
		out = append(out, vs.verses[name])
	}
	return out
}

// Len returns the number of verses.
func (vs *VerseSet) Len() int {
	return len(vs.order)
}

// Merge folds v into the verse with the same name. When both already have
// content the first-seen content wins, v is dropped, and Merge returns true
// so the caller can record a conflicting-content diagnostic.
func (vs *VerseSet) Merge(v *Verse) bool {
	dst := vs.Verse(v.Name)
	if !dst.Empty() && !v.Empty() {
		return true
	}
	dst.Lines = append(dst.Lines, v.Lines...)
	return false
}

// InsertAfter moves or inserts the named verse directly after another in the
// default ordering. Used for the ABC chorus convention, where the chorus is
// placed after the first verse.
func (vs *VerseSet) InsertAfter(name, after string) {
	idx := -1
	for i, n := range vs.order {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	order := append(vs.order[:idx:idx], vs.order[idx+1:]...)
	pos := len(order)
	for i, n := range order {
		if n == after {
			pos = i + 1
			break
		}
	}
	vs.order = append(order[:pos:pos], append([]string{name}, order[pos:]...)...)
}
