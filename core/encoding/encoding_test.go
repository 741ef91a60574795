package encoding

import "testing"

func TestDecodeUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain ascii", []byte("X:1\nT:Test\n"), "X:1\nT:Test\n"},
		{"utf8 bom stripped", []byte{0xEF, 0xBB, 0xBF, 'a', 'b'}, "ab"},
		{"valid utf8 passthrough", []byte("na\xc3\xafve"), "naïve"},
		{"latin1 fallback", []byte{'c', 'a', 0xE9}, "caé"},
		{"utf16 le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"utf16 be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "hi"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUTF8(tt.in)
			if err != nil {
				t.Fatalf("DecodeUTF8 failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeUTF8() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeXMLText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain text", "plain text"},
		{"a < b", "a &lt; b"},
		{"a > b", "a &gt; b"},
		{"a & b", "a &amp; b"},
		{`quotes "stay"`, `quotes "stay"`},
	}

	for _, tt := range tests {
		if got := EscapeXMLText(tt.input); got != tt.expected {
			t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestEscapeXMLAttr(t *testing.T) {
	got := EscapeXMLAttr(`say "hi" & <go>`)
	want := "say &quot;hi&quot; &amp; &lt;go&gt;"
	if got != want {
		t.Errorf("EscapeXMLAttr() = %q, want %q", got, want)
	}
}

func TestUnescapeEntities(t *testing.T) {
	got := UnescapeEntities("he said &quot;don&apos;t&quot;")
	want := `he said "don't"`
	if got != want {
		t.Errorf("UnescapeEntities() = %q, want %q", got, want)
	}
}
