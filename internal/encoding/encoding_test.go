package encoding

import "testing"

func TestSniffBOM(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want Kind
	}{
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, UTF8},
		{"utf16le bom", []byte{0xFF, 0xFE, 'h', 0}, UTF16LE},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'h'}, UTF16BE},
		{"utf32le bom", []byte{0xFF, 0xFE, 0, 0, 'h', 0, 0, 0}, UTF32LE},
		{"utf32be bom", []byte{0, 0, 0xFE, 0xFF, 0, 0, 0, 'h'}, UTF32BE},
		{"plain ascii", []byte("hello"), UTF8},
		{"nul byte", []byte{'h', 0, 'i'}, Binary},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Sniff(c.in)
			if got.Kind != c.want {
				t.Errorf("Sniff(%v) = %v, want %v", c.in, got.Kind, c.want)
			}
		})
	}
}

func TestUTF32LERoundTrip(t *testing.T) {
	raw := []byte{'h', 0, 0, 0, 'i', 0, 0, 0}
	got, ok := Decode(raw, ContentType{Kind: UTF32LE})
	if !ok {
		t.Fatal("Decode returned ok=false")
	}
	if got != "hi" {
		t.Errorf("decodeUTF32LE = %q, want %q", got, "hi")
	}
}

func TestUTF32BERoundTrip(t *testing.T) {
	raw := []byte{0, 0, 0, 'h', 0, 0, 0, 'i'}
	got, ok := Decode(raw, ContentType{Kind: UTF32BE})
	if !ok {
		t.Fatal("Decode returned ok=false")
	}
	if got != "hi" {
		t.Errorf("decodeUTF32BE = %q, want %q", got, "hi")
	}
}

func TestUTF16LERoundTrip(t *testing.T) {
	raw := []byte{'h', 0, 'i', 0}
	got, ok := Decode(raw, ContentType{Kind: UTF16LE})
	if !ok {
		t.Fatal("Decode returned ok=false")
	}
	if got != "hi" {
		t.Errorf("decodeUTF16LE = %q, want %q", got, "hi")
	}
}

func TestDecodeBinaryNotOK(t *testing.T) {
	if _, ok := Decode([]byte{1, 2, 3}, ContentType{Kind: Binary}); ok {
		t.Errorf("Decode(Binary) ok = true, want false")
	}
}

func TestStripBOMOnlyMatchingKind(t *testing.T) {
	raw := []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}
	stripped := StripBOM(raw, ContentType{Kind: UTF8})
	if string(stripped) != "hi" {
		t.Errorf("StripBOM = %q, want %q", stripped, "hi")
	}

	noBOM := []byte("hi")
	if string(StripBOM(noBOM, ContentType{Kind: UTF8})) != "hi" {
		t.Errorf("StripBOM without BOM should be unchanged")
	}
}

func TestTerminatorWidth(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{UTF8, 1},
		{UTF16LE, 2},
		{UTF16BE, 2},
		{UTF32LE, 4},
		{UTF32BE, 4},
		{Binary, 1},
	}
	for _, c := range cases {
		if got := (ContentType{Kind: c.kind}).TerminatorWidth(); got != c.want {
			t.Errorf("TerminatorWidth(%v) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestTag(t *testing.T) {
	if got := (ContentType{Kind: UTF8}).Tag(); got != "" {
		t.Errorf("UTF8 Tag = %q, want empty", got)
	}
	if got := (ContentType{Kind: Binary}).Tag(); got != "<BINARY>" {
		t.Errorf("Binary Tag = %q, want <BINARY>", got)
	}
}
