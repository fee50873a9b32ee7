package input

import "testing"

func TestParsedModes(t *testing.T) {
	cases := []struct {
		spec     string
		wantMode preprocessMode
		wantTmpl string
		wantStd  bool
	}{
		{"||/bin/lesspipe %s", modePipeStrict, "/bin/lesspipe %s", false},
		{"|/bin/lesspipe %s", modePipe, "/bin/lesspipe %s", false},
		{"/bin/lesspipe %s", modeReplaceFile, "/bin/lesspipe %s", false},
		{"|-/bin/lesspipe %s", modePipe, "/bin/lesspipe %s", true},
		{"||-/bin/lesspipe %s", modePipeStrict, "/bin/lesspipe %s", true},
	}
	for _, c := range cases {
		pp := PreprocessorConfig{Command: c.spec}
		mode, tmpl, stdinOK := pp.parsed()
		if mode != c.wantMode || tmpl != c.wantTmpl || stdinOK != c.wantStd {
			t.Errorf("parsed(%q) = (%v, %q, %v), want (%v, %q, %v)",
				c.spec, mode, tmpl, stdinOK, c.wantMode, c.wantTmpl, c.wantStd)
		}
	}
}

func TestSubstitutePath(t *testing.T) {
	if got := substitutePath("cmd %s", "/tmp/f"); got != "cmd /tmp/f" {
		t.Errorf("substitutePath with %%s = %q", got)
	}
	if got := substitutePath("cmd", "/tmp/f"); got != "cmd /tmp/f" {
		t.Errorf("substitutePath without %%s = %q", got)
	}
}

func TestPeekReaderReturnsBufferedByteThenRest(t *testing.T) {
	pr := newPeekReader(byteReader([]byte("hello")))

	b, ok, err := pr.Peek()
	if err != nil || !ok || b != 'h' {
		t.Fatalf("Peek() = (%q, %v, %v)", b, ok, err)
	}

	buf := make([]byte, 16)
	n, _ := pr.Read(buf)
	if string(buf[:n]) != "h" {
		t.Errorf("first Read = %q, want %q", buf[:n], "h")
	}
	n, _ = pr.Read(buf)
	if string(buf[:n]) != "ello" {
		t.Errorf("second Read = %q, want %q", buf[:n], "ello")
	}
}

func TestPeekReaderEmptyStream(t *testing.T) {
	pr := newPeekReader(byteReader(nil))
	_, ok, _ := pr.Peek()
	if ok {
		t.Errorf("Peek() on empty stream reported a byte available")
	}
}
