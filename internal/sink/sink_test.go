package sink

import (
	"bytes"
	"errors"
	"testing"
)

func TestResolveCommandOrder(t *testing.T) {
	cmd, source, err := ResolveCommand("", "", "", "bat")
	if err != nil || cmd != "less" || source != SourceDefault {
		t.Fatalf("expected default less, got %q %v %v", cmd, source, err)
	}

	cmd, source, err = ResolveCommand("", "", "more", "bat")
	if err != nil || cmd != "more" || source != SourcePagerEnv {
		t.Fatalf("expected PAGER env, got %q %v %v", cmd, source, err)
	}

	cmd, source, err = ResolveCommand("", "moar", "more", "bat")
	if err != nil || cmd != "moar" || source != SourceBatPager {
		t.Fatalf("expected BAT_PAGER to win over PAGER, got %q %v %v", cmd, source, err)
	}

	cmd, source, err = ResolveCommand("--pager-flag less", "moar", "more", "bat")
	if err != nil || cmd != "--pager-flag less" || source != SourceExplicit {
		t.Fatalf("expected explicit to win over everything, got %q %v %v", cmd, source, err)
	}
}

func TestResolveCommandRefusesSelfRecursion(t *testing.T) {
	_, _, err := ResolveCommand("/usr/local/bin/bat", "", "", "bat")
	if !errors.Is(err, ErrInvalidPagerValueBat) {
		t.Errorf("expected ErrInvalidPagerValueBat, got %v", err)
	}
}

func TestLessVersionParsesFirstLine(t *testing.T) {
	if v := LessVersion("less 581 (GNU regex 0.12)\nCopyright..."); v != 581 {
		t.Errorf("expected 581, got %d", v)
	}
}

func TestLessVersionUnparseableIsZero(t *testing.T) {
	if v := LessVersion("not less at all"); v != 0 {
		t.Errorf("expected 0 for unparseable output, got %d", v)
	}
}

func TestLessArgsOnlyAppliesWhenSourceIsPagerEnv(t *testing.T) {
	args := LessArgs(SourceExplicit, 600, false, true, true, 7)
	if args != nil {
		t.Errorf("explicit source must not be overridden, got %v", args)
	}
}

func TestLessArgsManagedSetForPagerEnvSource(t *testing.T) {
	args := LessArgs(SourcePagerEnv, 520, false, true, false, 0)
	joined := joinArgs(args)
	if !contains(args, "-R") || !contains(args, "-F") || !contains(args, "--no-init") {
		t.Errorf("expected -R -F --no-init for old less version, got %v (%s)", args, joined)
	}
}

func TestLessArgsHeaderArgsForRecentLessWithLineNumbers(t *testing.T) {
	args := LessArgs(SourcePagerEnv, 600, false, false, true, 7)
	if !contains(args, "--header=0,7") || !contains(args, "--no-search-headers") {
		t.Errorf("expected header args for less >= 600 with line numbers, got %v", args)
	}
}

func TestLessArgsWindowsNoInitCeiling(t *testing.T) {
	args := LessArgs(SourcePagerEnv, 540, true, false, false, 0)
	if !contains(args, "--no-init") {
		t.Errorf("540 < 558 on windows-like host should still get --no-init, got %v", args)
	}
	args = LessArgs(SourcePagerEnv, 560, true, false, false, 0)
	if contains(args, "--no-init") {
		t.Errorf("560 >= 558 should not get --no-init, got %v", args)
	}
}

func TestDirectSinkWriterNeverClosesUnderlyingStdout(t *testing.T) {
	var buf bytes.Buffer
	s := Direct(&buf)
	if _, err := s.Writer.Write([]byte("hi")); err != nil {
		t.Fatal(err)
	}
	if err := s.Writer.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hi" {
		t.Errorf("expected passthrough write, got %q", buf.String())
	}
}

func TestDirectSinkReportsDirect(t *testing.T) {
	var buf bytes.Buffer
	s := Direct(&buf)
	if !s.IsDirect() {
		t.Error("expected a Direct sink to report IsDirect() == true")
	}
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func joinArgs(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
