package syntaxmapping

import "testing"

func TestBuiltinPKGBUILD(t *testing.T) {
	m := New()
	target, ok := m.Lookup("/home/user/PKGBUILD")
	if !ok || target.Kind != MapTo || target.Name != "Bourne Again Shell (bash)" {
		t.Fatalf("got %+v, %v", target, ok)
	}
}

// invariant 6 of §8: a user rule overrides a built-in mapping to the same glob.
func TestUserRuleOverridesBuiltin(t *testing.T) {
	m := New()
	if err := m.AddUserRule("*.rs", MappingTarget{Kind: MapTo, Name: "Plain Text"}); err != nil {
		t.Fatal(err)
	}
	target, ok := m.Lookup("/tmp/main.rs")
	if !ok || target.Name != "Plain Text" {
		t.Fatalf("user rule did not win: %+v, %v", target, ok)
	}
}

// scenario 3 of §8: CMakeLists.txt stays CMake even with *.txt mapped to
// MapExtensionToUnknown, because the full-file-name match in the resolver
// beats the extension-unknown rule (that composition lives in the resolver,
// not here -- this only checks what Mapping.Lookup itself returns).
func TestLookupReturnsLaterExtensionToUnknownRule(t *testing.T) {
	m := New()
	if err := m.AddUserRule("*.txt", MappingTarget{Kind: MapExtensionToUnknown}); err != nil {
		t.Fatal(err)
	}
	target, ok := m.Lookup("/tmp/CMakeLists.txt")
	if !ok {
		t.Fatalf("expected a match")
	}
	// Lookup returns the highest-index matching rule; the user's *.txt rule
	// comes after CMakeLists.txt's built-in rule, so it is the one returned.
	// The resolver (not Mapping) is responsible for preferring the full-name
	// match.
	if target.Kind != MapExtensionToUnknown {
		t.Errorf("Lookup = %+v, want the later MapExtensionToUnknown rule", target)
	}
}

func TestIgnorableSuffixStripping(t *testing.T) {
	m := New()
	got := m.StripIgnorableSuffixes("foo.rs.gz.bak")
	if got != "foo.rs" {
		t.Errorf("got %q, want foo.rs", got)
	}
}

func TestIgnorableSuffixStrippingIdempotent(t *testing.T) {
	m := New()
	once := m.StripIgnorableSuffixes("foo.rs.gz.bak")
	twice := m.StripIgnorableSuffixes(once)
	if once != twice {
		t.Errorf("stripping not idempotent: %q != %q", once, twice)
	}
}

func TestCaseInsensitiveGlob(t *testing.T) {
	m := New()
	target, ok := m.Lookup("/tmp/MAIN.RS")
	if !ok || target.Name != "Rust" {
		t.Fatalf("case-insensitive match failed: %+v, %v", target, ok)
	}
}
