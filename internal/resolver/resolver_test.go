package resolver

import (
	"testing"

	"github.com/batgo/batgo/internal/assets"
	"github.com/batgo/batgo/internal/syntaxmapping"
)

func openStore(t *testing.T) *assets.Store {
	t.Helper()
	s, err := assets.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// Scenario 2: PKGBUILD resolves to bash via the built-in mapping.
func TestResolvePKGBUILD(t *testing.T) {
	store := openStore(t)
	mapping := syntaxmapping.New()

	ref, err := Resolve(store, mapping, Options{Path: "/home/user/PKGBUILD"})
	if err != nil {
		t.Fatal(err)
	}
	if ref.Definition().Name != "Bourne Again Shell (bash)" {
		t.Errorf("resolved %q, want Bourne Again Shell (bash)", ref.Definition().Name)
	}
}

// Scenario 3: a full-file-name match beats a *.txt:MapExtensionToUnknown
// user rule.
func TestResolveCMakeListsFullNameBeatsExtensionUnknown(t *testing.T) {
	store := openStore(t)
	mapping := syntaxmapping.New()
	if err := mapping.AddUserRule("*.txt", syntaxmapping.MappingTarget{Kind: syntaxmapping.MapExtensionToUnknown}); err != nil {
		t.Fatal(err)
	}

	ref, err := Resolve(store, mapping, Options{Path: "/project/CMakeLists.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if ref.Definition().Name != "CMake" {
		t.Errorf("resolved %q, want CMake", ref.Definition().Name)
	}
}

// Scenario 4: with no full-name match, MapExtensionToUnknown falls through
// to first-line detection.
func TestResolveFallsBackToFirstLine(t *testing.T) {
	store := openStore(t)
	mapping := syntaxmapping.New()
	if err := mapping.AddUserRule("*.txt", syntaxmapping.MappingTarget{Kind: syntaxmapping.MapExtensionToUnknown}); err != nil {
		t.Fatal(err)
	}

	ref, err := Resolve(store, mapping, Options{
		Path:      "/project/some.txt",
		FirstLine: "#!/bin/bash\n",
	})
	if err != nil {
		t.Fatal(err)
	}
	if ref.Definition().Name != "Bourne Again Shell (bash)" {
		t.Errorf("resolved %q, want Bourne Again Shell (bash)", ref.Definition().Name)
	}
}

func TestResolveExplicitLanguageUnknown(t *testing.T) {
	store := openStore(t)
	mapping := syntaxmapping.New()

	_, err := Resolve(store, mapping, Options{ExplicitLanguage: "NotARealLanguage"})
	if err == nil {
		t.Errorf("expected an error for an unknown explicit language")
	}
}

func TestResolveUndetected(t *testing.T) {
	store := openStore(t)
	mapping := syntaxmapping.New()

	_, err := Resolve(store, mapping, Options{Path: "/tmp/mystery.xyz123"})
	if err != ErrUndetectedSyntax {
		t.Errorf("err = %v, want ErrUndetectedSyntax", err)
	}
}
