// Package resolver implements §4.4's syntax resolution algorithm: explicit
// language token, then path-based mapping/extension/filename lookup, then
// first-line detection, then (optionally) the language guesser.
package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/batgo/batgo/internal/assets"
	"github.com/batgo/batgo/internal/syntax"
	"github.com/batgo/batgo/internal/syntaxmapping"
)

// ErrUnknownSyntax mirrors assets.ErrUnknownSyntax (§7's UnknownSyntax).
var ErrUnknownSyntax = assets.ErrUnknownSyntax

// ErrUndetectedSyntax is §7's UndetectedSyntax: non-fatal inside the
// resolver, treated as plain text at the outer boundary when --language was
// not supplied.
var ErrUndetectedSyntax = errors.New("syntax undetected")

// Guesser is implemented by the optional language guesser (§4.4 step 3,
// §4.10); kept as an interface here so this package never has to import it.
type Guesser interface {
	Guess(prefix string) (syntaxName string, ok bool)
}

// Options carries the resolver's inputs for one Input (§4.4).
type Options struct {
	// ExplicitLanguage is the user's --language value, if any.
	ExplicitLanguage string
	// Path is the input's path, empty for stdin or a custom reader.
	Path string
	// FirstLine is the already-decoded, already-cached first line of the
	// input's prefix (§4.4: "never consumes input past... InputReader's
	// first_read").
	FirstLine string
	Guesser   Guesser
}

// Resolve runs §4.4's algorithm against store's syntax set, using mapping
// for the path-based step.
func Resolve(store *assets.Store, mapping *syntaxmapping.Mapping, opts Options) (syntax.InSet, error) {
	if opts.ExplicitLanguage != "" {
		ref, ok := store.Syntaxes().ByToken(opts.ExplicitLanguage)
		if !ok {
			return syntax.InSet{}, fmt.Errorf("%s: %w", opts.ExplicitLanguage, ErrUnknownSyntax)
		}
		return ref, nil
	}

	if opts.Path != "" {
		ref, resolved, err := resolveByPath(store, mapping, opts.Path)
		if err != nil {
			return syntax.InSet{}, err
		}
		if resolved {
			return ref, nil
		}
	}

	if opts.FirstLine != "" {
		if ref, ok := store.Syntaxes().ByFirstLine(opts.FirstLine); ok {
			return ref, nil
		}
	}

	if opts.Guesser != nil {
		if name, ok := opts.Guesser.Guess(opts.FirstLine); ok {
			if ref, err := store.Syntax(name); err == nil {
				return ref, nil
			}
		}
	}

	return syntax.InSet{}, ErrUndetectedSyntax
}

// resolveByPath implements §4.4 step 2: canonicalize, strip ignorable
// suffixes, then consult the syntax mapping and fall through its three
// outcomes. A false "resolved" with a nil error means: proceed to step 3.
func resolveByPath(store *assets.Store, mapping *syntaxmapping.Mapping, path string) (syntax.InSet, bool, error) {
	canon := canonicalize(path)
	strippedBase := mapping.StripIgnorableSuffixes(filepath.Base(canon))
	lookupPath := filepath.Join(filepath.Dir(canon), strippedBase)

	target, hasRule := mapping.Lookup(lookupPath)
	if hasRule {
		switch target.Kind {
		case syntaxmapping.MapToUnknown:
			return syntax.InSet{}, false, nil
		case syntaxmapping.MapTo:
			ref, err := store.Syntax(target.Name)
			if err != nil {
				return syntax.InSet{}, false, err
			}
			return ref, true, nil
		}
		// MapExtensionToUnknown: still try the full file name first.
	}

	if ref, ok := store.Syntaxes().ByFileName(strippedBase); ok {
		return ref, true, nil
	}

	if hasRule && target.Kind == syntaxmapping.MapExtensionToUnknown {
		return syntax.InSet{}, false, nil
	}

	if ext := strings.TrimPrefix(filepath.Ext(strippedBase), "."); ext != "" {
		if ref, ok := store.Syntaxes().ByExtension(ext); ok {
			return ref, true, nil
		}
	}

	return syntax.InSet{}, false, nil
}

// canonicalize absolutizes and cleans path without touching the filesystem
// beyond reading the current working directory (§4.4: "resolved without
// touching the filesystem for components that don't exist").
func canonicalize(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(cwd, path))
}
