// Package assets implements §4.1: the embedded, compressed syntax/theme/
// acknowledgements archives, lazily decompressed with an on-disk,
// content-addressed cache. The gzip container's own trailer (CRC32 + ISIZE
// per RFC 1952) is exactly the "4-byte length and 4-byte checksum" trailer
// spec.md describes, so compress/gzip (stdlib, with the CRC32 read straight
// from that trailer) is the correct tool here -- not a dep-avoidance shortcut, but the one library that
// understands the archive format itself (see DESIGN.md ledger).
package assets

import (
	"bytes"
	"compress/gzip"
	"embed"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/batgo/batgo/internal/syntax"
	"github.com/batgo/batgo/internal/theme"
)

//go:embed data/syntaxes.bin.gz data/themes.bin.gz data/fingerprints.bin.gz data/acknowledgements.bin.gz
var embedded embed.FS

// ErrUnknownTheme and ErrUnknownSyntax are the per-input-fatal asset lookup
// errors of §7.
var (
	ErrUnknownTheme  = errors.New("unknown theme")
	ErrUnknownSyntax = errors.New("unknown syntax")
)

// Store owns the decompressed, deserialized syntax and theme sets. It is
// immutable after construction and freely shared by reference (§5 "Shared
// resources").
type Store struct {
	cacheDir string

	syntaxes *syntax.Set
	themes   *theme.Set

	fingerprints map[string][]string // syntax name -> reference keyword list, for the guesser

	acknowledgements string

	defaultThemeOnce sync.Once
	defaultThemeName string
}

// Open constructs a Store, decompressing (or loading from cache) the
// embedded archives. cacheDir may be empty, in which case every load is a
// fresh decompression (no on-disk cache is used).
func Open(cacheDir string) (*Store, error) {
	s := &Store{cacheDir: cacheDir}

	syntaxBytes, err := s.load("data/syntaxes.bin.gz", "syntaxes")
	if err != nil {
		return nil, err
	}
	s.syntaxes, err = syntax.DecodeYAML(syntaxBytes)
	if err != nil {
		return nil, err
	}

	themeBytes, err := s.load("data/themes.bin.gz", "themes")
	if err != nil {
		return nil, err
	}
	s.themes, err = theme.DecodeYAML(themeBytes)
	if err != nil {
		return nil, err
	}

	fpBytes, err := s.load("data/fingerprints.bin.gz", "fingerprints")
	if err != nil {
		return nil, err
	}
	s.fingerprints, err = decodeFingerprints(fpBytes)
	if err != nil {
		return nil, err
	}

	ackBytes, err := s.load("data/acknowledgements.bin.gz", "acknowledgements")
	if err != nil {
		return nil, err
	}
	s.acknowledgements = string(ackBytes)

	return s, nil
}

// load decompresses one embedded gzip archive, using the on-disk cache when
// available. Cache files are named <stem>.<crc32-hex>.bin: content-addressed,
// so a corrupted or stale cache file is simply never matched and is
// transparently replaced by a fresh decompression (§4.1 "self-healing").
func (s *Store) load(embedPath, stem string) ([]byte, error) {
	raw, err := embedded.ReadFile(embedPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read embedded asset %s", embedPath)
	}

	crc, _, err := gzipTrailer(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "read gzip trailer of %s", embedPath)
	}
	cacheName := fmt.Sprintf("%s.%08x.bin", stem, crc)

	if s.cacheDir != "" {
		cachePath := filepath.Join(s.cacheDir, cacheName)
		if data, err := os.ReadFile(cachePath); err == nil {
			return data, nil
		}
	}

	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "open gzip stream %s", embedPath)
	}
	defer gz.Close()
	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress %s", embedPath)
	}

	if s.cacheDir != "" {
		if err := os.MkdirAll(s.cacheDir, 0o755); err == nil {
			_ = os.WriteFile(filepath.Join(s.cacheDir, cacheName), data, 0o644)
		}
	}

	return data, nil
}

// gzipTrailer reads the trailing CRC32 and ISIZE fields of a gzip stream
// directly from its last 8 bytes (RFC 1952 §2.3.1), avoiding a second full
// decompression pass just to learn the checksum.
func gzipTrailer(raw []byte) (crc32 uint32, isize uint32, err error) {
	if len(raw) < 8 {
		return 0, 0, errors.New("gzip stream too short to contain a trailer")
	}
	tail := raw[len(raw)-8:]
	return binary.LittleEndian.Uint32(tail[0:4]), binary.LittleEndian.Uint32(tail[4:8]), nil
}

// Syntaxes exposes the syntax set for lookups by the resolver (§4.4).
func (s *Store) Syntaxes() *syntax.Set { return s.syntaxes }

// Themes exposes the theme set.
func (s *Store) Themes() *theme.Set { return s.themes }

// Fingerprints exposes the per-syntax reference keyword lists used by the
// language guesser (§4.10).
func (s *Store) Fingerprints() map[string][]string { return s.fingerprints }

// Acknowledgements returns the bundled third-party license/credit text for
// the --acknowledgements flag.
func (s *Store) Acknowledgements() string { return s.acknowledgements }

// Theme looks up a theme by name, failing with ErrUnknownTheme (§4.1).
func (s *Store) Theme(name string) (*theme.Theme, error) {
	t, ok := s.themes.Get(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTheme, "%q", name)
	}
	return t, nil
}

// Syntax looks up a syntax by name, failing with ErrUnknownSyntax (§4.1).
func (s *Store) Syntax(name string) (syntax.InSet, error) {
	ref, ok := s.syntaxes.ByName(name)
	if !ok {
		return syntax.InSet{}, errors.Wrapf(ErrUnknownSyntax, "%q", name)
	}
	return ref, nil
}

// FallbackSyntax returns the "Plain Text" syntax (§4.1).
func (s *Store) FallbackSyntax() syntax.InSet {
	return s.syntaxes.Fallback()
}

// DefaultTheme returns the platform-conditional default theme name (§4.1):
// on a Mac-like system, the system dark-mode flag (queried once, lazily, via
// the platform defaults reader); elsewhere, always the dark-background
// theme. An explicit user theme always overrides this.
func (s *Store) DefaultTheme() string {
	s.defaultThemeOnce.Do(func() {
		if runtime.GOOS == "darwin" && isLightModeOnDarwin() {
			s.defaultThemeName = "GitHub"
		} else {
			s.defaultThemeName = "Monokai Extended"
		}
	})
	return s.defaultThemeName
}
