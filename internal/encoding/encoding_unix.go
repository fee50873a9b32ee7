//go:build unix

package encoding

import (
	"bytes"
	"os/exec"
	"strings"
)

// sniffPlatform shells out to the system's file(1) utility, §4.3's
// Unix-specific detection path, grounded on original_source/src/input.rs's
// #[cfg(unix)] inspect (execuate_file(["--brief", "--mime-encoding", "-"])).
// A missing or failing file binary falls back to the in-process byte-pattern
// detector rather than aborting the caller's read.
func sniffPlatform(prefix []byte) ContentType {
	mime, err := runFile(prefix, "--brief", "--mime-encoding", "-")
	if err != nil {
		return sniffFallback(prefix)
	}

	switch mime {
	case "us-ascii", "utf-8", "unknown-8bit":
		return ContentType{Kind: UTF8}
	case "utf-16le":
		return ContentType{Kind: UTF16LE}
	case "utf-16be":
		return ContentType{Kind: UTF16BE}
	case "utf-32le":
		return ContentType{Kind: UTF32LE}
	case "utf-32be":
		return ContentType{Kind: UTF32BE}
	}

	var desc string
	if format, err := runFile(prefix, "--brief", "-"); err == nil &&
		format != "data" && format != "very short file (no magic)" {
		desc = format
	}
	return ContentType{Kind: Binary, BinaryDescription: desc}
}

func runFile(prefix []byte, args ...string) (string, error) {
	cmd := exec.Command("file", args...)
	cmd.Stdin = bytes.NewReader(prefix)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
