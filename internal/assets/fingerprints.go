package assets

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// decodeFingerprints parses the embedded fingerprints bundle: a map of
// syntax name -> reference keyword list, used by the language guesser
// (§4.10, SPEC_FULL.md).
func decodeFingerprints(data []byte) (map[string][]string, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode fingerprints: %w", err)
	}
	return raw, nil
}
