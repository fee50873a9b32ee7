package syntax

import (
	"fmt"
	"regexp"

	"github.com/goccy/go-yaml"
)

// rawDefinition mirrors the embedded syntaxes.yaml shape; see
// internal/assets/data and SPEC_FULL.md §4.1.
type rawDefinition struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
	FileNames  []string `yaml:"file_names"`
	FirstLine  *string  `yaml:"first_line"`
	Contexts   map[string][]rawRule `yaml:"contexts"`
}

type rawRule struct {
	Scope string `yaml:"scope"`
	Match string `yaml:"match"`
	Push  string `yaml:"push"`
	Pop   bool   `yaml:"pop"`
}

// DecodeYAML parses the embedded syntaxes bundle (a map keyed by an internal
// id, each value one syntax definition) into a Set.
func DecodeYAML(data []byte) (*Set, error) {
	var raw map[string]rawDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode syntaxes: %w", err)
	}

	defs := make([]*Definition, 0, len(raw))
	for _, rd := range raw {
		d, err := compile(rd)
		if err != nil {
			return nil, fmt.Errorf("syntax %q: %w", rd.Name, err)
		}
		defs = append(defs, d)
	}
	return NewSet(defs), nil
}

func compile(rd rawDefinition) (*Definition, error) {
	d := &Definition{
		Name:        rd.Name,
		Extensions:  rd.Extensions,
		FileNames:   rd.FileNames,
		Contexts:    map[string]*Context{},
		MainContext: "main",
	}
	if rd.FirstLine != nil && *rd.FirstLine != "" {
		re, err := regexp.Compile(*rd.FirstLine)
		if err != nil {
			return nil, fmt.Errorf("first_line: %w", err)
		}
		d.FirstLineMatch = re
	}
	for name, rawRules := range rd.Contexts {
		ctx := &Context{Name: name}
		for _, rr := range rawRules {
			re, err := regexp.Compile(rr.Match)
			if err != nil {
				return nil, fmt.Errorf("context %q rule %q: %w", name, rr.Scope, err)
			}
			ctx.Rules = append(ctx.Rules, Rule{Scope: rr.Scope, Match: re, Push: rr.Push, Pop: rr.Pop})
		}
		d.Contexts[name] = ctx
	}
	return d, nil
}
