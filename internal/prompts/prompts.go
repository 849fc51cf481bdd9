package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Prompt is the fixed instruction text and sampling style for one operation.
type Prompt struct {
	System string `yaml:"system"`
	Style  struct {
		Temperature float32 `yaml:"temperature"`
	} `yaml:"style"`
}

// Set holds one Prompt per model-dependent endpoint.
type Set struct {
	Summarise Prompt `yaml:"summarise"`
	Interpret Prompt `yaml:"interpret"`
	Ask       Prompt `yaml:"ask"`
}

// Default returns the embedded prompt set.
func Default() Set {
	var s Set
	if err := yaml.Unmarshal(defaultYAML, &s); err != nil {
		panic(fmt.Sprintf("prompts: embedded default.yaml is invalid: %v", err))
	}
	return s
}

// Load reads a prompt set from path. An empty path yields the embedded
// defaults; operations missing from the file keep their default prompt and
// temperature.
func Load(path string) (Set, error) {
	def := Default()
	if strings.TrimSpace(path) == "" {
		return def, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read prompts file: %w", err)
	}
	var s Set
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Set{}, fmt.Errorf("parse prompts file %s: %w", path, err)
	}
	s.Summarise = merge(s.Summarise, def.Summarise)
	s.Interpret = merge(s.Interpret, def.Interpret)
	s.Ask = merge(s.Ask, def.Ask)
	return s, nil
}

func merge(s, def Prompt) Prompt {
	if strings.TrimSpace(s.System) == "" {
		s.System = def.System
	}
	if s.Style.Temperature <= 0 {
		s.Style.Temperature = def.Style.Temperature
	}
	return s
}
