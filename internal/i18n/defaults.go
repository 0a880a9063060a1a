package i18n

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults returns the built-in UI strings. The remote localization table is
// merged on top of these so the interface stays readable when it is missing.
func Defaults() *Table {
	t, err := ParseYAML(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded defaults are invalid: %v", err))
	}
	return t
}

// ParseYAML builds a table from a `key: {locale: text}` document.
func ParseYAML(data []byte) (*Table, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing localization yaml: %w", err)
	}
	t := NewTable()
	for key, set := range raw {
		if set == nil {
			continue
		}
		t.texts[key] = set
	}
	return t, nil
}
