package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Highlight categories. Each one is also the name of the tag it colors.
const (
	CategoryKeyword    = "keyword"
	CategoryBuiltin    = "builtin"
	CategoryNumber     = "number"
	CategoryComment    = "comment"
	CategoryString     = "string"
	CategoryDefinition = "definition"
)

var requiredCategories = []string{
	CategoryKeyword,
	CategoryBuiltin,
	CategoryNumber,
	CategoryComment,
	CategoryString,
	CategoryDefinition,
}

var defaultPalette = map[string]string{
	CategoryKeyword:    "#8f19f7",
	CategoryBuiltin:    "#1936f7",
	CategoryNumber:     "#56a30a",
	CategoryComment:    "#979399",
	CategoryString:     "#326601",
	CategoryDefinition: "#e39a24",
}

// ConfigurationError reports a missing or malformed color scheme.
// ConfigurationError сообщает об отсутствующей или испорченной цветовой схеме.
type ConfigurationError struct {
	Path string
	Key  string
	Msg  string
	Err  error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("color scheme")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, ": key %q", e.Key)
	}
	fmt.Fprintf(&b, ": %s", e.Msg)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ColorScheme maps highlight categories to hex colors and remembers the
// file it came from.
// ColorScheme сопоставляет категориям подсветки hex-цвета.
type ColorScheme struct {
	path   string
	colors map[string]string
}

// DefaultColorScheme returns the built-in palette bound to path.
func DefaultColorScheme(path string) *ColorScheme {
	colors := make(map[string]string, len(defaultPalette))
	for k, v := range defaultPalette {
		colors[k] = v
	}
	return &ColorScheme{path: path, colors: colors}
}

// LoadColorScheme reads a flat category → hex mapping from path. Files
// ending in .yaml or .yml are YAML, everything else is JSON.
// LoadColorScheme читает схему из JSON или YAML файла.
func LoadColorScheme(path string) (*ColorScheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		msg := "cannot read file"
		if errors.Is(err, os.ErrNotExist) {
			msg = "file not found"
		}
		return nil, &ConfigurationError{Path: path, Msg: msg, Err: err}
	}

	raw := map[string]interface{}{}
	if isYAMLPath(path) {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, &ConfigurationError{Path: path, Msg: "cannot parse", Err: err}
	}

	colors := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, &ConfigurationError{Path: path, Key: k, Msg: fmt.Sprintf("value must be a string, got %T", v)}
		}
		colors[k] = s
	}

	cs := &ColorScheme{path: path, colors: colors}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return cs, nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Validate checks that every required category holds a hex color.
func (cs *ColorScheme) Validate() error {
	for _, cat := range requiredCategories {
		v, ok := cs.colors[cat]
		if !ok {
			return &ConfigurationError{Path: cs.path, Key: cat, Msg: "missing category"}
		}
		if _, err := parseHex(v); err != nil {
			return &ConfigurationError{Path: cs.path, Key: cat, Msg: fmt.Sprintf("invalid hex color %q", v), Err: err}
		}
	}
	return nil
}

// Path returns the file the scheme is saved to.
func (cs *ColorScheme) Path() string { return cs.path }

// Color returns the hex color of category.
func (cs *ColorScheme) Color(category string) (string, error) {
	v, ok := cs.colors[category]
	if !ok {
		return "", &ConfigurationError{Path: cs.path, Key: category, Msg: "missing category"}
	}
	return v, nil
}

// Set changes the color of a known category. hex is normalised to
// lowercase #rrggbb.
// Set меняет цвет категории.
func (cs *ColorScheme) Set(category, hex string) error {
	if !isCategory(category) {
		return &ConfigurationError{Path: cs.path, Key: category, Msg: "unknown category"}
	}
	c, err := parseHex(strings.TrimSpace(hex))
	if err != nil {
		return &ConfigurationError{Path: cs.path, Key: category, Msg: fmt.Sprintf("invalid hex color %q", hex), Err: err}
	}
	cs.colors[category] = c.Hex()
	return nil
}

// parseHex accepts "#rgb" and "#rrggbb".
func parseHex(s string) (colorful.Color, error) {
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, fmt.Errorf("want #rgb or #rrggbb, got %q", s)
	}
	return colorful.Hex(s)
}

func isCategory(name string) bool {
	for _, c := range requiredCategories {
		if c == name {
			return true
		}
	}
	return false
}

// Categories lists the highlight categories in their fixed order.
func (cs *ColorScheme) Categories() []string {
	return append([]string(nil), requiredCategories...)
}

// Map returns a copy of the whole mapping, extra keys included.
func (cs *ColorScheme) Map() map[string]string {
	m := make(map[string]string, len(cs.colors))
	for k, v := range cs.colors {
		m[k] = v
	}
	return m
}

// Save overwrites the scheme's file with the current mapping.
// Save перезаписывает файл схемы.
func (cs *ColorScheme) Save() error {
	return cs.SaveAs(cs.path)
}

// SaveAs writes the mapping to path and makes path the scheme's file.
func (cs *ColorScheme) SaveAs(path string) error {
	if path == "" {
		return &ConfigurationError{Msg: "no file name"}
	}
	var (
		data []byte
		err  error
	)
	if isYAMLPath(path) {
		data, err = yaml.Marshal(cs.colors)
	} else {
		data, err = json.MarshalIndent(cs.colors, "", "    ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode color scheme: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write color scheme %s: %w", path, err)
	}
	cs.path = path
	return nil
}

// sortedKeys returns the mapping's keys in lexical order.
func (cs *ColorScheme) sortedKeys() []string {
	keys := make([]string, 0, len(cs.colors))
	for k := range cs.colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the scheme as "category=#hex" pairs.
func (cs *ColorScheme) String() string {
	parts := make([]string, 0, len(cs.colors))
	for _, k := range cs.sortedKeys() {
		parts = append(parts, k+"="+cs.colors[k])
	}
	return strings.Join(parts, " ")
}
