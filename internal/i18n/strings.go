package i18n

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale is used when no locale is configured
const DefaultLocale = "tr"

// Strings is a table of user-facing text keyed by message ID
type Strings struct {
	locale   string
	messages map[string]string
	fallback map[string]string
}

// Locales returns the built-in locale names
func Locales() []string {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return []string{DefaultLocale}
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		out = append(out, name[:len(name)-len(".yaml")])
	}
	sort.Strings(out)
	return out
}

// Load returns the built-in table for a locale. Unknown locales fall back to Turkish.
func Load(locale string) (*Strings, error) {
	fallback, err := readBuiltin(DefaultLocale)
	if err != nil {
		return nil, err
	}
	if locale == "" {
		locale = DefaultLocale
	}

	messages, err := readBuiltin(locale)
	if err != nil {
		return &Strings{locale: DefaultLocale, messages: fallback, fallback: fallback}, nil
	}
	return &Strings{locale: locale, messages: messages, fallback: fallback}, nil
}

// MustLoad is Load for the built-in tables, which always parse
func MustLoad(locale string) *Strings {
	s, err := Load(locale)
	if err != nil {
		panic(err)
	}
	return s
}

func readBuiltin(locale string) (map[string]string, error) {
	data, err := localeFS.ReadFile("locales/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q: %w", locale, err)
	}
	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse locale %q: %w", locale, err)
	}
	return messages, nil
}

// LoadOverrides merges a YAML file of message overrides into the table
func (s *Strings) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read string overrides: %w", err)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse string overrides: %w", err)
	}

	merged := make(map[string]string, len(s.messages)+len(overrides))
	for k, v := range s.messages {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	s.messages = merged
	return nil
}

// Locale returns the active locale
func (s *Strings) Locale() string {
	return s.locale
}

// T returns the message for id. Missing messages fall back to Turkish, then to the id.
func (s *Strings) T(id string) string {
	if s == nil {
		return id
	}
	if msg, ok := s.messages[id]; ok {
		return msg
	}
	if msg, ok := s.fallback[id]; ok {
		return msg
	}
	return id
}

// F formats the message for id with args
func (s *Strings) F(id string, args ...any) string {
	return fmt.Sprintf(s.T(id), args...)
}
