package views

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content/faq.yaml
var faqYAML []byte

// FAQEntry is one question/answer pair.
type FAQEntry struct {
	Category string `yaml:"-" json:"category"`
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// FAQCategory groups entries under a heading.
type FAQCategory struct {
	Name    string     `yaml:"name" json:"name"`
	Entries []FAQEntry `yaml:"entries" json:"entries"`
}

// FAQ is the loaded FAQ content.
type FAQ struct {
	Categories []FAQCategory `yaml:"categories" json:"categories"`
}

// LoadFAQ parses the embedded FAQ content.
func LoadFAQ() (*FAQ, error) {
	return ParseFAQ(faqYAML)
}

// ParseFAQ parses FAQ YAML.
func ParseFAQ(data []byte) (*FAQ, error) {
	var f FAQ
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse faq: %w", err)
	}
	for i := range f.Categories {
		for j := range f.Categories[i].Entries {
			f.Categories[i].Entries[j].Category = f.Categories[i].Name
		}
	}
	return &f, nil
}

// Search returns every entry, across all categories, whose question or answer
// contains q case-insensitively. A blank query returns all entries.
func (f *FAQ) Search(q string) []FAQEntry {
	needle := strings.ToLower(strings.TrimSpace(q))
	out := []FAQEntry{}
	for _, c := range f.Categories {
		for _, e := range c.Entries {
			if needle == "" ||
				strings.Contains(strings.ToLower(e.Question), needle) ||
				strings.Contains(strings.ToLower(e.Answer), needle) {
				out = append(out, e)
			}
		}
	}
	return out
}

// Grouped regroups entries by category, preserving order.
func Grouped(entries []FAQEntry) []FAQCategory {
	var out []FAQCategory
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, FAQCategory{Name: e.Category})
		}
		out[i].Entries = append(out[i].Entries, e)
	}
	return out
}
