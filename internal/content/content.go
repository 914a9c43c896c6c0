// Package content serves the static informational pages of the storefront.
package content

import (
	_ "embed"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Slugs of the bundled pages.
const (
	PageAbout   = "about"
	PageFAQ     = "faq"
	PageReturns = "returns"
	PageContact = "contact"
)

//go:embed pages.yaml
var pagesYAML []byte

// Section is a titled block of prose.
type Section struct {
	Heading string `yaml:"heading" json:"heading"`
	Body    string `yaml:"body" json:"body"`
}

// List is a titled bullet list.
type List struct {
	Heading string   `yaml:"heading" json:"heading"`
	Items   []string `yaml:"items" json:"items"`
}

// Stat is a headline figure.
type Stat struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Question is one FAQ entry.
type Question struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Page is a static page. Unused blocks are omitted from JSON.
type Page struct {
	Slug      string     `yaml:"-" json:"slug"`
	Title     string     `yaml:"title" json:"title"`
	Intro     string     `yaml:"intro" json:"intro,omitempty"`
	Sections  []Section  `yaml:"sections" json:"sections,omitempty"`
	Lists     []List     `yaml:"lists" json:"lists,omitempty"`
	Stats     []Stat     `yaml:"stats" json:"stats,omitempty"`
	Questions []Question `yaml:"questions" json:"questions,omitempty"`
}

// Library holds pages by slug.
type Library struct {
	pages map[string]*Page
}

// Load parses the embedded pages.
func Load() (*Library, error) {
	return Parse(pagesYAML)
}

// Parse builds a Library from a YAML document keyed by slug.
func Parse(doc []byte) (*Library, error) {
	pages := make(map[string]*Page)
	if err := yaml.Unmarshal(doc, &pages); err != nil {
		return nil, errors.Wrap(err, "parse content pages")
	}
	for slug, p := range pages {
		if p == nil || p.Title == "" {
			return nil, errors.Errorf("content page %q has no title", slug)
		}
		p.Slug = slug
	}
	return &Library{pages: pages}, nil
}

// Page returns the page with slug.
func (l *Library) Page(slug string) (*Page, bool) {
	p, ok := l.pages[slug]
	return p, ok
}
