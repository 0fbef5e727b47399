// Package content holds the portfolio copy and section layout rendered by
// the server.
package content

import (
	"errors"
	"fmt"
	"html/template"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/folio/internal/scrollstate"
)

// Owner is the person the portfolio belongs to.
type Owner struct {
	Name     string `yaml:"name"`
	Initials string `yaml:"initials"`
	Title    string `yaml:"title"`
	Tagline  string `yaml:"tagline"`
	Resume   string `yaml:"resume"`
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
}

// NavItem links the nav bar to a section id.
type NavItem struct {
	Name    string `yaml:"name"`
	Section string `yaml:"section"`
}

type Skill struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type SkillArea struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"` // markdown
	Tags        []string `yaml:"tags"`
	Demo        string   `yaml:"demo"`
	GitHub      string   `yaml:"github"`
	Image       string   `yaml:"image"`

	HTML template.HTML `yaml:"-"`
}

type Job struct {
	Title    string   `yaml:"title"`
	Company  string   `yaml:"company"`
	Period   string   `yaml:"period"`
	Location string   `yaml:"location"`
	Logo     string   `yaml:"logo"`
	Bullets  []string `yaml:"bullets"`
}

type ContactInfo struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Href  string `yaml:"href"`
}

// Site is everything the page template needs.
type Site struct {
	Owner      Owner                 `yaml:"owner"`
	Nav        []NavItem             `yaml:"nav"`
	About      string                `yaml:"about"` // markdown
	Skills     []Skill               `yaml:"skills"`
	SkillAreas []SkillArea           `yaml:"skill_areas"`
	Projects   []Project             `yaml:"projects"`
	Experience []Job                 `yaml:"experience"`
	Contact    []ContactInfo         `yaml:"contact"`
	Layout     []scrollstate.Section `yaml:"layout"`
	Footer     string                `yaml:"footer"`

	AboutHTML template.HTML `yaml:"-"`
}

// ErrNoSections is returned for a site without any layout sections.
var ErrNoSections = errors.New("content: layout has no sections")

// Load reads a site file. An empty path yields the built-in site.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML site content, validates it and renders the markdown
// fields.
func Parse(raw []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode site: %w", err)
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Site) prepare() error {
	if err := s.Validate(); err != nil {
		return err
	}
	about, err := Render(s.About)
	if err != nil {
		return fmt.Errorf("render about: %w", err)
	}
	s.AboutHTML = about
	for i := range s.Projects {
		html, err := Render(s.Projects[i].Description)
		if err != nil {
			return fmt.Errorf("render project %q: %w", s.Projects[i].Title, err)
		}
		s.Projects[i].HTML = html
	}
	return nil
}

// Validate checks the layout the scroll coordinator is seeded from.
func (s *Site) Validate() error {
	if len(s.Layout) == 0 {
		return ErrNoSections
	}
	seen := make(map[string]bool, len(s.Layout))
	for _, sec := range s.Layout {
		if sec.ID == "" {
			return fmt.Errorf("content: layout section without id")
		}
		if seen[sec.ID] {
			return fmt.Errorf("content: duplicate layout section %q", sec.ID)
		}
		if sec.OffsetTop < 0 {
			return fmt.Errorf("content: section %q has negative offset %v", sec.ID, sec.OffsetTop)
		}
		seen[sec.ID] = true
	}
	for _, item := range s.Nav {
		if !seen[item.Section] {
			return fmt.Errorf("content: nav item %q points at unknown section %q", item.Name, item.Section)
		}
	}
	return nil
}

// LayoutProvider reports the site's default section offsets. Page views
// overwrite them with measured offsets once the browser reports its layout.
func (s *Site) LayoutProvider() scrollstate.LayoutProvider {
	sections := append([]scrollstate.Section(nil), s.Layout...)
	return scrollstate.LayoutFunc(func() []scrollstate.Section { return sections })
}

// SectionIDs lists the layout section ids in file order.
func (s *Site) SectionIDs() []string {
	out := make([]string, len(s.Layout))
	for i, sec := range s.Layout {
		out[i] = sec.ID
	}
	return out
}
