// Package content holds the static portfolio: the hero and about text,
// skills, projects, education, experience and certifications.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Skill is one progress bar in the skills section.
type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Level    int    `yaml:"level" json:"level"` // 0-100
	Category string `yaml:"category" json:"category"`
}

// Project is one card in the projects carousel.
type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Duration     string   `yaml:"duration" json:"duration"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Type         string   `yaml:"type" json:"type"`
	GithubLink   string   `yaml:"github_link,omitempty" json:"github_link,omitempty"`
}

// Education is one entry of the education timeline. Exactly one of CGPA or
// Percentage is usually set.
type Education struct {
	Degree      string `yaml:"degree" json:"degree"`
	Institution string `yaml:"institution" json:"institution"`
	Duration    string `yaml:"duration" json:"duration"`
	CGPA        string `yaml:"cgpa,omitempty" json:"cgpa,omitempty"`
	Percentage  string `yaml:"percentage,omitempty" json:"percentage,omitempty"`
}

// Experience is one entry of the experience timeline.
type Experience struct {
	Role        string `yaml:"role" json:"role"`
	Duration    string `yaml:"duration,omitempty" json:"duration,omitempty"`
	Description string `yaml:"description" json:"description"`
}

// Portfolio is everything rendered on the page.
type Portfolio struct {
	Name           string       `yaml:"name" json:"name"`
	Headline       []string     `yaml:"headline" json:"headline"`
	Intro          string       `yaml:"intro" json:"intro"`
	About          []string     `yaml:"about" json:"about"`
	Skills         []Skill      `yaml:"skills" json:"skills"`
	Projects       []Project    `yaml:"projects" json:"projects"`
	Education      []Education  `yaml:"education" json:"education"`
	Experience     []Experience `yaml:"experience" json:"experience"`
	Certifications []string     `yaml:"certifications" json:"certifications"`
	ContactBlurb   string       `yaml:"contact_blurb" json:"contact_blurb"`
	Phone          string       `yaml:"phone,omitempty" json:"phone,omitempty"`
}

// Load returns the built-in portfolio, overridden section by section by the
// YAML file at path. An empty path or missing file yields the defaults.
func Load(path string) (*Portfolio, error) {
	p := Default()
	if path == "" {
		return &p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &p, nil
		}
		return nil, fmt.Errorf("content: reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("content: parsing %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks skill levels are percentages.
func (p *Portfolio) Validate() error {
	for _, s := range p.Skills {
		if s.Level < 0 || s.Level > 100 {
			return fmt.Errorf("content: skill %q level %d out of range 0-100", s.Name, s.Level)
		}
	}
	return nil
}
