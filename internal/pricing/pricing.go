package pricing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Range is the advertised price band for a seating section, in whole dollars.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Table maps lower-cased section names to price bands. It is read-only after
// construction and safe to share.
type Table struct {
	sections map[string]Range
	fallback string
}

// Quote is the price of one inquiry.
type Quote struct {
	Section        string
	PricePerTicket int
	Total          int
	Fallback       bool
}

func DefaultTable() *Table {
	t, _ := NewTable("balcony", map[string]Range{
		"orchestra": {Min: 85, Max: 120},
		"mezzanine": {Min: 65, Max: 95},
		"balcony":   {Min: 45, Max: 75},
	})
	return t
}

func NewTable(fallback string, sections map[string]Range) (*Table, error) {
	t := &Table{
		sections: make(map[string]Range, len(sections)),
		fallback: strings.ToLower(strings.TrimSpace(fallback)),
	}
	for name, r := range sections {
		if r.Min < 0 || r.Max < r.Min {
			return nil, fmt.Errorf("pricing: section %q has invalid range %d-%d", name, r.Min, r.Max)
		}
		t.sections[strings.ToLower(strings.TrimSpace(name))] = r
	}
	if _, ok := t.sections[t.fallback]; !ok {
		return nil, fmt.Errorf("pricing: fallback section %q is not in the table", fallback)
	}
	return t, nil
}

type tableFile struct {
	Fallback string           `yaml:"fallback"`
	Sections map[string]Range `yaml:"sections"`
}

// LoadTable reads a YAML pricing file:
//
//	fallback: balcony
//	sections:
//	  orchestra: {min: 85, max: 120}
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pricing: read %s: %w", path, err)
	}

	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pricing: parse %s: %w", path, err)
	}
	return NewTable(f.Fallback, f.Sections)
}

// Lookup returns the band for a section, case-insensitively.
func (t *Table) Lookup(section string) (Range, bool) {
	r, ok := t.sections[strings.ToLower(strings.TrimSpace(section))]
	return r, ok
}

// Price quotes the top of the section's band; unknown sections are charged
// at the top of the fallback band. tickets is expected to be validated already.
func (t *Table) Price(section string, tickets int) Quote {
	r, ok := t.Lookup(section)
	if !ok {
		r = t.sections[t.fallback]
	}
	return Quote{
		Section:        section,
		PricePerTicket: r.Max,
		Total:          r.Max * tickets,
		Fallback:       !ok,
	}
}
