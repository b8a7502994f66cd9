package codes

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/tables.yaml
var tablesYAML []byte

// Entry maps a substring pattern to a provider code. Within, when set,
// restricts the entry to texts that also contain the Within pattern.
type Entry struct {
	Pattern string `yaml:"pattern"`
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Within  string `yaml:"within,omitempty"`
}

type Coded struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

type IndustryCodes struct {
	Numeric  string `yaml:"numeric" json:"numeric"`
	Short    string `yaml:"short" json:"short"`
	Long     string `yaml:"long" json:"long"`
	Delivery string `yaml:"delivery" json:"delivery"`
}

type IndustryEntry struct {
	Label         string   `yaml:"label" json:"label"`
	Patterns      []string `yaml:"patterns" json:"-"`
	IndustryCodes `yaml:",inline" json:"codes"`
}

type Place struct {
	Pattern string  `yaml:"pattern"`
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
}

type Tables struct {
	Provinces            []Entry          `yaml:"provinces"`
	DefaultProvince      Coded            `yaml:"default_province"`
	Districts            []Entry          `yaml:"districts"`
	DefaultDistrict      Coded            `yaml:"default_district"`
	Subdivisions         []Entry          `yaml:"subdivisions"`
	DistrictSubdivisions map[string]Coded `yaml:"district_subdivisions"`
	DefaultSubdivision   Coded            `yaml:"default_subdivision"`
	Industries           []IndustryEntry  `yaml:"industries"`
	IndustryDefaults     IndustryCodes    `yaml:"industry_defaults"`
	Coordinates          []Place          `yaml:"coordinates"`
	DefaultCoordinates   Place            `yaml:"default_coordinates"`
}

// Load parses the embedded tables.
func Load() (*Resolver, error) {
	return Parse(tablesYAML)
}

func Parse(b []byte) (*Resolver, error) {
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse code tables: %w", err)
	}
	return NewResolver(t)
}

func (t Tables) validate() error {
	if t.DefaultProvince.Code == "" || t.DefaultDistrict.Code == "" || t.DefaultSubdivision.Code == "" {
		return fmt.Errorf("code tables: location defaults are required")
	}
	d := t.IndustryDefaults
	if d.Numeric == "" || d.Short == "" || d.Long == "" || d.Delivery == "" {
		return fmt.Errorf("code tables: every industry code space needs a default")
	}
	for _, group := range [][]Entry{t.Provinces, t.Districts, t.Subdivisions} {
		for _, e := range group {
			if e.Pattern == "" || e.Code == "" {
				return fmt.Errorf("code tables: entry %+v has an empty pattern or code", e)
			}
		}
	}
	for _, ind := range t.Industries {
		if ind.Label == "" {
			return fmt.Errorf("code tables: industry without label")
		}
		if ind.Numeric == "" || ind.Short == "" || ind.Long == "" || ind.Delivery == "" {
			return fmt.Errorf("code tables: industry %s is missing a code", ind.Label)
		}
	}
	return nil
}
