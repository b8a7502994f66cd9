package codes

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

type CodeSpace string

const (
	SpaceNumeric  CodeSpace = "numeric"
	SpaceShort    CodeSpace = "short"
	SpaceLong     CodeSpace = "long"
	SpaceDelivery CodeSpace = "delivery"
)

// Location is everything the upstream calls need about an address.
type Location struct {
	Province    Coded  `json:"province"`
	District    Coded  `json:"district"`
	Subdivision Coded  `json:"subdivision"`
	Label       string `json:"label"`
}

type Industry struct {
	Label string `json:"label"`
	IndustryCodes
}

type industryPattern struct {
	pattern string
	entry   IndustryEntry
}

// Resolver answers code lookups from immutable tables. It is safe for
// concurrent use.
type Resolver struct {
	provinces []Entry
	scoped    []Entry
	districts []Entry
	dongs     []Entry

	defaultProvince    Coded
	defaultDistrict    Coded
	defaultSubdivision Coded
	districtDongs      map[string]Coded

	industries       []industryPattern
	menu             []IndustryEntry
	industryDefaults IndustryCodes

	places       []Place
	defaultPlace Place
}

var dongToken = regexp.MustCompile(`(?:^|\s)([가-힣0-9]+동)(?:\s|$)`)

func NewResolver(t Tables) (*Resolver, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	r := &Resolver{
		provinces:          byLength(t.Provinces),
		dongs:              byLength(t.Subdivisions),
		defaultProvince:    t.DefaultProvince,
		defaultDistrict:    t.DefaultDistrict,
		defaultSubdivision: t.DefaultSubdivision,
		districtDongs:      map[string]Coded{},
		industryDefaults:   t.IndustryDefaults,
		defaultPlace:       t.DefaultCoordinates,
		menu:               append([]IndustryEntry(nil), t.Industries...),
	}
	var scoped, plain []Entry
	for _, e := range t.Districts {
		if e.Within != "" {
			scoped = append(scoped, e)
		} else {
			plain = append(plain, e)
		}
	}
	r.scoped = byLength(scoped)
	r.districts = byLength(plain)
	for k, v := range t.DistrictSubdivisions {
		r.districtDongs[k] = v
	}

	for _, ind := range t.Industries {
		r.industries = append(r.industries, industryPattern{pattern: ind.Label, entry: ind})
		for _, p := range ind.Patterns {
			if p != ind.Label {
				r.industries = append(r.industries, industryPattern{pattern: p, entry: ind})
			}
		}
	}
	sort.SliceStable(r.industries, func(i, j int) bool {
		return utf8.RuneCountInString(r.industries[i].pattern) > utf8.RuneCountInString(r.industries[j].pattern)
	})

	r.places = append([]Place(nil), t.Coordinates...)
	sort.SliceStable(r.places, func(i, j int) bool {
		return utf8.RuneCountInString(r.places[i].Pattern) > utf8.RuneCountInString(r.places[j].Pattern)
	})
	return r, nil
}

func byLength(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].Pattern) > utf8.RuneCountInString(out[j].Pattern)
	})
	return out
}

func firstMatch(entries []Entry, text string) (Entry, bool) {
	for _, e := range entries {
		if e.Within != "" && !strings.Contains(text, e.Within) {
			continue
		}
		if strings.Contains(text, e.Pattern) {
			return e, true
		}
	}
	return Entry{}, false
}

func (r *Resolver) Province(text string) Coded {
	if e, ok := firstMatch(r.provinces, text); ok {
		return Coded{Code: e.Code, Name: e.Name}
	}
	return r.defaultProvince
}

func (r *Resolver) District(text string) Coded {
	d, _ := r.matchDistrict(text)
	return d
}

func (r *Resolver) matchDistrict(text string) (Coded, bool) {
	if e, ok := firstMatch(r.scoped, text); ok {
		return Coded{Code: e.Code, Name: e.Name}, true
	}
	if e, ok := firstMatch(r.districts, text); ok {
		return Coded{Code: e.Code, Name: e.Name}, true
	}
	return r.defaultDistrict, false
}

func (r *Resolver) Subdivision(text string) Coded {
	if e, ok := firstMatch(r.dongs, text); ok {
		return Coded{Code: e.Code, Name: e.Name}
	}
	if d, ok := r.districtDongs[r.District(text).Code]; ok {
		return d
	}
	return r.defaultSubdivision
}

func (r *Resolver) ResolveProvinceCode(text string) string    { return r.Province(text).Code }
func (r *Resolver) ResolveDistrictCode(text string) string    { return r.District(text).Code }
func (r *Resolver) ResolveSubdivisionCode(text string) string { return r.Subdivision(text).Code }

// ResolveLocation resolves every location code and builds the
// "province district dong" label the simple analysis endpoint expects.
// When no district matches, the label names the default district's
// province so it agrees with the default dong code.
func (r *Resolver) ResolveLocation(text string) Location {
	district, matched := r.matchDistrict(text)
	loc := Location{
		Province:    r.Province(text),
		District:    district,
		Subdivision: r.Subdivision(text),
	}
	province := loc.Province.Name
	if !matched {
		province = r.defaultProvince.Name
	}
	dong := loc.Subdivision.Name
	if m := dongToken.FindStringSubmatch(text); m != nil {
		dong = m[1]
	}
	loc.Label = strings.Join([]string{province, loc.District.Name, dong}, " ")
	return loc
}

func (r *Resolver) ResolveIndustry(text string) Industry {
	for _, p := range r.industries {
		if strings.Contains(text, p.pattern) {
			return Industry{Label: p.entry.Label, IndustryCodes: p.entry.IndustryCodes}
		}
	}
	return Industry{IndustryCodes: r.industryDefaults}
}

func (r *Resolver) ResolveIndustryCode(text string, space CodeSpace) string {
	return r.ResolveIndustry(text).Code(space)
}

// Code returns the code of one space, or "" for an unknown space.
func (c IndustryCodes) Code(space CodeSpace) string {
	switch space {
	case SpaceNumeric:
		return c.Numeric
	case SpaceShort:
		return c.Short
	case SpaceLong:
		return c.Long
	case SpaceDelivery:
		return c.Delivery
	default:
		return ""
	}
}

// Menu lists the fixed industry labels in table order.
func (r *Resolver) Menu() []IndustryEntry {
	return append([]IndustryEntry(nil), r.menu...)
}

func (r *Resolver) Coordinates(text string) (float64, float64) {
	for _, p := range r.places {
		if strings.Contains(text, p.Pattern) {
			return p.Lat, p.Lng
		}
	}
	return r.defaultPlace.Lat, r.defaultPlace.Lng
}
