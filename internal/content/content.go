// Package content is the read-only catalogue of services and industries
// shown on the listing and detail pages.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// ServiceSlug identifies a service detail page.
type ServiceSlug string

const (
	EquipmentMonitoring   ServiceSlug = "equipment-monitoring"
	PredictiveAnalytics   ServiceSlug = "predictive-analytics"
	ERPIntegration        ServiceSlug = "erp-integration"
	MaintenanceScheduling ServiceSlug = "maintenance-scheduling"
)

// ServiceSlugs lists every service in display order.
func ServiceSlugs() []ServiceSlug {
	return []ServiceSlug{EquipmentMonitoring, PredictiveAnalytics, ERPIntegration, MaintenanceScheduling}
}

// IndustrySlug identifies an industry detail page.
type IndustrySlug string

const (
	Manufacturing  IndustrySlug = "manufacturing"
	OilGas         IndustrySlug = "oil-gas"
	PowerUtilities IndustrySlug = "power-utilities"
	Mining         IndustrySlug = "mining"
	Pharmaceutical IndustrySlug = "pharmaceutical"
	FoodBeverage   IndustrySlug = "food-beverage"
	Automotive     IndustrySlug = "automotive"
	FMCG           IndustrySlug = "fmcg"
)

// IndustrySlugs lists every industry in display order.
func IndustrySlugs() []IndustrySlug {
	return []IndustrySlug{Manufacturing, OilGas, PowerUtilities, Mining, Pharmaceutical, FoodBeverage, Automotive, FMCG}
}

// Service is one entry of the service catalogue.
type Service struct {
	Slug        ServiceSlug `yaml:"slug"`
	Icon        string      `yaml:"icon"`
	Title       string      `yaml:"title"`
	Subtitle    string      `yaml:"subtitle"`
	Description string      `yaml:"description"`
	Image       string      `yaml:"image"`

	Summary           string   `yaml:"summary"`
	HighlightsHeading string   `yaml:"highlights_heading"`
	Highlights        []string `yaml:"highlights"`

	Features  []string `yaml:"features"`
	Benefits  []string `yaml:"benefits"`
	TechSpecs []string `yaml:"tech_specs"`
}

// Path is the detail page URL.
func (s Service) Path() string { return "/services/" + string(s.Slug) }

// Metric is one headline figure of a case study.
type Metric struct {
	Label       string `yaml:"label"`
	Value       string `yaml:"value"`
	Improvement string `yaml:"improvement"`
}

// CaseStudy summarises a customer outcome for an industry.
type CaseStudy struct {
	Title   string   `yaml:"title"`
	Metrics []Metric `yaml:"metrics"`
}

// Industry is one entry of the industry catalogue.
type Industry struct {
	Slug        IndustrySlug `yaml:"slug"`
	Icon        string       `yaml:"icon"`
	Name        string       `yaml:"name"`
	Title       string       `yaml:"title"`
	Subtitle    string       `yaml:"subtitle"`
	Description string       `yaml:"description"`
	Image       string       `yaml:"image"`

	Summary    string   `yaml:"summary"`
	Highlights []string `yaml:"highlights"`

	Challenges []string  `yaml:"challenges"`
	Solutions  []string  `yaml:"solutions"`
	CaseStudy  CaseStudy `yaml:"case_study"`
}

// Path is the detail page URL.
func (i Industry) Path() string { return "/industries/" + string(i.Slug) }

// ErrInvalidData reports a catalogue that does not match the slug enums.
var ErrInvalidData = errors.New("content: invalid catalogue data")

// Registry answers slug lookups. It is immutable after Load.
type Registry struct {
	services   map[ServiceSlug]Service
	industries map[IndustrySlug]Industry
}

// Service returns the record for slug. Lookup is exact and case-sensitive.
func (r *Registry) Service(slug string) (Service, bool) {
	if r == nil {
		return Service{}, false
	}
	s, ok := r.services[ServiceSlug(slug)]
	return s, ok
}

// Industry returns the record for slug. Lookup is exact and case-sensitive.
func (r *Registry) Industry(slug string) (Industry, bool) {
	if r == nil {
		return Industry{}, false
	}
	i, ok := r.industries[IndustrySlug(slug)]
	return i, ok
}

// Services returns all services in display order.
func (r *Registry) Services() []Service {
	out := make([]Service, 0, len(r.services))
	for _, slug := range ServiceSlugs() {
		out = append(out, r.services[slug])
	}
	return out
}

// Industries returns all industries in display order.
func (r *Registry) Industries() []Industry {
	out := make([]Industry, 0, len(r.industries))
	for _, slug := range IndustrySlugs() {
		out = append(out, r.industries[slug])
	}
	return out
}

// Load parses the embedded catalogue.
func Load() (*Registry, error) {
	svc, err := dataFS.ReadFile("data/services.yaml")
	if err != nil {
		return nil, fmt.Errorf("content: read services: %w", err)
	}
	ind, err := dataFS.ReadFile("data/industries.yaml")
	if err != nil {
		return nil, fmt.Errorf("content: read industries: %w", err)
	}
	return Parse(svc, ind)
}

// Parse builds a registry from raw YAML documents and checks that every
// known slug has exactly one record and no record names an unknown slug.
func Parse(servicesYAML, industriesYAML []byte) (*Registry, error) {
	var sdoc struct {
		Services []Service `yaml:"services"`
	}
	if err := decodeStrict(servicesYAML, &sdoc); err != nil {
		return nil, fmt.Errorf("content: decode services: %w", err)
	}
	var idoc struct {
		Industries []Industry `yaml:"industries"`
	}
	if err := decodeStrict(industriesYAML, &idoc); err != nil {
		return nil, fmt.Errorf("content: decode industries: %w", err)
	}

	r := &Registry{
		services:   make(map[ServiceSlug]Service, len(sdoc.Services)),
		industries: make(map[IndustrySlug]Industry, len(idoc.Industries)),
	}
	known := map[ServiceSlug]bool{}
	for _, s := range ServiceSlugs() {
		known[s] = true
	}
	for _, s := range sdoc.Services {
		if !known[s.Slug] {
			return nil, fmt.Errorf("%w: unknown service %q", ErrInvalidData, s.Slug)
		}
		if _, dup := r.services[s.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate service %q", ErrInvalidData, s.Slug)
		}
		r.services[s.Slug] = s
	}
	for _, s := range ServiceSlugs() {
		if _, ok := r.services[s]; !ok {
			return nil, fmt.Errorf("%w: missing service %q", ErrInvalidData, s)
		}
	}

	knownInd := map[IndustrySlug]bool{}
	for _, s := range IndustrySlugs() {
		knownInd[s] = true
	}
	for _, i := range idoc.Industries {
		if !knownInd[i.Slug] {
			return nil, fmt.Errorf("%w: unknown industry %q", ErrInvalidData, i.Slug)
		}
		if _, dup := r.industries[i.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate industry %q", ErrInvalidData, i.Slug)
		}
		r.industries[i.Slug] = i
	}
	for _, s := range IndustrySlugs() {
		if _, ok := r.industries[s]; !ok {
			return nil, fmt.Errorf("%w: missing industry %q", ErrInvalidData, s)
		}
	}
	return r, nil
}

func decodeStrict(b []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	return dec.Decode(v)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry. It panics if the embedded data is invalid.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Load()
		if err != nil {
			panic(err)
		}
		defaultReg = r
	})
	return defaultReg
}
