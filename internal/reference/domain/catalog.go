package domain

import (
	"fmt"
	"sort"
	"strings"
)

// CatalogSpec is the mutable, decodable form of a Catalog. It is what pricing.yml
// unmarshals into; NewCatalog turns it into the immutable value the engine reads.
type CatalogSpec struct {
	Materials      []MaterialOption  `mapstructure:"materials"`
	Regions        []RegionalPricing `mapstructure:"regions"`
	Rates          Rates             `mapstructure:"rates"`
	AreaPitch      MultiplierTable   `mapstructure:"area_pitch"`
	LaborPitch     MultiplierTable   `mapstructure:"labor_pitch"`
	Stories        map[int]float64   `mapstructure:"stories"`
	StoriesDefault float64           `mapstructure:"stories_default"`
}

// Catalog is an immutable snapshot of all pricing reference data. A *Catalog is
// safe to share across goroutines; every accessor returns copies.
type Catalog struct {
	materials      map[Grade]MaterialOption
	regions        map[string]RegionalPricing
	rates          Rates
	areaPitch      MultiplierTable
	laborPitch     MultiplierTable
	stories        map[int]float64
	storiesDefault float64
}

// CatalogSource hands out the catalog in effect for a single generation run.
type CatalogSource interface {
	Current() *Catalog
}

// NewCatalog validates spec and builds a Catalog. Exactly one material per grade
// and a DEFAULT region are required.
func NewCatalog(spec CatalogSpec) (*Catalog, error) {
	materials := make(map[Grade]MaterialOption, len(Grades))
	for _, m := range spec.Materials {
		grade, ok := ParseGrade(string(m.Grade))
		if !ok || strings.TrimSpace(m.ID) == "" || m.PricePerSquare <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMaterial, m.ID)
		}
		if _, exists := materials[grade]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMaterial, grade)
		}
		m.Grade = grade
		m.Features = append([]string(nil), m.Features...)
		materials[grade] = m
	}
	for _, g := range Grades {
		if _, ok := materials[g]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingMaterial, g)
		}
	}

	regions := make(map[string]RegionalPricing, len(spec.Regions))
	for _, r := range spec.Regions {
		code := normalizeState(r.State)
		if code == "" || r.LaborRateMultiplier <= 0 || r.PermitFeeBase < 0 || r.TaxRate < 0 || r.TaxRate >= 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRegion, r.State)
		}
		r.State = code
		regions[code] = r
	}
	if _, ok := regions[DefaultRegionCode]; !ok {
		return nil, ErrMissingDefaultRegion
	}

	if err := spec.Rates.Validate(); err != nil {
		return nil, err
	}
	if err := spec.AreaPitch.validate(); err != nil {
		return nil, fmt.Errorf("area_pitch: %w", err)
	}
	if err := spec.LaborPitch.validate(); err != nil {
		return nil, fmt.Errorf("labor_pitch: %w", err)
	}

	storiesDefault := spec.StoriesDefault
	if storiesDefault <= 0 {
		return nil, fmt.Errorf("stories: %w", ErrInvalidMultiplier)
	}
	stories := make(map[int]float64, len(spec.Stories))
	for k, v := range spec.Stories {
		if v <= 0 {
			return nil, fmt.Errorf("stories: %w", ErrInvalidMultiplier)
		}
		stories[k] = v
	}

	return &Catalog{
		materials:      materials,
		regions:        regions,
		rates:          spec.Rates,
		areaPitch:      spec.AreaPitch.clone(),
		laborPitch:     spec.LaborPitch.clone(),
		stories:        stories,
		storiesDefault: storiesDefault,
	}, nil
}

// Material returns the catalog entry for grade.
func (c *Catalog) Material(grade Grade) (MaterialOption, bool) {
	m, ok := c.materials[grade]
	if !ok {
		return MaterialOption{}, false
	}
	m.Features = append([]string(nil), m.Features...)
	return m, true
}

// Materials returns one option per grade in ladder order.
func (c *Catalog) Materials() []MaterialOption {
	out := make([]MaterialOption, 0, len(Grades))
	for _, g := range Grades {
		m, _ := c.Material(g)
		out = append(out, m)
	}
	return out
}

// Region resolves a state code. Unknown or blank codes resolve to the DEFAULT profile.
func (c *Catalog) Region(state string) RegionalPricing {
	if r, ok := c.regions[normalizeState(state)]; ok {
		return r
	}
	return c.regions[DefaultRegionCode]
}

// States lists the configured state codes, excluding DEFAULT.
func (c *Catalog) States() []string {
	out := make([]string, 0, len(c.regions))
	for code := range c.regions {
		if code == DefaultRegionCode {
			continue
		}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Rates() Rates { return c.rates }

// AreaPitchFactor converts a footprint into sloped roof area.
func (c *Catalog) AreaPitchFactor(pitch string) float64 { return c.areaPitch.Lookup(pitch) }

// LaborPitchMultiplier scales installation labor by roof steepness.
func (c *Catalog) LaborPitchMultiplier(pitch string) float64 { return c.laborPitch.Lookup(pitch) }

// StoriesMultiplier scales installation labor by building height.
func (c *Catalog) StoriesMultiplier(stories int) float64 {
	if v, ok := c.stories[stories]; ok {
		return v
	}
	return c.storiesDefault
}

func normalizeState(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}
