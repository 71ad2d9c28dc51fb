// Package domain holds the read-only reference data the pricing engine is built on:
// material grades, regional labor/permit/tax profiles and the multiplier tables.
package domain

import (
	"errors"
	"strings"
)

// Grade is a material tier. The ladder order is economy < standard < premium < luxury.
type Grade string

const (
	GradeEconomy  Grade = "economy"
	GradeStandard Grade = "standard"
	GradePremium  Grade = "premium"
	GradeLuxury   Grade = "luxury"
)

// Grades lists every grade in ladder order.
var Grades = []Grade{GradeEconomy, GradeStandard, GradePremium, GradeLuxury}

// DefaultRegionCode identifies the profile used for unrecognized states.
const DefaultRegionCode = "DEFAULT"

var (
	ErrMissingMaterial      = errors.New("missing_material")
	ErrDuplicateMaterial    = errors.New("duplicate_material")
	ErrInvalidMaterial      = errors.New("invalid_material")
	ErrInvalidRegion        = errors.New("invalid_region")
	ErrMissingDefaultRegion = errors.New("missing_default_region")
	ErrInvalidRates         = errors.New("invalid_rates")
	ErrInvalidMultiplier    = errors.New("invalid_multiplier")
)

// ParseGrade normalizes a grade string. The second return is false for unknown grades.
func ParseGrade(value string) (Grade, bool) {
	g := Grade(strings.ToLower(strings.TrimSpace(value)))
	return g, g.Valid()
}

func (g Grade) Valid() bool {
	switch g {
	case GradeEconomy, GradeStandard, GradePremium, GradeLuxury:
		return true
	default:
		return false
	}
}

// MaterialOption is one roofing product offered at a grade.
type MaterialOption struct {
	ID             string   `json:"id" mapstructure:"id"`
	Grade          Grade    `json:"grade" mapstructure:"grade"`
	Brand          string   `json:"brand" mapstructure:"brand"`
	PricePerSquare float64  `json:"price_per_square" mapstructure:"price_per_square"`
	WarrantyYears  int      `json:"warranty_years" mapstructure:"warranty_years"`
	Features       []string `json:"features" mapstructure:"features"`
}

// RegionalPricing captures the per-state cost profile.
type RegionalPricing struct {
	State               string  `json:"state" mapstructure:"state"`
	LaborRateMultiplier float64 `json:"labor_rate_multiplier" mapstructure:"labor_rate_multiplier"`
	PermitFeeBase       float64 `json:"permit_fee_base" mapstructure:"permit_fee_base"`
	TaxRate             float64 `json:"tax_rate" mapstructure:"tax_rate"`
}

// Rates are the per-square and proportional constants used by the calculator
// and the line item expansion.
type Rates struct {
	BaseLaborPerSquare    float64 `json:"base_labor_per_square" mapstructure:"base_labor_per_square"`
	TearOffPerSquare      float64 `json:"tear_off_per_square" mapstructure:"tear_off_per_square"`
	DisposalPerSquare     float64 `json:"disposal_per_square" mapstructure:"disposal_per_square"`
	PermitPerSquare       float64 `json:"permit_per_square" mapstructure:"permit_per_square"`
	MiscFeeRate           float64 `json:"misc_fee_rate" mapstructure:"misc_fee_rate"`
	UnderlaymentPerSquare float64 `json:"underlayment_per_square" mapstructure:"underlayment_per_square"`
	IceWaterCoverage      float64 `json:"ice_water_coverage" mapstructure:"ice_water_coverage"`
	IceWaterUnitPrice     float64 `json:"ice_water_unit_price" mapstructure:"ice_water_unit_price"`
	StarterRidgeShare     float64 `json:"starter_ridge_share" mapstructure:"starter_ridge_share"`
	FlashingShare         float64 `json:"flashing_share" mapstructure:"flashing_share"`
}

func (r Rates) Validate() error {
	values := []float64{
		r.BaseLaborPerSquare, r.TearOffPerSquare, r.DisposalPerSquare, r.PermitPerSquare,
		r.MiscFeeRate, r.UnderlaymentPerSquare, r.IceWaterCoverage, r.IceWaterUnitPrice,
		r.StarterRidgeShare, r.FlashingShare,
	}
	for _, v := range values {
		if v < 0 {
			return ErrInvalidRates
		}
	}
	return nil
}

// MultiplierTable maps a normalized key to a factor, falling back to Default.
type MultiplierTable struct {
	Values  map[string]float64 `json:"values" mapstructure:"values"`
	Default float64            `json:"default" mapstructure:"default"`
}

// Lookup returns the factor for key, or Default when key is unknown or blank.
func (t MultiplierTable) Lookup(key string) float64 {
	if v, ok := t.Values[NormalizePitch(key)]; ok {
		return v
	}
	return t.Default
}

func (t MultiplierTable) clone() MultiplierTable {
	values := make(map[string]float64, len(t.Values))
	for k, v := range t.Values {
		values[NormalizePitch(k)] = v
	}
	return MultiplierTable{Values: values, Default: t.Default}
}

func (t MultiplierTable) validate() error {
	if t.Default <= 0 {
		return ErrInvalidMultiplier
	}
	for _, v := range t.Values {
		if v <= 0 {
			return ErrInvalidMultiplier
		}
	}
	return nil
}

// NormalizePitch canonicalizes pitch notations: " 6:12 " and "6-12" become "6/12".
func NormalizePitch(pitch string) string {
	p := strings.ToLower(strings.TrimSpace(pitch))
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, ":", "/")
	p = strings.ReplaceAll(p, "-", "/")
	return p
}
