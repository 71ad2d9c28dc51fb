// Package pricing computes roof area, cost breakdowns, the four-tier pricing
// ladder and itemized line items for one region.
package pricing

import (
	"math"

	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stormline/roofcrm/internal/proposal/domain"
	refdomain "github.com/stormline/roofcrm/internal/reference/domain"
)

const squareFeetPerSquare = 100.0

// ceilEpsilon absorbs float noise such as 2000*1.05/100 = 21.000000000000004.
const ceilEpsilon = 1e-9

// Calculator prices properties in a single region. It reads from an immutable
// catalog and holds no mutable state, so one value can serve concurrent callers.
type Calculator struct {
	catalog *refdomain.Catalog
	region  refdomain.RegionalPricing
}

// NewCalculator resolves state against the catalog. Unknown states use the
// DEFAULT regional profile.
func NewCalculator(catalog *refdomain.Catalog, state string) *Calculator {
	return &Calculator{
		catalog: catalog,
		region:  catalog.Region(state),
	}
}

func (c *Calculator) Region() refdomain.RegionalPricing {
	return c.region
}

// CalculateRoofSquares returns the roof area in whole squares, never less than 1.
// A measured RoofSquares wins. Otherwise the area is an estimate: the footprint
// (square footage spread over the stories) scaled by the pitch area factor.
func (c *Calculator) CalculateRoofSquares(p customerdomain.Property) int64 {
	var squares float64
	if p.RoofSquares > 0 {
		squares = p.RoofSquares
	} else {
		stories := p.Stories
		if stories < 1 {
			stories = 1
		}
		footprint := float64(p.SquareFootage) / float64(stories)
		squares = footprint * c.catalog.AreaPitchFactor(p.RoofPitch) / squareFeetPerSquare
	}

	n := int64(math.Ceil(squares - ceilEpsilon))
	if n < 1 {
		return 1
	}
	return n
}

// LaborMultiplier combines installation difficulty (pitch), building height and
// the regional labor rate.
func (c *Calculator) LaborMultiplier(p customerdomain.Property) float64 {
	return c.catalog.LaborPitchMultiplier(p.RoofPitch) *
		c.catalog.StoriesMultiplier(p.Stories) *
		c.region.LaborRateMultiplier
}

// CalculatePricing prices one material. Amounts stay unrounded until the
// breakdown is built, and every field is then rounded on its own. The discount is
// not clamped, so a discount larger than the cost lines yields a negative subtotal.
func (c *Calculator) CalculatePricing(p customerdomain.Property, material refdomain.MaterialOption, discount *domain.Discount) domain.PricingBreakdown {
	rates := c.catalog.Rates()
	squares := float64(c.CalculateRoofSquares(p))

	materials := squares * material.PricePerSquare
	labor := squares * rates.BaseLaborPerSquare * c.LaborMultiplier(p)
	tearOff := squares * rates.TearOffPerSquare
	disposal := squares * rates.DisposalPerSquare
	permit := c.region.PermitFeeBase + squares*rates.PermitPerSquare
	misc := rates.MiscFeeRate * materials

	beforeDiscount := materials + labor + tearOff + disposal + permit + misc

	var discountAmount float64
	var discountReason string
	if discount != nil {
		discountAmount = float64(discount.Amount)
		discountReason = discount.Reason
	}

	subtotal := beforeDiscount - discountAmount
	tax := subtotal * c.region.TaxRate
	total := subtotal + tax

	return domain.PricingBreakdown{
		RoofSquares:    int64(squares),
		MaterialsCost:  roundMoney(materials),
		LaborCost:      roundMoney(labor),
		TearOffCost:    roundMoney(tearOff),
		DisposalCost:   roundMoney(disposal),
		PermitFees:     roundMoney(permit),
		MiscFees:       roundMoney(misc),
		Subtotal:       roundMoney(subtotal),
		DiscountAmount: roundMoney(discountAmount),
		DiscountReason: discountReason,
		TaxRate:        c.region.TaxRate,
		TaxAmount:      roundMoney(tax),
		TotalPrice:     roundMoney(total),
	}
}

// GeneratePricingOptions prices every grade against the same property and
// discount, in ladder order. Exactly one option is recommended: preferred, or
// standard when preferred is not a known grade. SavingsVsHigher is not checked
// for sign; a non-monotonic catalog produces negative savings.
func (c *Calculator) GeneratePricingOptions(p customerdomain.Property, discount *domain.Discount, preferred refdomain.Grade) []domain.PricingOption {
	if !preferred.Valid() {
		preferred = refdomain.GradeStandard
	}

	materials := c.catalog.Materials()
	options := make([]domain.PricingOption, 0, len(materials))
	for _, m := range materials {
		options = append(options, domain.PricingOption{
			Material:      m,
			Breakdown:     c.CalculatePricing(p, m, discount),
			IsRecommended: m.Grade == preferred,
		})
	}

	for i := 0; i < len(options)-1; i++ {
		savings := options[i+1].Breakdown.TotalPrice - options[i].Breakdown.TotalPrice
		options[i].SavingsVsHigher = &savings
	}
	return options
}

// RecommendedOption returns the option for grade, falling back to the standard
// tier (index 1) and then to the first option.
func RecommendedOption(options []domain.PricingOption, grade refdomain.Grade) domain.PricingOption {
	byGrade := make(map[refdomain.Grade]int, len(options))
	for i, o := range options {
		byGrade[o.Material.Grade] = i
	}
	if i, ok := byGrade[grade]; ok {
		return options[i]
	}
	switch {
	case len(options) > 1:
		return options[1]
	case len(options) == 1:
		return options[0]
	default:
		return domain.PricingOption{}
	}
}

func roundMoney(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
