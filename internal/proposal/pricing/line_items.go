package pricing

import (
	"fmt"
	"math"

	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stormline/roofcrm/internal/proposal/domain"
	refdomain "github.com/stormline/roofcrm/internal/reference/domain"
)

// GenerateLineItems expands a breakdown into the nine fixed proposal lines.
// Per-square unit prices are derived with integer division, so the line totals
// can fall short of the breakdown by a few dollars per square.
func (c *Calculator) GenerateLineItems(p customerdomain.Property, material refdomain.MaterialOption, b domain.PricingBreakdown) []domain.LineItem {
	rates := c.catalog.Rates()
	squares := b.RoofSquares
	if squares < 1 {
		squares = c.CalculateRoofSquares(p)
	}

	underlaymentUnit := roundMoney(rates.UnderlaymentPerSquare)
	underlayment := squares * underlaymentUnit

	iceWaterQty := int64(math.Ceil(rates.IceWaterCoverage*float64(squares) - ceilEpsilon))
	if iceWaterQty < 1 {
		iceWaterQty = 1
	}
	iceWaterUnit := roundMoney(rates.IceWaterUnitPrice)
	iceWater := iceWaterQty * iceWaterUnit

	shingleUnit := (b.MaterialsCost - underlayment - iceWater) / squares
	starterRidge := roundMoney(rates.StarterRidgeShare * float64(b.MiscFees))
	flashing := roundMoney(rates.FlashingShare * float64(b.MiscFees))
	laborUnit := b.LaborCost / squares
	tearOffUnit := b.TearOffCost / squares
	disposalUnit := b.DisposalCost / squares

	return []domain.LineItem{
		perSquare(domain.CategoryMaterials,
			fmt.Sprintf("%s shingles (%s grade, %d-year warranty)", material.Brand, material.Grade, material.WarrantyYears),
			squares, shingleUnit),
		perSquare(domain.CategoryMaterials, "Synthetic underlayment", squares, underlaymentUnit),
		{
			Category:    domain.CategoryMaterials,
			Description: "Ice and water shield at eaves, valleys and penetrations",
			Quantity:    iceWaterQty,
			Unit:        "roll",
			UnitPrice:   iceWaterUnit,
			TotalPrice:  iceWater,
		},
		lumpSum(domain.CategoryMaterials, "Starter strip and ridge cap shingles", starterRidge),
		lumpSum(domain.CategoryMaterials, "Drip edge, step and counter flashing", flashing),
		perSquare(domain.CategoryLabor, "Installation labor", squares, laborUnit),
		perSquare(domain.CategoryLabor, "Tear-off of existing roofing", squares, tearOffUnit),
		perSquare(domain.CategoryDisposal, "Debris removal and disposal", squares, disposalUnit),
		lumpSum(domain.CategoryPermits, "Building permit and inspection fees", b.PermitFees),
	}
}

func perSquare(category domain.LineItemCategory, description string, squares, unitPrice int64) domain.LineItem {
	return domain.LineItem{
		Category:    category,
		Description: description,
		Quantity:    squares,
		Unit:        "square",
		UnitPrice:   unitPrice,
		TotalPrice:  squares * unitPrice,
	}
}

func lumpSum(category domain.LineItemCategory, description string, amount int64) domain.LineItem {
	return domain.LineItem{
		Category:    category,
		Description: description,
		Quantity:    1,
		Unit:        "lot",
		UnitPrice:   amount,
		TotalPrice:  amount,
	}
}
