package service

import (
	"context"
	"strings"

	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stormline/roofcrm/internal/proposal/domain"
	"github.com/stormline/roofcrm/internal/proposal/pricing"
	refdomain "github.com/stormline/roofcrm/internal/reference/domain"
)

// PricingOptions prices an ad-hoc property against the current catalog. It
// reads nothing from the CRM.
func (s *Service) PricingOptions(_ context.Context, req domain.PricingPreviewRequest) ([]domain.PricingOption, error) {
	if req.SquareFootage <= 0 && req.RoofSquares <= 0 {
		return nil, domain.ErrInvalidProperty
	}
	if req.Stories < 0 {
		return nil, domain.ErrInvalidProperty
	}
	if err := validateDiscount(req.Discount); err != nil {
		return nil, err
	}

	grade := refdomain.GradeStandard
	if strings.TrimSpace(req.MaterialGrade) != "" {
		parsed, ok := refdomain.ParseGrade(req.MaterialGrade)
		if !ok {
			return nil, domain.ErrInvalidMaterialGrade
		}
		grade = parsed
	}

	property := customerdomain.Property{
		State:         strings.ToUpper(strings.TrimSpace(req.State)),
		SquareFootage: req.SquareFootage,
		Stories:       req.Stories,
		RoofPitch:     req.RoofPitch,
		RoofSquares:   req.RoofSquares,
	}
	calc := pricing.NewCalculator(s.catalog.Current(), property.State)
	return calc.GeneratePricingOptions(property, req.Discount, grade), nil
}
