package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	proposaldomain "github.com/stormline/roofcrm/internal/proposal/domain"
)

type pricingOptionsQuery struct {
	State          string `form:"state"`
	SquareFootage  string `form:"square_footage"`
	Stories        string `form:"stories"`
	RoofPitch      string `form:"roof_pitch"`
	RoofSquares    string `form:"roof_squares"`
	MaterialGrade  string `form:"material_grade"`
	DiscountAmount string `form:"discount_amount"`
	DiscountReason string `form:"discount_reason"`
}

// ListPricingOptions previews the good/better/best tiers for an ad-hoc property.
func (s *Server) ListPricingOptions(c *gin.Context) {
	var query pricingOptionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := proposaldomain.PricingPreviewRequest{
		State:         strings.TrimSpace(query.State),
		RoofPitch:     strings.TrimSpace(query.RoofPitch),
		MaterialGrade: strings.TrimSpace(query.MaterialGrade),
	}

	sqft, err := parseOptionalInt64(query.SquareFootage)
	if err != nil {
		AbortWithError(c, newValidationError("square_footage", "invalid_square_footage", "invalid square_footage"))
		return
	}
	if sqft != nil {
		req.SquareFootage = int(*sqft)
	}

	stories, err := parseOptionalInt64(query.Stories)
	if err != nil {
		AbortWithError(c, newValidationError("stories", "invalid_stories", "invalid stories"))
		return
	}
	if stories != nil {
		req.Stories = int(*stories)
	}

	squares, err := parseOptionalFloat(query.RoofSquares)
	if err != nil {
		AbortWithError(c, newValidationError("roof_squares", "invalid_roof_squares", "invalid roof_squares"))
		return
	}
	if squares != nil {
		req.RoofSquares = *squares
	}

	discount, err := parseOptionalInt64(query.DiscountAmount)
	if err != nil {
		AbortWithError(c, newValidationError("discount_amount", "invalid_discount_amount", "invalid discount_amount"))
		return
	}
	if discount != nil {
		req.Discount = &proposaldomain.Discount{
			Amount: *discount,
			Reason: strings.TrimSpace(query.DiscountReason),
		}
	}

	options, err := s.proposalSvc.PricingOptions(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": options})
}
