package domain

import (
	"time"

	refdomain "github.com/stormline/roofcrm/internal/reference/domain"
)

// DataVersion tags every SourceDataSnapshot written by this engine.
const DataVersion = "1.0"

type DamageAssessment struct {
	DamageType              string   `json:"damage_type"`
	DamageSeverity          string   `json:"damage_severity"`
	DamageDescription       string   `json:"damage_description"`
	AffectedAreas           []string `json:"affected_areas"`
	UrgencyLevel            string   `json:"urgency_level"`
	RecommendedAction       string   `json:"recommended_action"`
	InsuranceRecommendation string   `json:"insurance_recommendation"`
}

// PricingBreakdown holds whole-dollar amounts. Each field is rounded once when the
// breakdown is built; intermediate sums use unrounded values.
type PricingBreakdown struct {
	RoofSquares    int64   `json:"roof_squares"`
	MaterialsCost  int64   `json:"materials_cost"`
	LaborCost      int64   `json:"labor_cost"`
	TearOffCost    int64   `json:"tear_off_cost"`
	DisposalCost   int64   `json:"disposal_cost"`
	PermitFees     int64   `json:"permit_fees"`
	MiscFees       int64   `json:"misc_fees"`
	Subtotal       int64   `json:"subtotal"`
	DiscountAmount int64   `json:"discount_amount"`
	DiscountReason string  `json:"discount_reason,omitempty"`
	TaxRate        float64 `json:"tax_rate"`
	TaxAmount      int64   `json:"tax_amount"`
	TotalPrice     int64   `json:"total_price"`
}

// CostLines sums the six cost components before discount.
func (b PricingBreakdown) CostLines() int64 {
	return b.MaterialsCost + b.LaborCost + b.TearOffCost + b.DisposalCost + b.PermitFees + b.MiscFees
}

type PricingOption struct {
	Material      refdomain.MaterialOption `json:"material"`
	Breakdown     PricingBreakdown         `json:"breakdown"`
	IsRecommended bool                     `json:"is_recommended"`
	// SavingsVsHigher is the next tier's total minus this one; nil on the top tier.
	SavingsVsHigher *int64 `json:"savings_vs_higher,omitempty"`
}

type LineItemCategory string

const (
	CategoryMaterials LineItemCategory = "materials"
	CategoryLabor     LineItemCategory = "labor"
	CategoryDisposal  LineItemCategory = "disposal"
	CategoryPermits   LineItemCategory = "permits"
)

type LineItem struct {
	Category    LineItemCategory `json:"category"`
	Description string           `json:"description"`
	Quantity    int64            `json:"quantity"`
	Unit        string           `json:"unit"`
	UnitPrice   int64            `json:"unit_price"`
	TotalPrice  int64            `json:"total_price"`
}

// Content is the narrative body of a proposal.
type Content struct {
	ExecutiveSummary   string `json:"executive_summary"`
	ScopeOfWork        string `json:"scope_of_work"`
	ScopeDetails       string `json:"scope_details"`
	ValueProposition   string `json:"value_proposition"`
	WarrantyDetails    string `json:"warranty_details"`
	InsuranceNotes     string `json:"insurance_notes"`
	TermsAndConditions string `json:"terms_and_conditions"`
	CallToAction       string `json:"call_to_action"`
}

type ContentSource string

const (
	ContentSourceAI       ContentSource = "ai"
	ContentSourceTemplate ContentSource = "template"
)

type SourceDataSnapshot struct {
	CustomerID         string    `json:"customer_id"`
	CustomerName       string    `json:"customer_name"`
	PropertyAddress    string    `json:"property_address"`
	WeatherEventsCount int       `json:"weather_events_count"`
	IntelItemsCount    int       `json:"intel_items_count"`
	InteractionsCount  int       `json:"interactions_count"`
	GeneratedAt        time.Time `json:"generated_at"`
	DataVersion        string    `json:"data_version"`
}

type Discount struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// GeneratedProposal is the result of one generation run.
type GeneratedProposal struct {
	CustomerID         string             `json:"customer_id"`
	CustomerName       string             `json:"customer_name"`
	PropertyAddress    string             `json:"property_address"`
	State              string             `json:"state"`
	Title              string             `json:"title"`
	DamageAssessment   DamageAssessment   `json:"damage_assessment"`
	MaterialGrade      refdomain.Grade    `json:"material_grade"`
	PricingOptions     []PricingOption    `json:"pricing_options"`
	RecommendedOption  PricingOption      `json:"recommended_option"`
	LineItems          []LineItem         `json:"line_items"`
	Content            Content            `json:"content"`
	ContentSource      ContentSource      `json:"content_source"`
	SourceDataSnapshot SourceDataSnapshot `json:"source_data_snapshot"`
}
