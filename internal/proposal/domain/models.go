package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ProposalStatus string

const (
	ProposalStatusDraft   ProposalStatus = "DRAFT"
	ProposalStatusExpired ProposalStatus = "EXPIRED"
)

// Proposal is the persisted form of a GeneratedProposal: scalar fields flattened,
// collections kept as JSON blobs.
type Proposal struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	ProposalNumber string         `gorm:"not null;uniqueIndex" json:"proposal_number"`
	CustomerID     snowflake.ID   `gorm:"not null;index" json:"customer_id"`
	CreatedByID    string         `gorm:"not null" json:"created_by_id"`
	Status         ProposalStatus `gorm:"not null" json:"status"`
	Title          string         `gorm:"not null" json:"title"`
	CustomerName   string         `json:"customer_name"`
	PropertyAddr   string         `gorm:"column:property_address" json:"property_address"`
	State          string         `json:"state"`

	DamageType              string `json:"damage_type"`
	DamageSeverity          string `json:"damage_severity"`
	DamageDescription       string `json:"damage_description"`
	AffectedAreas           string `json:"affected_areas"`
	UrgencyLevel            string `json:"urgency_level"`
	RecommendedAction       string `json:"recommended_action"`
	InsuranceRecommendation string `json:"insurance_recommendation"`

	MaterialGrade  string  `json:"material_grade"`
	MaterialID     string  `json:"material_id"`
	MaterialBrand  string  `json:"material_brand"`
	RoofSquares    int64   `json:"roof_squares"`
	MaterialsCost  int64   `json:"materials_cost"`
	LaborCost      int64   `json:"labor_cost"`
	TearOffCost    int64   `json:"tear_off_cost"`
	DisposalCost   int64   `json:"disposal_cost"`
	PermitFees     int64   `json:"permit_fees"`
	MiscFees       int64   `json:"misc_fees"`
	Subtotal       int64   `json:"subtotal"`
	DiscountAmount int64   `json:"discount_amount"`
	DiscountReason string  `json:"discount_reason"`
	TaxRate        float64 `json:"tax_rate"`
	TaxAmount      int64   `json:"tax_amount"`
	TotalPrice     int64   `json:"total_price"`

	ExecutiveSummary   string `gorm:"type:text" json:"executive_summary"`
	ScopeOfWork        string `gorm:"type:text" json:"scope_of_work"`
	ScopeDetails       string `gorm:"type:text" json:"scope_details"`
	ValueProposition   string `gorm:"type:text" json:"value_proposition"`
	WarrantyDetails    string `gorm:"type:text" json:"warranty_details"`
	InsuranceNotes     string `gorm:"type:text" json:"insurance_notes"`
	TermsAndConditions string `gorm:"type:text" json:"terms_and_conditions"`
	CallToAction       string `gorm:"type:text" json:"call_to_action"`
	ContentSource      string `json:"content_source"`

	LineItems          datatypes.JSON `json:"line_items"`
	PricingOptions     datatypes.JSON `json:"pricing_options"`
	SourceDataSnapshot datatypes.JSON `json:"source_data_snapshot"`

	ValidUntil time.Time `gorm:"not null" json:"valid_until"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ProposalSequence is the counter behind human-facing proposal numbers.
type ProposalSequence struct {
	Scope      string    `gorm:"primaryKey"`
	NextNumber int64     `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

const DefaultSequenceScope = "proposal"
