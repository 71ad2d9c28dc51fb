package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/stormline/roofcrm/pkg/db/pagination"
)

// GenerateRequest asks for a proposal for one customer. SpecificMaterial,
// IncludeInsuranceAssistance, IncludeFinancingOptions and UrgencyLevel are
// accepted and carried but do not change the generated proposal.
type GenerateRequest struct {
	CustomerID                 string    `json:"customer_id"`
	CreatedByID                string    `json:"created_by_id"`
	MaterialGrade              string    `json:"material_grade,omitempty"`
	SpecificMaterial           string    `json:"specific_material,omitempty"`
	CustomDiscount             *Discount `json:"custom_discount,omitempty"`
	IncludeInsuranceAssistance *bool     `json:"include_insurance_assistance,omitempty"`
	IncludeFinancingOptions    *bool     `json:"include_financing_options,omitempty"`
	UrgencyLevel               string    `json:"urgency_level,omitempty"`
}

// GenerateResult is either a full proposal or a failure message, never both.
type GenerateResult struct {
	Success  bool               `json:"success"`
	Proposal *GeneratedProposal `json:"proposal,omitempty"`
	Error    string             `json:"error,omitempty"`
}

type SaveResult struct {
	ID             snowflake.ID `json:"id"`
	ProposalNumber string       `json:"proposal_number"`
}

// PricingPreviewRequest prices an ad-hoc property without reading the CRM.
type PricingPreviewRequest struct {
	State         string
	SquareFootage int
	Stories       int
	RoofPitch     string
	RoofSquares   float64
	MaterialGrade string
	Discount      *Discount
}

type ListProposalsRequest struct {
	CustomerID string
	PageToken  string
	PageSize   int32
}

type ListProposalsResponse struct {
	pagination.Page
	Proposals []Proposal `json:"proposals"`
}

type Service interface {
	// Generate runs the pipeline and returns typed errors.
	Generate(ctx context.Context, req GenerateRequest) (*GeneratedProposal, error)
	// GenerateProposal wraps Generate into a GenerateResult.
	GenerateProposal(ctx context.Context, req GenerateRequest) GenerateResult
	SaveProposal(ctx context.Context, proposal *GeneratedProposal, createdByID string) (SaveResult, error)
	GetProposal(ctx context.Context, id string) (*Proposal, error)
	ListProposals(ctx context.Context, req ListProposalsRequest) (ListProposalsResponse, error)
	PricingOptions(ctx context.Context, req PricingPreviewRequest) ([]PricingOption, error)
}

var (
	ErrCustomerNotFound     = errors.New("customer_not_found")
	ErrPropertyNotFound     = errors.New("property_not_found")
	ErrInvalidMaterialGrade = errors.New("invalid_material_grade")
	ErrInvalidDiscount      = errors.New("invalid_discount")
	ErrInvalidProperty      = errors.New("invalid_property")
	ErrInvalidCreatedBy     = errors.New("invalid_created_by")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
	ErrNilProposal          = errors.New("nil_proposal")
	ErrInvalidPageToken     = errors.New("invalid_page_token")
)
