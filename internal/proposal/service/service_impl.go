package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stormline/roofcrm/internal/clock"
	"github.com/stormline/roofcrm/internal/config"
	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stormline/roofcrm/internal/observability/metrics"
	"github.com/stormline/roofcrm/internal/proposal/content"
	"github.com/stormline/roofcrm/internal/proposal/damage"
	"github.com/stormline/roofcrm/internal/proposal/domain"
	"github.com/stormline/roofcrm/internal/proposal/format"
	"github.com/stormline/roofcrm/internal/proposal/pricing"
	refdomain "github.com/stormline/roofcrm/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Properties above this value are upgraded to premium when no grade is requested.
const premiumPropertyValue int64 = 500000

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Cfg       config.Config
	Clock     clock.Clock
	Repo      domain.Repository
	Customers customerdomain.Aggregator
	Catalog   refdomain.CatalogSource
	Content   *content.Resolver
	Metrics   *metrics.Metrics         `optional:"true"`
	Pipeline  *metrics.PipelineMetrics `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	repo      domain.Repository
	customers customerdomain.Aggregator
	catalog   refdomain.CatalogSource
	content   *content.Resolver

	validDays      int
	numberTemplate string

	metrics  *metrics.Metrics
	pipeline *metrics.PipelineMetrics
}

func New(p Params) domain.Service {
	validDays := p.Cfg.Proposal.ValidDays
	if validDays <= 0 {
		validDays = 30
	}
	numberTemplate := strings.TrimSpace(p.Cfg.Proposal.NumberTemplate)
	if numberTemplate == "" {
		numberTemplate = format.DefaultProposalNumberTemplate
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}

	return &Service{
		db:    p.DB,
		log:   p.Log.Named("proposal.service"),
		genID: p.GenID,
		clock: clk,

		repo:      p.Repo,
		customers: p.Customers,
		catalog:   p.Catalog,
		content:   p.Content,

		validDays:      validDays,
		numberTemplate: numberTemplate,

		metrics:  p.Metrics,
		pipeline: p.Pipeline,
	}
}

// Generate runs aggregate, assess, price and content in sequence. Nothing is
// persisted.
func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GeneratedProposal, error) {
	requested, err := parseRequestedGrade(req.MaterialGrade)
	if err != nil {
		return nil, err
	}
	if err := validateDiscount(req.CustomDiscount); err != nil {
		return nil, err
	}

	start := time.Now()
	snapshot, err := s.customers.Aggregate(ctx, req.CustomerID)
	s.pipeline.ObserveStage(metrics.StageAggregate, time.Since(start))
	if err != nil {
		if errors.Is(err, customerdomain.ErrNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		s.pipeline.IncStageError(metrics.StageAggregate, metrics.ClassifyStoreReason(err))
		return nil, fmt.Errorf("aggregate customer: %w", err)
	}
	if snapshot.Property == nil {
		return nil, domain.ErrPropertyNotFound
	}
	property := *snapshot.Property

	start = time.Now()
	assessment := damage.Assess(snapshot.WeatherEvents, snapshot.Property, snapshot.IntelItems)
	s.pipeline.ObserveStage(metrics.StageAssess, time.Since(start))

	grade := resolveGrade(requested, assessment, property)

	start = time.Now()
	state := strings.TrimSpace(property.State)
	if state == "" {
		state = snapshot.Customer.State
	}
	calc := pricing.NewCalculator(s.catalog.Current(), state)
	options := calc.GeneratePricingOptions(property, req.CustomDiscount, grade)
	recommended := pricing.RecommendedOption(options, grade)
	lineItems := calc.GenerateLineItems(property, recommended.Material, recommended.Breakdown)
	s.pipeline.ObserveStage(metrics.StagePrice, time.Since(start))

	start = time.Now()
	body, source := s.content.GenerateAIContent(ctx, content.Input{
		Customer:    snapshot.Customer,
		Property:    property,
		Insurance:   snapshot.Insurance,
		Damage:      assessment,
		Recommended: recommended,
		Options:     options,
		LineItems:   lineItems,
		ValidDays:   s.validDays,
	})
	s.pipeline.ObserveStage(metrics.StageContent, time.Since(start))

	customerName := snapshot.Customer.Name()
	address := property.FullAddress()
	proposal := &domain.GeneratedProposal{
		CustomerID:        snapshot.Customer.ID.String(),
		CustomerName:      customerName,
		PropertyAddress:   address,
		State:             strings.ToUpper(state),
		Title:             proposalTitle(customerName, address),
		DamageAssessment:  assessment,
		MaterialGrade:     grade,
		PricingOptions:    options,
		RecommendedOption: recommended,
		LineItems:         lineItems,
		Content:           body,
		ContentSource:     source,
		SourceDataSnapshot: domain.SourceDataSnapshot{
			CustomerID:         snapshot.Customer.ID.String(),
			CustomerName:       customerName,
			PropertyAddress:    address,
			WeatherEventsCount: len(snapshot.WeatherEvents),
			IntelItemsCount:    len(snapshot.IntelItems),
			InteractionsCount:  len(snapshot.Interactions),
			GeneratedAt:        s.clock.Now(),
			DataVersion:        domain.DataVersion,
		},
	}

	s.metrics.RecordProposalGenerated(ctx, string(grade))
	s.metrics.RecordProposalContent(ctx, string(source))
	s.log.Info("proposal generated",
		zap.String("customer_id", proposal.CustomerID),
		zap.String("grade", string(grade)),
		zap.String("severity", assessment.DamageSeverity),
		zap.String("urgency", assessment.UrgencyLevel),
		zap.String("content_source", string(source)),
		zap.Int64("total_price", recommended.Breakdown.TotalPrice),
	)
	return proposal, nil
}

// GenerateProposal never returns a partial proposal: the result carries either
// the proposal or an error message.
func (s *Service) GenerateProposal(ctx context.Context, req domain.GenerateRequest) (result domain.GenerateResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("proposal generation panicked",
				zap.String("customer_id", req.CustomerID),
				zap.Any("panic", r),
			)
			s.pipeline.IncRun("failure")
			s.metrics.RecordProposalFailure(ctx, "panic")
			result = domain.GenerateResult{Error: fmt.Sprintf("unexpected error: %v", r)}
		}
	}()

	proposal, err := s.Generate(ctx, req)
	if err != nil {
		reason := FailureReason(err)
		if reason == "internal" {
			s.log.Error("proposal generation failed", zap.String("customer_id", req.CustomerID), zap.Error(err))
		} else {
			s.log.Info("proposal generation rejected", zap.String("customer_id", req.CustomerID), zap.String("reason", reason))
		}
		s.pipeline.IncRun("failure")
		s.metrics.RecordProposalFailure(ctx, reason)
		return domain.GenerateResult{Error: ErrorMessage(err)}
	}

	s.pipeline.IncRun("success")
	return domain.GenerateResult{Success: true, Proposal: proposal}
}

// ErrorMessage renders a generation error for the structured result.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "Customer not found"
	case errors.Is(err, domain.ErrPropertyNotFound):
		return "Property not found"
	case errors.Is(err, domain.ErrInvalidMaterialGrade):
		return "Invalid material grade"
	case errors.Is(err, domain.ErrInvalidDiscount):
		return "Invalid discount"
	default:
		return err.Error()
	}
}

// FailureReason maps a generation error to a metric label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrPropertyNotFound):
		return "property_not_found"
	case errors.Is(err, domain.ErrInvalidMaterialGrade), errors.Is(err, domain.ErrInvalidDiscount):
		return "validation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

func parseRequestedGrade(value string) (refdomain.Grade, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	grade, ok := refdomain.ParseGrade(value)
	if !ok {
		return "", domain.ErrInvalidMaterialGrade
	}
	return grade, nil
}

func validateDiscount(d *domain.Discount) error {
	if d != nil && d.Amount < 0 {
		return domain.ErrInvalidDiscount
	}
	return nil
}

// resolveGrade prefers the requested grade. Without one, severe damage or a
// high-value property selects premium, anything else standard.
func resolveGrade(requested refdomain.Grade, assessment domain.DamageAssessment, property customerdomain.Property) refdomain.Grade {
	if requested != "" {
		return requested
	}
	if assessment.DamageSeverity == damage.SeveritySevere || property.PropertyValue > premiumPropertyValue {
		return refdomain.GradePremium
	}
	return refdomain.GradeStandard
}

func proposalTitle(customerName, address string) string {
	switch {
	case address != "":
		return "Roof Replacement Proposal - " + address
	case customerName != "":
		return "Roof Replacement Proposal for " + customerName
	default:
		return "Roof Replacement Proposal"
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
