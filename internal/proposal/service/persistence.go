package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stormline/roofcrm/internal/observability/metrics"
	"github.com/stormline/roofcrm/internal/proposal/domain"
	"github.com/stormline/roofcrm/internal/proposal/format"
	"github.com/stormline/roofcrm/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SaveProposal persists a generated proposal as a DRAFT and assigns its number.
// The number is reserved in the same transaction as the insert.
func (s *Service) SaveProposal(ctx context.Context, proposal *domain.GeneratedProposal, createdByID string) (domain.SaveResult, error) {
	if proposal == nil {
		return domain.SaveResult{}, domain.ErrNilProposal
	}
	createdByID = strings.TrimSpace(createdByID)
	if createdByID == "" {
		return domain.SaveResult{}, domain.ErrInvalidCreatedBy
	}
	customerID, err := parseID(proposal.CustomerID)
	if err != nil {
		return domain.SaveResult{}, err
	}

	lineItems, err := json.Marshal(proposal.LineItems)
	if err != nil {
		return domain.SaveResult{}, fmt.Errorf("encode line items: %w", err)
	}
	options, err := json.Marshal(proposal.PricingOptions)
	if err != nil {
		return domain.SaveResult{}, fmt.Errorf("encode pricing options: %w", err)
	}
	snapshot, err := json.Marshal(proposal.SourceDataSnapshot)
	if err != nil {
		return domain.SaveResult{}, fmt.Errorf("encode source snapshot: %w", err)
	}

	start := time.Now()
	now := s.clock.Now()
	record := flatten(proposal)
	record.ID = s.genID.Generate()
	record.CustomerID = customerID
	record.CreatedByID = createdByID
	record.Status = domain.ProposalStatusDraft
	record.LineItems = datatypes.JSON(lineItems)
	record.PricingOptions = datatypes.JSON(options)
	record.SourceDataSnapshot = datatypes.JSON(snapshot)
	record.ValidUntil = now.AddDate(0, 0, s.validDays)
	record.CreatedAt = now
	record.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.repo.NextSequence(ctx, tx, domain.DefaultSequenceScope, now)
		if err != nil {
			return err
		}
		number, err := format.FormatProposalNumber(s.numberTemplate, now, seq)
		if err != nil {
			return err
		}
		record.ProposalNumber = number
		return s.repo.Insert(ctx, tx, record)
	})
	s.pipeline.ObserveStage(metrics.StagePersist, time.Since(start))
	if err != nil {
		s.pipeline.IncStageError(metrics.StagePersist, metrics.ClassifyStoreReason(err))
		s.log.Error("failed to save proposal", zap.String("customer_id", proposal.CustomerID), zap.Error(err))
		return domain.SaveResult{}, err
	}

	s.log.Info("proposal saved",
		zap.String("proposal_id", record.ID.String()),
		zap.String("proposal_number", record.ProposalNumber),
		zap.String("customer_id", proposal.CustomerID),
	)
	return domain.SaveResult{ID: record.ID, ProposalNumber: record.ProposalNumber}, nil
}

func flatten(p *domain.GeneratedProposal) *domain.Proposal {
	d := p.DamageAssessment
	b := p.RecommendedOption.Breakdown
	m := p.RecommendedOption.Material
	c := p.Content
	return &domain.Proposal{
		Title:        p.Title,
		CustomerName: p.CustomerName,
		PropertyAddr: p.PropertyAddress,
		State:        p.State,

		DamageType:              d.DamageType,
		DamageSeverity:          d.DamageSeverity,
		DamageDescription:       d.DamageDescription,
		AffectedAreas:           strings.Join(d.AffectedAreas, ", "),
		UrgencyLevel:            d.UrgencyLevel,
		RecommendedAction:       d.RecommendedAction,
		InsuranceRecommendation: d.InsuranceRecommendation,

		MaterialGrade:  string(p.MaterialGrade),
		MaterialID:     m.ID,
		MaterialBrand:  m.Brand,
		RoofSquares:    b.RoofSquares,
		MaterialsCost:  b.MaterialsCost,
		LaborCost:      b.LaborCost,
		TearOffCost:    b.TearOffCost,
		DisposalCost:   b.DisposalCost,
		PermitFees:     b.PermitFees,
		MiscFees:       b.MiscFees,
		Subtotal:       b.Subtotal,
		DiscountAmount: b.DiscountAmount,
		DiscountReason: b.DiscountReason,
		TaxRate:        b.TaxRate,
		TaxAmount:      b.TaxAmount,
		TotalPrice:     b.TotalPrice,

		ExecutiveSummary:   c.ExecutiveSummary,
		ScopeOfWork:        c.ScopeOfWork,
		ScopeDetails:       c.ScopeDetails,
		ValueProposition:   c.ValueProposition,
		WarrantyDetails:    c.WarrantyDetails,
		InsuranceNotes:     c.InsuranceNotes,
		TermsAndConditions: c.TermsAndConditions,
		CallToAction:       c.CallToAction,
		ContentSource:      string(p.ContentSource),
	}
}

func (s *Service) GetProposal(ctx context.Context, id string) (*domain.Proposal, error) {
	proposalID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, proposalID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) ListProposals(ctx context.Context, req domain.ListProposalsRequest) (domain.ListProposalsResponse, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.ListProposalsResponse{}, err
	}

	query := pagination.Query{PageToken: req.PageToken, PageSize: int(req.PageSize)}
	after, err := query.After()
	if err != nil {
		return domain.ListProposalsResponse{}, domain.ErrInvalidPageToken
	}
	size := query.Size()

	items, err := s.repo.ListByCustomer(ctx, s.db, customerID, after, size+1)
	if err != nil {
		return domain.ListProposalsResponse{}, err
	}

	items, page, err := pagination.Cut(items, size, func(p *domain.Proposal) pagination.Cursor {
		return pagination.NewCursor(int64(p.ID), p.CreatedAt)
	})
	if err != nil {
		return domain.ListProposalsResponse{}, err
	}

	resp := domain.ListProposalsResponse{Page: page, Proposals: make([]domain.Proposal, 0, len(items))}
	for _, item := range items {
		resp.Proposals = append(resp.Proposals, *item)
	}
	return resp, nil
}
