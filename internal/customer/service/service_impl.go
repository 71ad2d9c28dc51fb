package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/stormline/roofcrm/internal/customer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("customer.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

// Aggregate reads the customer with its property, policy and bounded history.
// An unknown or malformed id yields ErrNotFound.
func (s *Service) Aggregate(ctx context.Context, customerID string) (*domain.Snapshot, error) {
	id, err := s.parseID(customerID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	property, err := s.repo.FindProperty(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	insurance, err := s.repo.FindInsurance(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListWeatherEvents(ctx, s.db, id, domain.MaxWeatherEvents)
	if err != nil {
		return nil, err
	}
	intel, err := s.repo.ListIntelItems(ctx, s.db, id, domain.MaxIntelItems)
	if err != nil {
		return nil, err
	}
	interactions, err := s.repo.ListInteractions(ctx, s.db, id, domain.MaxInteractions)
	if err != nil {
		return nil, err
	}

	s.log.Debug("customer aggregated",
		zap.String("customer_id", id.String()),
		zap.Bool("has_property", property != nil),
		zap.Int("weather_events", len(events)),
		zap.Int("intel_items", len(intel)),
		zap.Int("interactions", len(interactions)),
	)

	return &domain.Snapshot{
		Customer:      *customer,
		Property:      property,
		Insurance:     insurance,
		WeatherEvents: events,
		IntelItems:    intel,
		Interactions:  interactions,
	}, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
