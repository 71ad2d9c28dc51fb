package domain

import (
	"context"
	"errors"
)

// History bounds applied by the aggregator.
const (
	MaxWeatherEvents = 10
	MaxIntelItems    = 20
	MaxInteractions  = 10
)

type GetCustomerRequest struct {
	ID string
}

// Aggregator loads everything a proposal run reads about one customer.
type Aggregator interface {
	Aggregate(ctx context.Context, customerID string) (*Snapshot, error)
}

type Service interface {
	Aggregator
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
