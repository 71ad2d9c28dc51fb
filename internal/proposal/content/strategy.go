// Package content produces the narrative sections of a proposal. An AI strategy
// is tried first; the deterministic template strategy always succeeds and backs
// it up.
package content

import (
	"context"
	"errors"

	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stormline/roofcrm/internal/proposal/domain"
)

// Input is the context a strategy writes from.
type Input struct {
	Customer    customerdomain.Customer
	Property    customerdomain.Property
	Insurance   *customerdomain.Insurance
	Damage      domain.DamageAssessment
	Recommended domain.PricingOption
	Options     []domain.PricingOption
	LineItems   []domain.LineItem
	ValidDays   int
}

// ContentStrategy produces all eight narrative fields or fails as a whole.
type ContentStrategy interface {
	Source() domain.ContentSource
	Generate(ctx context.Context, in Input) (domain.Content, error)
}

var (
	ErrUnavailable = errors.New("content_backend_unavailable")
	ErrTransport   = errors.New("content_transport_failed")
	ErrParse       = errors.New("content_parse_failed")
	ErrEmpty       = errors.New("content_empty")
)

// FailureReason maps a strategy error to a short label for logs and metrics.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrEmpty):
		return "empty"
	default:
		return "unknown"
	}
}
