package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	proposaldomain "github.com/stormline/roofcrm/internal/proposal/domain"
	"gorm.io/gorm"
)

const demoCustomerEmail = "dana.reyes@example.com"

// EnsureProposalSequence creates the proposal number counter when it is missing.
func EnsureProposalSequence(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureProposalSequenceTx(ctx, tx, proposaldomain.DefaultSequenceScope)
		return err
	})
}

func ensureProposalSequenceTx(ctx context.Context, tx *gorm.DB, scope string) (proposaldomain.ProposalSequence, error) {
	var seq proposaldomain.ProposalSequence
	err := tx.WithContext(ctx).Where("scope = ?", scope).First(&seq).Error
	if err == nil {
		return seq, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return seq, err
	}
	seq = proposaldomain.ProposalSequence{
		Scope:      scope,
		NextNumber: 1,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(&seq).Error; err != nil {
		return seq, err
	}
	return seq, nil
}

// EnsureDemoData seeds one storm-affected homeowner so a fresh install can
// generate a proposal end to end. It is a no-op once the customer exists.
func EnsureDemoData(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing customerdomain.Customer
		err := tx.WithContext(ctx).Where("email = ?", demoCustomerEmail).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		customer := customerdomain.Customer{
			ID:        node.Generate(),
			FirstName: "Dana",
			LastName:  "Reyes",
			Email:     demoCustomerEmail,
			Phone:     "717-555-0142",
			Address:   "12 Oak Ln",
			City:      "Lancaster",
			State:     "PA",
			Zip:       "17601",
			CreatedAt: now,
			UpdatedAt: now,
		}
		property := customerdomain.Property{
			ID:            node.Generate(),
			CustomerID:    customer.ID,
			Address:       customer.Address,
			City:          customer.City,
			State:         customer.State,
			Zip:           customer.Zip,
			SquareFootage: 1800,
			Stories:       2,
			RoofPitch:     "6/12",
			RoofType:      "asphalt shingle",
			RoofAge:       17,
			YearBuilt:     1998,
			PropertyValue: 340000,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		insurance := customerdomain.Insurance{
			ID:               node.Generate(),
			CustomerID:       customer.ID,
			Carrier:          "State Farm",
			PolicyNumber:     "SF-88-1207",
			DeductibleAmount: 1000,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		event := customerdomain.WeatherEvent{
			ID:             node.Generate(),
			CustomerID:     customer.ID,
			EventType:      "hail",
			EventDate:      now.AddDate(0, 0, -21),
			Severity:       "moderate",
			HailSize:       1.25,
			DamageReported: true,
			Description:    "Quarter to half-dollar hail reported across Lancaster County",
			CreatedAt:      now,
		}
		intel := customerdomain.IntelItem{
			ID:         node.Generate(),
			CustomerID: customer.ID,
			Category:   "inspection",
			Title:      "Granule loss on south slope",
			Content:    "Rep noted bruising and granule loss near the ridge.",
			CreatedAt:  now,
		}
		interaction := customerdomain.Interaction{
			ID:         node.Generate(),
			CustomerID: customer.ID,
			Type:       "call",
			Subject:    "Storm follow-up",
			Notes:      "Homeowner asked about filing a claim.",
			CreatedAt:  now,
		}

		for _, row := range []any{&customer, &property, &insurance, &event, &intel, &interaction} {
			if err := tx.WithContext(ctx).Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
