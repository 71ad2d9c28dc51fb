package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stormline/roofcrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, proposal *Proposal) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Proposal, error)
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID, after *pagination.Cursor, limit int) ([]*Proposal, error)
	// NextSequence reserves the next proposal number in scope. Must run inside tx.
	NextSequence(ctx context.Context, tx *gorm.DB, scope string, now time.Time) (int64, error)
	// ExpireDrafts moves up to limit DRAFT proposals whose validity ended before
	// cutoff to EXPIRED and reports how many changed.
	ExpireDrafts(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) (int64, error)
}
