package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stormline/roofcrm/internal/proposal/domain"
	"github.com/stormline/roofcrm/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, proposal *domain.Proposal) error {
	return db.WithContext(ctx).Create(proposal).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM proposals WHERE id = ?`,
		id,
	).Scan(&proposal).Error
	if err != nil {
		return nil, err
	}
	if proposal.ID == 0 {
		return nil, nil
	}
	return &proposal, nil
}

// ListByCustomer returns up to limit rows older than after, newest first.
// Callers pass one more than the page size to learn whether another page exists.
func (r *repo) ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID, after *pagination.Cursor, limit int) ([]*domain.Proposal, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Where("customer_id = ?", customerID)
	if after != nil {
		stmt = stmt.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}

	var proposals []*domain.Proposal
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

// NextSequence seeds the scope's counter when it is missing, increments it
// and returns the reserved value. The seed never fails on an existing row, so
// a concurrent creator does not abort tx.
func (r *repo) NextSequence(ctx context.Context, tx *gorm.DB, scope string, now time.Time) (int64, error) {
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}},
			DoNothing: true,
		}).
		Create(&domain.ProposalSequence{
			Scope:      scope,
			NextNumber: 1,
			UpdatedAt:  now,
		}).Error
	if err != nil {
		return 0, err
	}

	err = tx.WithContext(ctx).Exec(
		`UPDATE proposal_sequences SET next_number = next_number + 1, updated_at = ? WHERE scope = ?`,
		now,
		scope,
	).Error
	if err != nil {
		return 0, err
	}

	var next int64
	err = tx.WithContext(ctx).Raw(
		`SELECT next_number FROM proposal_sequences WHERE scope = ?`,
		scope,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next - 1, nil
}

// ExpireDrafts selects through a derived table so MySQL accepts the LIMIT and
// the self-reference.
func (r *repo) ExpireDrafts(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE proposals SET status = ?, updated_at = ?
		WHERE id IN (
			SELECT id FROM (
				SELECT id FROM proposals
				WHERE status = ? AND valid_until < ?
				ORDER BY valid_until ASC, id ASC
				LIMIT ?
			) AS expired
		)`,
		domain.ProposalStatusExpired, cutoff, domain.ProposalStatusDraft, cutoff, limit,
	)
	return res.RowsAffected, res.Error
}
