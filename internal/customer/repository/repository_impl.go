package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/stormline/roofcrm/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, first_name, last_name, email, phone, address, city, state, zip, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.City,
		customer.State,
		customer.Zip,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, email, phone, address, city, state, zip, created_at, updated_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindProperty(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*domain.Property, error) {
	var property domain.Property
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, address, city, state, zip, square_footage, stories, roof_pitch, roof_squares,
		        roof_type, roof_age, year_built, property_value, created_at, updated_at
		 FROM properties WHERE customer_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		customerID,
	).Scan(&property).Error
	if err != nil {
		return nil, err
	}
	if property.ID == 0 {
		return nil, nil
	}
	return &property, nil
}

func (r *repo) FindInsurance(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*domain.Insurance, error) {
	var insurance domain.Insurance
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, carrier, policy_number, claim_number, deductible_amount, adjuster_name, created_at, updated_at
		 FROM insurance_policies WHERE customer_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		customerID,
	).Scan(&insurance).Error
	if err != nil {
		return nil, err
	}
	if insurance.ID == 0 {
		return nil, nil
	}
	return &insurance, nil
}

func (r *repo) ListWeatherEvents(ctx context.Context, db *gorm.DB, customerID snowflake.ID, limit int) ([]domain.WeatherEvent, error) {
	var events []domain.WeatherEvent
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, event_type, event_date, severity, hail_size, wind_speed,
		        damage_reported, claim_filed, description, created_at
		 FROM weather_events WHERE customer_id = ?
		 ORDER BY event_date DESC, id DESC
		 LIMIT ?`,
		customerID,
		limit,
	).Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repo) ListIntelItems(ctx context.Context, db *gorm.DB, customerID snowflake.ID, limit int) ([]domain.IntelItem, error) {
	var items []domain.IntelItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, category, title, content, created_at
		 FROM intel_items WHERE customer_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		customerID,
		limit,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListInteractions(ctx context.Context, db *gorm.DB, customerID snowflake.ID, limit int) ([]domain.Interaction, error) {
	var items []domain.Interaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, type, subject, notes, created_at
		 FROM interactions WHERE customer_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		customerID,
		limit,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
