package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	FindProperty(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*Property, error)
	FindInsurance(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*Insurance, error)
	ListWeatherEvents(ctx context.Context, db *gorm.DB, customerID snowflake.ID, limit int) ([]WeatherEvent, error)
	ListIntelItems(ctx context.Context, db *gorm.DB, customerID snowflake.ID, limit int) ([]IntelItem, error)
	ListInteractions(ctx context.Context, db *gorm.DB, customerID snowflake.ID, limit int) ([]Interaction, error)
}
