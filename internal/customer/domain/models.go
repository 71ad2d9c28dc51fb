package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer is a homeowner lead or client record in the CRM.
type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	FirstName string       `gorm:"not null" json:"first_name"`
	LastName  string       `gorm:"not null" json:"last_name"`
	Email     string       `json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Address   string       `json:"address,omitempty"`
	City      string       `json:"city,omitempty"`
	State     string       `gorm:"size:2" json:"state,omitempty"`
	Zip       string       `json:"zip,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Name is the display name used on proposals.
func (c Customer) Name() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Property is the structure a proposal prices. Zero numeric fields mean unknown.
type Property struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID    snowflake.ID `gorm:"not null;index" json:"customer_id"`
	Address       string       `gorm:"not null" json:"address"`
	City          string       `json:"city,omitempty"`
	State         string       `gorm:"size:2" json:"state,omitempty"`
	Zip           string       `json:"zip,omitempty"`
	SquareFootage int          `json:"square_footage"`
	Stories       int          `json:"stories"`
	RoofPitch     string       `json:"roof_pitch,omitempty"`
	RoofSquares   float64      `json:"roof_squares"`
	RoofType      string       `json:"roof_type,omitempty"`
	RoofAge       int          `json:"roof_age"`
	YearBuilt     int          `json:"year_built,omitempty"`
	PropertyValue int64        `json:"property_value"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// FullAddress renders the street address with city, state and zip when known.
func (p Property) FullAddress() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.Address, p.City} {
		if s := strings.TrimSpace(part); s != "" {
			parts = append(parts, s)
		}
	}
	tail := strings.TrimSpace(strings.TrimSpace(p.State) + " " + strings.TrimSpace(p.Zip))
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// Insurance is the homeowner policy on file. An empty Carrier means no carrier is known.
type Insurance struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID       snowflake.ID `gorm:"not null;index" json:"customer_id"`
	Carrier          string       `json:"carrier,omitempty"`
	PolicyNumber     string       `json:"policy_number,omitempty"`
	ClaimNumber      string       `json:"claim_number,omitempty"`
	DeductibleAmount int64        `json:"deductible_amount"`
	AdjusterName     string       `json:"adjuster_name,omitempty"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Insurance) TableName() string { return "insurance_policies" }

// HasCarrier reports whether a carrier is recorded.
func (i *Insurance) HasCarrier() bool {
	return i != nil && strings.TrimSpace(i.Carrier) != ""
}

// WeatherEvent is a storm observed at the customer's property.
type WeatherEvent struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID     snowflake.ID `gorm:"not null;index" json:"customer_id"`
	EventType      string       `gorm:"not null" json:"event_type"`
	EventDate      time.Time    `gorm:"not null" json:"event_date"`
	Severity       string       `gorm:"not null" json:"severity"`
	HailSize       float64      `json:"hail_size,omitempty"`
	WindSpeed      float64      `json:"wind_speed,omitempty"`
	DamageReported bool         `json:"damage_reported"`
	ClaimFiled     bool         `json:"claim_filed"`
	Description    string       `json:"description,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IntelItem is a field note captured by a rep or an automated source.
type IntelItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	Category   string       `gorm:"not null" json:"category"`
	Title      string       `gorm:"not null" json:"title"`
	Content    string       `json:"content,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Interaction is a logged touchpoint with the customer.
type Interaction struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	Type       string       `gorm:"not null" json:"type"`
	Subject    string       `json:"subject,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Snapshot is the bounded view of one customer used for a generation run.
// History slices are ordered most recent first.
type Snapshot struct {
	Customer      Customer
	Property      *Property
	Insurance     *Insurance
	WeatherEvents []WeatherEvent
	IntelItems    []IntelItem
	Interactions  []Interaction
}
