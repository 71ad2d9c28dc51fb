package damage

import (
	"testing"
	"time"

	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stretchr/testify/assert"
)

var stormDate = time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)

func TestAssess_UnfiledHailClaimIsUrgent(t *testing.T) {
	events := []customerdomain.WeatherEvent{{
		EventType:      "hail",
		EventDate:      stormDate,
		HailSize:       1.25,
		Severity:       "severe",
		DamageReported: true,
		ClaimFiled:     false,
	}}
	got := Assess(events, &customerdomain.Property{RoofAge: 10}, nil)

	assert.Equal(t, "hail", got.DamageType)
	assert.Equal(t, SeveritySevere, got.DamageSeverity)
	assert.Equal(t, UrgencyUrgent, got.UrgencyLevel)
	assert.Contains(t, got.DamageDescription, "1.25\"")
	assert.Contains(t, got.DamageDescription, "May 14, 2026")
	assert.Contains(t, got.AffectedAreas, "siding/window screens")
	assert.NotEmpty(t, got.RecommendedAction)
	assert.NotEmpty(t, got.InsuranceRecommendation)
}

func TestAssess_SmallHailSkipsSiding(t *testing.T) {
	events := []customerdomain.WeatherEvent{{EventType: "hail", EventDate: stormDate, HailSize: 0.75, Severity: "minor"}}
	got := Assess(events, nil, nil)
	assert.NotContains(t, got.AffectedAreas, "siding/window screens")
	assert.Equal(t, UrgencyStandard, got.UrgencyLevel)
}

func TestAssess_Defaults(t *testing.T) {
	got := Assess(nil, &customerdomain.Property{RoofAge: 8}, nil)
	assert.Equal(t, TypeAge, got.DamageType)
	assert.Equal(t, SeverityMinor, got.DamageSeverity)
	assert.Equal(t, UrgencyStandard, got.UrgencyLevel)
	assert.Contains(t, got.DamageDescription, "inspection is recommended")
	assert.Equal(t, []string{"roof"}, got.AffectedAreas)
}

func TestAssess_BlankEventTypeKeepsAge(t *testing.T) {
	events := []customerdomain.WeatherEvent{{EventType: "  ", EventDate: stormDate, Severity: "moderate"}}
	got := Assess(events, &customerdomain.Property{RoofAge: 8}, nil)

	assert.Equal(t, TypeAge, got.DamageType)
	assert.Equal(t, "moderate", got.DamageSeverity)
	assert.Contains(t, got.DamageDescription, "A storm event on May 14, 2026")
	assert.NotEmpty(t, got.RecommendedAction)
}

func TestAssess_AgePath(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		severity string
		urgency  string
	}{
		{"aging", 15, SeverityModerate, UrgencyStandard},
		{"old", 22, SeveritySevere, UrgencyHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(nil, &customerdomain.Property{RoofAge: tt.age}, nil)
			assert.Equal(t, TypeAge, got.DamageType)
			assert.Equal(t, tt.severity, got.DamageSeverity)
			assert.Equal(t, tt.urgency, got.UrgencyLevel)
		})
	}
}

func TestAssess_MultipleTypesOverrideRecent(t *testing.T) {
	events := []customerdomain.WeatherEvent{
		{EventType: "wind", EventDate: stormDate, WindSpeed: 70, Severity: "moderate"},
		{EventType: "hail", EventDate: stormDate.AddDate(0, -3, 0), HailSize: 1, Severity: "severe", ClaimFiled: true},
	}
	got := Assess(events, &customerdomain.Property{RoofAge: 5}, nil)

	assert.Equal(t, TypeMultiple, got.DamageType)
	assert.Equal(t, SeverityModerate, got.DamageSeverity)
	assert.Contains(t, got.DamageDescription, "70 mph")
	// an older severe event still raises urgency
	assert.Equal(t, UrgencyHigh, got.UrgencyLevel)
}

func TestAssess_UnfiledClaimDominatesAge(t *testing.T) {
	events := []customerdomain.WeatherEvent{{EventType: "wind", EventDate: stormDate, Severity: "minor", DamageReported: true}}
	got := Assess(events, &customerdomain.Property{RoofAge: 25}, nil)
	assert.Equal(t, UrgencyUrgent, got.UrgencyLevel)
}

func TestAssess_IntelNotes(t *testing.T) {
	intel := []customerdomain.IntelItem{
		{Category: "sales", Title: "Prefers morning calls"},
		{Category: "property", Title: "Skylight flashing worn"},
		{Category: "sales", Title: "Neighbor mentioned", Content: "saw a leak in the garage"},
		{Category: "weather", Title: "Third relevant note"},
	}
	got := Assess(nil, nil, intel)
	assert.Contains(t, got.DamageDescription, "Field notes: Skylight flashing worn; Neighbor mentioned.")
	assert.NotContains(t, got.DamageDescription, "Third relevant note")
	assert.NotContains(t, got.DamageDescription, "morning calls")
}

func TestAssess_Deterministic(t *testing.T) {
	events := []customerdomain.WeatherEvent{{EventType: "tornado", EventDate: stormDate, WindSpeed: 110, Severity: "catastrophic"}}
	p := &customerdomain.Property{RoofAge: 12}
	assert.Equal(t, Assess(events, p, nil), Assess(events, p, nil))
}

func TestLookupFallbacks(t *testing.T) {
	assert.Equal(t, actionByKey[lookupKey{SeveritySevere, "wind"}], recommendedAction(SeveritySevere, "hurricane"))
	assert.Equal(t, actionBySeverity[SeverityMinor], recommendedAction(SeverityMinor, "flood"))
	assert.Equal(t, defaultAction, recommendedAction("unknown", "flood"))
	assert.Equal(t, defaultInsurance, insuranceRecommendation("", ""))
}
