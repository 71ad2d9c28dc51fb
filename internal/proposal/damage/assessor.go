// Package damage derives a DamageAssessment from a customer's storm history,
// property and field intel. Assess is pure and deterministic.
package damage

import (
	"fmt"
	"strconv"
	"strings"

	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stormline/roofcrm/internal/proposal/domain"
)

const (
	SeverityMinor        = "minor"
	SeverityModerate     = "moderate"
	SeveritySevere       = "severe"
	SeverityCatastrophic = "catastrophic"

	UrgencyStandard = "standard"
	UrgencyHigh     = "high"
	UrgencyUrgent   = "urgent"

	TypeAge      = "age"
	TypeMultiple = "multiple"
	TypeHail     = "hail"

	agingRoofYears = 15
	oldRoofYears   = 20
	maxIntelNotes  = 2
	largeHailInch  = 1.0
)

const dateLayout = "January 2, 2006"

// Assess builds the assessment. events must be sorted most recent first; events[0]
// is treated as the most recent storm. property may be nil.
func Assess(events []customerdomain.WeatherEvent, property *customerdomain.Property, intel []customerdomain.IntelItem) domain.DamageAssessment {
	roofAge := 0
	if property != nil {
		roofAge = property.RoofAge
	}

	out := domain.DamageAssessment{
		DamageType:     TypeAge,
		DamageSeverity: SeverityMinor,
		UrgencyLevel:   UrgencyStandard,
	}

	var recent *customerdomain.WeatherEvent
	if len(events) > 0 {
		recent = &events[0]
		if t := normalize(recent.EventType); t != "" {
			out.DamageType = t
		}
		if sev := normalize(recent.Severity); sev != "" {
			out.DamageSeverity = sev
		}
		if distinctTypes(events) > 1 {
			out.DamageType = TypeMultiple
		}
	}

	switch {
	case recent != nil:
		out.DamageDescription, out.AffectedAreas = describeEvent(*recent)
	case roofAge >= agingRoofYears:
		out.DamageSeverity = SeverityModerate
		if roofAge >= oldRoofYears {
			out.DamageSeverity = SeveritySevere
		}
		out.DamageDescription = fmt.Sprintf(
			"The roof is approximately %d years old and is at or beyond the typical service life of asphalt shingles. "+
				"Granule loss, brittle or curling shingles and deteriorated sealant are expected at this age and increase the risk of leaks.",
			roofAge)
		out.AffectedAreas = []string{"roof shingles", "underlayment", "flashing"}
	default:
		out.DamageDescription = "No recent storm activity is on record for this property. " +
			"A full roof inspection is recommended to document current condition and identify any wear or hidden damage."
		out.AffectedAreas = []string{"roof"}
	}

	if notes := intelNotes(intel); len(notes) > 0 {
		out.DamageDescription += " Field notes: " + strings.Join(notes, "; ") + "."
	}

	if hasSevereEvent(events) || roofAge >= oldRoofYears {
		out.UrgencyLevel = UrgencyHigh
	}
	if recent != nil && recent.DamageReported && !recent.ClaimFiled {
		out.UrgencyLevel = UrgencyUrgent
	}

	out.RecommendedAction = recommendedAction(out.DamageSeverity, out.DamageType)
	out.InsuranceRecommendation = insuranceRecommendation(out.DamageSeverity, out.DamageType)
	return out
}

func describeEvent(ev customerdomain.WeatherEvent) (string, []string) {
	date := ev.EventDate.Format(dateLayout)
	eventType := normalize(ev.EventType)

	switch {
	case eventType == TypeHail:
		areas := []string{"roof shingles", "gutters and downspouts", "roof vents"}
		if ev.HailSize >= largeHailInch {
			areas = append(areas, "siding/window screens")
		}
		return fmt.Sprintf(
			"A hailstorm on %s produced hailstones up to %s\" in diameter at this property. "+
				"Hail of this size can fracture shingle mats, dislodge granules and bruise the roof surface, shortening its service life even when damage is not visible from the ground.",
			date, formatInches(ev.HailSize)), areas
	case isWind(eventType):
		return fmt.Sprintf(
			"A %s event on %s brought winds of %s mph to this property. "+
				"Wind at this speed can lift, crease or remove shingles and break their sealant bond, leaving the roof exposed to water intrusion.",
			eventType, date, strconv.FormatFloat(ev.WindSpeed, 'f', 0, 64)), []string{"roof shingles", "ridge caps", "flashing"}
	default:
		label := eventType
		if label == "" {
			label = "storm"
		}
		return fmt.Sprintf(
			"A %s event on %s was recorded at this property. Storm exposure of this kind warrants a detailed roof inspection to document any damage.",
			label, date), []string{"roof"}
	}
}

func isWind(eventType string) bool {
	switch eventType {
	case "wind", "tornado", "hurricane":
		return true
	}
	return false
}

func hasSevereEvent(events []customerdomain.WeatherEvent) bool {
	for _, ev := range events {
		switch normalize(ev.Severity) {
		case SeveritySevere, SeverityCatastrophic:
			return true
		}
	}
	return false
}

func distinctTypes(events []customerdomain.WeatherEvent) int {
	seen := make(map[string]struct{}, len(events))
	for _, ev := range events {
		seen[normalize(ev.EventType)] = struct{}{}
	}
	return len(seen)
}

func intelNotes(items []customerdomain.IntelItem) []string {
	notes := make([]string, 0, maxIntelNotes)
	for _, item := range items {
		if len(notes) == maxIntelNotes {
			break
		}
		if !relevantIntel(item) {
			continue
		}
		if title := strings.TrimSpace(item.Title); title != "" {
			notes = append(notes, title)
		}
	}
	return notes
}

func relevantIntel(item customerdomain.IntelItem) bool {
	switch normalize(item.Category) {
	case "property", "weather":
		return true
	}
	text := strings.ToLower(item.Title + " " + item.Content)
	for _, kw := range []string{"damage", "leak", "missing"} {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
