package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/stormline/roofcrm/internal/proposal/domain"
	"github.com/stormline/roofcrm/internal/proposal/format"
)

const workmanshipWarrantyYears = 10

// TemplateContentStrategy fills fixed prose blocks from the input. Output depends
// only on the input, so identical inputs always produce identical content.
type TemplateContentStrategy struct{}

func (TemplateContentStrategy) Source() domain.ContentSource { return domain.ContentSourceTemplate }

func (TemplateContentStrategy) Generate(_ context.Context, in Input) (domain.Content, error) {
	return Template(in), nil
}

// Template renders all sections. InsuranceNotes is empty when no carrier is on file.
func Template(in Input) domain.Content {
	m := in.Recommended.Material
	bd := in.Recommended.Breakdown
	name := valueOr(in.Customer.Name(), "Homeowner")
	address := valueOr(in.Property.FullAddress(), "your property")
	validDays := in.ValidDays
	if validDays <= 0 {
		validDays = 30
	}

	out := domain.Content{
		ExecutiveSummary: fmt.Sprintf(
			"%s, our assessment of %s found %s rated %s. We recommend a complete roof replacement with %s (%s grade) "+
				"for a total investment of %s, restoring full protection to your home.",
			name, address, damagePhrase(in.Damage.DamageType), valueOr(in.Damage.DamageSeverity, "minor"),
			m.Brand, m.Grade, format.USD(bd.TotalPrice)),
		ScopeOfWork: fmt.Sprintf(
			"We will replace approximately %d squares of roofing at %s. The project covers removal of the existing roof down to the deck, "+
				"inspection and repair of any compromised decking, installation of new underlayment and ice and water shield, "+
				"new flashing, starter and ridge components, and %s shingles, followed by complete cleanup and haul-away of all debris.",
			bd.RoofSquares, address, m.Brand),
		ScopeDetails:       scopeDetails(in.LineItems),
		ValueProposition:   valueProposition(in),
		WarrantyDetails:    warrantyDetails(m.Brand, m.WarrantyYears),
		TermsAndConditions: termsAndConditions(validDays),
		CallToAction:       callToAction(in.Damage.UrgencyLevel, name),
	}

	if in.Insurance.HasCarrier() {
		out.InsuranceNotes = insuranceNotes(in)
	}
	return out
}

func damagePhrase(damageType string) string {
	switch damageType {
	case "", "age":
		return "age-related wear"
	case "multiple":
		return "damage from multiple storm events"
	default:
		return damageType + " damage"
	}
}

func scopeDetails(items []domain.LineItem) string {
	if len(items) == 0 {
		return "Full tear-off, installation of new roofing system, flashing, ventilation review and debris disposal."
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%d %s)", item.Description, item.Quantity, pluralUnit(item.Unit, item.Quantity)))
	}
	return strings.Join(lines, "\n")
}

func pluralUnit(unit string, qty int64) string {
	if qty == 1 || unit == "" {
		return unit
	}
	return unit + "s"
}

func valueProposition(in Input) string {
	m := in.Recommended.Material
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s-grade roofing system chosen for the conditions at your property.", m.Brand, m.Grade)
	if len(m.Features) > 0 {
		fmt.Fprintf(&b, " Key features: %s.", strings.Join(m.Features, ", "))
	}
	b.WriteString(" Our crews are licensed, insured and manufacturer-certified, and every project is managed from permit to final inspection by a single point of contact.")
	return b.String()
}

func warrantyDetails(brand string, years int) string {
	return fmt.Sprintf(
		"%s shingles carry a %d-year limited manufacturer warranty. In addition, we provide a %d-year workmanship warranty "+
			"covering installation defects, transferable once if the home is sold.",
		brand, years, workmanshipWarrantyYears)
}

func insuranceNotes(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "We work directly with %s on your behalf.", strings.TrimSpace(in.Insurance.Carrier))
	if claim := strings.TrimSpace(in.Insurance.ClaimNumber); claim != "" {
		fmt.Fprintf(&b, " Claim number %s is on file.", claim)
	}
	if in.Insurance.DeductibleAmount > 0 {
		fmt.Fprintf(&b, " Your responsibility is typically limited to your %s deductible.", format.USD(in.Insurance.DeductibleAmount))
	}
	if rec := strings.TrimSpace(in.Damage.InsuranceRecommendation); rec != "" {
		b.WriteString(" ")
		b.WriteString(rec)
	}
	b.WriteString(" We will document the damage with photos and measurements and can meet your adjuster on site.")
	return b.String()
}

func termsAndConditions(validDays int) string {
	return fmt.Sprintf(
		"This proposal is valid for %d days from the date issued. A deposit is due at contract signing, with the balance due upon completion. "+
			"Additional decking replacement, if required, is billed per sheet at the contracted rate. Work is scheduled in order of signed contracts and is subject to weather.",
		validDays)
}

func callToAction(urgency, name string) string {
	switch urgency {
	case "urgent":
		return fmt.Sprintf("%s, your roof has reported damage with no claim filed yet. Contact us today so we can secure your home and help you file before deadlines pass.", name)
	case "high":
		return fmt.Sprintf("%s, we recommend moving forward soon to prevent further damage. Reply to this proposal or call us to reserve your installation date.", name)
	default:
		return fmt.Sprintf("%s, when you are ready, sign this proposal or call us to schedule your installation.", name)
	}
}
