package content

import (
	"fmt"
	"strings"

	"github.com/stormline/roofcrm/internal/proposal/format"
)

const systemPrompt = `You are a senior sales consultant for a residential storm-restoration roofing contractor.
Write clear, honest, homeowner-friendly proposal copy. Do not invent prices, warranties or facts that are not in the provided context.

Respond with a single JSON object and nothing else. It must have exactly these string fields:
  "executiveSummary"    2-3 sentences summarizing the damage and the recommended solution
  "scopeOfWork"         one paragraph describing the replacement project
  "scopeDetails"        the work steps, one per line
  "valueProposition"    why the recommended material and contractor are a good choice
  "warrantyDetails"     the manufacturer and workmanship warranty coverage
  "insuranceNotes"      how we help with the insurance claim, or "" when no carrier is on file
  "termsAndConditions"  payment terms, proposal validity and scheduling conditions
  "callToAction"        a short closing that asks the homeowner to move forward`

func buildUserPrompt(in Input) string {
	var b strings.Builder

	b.WriteString("CUSTOMER\n")
	fmt.Fprintf(&b, "Name: %s\n", in.Customer.Name())
	fmt.Fprintf(&b, "Property: %s\n", in.Property.FullAddress())

	b.WriteString("\nPROPERTY\n")
	fmt.Fprintf(&b, "Square footage: %d\n", in.Property.SquareFootage)
	fmt.Fprintf(&b, "Stories: %d\n", in.Property.Stories)
	fmt.Fprintf(&b, "Roof pitch: %s\n", valueOr(in.Property.RoofPitch, "unknown"))
	fmt.Fprintf(&b, "Roof type: %s\n", valueOr(in.Property.RoofType, "unknown"))
	fmt.Fprintf(&b, "Roof age: %d years\n", in.Property.RoofAge)

	b.WriteString("\nDAMAGE ASSESSMENT\n")
	fmt.Fprintf(&b, "Type: %s\n", in.Damage.DamageType)
	fmt.Fprintf(&b, "Severity: %s\n", in.Damage.DamageSeverity)
	fmt.Fprintf(&b, "Urgency: %s\n", in.Damage.UrgencyLevel)
	fmt.Fprintf(&b, "Description: %s\n", in.Damage.DamageDescription)
	fmt.Fprintf(&b, "Affected areas: %s\n", strings.Join(in.Damage.AffectedAreas, ", "))
	fmt.Fprintf(&b, "Recommended action: %s\n", in.Damage.RecommendedAction)

	b.WriteString("\nINSURANCE\n")
	if in.Insurance.HasCarrier() {
		fmt.Fprintf(&b, "Carrier: %s\n", in.Insurance.Carrier)
		if in.Insurance.ClaimNumber != "" {
			fmt.Fprintf(&b, "Claim number: %s\n", in.Insurance.ClaimNumber)
		}
		if in.Insurance.DeductibleAmount > 0 {
			fmt.Fprintf(&b, "Deductible: %s\n", format.USD(in.Insurance.DeductibleAmount))
		}
		fmt.Fprintf(&b, "Guidance: %s\n", in.Damage.InsuranceRecommendation)
	} else {
		b.WriteString("No carrier on file.\n")
	}

	m := in.Recommended.Material
	bd := in.Recommended.Breakdown
	b.WriteString("\nRECOMMENDED OPTION\n")
	fmt.Fprintf(&b, "Material: %s (%s grade)\n", m.Brand, m.Grade)
	fmt.Fprintf(&b, "Manufacturer warranty: %d years\n", m.WarrantyYears)
	if len(m.Features) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(m.Features, "; "))
	}
	fmt.Fprintf(&b, "Roof size: %d squares\n", bd.RoofSquares)
	fmt.Fprintf(&b, "Total investment: %s\n", format.USD(bd.TotalPrice))
	if bd.DiscountAmount != 0 {
		fmt.Fprintf(&b, "Discount: %s (%s)\n", format.USD(bd.DiscountAmount), bd.DiscountReason)
	}

	if len(in.Options) > 0 {
		b.WriteString("\nALL OPTIONS\n")
		for _, o := range in.Options {
			fmt.Fprintf(&b, "- %s: %s, %s\n", o.Material.Grade, o.Material.Brand, format.USD(o.Breakdown.TotalPrice))
		}
	}

	fmt.Fprintf(&b, "\nProposal validity: %d days\n", in.ValidDays)
	return b.String()
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
