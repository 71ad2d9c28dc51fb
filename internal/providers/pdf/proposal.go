package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	proposaldomain "github.com/stormline/roofcrm/internal/proposal/domain"
	"github.com/stormline/roofcrm/internal/proposal/format"
)

const dateLayout = "January 2, 2006"

type ProposalData struct {
	ProposalNumber  string
	Title           string
	IssueDate       string
	ValidUntil      string
	CustomerName    string
	PropertyAddress string

	DamageSummary string
	Urgency       string
	Material      string

	Items []ProposalItem

	Subtotal string
	Discount string
	Tax      string
	Total    string

	Sections []Section
}

type ProposalItem struct {
	Description string
	Qty         string
	UnitPrice   string
	Amount      string
}

// Section is one narrative block. Sections with an empty body are skipped.
type Section struct {
	Heading string
	Body    string
}

// BuildProposalData prepares a persisted proposal for rendering.
func BuildProposalData(p *proposaldomain.Proposal) (ProposalData, error) {
	if p == nil {
		return ProposalData{}, proposaldomain.ErrNilProposal
	}

	var lineItems []proposaldomain.LineItem
	if len(p.LineItems) > 0 {
		if err := json.Unmarshal(p.LineItems, &lineItems); err != nil {
			return ProposalData{}, fmt.Errorf("decode line items: %w", err)
		}
	}

	items := make([]ProposalItem, 0, len(lineItems))
	for _, li := range lineItems {
		items = append(items, ProposalItem{
			Description: li.Description,
			Qty:         strconv.FormatInt(li.Quantity, 10) + " " + li.Unit,
			UnitPrice:   format.USD(li.UnitPrice),
			Amount:      format.USD(li.TotalPrice),
		})
	}

	damage := strings.TrimSpace(p.DamageDescription)
	if p.AffectedAreas != "" {
		damage += " Affected areas: " + p.AffectedAreas + "."
	}

	data := ProposalData{
		ProposalNumber:  p.ProposalNumber,
		Title:           p.Title,
		IssueDate:       p.CreatedAt.Format(dateLayout),
		ValidUntil:      p.ValidUntil.Format(dateLayout),
		CustomerName:    p.CustomerName,
		PropertyAddress: p.PropertyAddr,
		DamageSummary:   strings.TrimSpace(damage),
		Urgency:         p.UrgencyLevel,
		Material:        fmt.Sprintf("%s (%s grade)", p.MaterialBrand, p.MaterialGrade),
		Items:           items,
		Subtotal:        format.USD(p.Subtotal + p.DiscountAmount),
		Tax:             format.USD(p.TaxAmount),
		Total:           format.USD(p.TotalPrice),
		Sections: []Section{
			{Heading: "Executive Summary", Body: p.ExecutiveSummary},
			{Heading: "Scope of Work", Body: p.ScopeOfWork},
			{Heading: "Scope Details", Body: p.ScopeDetails},
			{Heading: "Why This Roof", Body: p.ValueProposition},
			{Heading: "Warranty", Body: p.WarrantyDetails},
			{Heading: "Insurance Assistance", Body: p.InsuranceNotes},
			{Heading: "Terms and Conditions", Body: p.TermsAndConditions},
			{Heading: "Next Steps", Body: p.CallToAction},
		},
	}
	if p.DiscountAmount != 0 {
		data.Discount = format.USD(-p.DiscountAmount)
		if p.DiscountReason != "" {
			data.Discount += " (" + p.DiscountReason + ")"
		}
	}
	return data, nil
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateProposal(_ context.Context, proposal ProposalData) (io.Reader, error) {

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, proposal.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Proposal number: "+proposal.ProposalNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+proposal.IssueDate, props.Text{Top: 4}),
			text.New("Valid until: "+proposal.ValidUntil, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Prepared for", props.Text{Style: fontstyle.Bold}),
			text.New(proposal.CustomerName, props.Text{Top: 5}),
			text.New(proposal.PropertyAddress, props.Text{Top: 9}),
		),
	)

	if proposal.DamageSummary != "" {
		m.AddRow(8, text.NewCol(12, "Damage Assessment", props.Text{Size: 12, Style: fontstyle.Bold, Top: 2}))
		m.AddRow(18, text.NewCol(12, proposal.DamageSummary, props.Text{Size: 9}))
		if proposal.Urgency != "" {
			m.AddRow(6, text.NewCol(12, "Urgency: "+proposal.Urgency, props.Text{Size: 9, Style: fontstyle.Italic}))
		}
	}

	m.AddRow(10, text.NewCol(12, "Recommended system: "+proposal.Material, props.Text{Size: 10, Style: fontstyle.Bold, Top: 3}))

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, item := range proposal.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Qty, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	totalRow := func(label, value string, style fontstyle.Type) {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, label, props.Text{Size: 9, Style: style}),
			text.NewCol(2, value, props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}
	totalRow("Subtotal", proposal.Subtotal, fontstyle.Normal)
	if proposal.Discount != "" {
		totalRow("Discount", proposal.Discount, fontstyle.Normal)
	}
	totalRow("Tax", proposal.Tax, fontstyle.Normal)
	totalRow("Total", proposal.Total, fontstyle.Bold)

	for _, section := range proposal.Sections {
		if strings.TrimSpace(section.Body) == "" {
			continue
		}
		m.AddRow(10, text.NewCol(12, section.Heading, props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}))
		m.AddRow(sectionHeight(section.Body), text.NewCol(12, section.Body, props.Text{Size: 9}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

// sectionHeight approximates the row height a body of text needs at size 9.
func sectionHeight(body string) float64 {
	lines := len(body)/110 + strings.Count(body, "\n") + 1
	return float64(lines) * 4.5
}
