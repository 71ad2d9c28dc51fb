package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	proposaldomain "github.com/stormline/roofcrm/internal/proposal/domain"
	"github.com/stormline/roofcrm/internal/providers/pdf"
	"github.com/stormline/roofcrm/pkg/db/pagination"
)

type generateProposalResponse struct {
	proposaldomain.GenerateResult
	ID             string `json:"id,omitempty"`
	ProposalNumber string `json:"proposal_number,omitempty"`
}

// GenerateProposal runs the generation pipeline. Pipeline failures are reported
// in the result envelope with a 200; only malformed requests and failed saves
// produce an error response.
func (s *Server) GenerateProposal(c *gin.Context) {
	var req proposaldomain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	save, err := parseOptionalBool(c.Query("save"))
	if err != nil {
		AbortWithError(c, newValidationError("save", "invalid_save", "invalid save"))
		return
	}

	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.CreatedByID = strings.TrimSpace(req.CreatedByID)
	if req.CreatedByID == "" {
		req.CreatedByID = strings.TrimSpace(c.GetHeader("X-Actor-Id"))
	}
	if req.CustomerID == "" {
		AbortWithError(c, newValidationError("customer_id", "required", "customer_id is required"))
		return
	}

	ctx := c.Request.Context()
	result := s.proposalSvc.GenerateProposal(ctx, req)
	resp := generateProposalResponse{GenerateResult: result}

	if save != nil && *save && result.Success {
		saved, err := s.proposalSvc.SaveProposal(ctx, result.Proposal, req.CreatedByID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp.ID = saved.ID.String()
		resp.ProposalNumber = saved.ProposalNumber
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetProposalByID(c *gin.Context) {
	item, err := s.proposalSvc.GetProposal(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DownloadProposalPDF(c *gin.Context) {
	ctx := c.Request.Context()

	item, err := s.proposalSvc.GetProposal(ctx, strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := pdf.BuildProposalData(item)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.pdfProvider == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	reader, err := s.pdfProvider.GenerateProposal(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if reader == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	c.DataFromReader(http.StatusOK, -1, "application/pdf", reader, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, pdfFilename(item)),
	})
}

func pdfFilename(p *proposaldomain.Proposal) string {
	name := p.ProposalNumber
	if customer := slug.Make(p.CustomerName); customer != "" {
		name += "-" + customer
	}
	return name + ".pdf"
}

func (s *Server) ListCustomerProposals(c *gin.Context) {
	var query pagination.Query
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.proposalSvc.ListProposals(c.Request.Context(), proposaldomain.ListProposalsRequest{
		CustomerID: strings.TrimSpace(c.Param("id")),
		PageToken:  strings.TrimSpace(query.PageToken),
		PageSize:   int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
