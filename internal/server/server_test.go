package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stormline/roofcrm/internal/config"
	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stormline/roofcrm/internal/observability"
	proposaldomain "github.com/stormline/roofcrm/internal/proposal/domain"
	"github.com/stormline/roofcrm/internal/providers/pdf"
	"github.com/stormline/roofcrm/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type fakeProposalService struct {
	generateReq  proposaldomain.GenerateRequest
	result       proposaldomain.GenerateResult
	saved        int
	saveErr      error
	proposal     *proposaldomain.Proposal
	listReq      proposaldomain.ListProposalsRequest
	previewReq   proposaldomain.PricingPreviewRequest
	previewErr   error
	previewCalls int
}

func (f *fakeProposalService) Generate(ctx context.Context, req proposaldomain.GenerateRequest) (*proposaldomain.GeneratedProposal, error) {
	return f.result.Proposal, nil
}

func (f *fakeProposalService) GenerateProposal(ctx context.Context, req proposaldomain.GenerateRequest) proposaldomain.GenerateResult {
	f.generateReq = req
	return f.result
}

func (f *fakeProposalService) SaveProposal(ctx context.Context, proposal *proposaldomain.GeneratedProposal, createdByID string) (proposaldomain.SaveResult, error) {
	if f.saveErr != nil {
		return proposaldomain.SaveResult{}, f.saveErr
	}
	f.saved++
	return proposaldomain.SaveResult{ID: snowflake.ID(42), ProposalNumber: "PR-202610-00001"}, nil
}

func (f *fakeProposalService) GetProposal(ctx context.Context, id string) (*proposaldomain.Proposal, error) {
	if id == "bad" {
		return nil, proposaldomain.ErrInvalidID
	}
	if f.proposal == nil || f.proposal.ID.String() != id {
		return nil, proposaldomain.ErrNotFound
	}
	return f.proposal, nil
}

func (f *fakeProposalService) ListProposals(ctx context.Context, req proposaldomain.ListProposalsRequest) (proposaldomain.ListProposalsResponse, error) {
	f.listReq = req
	if req.PageToken == "garbage" {
		return proposaldomain.ListProposalsResponse{}, proposaldomain.ErrInvalidPageToken
	}
	return proposaldomain.ListProposalsResponse{Proposals: []proposaldomain.Proposal{*f.proposal}}, nil
}

func (f *fakeProposalService) PricingOptions(ctx context.Context, req proposaldomain.PricingPreviewRequest) ([]proposaldomain.PricingOption, error) {
	f.previewCalls++
	f.previewReq = req
	if f.previewErr != nil {
		return nil, f.previewErr
	}
	return []proposaldomain.PricingOption{{IsRecommended: true}}, nil
}

type fakeCustomerService struct{}

func (fakeCustomerService) Aggregate(ctx context.Context, customerID string) (*customerdomain.Snapshot, error) {
	return nil, customerdomain.ErrNotFound
}

func (fakeCustomerService) GetByID(ctx context.Context, req customerdomain.GetCustomerRequest) (customerdomain.Customer, error) {
	if req.ID != "7" {
		return customerdomain.Customer{}, customerdomain.ErrNotFound
	}
	return customerdomain.Customer{ID: 7, FirstName: "Dana", LastName: "Reyes"}, nil
}

type fakePDF struct {
	data pdf.ProposalData
}

func (f *fakePDF) GenerateProposal(ctx context.Context, data pdf.ProposalData) (io.Reader, error) {
	f.data = data
	return strings.NewReader("%PDF-1.4 test"), nil
}

func newTestServer(t *testing.T, svc *fakeProposalService, limiter *ratelimit.GenerationLimiter) (*gin.Engine, *fakePDF) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := NewEngine(observability.Config{Environment: "test"}, nil)
	renderer := &fakePDF{}
	NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{Environment: "test"},
		ProposalSvc: svc,
		CustomerSvc: fakeCustomerService{},
		PDFProvider: renderer,
		GenLimiter:  limiter,
	})
	return engine, renderer
}

func doRequest(engine *gin.Engine, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func successResult() proposaldomain.GenerateResult {
	return proposaldomain.GenerateResult{
		Success: true,
		Proposal: &proposaldomain.GeneratedProposal{
			CustomerID: "7",
			Title:      "Roof Replacement Proposal - 12 Elm St",
		},
	}
}

func TestHealth(t *testing.T) {
	engine, _ := newTestServer(t, &fakeProposalService{}, nil)

	rec := doRequest(engine, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestGenerateProposal(t *testing.T) {
	svc := &fakeProposalService{result: successResult()}
	engine, _ := newTestServer(t, svc, nil)

	rec := doRequest(engine, http.MethodPost, "/api/proposals/generate", map[string]any{
		"customer_id":    "7",
		"material_grade": "premium",
	}, map[string]string{"X-Actor-Id": "user-1"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["proposal"])
	assert.NotContains(t, body, "proposal_number")
	assert.Equal(t, "user-1", svc.generateReq.CreatedByID)
	assert.Equal(t, "premium", svc.generateReq.MaterialGrade)
	assert.Zero(t, svc.saved)
}

func TestGenerateProposalSave(t *testing.T) {
	svc := &fakeProposalService{result: successResult()}
	engine, _ := newTestServer(t, svc, nil)

	rec := doRequest(engine, http.MethodPost, "/api/proposals/generate?save=true", map[string]any{
		"customer_id":   "7",
		"created_by_id": "user-2",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "42", body["id"])
	assert.Equal(t, "PR-202610-00001", body["proposal_number"])
	assert.Equal(t, 1, svc.saved)
}

func TestGenerateProposalSaveFailure(t *testing.T) {
	svc := &fakeProposalService{result: successResult(), saveErr: proposaldomain.ErrInvalidCreatedBy}
	engine, _ := newTestServer(t, svc, nil)

	rec := doRequest(engine, http.MethodPost, "/api/proposals/generate?save=true", map[string]any{
		"customer_id": "7",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "validation_error", errBody["type"])
}

func TestGenerateProposalFailureEnvelope(t *testing.T) {
	svc := &fakeProposalService{result: proposaldomain.GenerateResult{Success: false, Error: "Customer not found"}}
	engine, _ := newTestServer(t, svc, nil)

	rec := doRequest(engine, http.MethodPost, "/api/proposals/generate?save=true", map[string]any{
		"customer_id": "999",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Customer not found", body["error"])
	assert.NotContains(t, body, "proposal")
	assert.Zero(t, svc.saved)
}

func TestGenerateProposalRejectsMalformedRequests(t *testing.T) {
	engine, _ := newTestServer(t, &fakeProposalService{result: successResult()}, nil)

	rec := doRequest(engine, http.MethodPost, "/api/proposals/generate", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(engine, http.MethodPost, "/api/proposals/generate?save=maybe", map[string]any{"customer_id": "7"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/proposals/generate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	raw := httptest.NewRecorder()
	engine.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestGenerateProposalRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter, err := ratelimit.NewGenerationLimiter(nil, config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:       true,
			RedisAddr:     mr.Addr(),
			GenerateRate:  0.01,
			GenerateBurst: 1,
		},
	}, zap.NewNop())
	require.NoError(t, err)

	svc := &fakeProposalService{result: successResult()}
	engine, _ := newTestServer(t, svc, limiter)
	payload := map[string]any{"customer_id": "7", "created_by_id": "user-3"}

	first := doRequest(engine, http.MethodPost, "/api/proposals/generate", payload, nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(engine, http.MethodPost, "/api/proposals/generate", payload, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, rateLimitReasonUserRate, second.Header().Get("X-Rate-Limited-Reason"))

	other := doRequest(engine, http.MethodPost, "/api/proposals/generate", map[string]any{"customer_id": "7", "created_by_id": "user-4"}, nil)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestGenerateProposalRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter, err := ratelimit.NewGenerationLimiter(nil, config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:       true,
			RedisAddr:     mr.Addr(),
			GenerateRate:  1,
			GenerateBurst: 1,
		},
	}, zap.NewNop())
	require.NoError(t, err)
	mr.Close()

	engine, _ := newTestServer(t, &fakeProposalService{result: successResult()}, limiter)
	rec := doRequest(engine, http.MethodPost, "/api/proposals/generate", map[string]any{"customer_id": "7"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func storedProposal(t *testing.T) *proposaldomain.Proposal {
	t.Helper()
	items, err := json.Marshal([]proposaldomain.LineItem{{
		Category:    proposaldomain.CategoryMaterials,
		Description: "Architectural shingles",
		Quantity:    23,
		UnitPrice:   125,
		TotalPrice:  2875,
	}})
	require.NoError(t, err)
	return &proposaldomain.Proposal{
		ID:             snowflake.ID(99),
		ProposalNumber: "PR-202610-00003",
		CustomerID:     snowflake.ID(7),
		Status:         proposaldomain.ProposalStatusDraft,
		Title:          "Roof Replacement Proposal - 12 Elm St",
		CustomerName:   "Dana Reyes",
		PropertyAddr:   "12 Elm St",
		Subtotal:       2875,
		TotalPrice:     2875,
		LineItems:      datatypes.JSON(items),
	}
}

func TestGetProposal(t *testing.T) {
	svc := &fakeProposalService{proposal: storedProposal(t)}
	engine, _ := newTestServer(t, svc, nil)

	rec := doRequest(engine, http.MethodGet, "/api/proposals/99", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "PR-202610-00003", data["proposal_number"])

	rec = doRequest(engine, http.MethodGet, "/api/proposals/100", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(engine, http.MethodGet, "/api/proposals/bad", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadProposalPDF(t *testing.T) {
	svc := &fakeProposalService{proposal: storedProposal(t)}
	engine, renderer := newTestServer(t, svc, nil)

	rec := doRequest(engine, http.MethodGet, "/api/proposals/99/pdf", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="PR-202610-00003-dana-reyes.pdf"`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	assert.Equal(t, "PR-202610-00003", renderer.data.ProposalNumber)
	assert.Len(t, renderer.data.Items, 1)
}

func TestDownloadProposalPDFWithoutRenderer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := NewEngine(observability.Config{Environment: "test"}, nil)
	NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{Environment: "test"},
		ProposalSvc: &fakeProposalService{proposal: storedProposal(t)},
		CustomerSvc: fakeCustomerService{},
		PDFProvider: &pdf.NoOpProvider{},
	})

	rec := doRequest(engine, http.MethodGet, "/api/proposals/99/pdf", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListCustomerProposals(t *testing.T) {
	svc := &fakeProposalService{proposal: storedProposal(t)}
	engine, _ := newTestServer(t, svc, nil)

	rec := doRequest(engine, http.MethodGet, "/api/customers/7/proposals?page_size=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", svc.listReq.CustomerID)
	assert.Equal(t, int32(5), svc.listReq.PageSize)
	assert.Len(t, decode(t, rec)["proposals"], 1)

	rec = doRequest(engine, http.MethodGet, "/api/customers/7/proposals?page_token=garbage", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCustomer(t *testing.T) {
	engine, _ := newTestServer(t, &fakeProposalService{}, nil)

	rec := doRequest(engine, http.MethodGet, "/api/customers/7", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(engine, http.MethodGet, "/api/customers/8", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPricingOptions(t *testing.T) {
	svc := &fakeProposalService{}
	engine, _ := newTestServer(t, svc, nil)

	rec := doRequest(engine, http.MethodGet, "/api/pricing/options?state=tx&square_footage=1800&stories=2&roof_pitch=6/12&material_grade=premium&discount_amount=500&discount_reason=loyalty", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tx", svc.previewReq.State)
	assert.Equal(t, 1800, svc.previewReq.SquareFootage)
	assert.Equal(t, 2, svc.previewReq.Stories)
	assert.Equal(t, "6/12", svc.previewReq.RoofPitch)
	assert.Equal(t, "premium", svc.previewReq.MaterialGrade)
	require.NotNil(t, svc.previewReq.Discount)
	assert.Equal(t, int64(500), svc.previewReq.Discount.Amount)
	assert.Equal(t, "loyalty", svc.previewReq.Discount.Reason)
	assert.Len(t, decode(t, rec)["data"], 1)
}

func TestListPricingOptionsValidation(t *testing.T) {
	svc := &fakeProposalService{}
	engine, _ := newTestServer(t, svc, nil)

	rec := doRequest(engine, http.MethodGet, "/api/pricing/options?square_footage=lots", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.previewCalls)

	svc.previewErr = proposaldomain.ErrInvalidProperty
	rec = doRequest(engine, http.MethodGet, "/api/pricing/options", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decode(t, rec)["error"].(map[string]any)
	fields := errBody["errors"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "property", fields[0].(map[string]any)["field"])
}

func TestUnknownRoute(t *testing.T) {
	engine, _ := newTestServer(t, &fakeProposalService{}, nil)

	rec := doRequest(engine, http.MethodGet, "/api/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{proposaldomain.ErrInvalidMaterialGrade, http.StatusBadRequest},
		{proposaldomain.ErrCustomerNotFound, http.StatusNotFound},
		{ErrRateLimited, http.StatusTooManyRequests},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}

	typ, code := classifyErrorForLog(proposaldomain.ErrInvalidDiscount)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "invalid_discount", code)
}
