package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/stormline/roofcrm/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestGinMiddleware_ProposalRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := recordSpans(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := obscontext.WithRequestID(c.Request.Context(), "req-1")
		ctx = obscontext.WithActor(ctx, "user", "7")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(GinMiddleware())
	r.GET("/api/proposals/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/proposals/generate", func(c *gin.Context) {
		c.Set(GradeKey, "premium")
		c.AbortWithStatus(http.StatusTooManyRequests)
	})
	r.GET("/api/customers/:id/proposals", func(c *gin.Context) {
		_ = c.Error(errors.New("connection refused"))
		c.AbortWithStatus(http.StatusInternalServerError)
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/proposals/42", nil),
		httptest.NewRequest(http.MethodPost, "/api/proposals/generate", nil),
		httptest.NewRequest(http.MethodGet, "/api/customers/9/proposals", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	get := spans[0]
	assert.Equal(t, "HTTP GET /api/proposals/:id", get.Name())
	attrs := spanAttrs(get)
	assert.Equal(t, "42", attrs["proposal.id"].AsString())
	assert.Equal(t, "req-1", attrs["request_id"].AsString())
	assert.Equal(t, "user", attrs["actor.type"].AsString())
	assert.Equal(t, int64(200), attrs["http.status_code"].AsInt64())
	assert.NotContains(t, attrs, attribute.Key("customer.id"))
	assert.Equal(t, codes.Unset, get.Status().Code)

	limited := spanAttrs(spans[1])
	assert.Equal(t, "premium", limited["proposal.grade"].AsString())
	assert.True(t, limited["proposal.rate_limited"].AsBool())
	assert.NotContains(t, limited, attribute.Key("proposal.id"))

	failed := spans[2]
	assert.Equal(t, "9", spanAttrs(failed)["customer.id"].AsString())
	assert.Equal(t, codes.Error, failed.Status().Code)
	require.Len(t, failed.Events(), 1)
	assert.Equal(t, "exception", failed.Events()[0].Name)
}

func TestGinMiddleware_UnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := recordSpans(t)

	r := gin.New()
	r.Use(GinMiddleware())
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP GET unknown", spans[0].Name())
	assert.Equal(t, int64(404), spanAttrs(spans[0])["http.status_code"].AsInt64())
}
