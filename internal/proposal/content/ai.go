package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stormline/roofcrm/internal/llm"
	"github.com/stormline/roofcrm/internal/proposal/domain"
)

// AIContentStrategy asks the chat backend for the eight sections as JSON.
type AIContentStrategy struct {
	client llm.ChatClient
}

func NewAIContentStrategy(client llm.ChatClient) *AIContentStrategy {
	return &AIContentStrategy{client: client}
}

func (s *AIContentStrategy) Source() domain.ContentSource { return domain.ContentSourceAI }

// Keys of the JSON object requested in the prompt. Every key is required and
// must hold a string; only insuranceNotes may be blank.
const (
	keyExecutiveSummary   = "executiveSummary"
	keyScopeOfWork        = "scopeOfWork"
	keyScopeDetails       = "scopeDetails"
	keyValueProposition   = "valueProposition"
	keyWarrantyDetails    = "warrantyDetails"
	keyInsuranceNotes     = "insuranceNotes"
	keyTermsAndConditions = "termsAndConditions"
	keyCallToAction       = "callToAction"
)

var contentKeys = []string{
	keyExecutiveSummary,
	keyScopeOfWork,
	keyScopeDetails,
	keyValueProposition,
	keyWarrantyDetails,
	keyInsuranceNotes,
	keyTermsAndConditions,
	keyCallToAction,
}

// Generate detaches from the caller's cancellation; the client's own timeout
// bounds the call.
func (s *AIContentStrategy) Generate(ctx context.Context, in Input) (domain.Content, error) {
	if s == nil || s.client == nil {
		return domain.Content{}, ErrUnavailable
	}

	resp, err := s.client.Chat(context.WithoutCancel(ctx), llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: buildUserPrompt(in)},
		},
		JSON: true,
	})
	if err != nil {
		return domain.Content{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp == nil {
		return domain.Content{}, ErrEmpty
	}

	return parseContent(resp.Message.Content)
}

func parseContent(raw string) (domain.Content, error) {
	cleaned := llm.ExtractJSON(raw)
	if cleaned == "" {
		return domain.Content{}, ErrEmpty
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return domain.Content{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	values := make(map[string]string, len(contentKeys))
	for _, key := range contentKeys {
		value, err := stringField(fields, key)
		if err != nil {
			return domain.Content{}, err
		}
		if value == "" && key != keyInsuranceNotes {
			return domain.Content{}, fmt.Errorf("%w: %s is blank", ErrEmpty, key)
		}
		values[key] = value
	}

	return domain.Content{
		ExecutiveSummary:   values[keyExecutiveSummary],
		ScopeOfWork:        values[keyScopeOfWork],
		ScopeDetails:       values[keyScopeDetails],
		ValueProposition:   values[keyValueProposition],
		WarrantyDetails:    values[keyWarrantyDetails],
		InsuranceNotes:     values[keyInsuranceNotes],
		TermsAndConditions: values[keyTermsAndConditions],
		CallToAction:       values[keyCallToAction],
	}, nil
}

// stringField reads key as a JSON string. A missing key, null or any other
// JSON type is a parse failure.
func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	rawValue, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrParse, key)
	}
	rawValue = bytes.TrimSpace(rawValue)
	if len(rawValue) == 0 || rawValue[0] != '"' {
		return "", fmt.Errorf("%w: %s is not a string", ErrParse, key)
	}
	var value string
	if err := json.Unmarshal(rawValue, &value); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrParse, key, err)
	}
	return strings.TrimSpace(value), nil
}
