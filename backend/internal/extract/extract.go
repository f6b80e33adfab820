// Package extract turns text chunks into knowledge-graph triplets using
// an OpenAI-compatible chat endpoint.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	apperrors "github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/errors"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/logger"
	"go.uber.org/zap"
)

// Triplet is one extracted (subject, predicate, object) relation.
type Triplet struct {
	Subject  string
	Relation string
	Object   string
}

// Extractor sends chunk text to the LLM and parses triplet lines from the
// response.
type Extractor struct {
	client      *openai.Client
	model       string
	maxTriplets int
	logger      *zap.Logger
}

const promptTemplate = `Below is some text. Extract up to %d knowledge triplets from it.
A knowledge triplet has the form (subject, predicate, object). Keep each
element short. Output one triplet per line, nothing else.

Examples:
Text: Alice is Bob's mother.
(Alice, is mother of, Bob)
Text: The Eiffel Tower is located in Paris.
(Eiffel Tower, is located in, Paris)

Text: %s
Triplets:`

// NewExtractor creates an extractor for an OpenAI-compatible endpoint.
// Proxies like LiteLLM accept any key, so an empty apiKey is replaced
// with a dummy value.
func NewExtractor(baseURL, apiKey, model string, maxTriplets int) *Extractor {
	if apiKey == "" {
		apiKey = "dummy-key"
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL + "/v1"

	return &Extractor{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTriplets: maxTriplets,
		logger:      logger.Named("extract"),
	}
}

// ExtractTriplets asks the LLM for up to maxTriplets triplets from text.
// Transient failures are retried with linear backoff before giving up.
func (e *Extractor) ExtractTriplets(ctx context.Context, text string) ([]Triplet, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, e.maxTriplets, text),
			},
		},
		Temperature: 0,
	}

	var resp openai.ChatCompletionResponse
	var err error
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			e.logger.Warn("Retrying triplet extraction request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err = e.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}
		e.logger.Error("Triplet extraction request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", e.model),
		)
	}
	if err != nil {
		return nil, apperrors.NewExtractLLMFailed(e.model, maxRetries, err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewExtractLLMFailed(e.model, maxRetries, fmt.Errorf("no choices in response"))
	}

	triplets := ParseTriplets(resp.Choices[0].Message.Content)
	if len(triplets) > e.maxTriplets {
		triplets = triplets[:e.maxTriplets]
	}

	e.logger.Debug("Triplets extracted",
		zap.Int("count", len(triplets)),
		zap.Int("text_len", len(text)),
	)
	return triplets, nil
}

// ParseTriplets reads "(subject, predicate, object)" lines out of an LLM
// response, ignoring anything that does not match. Lines with extra
// commas fold the overflow into the object.
func ParseTriplets(content string) []Triplet {
	var out []Triplet
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "(") || !strings.HasSuffix(line, ")") {
			continue
		}
		inner := line[1 : len(line)-1]
		parts := strings.SplitN(inner, ",", 3)
		if len(parts) != 3 {
			continue
		}
		t := Triplet{
			Subject:  strings.TrimSpace(parts[0]),
			Relation: strings.TrimSpace(parts[1]),
			Object:   strings.TrimSpace(parts[2]),
		}
		if t.Subject == "" || t.Object == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
