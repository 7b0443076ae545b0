package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"tradeguard/internal/errors"
	"tradeguard/internal/models"
	"tradeguard/pkg/utils"
)

const explainerSystemPrompt = `You are an educational trading-risk reviewer. You receive the computed
metrics, detected risk findings, and score of a retail trader's
historical ledger. Explain, per detected risk, what the pattern means
and why it matters, in plain language. Rules:
- Educational and retrospective only. Never give trading advice,
  predictions, signals, or buy/sell suggestions.
- Do not invent numbers; use only values present in the input.
- Keep each explanation under 120 words.`

// OpenAIExplainer generates explanations with a remote chat-completion
// call. Any failure is returned as an ExplainError; callers substitute
// demo content instead of propagating it into rendering.
type OpenAIExplainer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIExplainer creates a remote explainer.
func NewOpenAIExplainer(apiKey, model string, maxTokens int) *OpenAIExplainer {
	return &OpenAIExplainer{
		client:    openai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name identifies the implementation.
func (e *OpenAIExplainer) Name() string { return "openai" }

// Explain sends the analysis triple to the model and parses one
// explanation per detected risk from the response.
func (e *OpenAIExplainer) Explain(ctx context.Context, result models.AnalysisResult) (*Explanation, error) {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, errors.NewExplainError("openai", "encoding analysis", err)
	}

	userPrompt := fmt.Sprintf(
		"Analysis result:\n%s\n\nRespond with one paragraph per detected risk, each starting with the risk name followed by a colon, then a closing summary paragraph starting with \"summary:\".",
		payload)

	resp, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() (openai.ChatCompletionResponse, error) {
		return e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     e.model,
			MaxTokens: e.maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: explainerSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		})
	})
	if err != nil {
		return nil, errors.NewExplainError("openai", "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewExplainError("openai", "chat completion", errors.ErrExplainerOffline)
	}

	return parseResponse(resp.Choices[0].Message.Content, result.DetectedRisks), nil
}

// parseResponse splits the model output into per-risk paragraphs. Lines
// that match no detected risk fold into the summary, so a sloppy
// response still yields a usable explanation.
func parseResponse(content string, detected []string) *Explanation {
	exp := &Explanation{
		RiskExplanations: make(map[string]string),
		Source:           "openai",
	}

	var summary []string
	for _, para := range strings.Split(content, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lower := strings.ToLower(para)
		matched := false
		for _, name := range detected {
			if strings.HasPrefix(lower, strings.ToLower(name)) {
				text := strings.TrimSpace(strings.TrimPrefix(para[len(name):], ":"))
				exp.RiskExplanations[name] = text
				matched = true
				break
			}
		}
		if !matched {
			if strings.HasPrefix(lower, "summary:") {
				para = strings.TrimSpace(para[len("summary:"):])
			}
			summary = append(summary, para)
		}
	}

	exp.Summary = strings.Join(summary, " ")
	return exp
}
