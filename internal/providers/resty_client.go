package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// restyClient is the go-resty-backed Client implementation, grounded on
// the teacher pack's Bitbucket client (scan-io-git-scan-io/internal/bitbucket)
// for request-builder shape and retry/timeout wiring.
type restyClient struct {
	http *resty.Client
	cfg  ClientConfig
}

// NewClient builds a Client for cfg.Provider. Returns ErrNoProvider if no
// API key is configured — callers treat that identically to a network
// failure and fall back to the offline path.
func NewClient(cfg ClientConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoProvider
	}
	h := resty.New().
		SetBaseURL(cfg.resolvedBaseURL()).
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(300 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &restyClient{http: h, cfg: cfg}, nil
}

func (c *restyClient) ValidateSecurity(ctx context.Context, code, systemPrompt string) (SecurityOpinion, error) {
	switch c.cfg.Provider {
	case OpenAI, XAI:
		return c.chatCompletionsSecurity(ctx, code, systemPrompt)
	case Anthropic:
		return c.anthropicSecurity(ctx, code, systemPrompt)
	case Google:
		return c.googleSecurity(ctx, code, systemPrompt)
	default:
		return SecurityOpinion{}, fmt.Errorf("providers: unsupported provider %q", c.cfg.Provider)
	}
}

func (c *restyClient) AnalyzeCode(ctx context.Context, code, systemPrompt string) (CodeOpinion, error) {
	switch c.cfg.Provider {
	case OpenAI, XAI:
		return c.chatCompletionsAnalysis(ctx, code, systemPrompt)
	case Anthropic:
		return c.anthropicAnalysis(ctx, code, systemPrompt)
	case Google:
		return c.googleAnalysis(ctx, code, systemPrompt)
	default:
		return CodeOpinion{}, fmt.Errorf("providers: unsupported provider %q", c.cfg.Provider)
	}
}

// chatCompletionsSecurity covers OpenAI and xAI's shared /chat/completions
// wire format (xAI is OpenAI-compatible per the original client).
func (c *restyClient) chatCompletionsSecurity(ctx context.Context, code, systemPrompt string) (SecurityOpinion, error) {
	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": "Analyze this code for security risks:\n\n" + code},
		},
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	}
	var out chatCompletionsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.cfg.APIKey).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err := checkResty(resp, err); err != nil {
		return SecurityOpinion{}, err
	}
	return decodeSecurityContent(out.firstContent())
}

func (c *restyClient) chatCompletionsAnalysis(ctx context.Context, code, systemPrompt string) (CodeOpinion, error) {
	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": "Review this changed code:\n\n" + code},
		},
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	}
	var out chatCompletionsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.cfg.APIKey).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err := checkResty(resp, err); err != nil {
		return CodeOpinion{}, err
	}
	return decodeCodeContent(out.firstContent())
}

func (c *restyClient) anthropicSecurity(ctx context.Context, code, systemPrompt string) (SecurityOpinion, error) {
	content, err := c.anthropicMessage(ctx, code, systemPrompt, "Analyze this code for security risks:\n\n")
	if err != nil {
		return SecurityOpinion{}, err
	}
	return decodeSecurityContent(content)
}

func (c *restyClient) anthropicAnalysis(ctx context.Context, code, systemPrompt string) (CodeOpinion, error) {
	content, err := c.anthropicMessage(ctx, code, systemPrompt, "Review this changed code:\n\n")
	if err != nil {
		return CodeOpinion{}, err
	}
	return decodeCodeContent(content)
}

func (c *restyClient) anthropicMessage(ctx context.Context, code, systemPrompt, lead string) (string, error) {
	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": lead + code},
		},
		"system":      systemPrompt,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	}
	var out anthropicResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.cfg.APIKey).
		SetHeader("anthropic-version", "2023-06-01").
		SetBody(body).
		SetResult(&out).
		Post("/v1/messages")
	if err := checkResty(resp, err); err != nil {
		return "", err
	}
	return out.firstText(), nil
}

func (c *restyClient) googleSecurity(ctx context.Context, code, systemPrompt string) (SecurityOpinion, error) {
	content, err := c.googleGenerate(ctx, code, systemPrompt, "Analyze this code for security risks:\n\n")
	if err != nil {
		return SecurityOpinion{}, err
	}
	return decodeSecurityContent(content)
}

func (c *restyClient) googleAnalysis(ctx context.Context, code, systemPrompt string) (CodeOpinion, error) {
	content, err := c.googleGenerate(ctx, code, systemPrompt, "Review this changed code:\n\n")
	if err != nil {
		return CodeOpinion{}, err
	}
	return decodeCodeContent(content)
}

func (c *restyClient) googleGenerate(ctx context.Context, code, systemPrompt, lead string) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": systemPrompt + "\n\n" + lead + code}}},
		},
		"generationConfig": map[string]any{
			"temperature":     c.cfg.Temperature,
			"maxOutputTokens": c.cfg.MaxTokens,
		},
	}
	var out googleResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.cfg.APIKey).
		SetBody(body).
		SetResult(&out).
		Post("/models/" + c.cfg.Model + ":generateContent")
	if err := checkResty(resp, err); err != nil {
		return "", err
	}
	return out.firstText(), nil
}

func checkResty(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("providers: request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("providers: %s returned %d: %s", resp.Request.URL, resp.StatusCode(), resp.String())
	}
	return nil
}

// chatCompletionsResponse covers the OpenAI/xAI-compatible wire shape.
type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r chatCompletionsResponse) firstContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (r anthropicResponse) firstText() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

type googleResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r googleResponse) firstText() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

// decodeSecurityContent parses the model's JSON reply. Providers are asked
// to answer strictly in JSON (system prompt responsibility, out of scope
// per spec.md); a non-JSON reply degrades to a low-confidence opinion
// rather than an error, since ValidateSecurity is advisory only.
func decodeSecurityContent(content string) (SecurityOpinion, error) {
	var out SecurityOpinion
	if content == "" {
		return out, fmt.Errorf("providers: empty response content")
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return SecurityOpinion{IsSafe: true, Risk: "none", Reasoning: content}, nil
	}
	return out, nil
}

func decodeCodeContent(content string) (CodeOpinion, error) {
	var out CodeOpinion
	if content == "" {
		return out, fmt.Errorf("providers: empty response content")
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return CodeOpinion{Summary: content}, nil
	}
	return out, nil
}
