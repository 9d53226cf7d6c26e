package providers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iMAGRAY/ASTSentinel/internal/providers"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := providers.NewClient(providers.ClientConfig{Provider: providers.OpenAI})
	require.ErrorIs(t, err, providers.ErrNoProvider)
}

func TestParseNameCaseInsensitive(t *testing.T) {
	n, err := providers.ParseName("ANTHROPIC")
	require.NoError(t, err)
	require.Equal(t, providers.Anthropic, n)

	_, err = providers.ParseName("bogus")
	require.Error(t, err)
}

func TestValidateSecurityOpenAIShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"is_safe":true,"risk":"none"}`}},
			},
		})
	}))
	defer srv.Close()

	client, err := providers.NewClient(providers.ClientConfig{
		Provider:       providers.OpenAI,
		Model:          "gpt-4o-mini",
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	opinion, err := client.ValidateSecurity(context.Background(), "code", "system prompt")
	require.NoError(t, err)
	require.True(t, opinion.IsSafe)
	require.Equal(t, "none", opinion.Risk)
}

func TestValidateSecurityAnthropicShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": `{"is_safe":false,"risk":"high"}`}},
		})
	}))
	defer srv.Close()

	client, err := providers.NewClient(providers.ClientConfig{
		Provider:       providers.Anthropic,
		Model:          "claude-3-5-sonnet",
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	opinion, err := client.ValidateSecurity(context.Background(), "code", "system prompt")
	require.NoError(t, err)
	require.False(t, opinion.IsSafe)
	require.Equal(t, "high", opinion.Risk)
}

func TestAnalyzeCodeGoogleShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, ":generateContent")
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": `{"summary":"looks fine"}`}}}},
			},
		})
	}))
	defer srv.Close()

	client, err := providers.NewClient(providers.ClientConfig{
		Provider:       providers.Google,
		Model:          "gemini-1.5-flash",
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	opinion, err := client.AnalyzeCode(context.Background(), "code", "system prompt")
	require.NoError(t, err)
	require.Equal(t, "looks fine", opinion.Summary)
}

func TestNonJSONReplyDegradesGracefully(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "looks fine, no issues found"}},
			},
		})
	}))
	defer srv.Close()

	client, err := providers.NewClient(providers.ClientConfig{
		Provider:       providers.XAI,
		Model:          "grok-2",
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	opinion, err := client.ValidateSecurity(context.Background(), "code", "system prompt")
	require.NoError(t, err)
	require.True(t, opinion.IsSafe)
	require.Contains(t, opinion.Reasoning, "looks fine")
}
