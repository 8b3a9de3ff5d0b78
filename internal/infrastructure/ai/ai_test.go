package ai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asha-billing/internal/application/ports"
	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/infrastructure/ai"
	"github.com/jhoicas/asha-billing/pkg/config"
)

var sampleRows = []ports.Row{
	{"Bill Number": "AFI-0377", "Item Name": "pedestal fan", "Quantity": "10", "Price": "600"},
}

// ──────────────────────────────────────────────────────────────────────────────
// Gemini
// ──────────────────────────────────────────────────────────────────────────────

func geminiServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))

		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Contains(t, string(body), "AFI-0377")

		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
			return
		}
		resp := map[string]any{"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
		}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestGemini_TransformRows(t *testing.T) {
	srv := geminiServer(t, http.StatusOK,
		`{"updatedData":[{"Bill Number":"AFI-0377","Item Name":"Pedestal Fan","Quantity":10,"Price":"600.50"}],"explanation":"Title-cased item names"}`)
	defer srv.Close()

	svc := ai.NewGeminiService("k", "gemini-1.5-flash").WithBaseURL(srv.URL)
	res, err := svc.TransformRows(context.Background(), "title case item names", sampleRows)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Pedestal Fan", res.Rows[0]["Item Name"])
	assert.Equal(t, "10", res.Rows[0]["Quantity"])
	assert.Equal(t, "600.50", res.Rows[0]["Price"])
	assert.Equal(t, "Title-cased item names", res.Explanation)
}

func TestGemini_AnalyzeRowsFencedJSON(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, "```json\n{\"summary\":\"One bill\",\"insights\":[\"Fans dominate\"]}\n```")
	defer srv.Close()

	res, err := ai.NewGeminiService("k", "gemini-1.5-flash").WithBaseURL(srv.URL).
		AnalyzeRows(context.Background(), sampleRows)
	require.NoError(t, err)
	assert.Equal(t, "One bill", res.Summary)
	assert.Equal(t, []string{"Fans dominate"}, res.Insights)
}

func TestGemini_Errors(t *testing.T) {
	srv := geminiServer(t, http.StatusTooManyRequests, "")
	defer srv.Close()

	_, err := ai.NewGeminiService("k", "gemini-1.5-flash").WithBaseURL(srv.URL).
		AnalyzeRows(context.Background(), sampleRows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = ai.NewGeminiService("", "gemini-1.5-flash").AnalyzeRows(context.Background(), sampleRows)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	bad := geminiServer(t, http.StatusOK, "sorry, I cannot help")
	defer bad.Close()
	_, err = ai.NewGeminiService("k", "gemini-1.5-flash").WithBaseURL(bad.URL).
		TransformRows(context.Background(), "x", sampleRows)
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anthropic y OpenAI
// ──────────────────────────────────────────────────────────────────────────────

func TestAnthropic_AnalyzeRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Here you go: {\"summary\":\"ok\",\"insights\":[]}"}]}`))
	}))
	defer srv.Close()

	res, err := ai.NewAnthropicService("k", "claude").WithURL(srv.URL).AnalyzeRows(context.Background(), sampleRows)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Summary)
	assert.Empty(t, res.Insights)
}

func TestOpenAI_TransformRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"updatedData\":[],\"explanation\":\"cleared\"}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	res, err := ai.NewOpenAIService("k", "", srv.URL).TransformRows(context.Background(), "clear", sampleRows)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, "cleared", res.Explanation)

	_, err = ai.NewOpenAIService("", "", srv.URL).AnalyzeRows(context.Background(), sampleRows)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestNew_SelectsProvider(t *testing.T) {
	assert.IsType(t, &ai.GeminiService{}, ai.New(config.AIConfig{Provider: "gemini"}))
	assert.IsType(t, &ai.OpenAIService{}, ai.New(config.AIConfig{Provider: "openai"}))
	assert.IsType(t, &ai.AnthropicService{}, ai.New(config.AIConfig{Provider: "anthropic"}))
}
